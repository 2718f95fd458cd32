package logging

import "testing"

func TestProgressSamplerEveryN(t *testing.T) {
	s := NewProgressSampler(10)
	var logged []int
	for done := 1; done <= 25; done++ {
		if s.ShouldLog(done, 25) {
			logged = append(logged, done)
		}
	}
	want := []int{10, 20, 25}
	if len(logged) != len(want) {
		t.Fatalf("logged %v, want %v", logged, want)
	}
	for i := range want {
		if logged[i] != want[i] {
			t.Fatalf("logged %v, want %v", logged, want)
		}
	}
}

func TestProgressSamplerCompletionOnly(t *testing.T) {
	s := NewProgressSampler(0)
	for done := 1; done < 5; done++ {
		if s.ShouldLog(done, 5) {
			t.Fatalf("unexpected progress log at %d", done)
		}
	}
	if !s.ShouldLog(5, 5) {
		t.Fatal("expected completion to log")
	}
	if s.ShouldLog(5, 5) {
		t.Fatal("completion should log once")
	}
}

func TestProgressSamplerIgnoresStaleCounts(t *testing.T) {
	s := NewProgressSampler(2)
	if !s.ShouldLog(4, 10) {
		t.Fatal("expected log at 4")
	}
	if s.ShouldLog(2, 10) {
		t.Fatal("out-of-order count should not log")
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(1, 2) {
		t.Fatal("nil sampler should always log")
	}
}
