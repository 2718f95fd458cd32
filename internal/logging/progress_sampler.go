package logging

import "sync"

// ProgressSampler decides when a batch progress line is worth emitting.
// It fires every N completed rows and once more when the batch finishes.
// Safe for concurrent use.
type ProgressSampler struct {
	mu       sync.Mutex
	every    int
	lastDone int
}

// NewProgressSampler returns a sampler firing every `every` rows. Zero or a
// negative value only reports completion.
func NewProgressSampler(every int) *ProgressSampler {
	if every < 0 {
		every = 0
	}
	return &ProgressSampler{every: every}
}

// ShouldLog reports whether progress at done/total should be logged.
func (s *ProgressSampler) ShouldLog(done, total int) bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if done <= s.lastDone {
		return false
	}
	emit := done >= total
	if s.every > 0 && done/s.every > s.lastDone/s.every {
		emit = true
	}
	if emit {
		s.lastDone = done
	}
	return emit
}
