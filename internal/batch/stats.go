package batch

import (
	"callscribe/internal/summary"
	"callscribe/internal/topics"
)

// Stats tallies per-row outcomes of one batch.
type Stats struct {
	Rows            int `json:"rows"`
	Summarized      int `json:"summarized"`
	SummarySkipped  int `json:"summary_skipped"`
	SummaryDegraded int `json:"summary_degraded"`
	Classified      int `json:"classified"`
	ClassifySkipped int `json:"classify_skipped"`
	ParseFailed     int `json:"parse_failed"`
	LLMFailed       int `json:"llm_failed"`
}

func (s *Stats) addSummary(status summary.Status) {
	switch status {
	case summary.StatusSummarized:
		s.Summarized++
	case summary.StatusSkipped:
		s.SummarySkipped++
	case summary.StatusDegraded:
		s.SummaryDegraded++
	}
}

func (s *Stats) addTopics(status topics.Status) {
	switch status {
	case topics.StatusClassified:
		s.Classified++
	case topics.StatusSkipped:
		s.ClassifySkipped++
	case topics.StatusParseFailed:
		s.ParseFailed++
	case topics.StatusLLMFailed:
		s.LLMFailed++
	}
}
