package batch

import "time"

// Stats summarizes one batch run. A report is produced even when the run is
// cancelled partway.
type Stats struct {
	BatchID      string
	Total        int
	Successful   int
	Failed       int
	ManualNeeded int
	Skipped      int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration is the wall time of the run.
func (s *Stats) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// SuccessRate is the fraction of processed rows that resolved, in percent.
// Skipped rows are not counted against it.
func (s *Stats) SuccessRate() float64 {
	processed := s.Total - s.Skipped
	if processed <= 0 {
		return 0
	}
	return float64(s.Successful) / float64(processed) * 100
}
