package cardrank

import "time"

// Recorder receives engine measurements.
type Recorder interface {
	// ObserveLoad is called once per table load.
	ObserveLoad(rows, headers int, took time.Duration)
	// ObserveRank is called once per ranking call.
	ObserveRank(mode string, shown int, took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLoad(int, int, time.Duration)    {}
func (nopRecorder) ObserveRank(string, int, time.Duration) {}
