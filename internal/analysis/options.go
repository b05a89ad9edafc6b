package analysis

import "fmt"

// DefaultTopN is the number of related pages kept per source page.
const DefaultTopN = 5

// Options holds analysis parameters
type Options struct {
	TopN     int  // related pages per source, >= 1
	Workers  int  // goroutines ranking pages concurrently, >= 1
	Topology bool // also describe the hyperlink graph
}

// DefaultOptions returns the defaults: top 5, one worker, no topology.
func DefaultOptions() Options {
	return Options{
		TopN:    DefaultTopN,
		Workers: 1,
	}
}

// Validate rejects non-positive TopN and Workers.
func (o Options) Validate() error {
	if o.TopN < 1 {
		return &ValidationError{Msg: fmt.Sprintf("top-n must be a positive integer, got %d", o.TopN)}
	}
	if o.Workers < 1 {
		return &ValidationError{Msg: fmt.Sprintf("workers must be a positive integer, got %d", o.Workers)}
	}
	return nil
}
