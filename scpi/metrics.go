package scpi

import "github.com/puzpuzpuz/xsync/v3"

// Metrics contains counters for one Engine.
// Values can back a prometheus CounterFunc or GaugeFunc.
type Metrics struct {
	// WriteCount is the number of commands sent.
	WriteCount *xsync.Counter
	// ReadCount is the number of reply lines received.
	ReadCount *xsync.Counter
	// QueryCount is the number of Query calls.
	QueryCount *xsync.Counter
	// ReadTimeoutCount is the number of reads that failed with ErrReadTimeout.
	ReadTimeoutCount *xsync.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		WriteCount:       xsync.NewCounter(),
		ReadCount:        xsync.NewCounter(),
		QueryCount:       xsync.NewCounter(),
		ReadTimeoutCount: xsync.NewCounter(),
	}
}
