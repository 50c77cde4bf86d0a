package transport

import "github.com/puzpuzpuz/xsync/v3"

// Metrics contains counters for one transport instance.
// Values can back a prometheus CounterFunc or GaugeFunc.
type Metrics struct {
	// SendCount is the number of successful Send calls.
	SendCount *xsync.Counter
	// SendErrCount is the number of failed Send calls.
	SendErrCount *xsync.Counter
	// BytesSent is the number of bytes accepted by the medium.
	BytesSent *xsync.Counter
	// BytesRecv is the number of bytes appended to the receive buffer.
	BytesRecv *xsync.Counter
	// OpenCount is the number of successful Open calls.
	OpenCount *xsync.Counter
}

// NewMetrics returns a zeroed Metrics set.
func NewMetrics() *Metrics {
	return &Metrics{
		SendCount:    xsync.NewCounter(),
		SendErrCount: xsync.NewCounter(),
		BytesSent:    xsync.NewCounter(),
		BytesRecv:    xsync.NewCounter(),
		OpenCount:    xsync.NewCounter(),
	}
}

func (m *Metrics) incSend(n int) {
	m.SendCount.Inc()
	m.BytesSent.Add(int64(n))
}

func (m *Metrics) incSendErr() {
	m.SendErrCount.Inc()
}

func (m *Metrics) addRecv(n int) {
	m.BytesRecv.Add(int64(n))
}
