package fxcli

import (
	"sync/atomic"
)

// ClientMetrics contains atomic metrics for a client.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ClientMetrics struct {
	// SendCount indicates the number of command datagrams sent.
	SendCount atomic.Uint64
	// SendErrCount indicates the number of failed sends.
	SendErrCount atomic.Uint64

	// RecvCount indicates the number of datagrams received.
	RecvCount atomic.Uint64
	// RoutedCount indicates the number of replies stored in a tag slot.
	RoutedCount atomic.Uint64
	// MalformedCount indicates the number of datagrams without an OK prefix
	// or a routing tag.
	MalformedCount atomic.Uint64
	// UnknownTagCount indicates the number of well-formed replies whose tag
	// is not recognized.
	UnknownTagCount atomic.Uint64
	// TimeoutCount indicates the number of waits that ended without a reply.
	TimeoutCount atomic.Uint64
	// DrainCutCount indicates the number of engine iterations that stopped
	// draining because the drain budget was spent.
	DrainCutCount atomic.Uint64

	// RecreateCount indicates the number of successful socket recreations.
	RecreateCount atomic.Uint64
	// RecreateErrCount indicates the number of failed socket recreations.
	RecreateErrCount atomic.Uint64

	// SeqGapCount indicates the number of sequence discontinuities.
	SeqGapCount atomic.Uint64
	// SeqLostCount indicates the number of replies missing across all gaps.
	SeqLostCount atomic.Uint64

	// KeepAliveSendCount indicates the number of keep-alive pings sent.
	KeepAliveSendCount atomic.Uint64
	// KeepAliveErrCount indicates the number of unanswered keep-alive pings.
	KeepAliveErrCount atomic.Uint64
}

func (m *ClientMetrics) incSendCount() {
	m.SendCount.Add(1)
}

func (m *ClientMetrics) incSendErrCount() {
	m.SendErrCount.Add(1)
}

func (m *ClientMetrics) incRecvCount() {
	m.RecvCount.Add(1)
}

func (m *ClientMetrics) incRoutedCount() {
	m.RoutedCount.Add(1)
}

func (m *ClientMetrics) incMalformedCount() {
	m.MalformedCount.Add(1)
}

func (m *ClientMetrics) incUnknownTagCount() {
	m.UnknownTagCount.Add(1)
}

func (m *ClientMetrics) incTimeoutCount() {
	m.TimeoutCount.Add(1)
}

func (m *ClientMetrics) incDrainCutCount() {
	m.DrainCutCount.Add(1)
}

func (m *ClientMetrics) incRecreateCount() {
	m.RecreateCount.Add(1)
}

func (m *ClientMetrics) incRecreateErrCount() {
	m.RecreateErrCount.Add(1)
}

func (m *ClientMetrics) addSeqGap(lost uint64) {
	m.SeqGapCount.Add(1)
	m.SeqLostCount.Add(lost)
}

func (m *ClientMetrics) incKeepAliveSendCount() {
	m.KeepAliveSendCount.Add(1)
}

func (m *ClientMetrics) incKeepAliveErrCount() {
	m.KeepAliveErrCount.Add(1)
}
