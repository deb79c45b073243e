package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Codec operation labels.
const (
	OpDecodeText   = "decode_text"
	OpEncodeText   = "encode_text"
	OpDecodeBinary = "decode_binary"
	OpEncodeBinary = "encode_binary"

	OutcomeOK = "ok"
)

var (
	registerOnce sync.Once

	codecOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reqwire",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Codec operations by outcome.",
		},
		[]string{"codec", "op", "outcome"},
	)
	codecBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reqwire",
			Subsystem: "codec",
			Name:      "bytes",
			Help:      "Size of successfully decoded inputs and encoded outputs.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"codec", "op"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecOps, codecBytes)
	})
}

// RecordCodecOp counts one codec call. outcome is OutcomeOK or an error kind;
// size is only observed for successful calls.
func RecordCodecOp(codec, op, outcome string, size int) {
	RegisterMetrics()
	codecOps.WithLabelValues(codec, op, outcome).Inc()
	if outcome == OutcomeOK {
		codecBytes.WithLabelValues(codec, op).Observe(float64(size))
	}
}
