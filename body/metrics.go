package body

import "github.com/prometheus/client_golang/prometheus"

// metrics tracks bytes moved, chunks parsed, and decode failures broken
// down by Kind.
type metrics struct {
	bytesTransferred prometheus.Counter
	chunksDecoded    prometheus.Counter
	decodeErrors     *prometheus.CounterVec
	decodeDuration   prometheus.Histogram
}

var defaultMetrics = newMetrics(prometheus.DefaultRegisterer)

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		bytesTransferred: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bodydecode",
			Name:      "bytes_transferred_total",
			Help:      "Total body bytes copied from source to sink across all decodes.",
		}),
		chunksDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bodydecode",
			Name:      "chunks_decoded_total",
			Help:      "Total non-terminal chunks consumed in chunked-framing decodes.",
		}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bodydecode",
			Name:      "decode_errors_total",
			Help:      "Decode failures by error kind.",
		}, []string{"kind"}),
		decodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bodydecode",
			Name:      "decode_duration_seconds",
			Help:      "Wall-clock duration of a single blocking Decode call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.bytesTransferred, m.chunksDecoded, m.decodeErrors, m.decodeDuration)
	}
	return m
}

func (m *metrics) observeError(kind Kind) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(kind.String()).Inc()
}
