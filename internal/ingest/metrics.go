package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/handiism/nmlgraph/internal/collection"
	"github.com/handiism/nmlgraph/internal/nml"
)

// Metrics holds the Prometheus collectors of the ingestion pipeline.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	records    *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	bytes      prometheus.Counter
	entities   *prometheus.GaugeVec
	duration   prometheus.Histogram
	loadErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nml_ingest_records_total",
			Help: "Records read from the collection document",
		}, []string{"kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nml_ingest_records_skipped_total",
			Help: "Records dropped as malformed",
		}, []string{"kind", "reason"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nml_ingest_bytes_read_total",
			Help: "Bytes consumed from collection sources",
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nml_ingest_entities",
			Help: "Entities in the last loaded collection",
		}, []string{"entity"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nml_ingest_load_seconds",
			Help:    "Duration of a collection load",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		loadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nml_ingest_load_errors_total",
			Help: "Collection loads that ended with an error",
		}, []string{"stage"}),
	}

	reg.MustRegister(m.records, m.skipped, m.bytes, m.entities, m.duration, m.loadErrors)
	return m
}

func (m *Metrics) record(kind nml.Kind) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) skip(s collection.Skip) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(s.Kind.String(), s.Reason.String()).Inc()
}

func (m *Metrics) loadError(stage string) {
	if m == nil {
		return
	}
	m.loadErrors.WithLabelValues(stage).Inc()
}

func (m *Metrics) finish(data *collection.Data, bytesRead int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.bytes.Add(float64(bytesRead))
	m.duration.Observe(elapsed.Seconds())
	m.entities.WithLabelValues("track").Set(float64(data.TrackCount()))
	m.entities.WithLabelValues("artist").Set(float64(data.ArtistCount()))
	m.entities.WithLabelValues("album").Set(float64(data.AlbumCount()))
	m.entities.WithLabelValues("playlist").Set(float64(data.PlaylistCount()))
}
