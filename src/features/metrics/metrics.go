package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"chronotune/src/features/organize"
	"chronotune/src/music"
)

// Recorder exposes per-file counters on a private Prometheus registry.
// It satisfies the organize service's monitoring hook.
type Recorder struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	moves       *prometheus.CounterVec
	backups     prometheus.Counter
	failures    prometheus.Counter
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronotune",
			Name:      "resolutions_total",
			Help:      "Year resolutions by source.",
		}, []string{"source"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronotune",
			Name:      "moves_total",
			Help:      "Files moved by destination category.",
		}, []string{"category"}),
		backups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chronotune",
			Name:      "backups_total",
			Help:      "Backup copies made before moving.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chronotune",
			Name:      "failures_total",
			Help:      "Files that could not be placed.",
		}),
	}

	registry.MustRegister(r.resolutions, r.moves, r.backups, r.failures)
	return r
}

// Registry returns the registry backing the /metrics endpoint.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Resolution(source music.Source) {
	r.resolutions.WithLabelValues(string(source)).Inc()
}

func (r *Recorder) Moved(category organize.Category) {
	r.moves.WithLabelValues(string(category)).Inc()
}

func (r *Recorder) BackedUp() {
	r.backups.Inc()
}

func (r *Recorder) Failed() {
	r.failures.Inc()
}
