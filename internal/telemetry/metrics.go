package telemetry

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Metrics holds the Prometheus instruments for qalpha sweep runs. Each
// instance carries its own registry so repeated construction (tests, multiple
// sweeps in one process) never collides.
type Metrics struct {
	registry *prometheus.Registry

	SimulationsTotal   prometheus.Counter
	SimulationErrors   prometheus.Counter
	DefaultedPaths     prometheus.Counter
	SimulationDuration prometheus.Histogram
	ActiveWorkers      prometheus.Gauge
}

// NewMetrics creates and registers the qalpha metrics set.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		SimulationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "qalpha_simulations_total",
				Help: "Total number of completed Monte Carlo default estimates",
			},
		),

		SimulationErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "qalpha_simulation_errors_total",
				Help: "Total number of (bond, recovery rate) cells that failed validation",
			},
		),

		DefaultedPaths: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "qalpha_defaulted_paths_total",
				Help: "Total number of simulated paths absorbed at the default floor",
			},
		),

		SimulationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qalpha_simulation_duration_seconds",
				Help:    "Duration of a single Monte Carlo default estimate",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
		),

		ActiveWorkers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "qalpha_active_sweep_workers",
				Help: "Number of sweep workers currently running simulations",
			},
		),
	}

	m.registry.MustRegister(
		m.SimulationsTotal,
		m.SimulationErrors,
		m.DefaultedPaths,
		m.SimulationDuration,
		m.ActiveWorkers,
	)
	return m
}

// ObserveSimulation records one completed estimate.
func (m *Metrics) ObserveSimulation(duration time.Duration, defaultedPaths int) {
	m.SimulationsTotal.Inc()
	m.DefaultedPaths.Add(float64(defaultedPaths))
	m.SimulationDuration.Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics and /healthz on addr in a background goroutine and
// returns the server so the caller can shut it down.
func (m *Metrics) Serve(addr string) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", m.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		log.Info().Str("addr", addr).Msg("Metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return srv
}
