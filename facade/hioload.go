// File: facade/hioload.go
// Unified facade layer for the hioload runtime.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime aggregates the process-wide reactor, one executor, the metrics
// registry and the debug probes behind a single value built from Config.

package facade

import (
	"fmt"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/reactor"
	"github.com/momentics/hioload-rt/transport/httpget"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Runtime is the main facade type.
// It implements api.GracefulShutdown.
type Runtime struct {
	config   *Config
	logger   *logiface.Logger[logiface.Event]
	metrics  *control.MetricsRegistry
	probes   *control.DebugProbes
	reactor  *reactor.Reactor
	executor *executor.Executor
	exporter *control.StatsExporter

	mu      sync.Mutex
	started bool
}

var _ api.GracefulShutdown = (*Runtime)(nil)

// New validates cfg and prepares, but does not start, a Runtime. A nil cfg
// means DefaultConfig. A nil logger disables logging.
func New(cfg *Config, logger *logiface.Logger[logiface.Event]) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runtime{
		config:  cfg,
		logger:  logger,
		metrics: control.NewMetricsRegistry(),
		probes:  control.NewDebugProbes(),
	}, nil
}

// Init is New followed by Start.
func Init(cfg *Config, logger *logiface.Logger[logiface.Event]) (*Runtime, error) {
	h, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := h.Start(); err != nil {
		return nil, err
	}
	return h, nil
}

// Start launches the process-wide reactor and builds the executor.
// Subsequent calls have no effect.
func (h *Runtime) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return nil
	}
	cfg := h.config

	ropts := []reactor.Option{
		reactor.WithMaxEvents(cfg.MaxEvents),
		reactor.WithEdgeTriggered(cfg.EdgeTriggered),
		reactor.WithCPU(cfg.ReactorCPU),
		reactor.WithLogger(h.logger),
		reactor.WithMetrics(h.metrics),
	}
	r, err := reactor.Start(ropts...)
	if err != nil {
		return fmt.Errorf("facade: reactor init failure: %w", err)
	}

	order, _ := executor.ParseOrder(cfg.ReadyOrder)
	eopts := []executor.Option{
		executor.WithReadyOrder(order),
		executor.WithLockOSThread(cfg.LockOSThread),
		executor.WithCPU(cfg.ExecutorCPU),
		executor.WithLogger(h.logger),
		executor.WithMetrics(h.metrics),
	}
	if cfg.ContinueOnPanic {
		eopts = append(eopts, executor.WithContinueOnPanic())
	}
	h.reactor = r
	h.executor = executor.New(eopts...)

	h.probes.RegisterProbe("reactor.registrations", func() any { return r.Len() })
	h.probes.RegisterProbe("executor.running", func() any { return h.executor.Running() })
	h.probes.RegisterProbe("executor.stats", func() any { return h.executor.Stats() })
	h.addSources()

	h.started = true
	h.logger.Info().
		Str("ready_order", order.String()).
		Bool("edge_triggered", cfg.EdgeTriggered).
		Log("runtime started")
	return nil
}

// Stop closes the reactor. Calling Stop on a non-started Runtime is a no-op.
func (h *Runtime) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.started {
		return nil
	}
	err := h.reactor.Close()
	for _, name := range []string{"reactor.registrations", "executor.running", "executor.stats"} {
		h.probes.UnregisterProbe(name)
	}
	h.exporter.RemoveSource("reactor")
	h.started = false
	h.logger.Info().Log("runtime stopped")
	return err
}

// EnablePrometheus registers a collector for the executor and reactor
// counters with reg (nil means prom.DefaultRegisterer). It may be called
// before or after Start; later calls return the existing exporter.
func (h *Runtime) EnablePrometheus(reg prom.Registerer) (*control.StatsExporter, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exporter != nil {
		return h.exporter, nil
	}
	x, err := control.NewStatsExporter(h.config.MetricsNamespace, reg)
	if err != nil {
		return nil, fmt.Errorf("facade: prometheus: %w", err)
	}
	h.exporter = x
	if h.started {
		h.addSources()
	}
	return x, nil
}

// addSources requires h.mu and a built executor and reactor.
func (h *Runtime) addSources() {
	if h.exporter == nil {
		return
	}
	_ = h.exporter.AddSource("executor", h.executor)
	_ = h.exporter.AddSource("reactor", h.reactor)
}

// Shutdown is an alias for Stop.
func (h *Runtime) Shutdown() error {
	return h.Stop()
}

// Config returns the configuration the runtime was built from.
func (h *Runtime) Config() *Config { return h.config }

// Logger returns the runtime logger, possibly nil.
func (h *Runtime) Logger() *logiface.Logger[logiface.Event] { return h.logger }

// Executor returns the executor, nil before Start.
func (h *Runtime) Executor() *executor.Executor { return h.executor }

// Reactor returns the reactor, nil before Start.
func (h *Runtime) Reactor() *reactor.Reactor { return h.reactor }

// Metrics returns the shared metrics registry.
func (h *Runtime) Metrics() *control.MetricsRegistry { return h.metrics }

// DebugState evaluates every registered probe.
func (h *Runtime) DebugState() map[string]any { return h.probes.DumpState() }

// Get builds an HTTP GET future against the configured server address.
func (h *Runtime) Get(path string) *httpget.Future {
	return httpget.New(h.config.ServerAddr, path,
		httpget.WithReadBufferSize(h.config.ReadBufferSize),
		httpget.WithLogger(h.logger),
	)
}

// BlockOn runs root to completion on the runtime's executor.
func BlockOn[T any](h *Runtime, root api.Future[T]) (T, error) {
	h.mu.Lock()
	e := h.executor
	h.mu.Unlock()
	if e == nil {
		var zero T
		return zero, api.ErrNoReactor
	}
	return executor.BlockOn(e, root)
}
