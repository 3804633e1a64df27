package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/dronecoord/app/plugins"
	"github.com/kilianp07/dronecoord/config"
	"github.com/kilianp07/dronecoord/core/audit"
	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/events"
	coremetrics "github.com/kilianp07/dronecoord/core/metrics"
	coremon "github.com/kilianp07/dronecoord/core/monitoring"
	"github.com/kilianp07/dronecoord/core/ops"
	"github.com/kilianp07/dronecoord/infra/ingest"
	"github.com/kilianp07/dronecoord/infra/logger"
	"github.com/kilianp07/dronecoord/infra/metrics"
	"github.com/kilianp07/dronecoord/infra/monitoring"
	"github.com/kilianp07/dronecoord/infra/mqtt"
	"github.com/kilianp07/dronecoord/internal/eventbus"
	"github.com/kilianp07/dronecoord/internal/intent"
)

// Service wires the roster, the coordinator and its collaborators.
type Service struct {
	Coordinator *coordinator.Coordinator
	Executor    *ops.Executor
	Router      *intent.Router
	Audit       audit.LogStore

	cfg       *config.Config
	bus       *eventbus.TypedBus[events.Decision]
	sink      coremetrics.MetricsSink
	publisher *mqtt.Publisher
	log       logger.Logger
}

// New loads the roster and builds a Service from the configuration. Only a
// roster that cannot be read at all is fatal.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	r, err := ingest.Load(cfg.Data.Format, cfg.Data.Fixture, ingest.CSVPaths{
		Pilots:   cfg.Data.Pilots,
		Drones:   cfg.Data.Drones,
		Missions: cfg.Data.Missions,
	})
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	store, err := r.Store(logger.New("ingest"))
	if err != nil {
		return nil, fmt.Errorf("build roster: %w", err)
	}
	logg.Infof("roster loaded: %d pilots, %d drones, %d missions", len(r.Pilots), len(r.Drones), len(r.Missions))

	auditStore, err := plugins.NewAuditStore(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics)
	if err != nil {
		_ = auditStore.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.NewTyped[events.Decision]()
	coord := coordinator.New(store,
		coordinator.WithLogger(logger.New("coordinator")),
		coordinator.WithAudit(auditStore),
		coordinator.WithBus(bus),
	)
	exec := ops.NewExecutor(coord)
	svc := &Service{
		Coordinator: coord,
		Executor:    exec,
		Router:      intent.NewRouter(coord, logger.New("intent")),
		Audit:       auditStore,
		cfg:         cfg,
		bus:         bus,
		sink:        sink,
		log:         logg,
	}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT, exec, logger.New("mqtt"))
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	return NewMux(s.Coordinator, s.Executor, s.Router, s.Audit)
}

// Run starts the collaborators and the HTTP server and blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	collected := metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.cfg.Metrics.HasSink("prometheus") {
		metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddress, nil)
	}
	var published <-chan struct{}
	if s.publisher != nil {
		published = s.publisher.Run(ctx, s.bus)
	}

	srv := &http.Server{Addr: s.cfg.Server.Address, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		defer coremon.Recover()
		s.log.Infof("listening on %s", s.cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warnf("http shutdown: %v", err)
	}
	s.bus.Close()
	<-collected
	if published != nil {
		<-published
	}
	return runErr
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	defer coremon.Flush(2 * time.Second)
	if s.publisher != nil {
		s.publisher.Close()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return s.Audit.Close()
}
