package app

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/medmeal/pkg"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/aggregate"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/catalog"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/ledger"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/notification"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/patient"
	"github.com/aquamarinepk/aqm"
	aqmevents "github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/middleware"
	"github.com/aquamarinepk/aqm/seed"
	"github.com/go-chi/chi/v5"
)

const (
	AppName    = "medmeal"
	AppVersion = "0.1.0"
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// App encapsulates the meal ordering service
type App struct {
	config *aqm.Config
	logger aqm.Logger
	clock  func() time.Time
	micro  *aqm.Micro

	bus      *pkg.LocalBus
	catalog  *catalog.Store
	registry *patient.Registry
	ledger   *ledger.Ledger
	carts    *ledger.CartBook
	emitter  *notification.Emitter
	hub      *notification.Hub
	engine   *aggregate.Engine

	handlers   []routeRegistrar
	lifecycles []interface{}
}

// New creates a new service application
func New(config *aqm.Config, logger aqm.Logger) (*App, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &App{
		config: config,
		logger: logger,
		clock:  time.Now,
	}, nil
}

// Initialize wires stores, the event bus, seeds and HTTP modules
func (a *App) Initialize(ctx context.Context) error {
	a.bus = pkg.NewLocalBus()

	publisher, err := a.setupPublisher(ctx)
	if err != nil {
		return err
	}

	a.catalog = catalog.NewStore(publisher, a.clock, a.logger)
	a.registry = patient.NewRegistry(publisher, a.clock, a.logger)
	a.ledger = ledger.NewLedger(ledger.Deps{
		Catalog:   a.catalog,
		Registry:  a.registry,
		Publisher: publisher,
		Clock:     a.clock,
	}, a.config, a.logger)
	a.carts = ledger.NewCartBook(a.ledger)

	a.emitter = notification.NewEmitter(a.clock, a.logger)
	a.hub = notification.NewHub(a.logger)
	a.emitter.OnEmit(a.hub.Broadcast)

	// Subscribe before seeding so no event is missed
	subscriber := notification.NewSubscriber(a.bus, a.emitter, a.logger)
	if err := subscriber.Start(ctx); err != nil {
		return fmt.Errorf("cannot subscribe notifications: %w", err)
	}

	if a.seedingEnabled() {
		if err := a.applySeeds(ctx); err != nil {
			return err
		}
	}

	a.engine = aggregate.NewEngine(a.ledger, a.registry)

	catalogHandler := catalog.NewHandler(a.catalog, a.config, a.logger)
	patientHandler := patient.NewHandler(a.registry, a.config, a.logger)
	ledgerHandler := ledger.NewHandler(a.ledger, a.carts, a.config, a.logger)
	notificationHandler := notification.NewHandler(a.emitter, a.hub, a.logger)
	statsHandler := aggregate.NewHandler(a.engine, a.clock, a.logger)
	a.handlers = []routeRegistrar{catalogHandler, patientHandler, ledgerHandler, notificationHandler, statsHandler}

	hubLifecycle := aqm.LifecycleHooks{
		OnStop: a.hub.Stop,
	}
	a.lifecycles = append(a.lifecycles, hubLifecycle)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      a.logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	options := []aqm.Option{
		aqm.WithConfig(a.config),
		aqm.WithLogger(a.logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", catalogHandler, patientHandler, ledgerHandler, notificationHandler, statsHandler),
		aqm.WithLifecycle(a.lifecycles...),
		aqm.WithHealthChecks(AppName),
	}

	a.micro = aqm.NewMicro(options...)
	return nil
}

// setupPublisher returns the in-process bus, mirrored to NATS when a URL is
// configured. JetStream replaces core NATS when nats.stream.enabled is true.
func (a *App) setupPublisher(ctx context.Context) (aqmevents.Publisher, error) {
	natsURL, _ := a.config.GetString("nats.url")
	if natsURL == "" {
		return a.bus, nil
	}

	streamEnabled, _ := a.config.GetString("nats.stream.enabled")
	if streamEnabled == "true" {
		stream, err := pkg.NewNATSStream(ctx, pkg.NATSStreamConfig{
			URL:        natsURL,
			StreamName: "MEDMEAL_EVENTS",
			Subjects:   []string{"medmeal.>"},
			MaxAge:     24 * time.Hour,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot create NATS stream: %w", err)
		}
		a.logger.Info("NATS stream initialized for persistent events")
		a.lifecycles = append(a.lifecycles, aqm.LifecycleHooks{
			OnStop: func(context.Context) error { return stream.Close() },
		})
		return pkg.NewFanoutPublisher(a.bus, stream), nil
	}

	natsPublisher, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to NATS: %w", err)
	}
	a.logger.Info("NATS publisher connected", "url", natsURL)
	a.lifecycles = append(a.lifecycles, aqm.LifecycleHooks{
		OnStop: func(context.Context) error { return natsPublisher.Close() },
	})
	return pkg.NewFanoutPublisher(a.bus, natsPublisher), nil
}

func (a *App) seedingEnabled() bool {
	enabled, _ := a.config.GetString("seeding.demo")
	return enabled != "false"
}

func (a *App) applySeeds(ctx context.Context) error {
	var seeds []seed.Seed
	seeds = append(seeds, catalog.Seeds(a.catalog)...)
	seeds = append(seeds, patient.Seeds(a.registry)...)
	seeds = append(seeds, ledger.Seeds(a.ledger)...)
	seeds = append(seeds, notification.Seeds(a.emitter)...)

	for _, s := range seeds {
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("seed %s failed: %w", s.ID, err)
		}
		a.logger.Debug("seed applied", "id", s.ID)
	}
	a.logger.Infof("Applied %d demo seeds", len(seeds))
	return nil
}

// Run starts the application
func (a *App) Run(ctx context.Context) error {
	if a.micro == nil {
		return fmt.Errorf("app not initialized")
	}
	a.logger.Infof("Starting %s(%s)", AppName, AppVersion)
	if err := a.micro.Run(ctx); err != nil {
		return err
	}
	a.logger.Infof("%s(%s) stopped", AppName, AppVersion)
	return nil
}

// Router mounts every HTTP module on a bare chi router, without middleware.
func (a *App) Router() chi.Router {
	r := chi.NewRouter()
	for _, h := range a.handlers {
		h.RegisterRoutes(r)
	}
	return r
}
