package container

import (
	"context"
	"fmt"
	"log"

	"exoml/adapters/catalog"
	"exoml/adapters/rng"
	"exoml/adapters/sqlstore"
	"exoml/internal"
	"exoml/internal/api"
	"exoml/internal/charts"
	"exoml/internal/config"
	"exoml/internal/explain"
	"exoml/internal/export"
	"exoml/internal/modes"
	"exoml/internal/session"
	"exoml/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB     *sqlx.DB
	Logger *internal.Logger

	// Data access
	Catalog       *catalog.Store
	CandidateRepo ports.CandidateRepository
	RNG           ports.RNGPort

	// Viewer components
	Charts   *charts.Renderer
	Saver    *export.Saver
	SSEHub   *api.SSEHub
	Sessions *session.Manager

	// Backend components
	Explain *explain.Service

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new dependency injection container. The catalog is loaded
// once here and never changes afterwards.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &Container{
		Config: cfg,
		Logger: internal.DefaultLogger,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := c.initCatalog(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize catalog: %w", err)
	}

	c.RNG = rng.New(cfg.Charts.Population)
	c.Charts = charts.NewRenderer(c.RNG, cfg.Charts.Width, cfg.Charts.Height, cfg.Charts.MaxConcurrentRenders)

	log.Printf("Container initialized with %d samples (%s)", c.Catalog.Len(), c.Catalog.Source())
	return c, nil
}

func (c *Container) initCatalog() error {
	src, err := catalog.SourceFor(c.Config.Catalog.File, c.Config.Catalog.DataPath)
	if err != nil {
		return err
	}
	c.Catalog, err = catalog.Load(c.ctx, src)
	return err
}

// InitWithDatabase wires the optional repository. A nil db keeps saved
// candidates on the log sink only.
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db != nil {
		if err := db.PingContext(c.ctx); err != nil {
			return fmt.Errorf("database connection test failed: %w", err)
		}
		c.DB = db
		c.CandidateRepo = sqlstore.NewCandidateRepository(db)
	}

	c.Saver = export.NewSaver(c.CandidateRepo, c.Logger)
	c.Explain = explain.NewService(c.Catalog, c.CandidateRepo)
	return nil
}

// InitViewer starts the notification hub and the session registry
func (c *Container) InitViewer() {
	c.SSEHub = api.NewSSEHub(c.ctx)

	cfg := modes.Config{
		TestDuration:    c.Config.Modes.TestDuration,
		RetrainDuration: c.Config.Modes.RetrainDuration,
		RetrainCooldown: c.Config.Modes.RetrainCooldown,
	}
	c.Sessions = session.NewManager(c.ctx, c.Catalog, cfg, c.SSEHub, c.Config.Session.IdleTimeout)
}

// Context is cancelled on Shutdown
func (c *Container) Context() context.Context { return c.ctx }

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Sessions != nil {
		c.Sessions.CloseAll()
	}
	c.cancel()
	if c.SSEHub != nil {
		<-c.SSEHub.Done()
	}

	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
