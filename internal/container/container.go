package container

import (
	"context"
	"fmt"

	"heartrisk/adapters/artifact"
	"heartrisk/adapters/excel"
	"heartrisk/adapters/postgres"
	"heartrisk/adapters/remote"
	"heartrisk/internal"
	"heartrisk/internal/config"
	"heartrisk/internal/eda"
	"heartrisk/internal/profiles"
	"heartrisk/internal/scoring"
	"heartrisk/ports"
	"heartrisk/ui"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure, nil unless the dataset comes from Postgres
	DB *sqlx.DB

	Scoring   *scoring.Service
	Profiles  *profiles.Registry
	Dashboard *eda.Dashboard // nil when the dashboard is disabled
	Copy      *ui.Copy
}

// New creates a new dependency injection container. Nothing is loaded yet;
// call Warm to load the model and dataset in the background.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLevel(cfg.Log.Level))
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	reg, err := profiles.Load()
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	c.Profiles = reg

	copyText, err := ui.LoadCopy()
	if err != nil {
		return nil, fmt.Errorf("load page copy: %w", err)
	}
	c.Copy = copyText

	c.Scoring = scoring.NewService(modelLoader(cfg), logger.With("scoring"))

	if cfg.UI.EDAEnabled {
		source, err := c.datasetSource(ctx)
		if err != nil {
			return nil, err
		}
		c.Dashboard = eda.NewDashboard(source, logger.With("eda"))
	}
	return c, nil
}

func modelLoader(cfg *config.Config) ports.ClassifierLoader {
	if cfg.UseRemoteModel() {
		return remote.NewLoader(remote.Config{
			BaseURL: cfg.Model.URL,
			Token:   cfg.Model.Token,
			Timeout: cfg.Model.Timeout,
		})
	}
	return artifact.NewFileLoader(cfg.Model.Path)
}

func (c *Container) datasetSource(ctx context.Context) (ports.DatasetSource, error) {
	if c.Config.UsePostgresDataset() {
		db, err := postgres.Connect(ctx, c.Config.Dataset.DSN)
		if err != nil {
			return nil, err
		}
		c.DB = db
		return postgres.NewDatasetSource(db, c.Config.Dataset.Table), nil
	}
	return excel.NewDataReader(excel.ExcelConfig{
		FilePath: c.Config.Dataset.Path,
		Sheet:    c.Config.Dataset.Sheet,
	}), nil
}

// Warm loads the model and the dataset concurrently. Failures are memoized by
// the services and shown on the pages; startup carries on.
func (c *Container) Warm(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		clf, err := c.Scoring.Classifier(ctx)
		if err != nil {
			return nil
		}
		for key, err := range c.Profiles.Incompatible(clf.Info().Encoding) {
			c.Logger.Warn("profile %s cannot be scored: %v", key, err)
		}
		return nil
	})
	if c.Dashboard != nil {
		g.Go(func() error {
			_ = c.Dashboard.Warm(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// Deps exposes the services to the HTTP layer.
func (c *Container) Deps() *ui.Deps {
	return &ui.Deps{
		Scoring:   c.Scoring,
		Profiles:  c.Profiles,
		Dashboard: c.Dashboard,
		Copy:      c.Copy,
		Logger:    c.Logger.With("ui"),
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
