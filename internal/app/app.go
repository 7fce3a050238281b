package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/khrees2412/jobapplier/internal/config"
	"github.com/khrees2412/jobapplier/internal/database"
	"github.com/khrees2412/jobapplier/internal/letter"
	"github.com/khrees2412/jobapplier/internal/notion"
	"github.com/khrees2412/jobapplier/internal/pipeline"
	"github.com/khrees2412/jobapplier/internal/records"
	"github.com/khrees2412/jobapplier/pkg/models"
)

// App is the dependency container for the CLI application
type App struct {
	Store      *config.Store
	Config     *config.Config
	Logger     *slog.Logger
	Notion     *notion.Client
	Journal    *database.Journal
	Normalizer *records.Normalizer
	Builder    *letter.Builder
}

// Options selects the config file and log level override of NewApp
type Options struct {
	ConfigPath string
	LogLevel   string
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context, opts Options) (*App, error) {
	// Initialize config
	store, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg, err := store.Config()
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	logger := NewLogger(cfg.LogLevel)

	fields := records.DefaultFields()
	fields.Position = cfg.PositionProperty
	normalizer, err := records.NewNormalizer(fields, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to compile record schema: %w", err)
	}

	a := &App{
		Store:      store,
		Config:     cfg,
		Logger:     logger,
		Normalizer: normalizer,
		Builder:    letter.NewBuilder(letter.Templates{EN: cfg.ENTemplate, FR: cfg.FRTemplate}),
	}

	if cfg.JournalPath != "" {
		journal, err := database.Open(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
		a.Journal = journal
	}

	return a, nil
}

// Connect validates the Notion settings and creates the API client.
// Commands that never reach the database skip it.
func (a *App) Connect() error {
	if a.Notion != nil {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	a.Notion = notion.New(notion.Options{
		BaseURL:    a.Config.APIBaseURL,
		Token:      a.Config.NotionToken,
		Version:    a.Config.NotionVersion,
		DatabaseID: a.Config.DatabaseID,
		Timeout:    a.Config.HTTPTimeout,
		Logger:     a.Logger,
	})
	return nil
}

// LoadRecords fetches and normalizes every entry of the configured database
func (a *App) LoadRecords(ctx context.Context) ([]models.ApplicationRecord, error) {
	if err := a.Connect(); err != nil {
		return nil, err
	}
	raws, err := a.Notion.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}
	return a.Normalizer.NormalizeAll(raws), nil
}

// JournalOrNil returns the journal as a pipeline.Journal, nil when disabled
func (a *App) JournalOrNil() pipeline.Journal {
	if a.Journal == nil {
		return nil
	}
	return a.Journal
}

// Close closes all resources
func (a *App) Close() error {
	if a.Journal != nil {
		return a.Journal.Close()
	}
	return nil
}

// NewLogger builds the stderr text logger for a level name
func NewLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
