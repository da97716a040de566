package app

import (
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/huddlehq/huddle/internal/huddle/storage/sqlite"
	"github.com/huddlehq/huddle/internal/huddle/store"
	"github.com/huddlehq/huddle/pkg/cmsdk"
	"github.com/huddlehq/huddle/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the remote client and the stores together. Stores are
// constructed once here and shared for the process lifetime.
type Application struct {
	cfg     Config
	logger  *slog.Logger
	storage *sqlite.Storage

	Client  *cmsdk.Client
	Session *store.SessionStore
	CheckIn *store.CheckInStore
	Teams   *store.TeamStore
	Users   *store.UserStore
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	logger := slogx.New(slogx.Config{
		App:     "huddle",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	storage, err := sqlite.NewStorage(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	if err := storage.ApplyMigrations(); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("failed to migrate state file: %w", err)
	}

	client := cmsdk.New(cfg.CMSURL)
	client.HTTPClient.Timeout = cfg.RequestTimeout
	client.Storage = storage
	if cfg.RequestsPerSecond > 0 {
		client.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst)
	}

	session := store.NewSessionStore(client, logger)

	return &Application{
		cfg:     cfg,
		logger:  logger,
		storage: storage,
		Client:  client,
		Session: session,
		CheckIn: store.NewCheckInStore(session, logger),
		Teams:   store.NewTeamStore(session, logger),
		Users:   store.NewUserStore(session, logger),
	}, nil
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Close releases the token storage.
func (a *Application) Close() error { return a.storage.Close() }
