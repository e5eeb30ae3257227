// Package app wires the Gravity client together: configuration,
// logging, the API client, the saved session, and the terminal UI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mohdsalimkhatib/Gravity/internal/api"
	"github.com/mohdsalimkhatib/Gravity/internal/config"
	"github.com/mohdsalimkhatib/Gravity/internal/logging"
	"github.com/mohdsalimkhatib/Gravity/internal/prefs"
	"github.com/mohdsalimkhatib/Gravity/internal/session"
	"github.com/mohdsalimkhatib/Gravity/internal/state"
	"github.com/mohdsalimkhatib/Gravity/internal/ui"
)

// Options are the command-line overrides.
type Options struct {
	ConfigPath string
	ServerURL  string
	LogLevel   string
}

// Run assembles the client and blocks in the UI until it exits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}

	level := opts.LogLevel
	if level == "" {
		level = "info"
	}
	log, err := logging.New(cfg.LogPath, level)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	client, err := api.NewClient(cfg.ServerURL, log)
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	sessionPath := cfg.SessionPath
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	sess := session.New(client, sessionPath, log)
	sess.Load()

	prefsPath := prefs.DefaultPath()
	p := prefs.Load(prefsPath)

	log.Info("gravity starting",
		zap.String("server", cfg.ServerURL),
		zap.Bool("authenticated", sess.IsAuthenticated()))

	return ui.Run(ui.Options{
		Context:   ctx,
		Repo:      client,
		Session:   sess,
		Store:     &state.Store{},
		Config:    cfg,
		Prefs:     p,
		PrefsPath: prefsPath,
		Logger:    log,
	})
}
