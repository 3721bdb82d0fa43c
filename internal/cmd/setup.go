package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/auth"
	"github.com/proptic/proptic/internal/cache"
	"github.com/proptic/proptic/internal/config"
	"github.com/proptic/proptic/internal/log"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/spf13/cobra"
)

type app struct {
	com *common.Common
}

func (a *app) Close() {
	if a.com.Cache == nil {
		return
	}
	if err := a.com.Cache.Close(); err != nil {
		slog.Warn("Failed to close cache", "error", err)
	}
}

// setupApp loads the configuration, applies the global flags and builds
// what commands share. The dashboard logs to the log file only; the other
// commands also log to stderr in debug mode.
func setupApp(cmd *cobra.Command, interactive bool) (*app, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	apiURL, _ := cmd.Flags().GetString("api-url")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	cfg.Debug = cfg.Debug || debug

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if !interactive && cfg.Debug {
		slog.SetDefault(log.NewConsole(os.Stderr, true))
	} else {
		log.Setup(cfg.LogFile(), cfg.Debug)
	}

	com := common.DefaultCommon(cfg)
	com.Tokens = auth.NewStore(cfg.TokenFile(), cfg.Options.DisableKeyring)
	com.Client, err = api.New(cfg.APIURL, cfg.Timeout(), com.Session)
	if err != nil {
		return nil, err
	}

	if interactive && !cfg.Options.DisableCache {
		c, err := cache.Open(cmd.Context(), cfg.CacheFile())
		if err != nil {
			slog.Warn("Offline cache unavailable", "error", err)
		} else {
			com.Cache = c
		}
	}
	return &app{com: com}, nil
}

var errNotSignedIn = errors.New("not signed in, run proptic login first")

// restoreToken signs the session in with the stored token.
func (a *app) restoreToken() error {
	token, err := a.com.Tokens.Load()
	if errors.Is(err, auth.ErrNotFound) {
		return errNotSignedIn
	}
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}
	if auth.Expired(token, time.Now(), 0) {
		return errors.New("session expired, run proptic login again")
	}
	a.com.Session.SignIn(token)
	return nil
}
