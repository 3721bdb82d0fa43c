package model

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/cache"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/dialog"
	"github.com/proptic/proptic/internal/uiutil"
)

type pageID uint8

const (
	pageHome pageID = iota
	pageTenants
	pageUnits
)

// page is a sidebar destination of the dashboard.
type page interface {
	help.KeyMap

	ID() pageID
	Title() string
	// Load fetches the page data.
	Load() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	// HandleAction receives the actions of dialogs the page opened.
	HandleAction(action dialog.Action) tea.Cmd
	View(width, height int) string
	// Capturing reports whether text input is focused, in which case
	// printable global keys are not intercepted.
	Capturing() bool
}

// fetchStatus is embedded in every message carrying an API result. seq
// tags the request so stale responses are dropped.
type fetchStatus struct {
	seq uint64
	// offline is set when the API was unreachable.
	offline bool
	// cachedAt is set when the data came from the snapshot cache.
	cachedAt time.Time
	err      error
}

func (f fetchStatus) status() fetchStatus { return f }

type apiResult interface {
	status() fetchStatus
}

func statusOf(err error) fetchStatus {
	return fetchStatus{err: err, offline: errors.Is(err, api.ErrNetwork)}
}

// requestCtx bounds the API calls of a single command.
func (c *pageCtx) requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout(c.com))
}

// pageCtx is what pages share with the root model.
type pageCtx struct {
	com    *common.Common
	keyMap *KeyMap
	dialog *dialog.Overlay
}

// cacheOwner returns the user snapshots are scoped to. Loads capture it
// before their request so a sign out in between is noticed.
func (c *pageCtx) cacheOwner() string {
	if c.com.Cache == nil {
		return ""
	}
	return c.com.Cache.Owner()
}

// snapshot stores v in the cache for owner, ignoring a disabled cache. The
// write is dropped when owner is no longer signed in.
func (c *pageCtx) snapshot(ctx context.Context, owner, key string, v any) {
	if c.com.Cache == nil {
		return
	}
	err := c.com.Cache.Put(ctx, owner, key, v)
	switch {
	case errors.Is(err, cache.ErrOwnerChanged):
		slog.Debug("Dropped snapshot of signed out user", "key", key)
	case err != nil:
		slog.Warn("Failed to store snapshot", "key", key, "error", err)
	}
}

// restore loads the snapshot of key for owner into out when the API is
// unreachable. It returns the snapshot time, zero when nothing was restored.
func (c *pageCtx) restore(ctx context.Context, owner, key string, out any) time.Time {
	if c.com.Cache == nil {
		return time.Time{}
	}
	at, err := c.com.Cache.Get(ctx, owner, key, out)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("Failed to read snapshot", "key", key, "error", err)
		}
		return time.Time{}
	}
	return at
}

func (c *pageCtx) currency() string {
	if c.com.Config == nil {
		return "USD"
	}
	return c.com.Config.Options.Currency
}

func (c *pageCtx) pageSize() int {
	if c.com.Config == nil {
		return 0
	}
	return c.com.Config.Options.PageSize
}

func copyToClipboard(what, value string) tea.Cmd {
	return tea.Sequence(
		tea.SetClipboard(value),
		func() tea.Msg {
			if err := clipboard.WriteAll(value); err != nil {
				slog.Debug("Native clipboard unavailable", "error", err)
			}
			return nil
		},
		uiutil.ReportSuccess(what+" copied to clipboard"),
	)
}

// reportUnlessUnauthorized reports err in the status line. Unauthorized
// errors are left to the root model, which signs the user out.
func reportUnlessUnauthorized(err error) tea.Cmd {
	if errors.Is(err, api.ErrUnauthorized) {
		return nil
	}
	return uiutil.ReportError(err)
}
