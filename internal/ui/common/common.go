package common

import (
	"image"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/auth"
	"github.com/proptic/proptic/internal/cache"
	"github.com/proptic/proptic/internal/config"
	"github.com/proptic/proptic/internal/session"
	"github.com/proptic/proptic/internal/ui/styles"
)

// Common holds what every part of the UI shares: configuration, styles, the
// signed in session and the clients used to reach the platform.
type Common struct {
	Config  *config.Config
	Styles  *styles.Styles
	Session *session.Session
	Client  *api.Client
	Tokens  auth.Store
	// Cache keeps list snapshots for offline use. It may be nil.
	Cache *cache.Store
}

// DefaultCommon returns the default common UI configurations.
func DefaultCommon(cfg *config.Config) *Common {
	s := styles.DefaultStyles()
	return &Common{
		Config:  cfg,
		Styles:  &s,
		Session: session.New(),
	}
}

// CenterRect returns a new [Rectangle] centered within the given area with the
// specified width and height.
func CenterRect(area uv.Rectangle, width, height int) uv.Rectangle {
	centerX := area.Min.X + area.Dx()/2
	centerY := area.Min.Y + area.Dy()/2
	minX := centerX - width/2
	minY := centerY - height/2
	maxX := minX + width
	maxY := minY + height
	return image.Rect(minX, minY, maxX, maxY)
}
