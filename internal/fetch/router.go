package fetch

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"github.com/ytget/yt-webfront/internal/model"
	"github.com/ytget/yt-webfront/internal/platform"
)

// PlatformRouter dispatches each URL to a fetcher chosen by its platform.
type PlatformRouter struct {
	routes   map[string]Fetcher
	fallback Fetcher
}

// NewPlatformRouter creates a router; fallback handles unmatched platforms
func NewPlatformRouter(fallback Fetcher) *PlatformRouter {
	return &PlatformRouter{
		routes:   make(map[string]Fetcher),
		fallback: fallback,
	}
}

// Route registers a fetcher for a platform name as returned by platform.DetectPlatform
func (r *PlatformRouter) Route(name string, f Fetcher) *PlatformRouter {
	r.routes[name] = f
	return r
}

// Fetch delegates to the fetcher registered for the URL's platform
func (r *PlatformRouter) Fetch(ctx context.Context, req Request) mo.Result[string] {
	f := r.pick(req.URL)
	if f == nil {
		return mo.Err[string](fmt.Errorf("no fetcher configured for %s", platform.DetectPlatform(req.URL)))
	}
	return f.Fetch(ctx, req)
}

// Inspect delegates when the chosen fetcher can inspect
func (r *PlatformRouter) Inspect(ctx context.Context, url string) (*model.MediaInfo, error) {
	in, ok := r.pick(url).(Inspector)
	if !ok {
		return nil, ErrInspectUnsupported
	}
	return in.Inspect(ctx, url)
}

func (r *PlatformRouter) pick(url string) Fetcher {
	if f, ok := r.routes[platform.DetectPlatform(url)]; ok {
		return f
	}
	return r.fallback
}
