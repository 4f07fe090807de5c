// Package store keeps the little local state frota has: the gateway
// endpoint URL cached between sessions.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	settingsDir = "settings"
	endpointKey = "endpoint"
)

// Settings is the persisted connection state.
type Settings interface {
	// Endpoint returns the cached gateway URL, if any.
	Endpoint() (string, bool)
	// SetEndpoint caches url for later sessions.
	SetEndpoint(url string) error
	// Watch streams change events until ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load opens the settings store under the configured base path. A nil
// cfg loads the configuration from disk.
func Load(cfg Config) (Settings, error) {
	if cfg == nil {
		fc, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = fc
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	dir := filepath.Join(basePath, settingsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure settings directory: %w", err)
	}
	return &settings{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			// No cache: another process may rewrite the endpoint.
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 0,
		}),
		basePath: dir,
	}, nil
}

type settings struct {
	d        *diskv.Diskv
	basePath string
}

func (s *settings) Endpoint() (string, bool) {
	val, err := s.d.Read(endpointKey)
	if err != nil {
		return "", false
	}
	url := strings.TrimSpace(string(val))
	return url, url != ""
}

func (s *settings) SetEndpoint(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("store: endpoint required")
	}
	if err := s.d.Write(endpointKey, []byte(url)); err != nil {
		return fmt.Errorf("store: write endpoint: %w", err)
	}
	return nil
}
