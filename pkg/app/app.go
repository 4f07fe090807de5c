package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/frota/pkg/gateway"
	"tableflip.dev/frota/pkg/log"
	"tableflip.dev/frota/pkg/movement"
	"tableflip.dev/frota/pkg/store"
)

// DashboardSize is how many recent movements the dashboard shows.
const DashboardSize = 4

var (
	ErrNotConnected  = errors.New("app: no gateway endpoint configured")
	ErrEmptyURL      = errors.New("app: endpoint url is empty")
	ErrMissingFields = errors.New("app: required fields missing")
	ErrVehicleOut    = errors.New("app: vehicle is already out")
	ErrNotOut        = errors.New("app: vehicle is not out")
	ErrUnconfirmed   = errors.New("app: odometer regression not confirmed")
)

// Service holds the fleet state shared by the CLI, the terminal UI and the
// MCP server. Reads are served from the last successful fetch; writes go
// straight to the gateway.
type Service struct {
	Settings store.Settings
	Dial     gateway.Dialer
	Log      log.Logger
	// Now stamps departures and returns; time.Now when nil.
	Now func() time.Time

	mu       sync.RWMutex
	endpoint string
	gw       gateway.Gateway
	lists    movement.Lists
	history  movement.History
}

// New returns a Service reading the cached endpoint from settings.
func New(settings store.Settings, dial gateway.Dialer, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{
		Settings: settings,
		Dial:     dial,
		Log:      logger,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() log.Logger {
	if s.Log == nil {
		return log.NewNop()
	}
	return s.Log
}

// Endpoint returns the cached gateway URL.
func (s *Service) Endpoint() (string, bool) {
	if s.Settings == nil {
		return "", false
	}
	return s.Settings.Endpoint()
}

// Connected reports whether an endpoint is cached. It does not probe the
// gateway.
func (s *Service) Connected() bool {
	_, ok := s.Endpoint()
	return ok
}

// Watch subscribes to settings change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Settings == nil {
		return nil, errors.New("app: no settings configured")
	}
	return s.Settings.Watch(ctx)
}

func (s *Service) client() (gateway.Gateway, error) {
	endpoint, ok := s.Endpoint()
	if !ok {
		return nil, ErrNotConnected
	}
	if s.Dial == nil {
		return nil, errors.New("app: no gateway dialer configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gw == nil || s.endpoint != endpoint {
		s.gw = s.Dial(endpoint)
		s.endpoint = endpoint
	}
	return s.gw, nil
}

// Refresh fetches the reference lists and the history concurrently. Each
// collection is replaced only when its own fetch succeeds; the first
// failure is returned after both calls finish.
func (s *Service) Refresh(ctx context.Context) error {
	gw, err := s.client()
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error {
		lists, err := gw.Lists(ctx)
		if err != nil {
			s.logger().Error(err, "fetch reference lists")
			return fmt.Errorf("app: fetch lists: %w", err)
		}
		s.mu.Lock()
		s.lists = lists
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		h, err := gw.History(ctx)
		if err != nil {
			s.logger().Error(err, "fetch history")
			return fmt.Errorf("app: fetch history: %w", err)
		}
		s.mu.Lock()
		s.history = h
		s.mu.Unlock()
		return nil
	})
	return g.Wait()
}

// Sync refreshes the cache for callers that only read. Fetch failures are
// logged by Refresh and the previous data is kept; only a missing endpoint
// is returned.
func (s *Service) Sync(ctx context.Context) error {
	err := s.Refresh(ctx)
	if errors.Is(err, ErrNotConnected) {
		return err
	}
	return nil
}

// Reconnect validates url against the gateway. On success the url is
// cached, any lists returned by the gateway replace the current ones, and
// the data is refreshed silently. On failure the cached url is untouched.
func (s *Service) Reconnect(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}
	if s.Dial == nil {
		return errors.New("app: no gateway dialer configured")
	}
	if s.Settings == nil {
		return errors.New("app: no settings configured")
	}

	gw := s.Dial(url)
	lists, err := gw.Init(ctx)
	if err != nil {
		return err
	}
	if err := s.Settings.SetEndpoint(url); err != nil {
		return err
	}

	s.mu.Lock()
	s.gw, s.endpoint = gw, url
	if lists != nil {
		s.lists = *lists
	}
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger().Warn("refresh after reconnect failed", "error", err.Error())
	}
	return nil
}

// Lists returns the cached reference lists.
func (s *Service) Lists() movement.Lists {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists
}

// History returns the cached history in append order.
func (s *Service) History() movement.History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(movement.History(nil), s.history...)
}

// Recent returns the dashboard slice: the last DashboardSize appended
// records, newest first.
func (s *Service) Recent() []movement.Record {
	return s.History().Recent(DashboardSize)
}

// HasMore reports whether the history holds more than the dashboard shows.
func (s *Service) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history) > DashboardSize
}

// OutVehicles lists the vehicles that can be returned.
func (s *Service) OutVehicles() []string {
	return s.History().OutVehicles()
}

// ClearHistory erases every movement on the gateway. The reference lists
// are kept.
func (s *Service) ClearHistory(ctx context.Context) error {
	gw, err := s.client()
	if err != nil {
		return err
	}
	if err := gw.Clear(ctx); err != nil {
		return fmt.Errorf("app: clear history: %w", err)
	}
	s.mu.Lock()
	s.history = movement.History{}
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger().Warn("refresh after clear failed", "error", err.Error())
	}
	return nil
}
