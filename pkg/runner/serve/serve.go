// Package serve runs the local development gateway.
package serve

import (
	"context"
	"io"
	"net"

	"tableflip.dev/frota/pkg/gateway/sheet"
	"tableflip.dev/frota/pkg/log"
	"tableflip.dev/frota/pkg/movement"
)

// Serve exposes a diskv-backed sheet over the gateway protocol.
type Serve struct {
	Dir   string
	Addr  string
	Path  string
	Lists movement.Lists
	Log   log.Logger

	AccessLog   io.Writer
	OnListening func(net.Addr)
}

func (s *Serve) Do(ctx context.Context) error {
	sh, err := sheet.Open(s.Dir, s.Lists)
	if err != nil {
		return err
	}
	logger := s.Log
	if logger == nil {
		logger = log.NewNop()
	}
	logger.Info("development gateway", "dir", s.Dir, "rows", sh.Len())

	srv := &sheet.Server{
		Sheet:     sh,
		Metrics:   sheet.NewMetrics(),
		Log:       logger,
		Path:      s.Path,
		AccessLog: s.AccessLog,
	}
	return srv.Serve(ctx, s.Addr, s.OnListening)
}
