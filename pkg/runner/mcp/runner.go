package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/frota/pkg/app"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// Runner coordinates MCP server startup.
type Runner struct {
	App     *app.Service
	Name    string
	Version string

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("mcp runner requires the fleet service")
	}
	name := r.Name
	if name == "" {
		name = "frota"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read the fleet history and record vehicle departures and returns via MCP."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.App)
	registerResources(srv, svc)
	registerTools(srv, svc)

	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	if (r.HTTPServerCert != "" && r.HTTPServerKey == "") || (r.HTTPServerCert == "" && r.HTTPServerKey != "") {
		return errors.New("both http tls cert and key must be provided")
	}

	handler := server.NewStreamableHTTPServer(srv)

	path := r.HTTPEndpointPath
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	listenAddr := r.HTTPListenAddr
	if listenAddr == "" {
		listenAddr = "127.0.0.1:8080"
	}

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	httpSrv := &http.Server{
		Handler: mux,
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
	}

	if r.HTTPServerCert != "" && r.HTTPServerKey != "" {
		err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
