package commands

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/log"
	"tableflip.dev/frota/pkg/movement"
	"tableflip.dev/frota/pkg/runner/serve"
	"tableflip.dev/frota/pkg/store"
)

func addGateway(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Tools for the spreadsheet gateway.",
	}
	addGatewayServe(cmd)

	topLevel.AddCommand(cmd)
}

func addGatewayServe(parent *cobra.Command) {
	var (
		addr      string
		path      string
		accessLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local gateway backed by files on disk.",
		Long: `Serves the gateway protocol (init, listas, historico, salvar and
limpar) from a directory under the frota data path, so the
client can be used without a hosted spreadsheet.

Reference lists are seeded from the gateway section of .frota.yaml.
Prometheus metrics are exposed on /metrics.`,
		Example: `
frota gateway serve
frota connect http://127.0.0.1:8787/exec
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			l, err := log.New(lo)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			if !cmd.Flags().Changed("addr") {
				addr = cfg.Gateway.Addr
			}
			if !cmd.Flags().Changed("path") {
				path = cfg.Gateway.Path
			}
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			s := serve.Serve{
				Dir:  cfg.SheetPath(),
				Addr: addr,
				Path: path,
				Lists: movement.Lists{
					Vehicles: cfg.Gateway.Vehicles,
					Drivers:  cfg.Gateway.Drivers,
					Escorts:  cfg.Gateway.Escorts,
				},
				Log: l.WithName("gateway"),
				OnListening: func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "gateway listening on http://%s%s\n", a, path)
				},
			}
			if accessLog {
				s.AccessLog = os.Stderr
			}
			return s.Do(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8787", "Address to listen on.")
	cmd.Flags().StringVar(&path, "path", "/exec", "Endpoint path.")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "Write an Apache style access log to stderr.")

	parent.AddCommand(cmd)
}
