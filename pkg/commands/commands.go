package commands

import (
	"context"
	"errors"
	"io"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/gateway"
	"tableflip.dev/frota/pkg/log"
	"tableflip.dev/frota/pkg/store"
)

var (
	lo = log.NewOptions()
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "frota",
		Short: base.Wrap80("Track fleet vehicles leaving and returning, backed by a spreadsheet gateway."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	lo.AddFlags(cmd.PersistentFlags())

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addConnect(topLevel)
	addStatus(topLevel)
	addHistory(topLevel)
	addLists(topLevel)
	addDepart(topLevel)
	addReturn(topLevel)
	addClear(topLevel)
	addReport(topLevel)
	addGateway(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// env is what most verbs need: configuration, a logger and the service.
type env struct {
	Config   *store.FileConfig
	Settings store.Settings
	Log      log.Logger
	App      *app.Service
}

func (e *env) Close() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
}

// loadEnv builds the service. logTo, when set, picks the log destinations
// unless --log.output-paths was given.
func loadEnv(cmd *cobra.Command, logTo func(cfg *store.FileConfig) []string) (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	settings, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}

	opts := *lo
	if logTo != nil && !cmd.Flags().Changed("log.output-paths") {
		opts.OutputPaths = logTo(cfg)
	}
	l, err := log.New(&opts)
	if err != nil {
		return nil, err
	}

	dial := gateway.HTTPDialer(gateway.WithTimeout(cfg.Timeout), gateway.WithLogger(l))
	return &env{
		Config:   cfg,
		Settings: settings,
		Log:      l,
		App:      app.New(settings, dial, l),
	}, nil
}

// withApp runs fn against a freshly built service.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	e, err := loadEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(cmd.Context(), e)
}

// hint prints a next step for the errors people hit most.
func hint(w io.Writer, err error) {
	switch {
	case errors.Is(err, app.ErrNotConnected):
		_, _ = io.WriteString(w, "hint: run `frota connect <url>` first\n")
	case errors.Is(err, app.ErrUnconfirmed):
		_, _ = io.WriteString(w, "hint: pass --yes to accept the odometer reading\n")
	}
}
