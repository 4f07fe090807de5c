package log

import (
	"github.com/spf13/pflag"
)

// Options configures the logger.
type Options struct {
	// Name is added to every entry as the logger name.
	Name string `json:"name,omitempty" mapstructure:"name"`

	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" mapstructure:"level"`

	// Format is json or console.
	Format string `json:"format,omitempty" mapstructure:"format"`

	EnableColor   bool `json:"enable-color,omitempty" mapstructure:"enable-color"`
	DisableCaller bool `json:"disable-caller,omitempty" mapstructure:"disable-caller"`

	// OutputPaths are file paths, or "stdout"/"stderr".
	OutputPaths []string `json:"output-paths,omitempty" mapstructure:"output-paths"`
}

// NewOptions returns the CLI defaults: warnings and up, on stderr.
func NewOptions() *Options {
	return &Options{
		Level:       "warn",
		Format:      "console",
		EnableColor: false,
		OutputPaths: []string{"stderr"},
	}
}

// AddFlags binds the options to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum log level (debug, info, warn, error).")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log format ('json' or 'console').")
	fs.BoolVar(&o.EnableColor, "log.enable-color", o.EnableColor, "Colorize console log levels.")
	fs.BoolVar(&o.DisableCaller, "log.disable-caller", o.DisableCaller, "Omit the caller from log entries.")
	fs.StringSliceVar(&o.OutputPaths, "log.output-paths", o.OutputPaths, "Log destinations (file paths, 'stdout' or 'stderr').")
}
