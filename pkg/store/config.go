package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config exposes where local state lives.
type Config interface {
	BasePath() string
}

// GatewayConfig configures the development gateway.
type GatewayConfig struct {
	Addr     string   `mapstructure:"addr"`
	Path     string   `mapstructure:"path"`
	Vehicles []string `mapstructure:"vehicles"`
	Drivers  []string `mapstructure:"drivers"`
	Escorts  []string `mapstructure:"escorts"`
}

// FileConfig is the configuration read from .frota.yaml and FROTA_* env.
type FileConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
	Toast   time.Duration `mapstructure:"toast"`
	Gateway GatewayConfig `mapstructure:"gateway"`
}

var _ Config = (*FileConfig)(nil)

// LoadConfig reads .frota.yaml from $FROTA_CONFIG_PATH or the working
// directory. A missing file is not an error.
func LoadConfig() (*FileConfig, error) {
	v := viper.New()
	v.SetDefault("path", "~/.frota")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("toast", 4*time.Second)
	v.SetDefault("gateway.addr", "127.0.0.1:8787")
	v.SetDefault("gateway.path", "/exec")
	v.SetConfigName(".frota") // .yaml is implicit
	v.SetEnvPrefix("FROTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("FROTA_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &FileConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	path, err := homedir.Expand(cfg.Path)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// BasePath is the data directory.
func (f *FileConfig) BasePath() string {
	return f.Path
}

// LogPath is where the terminal UI writes its log.
func (f *FileConfig) LogPath() string {
	return filepath.Join(f.Path, "frota.log")
}

// SheetPath is where the development gateway keeps its rows.
func (f *FileConfig) SheetPath() string {
	return filepath.Join(f.Path, "sheet")
}
