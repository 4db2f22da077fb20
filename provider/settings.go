package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/nlogconf/core"
)

// EnvPrefix is the prefix of environment variables overriding Settings,
// e.g. NLOG_CONFIG_FILE for config_file.
const EnvPrefix = "NLOG"

// DefaultConfigFile is the document looked up when no path is configured
const DefaultConfigFile = "logger-config.xml"

// Settings controls how the runtime bootstraps itself
type Settings struct {
	// ConfigFile is the path of the configuration document
	ConfigFile string `mapstructure:"config_file"`
	// StorageDir is the directory file appenders write below
	StorageDir string `mapstructure:"storage_dir"`
	// FallbackLevel is the root threshold used when no document could be loaded
	FallbackLevel string `mapstructure:"fallback_level"`
	// StatusLevel is the minimum level of the runtime's own diagnostics
	StatusLevel string `mapstructure:"status_level"`
	// CoarseClock timestamps events from a cached clock
	CoarseClock bool `mapstructure:"coarse_clock"`
	// Watch reloads the document when the file changes
	Watch bool `mapstructure:"watch"`
}

// DefaultSettings returns Settings with sensible defaults
func DefaultSettings() Settings {
	return Settings{
		ConfigFile:    DefaultConfigFile,
		StorageDir:    DefaultStorageDir(),
		FallbackLevel: core.DefaultLevel.String(),
		StatusLevel:   zapcore.WarnLevel.CapitalString(),
	}
}

// DefaultStorageDir returns the per-user cache directory for nlog, or ""
// when the platform has none.
func DefaultStorageDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nlog")
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := DefaultSettings()
	v.SetDefault("config_file", defaults.ConfigFile)
	v.SetDefault("storage_dir", defaults.StorageDir)
	v.SetDefault("fallback_level", defaults.FallbackLevel)
	v.SetDefault("status_level", defaults.StatusLevel)
	v.SetDefault("coarse_clock", defaults.CoarseClock)
	v.SetDefault("watch", defaults.Watch)
}

// BindEnv makes v read NLOG_* environment variables
func BindEnv(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// LoadSettings reads Settings from v, which may carry flags or a settings
// file. A nil v reads only defaults and the environment.
func LoadSettings(v *viper.Viper) (Settings, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	BindEnv(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return s, s.Validate()
}

// Validate checks the level names
func (s Settings) Validate() error {
	if _, ok := core.ParseLevel(s.FallbackLevel); !ok {
		return fmt.Errorf("invalid fallback_level %q", s.FallbackLevel)
	}
	if _, err := zapcore.ParseLevel(s.StatusLevel); err != nil {
		return fmt.Errorf("invalid status_level %q: %w", s.StatusLevel, err)
	}
	return nil
}

// fallbackLevel returns the parsed fallback level
func (s Settings) fallbackLevel() core.Level {
	l, _ := core.ParseLevel(s.FallbackLevel)
	return l
}

// statusLevel returns the parsed status level, WARN when invalid
func (s Settings) statusLevel() zapcore.Level {
	l, err := zapcore.ParseLevel(s.StatusLevel)
	if err != nil {
		return zapcore.WarnLevel
	}
	return l
}
