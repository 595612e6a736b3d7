package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/olehluchkiv/asmdump/internal/discovery"
)

// settings are the ambient options that may come from flags, ASMDUMP_*
// environment variables or a config file. Filters are flag-only.
type settings struct {
	Jobs           int
	Provider       string
	LogLevel       string
	LogFile        string
	IgnoreFile     string
	IgnoreRequired bool
	Extensions     []string
}

// bindSettings registers defaults and binds the ambient flags to v.
func bindSettings(v *viper.Viper, flags *pflag.FlagSet) {
	v.SetDefault("jobs", 1)
	v.SetDefault("provider", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("ignore.file", "")
	v.SetDefault("ignore.required", false)
	v.SetDefault("extensions", discovery.DefaultExtensions)

	_ = v.BindPFlag("jobs", flags.Lookup("jobs"))
	_ = v.BindPFlag("provider", flags.Lookup("provider"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log_file", flags.Lookup("log-file"))

	v.SetEnvPrefix("ASMDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// loadSettings reads the config file, if any, and resolves every setting.
// Without --config it looks for asmdump.{toml,yaml,json} in
// $HOME/.config/asmdump and the working directory.
func loadSettings(v *viper.Viper, cfgFile string) (settings, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "asmdump"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("asmdump")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	s := settings{
		Jobs:           v.GetInt("jobs"),
		Provider:       strings.TrimSpace(v.GetString("provider")),
		LogLevel:       v.GetString("log_level"),
		LogFile:        v.GetString("log_file"),
		IgnoreFile:     v.GetString("ignore.file"),
		IgnoreRequired: v.GetBool("ignore.required"),
		Extensions:     normalizeExtensions(v.GetStringSlice("extensions")),
	}
	if len(s.Extensions) == 0 {
		return settings{}, fmt.Errorf("extensions: no library extension configured")
	}
	if s.Jobs < 0 {
		return settings{}, fmt.Errorf("jobs must be >= 0, got %d", s.Jobs)
	}
	if s.Jobs == 0 {
		s.Jobs = runtime.NumCPU()
	}
	if s.IgnoreFile == "" {
		path, err := discovery.DefaultIgnorePath()
		if err != nil {
			return settings{}, err
		}
		s.IgnoreFile = path
	}
	return s, nil
}

// normalizeExtensions adds the leading dot discovery matches against, so
// "dll" and ".dll" are equivalent. Blank entries are dropped.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" || e == "." {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
