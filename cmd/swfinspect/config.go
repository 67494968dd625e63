package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/swf-abc/swf"
)

// defaultPattern is the method-name substring searched when neither the
// config file nor -find names one.
const defaultPattern = "deserializeAs_"

// fileConfig is the optional swfinspect.toml.
type fileConfig struct {
	Parse  parseConfig  `toml:"parse"`
	Find   findConfig   `toml:"find"`
	Output outputConfig `toml:"output"`
}

type parseConfig struct {
	MaxBodySize int64 `toml:"max-body-size"`
	Lazy        bool  `toml:"lazy"`
	SkipModules bool  `toml:"skip-modules"`
}

type findConfig struct {
	Patterns []string `toml:"patterns"`
}

type outputConfig struct {
	// Color is "auto", "always" or "never".
	Color string `toml:"color"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Parse:  parseConfig{MaxBodySize: swf.DefaultConfig().MaxBodySize},
		Find:   findConfig{Patterns: []string{defaultPattern}},
		Output: outputConfig{Color: "auto"},
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults unchanged. Unknown keys are rejected.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return decodeConfig(string(data), path)
}

func decodeConfig(data, path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	switch cfg.Output.Color {
	case "auto", "always", "never":
	default:
		return cfg, fmt.Errorf("%s: output.color must be auto, always or never, got %q", path, cfg.Output.Color)
	}
	if cfg.Parse.MaxBodySize <= 0 {
		return cfg, fmt.Errorf("%s: parse.max-body-size must be positive", path)
	}
	return cfg, nil
}

// parseOptions converts the parse section into swf options.
func (c fileConfig) parseOptions() []swf.Option {
	opts := []swf.Option{swf.WithMaxBodySize(c.Parse.MaxBodySize)}
	if c.Parse.Lazy {
		opts = append(opts, swf.WithLazyValidation())
	}
	if c.Parse.SkipModules {
		opts = append(opts, swf.WithoutModules())
	}
	return opts
}

// splitPatterns parses the comma-separated -find flag.
func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
