// Package config loads the attach profile persisted in ~/.ctrlmux/attach.yaml.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds attach-client settings. A missing file yields the zero value
// plus defaults applied by Load — it is never an error for attach.yaml not
// to exist yet.
type Config struct {
	// Target is a unix socket path (transport "unix"/"process") or a
	// "host:port" (transport "ws"). It is stored and shown by "config show";
	// attach does not read it (the websocket URL comes from --ws-url).
	Target string `yaml:"target,omitempty"`
	// Transport names the transport kind: "process", "unix" or "ws". It is
	// stored and shown by "config show"; attach does not read it: it dials a
	// websocket when --ws-url is given and otherwise spawns Command. There
	// is no "unix" transport implementation.
	Transport string `yaml:"transport,omitempty"`
	// Command is the argv used by the "process" transport to spawn the
	// remote multiplexer's control-mode client (default: the remote binary
	// plus its control-mode flag).
	Command []string `yaml:"command,omitempty"`

	Cols int `yaml:"cols,omitempty"`
	Rows int `yaml:"rows,omitempty"`

	// HistoryLimitCeiling caps the history-limit value read back from the
	// remote's "history-limit" option during bootstrap, so a misconfigured
	// remote can't make capture-pane replay an unbounded amount of scrollback.
	HistoryLimitCeiling int `yaml:"history_limit_ceiling,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`
	LogFile  string `yaml:"log_file,omitempty"`

	// Token (or TokenFile, checked first) authenticates the "ws" transport.
	Token     string `yaml:"token,omitempty"`
	TokenFile string `yaml:"token_file,omitempty"`
}

func defaults() Config {
	return Config{
		Transport:           "process",
		Command:             []string{"tmux", "-C", "attach"},
		Cols:                80,
		Rows:                24,
		HistoryLimitCeiling: 50000,
		LogLevel:            "info",
	}
}

// Load reads attach.yaml from dir, filling unset fields from defaults().
// A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := defaults()
	path := filepath.Join(dir, "attach.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Transport == "" {
		cfg.Transport = "process"
	}
	if cfg.Cols == 0 {
		cfg.Cols = 80
	}
	if cfg.Rows == 0 {
		cfg.Rows = 24
	}
	if cfg.HistoryLimitCeiling == 0 {
		cfg.HistoryLimitCeiling = 50000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}

// Save writes cfg to dir/attach.yaml, creating dir if necessary.
func Save(dir string, cfg *Config) error {
	if err := EnsureUserConfigDir(dir); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "attach.yaml"), data, 0644)
}

// ResolveToken returns the bearer token for the "ws" transport: TokenFile
// wins over Token when both are set.
func (c *Config) ResolveToken() (string, error) {
	if c.TokenFile != "" {
		data, err := os.ReadFile(c.TokenFile)
		if err != nil {
			return "", err
		}
		return string(trimNewline(data)), nil
	}
	return c.Token, nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
