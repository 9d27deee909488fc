// Package config loads the TOML file shared by pigeon-parse and
// pigeon-stored.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// WritePolicy selects how writes fan out when a local and a remote store
// are both configured.
type WritePolicy string

const (
	// WriteFirst writes to the local store only; reads fall back to remote.
	WriteFirst WritePolicy = "first"
	// WriteAll writes to every configured store.
	WriteAll WritePolicy = "all"
)

type Config struct {
	LogLevel string
	Store    StoreConfig
	Server   ServerConfig
	Inbox    InboxConfig
}

type StoreConfig struct {
	Dir         string
	Remote      string
	Timeout     time.Duration
	WritePolicy WritePolicy
}

type ServerConfig struct {
	Listen      string
	MaxMsgBytes int
}

// InboxConfig names a directory whose *.msg files pigeon-stored ingests.
// An empty Dir disables the inbox.
type InboxConfig struct {
	Dir      string
	Debounce time.Duration
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Dir:         ".pigeon/store",
			Timeout:     5 * time.Second,
			WritePolicy: WriteFirst,
		},
		Server: ServerConfig{
			Listen:      "127.0.0.1:7787",
			MaxMsgBytes: 1 << 20,
		},
		Inbox: InboxConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

type fileConfig struct {
	LogLevel string     `toml:"log_level"`
	Store    storeFile  `toml:"store"`
	Server   serverFile `toml:"server"`
	Inbox    inboxFile  `toml:"inbox"`
}

type storeFile struct {
	Dir         string `toml:"dir"`
	Remote      string `toml:"remote"`
	Timeout     string `toml:"timeout"`
	WritePolicy string `toml:"write_policy"`
}

type inboxFile struct {
	Dir      string `toml:"dir"`
	Debounce string `toml:"debounce"`
}

type serverFile struct {
	Listen      string `toml:"listen"`
	MaxMsgBytes int    `toml:"max_msg_bytes"`
}

// Load reads path over Default(). Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return apply(Default(), raw, meta)
}

// Parse is Load for in-memory TOML.
func Parse(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return apply(Default(), raw, meta)
}

func apply(cfg Config, raw fileConfig, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("store", "dir") {
		cfg.Store.Dir = strings.TrimSpace(raw.Store.Dir)
	}

	if meta.IsDefined("store", "remote") {
		cfg.Store.Remote = strings.TrimSpace(raw.Store.Remote)
	}

	if meta.IsDefined("store", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Store.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse store.timeout: %w", err)
		}
		cfg.Store.Timeout = d
	}

	if meta.IsDefined("store", "write_policy") {
		p := WritePolicy(strings.ToLower(strings.TrimSpace(raw.Store.WritePolicy)))
		switch p {
		case WriteFirst, WriteAll:
			cfg.Store.WritePolicy = p
		default:
			return Config{}, fmt.Errorf("store.write_policy must be %q or %q, got %q", WriteFirst, WriteAll, raw.Store.WritePolicy)
		}
	}

	if meta.IsDefined("server", "listen") {
		cfg.Server.Listen = strings.TrimSpace(raw.Server.Listen)
	}

	if meta.IsDefined("server", "max_msg_bytes") {
		if raw.Server.MaxMsgBytes < 0 {
			return Config{}, fmt.Errorf("server.max_msg_bytes must not be negative")
		}
		cfg.Server.MaxMsgBytes = raw.Server.MaxMsgBytes
	}

	if meta.IsDefined("inbox", "dir") {
		cfg.Inbox.Dir = strings.TrimSpace(raw.Inbox.Dir)
	}

	if meta.IsDefined("inbox", "debounce") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Inbox.Debounce))
		if err != nil {
			return Config{}, fmt.Errorf("parse inbox.debounce: %w", err)
		}
		cfg.Inbox.Debounce = d
	}

	return cfg, nil
}
