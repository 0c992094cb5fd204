// Package params loads the transport shell and engine's configurable
// knobs from an optional .env file and the environment, the same
// ENV > .env > defaults precedence the teacher documents.
package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Node carries the process-level knobs: where to listen, where to log,
// and where the audit journal lives.
type Node struct {
	ListenAddr  string
	LogFile     string
	JournalPath string
}

// Engine carries the matching core's configurable knobs. MaxOpenOrdersPerUser
// is the §5 hardening point: 0 disables the per-user open-order cap.
type Engine struct {
	MaxOpenOrdersPerUser uint64
}

type Config struct {
	Node   Node
	Engine Engine
}

// Default returns the devnet defaults: unlimited open orders, logging to
// stdout plus a local file, and a local Pebble journal directory.
func Default() Config {
	return Config{
		Node: Node{
			ListenAddr:  ":8080",
			LogFile:     "data/exchange.log",
			JournalPath: "data/journal",
		},
		Engine: Engine{
			MaxOpenOrdersPerUser: 0,
		},
	}
}

// LoadFromEnv loads configuration from an optional .env file (envPath, or
// the current directory's .env if envPath is empty) and then overlays
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Node.ListenAddr = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Node.LogFile = v
	}
	if v := os.Getenv("JOURNAL_PATH"); v != "" {
		cfg.Node.JournalPath = v
	}
	if v := os.Getenv("MAX_OPEN_ORDERS_PER_USER"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Engine.MaxOpenOrdersPerUser = n
		}
	}

	return cfg
}
