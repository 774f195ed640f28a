package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr       string // API bind address
	DataDir    string // root of the per-collection record directories
	LogDir     string // service + audit logs
	LogLevel   string // zap level name
	HashSecret string // key for the password digest

	MaxChecks           int           // per-user check quota
	CheckInterval       time.Duration // tick cadence; 0 disables the worker
	MaxConcurrentChecks int           // probe fan-out bound per tick

	PublicRPM   int // API rate limit, requests per minute
	PublicBurst int
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = ".data"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	maxChecks := 5
	if v := os.Getenv("MAX_CHECKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxChecks = n
		}
	}

	interval := time.Minute
	if v := os.Getenv("CHECK_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			interval = time.Duration(ms) * time.Millisecond
		}
	}

	concurrent := 20
	if v := os.Getenv("MAX_CONCURRENT_CHECKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			concurrent = n
		}
	}

	rpm := 120
	if v := os.Getenv("PUBLIC_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			rpm = n
		}
	}
	burst := 60
	if v := os.Getenv("PUBLIC_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			burst = n
		}
	}

	return Config{
		Addr:                addr,
		DataDir:             dataDir,
		LogDir:              logDir,
		LogLevel:            level,
		HashSecret:          os.Getenv("HASH_SECRET"),
		MaxChecks:           maxChecks,
		CheckInterval:       interval,
		MaxConcurrentChecks: concurrent,
		PublicRPM:           rpm,
		PublicBurst:         burst,
	}
}
