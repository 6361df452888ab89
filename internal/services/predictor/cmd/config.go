package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agri-hub/irrigation-backend/internal/statestore"
)

type Config struct {
	HTTPPort int

	Store statestore.Config

	ModelPath string

	PollInterval  time.Duration
	MaxPollErrors int

	District string
	Zone     string
	Season   string

	BreakerFailures int
	BreakerOpenFor  time.Duration
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func loadConfig() Config {
	return Config{
		HTTPPort: envInt("HTTP_PORT", 8080),

		Store: statestore.Config{
			Backend:       envStr("STORE_BACKEND", "firebase"),
			FirebaseURL:   envStr("FIREBASE_DB_URL", "https://agri-hub-544be-default-rtdb.firebaseio.com"),
			FirebaseToken: os.Getenv("FIREBASE_DB_TOKEN"),
			RedisAddr:     envStr("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       envInt("REDIS_DB", 0),
			RedisPrefix:   envStr("REDIS_PREFIX", "agrihub:"),
			Timeout:       time.Duration(envInt("STORE_TIMEOUT_MS", 5000)) * time.Millisecond,
		},

		ModelPath: envStr("MODEL_PATH", "tamil_nadu_irrigation_model.json"),

		PollInterval:  time.Duration(envInt("POLL_INTERVAL_MS", 5000)) * time.Millisecond,
		MaxPollErrors: envInt("POLL_MAX_ERRORS", 5),

		District: envStr("MODEL_DISTRICT", "Coimbatore"),
		Zone:     envStr("MODEL_ZONE", "Western Zone"),
		Season:   envStr("MODEL_SEASON", "southwest_monsoon"),

		BreakerFailures: envInt("STORE_BREAKER_FAILURES", 5),
		BreakerOpenFor:  time.Duration(envInt("STORE_BREAKER_OPEN_MS", 30000)) * time.Millisecond,
	}
}
