package main

import (
	"fmt"
	"net"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/vovakirdan/tui-crunch/internal/storage"
	"github.com/vovakirdan/tui-crunch/internal/storage/redis"
)

// openStore opens the Redis leaderboard when --redis is set and the SQLite
// database otherwise.
func openStore() (storage.ScoreStore, error) {
	if flagRedisURL != "" {
		cfg := redis.DefaultConfig()
		cfg.URL = flagRedisURL
		store, err := redis.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return store, nil
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

// port returns the port part of a listen address, defaulting to 22.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil && p != "" {
		return p
	}
	return "22"
}
