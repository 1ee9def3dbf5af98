package store

import (
	"fmt"
	"strings"

	"github.com/ppiankov/rumorscope/internal/model"
)

// Open creates the store selected by cfg.Driver
func Open(cfg model.StoreConfig) (ResultStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "rumorscope.db"
		}
		return OpenSQLite(path)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis store requires redis_addr")
		}
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisStream), nil
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s (supported: sqlite, redis, none)", cfg.Driver)
	}
}
