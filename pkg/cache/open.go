package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend string

	// Dir is the FileCache directory (default DefaultDir()).
	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// DefaultDir returns the file cache directory: $XDG_CACHE_HOME/pointmap
// when set, otherwise ~/.cache/pointmap.
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "pointmap"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "pointmap"), nil
}

// Open returns the backend named by cfg.Backend. An empty name selects the
// file cache.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = d
		}
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache: address not set")
		}
		rc, err := NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("mongo cache: uri not set")
		}
		mc, err := NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		return mc, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
