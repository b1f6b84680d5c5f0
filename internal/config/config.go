// Package config loads settings for long-running pointmap commands.
//
// Settings come from three layers, later layers winning:
//
//  1. Defaults
//  2. A TOML file ($XDG_CONFIG_HOME/pointmap/config.toml unless --config is given)
//  3. POINTMAP_* environment variables, after loading .env files
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/pointmap/pkg/cache"
	"github.com/matzehuels/pointmap/pkg/errors"
)

// Environment variables read by Load.
const (
	EnvAddr          = "POINTMAP_ADDR"
	EnvCache         = "POINTMAP_CACHE"
	EnvRedisAddr     = "POINTMAP_REDIS_ADDR"
	EnvRedisPassword = "POINTMAP_REDIS_PASSWORD"
	EnvRedisDB       = "POINTMAP_REDIS_DB"
	EnvMongoURI      = "POINTMAP_MONGO_URI"
	EnvDataset       = "POINTMAP_DATASET"
	EnvCachePrefix   = "POINTMAP_CACHE_PREFIX"
)

// DefaultAddr is the listen address of the HTTP server.
const DefaultAddr = ":8080"

// Config is the merged configuration.
type Config struct {
	Addr    string      `toml:"addr"`
	Dataset string      `toml:"dataset"`
	Cache   CacheConfig `toml:"cache"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend string `toml:"backend"` // file, redis, mongo or none
	Dir     string `toml:"dir"`
	Prefix  string `toml:"prefix"` // key namespace for shared backends

	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	} `toml:"redis"`

	Mongo struct {
		URI        string `toml:"uri"`
		Database   string `toml:"database"`
		Collection string `toml:"collection"`
	} `toml:"mongo"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:  DefaultAddr,
		Cache: CacheConfig{Backend: cache.BackendFile},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pointmap/config.toml, falling back to
// ~/.config/pointmap/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pointmap", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pointmap", "config.toml"), nil
}

// Load builds the configuration. An empty path reads DefaultPath if it
// exists; an explicit path must exist.
func Load(path string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := decodeFile(path, &cfg, explicit); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decodeFile(path string, cfg *Config, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvAddr, &c.Addr)
	set(EnvDataset, &c.Dataset)
	set(EnvCache, &c.Cache.Backend)
	set(EnvCachePrefix, &c.Cache.Prefix)
	set(EnvRedisAddr, &c.Cache.Redis.Addr)
	set(EnvRedisPassword, &c.Cache.Redis.Password)
	set(EnvMongoURI, &c.Cache.Mongo.URI)

	if v, ok := lookup(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvRedisDB)
		}
		c.Cache.Redis.DB = db
	}
	return nil
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "addr must not be empty")
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires %s", EnvRedisAddr)
		}
	case cache.BackendMongo:
		if c.Cache.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend mongo requires %s", EnvMongoURI)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// CacheOpenConfig converts the cache section for cache.Open.
func (c Config) CacheOpenConfig() cache.Config {
	return cache.Config{
		Backend:         c.Cache.Backend,
		Dir:             c.Cache.Dir,
		RedisAddr:       c.Cache.Redis.Addr,
		RedisPassword:   c.Cache.Redis.Password,
		RedisDB:         c.Cache.Redis.DB,
		MongoURI:        c.Cache.Mongo.URI,
		MongoDatabase:   c.Cache.Mongo.Database,
		MongoCollection: c.Cache.Mongo.Collection,
	}
}

// String renders the configuration without secrets.
func (c Config) String() string {
	backend := c.Cache.Backend
	if backend == "" {
		backend = cache.BackendFile
	}
	ds := c.Dataset
	if ds == "" {
		ds = "builtin"
	}
	return fmt.Sprintf("addr=%s dataset=%s cache=%s", c.Addr, ds, backend)
}
