package cache

import (
	"context"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
	RedisDB   int
}

// Open creates the backend named by opts.Backend. An empty backend is
// treated as "none". Key prefixes are applied by a [ScopedKeyer] so that
// every backend honors them.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "file cache requires a directory")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "open file cache")
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisConfig{Addr: opts.RedisAddr, DB: opts.RedisDB})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (must be none, memory, file or redis)", opts.Backend)
}
