package cmd

import (
	"context"
	"io"
	"time"

	"github.com/ivan-hilckov/lucidum/pkg/config"
	"github.com/ivan-hilckov/lucidum/pkg/generator"
	"github.com/ivan-hilckov/lucidum/pkg/llm"
	"github.com/ivan-hilckov/lucidum/pkg/logging"
	"github.com/ivan-hilckov/lucidum/pkg/metrics"
	"github.com/ivan-hilckov/lucidum/pkg/resumes"
	"github.com/ivan-hilckov/lucidum/pkg/session"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// runtime bundles what the commands share: configuration, logging, the
// provider client and the pipeline built on it.
type runtime struct {
	cfg      config.Config
	logger   *logging.Logger
	client   llm.Generator
	pipeline *generator.Generator
	recorder *metrics.Recorder
	redis    *redis.Client
}

// loadConfig reads the config file named by --config.
func loadConfig() (cfg config.Config, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
	}
	return cfg, err
}

// newLogger logs to stderr in console form; --verbose forces debug.
func newLogger(cfg config.Config) (logger *logging.Logger) {
	level := cfg.LogLevel
	if getVerbose() {
		level = "debug"
	}
	logger = logging.NewConsole(level)
	return logger
}

// newBaseRuntime loads config and the logger only, for commands that never
// call a provider.
func newBaseRuntime() (rt *runtime, err error) {
	rt = &runtime{}

	rt.cfg, err = loadConfig()
	if err != nil {
		return rt, err
	}
	rt.logger = newLogger(rt.cfg)

	return rt, err
}

// newRuntime loads config and wires the pipeline. Callers must Close it.
func newRuntime(ctx context.Context) (rt *runtime, err error) {
	rt, err = newBaseRuntime()
	if err != nil {
		return rt, err
	}

	var pipelineCfg generator.Config
	pipelineCfg, err = rt.cfg.PipelineConfig()
	if err != nil {
		err = errors.Wrap(err, "invalid pipeline settings")
		return rt, err
	}

	rt.client, err = llm.NewGenerator(ctx, rt.cfg.ClientConfig())
	if err != nil {
		err = errors.Wrap(err, "failed to create LLM client")
		return rt, err
	}

	rt.recorder = metrics.NewRecorder()
	rt.pipeline, err = generator.New(rt.client, pipelineCfg,
		generator.WithLogger(rt.logger),
		generator.WithRecorder(rt.recorder),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to build generator")
		return rt, err
	}

	rt.logger.Debug("runtime ready",
		"provider", rt.cfg.Provider,
		"model", pipelineCfg.Model,
		"policy", pipelineCfg.Policy,
		"depth", pipelineCfg.Depth,
	)

	return rt, err
}

// redisClient connects once to storage.redis_addr.
func (rt *runtime) redisClient(ctx context.Context) (client *redis.Client, err error) {
	if rt.redis != nil {
		client = rt.redis
		return client, err
	}

	client = redis.NewClient(&redis.Options{
		Addr:         rt.cfg.Storage.RedisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()
		client = nil
		err = errors.Wrapf(err, "redis ping failed: %s", rt.cfg.Storage.RedisAddr)
		return client, err
	}

	rt.redis = client
	return client, err
}

// resumeStore returns the Redis store when storage.redis_addr is set and
// the JSON file store otherwise.
func (rt *runtime) resumeStore(ctx context.Context) (store resumes.Store, err error) {
	if rt.cfg.Storage.RedisAddr != "" {
		var client *redis.Client
		client, err = rt.redisClient(ctx)
		if err != nil {
			return store, err
		}
		store = resumes.NewRedisStore(client)
		return store, err
	}

	if rt.cfg.Storage.ResumesFile == "" {
		err = errors.New("storage.resumes_file or storage.redis_addr is required")
		return store, err
	}
	store = resumes.NewFileStore(rt.cfg.Storage.ResumesFile)
	return store, err
}

// sessionStore mirrors resumeStore for conversation state.
func (rt *runtime) sessionStore(ctx context.Context) (store session.Store, err error) {
	if rt.cfg.Storage.RedisAddr != "" {
		var client *redis.Client
		client, err = rt.redisClient(ctx)
		if err != nil {
			return store, err
		}
		store = session.NewRedisStore(client, session.DefaultTTL)
		return store, err
	}

	store = session.NewMemoryStore()
	return store, err
}

// Close releases the provider client and Redis connection.
func (rt *runtime) Close() {
	if closer, ok := rt.client.(io.Closer); ok {
		if err := closer.Close(); err != nil && rt.logger != nil {
			rt.logger.Warn("failed to close LLM client", "error", err)
		}
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}
