package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/artifactql/aql/internal/cache"
	"github.com/artifactql/aql/internal/cli/config"
	"github.com/artifactql/aql/internal/cli/ui"
	"github.com/artifactql/aql/internal/store/pgxdb"
	"github.com/artifactql/aql/internal/store/sqldb"
	"github.com/artifactql/aql/pkg/aql"
	"github.com/artifactql/aql/pkg/domain"
	"github.com/artifactql/aql/pkg/logger"
	"github.com/artifactql/aql/pkg/result"
)

// source is a row source owning its connections
type source interface {
	result.Source
	Close() error
}

// app holds the global flags and lazily loaded configuration shared by every command
type app struct {
	configPath string
	root       string
	noColor    bool

	cfg      *config.Config
	prompter ui.Prompter
}

// config loads the configuration once and applies the --root override
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, &displayError{err: err, text: ui.ConfigError(err.Error(), a.noColor)}
	}
	if a.root != "" {
		cfg.Query.Root = a.root
		if err := cfg.Validate(); err != nil {
			return nil, &displayError{err: err, text: ui.ConfigError(err.Error(), a.noColor)}
		}
	}
	a.cfg = cfg
	return cfg, nil
}

// session is an engine and the resources it was built over
type session struct {
	engine *aql.Engine
	source source
	logger logger.Logger
}

func (s *session) Close() error {
	var err error
	if s.source != nil {
		err = s.source.Close()
	}
	if cerr := s.engine.Close(); err == nil {
		err = cerr
	}
	return err
}

// session builds an engine from the configuration. The row source is opened only when
// withSource is set, so compile-only commands never touch the database.
func (a *app) session(ctx context.Context, withSource bool) (*session, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	graph := domain.Default()
	opts := []aql.Option{
		aql.WithGraph(graph),
		aql.WithLogger(log),
		aql.WithMaxJoins(cfg.Query.MaxJoins),
		aql.WithDefaultLimit(cfg.Query.DefaultLimit),
	}
	if cfg.Query.Root != "" {
		opts = append(opts, aql.WithRoot(domain.ID(cfg.Query.Root)))
	}

	planCache, err := newPlanCache(ctx, cfg.Cache, graph, log)
	if err != nil {
		return nil, err
	}
	if planCache != nil {
		opts = append(opts, aql.WithPlanCache(planCache))
	}

	s := &session{logger: log}
	if withSource {
		src, err := openSource(ctx, cfg.Database, log)
		if err != nil {
			if planCache != nil {
				_ = planCache.Close()
			}
			return nil, &displayError{err: err, text: ui.ConnectionError(cfg.Database.Driver, err, a.noColor)}
		}
		s.source = src
		opts = append(opts, aql.WithSource(src))
	}

	s.engine = aql.New(opts...)
	return s, nil
}

// newPlanCache returns nil for the none backend
func newPlanCache(ctx context.Context, cfg config.CacheConfig, graph *domain.Graph, log logger.Logger) (*cache.PlanCache, error) {
	base := cache.Config{DefaultTTL: cfg.TTL, Prefix: cfg.Prefix}

	var backend cache.Cache
	switch cfg.Backend {
	case "none":
		return nil, nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Config:   base,
		})
		if err != nil {
			return nil, err
		}
		backend = rc
	default:
		backend = cache.NewMemoryCacheWithConfig(base, time.Minute)
	}
	return cache.NewPlanCache(backend, graph, cfg.TTL, log), nil
}

// openSource opens the configured row source and checks that it answers
func openSource(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (source, error) {
	if cfg.Driver == "pgxpool" {
		src, err := pgxdb.Open(ctx, cfg.DSN, int32(cfg.MaxOpenConns), pgxdb.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := src.Ping(ctx); err != nil {
			_ = src.Close()
			return nil, err
		}
		return src, nil
	}

	src, err := sqldb.Open(cfg.Driver, cfg.DSN, sqldb.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		src.DB().SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := src.Ping(ctx); err != nil {
		_ = src.Close()
		return nil, err
	}
	return src, nil
}

// withTimeout bounds ctx by the configured query timeout. Zero means no bound.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg == nil || a.cfg.Query.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.Query.Timeout)
}

// queryText joins command arguments so queries need not be quoted as a whole
func queryText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// displayError carries an error together with its terminal rendering
type displayError struct {
	err  error
	text string
}

func (e *displayError) Error() string { return e.err.Error() }

func (e *displayError) Unwrap() error { return e.err }

// report writes err the way its kind is best read
func (a *app) report(w io.Writer, err error) {
	var d *displayError
	if errors.As(err, &d) {
		fmt.Fprint(w, d.text)
		return
	}
	fmt.Fprint(w, ui.QueryError(err, a.noColor))
}
