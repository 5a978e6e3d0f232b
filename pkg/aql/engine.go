// Package aql is the entry point for embedding the query language. An Engine parses
// query text or takes built queries, checks them against a domain graph, compiles them
// into plans (optionally cached) and hands plans to a row source.
package aql

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/artifactql/aql/compiler/criteria"
	aqlerrors "github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/parser"
	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/compiler/typechecker"
	"github.com/artifactql/aql/internal/cache"
	"github.com/artifactql/aql/pkg/domain"
	"github.com/artifactql/aql/pkg/logger"
	"github.com/artifactql/aql/pkg/result"
)

// ErrNoSource is returned when an engine without a row source is asked to execute
var ErrNoSource = errors.New("engine has no row source")

// PlanCache stores compiled plans by key. A failing cache reports a miss.
type PlanCache interface {
	Get(ctx context.Context, key string) (*planner.Plan, bool)
	Put(ctx context.Context, key string, plan *planner.Plan)
	Close() error
}

var _ PlanCache = (*cache.PlanCache)(nil)

// Engine is safe for concurrent use
type Engine struct {
	graph    *domain.Graph
	root     domain.ID
	parser   *parser.Parser
	checker  *typechecker.Checker
	compiler *planner.Compiler
	source   result.Source
	cache    PlanCache
	salt     string
	logger   logger.Logger
}

type options struct {
	graph        *domain.Graph
	root         domain.ID
	source       result.Source
	cache        PlanCache
	logger       logger.Logger
	maxJoins     int
	defaultLimit int64
	planner      []planner.Option
}

// Option configures an Engine
type Option func(*options)

// WithGraph replaces the built-in catalog
func WithGraph(g *domain.Graph) Option {
	return func(o *options) { o.graph = g }
}

// WithRoot sets the root used for query text. Without it the root is taken from the
// leading domain name of the text.
func WithRoot(root domain.ID) Option {
	return func(o *options) { o.root = root }
}

// WithSource sets the row source plans are executed on
func WithSource(src result.Source) Option {
	return func(o *options) { o.source = src }
}

// WithPlanCache enables plan caching
func WithPlanCache(pc PlanCache) Option {
	return func(o *options) { o.cache = pc }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxJoins rejects queries that need more than n joins
func WithMaxJoins(n int) Option {
	return func(o *options) { o.maxJoins = n }
}

// WithDefaultLimit bounds queries that set no limit
func WithDefaultLimit(n int64) Option {
	return func(o *options) { o.defaultLimit = n }
}

// WithPlannerOptions passes extra options to the plan compiler
func WithPlannerOptions(opts ...planner.Option) Option {
	return func(o *options) { o.planner = append(o.planner, opts...) }
}

// New creates an engine
func New(opts ...Option) *Engine {
	o := &options{graph: domain.Default(), logger: logger.NewNoopLogger()}
	for _, opt := range opts {
		opt(o)
	}

	popts := append([]planner.Option{
		planner.WithMaxJoins(o.maxJoins),
		planner.WithDefaultLimit(o.defaultLimit),
	}, o.planner...)

	var p *parser.Parser
	if o.graph == domain.Default() {
		p = parser.Default()
	} else {
		p = parser.New(o.graph)
	}

	compiler := planner.New(o.graph, popts...)
	return &Engine{
		graph:    o.graph,
		root:     o.root,
		parser:   p,
		checker:  typechecker.New(o.graph),
		compiler: compiler,
		source:   o.source,
		cache:    o.cache,
		salt:     compiler.Settings(),
		logger:   o.logger,
	}
}

// Graph returns the domain graph queries are checked against
func (e *Engine) Graph() *domain.Graph {
	return e.graph
}

// Parse parses query text. The engine root is used when set; otherwise the leading
// domain name of the text is the root.
func (e *Engine) Parse(text string) (*criteria.Query, error) {
	if e.root != "" {
		return e.parser.Parse(e.root, text)
	}
	return e.parser.ParseInferred(text)
}

// Check resolves q against the graph without compiling it
func (e *Engine) Check(q *criteria.Query) (*typechecker.BoundQuery, error) {
	return e.checker.Check(q)
}

// Compile checks and compiles q, consulting the plan cache first
func (e *Engine) Compile(ctx context.Context, q *criteria.Query) (*planner.Plan, error) {
	var key string
	if e.cache != nil && q != nil {
		key = cache.Key(q, e.salt)
		if plan, ok := e.cache.Get(ctx, key); ok {
			e.logger.DebugWithContext(ctx, "plan compiled",
				zap.String("plan_id", plan.ID), zap.Int("joins", len(plan.Joins)), zap.Bool("cache_hit", true))
			return plan, nil
		}
	}

	bound, err := e.checker.Check(q)
	if err != nil {
		return nil, err
	}
	plan, err := e.compiler.Compile(bound)
	if err != nil {
		return nil, err
	}

	e.logger.DebugWithContext(ctx, "plan compiled",
		zap.String("plan_id", plan.ID), zap.Int("joins", len(plan.Joins)), zap.Bool("cache_hit", false))

	if e.cache != nil {
		e.cache.Put(ctx, key, plan)
	}
	return plan, nil
}

// CompileText parses and compiles text
func (e *Engine) CompileText(ctx context.Context, text string) (*planner.Plan, error) {
	q, err := e.Parse(text)
	if err != nil {
		return nil, err
	}
	return e.Compile(ctx, q)
}

// Execute compiles q and runs it on the row source
func (e *Engine) Execute(ctx context.Context, q *criteria.Query) (result.Rows, error) {
	plan, err := e.Compile(ctx, q)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, plan)
}

// Query parses, compiles and runs text
func (e *Engine) Query(ctx context.Context, text string) (result.Rows, error) {
	plan, err := e.CompileText(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, plan)
}

// Run executes an already compiled plan
func (e *Engine) Run(ctx context.Context, plan *planner.Plan) (result.Rows, error) {
	if e.source == nil {
		return nil, ErrNoSource
	}
	if plan == nil {
		return nil, aqlerrors.NewSemanticError(aqlerrors.ErrInvalidPlan, "no plan to execute")
	}

	ctx = logger.ContextWith(ctx, zap.String("plan_id", plan.ID))
	e.logger.InfoWithContext(ctx, "executing plan", zap.String("query", plan.Query))

	rows, err := e.source.Execute(ctx, plan)
	if err != nil {
		e.logger.ErrorWithContext(ctx, "execution failed", zap.Error(err))
		return nil, err
	}
	return &loggedRows{Rows: rows, ctx: ctx, logger: e.logger, start: time.Now()}, nil
}

// Close releases the plan cache
func (e *Engine) Close() error {
	if e.cache != nil {
		return e.cache.Close()
	}
	return nil
}
