package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/pkg/domain"
	"github.com/artifactql/aql/pkg/logger"
)

// PlanCache stores plans in a backend. Backend failures degrade to misses so a broken
// cache never fails a query.
type PlanCache struct {
	backend Cache
	graph   *domain.Graph
	ttl     time.Duration
	logger  logger.Logger
}

// NewPlanCache wraps backend. Plans are decoded against graph.
func NewPlanCache(backend Cache, graph *domain.Graph, ttl time.Duration, l logger.Logger) *PlanCache {
	if l == nil {
		l = logger.NewNoopLogger()
	}
	return &PlanCache{backend: backend, graph: graph, ttl: ttl, logger: l}
}

// Get returns the plan stored under key. An entry that no longer decodes against the
// graph is evicted and reported as a miss.
func (c *PlanCache) Get(ctx context.Context, key string) (*planner.Plan, bool) {
	data, err := c.backend.Get(ctx, key)
	if err != nil {
		if !IsCacheMiss(err) {
			c.logger.WarnWithContext(ctx, "plan cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	plan, err := planner.Decode(c.graph, data)
	if err != nil {
		c.logger.WarnWithContext(ctx, "evicting undecodable plan", zap.String("key", key), zap.Error(err))
		if err := c.backend.Delete(ctx, key); err != nil {
			c.logger.WarnWithContext(ctx, "plan cache delete failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return plan, true
}

// Put stores plan under key
func (c *PlanCache) Put(ctx context.Context, key string, plan *planner.Plan) {
	data, err := plan.MarshalJSON()
	if err != nil {
		c.logger.WarnWithContext(ctx, "failed to encode plan", zap.String("plan_id", plan.ID), zap.Error(err))
		return
	}
	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.WarnWithContext(ctx, "plan cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear drops every cached plan
func (c *PlanCache) Clear(ctx context.Context) error {
	return c.backend.Clear(ctx)
}

// Close closes the backend
func (c *PlanCache) Close() error {
	return c.backend.Close()
}
