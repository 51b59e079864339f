package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrTransport wraps every failed remote write
var ErrTransport = errors.New("remote store unavailable")

const listKey = "leaves"

// Client is the application's view of the remote store: reads go through
// a time-boxed cache, writes go straight to the gateway and drop the cache.
type Client struct {
	gateway port.LeaveGateway
	cache   *Cache
	group   singleflight.Group
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	ttl time.Duration
	now func() time.Time
}

// WithCacheTTL overrides DefaultCacheTTL
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *clientOptions) {
		o.ttl = ttl
	}
}

// WithClock replaces time.Now for cache ageing and createdAt stamps
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		o.now = now
	}
}

// NewClient creates a client with an empty cache
func NewClient(gateway port.LeaveGateway, logger *zap.Logger, opts ...Option) *Client {
	o := clientOptions{ttl: DefaultCacheTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		gateway: gateway,
		cache:   NewCache(o.ttl, o.now),
		now:     o.now,
		logger:  logger,
	}
}

var _ port.LeaveStore = (*Client)(nil)

// FetchAll returns every leave request. Unless forceRefresh is set, a list
// younger than the TTL is served from the cache. When the remote read fails
// the error is logged and the previous list (or an empty one) is returned.
func (c *Client) FetchAll(ctx context.Context, forceRefresh bool) []entity.LeaveRequest {
	if !forceRefresh {
		if list, ok := c.cache.Fresh(); ok {
			return list
		}
	}

	generation := c.cache.Generation()
	result, err, shared := c.group.Do(listKey, func() (interface{}, error) {
		start := time.Now()
		list, err := c.gateway.List(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Store(list, generation)
		c.logger.Debug("Fetched leave requests",
			zap.Int("count", len(list)),
			zap.Duration("duration", time.Since(start)))
		return list, nil
	})
	if err != nil {
		c.logger.Error("Failed to fetch leave requests, serving cached data",
			zap.Bool("force_refresh", forceRefresh),
			zap.Bool("shared", shared),
			zap.Error(err))
		if stale, ok := c.cache.Stale(); ok {
			return stale
		}
		return []entity.LeaveRequest{}
	}

	return cloneLeaves(result.([]entity.LeaveRequest))
}

// Create stamps leave as PENDING, created now, and sends it to the remote
// store. The cache is dropped whether or not the write succeeded.
func (c *Client) Create(ctx context.Context, leave *entity.LeaveRequest) error {
	leave.Status = entity.StatusPending
	leave.CreatedAt = c.now()

	err := c.gateway.Create(ctx, leave)
	c.InvalidateCache()
	if err != nil {
		c.logger.Error("Failed to create leave request",
			zap.String("full_name", leave.FullName),
			zap.Error(err))
		return fmt.Errorf("%w: create leave request: %w", ErrTransport, err)
	}

	c.logger.Info("Leave request created",
		zap.String("full_name", leave.FullName),
		zap.String("leave_type", leave.LeaveType.Code()),
		zap.Int("total_days", leave.TotalDays))
	return nil
}

// Remove deletes a record. Removing an unknown id is the remote store's business.
func (c *Client) Remove(ctx context.Context, id string) error {
	err := c.gateway.Delete(ctx, id)
	c.InvalidateCache()
	if err != nil {
		c.logger.Error("Failed to delete leave request",
			zap.String("leave_id", id),
			zap.Error(err))
		return fmt.Errorf("%w: delete leave request %s: %w", ErrTransport, id, err)
	}

	c.logger.Info("Leave request deleted", zap.String("leave_id", id))
	return nil
}

// SetStatus records a review decision and an optional note
func (c *Client) SetStatus(ctx context.Context, id string, status entity.LeaveStatus, note string) error {
	err := c.gateway.UpdateStatus(ctx, id, status, note)
	c.InvalidateCache()
	if err != nil {
		c.logger.Error("Failed to update leave status",
			zap.String("leave_id", id),
			zap.String("status", status.Code()),
			zap.Error(err))
		return fmt.Errorf("%w: update status of %s: %w", ErrTransport, id, err)
	}

	c.logger.Info("Leave status updated",
		zap.String("leave_id", id),
		zap.String("status", status.Code()))
	return nil
}

// InvalidateCache forces the next FetchAll to read the remote store. The
// in-flight read is forgotten before the generation moves, so a reader that
// sees the new generation never joins a read started before the write.
func (c *Client) InvalidateCache() {
	c.group.Forget(listKey)
	c.cache.Invalidate()
}

// CacheAge reports the age of the cached list, false when empty
func (c *Client) CacheAge() (time.Duration, bool) {
	return c.cache.Age()
}
