package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/logging"
	goredis "github.com/redis/go-redis/v9"
)

const clientKeyPrefix = "ledger:client:"

// ClientCache is a read-through cache in front of a ClientRepository. Clients
// never change after creation, so a cached record is never stale. Only
// positive lookups are cached. Redis failures are logged and the call falls
// through to the wrapped repository.
type ClientCache struct {
	next   domain.ClientRepository
	client goredis.UniversalClient
	ttl    time.Duration
	logger logging.Logger
}

func NewClientCache(next domain.ClientRepository, client goredis.UniversalClient, ttl time.Duration, logger logging.Logger) *ClientCache {
	return &ClientCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewClient connects to addr and pings it once.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

func (c *ClientCache) GetClient(ctx context.Context, id int64) (domain.Client, error) {
	if client, ok := c.get(ctx, id); ok {
		return client, nil
	}

	client, err := c.next.GetClient(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}

	c.set(ctx, client)
	return client, nil
}

func (c *ClientCache) ClientExists(ctx context.Context, id int64) (bool, error) {
	if _, ok := c.get(ctx, id); ok {
		return true, nil
	}

	return c.next.ClientExists(ctx, id)
}

func (c *ClientCache) SaveClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	saved, err := c.next.SaveClient(ctx, client)
	if err != nil {
		return domain.Client{}, err
	}

	c.set(ctx, saved)
	return saved, nil
}

func (c *ClientCache) get(ctx context.Context, id int64) (domain.Client, bool) {
	data, err := c.client.Get(ctx, clientKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn("client cache read failed", "client_id", id, "error", err.Error())
		}
		return domain.Client{}, false
	}

	var client domain.Client
	if err := json.Unmarshal(data, &client); err != nil {
		c.logger.Warn("client cache entry is corrupted", "client_id", id, "error", err.Error())
		return domain.Client{}, false
	}

	return client, true
}

func (c *ClientCache) set(ctx context.Context, client domain.Client) {
	data, err := json.Marshal(client)
	if err != nil {
		c.logger.Error("failed to encode client for cache", "client_id", client.ID, "error", err.Error())
		return
	}

	if err := c.client.Set(ctx, clientKey(client.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("client cache write failed", "client_id", client.ID, "error", err.Error())
	}
}

func clientKey(id int64) string {
	return clientKeyPrefix + strconv.FormatInt(id, 10)
}

var _ domain.ClientRepository = (*ClientCache)(nil)
