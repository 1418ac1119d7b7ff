package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PermissionCache stores resolved effective permission sets per member.
// A miss returns (nil, false, nil); resolver errors never come from here.
type PermissionCache interface {
	GetPermissions(ctx context.Context, memberID uuid.UUID) ([]string, bool, error)
	SetPermissions(ctx context.Context, memberID uuid.UUID, codes []string, ttl time.Duration) error
	DeletePermissions(ctx context.Context, memberID uuid.UUID) error
}

type redisPermissionCache struct {
	client *redis.Client
}

func NewRedisPermissionCache(addr, password string, db int) PermissionCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis ping failed on initialization")
	}

	return &redisPermissionCache{client: client}
}

func permissionKey(memberID uuid.UUID) string {
	return fmt.Sprintf("taxdesk:permissions:%s", memberID)
}

func (c *redisPermissionCache) GetPermissions(ctx context.Context, memberID uuid.UUID) ([]string, bool, error) {
	data, err := c.client.Get(ctx, permissionKey(memberID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, false, err
	}
	return codes, true, nil
}

func (c *redisPermissionCache) SetPermissions(ctx context.Context, memberID uuid.UUID, codes []string, ttl time.Duration) error {
	data, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, permissionKey(memberID), data, ttl).Err()
}

func (c *redisPermissionCache) DeletePermissions(ctx context.Context, memberID uuid.UUID) error {
	return c.client.Del(ctx, permissionKey(memberID)).Err()
}

// NoopPermissionCache disables caching; every Resolve hits the store.
type NoopPermissionCache struct{}

func (NoopPermissionCache) GetPermissions(ctx context.Context, memberID uuid.UUID) ([]string, bool, error) {
	return nil, false, nil
}

func (NoopPermissionCache) SetPermissions(ctx context.Context, memberID uuid.UUID, codes []string, ttl time.Duration) error {
	return nil
}

func (NoopPermissionCache) DeletePermissions(ctx context.Context, memberID uuid.UUID) error {
	return nil
}
