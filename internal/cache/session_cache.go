package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wordstake/internal/model"
)

// SessionCache holds the live session map in Redis. Sessions are keyed by
// wallet in a single hash, so "at most one active session per wallet" is a
// property of the data layout; Reserve uses HSETNX to make the claim atomic.
type SessionCache interface {
	// Reserve inserts the session only if the wallet has no live one.
	// Returns false without writing when the slot is already taken.
	Reserve(ctx context.Context, session *model.GameSession) (bool, error)
	Save(ctx context.Context, session *model.GameSession) error
	GetByWallet(ctx context.Context, walletID string) (*model.GameSession, error)
	GetByID(ctx context.Context, sessionID string) (*model.GameSession, error)
	Delete(ctx context.Context, session *model.GameSession) error
	All(ctx context.Context) ([]*model.GameSession, error)
	Clear(ctx context.Context) error
}

type sessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
	}
}

func (c *sessionCache) activeKey() string {
	return "sessions:active"
}

func (c *sessionCache) indexKey() string {
	return "sessions:index"
}

func (c *sessionCache) Reserve(ctx context.Context, session *model.GameSession) (bool, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return false, err
	}
	created, err := c.client.HSetNX(ctx, c.activeKey(), session.WalletID, data).Result()
	if err != nil || !created {
		return created, err
	}
	if err := c.client.HSet(ctx, c.indexKey(), session.ID, session.WalletID).Err(); err != nil {
		// Roll the reservation back so the wallet isn't stuck with an
		// unindexed session.
		c.client.HDel(ctx, c.activeKey(), session.WalletID)
		return false, err
	}
	return true, nil
}

func (c *sessionCache) Save(ctx context.Context, session *model.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.HSet(ctx, c.activeKey(), session.WalletID, data).Err()
}

func (c *sessionCache) GetByWallet(ctx context.Context, walletID string) (*model.GameSession, error) {
	data, err := c.client.HGet(ctx, c.activeKey(), walletID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.GameSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) GetByID(ctx context.Context, sessionID string) (*model.GameSession, error) {
	walletID, err := c.client.HGet(ctx, c.indexKey(), sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	session, err := c.GetByWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if session != nil && session.ID != sessionID {
		// Index pointed at a newer session for the same wallet.
		return nil, nil
	}
	return session, nil
}

func (c *sessionCache) Delete(ctx context.Context, session *model.GameSession) error {
	if err := c.client.HDel(ctx, c.activeKey(), session.WalletID).Err(); err != nil {
		return err
	}
	return c.client.HDel(ctx, c.indexKey(), session.ID).Err()
}

func (c *sessionCache) All(ctx context.Context) ([]*model.GameSession, error) {
	data, err := c.client.HGetAll(ctx, c.activeKey()).Result()
	if err != nil {
		return nil, err
	}
	sessions := make([]*model.GameSession, 0, len(data))
	for wallet, jsonStr := range data {
		var s model.GameSession
		if err := json.Unmarshal([]byte(jsonStr), &s); err != nil {
			return nil, fmt.Errorf("corrupt session for wallet %s: %w", wallet, err)
		}
		sessions = append(sessions, &s)
	}
	return sessions, nil
}

func (c *sessionCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.activeKey(), c.indexKey()).Err()
}
