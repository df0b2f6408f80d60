package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"

	"github.com/viahme/viah/pkg/constant"
)

// UserMap tracks the local connections of each user and mirrors presence
// into redis so other instances can see it.
type UserMap struct {
	mu    sync.RWMutex
	users map[string]*userConns
	rdb   *redis.Client
}

type userConns struct {
	Clients []*Client
	Time    time.Time
}

// NewUserMap creates a new UserMap; rdb may be nil
func NewUserMap(rdb *redis.Client) *UserMap {
	return &UserMap{
		users: make(map[string]*userConns),
		rdb:   rdb,
	}
}

// Register adds a client and reports whether it is the user's first
func (m *UserMap) Register(ctx context.Context, client *Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	uc, exists := m.users[client.UserId]
	if !exists {
		uc = &userConns{Clients: make([]*Client, 0, 4)}
		m.users[client.UserId] = uc
	}
	uc.Clients = append(uc.Clients, client)
	uc.Time = time.Now()

	m.setOnline(ctx, client.UserId)
	return !exists
}

// Unregister removes a client and reports whether the user went offline
func (m *UserMap) Unregister(ctx context.Context, client *Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	uc, exists := m.users[client.UserId]
	if !exists {
		return false
	}

	remaining := make([]*Client, 0, len(uc.Clients))
	for _, c := range uc.Clients {
		if c.ConnId != client.ConnId {
			remaining = append(remaining, c)
		}
	}
	uc.Clients = remaining

	if len(uc.Clients) == 0 {
		delete(m.users, client.UserId)
		m.setOffline(ctx, client.UserId)
		return true
	}
	return false
}

// GetAll returns a copy of the user's clients
func (m *UserMap) GetAll(userId string) ([]*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uc, exists := m.users[userId]
	if !exists {
		return nil, false
	}
	clients := make([]*Client, len(uc.Clients))
	copy(clients, uc.Clients)
	return clients, true
}

// HasConnection checks if user has any local connection
func (m *UserMap) HasConnection(userId string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uc, exists := m.users[userId]
	return exists && len(uc.Clients) > 0
}

// GetOnlineUserCount returns the number of locally connected users
func (m *UserMap) GetOnlineUserCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// IsOnline checks local connections first, then presence in redis
func (m *UserMap) IsOnline(ctx context.Context, userId string) bool {
	if m.HasConnection(userId) {
		return true
	}
	if m.rdb == nil {
		return false
	}
	n, err := m.rdb.Exists(ctx, onlineKey(userId)).Result()
	if err != nil {
		log.CtxWarn(ctx, "check online failed: user_id=%s, error=%v", userId, err)
		return false
	}
	return n > 0
}

// RefreshAll extends the presence TTL of every locally connected user
func (m *UserMap) RefreshAll(ctx context.Context) {
	if m.rdb == nil {
		return
	}
	userIds := m.GetAllOnlineUserIds()
	if len(userIds) == 0 {
		return
	}
	pipe := m.rdb.Pipeline()
	for _, userId := range userIds {
		pipe.Expire(ctx, onlineKey(userId), OnlineTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.CtxWarn(ctx, "refresh online status failed: users=%d, error=%v", len(userIds), err)
	}
}

// GetAllOnlineUserIds returns all locally connected user Ids
func (m *UserMap) GetAllOnlineUserIds() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	userIds := make([]string, 0, len(m.users))
	for userId := range m.users {
		userIds = append(userIds, userId)
	}
	return userIds
}

func (m *UserMap) setOnline(ctx context.Context, userId string) {
	if m.rdb == nil {
		return
	}
	if err := m.rdb.Set(ctx, onlineKey(userId), "1", OnlineTTL).Err(); err != nil {
		log.CtxWarn(ctx, "set online failed: user_id=%s, error=%v", userId, err)
	}
}

func (m *UserMap) setOffline(ctx context.Context, userId string) {
	if m.rdb == nil {
		return
	}
	if err := m.rdb.Del(ctx, onlineKey(userId)).Err(); err != nil {
		log.CtxWarn(ctx, "set offline failed: user_id=%s, error=%v", userId, err)
	}
}

func onlineKey(userId string) string {
	return fmt.Sprintf(constant.RedisKeyOnline(), userId)
}
