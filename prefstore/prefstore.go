// Package prefstore 实现基于 core.Store 的偏好记录存储。
//
// 记录按用户整条存为 JSON：{KeyPrefix}:{userID}。
// 写入是 read-merge-write，同一用户的写入经分段锁串行化，
// 避免并发合并互相覆盖（lost update）。跨进程部署时应把同一用户
// 路由到同一实例，或换用带 CAS 的后端。
package prefstore

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/rushteam/prodrec/core"
)

const lockStripes = 64

// Store 实现 core.PreferenceStore。
type Store struct {
	backend   core.Store
	KeyPrefix string
	locks     [lockStripes]sync.Mutex
}

// New 创建偏好存储，backend 可以是 MemoryStore 或 RedisStore。
func New(backend core.Store, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = "prefs"
	}
	return &Store{backend: backend, KeyPrefix: keyPrefix}
}

func (s *Store) key(userID string) string {
	return s.KeyPrefix + ":" + userID
}

func (s *Store) stripe(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.locks[h.Sum32()%lockStripes]
}

// Load 读取用户偏好。未知用户返回默认记录，不是错误。
func (s *Store) Load(ctx context.Context, userID string) (*core.UserPreferences, error) {
	data, err := s.backend.Get(ctx, s.key(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.DefaultPreferences(), nil
		}
		return nil, fmt.Errorf("prefstore: load %s: %w", userID, err)
	}

	prefs := core.DefaultPreferences()
	if err := json.Unmarshal(data, prefs); err != nil {
		// 坏记录当作不存在处理，下一次 Save 会重写
		return core.DefaultPreferences(), nil
	}
	return prefs, nil
}

// Save 合并 patch 并持久化，返回合并后的整条记录。
// 同一个 patch 重复 Save 是幂等的。
func (s *Store) Save(ctx context.Context, userID string, patch *core.PreferencePatch) (*core.UserPreferences, error) {
	mu := s.stripe(userID)
	mu.Lock()
	defer mu.Unlock()

	prefs, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs.Apply(patch)

	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("prefstore: marshal %s: %w", userID, err)
	}
	if err := s.backend.Set(ctx, s.key(userID), data); err != nil {
		return nil, fmt.Errorf("prefstore: save %s: %w", userID, err)
	}
	return prefs, nil
}

var _ core.PreferenceStore = (*Store)(nil)
