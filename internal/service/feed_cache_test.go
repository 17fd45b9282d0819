package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	cache "Inkstone/internal/pkg/redis"
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTestRedis 把全局客户端指向一个进程内 redis，用完归还 nil（降级直读态）
func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	cache.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = cache.Rdb.Close()
		cache.Rdb = nil
	})
	return mr
}

func feedCacheKeys(mr *miniredis.Miniredis) []string {
	var keys []string
	for _, key := range mr.Keys() {
		if strings.HasPrefix(key, consts.FeedCacheKey) {
			keys = append(keys, key)
		}
	}
	return keys
}

func TestFeedCacheInvalidation(t *testing.T) {
	env := newTestEnv(t)
	mr := withTestRedis(t)
	ctx := context.Background()

	author := env.user(t, "author")
	group, err := env.groupSvc.CreateGroup(ctx, &dto.GroupBaseDTO{Title: "Котики", Slug: "cats"})
	require.NoError(t, err)
	_, err = env.postSvc.CreatePost(ctx, author.ID, &dto.PostBaseDTO{Text: "в группе", GroupID: &group.ID})
	require.NoError(t, err)

	fillCache := func(t *testing.T) {
		_, err := env.postSvc.GetLatestFeed(ctx, 1)
		require.NoError(t, err)
		require.NotEmpty(t, feedCacheKeys(mr))
	}

	t.Run("ReadThroughFillsCache", func(t *testing.T) {
		fillCache(t)
	})

	t.Run("PostWriteInvalidates", func(t *testing.T) {
		fillCache(t)
		_, err := env.postSvc.CreatePost(ctx, author.ID, &dto.PostBaseDTO{Text: "новый пост"})
		require.NoError(t, err)
		assert.Empty(t, feedCacheKeys(mr))
	})

	// 组的标题和标识写进了缓存页里，组的变更同样要清掉缓存
	t.Run("GroupUpdateInvalidates", func(t *testing.T) {
		fillCache(t)
		require.NoError(t, env.groupSvc.UpdateGroup(ctx, group.ID, &dto.GroupBaseDTO{Title: "Пёсики", Slug: "cats"}))
		assert.Empty(t, feedCacheKeys(mr))
	})

	t.Run("GroupDeleteInvalidates", func(t *testing.T) {
		fillCache(t)
		require.NoError(t, env.groupSvc.DeleteGroup(ctx, group.ID))
		assert.Empty(t, feedCacheKeys(mr))
	})
}
