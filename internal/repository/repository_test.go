package repository

import (
	"Inkstone/internal/model"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库：多个连接会各自打开独立的库
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Password: "hash", Nickname: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, userID uint64, groupID *uint64, text string, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{UserID: userID, GroupID: groupID, Text: text, CreatedAt: createdAt}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestGroupRepo_DeleteGroupKeepsPosts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	groupRepo := NewGroupRepo(db)
	postRepo := NewPostRepo(db)

	author := seedUser(t, db, "author")
	group := &model.Group{Title: "Go", Slug: "go"}
	require.NoError(t, groupRepo.CreateGroup(ctx, group))
	post := seedPost(t, db, author.ID, &group.ID, "в группе", time.Now())

	require.NoError(t, groupRepo.DeleteGroup(ctx, group.ID))

	// 组没了，帖子还在，只是脱离了组
	gone, err := groupRepo.GetGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := postRepo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Nil(t, kept.GroupID)
}

func TestUserRepo_DeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userRepo := NewUserRepo(db)
	commentRepo := NewCommentRepo(db)
	followRepo := NewFollowRepo(db)

	leaver := seedUser(t, db, "leaver")
	other := seedUser(t, db, "other")

	ownPost := seedPost(t, db, leaver.ID, nil, "мой пост", time.Now())
	otherPost := seedPost(t, db, other.ID, nil, "чужой пост", time.Now())

	// 他人在 leaver 的帖子下的评论也要随帖子一起消失
	require.NoError(t, commentRepo.CreateComment(ctx, &model.Comment{PostID: ownPost.ID, UserID: other.ID, Text: "от other"}))
	// leaver 在他人帖子下的评论同样删除
	require.NoError(t, commentRepo.CreateComment(ctx, &model.Comment{PostID: otherPost.ID, UserID: leaver.ID, Text: "от leaver"}))

	require.NoError(t, followRepo.CreateFollow(ctx, &model.Follow{FollowerID: leaver.ID, FollowingID: other.ID, CreatedAt: time.Now()}))
	require.NoError(t, followRepo.CreateFollow(ctx, &model.Follow{FollowerID: other.ID, FollowingID: leaver.ID, CreatedAt: time.Now()}))

	require.NoError(t, userRepo.DeleteUser(ctx, leaver.ID))

	gone, err := userRepo.GetUserByID(ctx, leaver.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var postCount, commentCount, followCount int64
	require.NoError(t, db.Model(&model.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&model.Comment{}).Count(&commentCount).Error)
	require.NoError(t, db.Model(&model.Follow{}).Count(&followCount).Error)

	assert.Equal(t, int64(1), postCount, "чужой пост должен остаться")
	assert.Equal(t, int64(0), commentCount)
	assert.Equal(t, int64(0), followCount)
}

func TestFollowRepo_CreateFollowIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	followRepo := NewFollowRepo(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	follow := &model.Follow{FollowerID: alice.ID, FollowingID: bob.ID, CreatedAt: time.Now()}
	require.NoError(t, followRepo.CreateFollow(ctx, follow))
	// 重复创建不报错也不产生第二条边
	require.NoError(t, followRepo.CreateFollow(ctx, &model.Follow{FollowerID: alice.ID, FollowingID: bob.ID, CreatedAt: time.Now()}))

	count, err := followRepo.GetFollowingCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFollowRepo_DeleteMissingFollow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	followRepo := NewFollowRepo(db)

	assert.NoError(t, followRepo.DeleteFollow(ctx, 1, 2))
}

func TestPostRepo_DeletePostRemovesComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	postRepo := NewPostRepo(db)
	commentRepo := NewCommentRepo(db)

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, nil, "текст", time.Now())
	require.NoError(t, commentRepo.CreateComment(ctx, &model.Comment{PostID: post.ID, UserID: author.ID, Text: "коммент"}))

	require.NoError(t, postRepo.DeletePost(ctx, post.ID))

	count, err := commentRepo.GetCommentCountByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPostRepo_FeedOrderAndFollowedScope(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	postRepo := NewPostRepo(db)
	followRepo := NewFollowRepo(db)

	reader := seedUser(t, db, "reader")
	followed := seedUser(t, db, "followed")
	stranger := seedUser(t, db, "stranger")

	base := time.Now().Add(-time.Hour)
	old := seedPost(t, db, followed.ID, nil, "старый", base)
	fresh := seedPost(t, db, followed.ID, nil, "свежий", base.Add(time.Minute))
	seedPost(t, db, stranger.ID, nil, "чужой", base.Add(2*time.Minute))

	require.NoError(t, followRepo.CreateFollow(ctx, &model.Follow{FollowerID: reader.ID, FollowingID: followed.ID, CreatedAt: time.Now()}))

	posts, err := postRepo.ListPostsByFollowed(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, fresh.ID, posts[0].ID)
	assert.Equal(t, old.ID, posts[1].ID)

	count, err := postRepo.CountPostsByFollowed(ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPostRepo_FeedOrderTimestampTie(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	postRepo := NewPostRepo(db)

	author := seedUser(t, db, "author")
	// 同一秒发布的两条帖子：created_at 相同，id 大的排前面
	at := time.Now().Truncate(time.Second)
	first := seedPost(t, db, author.ID, nil, "первый", at)
	second := seedPost(t, db, author.ID, nil, "второй", at)
	require.Greater(t, second.ID, first.ID)

	posts, err := postRepo.ListPosts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}
