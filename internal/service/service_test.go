package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db         *gorm.DB
	userSvc    UserService
	followSvc  UserFollowService
	postSvc    PostService
	commentSvc CommentService
	groupSvc   GroupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
	))

	userRepo := repository.NewUserRepo(db)
	groupRepo := repository.NewGroupRepo(db)
	postRepo := repository.NewPostRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	followRepo := repository.NewFollowRepo(db)

	return &testEnv{
		db:         db,
		userSvc:    NewUserService(userRepo, followRepo),
		followSvc:  NewUserFollowService(followRepo, userRepo),
		postSvc:    NewPostService(postRepo, userRepo, groupRepo),
		commentSvc: NewCommentService(commentRepo, postRepo, userRepo),
		groupSvc:   NewGroupService(groupRepo),
	}
}

func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Password: "hash", Nickname: username, Role: model.RoleUser}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) post(t *testing.T, userID uint64, text string, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{UserID: userID, Text: text, CreatedAt: createdAt}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func TestFeedPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		env.post(t, author.ID, fmt.Sprintf("пост %d", i), base.Add(time.Duration(i)*time.Second))
	}

	t.Run("FirstPageIsFull", func(t *testing.T) {
		feed, err := env.postSvc.GetLatestFeed(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, feed.List, 10)
		assert.Equal(t, 1, feed.Page)
		assert.Equal(t, int64(15), feed.Total)
		assert.Equal(t, 2, feed.TotalPages)
		// 最新的在最前面
		assert.Equal(t, "пост 14", feed.List[0].Text)
	})

	t.Run("SecondPageHasRemainder", func(t *testing.T) {
		feed, err := env.postSvc.GetLatestFeed(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, feed.List, 5)
		assert.Equal(t, 2, feed.Page)
	})

	t.Run("OverflowClampsToLastPage", func(t *testing.T) {
		feed, err := env.postSvc.GetLatestFeed(ctx, 99)
		require.NoError(t, err)
		assert.Equal(t, 2, feed.Page)
		assert.Len(t, feed.List, 5)
	})

	t.Run("UnderflowClampsToFirstPage", func(t *testing.T) {
		feed, err := env.postSvc.GetLatestFeed(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, feed.Page)
	})
}

func TestFeedEmpty(t *testing.T) {
	env := newTestEnv(t)

	feed, err := env.postSvc.GetLatestFeed(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, feed.List)
	assert.Equal(t, 1, feed.Page)
	assert.Equal(t, 1, feed.TotalPages)
	assert.Equal(t, int64(0), feed.Total)
}

func TestFeedScopes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reader := env.user(t, "reader")
	followed := env.user(t, "followed")
	stranger := env.user(t, "stranger")

	base := time.Now().Add(-time.Hour)
	env.post(t, followed.ID, "от followed", base)
	env.post(t, stranger.ID, "от stranger", base.Add(time.Minute))

	require.NoError(t, env.followSvc.FollowUser(ctx, reader.ID, "followed"))

	t.Run("FollowingFeedIsExact", func(t *testing.T) {
		feed, err := env.postSvc.GetFollowingFeed(ctx, reader.ID, 1)
		require.NoError(t, err)
		require.Len(t, feed.List, 1)
		assert.Equal(t, "от followed", feed.List[0].Text)
		assert.Equal(t, "followed", feed.List[0].Username)
	})

	t.Run("AuthorFeed", func(t *testing.T) {
		feed, err := env.postSvc.GetAuthorFeed(ctx, "stranger", 1)
		require.NoError(t, err)
		require.Len(t, feed.List, 1)
		assert.Equal(t, "от stranger", feed.List[0].Text)
	})

	t.Run("AuthorFeedUnknownUser", func(t *testing.T) {
		_, err := env.postSvc.GetAuthorFeed(ctx, "nobody", 1)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("GroupFeedUnknownSlug", func(t *testing.T) {
		_, err := env.postSvc.GetGroupFeed(ctx, "no-such-group", 1)
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}

func TestFollowLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	env.user(t, "bob")

	t.Run("FollowUnknownUser", func(t *testing.T) {
		err := env.followSvc.FollowUser(ctx, alice.ID, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("SelfFollowIsNoop", func(t *testing.T) {
		require.NoError(t, env.followSvc.FollowUser(ctx, alice.ID, "alice"))
		count, err := env.followSvc.GetFollowingCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("DuplicateFollowKeepsSingleEdge", func(t *testing.T) {
		require.NoError(t, env.followSvc.FollowUser(ctx, alice.ID, "bob"))
		require.NoError(t, env.followSvc.FollowUser(ctx, alice.ID, "bob"))

		count, err := env.followSvc.GetFollowingCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("UnfollowThenUnfollowAgain", func(t *testing.T) {
		require.NoError(t, env.followSvc.UnfollowUser(ctx, alice.ID, "bob"))
		// 已经没有这条边了，再取消一次也不报错
		require.NoError(t, env.followSvc.UnfollowUser(ctx, alice.ID, "bob"))

		count, err := env.followSvc.GetFollowingCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestPostAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	intruder := env.user(t, "intruder")

	created, err := env.postSvc.CreatePost(ctx, author.ID, &dto.PostBaseDTO{Text: "исходный текст"})
	require.NoError(t, err)

	t.Run("NonAuthorCannotEdit", func(t *testing.T) {
		err := env.postSvc.UpdatePost(ctx, intruder.ID, created.ID, &dto.PostBaseDTO{Text: "взлом"})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("NonAuthorCannotDelete", func(t *testing.T) {
		err := env.postSvc.DeletePost(ctx, intruder.ID, created.ID)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("AuthorEditsKeepCreatedAt", func(t *testing.T) {
		require.NoError(t, env.postSvc.UpdatePost(ctx, author.ID, created.ID, &dto.PostBaseDTO{Text: "новый текст"}))

		updated, err := env.postSvc.GetPost(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "новый текст", updated.Text)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	})

	t.Run("AdminCanDelete", func(t *testing.T) {
		admin := env.user(t, "admin")
		require.NoError(t, env.db.Model(admin).Update("role", model.RoleAdmin).Error)

		require.NoError(t, env.postSvc.DeletePost(ctx, admin.ID, created.ID))
		_, err := env.postSvc.GetPost(ctx, created.ID)
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("EmptyTextIsRejected", func(t *testing.T) {
		_, err := env.postSvc.CreatePost(ctx, author.ID, &dto.PostBaseDTO{Text: "   "})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "text", vErr.Fields[0].Field)
	})

	t.Run("UnknownGroupIsRejected", func(t *testing.T) {
		_, err := env.postSvc.CreatePost(ctx, author.ID, &dto.PostBaseDTO{Text: "ok", GroupID: util.PtrUint64(404)})
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	commenter := env.user(t, "commenter")
	post := env.post(t, author.ID, "пост", time.Now())

	t.Run("CommentOnMissingPost", func(t *testing.T) {
		_, err := env.commentSvc.CreateComment(ctx, commenter.ID, &dto.CommentCreateDTO{PostID: 404, Text: "привет"})
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("ForbiddenWordIsRejected", func(t *testing.T) {
		_, err := env.commentSvc.CreateComment(ctx, commenter.ID, &dto.CommentCreateDTO{PostID: post.ID, Text: "ну и кумкват"})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
	})

	t.Run("CreateAndList", func(t *testing.T) {
		created, err := env.commentSvc.CreateComment(ctx, commenter.ID, &dto.CommentCreateDTO{PostID: post.ID, Text: "нормальный комментарий"})
		require.NoError(t, err)
		assert.Equal(t, "commenter", created.Username)

		page, err := env.commentSvc.GetComments(ctx, post.ID, 1)
		require.NoError(t, err)
		require.Len(t, page.List, 1)
		assert.Equal(t, "нормальный комментарий", page.List[0].Text)
	})

	t.Run("OnlyOwnerOrAdminDeletes", func(t *testing.T) {
		created, err := env.commentSvc.CreateComment(ctx, commenter.ID, &dto.CommentCreateDTO{PostID: post.ID, Text: "удалить меня"})
		require.NoError(t, err)

		err = env.commentSvc.DeleteComment(ctx, author.ID, created.ID)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		require.NoError(t, env.commentSvc.DeleteComment(ctx, commenter.ID, created.ID))
	})
}

func TestGroupService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("InvalidSlug", func(t *testing.T) {
		_, err := env.groupSvc.CreateGroup(ctx, &dto.GroupBaseDTO{Title: "Новости", Slug: "Плохой Slug"})
		assert.ErrorIs(t, err, ErrGroupSlugInvalid)
	})

	t.Run("DuplicateSlug", func(t *testing.T) {
		_, err := env.groupSvc.CreateGroup(ctx, &dto.GroupBaseDTO{Title: "Новости", Slug: "news"})
		require.NoError(t, err)

		_, err = env.groupSvc.CreateGroup(ctx, &dto.GroupBaseDTO{Title: "Ещё новости", Slug: "news"})
		assert.ErrorIs(t, err, ErrGroupSlugExist)
	})

	t.Run("GetUnknownSlug", func(t *testing.T) {
		_, err := env.groupSvc.GetGroupBySlug(ctx, "ghost")
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}

func TestUserLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("RegisterAndLogin", func(t *testing.T) {
		require.NoError(t, env.userSvc.Register(ctx, &dto.RegisterDTO{Username: "newbie", Password: "secret123"}))

		err := env.userSvc.Register(ctx, &dto.RegisterDTO{Username: "newbie", Password: "secret123"})
		assert.ErrorIs(t, err, ErrUserUsernameExist)

		_, err = env.userSvc.Login(ctx, &dto.CredentialDTO{Username: "newbie", Password: "wrong"})
		assert.ErrorIs(t, err, ErrPasswordIncorrect)

		token, err := env.userSvc.Login(ctx, &dto.CredentialDTO{Username: "newbie", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("ProfileCounters", func(t *testing.T) {
		fan := env.user(t, "fan")
		star, err := env.userSvc.GetProfile(ctx, 0, "newbie")
		require.NoError(t, err)

		env.post(t, star.UserID, "пост звезды", time.Now())
		require.NoError(t, env.followSvc.FollowUser(ctx, fan.ID, "newbie"))

		profile, err := env.userSvc.GetProfile(ctx, fan.ID, "newbie")
		require.NoError(t, err)
		assert.Equal(t, int64(1), profile.PostCount)
		assert.Equal(t, int64(1), profile.FollowerCount)
		assert.True(t, profile.IsFollowing)
	})

	t.Run("CancelUser", func(t *testing.T) {
		require.NoError(t, env.userSvc.Register(ctx, &dto.RegisterDTO{Username: "shortlived", Password: "secret123"}))
		profile, err := env.userSvc.GetProfile(ctx, 0, "shortlived")
		require.NoError(t, err)

		require.NoError(t, env.userSvc.CancelUser(ctx, profile.UserID))

		_, err = env.userSvc.GetProfile(ctx, 0, "shortlived")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

// blindUserRepo 注册前的存在性检查永远扑空，
// 模拟两个并发注册同时通过检查后竞争插入的场景
type blindUserRepo struct {
	repository.UserRepo
}

func (r *blindUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, nil
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("InsertLoserGetsUsernameExist", func(t *testing.T) {
		userRepo := &blindUserRepo{UserRepo: repository.NewUserRepo(env.db)}
		svc := NewUserService(userRepo, repository.NewFollowRepo(env.db))

		require.NoError(t, svc.Register(ctx, &dto.RegisterDTO{Username: "twin", Password: "secret123"}))

		// 第二次插入撞唯一索引，错误要归一化成用户名已存在而不是 500
		err := svc.Register(ctx, &dto.RegisterDTO{Username: "twin", Password: "secret123"})
		assert.ErrorIs(t, err, ErrUserUsernameExist)
	})

	t.Run("MySQLDuplicateEntry", func(t *testing.T) {
		assert.True(t, isDuplicateKeyError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'twin'"}))
		assert.True(t, isDuplicateKeyError(fmt.Errorf("create user: %w", &mysql.MySQLError{Number: 1062})))
		assert.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey))
		assert.False(t, isDuplicateKeyError(&mysql.MySQLError{Number: 1213}))
	})
}
