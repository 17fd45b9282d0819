package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// FeedCacheTTL 帖子流缓存的有效期，写操作之外靠它兜底过期
const FeedCacheTTL = 20 * time.Second

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, postDTO *dto.PostBaseDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, userID uint64, postID uint64, postDTO *dto.PostBaseDTO) error
	DeletePost(ctx context.Context, userID uint64, postID uint64) error

	GetLatestFeed(ctx context.Context, page int) (*dto.PostPageDTO, error)
	GetGroupFeed(ctx context.Context, slug string, page int) (*dto.PostPageDTO, error)
	GetAuthorFeed(ctx context.Context, username string, page int) (*dto.PostPageDTO, error)
	GetFollowingFeed(ctx context.Context, viewerID uint64, page int) (*dto.PostPageDTO, error)

	CanEditPost(userID uint64, post *model.Post) bool
}

type postServiceImpl struct {
	postRepo  repository.PostRepo
	userRepo  repository.UserRepo
	groupRepo repository.GroupRepo
}

func NewPostService(postRepo repository.PostRepo, userRepo repository.UserRepo, groupRepo repository.GroupRepo) PostService {
	return &postServiceImpl{
		postRepo:  postRepo,
		userRepo:  userRepo,
		groupRepo: groupRepo,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, postDTO *dto.PostBaseDTO) (*dto.PostDTO, error) {
	if vErr := ValidatePostText(postDTO.Text); vErr != nil {
		return nil, vErr
	}
	if postDTO.GroupID != nil {
		group, err := s.groupRepo.GetGroupByID(ctx, *postDTO.GroupID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, ErrGroupNotFound
		}
	}

	post := &model.Post{
		UserID:   userID,
		GroupID:  postDTO.GroupID,
		Text:     postDTO.Text,
		ImageURL: postDTO.ImageURL,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "post created",
		"post_id", post.ID,
		"user_id", userID,
		"preview", util.TruncateText(post.Text, consts.PostPreviewLength))

	s.invalidateFeedCache(ctx)
	return s.GetPost(ctx, post.ID)
}

func (s *postServiceImpl) GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return toPostDTO(post), nil
}

// UpdatePost 修改帖子，仅作者本人可操作，created_at 不受影响
func (s *postServiceImpl) UpdatePost(ctx context.Context, userID uint64, postID uint64, postDTO *dto.PostBaseDTO) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if !s.CanEditPost(userID, post) {
		return ErrPermissionDenied
	}
	if vErr := ValidatePostText(postDTO.Text); vErr != nil {
		return vErr
	}
	if postDTO.GroupID != nil {
		group, err := s.groupRepo.GetGroupByID(ctx, *postDTO.GroupID)
		if err != nil {
			return err
		}
		if group == nil {
			return ErrGroupNotFound
		}
	}

	values := map[string]any{
		"text":      postDTO.Text,
		"group_id":  postDTO.GroupID,
		"image_url": postDTO.ImageURL,
	}
	if err := s.postRepo.UpdatePost(ctx, postID, values); err != nil {
		return err
	}

	s.invalidateFeedCache(ctx)
	return nil
}

// DeletePost 删除帖子，作者本人或管理员可操作
func (s *postServiceImpl) DeletePost(ctx context.Context, userID uint64, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if !s.CanEditPost(userID, post) {
		operator, err := s.userRepo.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if operator == nil || operator.Role != model.RoleAdmin {
			return ErrPermissionDenied
		}
	}

	if err := s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}

	s.invalidateFeedCache(ctx)
	return nil
}

// CanEditPost 编辑权限：只有作者本人可以修改自己的帖子
func (s *postServiceImpl) CanEditPost(userID uint64, post *model.Post) bool {
	return post != nil && post.UserID == userID
}

// GetLatestFeed 最新流：全站帖子，时间倒序
func (s *postServiceImpl) GetLatestFeed(ctx context.Context, page int) (*dto.PostPageDTO, error) {
	cacheKey := consts.FeedCacheKey + "latest:" + strconv.Itoa(page)
	return s.composeFeed(ctx, cacheKey, page,
		s.postRepo.CountPosts,
		s.postRepo.ListPosts,
	)
}

// GetGroupFeed 组内流：按组标识过滤，组不存在时报 404
func (s *postServiceImpl) GetGroupFeed(ctx context.Context, slug string, page int) (*dto.PostPageDTO, error) {
	group, err := s.groupRepo.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	cacheKey := consts.FeedCacheKey + "group:" + slug + ":" + strconv.Itoa(page)
	return s.composeFeed(ctx, cacheKey, page,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.CountPostsByGroup(ctx, group.ID)
		},
		func(ctx context.Context, limit, offset int) ([]*model.Post, error) {
			return s.postRepo.ListPostsByGroup(ctx, group.ID, limit, offset)
		},
	)
}

// GetAuthorFeed 作者流：某个用户发布的全部帖子
func (s *postServiceImpl) GetAuthorFeed(ctx context.Context, username string, page int) (*dto.PostPageDTO, error) {
	author, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	cacheKey := consts.FeedCacheKey + "author:" + username + ":" + strconv.Itoa(page)
	return s.composeFeed(ctx, cacheKey, page,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.CountPostsByAuthor(ctx, author.ID)
		},
		func(ctx context.Context, limit, offset int) ([]*model.Post, error) {
			return s.postRepo.ListPostsByAuthor(ctx, author.ID, limit, offset)
		},
	)
}

// GetFollowingFeed 关注流：只包含当前用户关注作者的帖子。
// 结果因人而异，不走共享缓存
func (s *postServiceImpl) GetFollowingFeed(ctx context.Context, viewerID uint64, page int) (*dto.PostPageDTO, error) {
	return s.composeFeed(ctx, "", page,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.CountPostsByFollowed(ctx, viewerID)
		},
		func(ctx context.Context, limit, offset int) ([]*model.Post, error) {
			return s.postRepo.ListPostsByFollowed(ctx, viewerID, limit, offset)
		},
	)
}

type fetchFeedCountFunc func(ctx context.Context) (int64, error)
type fetchFeedListFunc func(ctx context.Context, limit, offset int) ([]*model.Post, error)

// composeFeed 组装一页帖子流：页码越界收敛到首页或末页，空集也返回一页。
// cacheKey 非空时走读穿缓存
func (s *postServiceImpl) composeFeed(
	ctx context.Context,
	cacheKey string,
	page int,
	fetchCount fetchFeedCountFunc,
	fetchList fetchFeedListFunc,
) (*dto.PostPageDTO, error) {
	if cacheKey != "" {
		if cached := s.feedFromCache(ctx, cacheKey); cached != nil {
			return cached, nil
		}
	}

	pageSize := consts.DefaultPageSize

	total, err := fetchCount(ctx)
	if err != nil {
		return nil, err
	}
	totalPages := totalPagesOf(total, pageSize)
	page = clampPage(page, totalPages)

	posts, err := fetchList(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	pageDTO := &dto.PostPageDTO{
		List:       toPostDTOs(posts),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}

	if cacheKey != "" {
		s.feedToCache(ctx, cacheKey, pageDTO)
	}
	return pageDTO, nil
}

func (s *postServiceImpl) feedFromCache(ctx context.Context, key string) *dto.PostPageDTO {
	raw, err := redis.GetValue(ctx, key)
	if err != nil || raw == "" {
		return nil
	}
	var pageDTO dto.PostPageDTO
	if err := json.Unmarshal([]byte(raw), &pageDTO); err != nil {
		log.WarnContext(ctx, "unmarshal cached feed failed", "key", key, "err", err)
		return nil
	}
	return &pageDTO
}

func (s *postServiceImpl) feedToCache(ctx context.Context, key string, pageDTO *dto.PostPageDTO) {
	raw, err := json.Marshal(pageDTO)
	if err != nil {
		return
	}
	_ = redis.SetWithExpiration(ctx, key, raw, FeedCacheTTL)
}

// invalidateFeedCache 帖子有任何写入后整体失效帖子流缓存
func (s *postServiceImpl) invalidateFeedCache(ctx context.Context) {
	if err := redis.DeleteByPrefix(ctx, consts.FeedCacheKey); err != nil {
		log.WarnContext(ctx, "invalidate feed cache failed", "err", err)
	}
}
