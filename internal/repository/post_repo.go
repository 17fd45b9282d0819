package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// FeedOrder 帖子流的默认排序：时间倒序，时间相同再按 id 倒序保证全序
const FeedOrder = "created_at DESC, id DESC"

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	UpdatePost(ctx context.Context, id uint64, values map[string]any) error
	DeletePost(ctx context.Context, id uint64) error

	ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error)
	ListPostsByGroup(ctx context.Context, groupID uint64, limit, offset int) ([]*model.Post, error)
	ListPostsByAuthor(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	ListPostsByFollowed(ctx context.Context, followerID uint64, limit, offset int) ([]*model.Post, error)

	CountPosts(ctx context.Context) (int64, error)
	CountPostsByGroup(ctx context.Context, groupID uint64) (int64, error)
	CountPostsByAuthor(ctx context.Context, userID uint64) (int64, error)
	CountPostsByFollowed(ctx context.Context, followerID uint64) (int64, error)

	CountPostsByImage(ctx context.Context, imageURL string) (int64, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Preload("User").Preload("Group").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost 按字段更新，created_at 与 user_id 不在可更新范围内
func (s *PostRepoImpl) UpdatePost(ctx context.Context, id uint64, values map[string]any) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(values).Error
}

// DeletePost 删除帖子并级联删除帖子下的全部评论
func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}

func (s *PostRepoImpl) ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).Preload("User").Preload("Group").
		Order(FeedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostRepoImpl) ListPostsByGroup(ctx context.Context, groupID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).Preload("User").Preload("Group").
		Where("group_id = ?", groupID).
		Order(FeedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostRepoImpl) ListPostsByAuthor(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).Preload("User").Preload("Group").
		Where("user_id = ?", userID).
		Order(FeedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPostsByFollowed 关注流：只取 follower 关注的作者的帖子
func (s *PostRepoImpl) ListPostsByFollowed(ctx context.Context, followerID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).Preload("User").Preload("Group").
		Where("user_id IN (?)", s.followedAuthors(followerID)).
		Order(FeedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostRepoImpl) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) CountPostsByGroup(ctx context.Context, groupID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) CountPostsByAuthor(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) CountPostsByFollowed(ctx context.Context, followerID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("user_id IN (?)", s.followedAuthors(followerID)).
		Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) CountPostsByImage(ctx context.Context, imageURL string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("image_url = ?", imageURL).Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) followedAuthors(followerID uint64) *gorm.DB {
	return s.db.Model(&model.Follow{}).Select("following_id").Where("follower_id = ?", followerID)
}
