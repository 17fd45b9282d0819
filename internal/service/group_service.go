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
)

type GroupService interface {
	CreateGroup(ctx context.Context, groupDTO *dto.GroupBaseDTO) (*model.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
	UpdateGroup(ctx context.Context, id uint64, groupDTO *dto.GroupBaseDTO) error
	DeleteGroup(ctx context.Context, id uint64) error
}

type groupServiceImpl struct {
	groupRepo repository.GroupRepo
}

func NewGroupService(groupRepo repository.GroupRepo) GroupService {
	return &groupServiceImpl{groupRepo: groupRepo}
}

// CreateGroup 新建组，slug 全局唯一且只允许小写字母数字加连字符
func (s *groupServiceImpl) CreateGroup(ctx context.Context, groupDTO *dto.GroupBaseDTO) (*model.Group, error) {
	if !util.IsValidSlug(groupDTO.Slug) {
		return nil, ErrGroupSlugInvalid
	}
	existing, err := s.groupRepo.GetGroupBySlug(ctx, groupDTO.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrGroupSlugExist
	}

	group := &model.Group{
		Title:       groupDTO.Title,
		Slug:        groupDTO.Slug,
		Description: groupDTO.Description,
	}
	if err := s.groupRepo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupServiceImpl) GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error) {
	group, err := s.groupRepo.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

func (s *groupServiceImpl) ListGroups(ctx context.Context) ([]*model.Group, error) {
	return s.groupRepo.ListGroups(ctx)
}

func (s *groupServiceImpl) UpdateGroup(ctx context.Context, id uint64, groupDTO *dto.GroupBaseDTO) error {
	group, err := s.groupRepo.GetGroupByID(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}

	if groupDTO.Slug != group.Slug {
		if !util.IsValidSlug(groupDTO.Slug) {
			return ErrGroupSlugInvalid
		}
		existing, err := s.groupRepo.GetGroupBySlug(ctx, groupDTO.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrGroupSlugExist
		}
	}

	group.Title = groupDTO.Title
	group.Slug = groupDTO.Slug
	group.Description = groupDTO.Description
	if err := s.groupRepo.UpdateGroup(ctx, group); err != nil {
		return err
	}

	s.invalidateFeedCache(ctx)
	return nil
}

// DeleteGroup 删除组，组下的帖子保留并脱离该组
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, id uint64) error {
	group, err := s.groupRepo.GetGroupByID(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if err := s.groupRepo.DeleteGroup(ctx, id); err != nil {
		return err
	}

	s.invalidateFeedCache(ctx)
	return nil
}

// invalidateFeedCache 组的标题和标识会被烘进缓存的帖子流里，
// 组的变更和帖子写入一样要整体失效缓存
func (s *groupServiceImpl) invalidateFeedCache(ctx context.Context) {
	if err := redis.DeleteByPrefix(ctx, consts.FeedCacheKey); err != nil {
		log.WarnContext(ctx, "invalidate feed cache failed", "err", err)
	}
}
