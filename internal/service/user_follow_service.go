package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/repository"
	"context"
	"strconv"
	"time"
)

type UserFollowService interface {
	FollowUser(ctx context.Context, followerID uint64, targetUsername string) error
	UnfollowUser(ctx context.Context, followerID uint64, targetUsername string) error
	IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error)
	GetFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*dto.UserDTO, error)
	GetFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*dto.UserDTO, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
}

type UserFollowServiceImpl struct {
	followRepo repository.FollowRepo
	userRepo   repository.UserRepo
}

func NewUserFollowService(followRepo repository.FollowRepo, userRepo repository.UserRepo) UserFollowService {
	return &UserFollowServiceImpl{followRepo: followRepo, userRepo: userRepo}
}

type fetchCountFunc func(ctx context.Context, userID uint64) (int64, error)

// FollowUser 关注目标用户。重复关注和自关注都视为无操作，不报错
func (s *UserFollowServiceImpl) FollowUser(ctx context.Context, followerID uint64, targetUsername string) error {
	target, err := s.userRepo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.ID == followerID {
		return nil
	}

	follow := &model.Follow{
		FollowerID:  followerID,
		FollowingID: target.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.followRepo.CreateFollow(ctx, follow); err != nil {
		return err
	}

	s.invalidateCounts(ctx, followerID, target.ID)
	return nil
}

// UnfollowUser 取消关注。关注边不存在时视为已取消，不报错
func (s *UserFollowServiceImpl) UnfollowUser(ctx context.Context, followerID uint64, targetUsername string) error {
	target, err := s.userRepo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.ID == followerID {
		return nil
	}

	if err := s.followRepo.DeleteFollow(ctx, followerID, target.ID); err != nil {
		return err
	}

	s.invalidateCounts(ctx, followerID, target.ID)
	return nil
}

func (s *UserFollowServiceImpl) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	follow, err := s.followRepo.GetFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return follow != nil, nil
}

func (s *UserFollowServiceImpl) GetFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*dto.UserDTO, error) {
	follows, err := s.followRepo.GetFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	for _, follow := range follows {
		ids = append(ids, follow.FollowerID)
	}
	return s.usersInOrder(ctx, ids)
}

func (s *UserFollowServiceImpl) GetFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*dto.UserDTO, error) {
	follows, err := s.followRepo.GetFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	for _, follow := range follows {
		ids = append(ids, follow.FollowingID)
	}
	return s.usersInOrder(ctx, ids)
}

func (s *UserFollowServiceImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowerCountKey, s.followRepo.GetFollowerCount)
}

func (s *UserFollowServiceImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowingCountKey, s.followRepo.GetFollowingCount)
}

func (s *UserFollowServiceImpl) getCountCommon(
	ctx context.Context,
	userID uint64,
	keyPrefix string,
	fetchDB fetchCountFunc,
) (int64, error) {
	key := keyPrefix + strconv.FormatUint(userID, 10)

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := fetchDB(ctx, userID)
	if err != nil {
		return 0, err
	}

	_ = redis.SetWithExpiration(ctx, key, count, time.Hour*1)
	return count, nil
}

// usersInOrder 按关注边的顺序还原用户列表
func (s *UserFollowServiceImpl) usersInOrder(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	list := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			list = append(list, toUserDTO(user))
		}
	}
	return list, nil
}

func (s *UserFollowServiceImpl) invalidateCounts(ctx context.Context, followerID, followingID uint64) {
	_ = redis.DeleteKey(ctx, consts.UserFollowingCountKey+strconv.FormatUint(followerID, 10))
	_ = redis.DeleteKey(ctx, consts.UserFollowerCountKey+strconv.FormatUint(followingID, 10))
}
