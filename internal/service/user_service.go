package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/security"
	"Inkstone/internal/repository"
	"context"
	"strconv"
)

type UserService interface {
	Register(ctx context.Context, regDTO *dto.RegisterDTO) error
	Login(ctx context.Context, credentialDTO *dto.CredentialDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetProfile(ctx context.Context, viewerID uint64, username string) (*dto.ProfileDTO, error)
	UpdateProfile(ctx context.Context, id uint64, updateDTO *dto.UserUpdateDTO) error
	UpdateAvatar(ctx context.Context, id uint64, avatarURL string) error
	CancelUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo   repository.UserRepo
	followRepo repository.FollowRepo
}

func NewUserService(userRepo repository.UserRepo, followRepo repository.FollowRepo) UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	findUser, err := s.userRepo.GetUserByUsername(ctx, regDTO.Username)
	if err != nil {
		return err
	}
	if findUser != nil {
		return ErrUserUsernameExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}

	nickname := regDTO.Nickname
	if nickname == "" {
		nickname = regDTO.Username
	}

	user := &model.User{
		Username: regDTO.Username,
		Password: passwordHash,
		Nickname: nickname,
		Bio:      regDTO.Bio,
		Role:     model.RoleUser,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserUsernameExist
		}
		return err
	}
	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, credentialDTO *dto.CredentialDTO) (string, error) {
	if credentialDTO.Username == "" || credentialDTO.Password == "" {
		return "", ErrMissingLoginCredentials
	}
	user, err := s.userRepo.GetUserByUsername(ctx, credentialDTO.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if err := security.CheckPasswordHash(credentialDTO.Password, user.Password); err != nil {
		return "", ErrPasswordIncorrect
	}
	return security.GenerateToken(user.ID, []string{user.Role})
}

// Logout 把 token 签名拉入黑名单，有效期覆盖 token 的剩余生命周期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, true, security.JWTExpirationTime)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user), nil
}

// GetProfile 个人主页：基础信息加帖子数、粉丝数、关注数，
// viewerID 非零时顺带给出访问者是否已关注
func (s *UserServiceImpl) GetProfile(ctx context.Context, viewerID uint64, username string) (*dto.ProfileDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	postCount, err := s.userRepo.GetUserPostCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.followRepo.GetFollowerCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.followRepo.GetFollowingCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != 0 && viewerID != user.ID {
		follow, err := s.followRepo.GetFollow(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		isFollowing = follow != nil
	}

	return &dto.ProfileDTO{
		UserDTO:        *toUserDTO(user),
		PostCount:      postCount,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		IsFollowing:    isFollowing,
	}, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uint64, updateDTO *dto.UserUpdateDTO) error {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	values := map[string]any{}
	if updateDTO.Nickname != nil {
		values["nickname"] = *updateDTO.Nickname
	}
	if updateDTO.Bio != nil {
		values["bio"] = *updateDTO.Bio
	}
	if updateDTO.AvatarURL != nil {
		values["avatar_url"] = *updateDTO.AvatarURL
	}
	if len(values) == 0 {
		return nil
	}
	return s.userRepo.UpdateUser(ctx, id, values)
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, avatarURL string) error {
	return s.userRepo.UpdateUser(ctx, id, map[string]any{"avatar_url": avatarURL})
}

// CancelUser 注销账号：级联清理帖子、评论、关注边，并失效相关缓存
func (s *UserServiceImpl) CancelUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}

	idStr := strconv.FormatUint(id, 10)
	_ = redis.DeleteKey(ctx, consts.UserFollowerCountKey+idStr)
	_ = redis.DeleteKey(ctx, consts.UserFollowingCountKey+idStr)
	_ = redis.DeleteByPrefix(ctx, consts.FeedCacheKey)
	return nil
}
