package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	username := c.Param("username")
	if username == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.FollowUser(c.Request.Context(), userID, username); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	username := c.Param("username")
	if username == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.UnfollowUser(c.Request.Context(), userID, username); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) GetSomeoneIsFollowing(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followingIDStr := c.Param("following_id")

	followingID, err := strconv.ParseUint(followingIDStr, 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	isFollowing, err := s.userFollowSvc.IsFollowing(c.Request.Context(), userID, followingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"is_following": isFollowing})
}

func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, offset := s.getPagination(c)

	followers, err := s.userFollowSvc.GetFollowers(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followers)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, offset := s.getPagination(c)

	followings, err := s.userFollowSvc.GetFollowing(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followings)
}

func (s *UserFollowHandler) GetUserFollowersCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	count, err := s.userFollowSvc.GetFollowerCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func (s *UserFollowHandler) GetUserFollowingCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	count, err := s.userFollowSvc.GetFollowingCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func (s *UserFollowHandler) getPagination(c *gin.Context) (limit, offset int) {
	var pageQuery dto.PageQuery
	_ = c.ShouldBindQuery(&pageQuery)

	page := pageQuery.Page
	if page < 1 {
		page = 1
	}
	limit = consts.DefaultPageSize
	offset = (page - 1) * limit
	return limit, offset
}
