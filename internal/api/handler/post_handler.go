package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

// GetLatestFeed 最新流
func (s *PostHandler) GetLatestFeed(c *gin.Context) {
	page := s.getPage(c)

	feed, err := s.postSvc.GetLatestFeed(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetGroupFeed 组内流
func (s *PostHandler) GetGroupFeed(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page := s.getPage(c)

	feed, err := s.postSvc.GetGroupFeed(c.Request.Context(), slug, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetAuthorFeed 作者流
func (s *PostHandler) GetAuthorFeed(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page := s.getPage(c)

	feed, err := s.postSvc.GetAuthorFeed(c.Request.Context(), username, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetFollowingFeed 关注流，只对登录用户开放
func (s *PostHandler) GetFollowingFeed(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page := s.getPage(c)

	feed, err := s.postSvc.GetFollowingFeed(c.Request.Context(), userID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, err := s.getPostID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var baseDTO dto.PostBaseDTO
	if err := c.ShouldBindJSON(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, &baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := s.getPostID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var baseDTO dto.PostBaseDTO
	if err := c.ShouldBindJSON(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.postSvc.UpdatePost(c.Request.Context(), userID, postID, &baseDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := s.getPostID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postSvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) getPostID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("post_id"), 10, 64)
}

func (s *PostHandler) getPage(c *gin.Context) int {
	var pageQuery dto.PageQuery
	_ = c.ShouldBindQuery(&pageQuery)
	return pageQuery.Page
}
