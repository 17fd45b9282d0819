package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"time"

	"github.com/jinzhu/copier"
)

func avatarOrDefault(avatarURL *string) string {
	if avatarURL == nil || *avatarURL == "" {
		return consts.DefaultAvatarURL
	}
	return *avatarURL
}

func toUserDTO(user *model.User) *dto.UserDTO {
	return &dto.UserDTO{
		UserID:    user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Bio:       user.Bio,
		AvatarURL: avatarOrDefault(user.AvatarURL),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func toPostDTO(post *model.Post) *dto.PostDTO {
	postDTO := &dto.PostDTO{}
	_ = copier.Copy(postDTO, post)
	postDTO.CreatedAt = post.CreatedAt.Format(time.RFC3339)
	postDTO.UpdatedAt = post.UpdatedAt.Format(time.RFC3339)

	postDTO.UserID = post.UserID
	postDTO.Username = post.User.Username
	postDTO.Nickname = post.User.Nickname
	postDTO.AvatarURL = avatarOrDefault(post.User.AvatarURL)

	if post.Group != nil {
		postDTO.GroupSlug = &post.Group.Slug
		postDTO.GroupTitle = &post.Group.Title
	}
	return postDTO
}

func toPostDTOs(posts []*model.Post) []*dto.PostDTO {
	list := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		list = append(list, toPostDTO(post))
	}
	return list
}

func toCommentDTO(comment *model.Comment) *dto.CommentDTO {
	return &dto.CommentDTO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		UserID:    comment.UserID,
		Username:  comment.User.Username,
		Nickname:  comment.User.Nickname,
		AvatarURL: avatarOrDefault(comment.User.AvatarURL),
	}
}

// totalPagesOf 总页数，空集也算一页
func totalPagesOf(total int64, pageSize int) int {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	return totalPages
}

// clampPage 把请求页码收敛到 [1, totalPages]，越界不报错
func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
