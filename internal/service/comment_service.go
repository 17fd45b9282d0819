package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/repository"
	"context"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID uint64, commentDTO *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	GetComments(ctx context.Context, postID uint64, page int) (*dto.CommentPageDTO, error)
	DeleteComment(ctx context.Context, userID uint64, commentID uint64) error
}

type commentServiceImpl struct {
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
	userRepo    repository.UserRepo
}

func NewCommentService(commentRepo repository.CommentRepo, postRepo repository.PostRepo, userRepo repository.UserRepo) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// CreateComment 发表评论。帖子必须存在，正文要通过屏蔽词过滤
func (s *commentServiceImpl) CreateComment(ctx context.Context, userID uint64, commentDTO *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	post, err := s.postRepo.GetPost(ctx, commentDTO.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if vErr := ValidateCommentText(commentDTO.Text); vErr != nil {
		return nil, vErr
	}

	comment := &model.Comment{
		PostID: commentDTO.PostID,
		UserID: userID,
		Text:   commentDTO.Text,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if author != nil {
		comment.User = *author
	}
	return toCommentDTO(comment), nil
}

// GetComments 帖子下的评论列表，时间倒序，页码越界收敛
func (s *commentServiceImpl) GetComments(ctx context.Context, postID uint64, page int) (*dto.CommentPageDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	pageSize := consts.DefaultPageSize

	total, err := s.commentRepo.GetCommentCountByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	totalPages := totalPagesOf(total, pageSize)
	page = clampPage(page, totalPages)

	comments, err := s.commentRepo.GetCommentsByPostID(ctx, postID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		list = append(list, toCommentDTO(comment))
	}
	return &dto.CommentPageDTO{
		List:       list,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// DeleteComment 删除评论，评论作者本人或管理员可操作
func (s *commentServiceImpl) DeleteComment(ctx context.Context, userID uint64, commentID uint64) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		operator, err := s.userRepo.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if operator == nil || operator.Role != model.RoleAdmin {
			return ErrPermissionDenied
		}
	}
	return s.commentRepo.DeleteComment(ctx, commentID)
}
