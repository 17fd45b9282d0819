package dto

// CommentCreateDTO 评论 - 新增
type CommentCreateDTO struct {
	PostID uint64 `json:"post_id" binding:"required"`
	Text   string `json:"text" binding:"required" validate:"min=1,max=1000"`
}

// CommentDTO 评论
type CommentDTO struct {
	ID        uint64 `json:"id"`
	PostID    uint64 `json:"post_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`

	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// CommentPageDTO 评论分页结果
type CommentPageDTO struct {
	List       []*CommentDTO `json:"list"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}
