package dto

// PostDTO 帖子
type PostDTO struct {
	// Post
	ID        uint64  `json:"id"`
	Text      string  `json:"text"`
	ImageURL  *string `json:"image_url,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`

	// Group
	GroupID    *uint64 `json:"group_id,omitempty"`
	GroupSlug  *string `json:"group_slug,omitempty"`
	GroupTitle *string `json:"group_title,omitempty"`

	// User
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// PostBaseDTO 帖子 - 新增或修改
type PostBaseDTO struct {
	Text     string  `json:"text" binding:"required" validate:"min=1"`
	GroupID  *uint64 `json:"group_id"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=512"`
}

// PostPageDTO 帖子流分页结果
type PostPageDTO struct {
	List       []*PostDTO `json:"list"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"total_pages"`
}
