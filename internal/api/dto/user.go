package dto

// RegisterDTO 注册
type RegisterDTO struct {
	Username string  `json:"username" binding:"required" validate:"min=3,max=20"`
	Password string  `json:"password" binding:"required" validate:"min=6,max=20"`
	Nickname string  `json:"nickname" validate:"omitempty,min=1,max=15"`
	Bio      *string `json:"bio" validate:"omitempty,max=200"`
}

// CredentialDTO 登录凭证
type CredentialDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserUpdateDTO 资料修改，字段为 nil 表示不修改
type UserUpdateDTO struct {
	Nickname  *string `json:"nickname" validate:"omitempty,min=1,max=15"`
	Bio       *string `json:"bio" validate:"omitempty,max=200"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=512"`
}

// UserDTO 用户公开信息
type UserDTO struct {
	UserID    uint64  `json:"user_id"`
	Username  string  `json:"username"`
	Nickname  string  `json:"nickname"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL string  `json:"avatar_url"`
	CreatedAt string  `json:"created_at"`
}

// ProfileDTO 个人主页：用户信息加统计与关注状态
type ProfileDTO struct {
	UserDTO
	PostCount      int64 `json:"post_count"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}
