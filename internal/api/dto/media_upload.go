package dto

// MediaUploadDTO 上传结果
type MediaUploadDTO struct {
	ObjectName   string `json:"object_name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// MediaTempMetadata 临时媒体元信息，挂在 redis hash 上等待被帖子或头像引用
type MediaTempMetadata struct {
	CreatedAt int64  `json:"created_at"`
	MimeType  string `json:"mime_type"`
}
