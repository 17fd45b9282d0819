package consts

const (
	MimePrefixImage = "image"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

// DefaultPageSize 帖子流和评论列表的默认分页大小
const DefaultPageSize = 10

// PostPreviewLength 日志里帖子正文摘要的长度
const PostPreviewLength = 15
