package util

import (
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug 校验组的 URL 标识：小写字母数字加中划线
func IsValidSlug(slug string) bool {
	return slugRegex.MatchString(slug)
}

// TruncateText 帖子摘要：取前 15 个字符
func TruncateText(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}

// PtrUint64 用于将 uint64 转换为 *uint64
func PtrUint64(i uint64) *uint64 {
	return &i
}
