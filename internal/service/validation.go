package service

import (
	"Inkstone/internal/pkg/util"
	"fmt"
	"strings"
)

// FieldError 单个字段的校验失败信息
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 实体级校验失败，可独立于传输层调用和消费
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(msgs, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// ValidatePostText 帖子正文非空校验，空正文不允许入库
func ValidatePostText(text string) *ValidationError {
	if strings.TrimSpace(text) == "" {
		return newValidationError("text", "帖子内容不能为空")
	}
	return nil
}

// ValidateCommentText 评论正文校验：非空且通过屏蔽词整词过滤
func ValidateCommentText(text string) *ValidationError {
	if strings.TrimSpace(text) == "" {
		return newValidationError("text", "评论内容不能为空")
	}
	if word, hit := util.FindForbiddenWord(text); hit {
		return newValidationError("text", fmt.Sprintf("评论包含屏蔽词: %s", word))
	}
	return nil
}
