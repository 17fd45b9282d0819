package service

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrGroupNotFound           = errors.New("组不存在")
	ErrGroupSlugExist          = errors.New("组标识已存在")
	ErrGroupSlugInvalid        = errors.New("组标识格式不正确")
	ErrPostNotFound            = errors.New("帖子不存在")
	ErrCommentNotFound         = errors.New("评论不存在")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrFileTooLarge            = errors.New("文件超过大小限制")
	ErrPermissionDenied        = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrGroupNotFound:           NotFound,
	ErrGroupSlugExist:          BadRequest,
	ErrGroupSlugInvalid:        BadRequest,
	ErrPostNotFound:            NotFound,
	ErrCommentNotFound:         NotFound,
	ErrFileNotSupported:        BadRequest,
	ErrFileTooLarge:            BadRequest,
	ErrPermissionDenied:        Forbidden,
	UnExpectedError:            InternalServerError,
}

// isDuplicateKeyError 识别唯一键冲突。注册走先查后插，并发时两个请求
// 都可能通过存在性检查，落败一方的插入错误在这里归一化
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
