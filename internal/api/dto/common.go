package dto

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// PageQuery 分页查询参数，页大小由服务端配置固定
type PageQuery struct {
	Page int `form:"page"`
}
