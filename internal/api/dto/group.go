package dto

// GroupBaseDTO 组 - 新增或修改
type GroupBaseDTO struct {
	Title       string `json:"title" binding:"required" validate:"min=1,max=200"`
	Slug        string `json:"slug" binding:"required" validate:"min=1,max=100"`
	Description string `json:"description" validate:"max=2000"`
}
