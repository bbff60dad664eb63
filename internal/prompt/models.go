package prompt

import "time"

// PromptTemplate 系统提示词模板
// 按 name 检索，同名只取一条活跃记录；分发流程只读
type PromptTemplate struct {
	ID string `json:"id" gorm:"primaryKey;type:uuid"`

	Name     string `json:"name" gorm:"size:100;not null;index"`
	Title    string `json:"title" gorm:"size:255"`
	Content  string `json:"content" gorm:"type:text;not null"`
	Category string `json:"category" gorm:"size:50"` // privacy, risk, compliance, audit, incident, vendor, general
	IsActive bool   `json:"isActive" gorm:"default:true;index"`
	Version  int    `json:"version" gorm:"default:1"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime"`
}

// TableName 指定表名
func (PromptTemplate) TableName() string {
	return "prompt_templates"
}
