package auth

import "time"

// User 平台用户
// TenantID 为空表示用户尚未关联租户档案，此时无法使用租户级功能
type User struct {
	ID           string  `json:"id" gorm:"primaryKey;type:uuid"`
	Email        string  `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string  `json:"-" gorm:"size:255;not null"`
	Name         string  `json:"name" gorm:"size:100"`
	TenantID     *string `json:"tenantId" gorm:"type:uuid;index"`
	Role         string  `json:"role" gorm:"size:50;default:member"` // member, admin, system_admin
	IsActive     bool    `json:"isActive" gorm:"default:true"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime"`
}

// Identity 一次请求内解析出的调用方身份
// 在请求开始时解析一次，请求期间不可变
type Identity struct {
	UserID   string
	TenantID string
	Role     string
}

// IsSystemAdmin 是否为平台管理员
func (i *Identity) IsSystemAdmin() bool {
	return i.Role == "system_admin"
}
