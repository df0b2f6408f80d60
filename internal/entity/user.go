package entity

import "github.com/viahme/viah/pkg/constant"

// User represents an account, either a couple or a vendor
type User struct {
	Id        string `json:"id" gorm:"column:id;primaryKey;size:64"`
	Email     string `json:"email" gorm:"column:email;uniqueIndex;size:191"`
	Nickname  string `json:"nickname" gorm:"column:nickname;size:128"`
	Avatar    string `json:"avatar" gorm:"column:avatar;size:512"`
	Password  string `json:"-" gorm:"column:password"`
	Role      string `json:"role" gorm:"column:role;size:16"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// IsVendor reports whether the account belongs to a vendor
func (u *User) IsVendor() bool {
	return u.Role == constant.RoleVendor
}

// UserInfo represents public user info (without password)
type UserInfo struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

// ToUserInfo converts User to UserInfo
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		Id:        u.Id,
		Email:     u.Email,
		Nickname:  u.Nickname,
		Avatar:    u.Avatar,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ValidRole reports whether role is a known account role
func ValidRole(role string) bool {
	return role == constant.RoleCouple || role == constant.RoleVendor
}
