package models

import (
	"time"
)

// Role ids, matching the roles table seed.
const (
	RoleSubmitter = 1
	RoleReviewer  = 2
	RoleAdmin     = 3
	RoleExecutive = 4
)

type User struct {
	UserID     int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname  string     `gorm:"column:user_fname;type:varchar(255)" json:"user_fname"`
	UserLname  string     `gorm:"column:user_lname;type:varchar(255)" json:"user_lname"`
	Email      string     `gorm:"column:email;type:varchar(255);unique" json:"email"`
	Password   string     `gorm:"column:password;type:varchar(255)" json:"-"`
	RoleID     int        `gorm:"column:role_id" json:"role_id"`
	Department *string    `gorm:"column:department;type:varchar(255)" json:"department,omitempty"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role;type:varchar(64)" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// FullName joins first and last name.
func (u User) FullName() string {
	if u.UserLname == "" {
		return u.UserFname
	}
	return u.UserFname + " " + u.UserLname
}

// DefaultRoles is the seed for the roles table.
func DefaultRoles() []Role {
	return []Role{
		{RoleID: RoleSubmitter, Role: "submitter"},
		{RoleID: RoleReviewer, Role: "reviewer"},
		{RoleID: RoleAdmin, Role: "admin"},
		{RoleID: RoleExecutive, Role: "executive"},
	}
}
