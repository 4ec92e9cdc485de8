package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Role struct {
	ID   uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

type User struct {
	ID    uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name" gorm:"not null"`
	Email string `json:"email" gorm:"not null;uniqueIndex"`
	// PasswordHash holds the bcrypt hash; the plaintext is never stored.
	PasswordHash string    `json:"-" gorm:"not null"`
	RoleID       uint64    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (u *User) RoleName() string {
	return u.Role.Name
}
