package models

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Fullname string `json:"fullname"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Password *string `json:"password"`
	Fullname *string `json:"fullname"`
	Role     *string `json:"role"`
}

type UserChanges struct {
	PasswordHash *string
	Fullname     *string
	Role         *string
}

func (c *UserChanges) HasChanges() bool {
	return c.PasswordHash != nil || c.Fullname != nil || c.Role != nil
}
