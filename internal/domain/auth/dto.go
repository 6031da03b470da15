// internal/domain/auth/dto.go
package auth

// RegisterRequest for user registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest for user login. Login is either a username or an email.
type LoginRequest struct {
	Login     string `json:"login" binding:"required"`
	Password  string `json:"password" binding:"required"`
	UserAgent string `json:"-"`
}

// TokenPair is returned by every successful authentication
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ResetUsernameRequest changes the username after re-checking credentials
type ResetUsernameRequest struct {
	Login       string `json:"login" binding:"required"`
	Password    string `json:"password" binding:"required"`
	NewUsername string `json:"new_username" binding:"required,min=3,max=64"`
}

// ResetPasswordRequest changes the password after re-checking credentials
type ResetPasswordRequest struct {
	Login       string `json:"login" binding:"required"`
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// HistoryQuery paginates the login history
type HistoryQuery struct {
	Limit  int `form:"limit,default=10" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// CreateRoleRequest for role creation
type CreateRoleRequest struct {
	Title       string  `json:"title" binding:"required,max=64"`
	Description *string `json:"description"`
}

// UpdateRoleRequest is a partial update; nil fields are left unchanged
type UpdateRoleRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=64"`
	Description *string `json:"description"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	Roles       []Role `json:"roles"`
}

func NewUserResponse(u *User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []Role{}
	}
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
		Roles:       roles,
	}
}
