package rest

import "github.com/bulkassi/webProg2/internal/server/models"

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type signInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createUserRequest = signUpRequest

// updateUserRequest carries the target id plus the fields to change; absent
// fields stay as they are.
type updateUserRequest struct {
	UserID   string  `json:"userId" binding:"required"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type deleteUserRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type signUpResponse struct {
	User    *models.Account `json:"user"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
}

type signInResponse struct {
	User    models.Identity `json:"user"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
}
