package auth

import "github.com/angelmondragon/shopfront-backend/internal/users"

// SignupRequest is the public registration payload.
type SignupRequest struct {
	Name            string  `json:"name" validate:"required,min=3,max=150"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	PasswordConfirm string  `json:"password_confirm" validate:"required,eqfield=Password"`
	Phone           *string `json:"phone" validate:"omitempty,mobile"`
}

// LoginRequest is the credentials payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ForgetPasswordRequest starts the reset flow.
type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetCodeRequest carries the code mailed to the user.
type VerifyResetCodeRequest struct {
	PasswordResetCode string `json:"passwordResetCode" validate:"required"`
}

// ResetPasswordRequest completes the reset flow once the code is verified.
type ResetPasswordRequest struct {
	Email                string `json:"email" validate:"required,email"`
	NewPassword          string `json:"newPassword" validate:"required,min=6"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=NewPassword"`
}

// Result pairs a user with a freshly minted access token.
type Result struct {
	User  *users.UserDTO
	Token string
}

// ForgetPasswordResult reports whether the reset mail went out.
type ForgetPasswordResult struct {
	Sent    bool
	Message string
	User    *users.UserDTO
}
