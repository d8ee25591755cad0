package validator

// LoginRequest is the credential login payload. Role is the role the
// client claims to be logging in as; it must match the stored account.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin super_admin"`
}

// RegisterRequest creates a new identity. Admin-only.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Role     string  `json:"role" validate:"required,oneof=student teacher admin super_admin"`
}

// ChangePasswordRequest rotates the caller's own credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
}

// SetStatusRequest transitions an account's status. Admin-only.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}
