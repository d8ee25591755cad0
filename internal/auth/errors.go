package auth

import "errors"

var (
	// ErrInvalidToken covers bad signatures and malformed payloads.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned once the token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidCredentials is returned on a failed login, without
	// distinguishing unknown user from wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRoleMismatch is returned when a login names a role the account
	// does not hold.
	ErrRoleMismatch = errors.New("role mismatch")

	// ErrInactiveAccount rejects identities whose status is not active.
	ErrInactiveAccount = errors.New("account is not active")

	// ErrIdentityNotProvisioned means the external provider accepted the
	// token but no internal identity matches it.
	ErrIdentityNotProvisioned = errors.New("identity not provisioned")
)
