package bookshop

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// The session endpoints below are simulated on this side: each call
// waits through the configured Delayer then applies client-side
// validation only. No credential is ever verified against a backend.
// Rejected inputs come back as *ValidationError with an HTTP-like
// status so the caller can surface them next to the offending field.

// Login authenticates a user from its credentials and mints a fresh
// user record on success.
func (c *BookshopClient) Login(ctx context.Context, email, password string) (User, error) {
	c.delay.Wait(ctx)

	if err := ValidateLoginRequest(email, password); err != nil {
		c.logger.Warn("client: login request rejected", zap.Error(err))
		return User{}, NewValidationError(http.StatusBadRequest, err.Error())
	}

	user := User{
		ID:    c.ids.Generate(UserIDPrefix),
		Email: email,
	}
	c.logger.Info("client: login succeeded", zap.String("user.id", user.ID))
	return user, nil
}

// Signup registers a new user record carrying a generated identifier.
func (c *BookshopClient) Signup(ctx context.Context, name, email, password string) (User, error) {
	c.delay.Wait(ctx)

	if err := ValidateSignupRequest(name, email, password); err != nil {
		c.logger.Warn("client: signup request rejected", zap.Error(err))
		return User{}, NewValidationError(http.StatusBadRequest, err.Error())
	}

	user := User{
		ID:    c.ids.Generate(UserIDPrefix),
		Email: email,
		Name:  name,
	}
	c.logger.Info("client: signup succeeded", zap.String("user.id", user.ID))
	return user, nil
}

// ResetPassword acknowledges a reset request by echoing the email.
// No message is actually dispatched anywhere.
func (c *BookshopClient) ResetPassword(ctx context.Context, email string) (string, error) {
	c.delay.Wait(ctx)

	if err := ValidateEmailRequest(email); err != nil {
		c.logger.Warn("client: reset password request rejected", zap.Error(err))
		return "", NewValidationError(http.StatusBadRequest, err.Error())
	}
	return email, nil
}

// SetNewPassword validates a replacement password. The reset token is
// accepted but never verified.
func (c *BookshopClient) SetNewPassword(ctx context.Context, password, _ string) error {
	c.delay.Wait(ctx)

	if err := ValidateNewPasswordRequest(password); err != nil {
		c.logger.Warn("client: new password request rejected", zap.Error(err))
		return NewValidationError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// UpdateProfile validates and applies a profile change, preserving the
// caller-supplied user identifier.
func (c *BookshopClient) UpdateProfile(ctx context.Context, name, email, userID string) (User, error) {
	c.delay.Wait(ctx)

	if len(userID) == 0 {
		c.logger.Warn("client: profile update rejected, missing user id")
		return User{}, NewValidationError(http.StatusBadRequest, missingFieldError("user id").Error())
	}
	if err := ValidateProfileRequest(name, email); err != nil {
		c.logger.Warn("client: profile update rejected", zap.Error(err))
		return User{}, NewValidationError(http.StatusBadRequest, err.Error())
	}

	return User{
		ID:    userID,
		Email: email,
		Name:  name,
	}, nil
}

// ChangePassword validates a password change. The current password is
// never checked against anything, the backend being mocked holds no
// credential to compare with.
func (c *BookshopClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	c.delay.Wait(ctx)

	if err := ValidateChangePasswordRequest(currentPassword, newPassword); err != nil {
		c.logger.Warn("client: change password request rejected", zap.Error(err))
		return NewValidationError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Logout terminates the session. It succeeds unconditionally and
// carries no payload.
func (c *BookshopClient) Logout(ctx context.Context) error {
	c.delay.Wait(ctx)
	return nil
}
