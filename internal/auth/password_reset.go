package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/users"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/mail"
	"github.com/angelmondragon/shopfront-backend/pkg/security"
)

var (
	ErrResetCodeInvalid = pkgerrors.New(pkgerrors.CodeForbidden, "Reset code invalid or expired")
	ErrResetNotVerified = pkgerrors.New(pkgerrors.CodeForbidden, "password reset code has not been verified")
)

const (
	resetMailSentMessage   = "Reset code has been sent to email!"
	resetMailFailedMessage = "There are error during sending mail"
)

func (s *service) ForgetPassword(ctx context.Context, req ForgetPasswordRequest) (*ForgetPasswordResult, error) {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	code, err := security.GenerateResetCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset code")
	}
	expires := s.now().UTC().Add(s.resetTTL)
	user, err = s.users.Update(ctx, user.ID, map[string]any{
		"password_reset_code":     security.HashResetCode(code),
		"password_reset_expires":  expires,
		"password_reset_verified": false,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset code")
	}

	sendErr := s.mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Your password reset code (valid for %d minutes)", int(s.resetTTL.Minutes())),
		Body:    resetMailBody(user.Name, code, s.resetTTL.Minutes()),
	})
	if sendErr != nil {
		if _, err := s.users.Update(ctx, user.ID, clearedResetFields()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, errors.Join(sendErr, err), "roll back reset code")
		}
		return &ForgetPasswordResult{Sent: false, Message: resetMailFailedMessage}, nil
	}

	return &ForgetPasswordResult{
		Sent:    true,
		Message: resetMailSentMessage,
		User:    users.FromModel(user, s.baseURL),
	}, nil
}

func (s *service) VerifyResetCode(ctx context.Context, req VerifyResetCodeRequest) error {
	user, err := s.users.FindByResetCode(ctx, security.HashResetCode(req.PasswordResetCode), s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetCodeInvalid
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset code")
	}
	if _, err := s.users.Update(ctx, user.ID, map[string]any{"password_reset_verified": true}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark reset code verified")
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*Result, error) {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user.PasswordResetVerified == nil || !*user.PasswordResetVerified {
		return nil, ErrResetNotVerified
	}

	hash, err := security.HashPassword(req.NewPassword, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	updates := clearedResetFields()
	updates["password_hash"] = hash
	updates["password_changed_at"] = s.now().UTC()

	user, err = s.users.Update(ctx, user.ID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset password")
	}
	return s.result(user)
}

func (s *service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	normalized := users.NormalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("There is no user with email %s", normalized))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func clearedResetFields() map[string]any {
	return map[string]any{
		"password_reset_code":     nil,
		"password_reset_expires":  nil,
		"password_reset_verified": nil,
	}
}

func resetMailBody(name, code string, minutes float64) string {
	return fmt.Sprintf("Hi %s,\nWe received a request to reset the password on your account.\nYour reset code is %s and it is valid for %d minutes.\nEnter this code to complete the reset.", name, code, int(minutes))
}
