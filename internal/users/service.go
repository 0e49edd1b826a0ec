package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
	"github.com/angelmondragon/shopfront-backend/pkg/security"
)

var (
	ErrUserNotFound      = pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	ErrEmailInUse        = pkgerrors.New(pkgerrors.CodeConflict, "E-mail already in use")
	ErrIncorrectPassword = pkgerrors.New(pkgerrors.CodeValidation, "Incorrect current password")
)

const hashPasswordAction = "hash password"

// Service covers admin user management and the logged-in user's own profile.
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error)
	List(ctx context.Context, spec query.Spec) ([]UserDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) (*UserDTO, error)
	UpdateMyPassword(ctx context.Context, identity pkgauth.Identity, req UpdateMyPasswordRequest) (*UserDTO, string, error)
	UpdateMe(ctx context.Context, identity pkgauth.Identity, req UpdateMeRequest) (*UserDTO, string, error)
	DeactivateMe(ctx context.Context, identity pkgauth.Identity) (*UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, spec query.Spec) ([]models.User, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build the users service.
type ServiceParams struct {
	Repo           userRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	BaseURL        string
	Now            func() time.Time
}

type service struct {
	repo    userRepository
	jwtCfg  config.JWTConfig
	pwCfg   config.PasswordConfig
	baseURL string
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		jwtCfg:  params.JWTConfig,
		pwCfg:   params.PasswordConfig,
		baseURL: params.BaseURL,
		now:     now,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	role := enums.RoleUser
	if req.Role != nil {
		parsed, err := enums.ParseRole(*req.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		role = parsed
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, hashPasswordAction)
	}

	name := strings.TrimSpace(req.Name)
	user := &models.User{
		Name:         name,
		Slug:         slug.Make(name),
		Email:        NormalizeEmail(req.Email),
		Phone:        trimmedOrNil(req.Phone),
		ProfileImage: trimmedOrNil(req.ProfileImage),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, mapWriteError(err, "create user")
	}
	return FromModel(user, s.baseURL), nil
}

func (s *service) List(ctx context.Context, spec query.Spec) ([]UserDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], s.baseURL))
	}
	return out, meta, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user, s.baseURL), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	updates := profileUpdates(req.Name, req.Email, req.Phone)
	if req.ProfileImage != nil {
		updates["profile_image"] = trimmedOrNil(req.ProfileImage)
	}
	if req.Role != nil {
		role, err := enums.ParseRole(*req.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		updates["role"] = role
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	user, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, mapWriteError(err, "update user")
	}
	return FromModel(user, s.baseURL), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, mapWriteError(err, "delete user")
	}
	return FromModel(user, s.baseURL), nil
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) (*UserDTO, error) {
	user, _, err := s.setPassword(ctx, id, req.NewPassword)
	if err != nil {
		return nil, err
	}
	return FromModel(user, s.baseURL), nil
}

func (s *service) UpdateMyPassword(ctx context.Context, identity pkgauth.Identity, req UpdateMyPasswordRequest) (*UserDTO, string, error) {
	current, err := s.load(ctx, identity.UserID)
	if err != nil {
		return nil, "", err
	}
	ok, err := security.VerifyPassword(req.CurrentPassword, current.PasswordHash)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, "", ErrIncorrectPassword
	}

	user, now, err := s.setPassword(ctx, identity.UserID, req.NewPassword)
	if err != nil {
		return nil, "", err
	}
	token, err := s.mintToken(user, now)
	if err != nil {
		return nil, "", err
	}
	return FromModel(user, s.baseURL), token, nil
}

func (s *service) UpdateMe(ctx context.Context, identity pkgauth.Identity, req UpdateMeRequest) (*UserDTO, string, error) {
	user, err := s.repo.Update(ctx, identity.UserID, profileUpdates(req.Name, req.Email, req.Phone))
	if err != nil {
		return nil, "", mapWriteError(err, "update profile")
	}
	token, err := s.mintToken(user, s.now().UTC())
	if err != nil {
		return nil, "", err
	}
	return FromModel(user, s.baseURL), token, nil
}

func (s *service) DeactivateMe(ctx context.Context, identity pkgauth.Identity) (*UserDTO, error) {
	user, err := s.repo.Update(ctx, identity.UserID, map[string]any{"active": false})
	if err != nil {
		return nil, mapWriteError(err, "deactivate user")
	}
	return FromModel(user, s.baseURL), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func (s *service) setPassword(ctx context.Context, id uuid.UUID, password string) (*models.User, time.Time, error) {
	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, hashPasswordAction)
	}
	now := s.now().UTC()
	user, err := s.repo.Update(ctx, id, map[string]any{
		"password_hash":       hash,
		"password_changed_at": now,
	})
	if err != nil {
		return nil, time.Time{}, mapWriteError(err, "update password")
	}
	return user, now, nil
}

func (s *service) mintToken(user *models.User, now time.Time) (string, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func profileUpdates(name, email, phone *string) map[string]any {
	updates := map[string]any{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		updates["name"] = trimmed
		updates["slug"] = slug.Make(trimmed)
	}
	if email != nil {
		updates["email"] = NormalizeEmail(*email)
	}
	if phone != nil {
		updates["phone"] = trimmedOrNil(phone)
	}
	return updates
}

func mapWriteError(err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrUserNotFound
	case db.IsUniqueViolation(err, ""):
		return ErrEmailInUse
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
