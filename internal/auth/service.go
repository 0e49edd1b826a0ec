package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/users"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/mail"
	"github.com/angelmondragon/shopfront-backend/pkg/security"
)

var (
	ErrInvalidCredential  = pkgerrors.New(pkgerrors.CodeUnauthorized, "Incorrect email or password")
	ErrInvalidToken       = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token, please login again")
	ErrTokenUserNotFound  = pkgerrors.New(pkgerrors.CodeUnauthorized, "the user belonging to this token no longer exists")
	ErrAccountDeactivated = pkgerrors.New(pkgerrors.CodeUnauthorized, "this user account is not active")
	ErrStaleCredential    = pkgerrors.New(pkgerrors.CodeUnauthorized, "password has been changed after the token was issued, please login again")
	ErrEmailInUse         = pkgerrors.New(pkgerrors.CodeConflict, "E-mail already in use")
)

// Service defines the behavior needed by the auth controllers and middleware.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*Result, error)
	Login(ctx context.Context, req LoginRequest) (*Result, error)
	ForgetPassword(ctx context.Context, req ForgetPasswordRequest) (*ForgetPasswordResult, error)
	VerifyResetCode(ctx context.Context, req VerifyResetCodeRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (*Result, error)
	Authenticate(ctx context.Context, token string) (pkgauth.Identity, error)
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByResetCode(ctx context.Context, codeHash string, now time.Time) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.User, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Mailer         mail.Sender
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	ResetConfig    config.PasswordResetConfig
	BaseURL        string
	Now            func() time.Time
}

type service struct {
	users    userRepository
	mailer   mail.Sender
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	resetTTL time.Duration
	baseURL  string
	now      func() time.Time
}

const defaultResetTTL = 10 * time.Minute

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mailer required")
	}
	if err := pkgauth.ValidateConfig(params.JWTConfig); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "jwt config")
	}
	resetTTL := params.ResetConfig.CodeTTL
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:    params.UserRepo,
		mailer:   params.Mailer,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
		resetTTL: resetTTL,
		baseURL:  params.BaseURL,
		now:      now,
	}, nil
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*Result, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	name := strings.TrimSpace(req.Name)
	user := &models.User{
		Name:         name,
		Slug:         slug.Make(name),
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         enums.RoleUser,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrEmailInUse
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return s.result(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, ErrInvalidCredential
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, ErrInvalidCredential
	}
	return s.result(user)
}

// Authenticate resolves a bearer token into the caller identity.
func (s *service) Authenticate(ctx context.Context, token string) (pkgauth.Identity, error) {
	claims, err := pkgauth.ParseAccessToken(s.jwtCfg, token)
	if err != nil {
		return pkgauth.Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, ErrInvalidToken.Message())
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgauth.Identity{}, ErrTokenUserNotFound
		}
		return pkgauth.Identity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.Active {
		return pkgauth.Identity{}, ErrAccountDeactivated
	}
	if changedAfterIssue(user.PasswordChangedAt, claims.IssuedAtTime()) {
		return pkgauth.Identity{}, ErrStaleCredential
	}

	return pkgauth.Identity{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

// changedAfterIssue compares at second precision, matching the iat claim.
func changedAfterIssue(changedAt *time.Time, issuedAt time.Time) bool {
	if changedAt == nil {
		return false
	}
	return changedAt.Unix() > issuedAt.Unix()
}

func (s *service) result(user *models.User) (*Result, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &Result{User: users.FromModel(user, s.baseURL), Token: token}, nil
}
