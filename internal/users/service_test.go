package users

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
	"github.com/angelmondragon/shopfront-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "shopfront", ExpirationMinutes: 60}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
}

func newTestService(t *testing.T, now time.Time) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(ServiceParams{
		Repo:           repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
		BaseURL:        "http://localhost:8000",
		Now:            func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func createTestUser(t *testing.T, svc Service, name, email string) *UserDTO {
	t.Helper()
	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name:            name,
		Email:           email,
		Password:        "secret-pass",
		PasswordConfirm: "secret-pass",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without repository")
	}
}

func TestCreateNormalizesAndDefaults(t *testing.T) {
	svc, repo := newTestService(t, time.Now())
	image := "ada.png"
	role := "Manager"
	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name:            "  Ada Lovelace ",
		Email:           " Ada@Example.COM ",
		Password:        "secret-pass",
		PasswordConfirm: "secret-pass",
		ProfileImage:    &image,
		Role:            &role,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.Slug != "ada-lovelace" {
		t.Fatalf("unexpected slug %q", user.Slug)
	}
	if user.Role != enums.RoleManager || !user.Active {
		t.Fatalf("unexpected role/active %s %v", user.Role, user.Active)
	}
	if user.ProfileImage == nil || *user.ProfileImage != "http://localhost:8000/users/ada.png" {
		t.Fatalf("unexpected profile image %v", user.ProfileImage)
	}

	stored, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ok, _ := security.VerifyPassword("secret-pass", stored.PasswordHash); !ok {
		t.Fatal("stored hash should verify")
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	createTestUser(t, svc, "First User", "dup@example.com")

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name: "Second User", Email: "DUP@example.com", Password: "secret-pass", PasswordConfirm: "secret-pass",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetUpdateDeleteMissingUser(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()
	missing := uuid.New()

	if _, err := svc.Get(ctx, missing); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	name := "Nobody Here"
	if _, err := svc.Update(ctx, missing, UpdateUserRequest{Name: &name}); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on update, got %v", err)
	}
	if _, err := svc.Delete(ctx, missing); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on delete, got %v", err)
	}
}

func TestUpdateChangesProfileAndRole(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	user := createTestUser(t, svc, "Grace Hopper", "grace@example.com")

	name := "Rear Admiral Grace"
	role := "admin"
	active := false
	updated, err := svc.Update(context.Background(), user.ID, UpdateUserRequest{Name: &name, Role: &role, Active: &active})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name || updated.Slug != "rear-admiral-grace" {
		t.Fatalf("unexpected name/slug %q %q", updated.Name, updated.Slug)
	}
	if updated.Role != enums.RoleAdmin || updated.Active {
		t.Fatalf("unexpected role/active %s %v", updated.Role, updated.Active)
	}
}

func TestUpdateMyPasswordRequiresCurrentAndIssuesToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)
	user := createTestUser(t, svc, "Alan Turing", "alan@example.com")
	identity := pkgauth.Identity{UserID: user.ID, Role: user.Role}

	_, _, err := svc.UpdateMyPassword(context.Background(), identity, UpdateMyPasswordRequest{
		CurrentPassword: "wrong-pass", NewPassword: "new-secret", PasswordConfirm: "new-secret",
	})
	if err != ErrIncorrectPassword {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}

	dto, token, err := svc.UpdateMyPassword(context.Background(), identity, UpdateMyPasswordRequest{
		CurrentPassword: "secret-pass", NewPassword: "new-secret", PasswordConfirm: "new-secret",
	})
	if err != nil {
		t.Fatalf("update password: %v", err)
	}
	if dto.PasswordChangedAt == nil || !dto.PasswordChangedAt.Equal(now) {
		t.Fatalf("expected password changed at %v, got %v", now, dto.PasswordChangedAt)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || !claims.IssuedAtTime().Equal(now) {
		t.Fatalf("unexpected claims %+v", claims)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if ok, _ := security.VerifyPassword("new-secret", stored.PasswordHash); !ok {
		t.Fatal("new password should verify")
	}
}

func TestDeactivateMe(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	user := createTestUser(t, svc, "Linus Pauling", "linus@example.com")

	dto, err := svc.DeactivateMe(context.Background(), pkgauth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if dto.Active {
		t.Fatal("expected inactive user")
	}
}

func TestListFiltersByKeyword(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	createTestUser(t, svc, "Marie Curie", "marie@example.com")
	createTestUser(t, svc, "Pierre Curie", "pierre@example.com")
	createTestUser(t, svc, "Niels Bohr", "niels@example.com")

	spec, err := query.Parse(url.Values{"keywords": {"curie"}, "limit": {"1"}}, ListSchema)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	items, meta, err := svc.List(context.Background(), spec)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Marie Curie" {
		t.Fatalf("unexpected items %+v", items)
	}
	if meta.NumberOfPages != 2 || meta.NextPage == nil {
		t.Fatalf("unexpected meta %+v", meta)
	}
}
