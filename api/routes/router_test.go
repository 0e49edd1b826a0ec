package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/angelmondragon/shopfront-backend/api/controllers"
	"github.com/angelmondragon/shopfront-backend/internal/auth"
	"github.com/angelmondragon/shopfront-backend/internal/cart"
	"github.com/angelmondragon/shopfront-backend/internal/categories"
	"github.com/angelmondragon/shopfront-backend/internal/orders"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

type stubAuthService struct {
	auth.Service
	identities map[string]pkgauth.Identity
}

func (s stubAuthService) Authenticate(_ context.Context, token string) (pkgauth.Identity, error) {
	identity, ok := s.identities[token]
	if !ok {
		return pkgauth.Identity{}, auth.ErrInvalidToken
	}
	return identity, nil
}

type stubCartService struct {
	cart.Service
}

func (stubCartService) GetMine(_ context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{ID: uuid.New(), UserID: userID}, nil
}

type stubCategoryService struct {
	categories.Service
	deleted []uuid.UUID
}

func (s *stubCategoryService) List(context.Context, query.Spec) ([]categories.CategoryDTO, pagination.Meta, error) {
	return []categories.CategoryDTO{}, pagination.Meta{CurrentPage: 1, Limit: 50, NumberOfPages: 0}, nil
}

func (s *stubCategoryService) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubOrderService struct {
	orders.Service
}

func (stubOrderService) Get(_ context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func testRouter(t *testing.T) (http.Handler, *stubCategoryService) {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	reg := prometheus.NewRegistry()
	cats := &stubCategoryService{}

	svc := Services{
		Auth: stubAuthService{identities: map[string]pkgauth.Identity{
			"admin-token":   {UserID: uuid.New(), Role: enums.RoleAdmin},
			"manager-token": {UserID: uuid.New(), Role: enums.RoleManager},
			"user-token":    {UserID: uuid.New(), Role: enums.RoleUser},
		}},
		Cart:       stubCartService{},
		Categories: cats,
		Orders:     stubOrderService{},
	}
	infra := Infra{
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
		Readiness:   map[string]controllers.Pinger{"db": stubPinger{}},
	}
	return NewRouter(cfg, logg, svc, infra), cats
}

func call(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	h, _ := testRouter(t)
	rec := call(h, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Shopfront-Env"); got != "dev" {
		t.Fatalf("expected env header dev, got %q", got)
	}
}

func TestHealthReady(t *testing.T) {
	h, _ := testRouter(t)
	if rec := call(h, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCartRequiresLogin(t *testing.T) {
	h, _ := testRouter(t)
	rec := call(h, http.MethodGet, "/carts", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "You are not login") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCartRoleGate(t *testing.T) {
	h, _ := testRouter(t)
	if rec := call(h, http.MethodGet, "/carts", "admin-token"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected admin to be forbidden from user cart, got %d", rec.Code)
	}
	rec := call(h, http.MethodGet, "/carts", "user-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for user, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"numOfCartItems":0`) {
		t.Fatalf("expected cart item count in body, got %s", rec.Body.String())
	}
}

func TestCategoryDeleteIsAdminOnly(t *testing.T) {
	h, cats := testRouter(t)
	id := uuid.New()

	if rec := call(h, http.MethodDelete, "/categories/"+id.String(), "manager-token"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for manager, got %d", rec.Code)
	}
	if rec := call(h, http.MethodDelete, "/categories/"+id.String(), "admin-token"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin, got %d", rec.Code)
	}
	if len(cats.deleted) != 1 || cats.deleted[0] != id {
		t.Fatalf("expected delete of %s, got %v", id, cats.deleted)
	}
}

func TestCategoryListIsPublic(t *testing.T) {
	h, _ := testRouter(t)
	rec := call(h, http.MethodGet, "/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"paginationResult"`) {
		t.Fatalf("expected pagination block, got %s", rec.Body.String())
	}
}

func TestMetricsEndpointExposesRequestCounter(t *testing.T) {
	h, _ := testRouter(t)
	call(h, http.MethodGet, "/health/live", "")
	rec := call(h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/health/live") {
		t.Fatalf("expected route label in metrics output")
	}
}

func TestOrderGetIsStaffOnly(t *testing.T) {
	h, _ := testRouter(t)
	path := "/orders/" + uuid.NewString()

	if rec := call(h, http.MethodGet, path, "user-token"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user, got %d (%s)", rec.Code, rec.Body.String())
	}
	for _, token := range []string{"admin-token", "manager-token"} {
		if rec := call(h, http.MethodGet, path, token); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d (%s)", token, rec.Code, rec.Body.String())
		}
	}
}

func TestBrandAndSubcategoryDeleteAreAdminOnly(t *testing.T) {
	h, _ := testRouter(t)
	for _, prefix := range []string{"/brands/", "/subcategories/"} {
		rec := call(h, http.MethodDelete, prefix+uuid.NewString(), "manager-token")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403 for manager, got %d", prefix, rec.Code)
		}
	}
}
