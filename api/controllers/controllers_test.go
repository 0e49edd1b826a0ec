package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopfront-backend/api/middleware"
	"github.com/angelmondragon/shopfront-backend/internal/auth"
	"github.com/angelmondragon/shopfront-backend/internal/cart"
	"github.com/angelmondragon/shopfront-backend/internal/checkout"
	"github.com/angelmondragon/shopfront-backend/internal/coupons"
	"github.com/angelmondragon/shopfront-backend/internal/orders"
	product "github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/internal/wishlist"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

type stubAuth struct {
	auth.Service
	forget *auth.ForgetPasswordResult
}

func (s stubAuth) ForgetPassword(context.Context, auth.ForgetPasswordRequest) (*auth.ForgetPasswordResult, error) {
	return s.forget, nil
}

type stubCart struct {
	cart.Service
	added  cart.AddItemRequest
	coupon string
}

func (s *stubCart) ApplyCoupon(_ context.Context, userID uuid.UUID, couponName string) (*cart.CartDTO, error) {
	s.coupon = couponName
	return &cart.CartDTO{ID: uuid.New(), UserID: userID}, nil
}

type openLocker struct{}

func (openLocker) AcquireLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (openLocker) ReleaseLock(context.Context, string) error { return nil }

func (s *stubCart) AddItem(_ context.Context, userID uuid.UUID, req cart.AddItemRequest) (*cart.CartDTO, error) {
	s.added = req
	return &cart.CartDTO{
		ID:        uuid.New(),
		UserID:    userID,
		CartItems: []cart.CartItemDTO{{}, {}},
	}, nil
}

type stubOrders struct {
	orders.Service
	cartID  uuid.UUID
	address types.ShippingAddress
}

func (s *stubOrders) CreateCashOrder(_ context.Context, _ pkgauth.Identity, cartID uuid.UUID, address types.ShippingAddress) (*orders.OrderDTO, error) {
	s.cartID = cartID
	s.address = address
	return &orders.OrderDTO{ID: uuid.New()}, nil
}

type stubCheckout struct {
	address types.ShippingAddress
}

func (s *stubCheckout) CreateSession(_ context.Context, _ pkgauth.Identity, _ uuid.UUID, address types.ShippingAddress) (*checkout.SessionResult, error) {
	s.address = address
	return &checkout.SessionResult{URL: "https://pay.example/cs_1", SessionID: "cs_1"}, nil
}

type stubWishlist struct {
	wishlist.Service
}

func (stubWishlist) List(context.Context, uuid.UUID) ([]product.ProductDTO, error) {
	return []product.ProductDTO{{}, {}, {}}, nil
}

func asUser(r *http.Request) *http.Request {
	identity := pkgauth.Identity{UserID: uuid.New(), Role: enums.RoleUser}
	return r.WithContext(middleware.WithIdentity(r.Context(), identity))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthForgetPasswordReportsMailFailure(t *testing.T) {
	handler := AuthForgetPassword(stubAuth{forget: &auth.ForgetPasswordResult{Sent: false, Message: "There is an error in sending email"}}, nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/forgetPassword", strings.NewReader(`{"email":"ann@example.com"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "There is an error in sending email", body["mess"])
}

func TestCartAddItemRequiresIdentity(t *testing.T) {
	handler := CartAddItem(&stubCart{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/carts", strings.NewReader(`{"product":"`+uuid.NewString()+`"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAddItemWritesCartEnvelope(t *testing.T) {
	svc := &stubCart{}
	productID := uuid.New()
	req := asUser(httptest.NewRequest(http.MethodPost, "/carts", strings.NewReader(`{"product":"`+productID.String()+`","color":"red"}`)))
	rec := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Product added to cart successfully", body["mess"])
	assert.EqualValues(t, 2, body["numOfCartItems"])
	assert.Equal(t, productID, svc.added.ProductID)
	assert.Equal(t, "red", svc.added.Color)
}

func TestCartAddItemMergesRepeatedProductThroughAPI(t *testing.T) {
	conn := dbtest.Open(t)
	couponSvc, err := coupons.NewService(coupons.ServiceParams{Repo: coupons.NewRepository(conn)})
	require.NoError(t, err)
	svc, err := cart.NewService(cart.ServiceParams{
		Repo:     cart.NewRepository(conn),
		Tx:       db.NewFromConn(conn),
		Locker:   openLocker{},
		Products: product.NewRepository(conn),
		Coupons:  couponSvc,
	})
	require.NoError(t, err)

	p1 := models.Product{
		ID:          uuid.New(),
		Title:       "Linen shirt",
		Slug:        "linen-shirt",
		Description: "desc",
		Quantity:    50,
		Price:       decimal.RequireFromString("12.50"),
		ImageCover:  "cover.jpeg",
		CategoryID:  uuid.New(),
	}
	require.NoError(t, conn.Create(&p1).Error)

	identity := pkgauth.Identity{UserID: uuid.New(), Role: enums.RoleUser}
	handler := CartAddItem(svc, nil)
	var body map[string]any
	for _, quantity := range []string{"2", "3"} {
		payload := `{"product":"` + p1.ID.String() + `","quantity":` + quantity + `}`
		req := httptest.NewRequest(http.MethodPost, "/carts", strings.NewReader(payload))
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body = decode(t, rec)
	}

	assert.EqualValues(t, 1, body["numOfCartItems"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	items, ok := data["cartItems"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.EqualValues(t, 5, items[0].(map[string]any)["quantity"])
	assert.EqualValues(t, 62.5, data["totalCartPrice"])
}

func TestCartApplyCouponReadsCouponName(t *testing.T) {
	svc := &stubCart{}
	req := asUser(httptest.NewRequest(http.MethodPut, "/carts/applyCoupon", strings.NewReader(`{"couponName":"SUMMER10"}`)))
	rec := httptest.NewRecorder()
	CartApplyCoupon(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SUMMER10", svc.coupon)

	req = asUser(httptest.NewRequest(http.MethodGet, "/carts/applyCoupon?couponName=winter5", nil))
	rec = httptest.NewRecorder()
	CartApplyCoupon(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "winter5", svc.coupon)
}

func TestOrderCreateCashUsesRouteCart(t *testing.T) {
	svc := &stubOrders{}
	r := chi.NewRouter()
	r.Post("/orders/{id}", OrderCreateCash(svc, nil))

	cartID := uuid.New()
	payload := `{"shippingAddress":{"details":"12 Nile St","phone":"01012345678","city":"Cairo"}}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/orders/"+cartID.String(), strings.NewReader(payload)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, cartID, svc.cartID)
	assert.Equal(t, "Cairo", svc.address.City)
	assert.Equal(t, "New order has been created successfully", decode(t, rec)["mess"])
}

func TestOrderCreateCashRejectsBadCartID(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/orders/{id}", OrderCreateCash(&stubOrders{}, nil))

	req := asUser(httptest.NewRequest(http.MethodPost, "/orders/not-a-uuid", strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid id format")
}

func TestOrderCheckoutSessionReadsAddressFromQuery(t *testing.T) {
	svc := &stubCheckout{}
	r := chi.NewRouter()
	r.Get("/orders/checkout-session/{cartId}", OrderCheckoutSession(svc, nil))

	req := asUser(httptest.NewRequest(http.MethodGet, "/orders/checkout-session/"+uuid.NewString()+"?city=Giza&phone=01012345678", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Giza", svc.address.City)
	assert.Equal(t, "01012345678", svc.address.Phone)
	body := decode(t, rec)
	assert.Equal(t, "session is created successfully", body["mess"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://pay.example/cs_1", data["url"])
}

func TestWishlistListCountsItems(t *testing.T) {
	req := asUser(httptest.NewRequest(http.MethodGet, "/wishList", nil))
	rec := httptest.NewRecorder()
	WishlistList(stubWishlist{}, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decode(t, rec)["results"])
}
