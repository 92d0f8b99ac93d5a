package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"velan-store/internal/auth"
	"velan-store/internal/handler"
	"velan-store/internal/model"
	"velan-store/internal/repository"
	"velan-store/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserRepo serves the fixed set of accounts RequireAuth loads.
type stubUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users[id], nil
}

// stubProductService answers the public catalogue routes.
type stubProductService struct {
	service.ProductService
}

func (s *stubProductService) List(ctx context.Context, filter *model.ProductFilter) (*model.ProductPage, error) {
	return &model.ProductPage{Products: []model.Product{}, CurrentPage: 1}, nil
}

func (s *stubProductService) Featured(ctx context.Context) ([]model.Product, error) {
	return []model.Product{{Title: "Teak Door"}}, nil
}

// stubOrderService answers the owner-scoped order routes.
type stubOrderService struct {
	service.OrderService
}

func (s *stubOrderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return []model.Order{}, nil
}

func (s *stubOrderService) ListAll(ctx context.Context) (*model.AdminOrderList, error) {
	return &model.AdminOrderList{Orders: []model.Order{}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *auth.Manager, *model.User, *model.User) {
	t.Helper()

	tokens := auth.NewManager("test-secret", "velan-store", time.Hour)
	logger := zerolog.Nop()

	regular := &model.User{ID: uuid.New(), Name: "Priya Raman", Role: model.RoleUser}
	admin := &model.User{ID: uuid.New(), Name: "Store Admin", Role: model.RoleAdmin}

	users := &stubUserRepo{users: map[uuid.UUID]*model.User{
		regular.ID: regular,
		admin.ID:   admin,
	}}

	h := Handlers{
		Auth:     handler.NewAuthHandler(nil, logger),
		Product:  handler.NewProductHandler(&stubProductService{}, logger),
		Order:    handler.NewOrderHandler(&stubOrderService{}, logger),
		Review:   handler.NewReviewHandler(nil, logger),
		Wishlist: handler.NewWishlistHandler(nil, logger),
		Design:   handler.NewDesignHandler(nil, logger),
		User:     handler.NewUserHandler(nil, logger),
	}

	return New(h, tokens, users, logger), tokens, regular, admin
}

func bearerFor(t *testing.T, tokens *auth.Manager, user *model.User) string {
	t.Helper()
	token, _, err := tokens.SignAccess(user.ID, user.Role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_PublicRoutes(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	for _, target := range []string{"/health", "/api/products", "/api/products/featured/all"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestRouter_RailBeatsWildcard(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	// featured/all must hit the rail handler, not GetByID with id="featured".
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/featured/all", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Teak Door")
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/orders/myorders"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/wishlist"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/designs"},
	}

	for _, tt := range targets {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tt.path)
	}
}

func TestRouter_AdminRoutesRejectRegularUsers(t *testing.T) {
	router, tokens, regular, _ := newTestRouter(t)

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/users"},
		{http.MethodPost, "/api/products"},
		{http.MethodGet, "/api/designs/admin/all"},
		{http.MethodGet, "/api/orders/stats/dashboard"},
	}

	for _, tt := range targets {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.Header.Set("Authorization", bearerFor(t, tokens, regular))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, tt.path)
	}
}

func TestRouter_AuthenticatedUserReachesOwnOrders(t *testing.T) {
	router, tokens, regular, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/myorders", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, regular))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminReachesOrderList(t *testing.T) {
	router, tokens, _, admin := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, admin))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/products", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
