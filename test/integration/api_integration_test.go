package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"velan-store/internal/auth"
	"velan-store/internal/cache"
	"velan-store/internal/handler"
	"velan-store/internal/model"
	"velan-store/internal/payment"
	"velan-store/internal/repository"
	"velan-store/internal/router"
	"velan-store/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	reviewRepo := repository.NewReviewRepository(testDB.Pool, logger)
	designRepo := repository.NewDesignRepository(testDB.Pool, logger)
	wishlistRepo := repository.NewWishlistRepository(testDB.Pool, logger)
	couponRepo := repository.NewCouponRepository(testDB.Pool, logger)

	tokens := auth.NewManager("test-secret", "velan-store", time.Hour)
	passwords := auth.NewPasswords(4)
	provider := payment.NewDemoProvider(logger)
	railCache := cache.NewNoopCache()

	authService := service.NewAuthService(userRepo, tokens, passwords, logger)
	userService := service.NewUserService(userRepo, logger)
	productService := service.NewProductService(productRepo, reviewRepo, railCache, time.Minute, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, couponRepo, userRepo, reviewRepo, provider, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, orderRepo, logger)
	designService := service.NewDesignService(designRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, logger)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Review:   handler.NewReviewHandler(reviewService, logger),
		Wishlist: handler.NewWishlistHandler(wishlistService, logger),
		Design:   handler.NewDesignHandler(designService, logger),
		User:     handler.NewUserHandler(userService, logger),
	}

	return router.New(h, tokens, userRepo, logger)
}

func doJSON(t *testing.T, server http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, server http.Handler, email string) string {
	t.Helper()

	w := doJSON(t, server, http.MethodPost, "/api/auth/register", "", model.RegisterRequest{
		Name:     "Priya Raman",
		Email:    email,
		Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestStorefrontAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("register, login and fetch own profile", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		registerUser(t, server, "priya@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/auth/login", "", model.LoginRequest{
			Email:    "priya@example.com",
			Password: "secret123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		me := doJSON(t, server, http.MethodGet, "/api/auth/me", resp.Token, nil)
		assert.Equal(t, http.StatusOK, me.Code)
		assert.Contains(t, me.Body.String(), "priya@example.com")
	})

	t.Run("duplicate registration is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		registerUser(t, server, "priya@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/auth/register", "", model.RegisterRequest{
			Name:     "Priya Again",
			Email:    "priya@example.com",
			Password: "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("catalogue list is public, writes are admin-only", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProduct(t, testDB.Pool, "Teak Door", 450, 5)

		w := doJSON(t, server, http.MethodGet, "/api/products", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Teak Door")

		token := registerUser(t, server, "priya@example.com")
		w = doJSON(t, server, http.MethodPost, "/api/products", token, model.ProductInput{
			Title: "Pine Door", Price: 250, Category: model.CategoryIndustrial,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("cash on delivery checkout decrements stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		productID := SeedProduct(t, testDB.Pool, "Teak Door", 100, 5)
		token := registerUser(t, server, "priya@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/orders", token, model.OrderRequest{
			Items:           []model.OrderItemRequest{{ProductID: productID, Quantity: 2}},
			ShippingAddress: ShippingFixture(),
			PaymentMethod:   "cod",
			TotalAmount:     235,
			Tax:             25,
			ShippingCost:    10,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Order model.Order `json:"order"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.OrderStatusPending, resp.Order.Status)
		assert.Equal(t, model.PaymentStatusPending, resp.Order.PaymentStatus)

		detail := doJSON(t, server, http.MethodGet, "/api/products/"+productID.String(), "", nil)
		require.Equal(t, http.StatusOK, detail.Code)

		var product struct {
			Product model.Product `json:"product"`
		}
		require.NoError(t, json.NewDecoder(detail.Body).Decode(&product))
		assert.Equal(t, 3, product.Product.Stock)
	})

	t.Run("checkout with a mismatched total is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		productID := SeedProduct(t, testDB.Pool, "Teak Door", 100, 5)
		token := registerUser(t, server, "priya@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/orders", token, model.OrderRequest{
			Items:           []model.OrderItemRequest{{ProductID: productID, Quantity: 2}},
			ShippingAddress: ShippingFixture(),
			PaymentMethod:   "cod",
			TotalAmount:     120,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "total")
	})

	t.Run("orders are invisible to strangers", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		productID := SeedProduct(t, testDB.Pool, "Teak Door", 100, 5)
		ownerToken := registerUser(t, server, "owner@example.com")
		strangerToken := registerUser(t, server, "stranger@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/orders", ownerToken, model.OrderRequest{
			Items:           []model.OrderItemRequest{{ProductID: productID, Quantity: 1}},
			ShippingAddress: ShippingFixture(),
			PaymentMethod:   "cod",
			TotalAmount:     100,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Order model.Order `json:"order"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		target := "/api/orders/" + resp.Order.ID.String()
		assert.Equal(t, http.StatusOK, doJSON(t, server, http.MethodGet, target, ownerToken, nil).Code)
		assert.Equal(t, http.StatusForbidden, doJSON(t, server, http.MethodGet, target, strangerToken, nil).Code)
		assert.Equal(t, http.StatusUnauthorized, doJSON(t, server, http.MethodGet, target, "", nil).Code)
	})

	t.Run("wishlist add, check and remove", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		productID := SeedProduct(t, testDB.Pool, "Teak Door", 450, 5)
		token := registerUser(t, server, "priya@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/wishlist/"+productID.String(), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		check := doJSON(t, server, http.MethodGet, "/api/wishlist/check/"+productID.String(), token, nil)
		assert.Equal(t, http.StatusOK, check.Code)
		assert.Contains(t, check.Body.String(), `"inWishlist":true`)

		dup := doJSON(t, server, http.MethodPost, "/api/wishlist/"+productID.String(), token, nil)
		assert.Equal(t, http.StatusBadRequest, dup.Code)

		rm := doJSON(t, server, http.MethodDelete, "/api/wishlist/"+productID.String(), token, nil)
		assert.Equal(t, http.StatusOK, rm.Code)
	})

	t.Run("design project lifecycle", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		token := registerUser(t, server, "priya@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/designs", token, model.DesignInput{
			ProjectName: "Courtyard Gate",
			ProjectType: "Gate",
			Category:    "Residential",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Design model.Design `json:"design"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.DesignStatusDraft, resp.Design.Status)

		target := fmt.Sprintf("/api/designs/%s", resp.Design.ID)
		update := doJSON(t, server, http.MethodPut, target, token, model.DesignInput{
			ProjectName: "Courtyard Gate",
			ProjectType: "Gate",
			Category:    "Residential",
			Status:      model.DesignStatusSubmitted,
		})
		require.Equal(t, http.StatusOK, update.Code, update.Body.String())
		assert.Contains(t, update.Body.String(), model.DesignStatusSubmitted)

		// A regular user cannot promote a submitted design further.
		promote := doJSON(t, server, http.MethodPut, target, token, model.DesignInput{
			ProjectName: "Courtyard Gate",
			ProjectType: "Gate",
			Category:    "Residential",
			Status:      model.DesignStatusUnderReview,
		})
		assert.Equal(t, http.StatusForbidden, promote.Code)
	})

	t.Run("review create recomputes the product rating", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		productID := SeedProduct(t, testDB.Pool, "Teak Door", 450, 5)
		token := registerUser(t, server, "priya@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/reviews", token, model.ReviewRequest{
			ProductID: productID,
			Rating:    4,
			Comment:   "solid build",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		detail := doJSON(t, server, http.MethodGet, "/api/products/"+productID.String(), "", nil)
		require.Equal(t, http.StatusOK, detail.Code)

		var product struct {
			Product model.Product `json:"product"`
		}
		require.NoError(t, json.NewDecoder(detail.Body).Decode(&product))
		assert.InDelta(t, 4.0, product.Product.Rating, 0.01)
		assert.Equal(t, 1, product.Product.NumReviews)
	})
}

func TestAdminAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	adminToken := func(t *testing.T) string {
		adminID := SeedUser(t, testDB.Pool, "admin@example.com", model.RoleAdmin)
		tokens := auth.NewManager("test-secret", "velan-store", time.Hour)
		token, _, err := tokens.SignAccess(adminID, model.RoleAdmin)
		require.NoError(t, err)
		return token
	}

	t.Run("admin creates and deletes products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		token := adminToken(t)

		w := doJSON(t, server, http.MethodPost, "/api/products", token, model.ProductInput{
			Title: "Pine Door", Price: 250, Category: model.CategoryIndustrial, Stock: 4,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Product model.Product `json:"product"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.NotEqual(t, uuid.Nil, resp.Product.ID)

		del := doJSON(t, server, http.MethodDelete, "/api/products/"+resp.Product.ID.String(), token, nil)
		assert.Equal(t, http.StatusOK, del.Code)
	})

	t.Run("admin walks an order through its statuses", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		token := adminToken(t)
		productID := SeedProduct(t, testDB.Pool, "Teak Door", 100, 5)
		userToken := registerUser(t, server, "priya@example.com")

		w := doJSON(t, server, http.MethodPost, "/api/orders", userToken, model.OrderRequest{
			Items:           []model.OrderItemRequest{{ProductID: productID, Quantity: 1}},
			ShippingAddress: ShippingFixture(),
			PaymentMethod:   "cod",
			TotalAmount:     100,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Order model.Order `json:"order"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		target := "/api/orders/" + resp.Order.ID.String()
		for _, status := range []string{model.OrderStatusProcessing, model.OrderStatusShipped, model.OrderStatusDelivered} {
			u := doJSON(t, server, http.MethodPut, target, token, model.OrderStatusRequest{Status: status})
			require.Equal(t, http.StatusOK, u.Code, u.Body.String())
		}

		// Delivered marks the payment as captured and is terminal.
		final := doJSON(t, server, http.MethodGet, target, token, nil)
		require.Equal(t, http.StatusOK, final.Code)
		assert.Contains(t, final.Body.String(), model.PaymentStatusPaid)

		back := doJSON(t, server, http.MethodPut, target, token, model.OrderStatusRequest{Status: model.OrderStatusPending})
		assert.Equal(t, http.StatusBadRequest, back.Code)
	})

	t.Run("dashboard aggregates after a delivered order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		token := adminToken(t)

		w := doJSON(t, server, http.MethodGet, "/api/orders/stats/dashboard", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "stats")
	})
}
