package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseProductFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/products?search=pump&category=Mechanical&brand=Velan,Fenesta&minPrice=100&maxPrice=900&rating=4&featured=true&inStock=true&sort=price_asc&page=3&limit=24", nil)

	filter := parseProductFilter(req)

	assert.Equal(t, "pump", filter.Search)
	assert.Equal(t, "Mechanical", filter.Category)
	assert.Equal(t, []string{"Velan", "Fenesta"}, filter.Brands)
	require.NotNil(t, filter.MinPrice)
	assert.Equal(t, 100.0, *filter.MinPrice)
	require.NotNil(t, filter.MaxPrice)
	assert.Equal(t, 900.0, *filter.MaxPrice)
	require.NotNil(t, filter.Rating)
	assert.Equal(t, 4.0, *filter.Rating)
	assert.True(t, filter.Featured)
	assert.True(t, filter.InStock)
	assert.False(t, filter.Discount)
	assert.Equal(t, "price_asc", filter.Sort)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 24, filter.Limit)
}

func TestParseProductFilter_Defaults(t *testing.T) {
	filter := parseProductFilter(httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 12, filter.Limit)
	assert.Nil(t, filter.MinPrice)
	assert.Nil(t, filter.MaxPrice)
	assert.Nil(t, filter.Rating)
	assert.Empty(t, filter.Brands)
}

func TestParseProductFilter_IgnoresJunkNumbers(t *testing.T) {
	filter := parseProductFilter(httptest.NewRequest(http.MethodGet,
		"/api/products?minPrice=cheap&page=-2&limit=zero", nil))

	assert.Nil(t, filter.MinPrice)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 12, filter.Limit)
}

func TestProductHandler_GetAll(t *testing.T) {
	mockSvc := new(MockProductService)
	mockSvc.On("List", mock.Anything, mock.AnythingOfType("*model.ProductFilter")).Return(&model.ProductPage{
		Products:    []model.Product{{ID: uuid.New(), Title: "Teak Door"}},
		Total:       1,
		TotalPages:  1,
		CurrentPage: 1,
	}, nil)

	h := NewProductHandler(mockSvc, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetAll(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success     bool            `json:"success"`
		Products    []model.Product `json:"products"`
		Total       int             `json:"total"`
		TotalPages  int             `json:"totalPages"`
		CurrentPage int             `json:"currentPage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Teak Door", resp.Products[0].Title)
}

func TestProductHandler_GetByID_AttachesReviews(t *testing.T) {
	productID := uuid.New()

	mockSvc := new(MockProductService)
	mockSvc.On("Get", mock.Anything, productID).Return(&model.ProductDetail{
		Product: model.Product{ID: productID, Title: "Teak Door"},
		Reviews: []model.Review{{ID: uuid.New(), Rating: 5}},
	}, nil)

	h := NewProductHandler(mockSvc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+productID.String(), nil)
	req.SetPathValue("id", productID.String())

	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Product model.Product  `json:"product"`
		Reviews []model.Review `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, productID, resp.Product.ID)
	require.Len(t, resp.Reviews, 1)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	productID := uuid.New()

	mockSvc := new(MockProductService)
	mockSvc.On("Get", mock.Anything, productID).Return(nil, model.ErrProductNotFound)

	h := NewProductHandler(mockSvc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+productID.String(), nil)
	req.SetPathValue("id", productID.String())

	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_Create_ValidationError(t *testing.T) {
	mockSvc := new(MockProductService)
	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("*model.ProductInput")).
		Return(nil, model.NewDomainError(model.ErrCodeMissingField, "Title is required"))

	h := NewProductHandler(mockSvc, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/products", `{"price": 100}`, &model.User{Role: model.RoleAdmin}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required")
}
