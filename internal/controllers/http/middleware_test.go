package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/mocks"
	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router    *gin.Engine
	userRepo  *mocks.MockUserRepository
	orderRepo *mocks.MockOrderRepository
	cartRepo  *mocks.MockCartRepository
	auth      *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := new(mocks.MockUserRepository)
	orderRepo := new(mocks.MockOrderRepository)
	itemRepo := new(mocks.MockItemRepository)
	cartRepo := new(mocks.MockCartRepository)
	tx := &mocks.FakeTxManager{UoW: &mocks.FakeUnitOfWork{ItemRepo: itemRepo, OrderRepo: orderRepo}}

	auth := services.NewAuthService(userRepo, "test-secret", time.Hour)
	handler := NewHandler(
		auth,
		services.NewUserService(userRepo),
		services.NewCatalogService(itemRepo, nil),
		services.NewCartService(cartRepo, itemRepo, nil),
		services.NewOrderService(tx, orderRepo, nil, nil),
		nil,
	)

	r := gin.New()
	handler.RegisterRoutes(r)

	return &testEnv{router: r, userRepo: userRepo, orderRepo: orderRepo, cartRepo: cartRepo, auth: auth}
}

// tokenFor issues a real token for a user with the given role and arranges
// for the middleware to resolve it.
func (e *testEnv) tokenFor(t *testing.T, id uint64, email, role string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	assert.NoError(t, err)

	user := &domain.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.Role{ID: 1, Name: role},
	}
	e.userRepo.On("FindByEmail", mock.Anything, email).Return(user, nil)
	e.userRepo.On("FindByID", mock.Anything, id).Return(user, nil)

	_, token, err := e.auth.Login(context.Background(), email, "hunter22", "127.0.0.1")
	assert.NoError(t, err)
	return token
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthentication_MissingOrInvalidToken(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token"},
		{name: "garbage token", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(env.router, "GET", "/orders", tt.token)

			assert.Equal(t, 401, w.Code)
			var body map[string]any
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			env.orderRepo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthorization_RoleGate(t *testing.T) {
	t.Run("user role is denied the admin listing", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.tokenFor(t, 1, "alice@example.com", domain.RoleUser)

		w := doRequest(env.router, "GET", "/orders/admin", token)

		assert.Equal(t, 403, w.Code)
		env.orderRepo.AssertNotCalled(t, "FindAll", mock.Anything)
	})

	t.Run("admin role passes", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.tokenFor(t, 2, "root@example.com", domain.RoleAdmin)
		env.orderRepo.On("FindAll", mock.Anything).Return([]domain.Order{}, nil)

		w := doRequest(env.router, "GET", "/orders/admin", token)

		assert.Equal(t, 200, w.Code)
		env.orderRepo.AssertExpectations(t)
	})

	t.Run("authenticated user reaches own orders", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.tokenFor(t, 1, "alice@example.com", domain.RoleUser)
		env.orderRepo.On("FindByUserID", mock.Anything, uint64(1)).Return([]domain.Order{}, nil)

		w := doRequest(env.router, "GET", "/orders", token)

		assert.Equal(t, 200, w.Code)
		env.orderRepo.AssertExpectations(t)
	})
}

func TestErrorStatusMapping(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, 1, "alice@example.com", domain.RoleUser)
	env.cartRepo.On("FindByUserID", mock.Anything, uint64(1)).Return(nil, nil)

	// cart endpoints surface not-found errors as 404
	w := doRequest(env.router, "DELETE", "/cart", token)
	assert.Equal(t, 404, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "cart not found", body["message"])
}
