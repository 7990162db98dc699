package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/account-api/internal/services"
	"github.com/harentsoaR/account-api/internal/store"
	"github.com/harentsoaR/account-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	router *gin.Engine
	store  *store.MemoryAccountStore
	tokens *utils.TokenIssuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryAccountStore()
	svc := services.NewAccountService(st, utils.NewBcryptHasher(bcrypt.MinCost), zap.NewNop())
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)

	r := gin.New()
	NewHandler(svc, tokens, zap.NewNop()).Register(r)
	return &testAPI{router: r, store: st, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func TestRegister_HashesAndHidesPassword(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": "Secret123!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "Secret123!")

	stored, err := api.store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Secret123!")))
}

func TestRegister_Errors(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": "Secret123!", "phone": "+15550100"})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{name: "duplicate email", body: gin.H{"email": "a@x.com", "password": "Secret123!"}, status: http.StatusConflict},
		{name: "duplicate phone", body: gin.H{"email": "b@x.com", "password": "Secret123!", "phone": "+15550100"}, status: http.StatusConflict},
		{name: "missing email", body: gin.H{"password": "Secret123!"}, status: http.StatusBadRequest},
		{name: "short password", body: gin.H{"email": "c@x.com", "password": "short"}, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestPasswordOver72Bytes(t *testing.T) {
	api := newTestAPI(t)
	long := strings.Repeat("é", 40)

	w := api.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": long})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	_, err := api.store.FindByEmail(context.Background(), "a@x.com")
	require.ErrorIs(t, err, store.ErrAccountNotFound)

	w = api.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": "Secret123!"})
	require.Equal(t, http.StatusCreated, w.Code)
	token := api.login(t, "a@x.com", "Secret123!")

	w = api.do(t, http.MethodPut, "/api/account", token, gin.H{"password": long})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	api.login(t, "a@x.com", "Secret123!")
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": "Secret123!"})

	token := api.login(t, "a@x.com", "Secret123!")
	claims, err := api.tokens.ValidateJWT(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.AccountID)

	w := api.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "nobody@x.com", "password": "Secret123!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentAccountLifecycle(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	api.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": "Secret123!"})
	token := api.login(t, "a@x.com", "Secret123!")

	w := api.do(t, http.MethodGet, "/api/account", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, "/api/account", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@x.com"`)

	before, err := api.store.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	w = api.do(t, http.MethodPut, "/api/account", token, gin.H{"phone": "+15550100"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	after, err := api.store.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, before.Password, after.Password, "phone update keeps the hash")
	assert.Equal(t, "+15550100", after.PhoneNumber())

	w = api.do(t, http.MethodPut, "/api/account", token, gin.H{"password": "Other456?!"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	api.login(t, "a@x.com", "Other456?!")

	w = api.do(t, http.MethodPut, "/api/account", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodDelete, "/api/account", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, "/api/account", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
