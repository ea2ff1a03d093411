package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/middleware"
	"github.com/atinyakov/GophTodo/internal/models"
	"github.com/atinyakov/GophTodo/internal/repository"
	"github.com/atinyakov/GophTodo/internal/service"
)

func newTestRouter(t *testing.T, limiter *middleware.IPRateLimiter) (http.Handler, *service.TokenManager) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	tokens := service.NewTokenManager([]byte("test-secret"), time.Hour)
	authH := &AuthHandler{AuthService: service.NewAuthService(repo, tokens)}
	todoH := &TodoHandler{TodoService: service.NewTodoService(repo)}
	return NewRouter(authH, todoH, tokens, limiter, zap.NewNop()), tokens
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Flow(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	creds := models.Credentials{Email: "flow@example.com", Password: "password123"}

	if rec := do(t, h, http.MethodPost, "/api/register", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/register", "", creds); rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/api/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	var login models.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&login); err != nil || login.Token == "" {
		t.Fatalf("login: bad response %v", err)
	}

	rec = do(t, h, http.MethodGet, "/api/me", login.Token, nil)
	var me models.UserProfile
	if err := json.NewDecoder(rec.Body).Decode(&me); err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Email != creds.Email || !me.HasPrivilege(models.ViewTodos) {
		t.Errorf("me: unexpected profile %+v", me)
	}

	rec = do(t, h, http.MethodPost, "/api/todo/create", login.Token,
		models.Todo{Description: "Buy milk", DueDate: models.MustParseDate("2024-06-01")})
	var created models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil || created.ID == 0 {
		t.Fatalf("create: code %d err %v", rec.Code, err)
	}

	rec = do(t, h, http.MethodDelete, "/api/todo/delete", login.Token, models.IDs{IDs: []int64{created.ID}})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, "/api/todo/delete", login.Token, models.IDs{IDs: []int64{created.ID}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestRouter_RequiresBearer(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	for _, path := range []string{"/api/me", "/api/todos"} {
		if rec := do(t, h, http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: expected 401, got %d", path, rec.Code)
		}
		if rec := do(t, h, http.MethodGet, path, "garbage", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s with bad token: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRouter_PrivilegeDenied(t *testing.T) {
	h, tokens := newTestRouter(t, nil)
	// a token for a role without privileges
	tok, err := tokens.Issue(models.User{ID: 1, Email: "x@example.com", Role: "ROLE_GUEST"})
	if err != nil {
		t.Fatal(err)
	}
	if rec := do(t, h, http.MethodGet, "/api/todos", tok, nil); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRouter_RejectsNonJSON(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("email=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", rec.Code)
	}
}

func TestRouter_RateLimitsLogin(t *testing.T) {
	h, _ := newTestRouter(t, middleware.NewIPRateLimiter(0.001, 1))
	creds := models.Credentials{Email: "rl@example.com", Password: "password123"}
	do(t, h, http.MethodPost, "/api/login", "", creds)
	if rec := do(t, h, http.MethodPost, "/api/login", "", creds); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
}
