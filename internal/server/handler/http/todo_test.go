package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/GophTodo/internal/middleware"
	"github.com/atinyakov/GophTodo/internal/models"
	"github.com/atinyakov/GophTodo/internal/service"
)

type fakeTodoService struct {
	ListFunc   func(ctx context.Context, userID int64) ([]models.Todo, error)
	CreateFunc func(ctx context.Context, userID int64, t models.Todo) (models.Todo, error)
	UpdateFunc func(ctx context.Context, userID int64, t models.Todo) (models.Todo, error)
	DeleteFunc func(ctx context.Context, userID int64, ids []int64) ([]models.Todo, error)
}

func (f *fakeTodoService) List(ctx context.Context, userID int64) ([]models.Todo, error) {
	return f.ListFunc(ctx, userID)
}
func (f *fakeTodoService) Create(ctx context.Context, userID int64, t models.Todo) (models.Todo, error) {
	return f.CreateFunc(ctx, userID, t)
}
func (f *fakeTodoService) Update(ctx context.Context, userID int64, t models.Todo) (models.Todo, error) {
	return f.UpdateFunc(ctx, userID, t)
}
func (f *fakeTodoService) Delete(ctx context.Context, userID int64, ids []int64) ([]models.Todo, error) {
	return f.DeleteFunc(ctx, userID, ids)
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	return req.WithContext(middleware.WithClaims(req.Context(), &service.Claims{UserID: 7}))
}

func TestTodoHandler_List(t *testing.T) {
	want := []models.Todo{{ID: 1, Description: "Buy milk", DueDate: models.MustParseDate("2024-06-01")}}
	h := &TodoHandler{TodoService: &fakeTodoService{
		ListFunc: func(ctx context.Context, userID int64) ([]models.Todo, error) {
			if userID != 7 {
				t.Errorf("List userID = %d; want 7", userID)
			}
			return want, nil
		},
	}}
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/todos", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Description != "Buy milk" || got[0].DueDate.String() != "2024-06-01" {
		t.Errorf("unexpected todos %+v", got)
	}
}

func TestTodoHandler_ListUnauthenticated(t *testing.T) {
	h := &TodoHandler{TodoService: &fakeTodoService{}}
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestTodoHandler_Create(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		want    int
		wantArg string
	}{
		{"invalid body", `{`, nil, http.StatusBadRequest, ""},
		{"invalid due date", `{"description":"x","dueDate":"tomorrow"}`, nil, http.StatusBadRequest, ""},
		{"validation", `{"description":"","dueDate":"2024-06-01"}`, service.ErrInvalidTodo, http.StatusBadRequest, ""},
		{"created", `{"description":"Buy milk","dueDate":"2024-06-01","checkMark":false}`, nil, http.StatusOK, "Buy milk"},
		{"storage failure", `{"description":"Buy milk","dueDate":"2024-06-01"}`, errors.New("db down"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.Todo
			h := &TodoHandler{TodoService: &fakeTodoService{
				CreateFunc: func(ctx context.Context, userID int64, td models.Todo) (models.Todo, error) {
					got = td
					td.ID = 1
					return td, tt.err
				},
			}}
			rec := httptest.NewRecorder()
			h.Create(rec, authedRequest(http.MethodPost, "/api/todo/create", tt.body))

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
			if tt.wantArg != "" && got.Description != tt.wantArg {
				t.Errorf("service got description %q; want %q", got.Description, tt.wantArg)
			}
		})
	}
}

func TestTodoHandler_Update(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"updated", nil, http.StatusOK},
		{"missing id", service.ErrInvalidTodo, http.StatusBadRequest},
		{"not owner", service.ErrTodoNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &TodoHandler{TodoService: &fakeTodoService{
				UpdateFunc: func(ctx context.Context, userID int64, td models.Todo) (models.Todo, error) {
					return td, tt.err
				},
			}}
			rec := httptest.NewRecorder()
			h.Update(rec, authedRequest(http.MethodPut, "/api/todo/update",
				`{"id":3,"description":"Buy milk","dueDate":"2024-06-01","checkMark":true}`))
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	var gotIDs []int64
	h := &TodoHandler{TodoService: &fakeTodoService{
		DeleteFunc: func(ctx context.Context, userID int64, ids []int64) ([]models.Todo, error) {
			gotIDs = ids
			if ids[0] == 404 {
				return nil, service.ErrTodoNotFound
			}
			return []models.Todo{}, nil
		},
	}}

	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/api/todo/delete", `{"ids":[5,6]}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(gotIDs) != 2 || gotIDs[0] != 5 || gotIDs[1] != 6 {
		t.Errorf("unexpected ids %v", gotIDs)
	}
	if body := bytes.TrimSpace(rec.Body.Bytes()); string(body) != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}

	rec = httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/api/todo/delete", `{"ids":[404]}`))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
