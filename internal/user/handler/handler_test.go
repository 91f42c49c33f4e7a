package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/festy23/useradmin/internal/user/model"
	"github.com/festy23/useradmin/internal/user/service"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.Service = (*mockService)(nil)

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/users", h.List)
	router.GET("/users/:id", h.Get)
	router.PATCH("/users/:id", h.Patch)
	router.DELETE("/users/:id", h.Delete)
	return router
}

func TestHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("List", mock.Anything).Return([]model.User{
			{ID: 1, Name: "Olivia Rhye", Status: model.StatusActive},
			{ID: 2, Name: "Phoenix Baker", Status: model.StatusInactive},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var users []model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
		require.Len(t, users, 2)
		assert.Equal(t, "Olivia Rhye", users[0].Name)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("db down"))

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	})
}

func TestHandler_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("Get", mock.Anything, int64(1)).
			Return(&model.User{ID: 1, Name: "Olivia Rhye"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var user model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "Olivia Rhye", user.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("Get", mock.Anything, int64(999)).Return(nil, model.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodGet, "/users/999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestHandler_Patch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("Update", mock.Anything, int64(3), mock.MatchedBy(func(p model.UserPatch) bool {
			return p.Status != nil && *p.Status == model.StatusAbsent && p.Name == nil
		})).Return(&model.User{ID: 3, Status: model.StatusAbsent}, nil)

		body := bytes.NewBufferString(`{"status":"absent"}`)
		req := httptest.NewRequest(http.MethodPatch, "/users/3", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var user model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, model.StatusAbsent, user.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty patch", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("Update", mock.Anything, int64(3), model.UserPatch{}).
			Return(nil, model.ErrEmptyPatch)

		req := httptest.NewRequest(http.MethodPatch, "/users/3", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))

		req := httptest.NewRequest(http.MethodPatch, "/users/3", bytes.NewBufferString(`{bad`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("Update", mock.Anything, int64(999), mock.Anything).
			Return(nil, model.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodPatch, "/users/999", bytes.NewBufferString(`{"status":"active"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("Delete", mock.Anything, int64(9)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/users/9", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{}`, w.Body.String())
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(mockService)
		router := setupRouter(New(mockSvc))
		mockSvc.On("Delete", mock.Anything, int64(999)).Return(model.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/users/999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
