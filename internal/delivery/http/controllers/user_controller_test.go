package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"conduit/internal/delivery/http/helpers"
	"conduit/internal/delivery/http/middleware"
	"conduit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeUserService implements domain.UserService for controller tests.
type fakeUserService struct {
	registerToken string
	registerUser  *domain.User
	registerErr   error
	loginToken    string
	loginUser     *domain.User
	loginErr      error
	getByIDUser   *domain.User
	getByIDErr    error
	updateUser    *domain.User
	updateErr     error
	lastParams    domain.UpdateUserParams
}

func (f *fakeUserService) Register(ctx context.Context, username, email, password string) (string, *domain.User, error) {
	if f.registerErr != nil {
		return "", nil, f.registerErr
	}
	return f.registerToken, f.registerUser, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginUser, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDUser, nil
}

func (f *fakeUserService) Update(ctx context.Context, userID string, params domain.UpdateUserParams) (*domain.User, error) {
	f.lastParams = params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateUser, nil
}

// fakeIssuer implements domain.TokenIssuer for controller tests.
type fakeIssuer struct {
	token string
	err   error
}

func (f *fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func decodeUserResponse(t *testing.T, body io.Reader) UserResponse {
	t.Helper()
	var resp UserResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func decodeAPIError(t *testing.T, body io.Reader) *helpers.APIError {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error
}

func TestUserController_Register(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		fake         *fakeUserService
		wantStatus   int
		wantBodyCode string
	}{
		{
			name: "success",
			body: `{"user":{"username":"jake","email":"jake@example.com","password":"password8"}}`,
			fake: &fakeUserService{
				registerToken: "jwt-token",
				registerUser:  &domain.User{ID: "u1", Username: "jake", Email: "jake@example.com", Bio: "bio"},
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:         "missing fields",
			body:         `{"user":{"username":"","email":"","password":""}}`,
			fake:         &fakeUserService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "short password",
			body:         `{"user":{"username":"jake","email":"jake@example.com","password":"short"}}`,
			fake:         &fakeUserService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "unknown field rejected",
			body:         `{"user":{"username":"jake","email":"jake@example.com","password":"password8"},"admin":true}`,
			fake:         &fakeUserService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "duplicate email",
			body:         `{"user":{"username":"jake","email":"jake@example.com","password":"password8"}}`,
			fake:         &fakeUserService{registerErr: domain.ErrDuplicateEmail},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
		{
			name:         "duplicate username",
			body:         `{"user":{"username":"jake","email":"jake@example.com","password":"password8"}}`,
			fake:         &fakeUserService{registerErr: domain.ErrDuplicateUsername},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
		{
			name:         "service error",
			body:         `{"user":{"username":"jake","email":"jake@example.com","password":"password8"}}`,
			fake:         &fakeUserService{registerErr: assert.AnError},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewUserController(testLogger(), tt.fake, &fakeIssuer{token: "fresh"}, time.Hour)

			req := httptest.NewRequest(http.MethodPost, "http://test/users", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				resp := decodeUserResponse(t, rr.Body)
				assert.Equal(t, "jake", resp.User.Username)
				assert.Equal(t, "jake@example.com", resp.User.Email)
				assert.Equal(t, "jwt-token", resp.User.Token)
				assert.Equal(t, "bio", resp.User.Bio)
				return
			}
			assert.Equal(t, tt.wantBodyCode, decodeAPIError(t, rr.Body).Code)
		})
	}
}

func TestUserController_Login(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		fake         *fakeUserService
		wantStatus   int
		wantBodyCode string
	}{
		{
			name: "success",
			body: `{"user":{"email":"jake@example.com","password":"password8"}}`,
			fake: &fakeUserService{
				loginToken: "jwt-token",
				loginUser:  &domain.User{ID: "u1", Username: "jake", Email: "jake@example.com"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:         "bad credentials",
			body:         `{"user":{"email":"jake@example.com","password":"wrong-password"}}`,
			fake:         &fakeUserService{loginErr: domain.ErrInvalidCredentials},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "missing password",
			body:         `{"user":{"email":"jake@example.com","password":""}}`,
			fake:         &fakeUserService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "service error",
			body:         `{"user":{"email":"jake@example.com","password":"password8"}}`,
			fake:         &fakeUserService{loginErr: assert.AnError},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewUserController(testLogger(), tt.fake, &fakeIssuer{token: "fresh"}, time.Hour)

			req := httptest.NewRequest(http.MethodPost, "http://test/users/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				resp := decodeUserResponse(t, rr.Body)
				assert.Equal(t, "jake", resp.User.Username)
				assert.Equal(t, "jwt-token", resp.User.Token)
				return
			}
			assert.Equal(t, tt.wantBodyCode, decodeAPIError(t, rr.Body).Code)
		})
	}
}

func TestUserController_GetCurrentUser(t *testing.T) {
	tests := []struct {
		name          string
		contextUserID string
		fake          *fakeUserService
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success with fresh token",
			contextUserID: "u1",
			fake:          &fakeUserService{getByIDUser: &domain.User{ID: "u1", Username: "jake", Email: "jake@example.com"}},
			wantStatus:    http.StatusOK,
		},
		{
			name:         "no user in context",
			fake:         &fakeUserService{},
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
		},
		{
			name:          "user not found",
			contextUserID: "u1",
			fake:          &fakeUserService{getByIDErr: domain.ErrUserNotFound},
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
		{
			name:          "service error",
			contextUserID: "u1",
			fake:          &fakeUserService{getByIDErr: assert.AnError},
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewUserController(testLogger(), tt.fake, &fakeIssuer{token: "fresh"}, time.Hour)

			req := httptest.NewRequest(http.MethodGet, "http://test/user", nil)
			if tt.contextUserID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			ctrl.GetCurrentUser(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				resp := decodeUserResponse(t, rr.Body)
				assert.Equal(t, "jake", resp.User.Username)
				assert.Equal(t, "fresh", resp.User.Token)
				return
			}
			assert.Equal(t, tt.wantBodyCode, decodeAPIError(t, rr.Body).Code)
		})
	}
}

func TestUserController_UpdateCurrentUser(t *testing.T) {
	tests := []struct {
		name          string
		contextUserID string
		body          string
		fake          *fakeUserService
		wantStatus    int
		wantBodyCode  string
		checkParams   func(*testing.T, domain.UpdateUserParams)
	}{
		{
			name:          "success",
			contextUserID: "u1",
			body:          `{"user":{"bio":"updated bio","image":"https://example.com/x.png"}}`,
			fake:          &fakeUserService{updateUser: &domain.User{ID: "u1", Username: "jake", Email: "jake@example.com", Bio: "updated bio"}},
			wantStatus:    http.StatusOK,
			checkParams: func(t *testing.T, p domain.UpdateUserParams) {
				require.NotNil(t, p.Bio)
				assert.Equal(t, "updated bio", *p.Bio)
				assert.Nil(t, p.Username)
				assert.Nil(t, p.Password)
			},
		},
		{
			name:         "no user in context",
			body:         `{"user":{"bio":"x"}}`,
			fake:         &fakeUserService{},
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
		},
		{
			name:          "invalid email format",
			contextUserID: "u1",
			body:          `{"user":{"email":"not-an-email"}}`,
			fake:          &fakeUserService{},
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "duplicate username",
			contextUserID: "u1",
			body:          `{"user":{"username":"taken"}}`,
			fake:          &fakeUserService{updateErr: domain.ErrDuplicateUsername},
			wantStatus:    http.StatusConflict,
			wantBodyCode:  helpers.ErrCodeConflict,
		},
		{
			name:          "user not found",
			contextUserID: "u1",
			body:          `{"user":{"bio":"x"}}`,
			fake:          &fakeUserService{updateErr: domain.ErrUserNotFound},
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewUserController(testLogger(), tt.fake, &fakeIssuer{token: "fresh"}, time.Hour)

			req := httptest.NewRequest(http.MethodPut, "http://test/user", strings.NewReader(tt.body))
			if tt.contextUserID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			ctrl.UpdateCurrentUser(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				resp := decodeUserResponse(t, rr.Body)
				assert.Equal(t, "updated bio", resp.User.Bio)
				assert.Equal(t, "fresh", resp.User.Token)
				if tt.checkParams != nil {
					tt.checkParams(t, tt.fake.lastParams)
				}
				return
			}
			assert.Equal(t, tt.wantBodyCode, decodeAPIError(t, rr.Body).Code)
		})
	}
}
