package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dylnbk/kapture/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, string, bool, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.Bool(2), args.Error(3)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestJWTMiddleware(t *testing.T) {
	validUser := &models.User{
		UUID:     "uid-123",
		Username: "testuser",
		Role:     "user",
	}

	tests := []struct {
		name       string
		authHeader string
		setupMocks func(s *AuthServiceMock)
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token populates context",
			authHeader: "Bearer good-token",
			setupMocks: func(s *AuthServiceMock) {
				s.On("ValidateToken", mock.Anything, "good-token").
					Return(validUser, "user", true, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			setupMocks: func(_ *AuthServiceMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic dXNlcjpwYXNz",
			setupMocks: func(_ *AuthServiceMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			setupMocks: func(s *AuthServiceMock) {
				s.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, "", false, errors.New("token expired")).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMocks(svc)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, "testuser", r.Context().Value(User))
				assert.Equal(t, "user", r.Context().Value(Role))
				assert.Equal(t, "uid-123", r.Context().Value(UserUID))
			})

			handler := JWTMiddleware(svc, newTestLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/trends", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			svc.AssertExpectations(t)
		})
	}
}
