package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dylnbk/kapture/internal/http/middlewarectx"
	"github.com/dylnbk/kapture/internal/models"
	"github.com/dylnbk/kapture/internal/services/entitlement"
)

// MockService реализует интерфейс scrape.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Scrape(ctx context.Context, userUID string, req models.ScrapeRequest) ([]models.Trend, error) {
	args := m.Called(ctx, userUID, req)
	if res := args.Get(0); res != nil {
		return res.([]models.Trend), args.Error(1)
	}
	return nil, args.Error(1)
}

const testUID = "6f1e1c9a-0000-0000-0000-000000000001"

func TestScrapeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный скрейпинг",
			body:    `{"platform":"tiktok","query":"cats","limit":10}`,
			userUID: testUID,
			setupMock: func(m *MockService) {
				m.On("Scrape", mock.Anything, testUID, models.ScrapeRequest{
					Platform: "tiktok", Query: "cats", Limit: 10,
				}).Return([]models.Trend{
					{ID: 1, UserUID: testUID, Platform: "tiktok", Title: "cat video"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			userUID:        testUID,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "неизвестная платформа",
			body:           `{"platform":"vimeo","query":"cats"}`,
			userUID:        testUID,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "нет uid в контексте",
			body:           `{"platform":"tiktok","query":"cats"}`,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "квота исчерпана",
			body:    `{"platform":"tiktok","query":"cats"}`,
			userUID: testUID,
			setupMock: func(m *MockService) {
				m.On("Scrape", mock.Anything, testUID, mock.Anything).
					Return(nil, fmt.Errorf("services.trends.Scrape: %w", entitlement.ErrQuotaExceeded))
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `"error":"quota exceeded"`,
		},
		{
			name:    "ошибка сервиса",
			body:    `{"platform":"tiktok","query":"cats"}`,
			userUID: testUID,
			setupMock: func(m *MockService) {
				m.On("Scrape", mock.Anything, testUID, mock.Anything).
					Return(nil, errors.New("provider timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to scrape trends"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/trends/scrape", strings.NewReader(tt.body))
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
