package media_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dylnbk/kapture/internal/models"
	"github.com/dylnbk/kapture/internal/scrapeprovider"
	"github.com/dylnbk/kapture/internal/services/entitlement"
	"github.com/dylnbk/kapture/internal/services/media"
)

// Мок для MediaRepository
type MediaRepoMock struct {
	mock.Mock
}

func (m *MediaRepoMock) CreateMediaItem(ctx context.Context, item models.MediaItem) (int, error) {
	args := m.Called(ctx, item)
	return args.Int(0), args.Error(1)
}

func (m *MediaRepoMock) UpdateMediaStatus(ctx context.Context, id int, status, storageKey string) error {
	args := m.Called(ctx, id, status, storageKey)
	return args.Error(0)
}

func (m *MediaRepoMock) ListMediaItems(ctx context.Context, userUID string, limit, offset int) ([]*models.MediaItem, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MediaItem), args.Error(1)
}

func (m *MediaRepoMock) SetMediaArchived(ctx context.Context, userUID string, ids []int, archived bool) (int64, error) {
	args := m.Called(ctx, userUID, ids, archived)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MediaRepoMock) SetMediaFavorite(ctx context.Context, userUID string, ids []int, favorite bool) (int64, error) {
	args := m.Called(ctx, userUID, ids, favorite)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MediaRepoMock) AddMediaTags(ctx context.Context, userUID string, ids []int, tags []string) (int64, error) {
	args := m.Called(ctx, userUID, ids, tags)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MediaRepoMock) RemoveMediaTags(ctx context.Context, userUID string, ids []int, tags []string) (int64, error) {
	args := m.Called(ctx, userUID, ids, tags)
	return args.Get(0).(int64), args.Error(1)
}

// Мок для DownloadProvider
type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) RequestDownload(ctx context.Context, req scrapeprovider.DownloadRequest) (*scrapeprovider.DownloadResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scrapeprovider.DownloadResponse), args.Error(1)
}

// Мок для Entitlements
type EntitlementsMock struct {
	mock.Mock
}

func (m *EntitlementsMock) Check(ctx context.Context, userUID string, kind models.ActionKind) (entitlement.Decision, error) {
	args := m.Called(ctx, userUID, kind)
	return args.Get(0).(entitlement.Decision), args.Error(1)
}

func (m *EntitlementsMock) Record(ctx context.Context, userUID string, kind models.ActionKind, delta int) (int, error) {
	args := m.Called(ctx, userUID, kind, delta)
	return args.Int(0), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

const testUID = "6f1e1c9a-0000-0000-0000-000000000001"

func TestMediaService_RequestDownload(t *testing.T) {
	downloadReq := models.DownloadRequest{SourceURL: "https://example.com/video"}

	tests := []struct {
		name       string
		setupMocks func(r *MediaRepoMock, p *ProviderMock, e *EntitlementsMock)
		wantKey    string
		wantErr    error
	}{
		{
			name: "accepted download records usage",
			setupMocks: func(r *MediaRepoMock, p *ProviderMock, e *EntitlementsMock) {
				e.On("Check", mock.Anything, testUID, models.ActionDownload).
					Return(entitlement.Decision{Allowed: true, Remaining: 2}, nil).Once()
				r.On("CreateMediaItem", mock.Anything, mock.MatchedBy(func(item models.MediaItem) bool {
					return item.UserUID == testUID && item.Status == models.MediaStatusPending
				})).Return(7, nil).Once()
				p.On("RequestDownload", mock.Anything, scrapeprovider.DownloadRequest{
					MediaID:   7,
					SourceURL: "https://example.com/video",
				}).Return(&scrapeprovider.DownloadResponse{Accepted: true, StorageKey: "media/7"}, nil).Once()
				r.On("UpdateMediaStatus", mock.Anything, 7, models.MediaStatusPending, "media/7").Return(nil).Once()
				e.On("Record", mock.Anything, testUID, models.ActionDownload, 1).Return(1, nil).Once()
			},
			wantKey: "media/7",
		},
		{
			name: "quota exceeded blocks everything",
			setupMocks: func(_ *MediaRepoMock, _ *ProviderMock, e *EntitlementsMock) {
				e.On("Check", mock.Anything, testUID, models.ActionDownload).
					Return(entitlement.Decision{Allowed: false, Remaining: 0}, nil).Once()
			},
			wantErr: entitlement.ErrQuotaExceeded,
		},
		{
			name: "provider failure marks item failed and skips usage",
			setupMocks: func(r *MediaRepoMock, p *ProviderMock, e *EntitlementsMock) {
				e.On("Check", mock.Anything, testUID, models.ActionDownload).
					Return(entitlement.Decision{Allowed: true, Remaining: 2}, nil).Once()
				r.On("CreateMediaItem", mock.Anything, mock.Anything).Return(8, nil).Once()
				p.On("RequestDownload", mock.Anything, mock.Anything).
					Return(nil, errors.New("provider timeout")).Once()
				r.On("UpdateMediaStatus", mock.Anything, 8, models.MediaStatusFailed, "").Return(nil).Once()
			},
			wantErr: errors.New("provider timeout"),
		},
		{
			name: "rejected work marks item failed",
			setupMocks: func(r *MediaRepoMock, p *ProviderMock, e *EntitlementsMock) {
				e.On("Check", mock.Anything, testUID, models.ActionDownload).
					Return(entitlement.Decision{Allowed: true, Remaining: 2}, nil).Once()
				r.On("CreateMediaItem", mock.Anything, mock.Anything).Return(9, nil).Once()
				p.On("RequestDownload", mock.Anything, mock.Anything).
					Return(&scrapeprovider.DownloadResponse{Accepted: false}, nil).Once()
				r.On("UpdateMediaStatus", mock.Anything, 9, models.MediaStatusFailed, "").Return(nil).Once()
			},
			wantErr: errors.New("download request rejected"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MediaRepoMock)
			provider := new(ProviderMock)
			ents := new(EntitlementsMock)
			svc := media.NewMediaService(repo, provider, ents, newTestLogger(), false)

			tt.setupMocks(repo, provider, ents)

			item, err := svc.RequestDownload(context.Background(), testUID, downloadReq)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantKey, item.StorageKey)
			}

			repo.AssertExpectations(t)
			provider.AssertExpectations(t)
			ents.AssertExpectations(t)
		})
	}
}

func TestMediaService_Organize(t *testing.T) {
	tests := []struct {
		name       string
		req        models.OrganizeRequest
		setupMocks func(r *MediaRepoMock)
		want       int64
		wantErr    string
	}{
		{
			name: "archive",
			req:  models.OrganizeRequest{Action: "archive", IDs: []int{1, 2}},
			setupMocks: func(r *MediaRepoMock) {
				r.On("SetMediaArchived", mock.Anything, testUID, []int{1, 2}, true).Return(int64(2), nil).Once()
			},
			want: 2,
		},
		{
			name: "unfavorite",
			req:  models.OrganizeRequest{Action: "unfavorite", IDs: []int{3}},
			setupMocks: func(r *MediaRepoMock) {
				r.On("SetMediaFavorite", mock.Anything, testUID, []int{3}, false).Return(int64(1), nil).Once()
			},
			want: 1,
		},
		{
			name: "tag with tags",
			req:  models.OrganizeRequest{Action: "tag", IDs: []int{1}, Tags: []string{"cats", "viral"}},
			setupMocks: func(r *MediaRepoMock) {
				r.On("AddMediaTags", mock.Anything, testUID, []int{1}, []string{"cats", "viral"}).Return(int64(1), nil).Once()
			},
			want: 1,
		},
		{
			name:       "tag without tags",
			req:        models.OrganizeRequest{Action: "tag", IDs: []int{1}},
			setupMocks: func(_ *MediaRepoMock) {},
			wantErr:    "tags are required",
		},
		{
			name: "untag",
			req:  models.OrganizeRequest{Action: "untag", IDs: []int{1, 2}, Tags: []string{"old"}},
			setupMocks: func(r *MediaRepoMock) {
				r.On("RemoveMediaTags", mock.Anything, testUID, []int{1, 2}, []string{"old"}).Return(int64(2), nil).Once()
			},
			want: 2,
		},
		{
			name:       "unknown action",
			req:        models.OrganizeRequest{Action: "purge", IDs: []int{1}},
			setupMocks: func(_ *MediaRepoMock) {},
			wantErr:    "unknown action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MediaRepoMock)
			svc := media.NewMediaService(repo, new(ProviderMock), new(EntitlementsMock), newTestLogger(), false)

			tt.setupMocks(repo)

			got, err := svc.Organize(context.Background(), testUID, tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestMediaService_CompleteDownload(t *testing.T) {
	tests := []struct {
		name       string
		succeeded  bool
		storageKey string
		wantStatus string
	}{
		{
			name:       "успешное завершение переводит заявку в completed",
			succeeded:  true,
			storageKey: "media/42",
			wantStatus: models.MediaStatusCompleted,
		},
		{
			name:       "неуспешное завершение переводит заявку в failed",
			succeeded:  false,
			storageKey: "",
			wantStatus: models.MediaStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MediaRepoMock)
			svc := media.NewMediaService(repo, new(ProviderMock), new(EntitlementsMock), newTestLogger(), false)

			repo.On("UpdateMediaStatus", mock.Anything, 42, tt.wantStatus, tt.storageKey).Return(nil).Once()

			err := svc.CompleteDownload(context.Background(), 42, tt.succeeded, tt.storageKey)
			require.NoError(t, err)

			repo.AssertExpectations(t)
		})
	}
}
