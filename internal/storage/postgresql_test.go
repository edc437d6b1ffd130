package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylnbk/kapture/internal/lib/period"
	"github.com/dylnbk/kapture/internal/models"
)

func TestStorage_IncrementUsage(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	p := period.Current(time.Now())

	t.Run("первый инкремент создает запись со значением delta", func(t *testing.T) {
		uid := factory.CreateUser(t, "incruser1", "incr1@example.com")

		got, err := storage.IncrementUsage(ctx, uid, models.ActionScrape, p.Start, p.End, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("повторный инкремент увеличивает существующий счетчик", func(t *testing.T) {
		uid := factory.CreateUser(t, "incruser2", "incr2@example.com")

		_, err := storage.IncrementUsage(ctx, uid, models.ActionDownload, p.Start, p.End, 1)
		require.NoError(t, err)
		got, err := storage.IncrementUsage(ctx, uid, models.ActionDownload, p.Start, p.End, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("счетчики разных категорий независимы", func(t *testing.T) {
		uid := factory.CreateUser(t, "incruser3", "incr3@example.com")

		_, err := storage.IncrementUsage(ctx, uid, models.ActionScrape, p.Start, p.End, 1)
		require.NoError(t, err)
		got, err := storage.GetUsage(ctx, uid, models.ActionAIGeneration, p.Start, p.End)
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("счетчики разных периодов независимы", func(t *testing.T) {
		uid := factory.CreateUser(t, "incruser4", "incr4@example.com")
		prev := period.Current(p.Start.AddDate(0, -1, 0))

		_, err := storage.IncrementUsage(ctx, uid, models.ActionScrape, prev.Start, prev.End, 7)
		require.NoError(t, err)

		got, err := storage.GetUsage(ctx, uid, models.ActionScrape, p.Start, p.End)
		require.NoError(t, err)
		assert.Equal(t, 0, got, "new period starts with zero usage")

		got, err = storage.GetUsage(ctx, uid, models.ActionScrape, prev.Start, prev.End)
		require.NoError(t, err)
		assert.Equal(t, 7, got, "previous period keeps its counter")
	})
}

// Конкурентные инкременты по одному ключу не должны терять обновлений:
// инкремент выполняется одним условным запросом на стороне БД.
func TestStorage_IncrementUsage_Concurrent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	p := period.Current(time.Now())
	uid := factory.CreateUser(t, "concuser", "conc@example.com")

	const workers = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storage.IncrementUsage(ctx, uid, models.ActionScrape, p.Start, p.End, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := storage.GetUsage(ctx, uid, models.ActionScrape, p.Start, p.End)
	require.NoError(t, err)
	assert.Equal(t, workers, got)
}

func TestStorage_GetUsage_NoRecord(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	p := period.Current(time.Now())
	uid := factory.CreateUser(t, "emptyuser", "empty@example.com")

	got, err := storage.GetUsage(ctx, uid, models.ActionScrape, p.Start, p.End)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "missing record means zero usage, not an error")
}

func TestStorage_ListUsageForPeriod(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	p := period.Current(time.Now())
	uid := factory.CreateUser(t, "listuser", "list@example.com")

	_, err := storage.IncrementUsage(ctx, uid, models.ActionScrape, p.Start, p.End, 3)
	require.NoError(t, err)
	_, err = storage.IncrementUsage(ctx, uid, models.ActionDownload, p.Start, p.End, 1)
	require.NoError(t, err)

	got, err := storage.ListUsageForPeriod(ctx, uid, p.Start, p.End)
	require.NoError(t, err)
	assert.Equal(t, map[models.ActionKind]int{
		models.ActionScrape:   3,
		models.ActionDownload: 1,
	}, got)
}

func TestStorage_Subscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	t.Run("upsert создает и затем обновляет подписку", func(t *testing.T) {
		uid := factory.CreateUser(t, "subuser1", "sub1@example.com")

		err := storage.UpsertSubscription(ctx, models.Subscription{
			UserUID:           uid,
			PlanTier:          models.PlanStarter,
			Status:            models.SubscriptionStatusActive,
			BillingCustomerID: "cus_1",
			BillingSubID:      "sub_1",
			CurrentPeriodEnd:  time.Now().AddDate(0, 1, 0),
		})
		require.NoError(t, err)

		err = storage.UpsertSubscription(ctx, models.Subscription{
			UserUID:           uid,
			PlanTier:          models.PlanPro,
			Status:            models.SubscriptionStatusActive,
			BillingCustomerID: "cus_1",
			BillingSubID:      "sub_1",
			CurrentPeriodEnd:  time.Now().AddDate(0, 1, 0),
		})
		require.NoError(t, err)

		sub, err := storage.GetSubscription(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, models.PlanPro, sub.PlanTier)
	})

	t.Run("возвращает ErrNotFound без подписки", func(t *testing.T) {
		uid := factory.CreateUser(t, "subuser2", "sub2@example.com")

		_, err := storage.GetSubscription(ctx, uid)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("обновление статуса по идентификатору провайдера", func(t *testing.T) {
		uid := factory.CreateUser(t, "subuser3", "sub3@example.com")
		factory.CreateSubscription(t, uid, models.PlanStarter, models.SubscriptionStatusActive, "sub_status", time.Now().AddDate(0, 1, 0))

		gotUID, err := storage.UpdateSubscriptionStatus(ctx, "sub_status", models.SubscriptionStatusPastDue)
		require.NoError(t, err)
		assert.Equal(t, uid, gotUID)

		sub, err := storage.GetSubscription(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionStatusPastDue, sub.Status)
	})

	t.Run("продление периода по идентификатору провайдера", func(t *testing.T) {
		uid := factory.CreateUser(t, "subuser4", "sub4@example.com")
		factory.CreateSubscription(t, uid, models.PlanPro, models.SubscriptionStatusActive, "sub_extend", time.Now())

		newEnd := time.Now().AddDate(0, 1, 0).Truncate(time.Second).UTC()
		gotUID, err := storage.ExtendSubscriptionPeriod(ctx, "sub_extend", newEnd)
		require.NoError(t, err)
		assert.Equal(t, uid, gotUID)

		sub, err := storage.GetSubscription(ctx, uid)
		require.NoError(t, err)
		assert.WithinDuration(t, newEnd, sub.CurrentPeriodEnd, time.Second)
	})
}

func TestStorage_MediaOrganize(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	t.Run("архивирование затрагивает только элементы владельца", func(t *testing.T) {
		owner := factory.CreateUser(t, "mediauser1", "media1@example.com")
		other := factory.CreateUser(t, "mediauser2", "media2@example.com")
		ownID := factory.CreateMediaItem(t, owner, "https://example.com/a.mp4", models.MediaStatusCompleted)
		otherID := factory.CreateMediaItem(t, other, "https://example.com/b.mp4", models.MediaStatusCompleted)

		affected, err := storage.SetMediaArchived(ctx, owner, []int{ownID, otherID}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		item, err := storage.GetMediaItem(ctx, owner, ownID)
		require.NoError(t, err)
		assert.True(t, item.Archived)

		foreign, err := storage.GetMediaItem(ctx, other, otherID)
		require.NoError(t, err)
		assert.False(t, foreign.Archived)
	})

	t.Run("теги добавляются и удаляются через таблицу связей", func(t *testing.T) {
		uid := factory.CreateUser(t, "mediauser3", "media3@example.com")
		id := factory.CreateMediaItem(t, uid, "https://example.com/c.mp4", models.MediaStatusCompleted)

		affected, err := storage.AddMediaTags(ctx, uid, []int{id}, []string{"summer", "travel"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)

		// Повторное добавление существующего тега не является ошибкой
		_, err = storage.AddMediaTags(ctx, uid, []int{id}, []string{"summer"})
		require.NoError(t, err)

		item, err := storage.GetMediaItem(ctx, uid, id)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"summer", "travel"}, item.Tags)

		affected, err = storage.RemoveMediaTags(ctx, uid, []int{id}, []string{"summer"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		item, err = storage.GetMediaItem(ctx, uid, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"travel"}, item.Tags)
	})

	t.Run("избранное переключается для набора элементов", func(t *testing.T) {
		uid := factory.CreateUser(t, "mediauser4", "media4@example.com")
		first := factory.CreateMediaItem(t, uid, "https://example.com/d.mp4", models.MediaStatusCompleted)
		second := factory.CreateMediaItem(t, uid, "https://example.com/e.mp4", models.MediaStatusCompleted)

		affected, err := storage.SetMediaFavorite(ctx, uid, []int{first, second}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
	})
}

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("регистрация возвращает uid и пользователь находится по email", func(t *testing.T) {
		uid, err := storage.RegisterUser(ctx, models.User{
			Email:        "reg@example.com",
			Username:     "reguser",
			PasswordHash: "hashedpassword",
			Role:         "user",
		})
		require.NoError(t, err)
		require.NotEmpty(t, uid)

		user, err := storage.GetUserByEmail(ctx, "reg@example.com")
		require.NoError(t, err)
		assert.Equal(t, uid, user.UUID)
		assert.Equal(t, "reguser", user.Username)
	})

	t.Run("неизвестный email возвращает ErrNotFound", func(t *testing.T) {
		_, err := storage.GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("удаление пользователя каскадно удаляет его счетчики", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		uid := factory.CreateUser(t, "deluser", "del@example.com")
		p := period.Current(time.Now())

		_, err := storage.IncrementUsage(ctx, uid, models.ActionScrape, p.Start, p.End, 2)
		require.NoError(t, err)

		err = storage.DeleteUser(ctx, uid)
		require.NoError(t, err)

		_, err = storage.GetUser(ctx, uid)
		require.ErrorIs(t, err, ErrNotFound)

		var count int
		err = storage.DB.QueryRow("SELECT COUNT(*) FROM usage_records WHERE user_uid = $1", uid).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
