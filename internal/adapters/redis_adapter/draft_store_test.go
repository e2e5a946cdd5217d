package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/franchise-reconcile/internal/adapters/redis_adapter"
	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/test/helpers"
)

func TestDraftStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := helpers.SetupTestRedis(t)
	store := redis_a.NewDraftStore(r.Client, time.Hour, helpers.TestLogger())

	franchise := &domain.Franchise{ID: 4, Name: "North", FranchiseType: domain.FranchiseVIP}
	draft, err := domain.NewDraft(domain.KindFranchiseBill, 1, franchise)
	require.NoError(t, err)
	draft.BillItems = []domain.LineItem{
		{ProductVariantID: 7, Quantity: 2, Price: 4200, QRCode: "ABC"},
	}

	require.NoError(t, store.Save(ctx, draft))
	assert.Equal(t, time.Hour, r.Server.TTL(redis_a.DraftKey(draft.ID)))

	got, err := store.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
	assert.Equal(t, domain.KindFranchiseBill, got.Kind)
	assert.Equal(t, franchise, got.Franchise)
	assert.Equal(t, draft.BillItems, got.BillItems)
}

func TestDraftStore_SaveRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	r := helpers.SetupTestRedis(t)
	store := redis_a.NewDraftStore(r.Client, time.Hour, helpers.TestLogger())

	draft, err := domain.NewDraft(domain.KindSupplierBill, 1, nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, draft))

	r.Server.FastForward(50 * time.Minute)
	require.NoError(t, store.Save(ctx, draft))
	r.Server.FastForward(50 * time.Minute)

	_, err = store.Get(ctx, draft.ID)
	assert.NoError(t, err)
}

func TestDraftStore_NotFound(t *testing.T) {
	ctx := context.Background()
	r := helpers.SetupTestRedis(t)
	store := redis_a.NewDraftStore(r.Client, time.Minute, helpers.TestLogger())

	_, err := store.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	draft, err := domain.NewDraft(domain.KindSale, 1, nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, draft))
	r.Server.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDraftStore_Delete(t *testing.T) {
	ctx := context.Background()
	r := helpers.SetupTestRedis(t)
	store := redis_a.NewDraftStore(r.Client, time.Minute, helpers.TestLogger())

	draft, err := domain.NewDraft(domain.KindBrokenItems, 1, nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, draft))

	require.NoError(t, store.Delete(ctx, draft.ID))
	_, err = store.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	assert.NoError(t, store.Delete(ctx, draft.ID))
}

func TestDraftStore_Update(t *testing.T) {
	ctx := context.Background()

	newStored := func(t *testing.T) (*helpers.TestRedis, *redis_a.DraftStore, *domain.Draft) {
		r := helpers.SetupTestRedis(t)
		store := redis_a.NewDraftStore(r.Client, time.Hour, helpers.TestLogger())
		draft, err := domain.NewDraft(domain.KindSupplierBill, 1, nil)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, draft))
		return r, store, draft
	}
	addRow := func(variant int64) func(*domain.Draft) (bool, error) {
		return func(d *domain.Draft) (bool, error) {
			d.BillItems = append(d.BillItems, domain.LineItem{ProductVariantID: variant, Quantity: 1})
			return true, nil
		}
	}

	t.Run("writes_change", func(t *testing.T) {
		_, store, draft := newStored(t)

		updated, err := store.Update(ctx, draft.ID, addRow(7))
		require.NoError(t, err)
		require.Len(t, updated.BillItems, 1)

		got, err := store.Get(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.BillItems, got.BillItems)
	})

	t.Run("concurrent_write_is_retried", func(t *testing.T) {
		_, store, draft := newStored(t)

		calls := 0
		_, err := store.Update(ctx, draft.ID, func(d *domain.Draft) (bool, error) {
			calls++
			if calls == 1 {
				_, err := store.Update(ctx, draft.ID, addRow(8))
				require.NoError(t, err)
			}
			return addRow(7)(d)
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)

		got, err := store.Get(ctx, draft.ID)
		require.NoError(t, err)
		require.Len(t, got.BillItems, 2)
		assert.Equal(t, int64(8), got.BillItems[0].ProductVariantID)
		assert.Equal(t, int64(7), got.BillItems[1].ProductVariantID)
	})

	t.Run("gives_up_under_constant_contention", func(t *testing.T) {
		_, store, draft := newStored(t)

		_, err := store.Update(ctx, draft.ID, func(d *domain.Draft) (bool, error) {
			require.NoError(t, store.Save(ctx, draft))
			return addRow(7)(d)
		})
		assert.ErrorIs(t, err, domain.ErrDraftConflict)
	})

	t.Run("no_change_keeps_ttl", func(t *testing.T) {
		r, store, draft := newStored(t)
		r.Server.FastForward(30 * time.Minute)

		_, err := store.Update(ctx, draft.ID, func(*domain.Draft) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, r.Server.TTL(redis_a.DraftKey(draft.ID)))
	})

	t.Run("mutation_error_writes_nothing", func(t *testing.T) {
		_, store, draft := newStored(t)
		boom := errors.New("boom")

		_, err := store.Update(ctx, draft.ID, func(d *domain.Draft) (bool, error) {
			d.BillItems = append(d.BillItems, domain.LineItem{ProductVariantID: 7})
			return true, boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := store.Get(ctx, draft.ID)
		require.NoError(t, err)
		assert.Empty(t, got.BillItems)
	})

	t.Run("missing_draft", func(t *testing.T) {
		_, store, _ := newStored(t)
		_, err := store.Update(ctx, uuid.New(), addRow(7))
		assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	})
}

func TestDraftStore_Take(t *testing.T) {
	ctx := context.Background()
	r := helpers.SetupTestRedis(t)
	store := redis_a.NewDraftStore(r.Client, time.Hour, helpers.TestLogger())

	draft, err := domain.NewDraft(domain.KindSale, 1, nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, draft))

	t.Run("rejected_check_keeps_draft", func(t *testing.T) {
		_, err := store.Take(ctx, draft.ID, func(*domain.Draft) error { return domain.ErrEmptyDraft })
		assert.ErrorIs(t, err, domain.ErrEmptyDraft)
		assert.True(t, r.Server.Exists(redis_a.DraftKey(draft.ID)))
	})

	t.Run("accepted_check_removes_draft", func(t *testing.T) {
		taken, err := store.Take(ctx, draft.ID, func(*domain.Draft) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, draft.ID, taken.ID)
		assert.False(t, r.Server.Exists(redis_a.DraftKey(draft.ID)))
	})

	t.Run("missing_draft", func(t *testing.T) {
		_, err := store.Take(ctx, draft.ID, func(*domain.Draft) error { return nil })
		assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	})
}
