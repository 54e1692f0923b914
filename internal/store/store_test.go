package store

import (
	"context"
	"testing"

	"github.com/clockrobustus/clockd/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAssignsFreshIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Upsert(ctx, types.Alarm{Hour: 7, Minute: 30, ActiveDays: 0x01})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if first.ID == nil {
		t.Fatal("first upsert returned record without id")
	}

	second, err := s.Upsert(ctx, types.Alarm{Hour: 8, Minute: 0, ActiveDays: 0x02})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if second.ID == nil {
		t.Fatal("second upsert returned record without id")
	}
	if *first.ID == *second.ID {
		t.Errorf("sequential creates returned the same id %d", *first.ID)
	}
}

func TestUpsertUpdatesWholesale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Upsert(ctx, types.Alarm{Hour: 7, Minute: 30, Second: 15, ActiveDays: 0x7F})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	replacement := types.Alarm{ID: created.ID, Hour: 22, Minute: 5, Second: 0, ActiveDays: 0x40}
	updated, err := s.Upsert(ctx, replacement)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated != replacement {
		t.Errorf("update returned %+v, expected %+v", updated, replacement)
	}

	alarms, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(alarms) != 1 {
		t.Fatalf("list returned %d alarms, expected 1", len(alarms))
	}
	got := alarms[0]
	if got.Hour != 22 || got.Minute != 5 || got.Second != 0 || got.ActiveDays != 0x40 {
		t.Errorf("stored record = %+v, expected wholesale replacement", got)
	}
}

func TestUpsertUnknownIDFailsNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	missing := int64(99)
	_, err := s.Upsert(ctx, types.Alarm{ID: &missing, Hour: 6})
	if err == nil {
		t.Fatal("upsert with unknown id should fail")
	}
	if types.ErrorCode(err) != types.ErrNotFound {
		t.Errorf("error code = %q, expected %q", types.ErrorCode(err), types.ErrNotFound)
	}

	alarms, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(alarms) != 0 {
		t.Errorf("store should be unchanged, but holds %d alarms", len(alarms))
	}
}

func TestUpsertValidatesBeforeMutation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, types.Alarm{Hour: 24})
	if err == nil {
		t.Fatal("upsert with hour 24 should fail")
	}
	if types.ErrorCode(err) != types.ErrInvalidField {
		t.Errorf("error code = %q, expected %q", types.ErrorCode(err), types.ErrInvalidField)
	}

	alarms, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(alarms) != 0 {
		t.Errorf("store should remain empty, but holds %d alarms", len(alarms))
	}
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Upsert(ctx, types.Alarm{Hour: 7, ActiveDays: 0x01})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.Delete(ctx, *created.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}

	alarms, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(alarms) != 0 {
		t.Errorf("deleted alarm still listed: %+v", alarms)
	}

	err = s.Delete(ctx, *created.ID)
	if err == nil {
		t.Fatal("second delete of the same id should fail")
	}
	if types.ErrorCode(err) != types.ErrNotFound {
		t.Errorf("error code = %q, expected %q", types.ErrorCode(err), types.ErrNotFound)
	}
}

func TestListEmptyStore(t *testing.T) {
	s := openTestStore(t)

	alarms, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list on empty store failed: %v", err)
	}
	if alarms == nil {
		t.Fatal("list on empty store should return an empty slice, not nil")
	}
	if len(alarms) != 0 {
		t.Errorf("empty store listed %d alarms", len(alarms))
	}
}

func TestListOrderIsStable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for hour := 9; hour >= 5; hour-- {
		if _, err := s.Upsert(ctx, types.Alarm{Hour: hour, ActiveDays: 0x01}); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	alarms, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for i := 1; i < len(alarms); i++ {
		if *alarms[i-1].ID >= *alarms[i].ID {
			t.Fatalf("list not ordered by id: %d before %d", *alarms[i-1].ID, *alarms[i].ID)
		}
	}
}

func TestCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Count = %d, %v; expected 0, nil", n, err)
	}

	if _, err := s.Upsert(ctx, types.Alarm{Hour: 7, ActiveDays: 0x01}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	n, err = s.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v; expected 1, nil", n, err)
	}
}
