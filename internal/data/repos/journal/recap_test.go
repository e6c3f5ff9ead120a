package journal

import (
	"testing"
	"time"

	"github.com/yungbote/lore-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lore-backend/internal/domain"
)

func TestRecapRepoCreateOnceIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBCtx(tx)
	repo := NewRecapRepo(db, testutil.Logger(t))

	key := "recap-images/1710000000000.jpg"
	first, err := repo.CreateOnce(dbc, &types.Recap{
		UserID:  "user_a",
		Text:    "a quiet day",
		RunKey:  "daily-recap:user_a:2024-03-09/run-1",
		ImageID: &key,
	})
	if err != nil {
		t.Fatalf("CreateOnce: %v", err)
	}
	if first.ID == 0 || first.Type != types.RecapTypeDaily {
		t.Fatalf("CreateOnce: unexpected row %+v", first)
	}

	second, err := repo.CreateOnce(dbc, &types.Recap{
		UserID: "user_a",
		Text:   "a different narrative",
		RunKey: "daily-recap:user_a:2024-03-09/run-1",
	})
	if err != nil {
		t.Fatalf("CreateOnce retry: %v", err)
	}
	if second.ID != first.ID || second.Text != "a quiet day" {
		t.Fatalf("CreateOnce retry: want original row id=%d got %+v", first.ID, second)
	}

	all, err := repo.ListForUser(dbc, "user_a")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ListForUser: want 1 row got %d", len(all))
	}

	if _, err := repo.CreateOnce(dbc, &types.Recap{UserID: "user_a", Text: "x"}); err == nil {
		t.Fatalf("CreateOnce without run key: want error")
	}
}

func TestRecapRepoScopedReads(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBCtx(tx)
	repo := NewRecapRepo(db, testutil.Logger(t))

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	older := testutil.SeedRecap(t, tx, "owner", "run-1", "older", base)
	newer := testutil.SeedRecap(t, tx, "owner", "run-2", "newer", base.Add(24*time.Hour))
	foreign := testutil.SeedRecap(t, tx, "intruder", "run-3", "foreign", base)

	list, err := repo.ListForUser(dbc, "owner")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("ListForUser: want newest first, got %+v", list)
	}

	got, err := repo.GetForUser(dbc, "owner", older.ID)
	if err != nil || got == nil || got.Text != "older" {
		t.Fatalf("GetForUser own: got=%+v err=%v", got, err)
	}

	cases := []struct {
		name string
		id   int64
	}{
		{name: "foreign", id: foreign.ID},
		{name: "missing", id: foreign.ID + 100},
		{name: "zero", id: 0},
		{name: "negative", id: -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.GetForUser(dbc, "owner", tc.id)
			if err != nil {
				t.Fatalf("GetForUser: %v", err)
			}
			if got != nil {
				t.Fatalf("GetForUser: want nil got %+v", got)
			}
		})
	}
}
