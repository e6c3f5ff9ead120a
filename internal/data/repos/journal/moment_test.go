package journal

import (
	"testing"
	"time"

	"github.com/yungbote/lore-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lore-backend/internal/domain"
)

func TestMomentRepoHalfOpenWindow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBCtx(tx)
	repo := NewMomentRepo(db, testutil.Logger(t))

	start := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	userID := "user_window"

	testutil.SeedMoment(t, tx, userID, "before", start.Add(-time.Millisecond))
	atStart := testutil.SeedMoment(t, tx, userID, "at start", start)
	mid := testutil.SeedMoment(t, tx, userID, "middle", start.Add(6*time.Hour))
	last := testutil.SeedMoment(t, tx, userID, "last", end.Add(-time.Millisecond))
	testutil.SeedMoment(t, tx, userID, "at end", end)
	testutil.SeedMoment(t, tx, "someone_else", "other", start.Add(time.Hour))

	got, err := repo.ListForUserBetween(dbc, userID, start, end)
	if err != nil {
		t.Fatalf("ListForUserBetween: %v", err)
	}
	want := []int64{atStart.ID, mid.ID, last.ID}
	if len(got) != len(want) {
		t.Fatalf("ListForUserBetween: want %d rows got %d", len(want), len(got))
	}
	for i, m := range got {
		if m.ID != want[i] {
			t.Fatalf("ListForUserBetween[%d]: want id=%d got=%d", i, want[i], m.ID)
		}
		if m.UserID != userID {
			t.Fatalf("ListForUserBetween[%d]: leaked user %q", i, m.UserID)
		}
	}

	empty, err := repo.ListForUserBetween(dbc, userID, end, start)
	if err != nil {
		t.Fatalf("ListForUserBetween inverted: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("ListForUserBetween inverted: want empty got %d", len(empty))
	}
}

func TestMomentRepoCreateAndSince(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBCtx(tx)
	repo := NewMomentRepo(db, testutil.Logger(t))

	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, text := range []string{"coffee", "walk", "dinner"} {
		if _, err := repo.Create(dbc, &types.Moment{UserID: "user_since", Text: text, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("Create(%s): %v", text, err)
		}
	}

	got, err := repo.ListForUserSince(dbc, "user_since", base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("ListForUserSince: %v", err)
	}
	if len(got) != 2 || got[0].Text != "dinner" || got[1].Text != "walk" {
		t.Fatalf("ListForUserSince: unexpected %+v", got)
	}

	stamped, err := repo.Create(dbc, &types.Moment{UserID: "user_since", Text: "now"})
	if err != nil {
		t.Fatalf("Create now: %v", err)
	}
	if stamped.ID == 0 || stamped.CreatedAt.IsZero() {
		t.Fatalf("Create now: want id and timestamp, got %+v", stamped)
	}
}
