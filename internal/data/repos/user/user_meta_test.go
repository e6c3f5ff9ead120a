package user

import (
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/lore-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lore-backend/internal/domain"
)

func TestUserMetaGetOrCreateIsStable(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBCtx(tx)
	repo := NewUserMetaRepo(db, testutil.Logger(t))

	missing, err := repo.Get(dbc, "user_new")
	if err != nil || missing != nil {
		t.Fatalf("Get missing: got=%+v err=%v", missing, err)
	}

	first, err := repo.GetOrCreate(dbc, types.NewUserMeta("user_new", "new@example.com"))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first.ArtStyle != types.DefaultArtStyle || first.Timezone != types.DefaultTimezone || first.LastRecapAt != nil {
		t.Fatalf("GetOrCreate: defaults not applied: %+v", first)
	}
	if first.Email != "new@example.com" {
		t.Fatalf("GetOrCreate: email=%q", first.Email)
	}

	second, err := repo.GetOrCreate(dbc, types.NewUserMeta("user_new", "changed@example.com"))
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if second.Email != first.Email || !second.CreatedAt.Equal(first.CreatedAt) || second.ArtStyle != first.ArtStyle {
		t.Fatalf("GetOrCreate again: row changed: first=%+v second=%+v", first, second)
	}
}

func TestUserMetaUpdateArtStyleAndTouch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBCtx(tx)
	repo := NewUserMetaRepo(db, testutil.Logger(t))

	testutil.SeedUserMeta(t, tx, "user_style", nil)
	if err := repo.UpdateArtStyle(dbc, "user_style", types.ArtStyleChildrensBook); err != nil {
		t.Fatalf("UpdateArtStyle: %v", err)
	}
	at := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	if err := repo.TouchLastRecapAt(dbc, "user_style", at); err != nil {
		t.Fatalf("TouchLastRecapAt: %v", err)
	}
	got, err := repo.Get(dbc, "user_style")
	if err != nil || got == nil {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}
	if got.ArtStyle != types.ArtStyleChildrensBook {
		t.Fatalf("ArtStyle: got=%q", got.ArtStyle)
	}
	if got.Email != "user_style@example.com" {
		t.Fatalf("Email overwritten: %q", got.Email)
	}
	if got.LastRecapAt == nil || !got.LastRecapAt.Equal(at) {
		t.Fatalf("LastRecapAt: got=%v want=%v", got.LastRecapAt, at)
	}

	// touching an unknown user creates the row
	if err := repo.TouchLastRecapAt(dbc, "user_touch_only", at); err != nil {
		t.Fatalf("TouchLastRecapAt new: %v", err)
	}
	created, err := repo.Get(dbc, "user_touch_only")
	if err != nil || created == nil || created.ArtStyle != types.DefaultArtStyle {
		t.Fatalf("Get touched: got=%+v err=%v", created, err)
	}
}

func TestUserMetaListEligibleThreshold(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBCtx(tx)
	repo := NewUserMetaRepo(db, testutil.Logger(t))

	asOf := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	threshold := 24 * time.Hour
	boundary := asOf.Add(-threshold)
	olderByMs := boundary.Add(-time.Millisecond)
	recent := asOf.Add(-time.Hour)

	testutil.SeedUserMeta(t, tx, "a_never", nil)
	testutil.SeedUserMeta(t, tx, "b_boundary", &boundary)
	testutil.SeedUserMeta(t, tx, "c_older", &olderByMs)
	testutil.SeedUserMeta(t, tx, "d_recent", &recent)

	got, err := repo.ListEligible(dbc, asOf, threshold, "", 10)
	if err != nil {
		t.Fatalf("ListEligible: %v", err)
	}
	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.UserID)
	}
	if fmt.Sprint(ids) != "[a_never c_older]" {
		t.Fatalf("ListEligible: got %v", ids)
	}
}

func TestUserMetaListEligiblePagination(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBCtx(tx)
	repo := NewUserMetaRepo(db, testutil.Logger(t))

	asOf := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	recent := asOf.Add(-time.Minute)
	stale := asOf.Add(-48 * time.Hour)

	want := []string{}
	for i := 0; i < 23; i++ {
		id := fmt.Sprintf("user_%03d", i)
		switch i % 3 {
		case 0:
			testutil.SeedUserMeta(t, tx, id, nil)
			want = append(want, id)
		case 1:
			testutil.SeedUserMeta(t, tx, id, &stale)
			want = append(want, id)
		default:
			testutil.SeedUserMeta(t, tx, id, &recent)
		}
	}

	const pageSize = 4
	visited := []string{}
	seen := map[string]bool{}
	cursor := ""
	for pages := 0; ; pages++ {
		if pages > 20 {
			t.Fatalf("pagination did not terminate")
		}
		page, err := repo.ListEligible(dbc, asOf, 24*time.Hour, cursor, pageSize)
		if err != nil {
			t.Fatalf("ListEligible page %d: %v", pages, err)
		}
		again, err := repo.ListEligible(dbc, asOf, 24*time.Hour, cursor, pageSize)
		if err != nil {
			t.Fatalf("ListEligible repeat %d: %v", pages, err)
		}
		if len(again) != len(page) {
			t.Fatalf("ListEligible repeat %d: size changed %d != %d", pages, len(again), len(page))
		}
		for i, m := range page {
			if again[i].UserID != m.UserID {
				t.Fatalf("ListEligible repeat %d: row %d differs", pages, i)
			}
			if seen[m.UserID] {
				t.Fatalf("user %s visited twice", m.UserID)
			}
			seen[m.UserID] = true
			visited = append(visited, m.UserID)
		}
		if len(page) < pageSize {
			break
		}
		cursor = page[len(page)-1].UserID
	}
	if fmt.Sprint(visited) != fmt.Sprint(want) {
		t.Fatalf("pagination: visited=%v want=%v", visited, want)
	}
}
