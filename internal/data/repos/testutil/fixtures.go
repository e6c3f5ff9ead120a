package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
)

func DBCtx(tx *gorm.DB) dbctx.Context {
	return dbctx.Context{Ctx: context.Background(), Tx: tx}
}

func SeedMoment(tb testing.TB, tx *gorm.DB, userID, text string, at time.Time) *types.Moment {
	tb.Helper()
	m := &types.Moment{UserID: userID, Text: text, CreatedAt: at.UTC()}
	if err := tx.WithContext(context.Background()).Create(m).Error; err != nil {
		tb.Fatalf("seed moment: %v", err)
	}
	return m
}

// SeedUserMeta inserts a defaults row; lastRecapAt may be nil.
func SeedUserMeta(tb testing.TB, tx *gorm.DB, userID string, lastRecapAt *time.Time) *types.UserMeta {
	tb.Helper()
	row := types.NewUserMeta(userID, userID+"@example.com")
	if lastRecapAt != nil {
		at := lastRecapAt.UTC()
		row.LastRecapAt = &at
	}
	if err := tx.WithContext(context.Background()).Create(row).Error; err != nil {
		tb.Fatalf("seed user meta: %v", err)
	}
	return row
}

func SeedRecap(tb testing.TB, tx *gorm.DB, userID, runKey, text string, at time.Time) *types.Recap {
	tb.Helper()
	row := &types.Recap{UserID: userID, RunKey: runKey, Text: text, Type: types.RecapTypeDaily, CreatedAt: at.UTC()}
	if err := tx.WithContext(context.Background()).Create(row).Error; err != nil {
		tb.Fatalf("seed recap: %v", err)
	}
	return row
}
