package domain

import (
	"github.com/yungbote/lore-backend/internal/domain/jobs"
	"github.com/yungbote/lore-backend/internal/domain/journal"
	"github.com/yungbote/lore-backend/internal/domain/user"
)

type Moment = journal.Moment
type Recap = journal.Recap
type RecapType = journal.RecapType

const (
	RecapTypeDaily   = journal.RecapTypeDaily
	RecapTypeWeekly  = journal.RecapTypeWeekly
	RecapTypeMonthly = journal.RecapTypeMonthly
)

type UserMeta = user.UserMeta
type ArtStyle = user.ArtStyle

const (
	ArtStyleClassicalPainting     = user.ArtStyleClassicalPainting
	ArtStyleEtherealAnimatedFairy = user.ArtStyleEtherealAnimatedFairy
	ArtStyleChildrensBook         = user.ArtStyleChildrensBook
	ArtStyle3DAnimated            = user.ArtStyle3DAnimated
	DefaultArtStyle               = user.DefaultArtStyle
	DefaultTimezone               = user.DefaultTimezone
)

var ArtStyles = user.ArtStyles

func NewUserMeta(userID, email string) *UserMeta { return user.NewUserMeta(userID, email) }

func ParseArtStyle(raw string) (ArtStyle, error) { return user.ParseArtStyle(raw) }

type RecapRun = jobs.RecapRun

const (
	RecapRunStatusRunning   = jobs.RecapRunStatusRunning
	RecapRunStatusSucceeded = jobs.RecapRunStatusSucceeded
	RecapRunStatusSkipped   = jobs.RecapRunStatusSkipped
	RecapRunStatusFailed    = jobs.RecapRunStatusFailed

	RecapStageLoadMeta    = jobs.RecapStageLoadMeta
	RecapStageLoadMoments = jobs.RecapStageLoadMoments
	RecapStageNarrative   = jobs.RecapStageNarrative
	RecapStageImagePrompt = jobs.RecapStageImagePrompt
	RecapStageRenderImage = jobs.RecapStageRenderImage
	RecapStagePersist     = jobs.RecapStagePersist
	RecapStageDone        = jobs.RecapStageDone
)

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{
		&journal.Moment{},
		&journal.Recap{},
		&user.UserMeta{},
		&jobs.RecapRun{},
	}
}
