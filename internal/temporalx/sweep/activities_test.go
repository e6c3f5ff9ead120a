package sweep

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"

	redisclient "github.com/yungbote/lore-backend/internal/clients/redis"
	"github.com/yungbote/lore-backend/internal/data/repos"
	"github.com/yungbote/lore-backend/internal/data/repos/testutil"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/temporalx/recapgen"
)

type fakeStarter struct {
	mu      sync.Mutex
	started []temporalsdkclient.StartWorkflowOptions
	inputs  []recapgen.Input
	fail    map[string]error
}

func (f *fakeStarter) ExecuteWorkflow(ctx context.Context, options temporalsdkclient.StartWorkflowOptions, wf interface{}, args ...interface{}) (temporalsdkclient.WorkflowRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in := args[0].(recapgen.Input)
	if err := f.fail[in.UserID]; err != nil {
		return nil, err
	}
	f.started = append(f.started, options)
	f.inputs = append(f.inputs, in)
	return nil, nil
}

func (f *fakeStarter) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.started))
	for _, o := range f.started {
		out = append(out, o.ID)
	}
	sort.Strings(out)
	return out
}

type sweepFixture struct {
	acts    *Activities
	starter *fakeStarter
	leaser  *redisclient.MemoryLeaser
	set     repos.Set
	asOf    time.Time
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	f := &sweepFixture{
		starter: &fakeStarter{fail: map[string]error{}},
		leaser:  redisclient.NewMemoryLeaser(),
		set:     repos.NewSet(db, log),
		asOf:    time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC),
	}
	f.acts = &Activities{
		Log:         log,
		UserMeta:    f.set.UserMeta,
		Starter:     f.starter,
		TaskQueue:   "lore",
		Leaser:      f.leaser,
		Concurrency: 4,
		Now:         func() time.Time { return f.asOf },
	}
	for _, id := range []string{"user_a", "user_b", "user_c"} {
		testutil.SeedUserMeta(t, db, id, nil)
	}
	return f
}

func TestTriggerRecapsStartsAndTouches(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()

	res, err := f.acts.TriggerRecaps(ctx, TriggerInput{Users: users("user_a", "user_b", "user_c"), AsOf: f.asOf})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Triggered)
	assert.Equal(t, []string{
		"daily-recap:user_a:2024-03-09",
		"daily-recap:user_b:2024-03-09",
		"daily-recap:user_c:2024-03-09",
	}, f.starter.ids())

	wantStart := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	for _, in := range f.starter.inputs {
		require.NotNil(t, in.WindowStart)
		assert.True(t, in.WindowStart.Equal(wantStart))
		assert.True(t, in.WindowEnd.Equal(wantStart.Add(24*time.Hour)))
	}

	for _, id := range []string{"user_a", "user_b", "user_c"} {
		m, err := f.set.UserMeta.Get(dbctx.New(ctx), id)
		require.NoError(t, err)
		require.NotNil(t, m.LastRecapAt)
		assert.True(t, m.LastRecapAt.Equal(f.asOf))
	}
}

func TestTriggerRecapsJoinsFailuresWithoutRollingBack(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	f.starter.fail["user_b"] = errors.New("frontend unavailable")

	res, err := f.acts.TriggerRecaps(ctx, TriggerInput{Users: users("user_a", "user_b", "user_c"), AsOf: f.asOf})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_b")
	assert.Equal(t, 2, res.Triggered)

	a, _ := f.set.UserMeta.Get(dbctx.New(ctx), "user_a")
	b, _ := f.set.UserMeta.Get(dbctx.New(ctx), "user_b")
	require.NotNil(t, a.LastRecapAt)
	assert.Nil(t, b.LastRecapAt)

	// the failed user's lease was released so a retry can claim it
	_, ok, err := f.leaser.Acquire(ctx, fmt.Sprintf("recap:%s:%s", "user_b", "2024-03-09"), time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTriggerRecapsRetryAfterPartialFailure(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	f.starter.fail["user_b"] = errors.New("transient")
	_, err := f.acts.TriggerRecaps(ctx, TriggerInput{Users: users("user_a", "user_b"), AsOf: f.asOf})
	require.Error(t, err)

	delete(f.starter.fail, "user_b")
	res, err := f.acts.TriggerRecaps(ctx, TriggerInput{Users: users("user_a", "user_b"), AsOf: f.asOf})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Triggered)
	assert.Equal(t, 1, res.Suppressed)
}

func TestTriggerRecapsTreatsAlreadyStartedAsSuccess(t *testing.T) {
	f := newSweepFixture(t)
	f.acts.Leaser = nil
	ctx := context.Background()
	f.starter.fail["user_a"] = serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1")

	res, err := f.acts.TriggerRecaps(ctx, TriggerInput{Users: users("user_a"), AsOf: f.asOf})
	require.NoError(t, err)
	assert.Equal(t, 1, res.AlreadyStarted)
	assert.Zero(t, res.Triggered)

	a, _ := f.set.UserMeta.Get(dbctx.New(ctx), "user_a")
	require.NotNil(t, a.LastRecapAt)
}

func TestTriggerRecapsDevUsesToday(t *testing.T) {
	f := newSweepFixture(t)
	_, err := f.acts.TriggerRecaps(context.Background(), TriggerInput{Users: users("user_a"), AsOf: f.asOf, Dev: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"daily-recap:user_a:2024-03-10"}, f.starter.ids())
}

func TestSweepVisitsEveryEligibleUserOnce(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	db := testutil.SQLite(t)
	f.set = repos.NewSet(db, f.acts.Log)
	f.acts.UserMeta = f.set.UserMeta

	recent := f.asOf.Add(-time.Hour)
	want := []string{}
	for i := 0; i < 11; i++ {
		id := fmt.Sprintf("u%02d", i)
		if i%4 == 3 {
			testutil.SeedUserMeta(t, db, id, &recent)
			continue
		}
		testutil.SeedUserMeta(t, db, id, nil)
		want = append(want, "daily-recap:"+id+":2024-03-09")
	}

	cursor := ""
	for pages := 0; pages < 10; pages++ {
		page, err := f.acts.SelectUsers(ctx, SelectUsersInput{AsOf: f.asOf, Cursor: cursor, Limit: 3})
		require.NoError(t, err)
		if len(page.Users) == 0 {
			break
		}
		_, err = f.acts.TriggerRecaps(ctx, TriggerInput{Users: page.Users, AsOf: f.asOf})
		require.NoError(t, err)
		if len(page.Users) < 3 {
			break
		}
		cursor = page.Users[len(page.Users)-1].UserID
	}
	assert.Equal(t, want, f.starter.ids())

	again, err := f.acts.SelectUsers(ctx, SelectUsersInput{AsOf: f.asOf, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, again.Users)
}
