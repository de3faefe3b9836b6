package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Task
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Task{}}
}

func (r *testRepo) Create(_ context.Context, t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (r *testRepo) ListByOwner(_ context.Context, owner string) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Task, 0)
	for _, t := range r.byID {
		if t.OwnerUserID == owner {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, t Task, prevCompleted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[t.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Completed != prevCompleted {
		return ErrConflict
	}
	r.byID[t.ID] = t
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testRewarder struct {
	mu      sync.Mutex
	credits map[string]int
	calls   int
	err     error

	// cancel simula que el request se corta durante el crédito.
	cancel context.CancelFunc
}

func newTestRewarder() *testRewarder {
	return &testRewarder{credits: map[string]int{}}
}

func (r *testRewarder) Credit(ctx context.Context, userID string, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.cancel != nil {
		r.cancel()
		return ctx.Err()
	}
	if r.err != nil {
		return r.err
	}
	r.credits[userID] += amount
	return nil
}

func newTestService(repo Repository, rw Rewarder) *Service {
	svc := NewService(repo, rw, 10, nil)
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return svc
}

func boolPtr(b bool) *bool           { return &b }
func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

// -------------------------
// Tests
// -------------------------

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", CreateInput{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, "u1", CreateInput{Title: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	task, err := svc.Create(ctx, "u1", CreateInput{Title: "  Buy milk ", Description: " 2L "})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2L", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestGet_OtherUserIsNotFound(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Title: "mine"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, task.ID, "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, task.ID, "u2", UpdateInput{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, task.ID, "u2"), ErrNotFound)

	_, err = svc.Get(ctx, task.ID, "u1")
	assert.NoError(t, err)
}

func TestUpdate_RewardPaidOnlyOnTransition(t *testing.T) {
	repo := newTestRepo()
	rw := newTestRewarder()
	svc := newTestService(repo, rw)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Title: "walk dog"})
	require.NoError(t, err)

	res, err := svc.Update(ctx, task.ID, "u1", UpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Reward)
	assert.True(t, res.Task.Completed)
	assert.True(t, res.Task.UpdatedAt.After(task.UpdatedAt))

	// reenviar completed=true no vuelve a pagar
	res, err = svc.Update(ctx, task.ID, "u1", UpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reward)

	// editar el título de una tarea completada tampoco
	res, err = svc.Update(ctx, task.ID, "u1", UpdateInput{Title: strPtr("walk the dog")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reward)
	assert.Equal(t, "walk the dog", res.Task.Title)

	assert.Equal(t, 10, rw.credits["u1"])
	assert.Equal(t, 1, rw.calls)
}

func TestUpdate_UncompleteThenCompletePaysAgain(t *testing.T) {
	rw := newTestRewarder()
	svc := newTestService(newTestRepo(), rw)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Title: "stretch"})
	require.NoError(t, err)

	for _, completed := range []bool{true, false, true} {
		_, err := svc.Update(ctx, task.ID, "u1", UpdateInput{Completed: boolPtr(completed)})
		require.NoError(t, err)
	}

	assert.Equal(t, 20, rw.credits["u1"])
}

func TestUpdate_CreditFailureRevertsCompletion(t *testing.T) {
	repo := newTestRepo()
	rw := newTestRewarder()
	rw.err = errors.New("inventory down")
	svc := newTestService(repo, rw)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Title: "read"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, task.ID, "u1", UpdateInput{Completed: boolPtr(true)})
	require.Error(t, err)

	stored, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)

	// al volver el inventario, el reintento paga
	rw.err = nil
	res, err := svc.Update(ctx, task.ID, "u1", UpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Reward)
}

func TestUpdate_CanceledCreditStillRevertsCompletion(t *testing.T) {
	repo := newTestRepo()
	rw := newTestRewarder()
	svc := newTestService(repo, rw)

	task, err := svc.Create(context.Background(), "u1", CreateInput{Title: "homework"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rw.cancel = cancel

	_, err = svc.Update(ctx, task.ID, "u1", UpdateInput{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, context.Canceled)

	stored, err := repo.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)

	// el siguiente "complete" sigue siendo una transición y paga
	rw.cancel = nil
	res, err := svc.Update(context.Background(), task.ID, "u1", UpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Reward)
}

func TestUpdate_ConcurrentCompletesPayOnce(t *testing.T) {
	rw := newTestRewarder()
	svc := newTestService(newTestRepo(), rw)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Title: "race"})
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, task.ID, "u1", UpdateInput{Completed: boolPtr(true)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 10, rw.credits["u1"])
}

func TestUpdate_DeadlineSetAndClear(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	ctx := context.Background()

	due := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(ctx, "u1", CreateInput{Title: "taxes", Deadline: timePtr(due)})
	require.NoError(t, err)

	res, err := svc.Update(ctx, task.ID, "u1", UpdateInput{Description: strPtr("forms")})
	require.NoError(t, err)
	require.NotNil(t, res.Task.Deadline)
	assert.True(t, res.Task.Deadline.Equal(due))

	res, err = svc.Update(ctx, task.ID, "u1", UpdateInput{Deadline: PatchTime{Present: true}})
	require.NoError(t, err)
	assert.Nil(t, res.Task.Deadline)

	_, err = svc.Update(ctx, task.ID, "u1", UpdateInput{Title: strPtr(" ")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_FilterAndFuzzySearch(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	ctx := context.Background()

	for _, title := range []string{"Buy groceries", "Call mom", "Book flights"} {
		_, err := svc.Create(ctx, "u1", CreateInput{Title: title})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "u2", CreateInput{Title: "Buy a boat"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "u1", ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Book flights", all[0].Title)

	_, err = svc.Update(ctx, all[1].ID, "u1", UpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)

	done, err := svc.List(ctx, "u1", ListFilter{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "Call mom", done[0].Title)

	found, err := svc.List(ctx, "u1", ListFilter{Query: "buy"})
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "Buy groceries", found[0].Title)
	for _, task := range found {
		assert.Equal(t, "u1", task.OwnerUserID)
	}
}

func TestShouldReward(t *testing.T) {
	assert.True(t, ShouldReward(false, true))
	assert.False(t, ShouldReward(true, true))
	assert.False(t, ShouldReward(true, false))
	assert.False(t, ShouldReward(false, false))
}
