package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExercises_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.exercises.Create(ctx, "a@x.com", "Squat", "strength")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := f.exercises.Update(ctx, "a@x.com", created.ID, "Front Squat", "strength")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	list, err := f.exercises.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Front Squat", list[0].Name)

	require.NoError(t, f.exercises.Delete(ctx, "a@x.com", created.ID))
	list, err = f.exercises.List(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExercises_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.exercises.Create(ctx, "a@x.com", "", "strength")
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = f.exercises.Create(ctx, "a@x.com", "Squat", "")
	assert.ErrorIs(t, err, ErrMissingField)

	created, err := f.exercises.Create(ctx, "a@x.com", "Squat", "strength")
	require.NoError(t, err)
	_, err = f.exercises.Update(ctx, "a@x.com", created.ID, "", "strength")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestExercises_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.exercises.Create(ctx, "a@x.com", "Squat", "strength")
	require.NoError(t, err)

	assert.ErrorIs(t, f.exercises.Delete(ctx, "b@x.com", created.ID), ErrNotFound)
	assert.ErrorIs(t, f.exercises.Delete(ctx, "a@x.com", "does-not-exist"), ErrNotFound)
	_, err = f.exercises.Update(ctx, "b@x.com", created.ID, "Hijack", "strength")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.exercises.List(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSessionTypes_Uniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.types.Create(ctx, "a@x.com", "v", "Label")
	require.NoError(t, err)
	_, err = f.types.Create(ctx, "a@x.com", "v", "Other")
	assert.ErrorIs(t, err, ErrDuplicateValue)

	_, err = f.types.Create(ctx, "b@x.com", "v", "Label")
	require.NoError(t, err)
}

func TestSessionTypes_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.types.Create(ctx, "a@x.com", "race", "R"); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrDuplicateValue)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	list, err := f.types.List(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSessionTypes_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	run, err := f.types.Create(ctx, "a@x.com", "run", "Run")
	require.NoError(t, err)
	swim, err := f.types.Create(ctx, "a@x.com", "swim", "Swim")
	require.NoError(t, err)

	updated, err := f.types.Update(ctx, "a@x.com", run.ID, "run", "Running")
	require.NoError(t, err)
	assert.Equal(t, "Running", updated.Label)

	_, err = f.types.Update(ctx, "a@x.com", swim.ID, "run", "Swim")
	assert.ErrorIs(t, err, ErrDuplicateValue)

	_, err = f.types.Update(ctx, "a@x.com", "missing", "x", "X")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.types.Update(ctx, "a@x.com", run.ID, "", "X")
	assert.ErrorIs(t, err, ErrMissingField)

	require.NoError(t, f.types.Delete(ctx, "a@x.com", swim.ID))
	assert.ErrorIs(t, f.types.Delete(ctx, "a@x.com", swim.ID), ErrNotFound)

	list, err := f.types.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Running", list[0].Label)
}

func TestCatalogs_DeleteEmptyIDRemovesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.exercises.Create(ctx, "a@x.com", "Squat", "strength")
	require.NoError(t, err)
	_, err = f.exercises.Create(ctx, "a@x.com", "Bench", "strength")
	require.NoError(t, err)
	_, err = f.types.Create(ctx, "a@x.com", "easy", "Easy")
	require.NoError(t, err)

	assert.ErrorIs(t, f.exercises.Delete(ctx, "a@x.com", ""), ErrNotFound)
	assert.ErrorIs(t, f.types.Delete(ctx, "a@x.com", ""), ErrNotFound)

	exercises, err := f.exercises.List(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, exercises, 2)

	types, err := f.types.List(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, types, 1)
}
