package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile2pdf/internal/types"
)

func sampleResult() *types.AggregatedFetchResult {
	return &types.AggregatedFetchResult{
		Profile:    types.ProfileRecord{Username: "alice", DisplayName: "Alice", Skills: []string{"Go"}, RecentPosts: []types.RecentPost{}},
		References: []types.ReferenceRecord{},
	}
}

func sampleResume() *types.ResumeRecord {
	return &types.ResumeRecord{
		PersonalInfo: types.PersonalInfo{Name: "Alice"},
		Summary:      "Alice is a professional.",
		Skills:       []string{"Go"},
		Languages:    []string{"Japanese"},
	}
}

// runManagerContract exercises a Manager on top of store.
func runManagerContract(t *testing.T, store Store) {
	ctx := context.Background()
	m := NewManager(store)

	original := sampleResume()
	s, err := m.Create(ctx, sampleResult(), original)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, s.CreatedAt, s.UpdatedAt)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Result.Profile.Username)
	assert.Equal(t, original, got.Resume)

	edited := original.Clone()
	edited.Summary = "Edited."
	updated, err := m.ReplaceResume(ctx, s.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, "Edited.", updated.Resume.Summary)
	assert.Equal(t, s.CreatedAt, updated.CreatedAt)

	got, err = m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited.", got.Resume.Summary)
	assert.Equal(t, "Alice is a professional.", original.Summary, "caller's record untouched")

	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Memory(t *testing.T) {
	runManagerContract(t, NewMemory(time.Minute))
}

func TestManager_UnknownAndMalformedIDs(t *testing.T) {
	m := NewManager(NewMemory(time.Minute))
	ctx := context.Background()

	_, err := m.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Get(ctx, "6f1c2d8e-8a5b-4c1e-9f3a-2b7d4e6f8a90")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.ReplaceResume(ctx, "6f1c2d8e-8a5b-4c1e-9f3a-2b7d4e6f8a90", sampleResume())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, m.Delete(ctx, "not-a-uuid"))
}

func TestManager_ConcurrentUpdatesKeepEveryEdit(t *testing.T) {
	m := NewManager(NewMemory(time.Minute))
	ctx := context.Background()

	s, err := m.Create(ctx, sampleResult(), sampleResume())
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.UpdateResume(ctx, s.ID, func(current *types.ResumeRecord) (*types.ResumeRecord, error) {
				next := current.Clone()
				next.Skills = append(next.Skills, fmt.Sprintf("skill-%d", i))
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Resume.Skills, writers+1)
	for i := range writers {
		assert.Contains(t, got.Resume.Skills, fmt.Sprintf("skill-%d", i))
	}
}

func TestManager_UpdateResumeFailureLeavesSession(t *testing.T) {
	m := NewManager(NewMemory(time.Minute))
	ctx := context.Background()

	s, err := m.Create(ctx, sampleResult(), sampleResume())
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.UpdateResume(ctx, s.ID, func(*types.ResumeRecord) (*types.ResumeRecord, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Resume, got.Resume)
	assert.Equal(t, s.UpdatedAt, got.UpdatedAt)

	_, err = m.UpdateResume(ctx, "not-a-uuid", func(r *types.ResumeRecord) (*types.ResumeRecord, error) {
		return r, nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemory(time.Hour)
	store.now = func() time.Time { return now }
	m := NewManager(store)
	m.now = store.now
	ctx := context.Background()

	s, err := m.Create(ctx, sampleResult(), sampleResume())
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	_, err = m.ReplaceResume(ctx, s.ID, sampleResume())
	require.NoError(t, err, "still alive")

	now = now.Add(50 * time.Minute)
	_, err = m.Get(ctx, s.ID)
	require.NoError(t, err, "expiry restarted by the update")

	now = now.Add(11 * time.Minute)
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemory(time.Minute)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{ID: "a"}))
	now = now.Add(30 * time.Second)
	require.NoError(t, store.Put(ctx, &Session{ID: "b"}))

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Sweep())

	_, err := store.Get(ctx, "b")
	assert.NoError(t, err)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	store := NewMemory(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, &Session{ID: "a", Resume: sampleResume()}))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	got.Resume = nil

	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, again.Resume)
}

func TestManager_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping redis test: %v", err)
	}

	store := NewRedis(client, "profile2pdf-test:", time.Minute)
	runManagerContract(t, store)

	require.NoError(t, store.Put(context.Background(), &Session{ID: "ttl-check"}))
	defer client.Del(context.Background(), "profile2pdf-test:session:ttl-check")
	ttl, err := client.TTL(context.Background(), "profile2pdf-test:session:ttl-check").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
