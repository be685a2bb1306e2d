package redis

import (
	"context"
	"testing"
	"time"

	"github.com/sozow-hub/mentor-match/internal/domain/matching"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfileCache(t *testing.T) (*ProfileCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewProfileCache(NewCacheFromClient(client), time.Minute), mr
}

func TestProfileCache_StudentsRoundTrip(t *testing.T) {
	cache, _ := testProfileCache(t)
	ctx := context.Background()

	students := []matching.StudentProfile{
		{
			ID:          "S-001",
			DisplayName: "はると",
			Gender:      "男性",
			Strengths:   "マイクラで建築",
			Availability: []matching.AvailabilityDeclaration{
				{HourLabel: "17:00〜18:00", Days: "月, 水"},
			},
		},
	}

	require.NoError(t, cache.SetStudents(ctx, students))

	got, err := cache.GetStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, students, got)
}

func TestProfileCache_MissAfterExpiry(t *testing.T) {
	cache, mr := testProfileCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetMentors(ctx, []matching.MentorProfile{{ID: "M-001"}}))

	mr.FastForward(2 * time.Minute)

	_, err := cache.GetMentors(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestProfileCache_SynonymRowsSurviveTable(t *testing.T) {
	cache, _ := testProfileCache(t)
	ctx := context.Background()

	rows := [][]string{
		{"マインクラフト", "マイクラ,まいくら"},
		{"フォートナイト", "フォトナ"},
	}
	require.NoError(t, cache.SetSynonymRows(ctx, rows))

	got, err := cache.GetSynonymRows(ctx)
	require.NoError(t, err)

	table := matching.NewSynonymTable(got)
	assert.Equal(t, "マインクラフト", table.CanonicalOf("まいくら"))
}

func TestProfileCache_Invalidate(t *testing.T) {
	cache, _ := testProfileCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetStudents(ctx, []matching.StudentProfile{{ID: "S-001"}}))
	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.GetStudents(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
