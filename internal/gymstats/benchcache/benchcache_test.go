package benchcache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/benchcache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCache_Benchmarks(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockbenchmarksStore(ctrl)
	cache := benchcache.New(storeMock, 1, time.Minute)

	bronze := gymstats.Rank{ID: uuid.New(), Name: "Bronze", SortOrder: 1}
	silver := gymstats.Rank{ID: uuid.New(), Name: "Silver", SortOrder: 2}
	squat := uuid.NewString()

	storeMock.EXPECT().GetRanks(gomock.Any()).Return([]gymstats.Rank{bronze, silver}, nil).Times(1)
	storeMock.EXPECT().
		GetBenchmarkRows(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, level gymstats.RankLevel) ([]gymstats.BenchmarkRow, error) {
			if level != gymstats.RankLevelExercise {
				return nil, nil
			}
			return []gymstats.BenchmarkRow{
				{Level: level, TargetID: squat, Gender: gymstats.GenderMale, RankID: bronze.ID, MinThreshold: 0.5},
				{Level: level, TargetID: squat, Gender: gymstats.GenderMale, RankID: silver.ID, MinThreshold: 1.25},
			}, nil
		}).
		Times(len(gymstats.RankLevels))

	for i := 0; i < 3; i++ {
		benchmarks, err := cache.Benchmarks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, benchmarks.Len())

		table, ok := benchmarks.Table(gymstats.RankLevelExercise, squat, gymstats.GenderMale)
		require.True(t, ok)
		rank, ok := table.Assign(1.3)
		require.True(t, ok)
		assert.Equal(t, "Silver", rank.Name)

		_, ok = benchmarks.Table(gymstats.RankLevelExercise, squat, gymstats.GenderFemale)
		assert.False(t, ok)
	}
}

func TestCache_StoreErrorIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockbenchmarksStore(ctrl)
	cache := benchcache.New(storeMock, 0, 0)

	gomock.InOrder(
		storeMock.EXPECT().GetRanks(gomock.Any()).Return(nil, errors.New("db down")),
		storeMock.EXPECT().GetRanks(gomock.Any()).Return([]gymstats.Rank{}, nil),
	)
	storeMock.EXPECT().GetBenchmarkRows(gomock.Any(), gomock.Any()).Return(nil, nil).Times(len(gymstats.RankLevels))

	_, err := cache.Benchmarks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load ranks")

	benchmarks, err := cache.Benchmarks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, benchmarks.Len())
}

func TestCache_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockbenchmarksStore(ctrl)
	cache := benchcache.New(storeMock, 1, time.Hour)

	storeMock.EXPECT().GetRanks(gomock.Any()).Return(nil, nil).Times(2)
	storeMock.EXPECT().GetBenchmarkRows(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2 * len(gymstats.RankLevels))

	_, err := cache.Benchmarks(context.Background())
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Benchmarks(context.Background())
	require.NoError(t, err)
}
