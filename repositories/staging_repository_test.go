package repositories

import (
	"testing"

	"davetli.app/models"

	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withStagingRepository(t *testing.T, action func(r IStagingRepository)) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	action(NewStagingRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
}

func stagedRow(id int, email, status string) models.StagedRow {
	return models.StagedRow{
		ID:         id,
		RowNumber:  id,
		GuestName:  "Test Misafir",
		GuestEmail: email,
		TicketType: "standard",
		Status:     status,
		Errors:     map[string]string{},
	}
}

func TestPushRowAndGetRow(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		row := stagedRow(1, "a@example.com", models.RowStatusValid)
		require.NoError(t, r.PushRow("job-1", row))

		got, err := r.GetRow("job-1", 1)
		require.NoError(t, err)
		assert.Equal(t, row.GuestEmail, got.GuestEmail)
		assert.Equal(t, row.Status, got.Status)
	})
}

func TestGetRowNotFound(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		_, err := r.GetRow("job-1", 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPushChunkIncrementsCounters(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		rows := []models.StagedRow{
			stagedRow(1, "a@example.com", models.RowStatusValid),
			stagedRow(2, "b@example.com", models.RowStatusValid),
			stagedRow(3, "geçersiz", models.RowStatusInvalid),
		}
		require.NoError(t, r.PushChunk("job-1", rows, 2, 1))
		require.NoError(t, r.PushChunk("job-1", []models.StagedRow{
			stagedRow(4, "c@example.com", models.RowStatusValid),
		}, 1, 0))

		stats, err := r.GetStats("job-1")
		require.NoError(t, err)
		assert.Equal(t, models.StagedStats{TotalCount: 4, ValidCount: 3, InvalidCount: 1}, stats)
	})
}

func TestRangeRowsSortedByID(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		// Ekleme sırası karışık; okuma her zaman id sıralı olmalı.
		for _, id := range []int{11, 2, 30, 1} {
			require.NoError(t, r.PushRow("job-1", stagedRow(id, "x@example.com", models.RowStatusValid)))
		}

		rows, err := r.RangeRows("job-1")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, []int{1, 2, 11, 30}, []int{rows[0].ID, rows[1].ID, rows[2].ID, rows[3].ID})
	})
}

func TestDeleteRowRemovesOnlyTarget(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		require.NoError(t, r.PushRow("job-1", stagedRow(1, "a@example.com", models.RowStatusValid)))
		require.NoError(t, r.PushRow("job-1", stagedRow(2, "b@example.com", models.RowStatusValid)))

		require.NoError(t, r.DeleteRow("job-1", 1))

		_, err := r.GetRow("job-1", 1)
		assert.ErrorIs(t, err, ErrNotFound)
		exists, err := r.RowExists("job-1", 2)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestDeleteRowsClearsHash(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		require.NoError(t, r.PushRow("job-1", stagedRow(1, "a@example.com", models.RowStatusValid)))
		require.NoError(t, r.DeleteRows("job-1"))

		rows, err := r.RangeRows("job-1")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestSetStatsOverwritesCounters(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		require.NoError(t, r.SetStats("job-1", models.StagedStats{TotalCount: 5, ValidCount: 3, InvalidCount: 2}))
		require.NoError(t, r.SetStats("job-1", models.StagedStats{}))

		stats, err := r.GetStats("job-1")
		require.NoError(t, err)
		assert.Equal(t, models.StagedStats{}, stats)
	})
}

func TestIncrStatAdjustsSingleField(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		require.NoError(t, r.SetStats("job-1", models.StagedStats{TotalCount: 2, ValidCount: 1, InvalidCount: 1}))
		require.NoError(t, r.IncrStat("job-1", "valid_count", 1))
		require.NoError(t, r.IncrStat("job-1", "invalid_count", -1))

		stats, err := r.GetStats("job-1")
		require.NoError(t, err)
		assert.Equal(t, models.StagedStats{TotalCount: 2, ValidCount: 2, InvalidCount: 0}, stats)
	})
}

func TestStatusRoundTrip(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		status, err := r.GetStatus("job-1")
		require.NoError(t, err)
		assert.Empty(t, status)

		require.NoError(t, r.SetStatus("job-1", models.BulkStatusProcessing))
		status, err = r.GetStatus("job-1")
		require.NoError(t, err)
		assert.Equal(t, models.BulkStatusProcessing, status)
	})
}

func TestJobsAreIsolated(t *testing.T) {
	withStagingRepository(t, func(r IStagingRepository) {
		require.NoError(t, r.PushRow("job-1", stagedRow(1, "a@example.com", models.RowStatusValid)))

		rows, err := r.RangeRows("job-2")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
