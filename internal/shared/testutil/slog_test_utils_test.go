package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records with attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("parsed extract", slog.String("file", "202401.csv"))
		logger.Error("read failed", slog.Int("row", 7))

		records := handler.GetRecords()
		require.Len(t, records, 2)
		assert.True(t, handler.ContainsMessage("parsed extract"))
		assert.True(t, handler.ContainsAttr("file", "202401.csv"))
		assert.True(t, handler.ContainsAttr("row", int64(7)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		assert.Equal(t, 4, handler.Count())
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "pipeline").Info("combined extracts")

		require.Equal(t, 1, handler.Count())
		assert.True(t, handler.ContainsAttr("component", "pipeline"))
	})

	t.Run("clear discards records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("one")
		logger.Info("two")
		require.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("quality filter removed rows", slog.String("reason", "empty_ride_id"))

		AssertLogContains(t, handler, slog.LevelInfo, "quality filter")
		AssertNoErrors(t, handler)
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent", slog.Int("n", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}
