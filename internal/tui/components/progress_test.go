package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgressView(t *testing.T) {
	t.Parallel()

	t.Run("renders label and bar", func(t *testing.T) {
		t.Parallel()
		view := NewProgress(10).View(5, 0)
		require.Contains(t, view, "5/10")
		require.Greater(t, len(strings.TrimSpace(view)), len("5/10"))
		require.NotContains(t, view, "failed")
	})

	t.Run("notes failures", func(t *testing.T) {
		t.Parallel()
		view := NewProgress(3).View(3, 2)
		require.Contains(t, view, "3/3")
		require.Contains(t, view, "2 failed")
	})

	t.Run("handles an empty run", func(t *testing.T) {
		t.Parallel()
		require.Contains(t, NewProgress(0).View(0, 0), "0/0")
	})

	t.Run("caps the bar but keeps the real count", func(t *testing.T) {
		t.Parallel()
		require.Contains(t, NewProgress(2).View(3, 0), "3/2")
	})
}
