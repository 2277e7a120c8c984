package step

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestResultConstructors verifies the tag each constructor produces.
func TestResultConstructors(t *testing.T) {
	t.Parallel()

	require.Equal(t, StatusOK, OK().Status)
	require.False(t, OK().Fatal())

	skipped := Skip("disabled by configuration")
	require.Equal(t, StatusSkipped, skipped.Status)
	require.Equal(t, "disabled by configuration", skipped.Reason)

	cause := errors.New("boom")

	tolerated := Tolerate(cause)
	require.Equal(t, StatusTolerated, tolerated.Status)
	require.ErrorIs(t, tolerated.Err, cause)
	require.False(t, tolerated.Fatal())

	fatal := Fail(cause)
	require.True(t, fatal.Fatal())
	require.ErrorIs(t, fatal.Err, cause)
}

// TestStatusString covers the human-readable tags.
func TestStatusString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ok", StatusOK.String())
	require.Equal(t, "skipped", StatusSkipped.String())
	require.Equal(t, "tolerated", StatusTolerated.String())
	require.Equal(t, "fatal", StatusFatal.String())
	require.Contains(t, Status(42).String(), "unknown")
}
