package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2025-01-01T00:00:00Z"})
	require.NoError(t, err)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "42", cursor.ID)

	_, err = DecodeCursor("%%%")
	assert.Error(t, err)
}

func TestBuildCursorPageInfo(t *testing.T) {
	rows := []*int{new(int), new(int), new(int)}
	*rows[1] = 7

	info := BuildCursorPageInfo(rows, 2, func(v *int) string {
		if *v == 7 {
			return "seven"
		}
		return "other"
	})
	assert.True(t, info.HasMore)
	assert.Equal(t, "seven", info.NextPageToken)

	info = BuildCursorPageInfo(rows, 3, func(*int) string { return "x" })
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)
}
