package servicedef

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogDecodesWhateverTimestampFormatTheBackendUses(t *testing.T) {
	for _, createdAt := range []string{"2025-11-24 10:00:00", "2025-11-24T10:00:00Z", "2025-11-24T10:00:00.123+05:30", "yesterday"} {
		t.Run(createdAt, func(t *testing.T) {
			var b Blog
			require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"x","createdAt":"`+createdAt+`"}`), &b))
			assert.Equal(t, Timestamp(createdAt), b.CreatedAt)
		})
	}
}

func TestTimestampTime(t *testing.T) {
	expected := time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)

	for _, ts := range []Timestamp{"2025-11-24 10:00:00", "2025-11-24T10:00:00", "2025-11-24T10:00:00Z", NewTimestamp(expected)} {
		parsed, err := ts.Time()
		require.NoError(t, err, string(ts))
		assert.True(t, expected.Equal(parsed), string(ts))
	}

	_, err := Timestamp("yesterday").Time()
	assert.Error(t, err)
}
