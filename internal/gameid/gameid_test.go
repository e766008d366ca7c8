package gameid

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	var ids []string
	for range 10 {
		id := Generate()
		require.NoError(t, Validate(id))
		assert.Len(t, id, encodedLen)
		assert.False(t, seen[id], "duplicate ID %s", id)
		seen[id] = true
		ids = append(ids, id)
		time.Sleep(time.Millisecond)
	}
	assert.True(t, slices.IsSorted(ids), "IDs sort by creation time")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		wantErr string
	}{
		{"valid", "01h5n0et5q6mt3v7ms1234abcd", ""},
		{"too short", "01h5n0et5q6mt3v7ms123", "exactly 26"},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", "exactly 26"},
		{"padding bits set", "81h5n0et5q6mt3v7ms1234abcd", "must be 0-7"},
		{"letter outside alphabet", "01h5n0et5q6mt3v7ms1234abci", "invalid character i"},
		{"upper case", "01H5N0ET5Q6MT3V7MS1234ABCD", "invalid character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.id)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00000000000000000000000000", Encode(uuid.Nil))
	assert.Equal(t, "7zzzzzzzzzzzzzzzzzzzzzzzzz", Encode(uuid.Max))

	u := uuid.Must(uuid.NewV7())
	decoded, err := Decode(Encode(u))
	require.NoError(t, err)
	assert.Equal(t, u, decoded)
	assert.Equal(t, uuid.Version(7), decoded.Version())

	_, err = Decode("not-an-id")
	assert.Error(t, err)
}

func TestRoundID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "01h5n0et5q6mt3v7ms1234abcd-12", RoundID("01h5n0et5q6mt3v7ms1234abcd", 12))
}
