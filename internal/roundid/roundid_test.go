package roundid

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsValid(t *testing.T) {
	id := New()
	assert.Len(t, id, 26)
	require.NoError(t, Validate(id))
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		require.False(t, seen[id], "duplicate ID %s", id)
		seen[id] = true
	}
}

func TestNewSortsByCreationTime(t *testing.T) {
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, New())
		time.Sleep(time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestFromUUIDIsDeterministic(t *testing.T) {
	id := uuid.MustParse("0189e3a0-1234-7abc-8def-0123456789ab")
	first := FromUUID(id)
	assert.Equal(t, first, FromUUID(id))
	require.NoError(t, Validate(first))
}

func TestValidate(t *testing.T) {
	valid := New()
	cases := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"generated", valid, false},
		{"too short", valid[:21], true},
		{"too long", valid + "aa", true},
		{"first char too high", "8" + valid[1:], true},
		{"forbidden letter", valid[:25] + "i", true},
		{"uppercase", strings.ToUpper(valid), true},
	}
	for _, tc := range cases {
		err := Validate(tc.id)
		if tc.wantErr {
			assert.Error(t, err, tc.name)
		} else {
			assert.NoError(t, err, tc.name)
		}
	}
}

func TestAlphabetExcludesAmbiguousLetters(t *testing.T) {
	assert.Len(t, alphabet, 32)
	for _, c := range "ilou" {
		assert.NotContains(t, alphabet, string(c))
	}
}
