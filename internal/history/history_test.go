package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
)

func result(id string, net float64) *game.Result {
	return &game.Result{
		RoundID: id,
		Wager:   10,
		Dealer:  game.DealerResult{Cards: deck.MustParseCards("7d", "Th"), Value: 17},
		Seats: []game.SeatResult{{
			Cards:   deck.MustParseCards("Ts", "9h"),
			Value:   19,
			Wager:   10,
			Outcome: game.OutcomeWin,
			Net:     net,
		}},
		Net: net,
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	mock := quartz.NewMock(t)

	w := NewWriter(path, "s1", "basic", WithClock(mock), WithFlushEvery(1))
	require.NoError(t, w.RecordRound(context.Background(), result("r1", 10), 1010))
	require.NoError(t, w.RecordRound(context.Background(), result("r2", -10), 1000))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s1", f.SessionID)
	assert.Equal(t, "basic", f.Strategy)
	require.Len(t, f.Records, 2)
	assert.Equal(t, 1, f.Records[0].Seq)
	assert.Equal(t, "r1", f.Records[0].Result.RoundID)
	assert.Equal(t, 1010.0, f.Records[0].Bankroll)
	assert.Equal(t, game.OutcomeWin, f.Records[0].Result.Seats[0].Outcome)
}

func TestHistoryBuffersUntilFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	w := NewWriter(path, "s1", "basic", WithFlushEvery(10))

	require.NoError(t, w.RecordRound(context.Background(), result("r1", 10), 1010))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file should not exist before flush")

	require.NoError(t, w.Flush())
	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Records, 1)
}

func TestHistoryAutoFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	w := NewWriter(path, "s1", "basic", WithFlushEvery(2))

	require.NoError(t, w.RecordRound(context.Background(), result("r1", 10), 1010))
	require.NoError(t, w.RecordRound(context.Background(), result("r2", 10), 1020))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Records, 2)
	assert.Equal(t, 2, w.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
