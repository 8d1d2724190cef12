package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult(id string, net float64) *game.Result {
	return &game.Result{
		RoundID: id,
		Wager:   10,
		Dealer: game.DealerResult{
			Cards: deck.MustParseCards("7d", "Th"),
			Value: 17,
		},
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

func TestRoundRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateSession(ctx, "s1", "basic", 1000, 10, 42))
	require.NoError(t, db.RecordRound(ctx, "s1", 1, sampleResult("r1", 10), 1010))
	require.NoError(t, db.RecordRound(ctx, "s1", 2, sampleResult("r2", -10), 1000))

	rounds, err := db.SessionRounds(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rounds, 2)

	assert.Equal(t, "r1", rounds[0].ID)
	assert.Equal(t, 10.0, rounds[0].Net)
	assert.Equal(t, 1010.0, rounds[0].Bankroll)
	require.NotNil(t, rounds[0].Result)
	assert.Equal(t, game.OutcomeWin, rounds[0].Result.Seats[0].Outcome)
	assert.Equal(t, deck.MustParseCards("Ts", "9h"), rounds[0].Result.Seats[0].Cards)
	assert.Equal(t, 17, rounds[0].Result.Dealer.Value)
}

func TestDuplicateRoundIDRejected(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateSession(ctx, "s1", "basic", 1000, 10, 1))
	require.NoError(t, db.RecordRound(ctx, "s1", 1, sampleResult("r1", 10), 1010))
	err := db.RecordRound(ctx, "s1", 2, sampleResult("r1", -10), 1000)
	require.Error(t, err)
}

func TestSessionSummaries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateSession(ctx, "s1", "basic", 1000, 10, 1))
	require.NoError(t, db.CreateSession(ctx, "s2", "hilo", 500, 5, 2))
	require.NoError(t, db.RecordRound(ctx, "s1", 1, sampleResult("r1", 10), 1010))
	require.NoError(t, db.RecordRound(ctx, "s1", 2, sampleResult("r2", -10), 1000))

	summaries, err := db.SessionSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[string]SessionSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Equal(t, "basic", byID["s1"].Strategy)
	assert.Equal(t, 2, byID["s1"].Rounds)
	assert.Equal(t, 0.0, byID["s1"].Net)
	assert.Equal(t, 1000.0, byID["s1"].Final)

	// A session with no rounds reports its starting bankroll.
	assert.Equal(t, 0, byID["s2"].Rounds)
	assert.Equal(t, 500.0, byID["s2"].Final)
}

func TestSessionSinkNumbersRounds(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateSession(ctx, "s1", "basic", 1000, 10, 1))
	sink := NewSessionSink(db, "s1")
	require.NoError(t, sink.RecordRound(ctx, sampleResult("r1", 10), 1010))
	require.NoError(t, sink.RecordRound(ctx, sampleResult("r2", 10), 1020))

	rounds, err := db.SessionRounds(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, 1, rounds[0].Seq)
	assert.Equal(t, 2, rounds[1].Seq)
}
