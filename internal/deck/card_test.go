package deck

import "testing"

func TestRankPoints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rank Rank
		want int
	}{
		{Two, 2},
		{Six, 6},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
		{Ace, 11},
	}
	for _, tt := range tests {
		if got := tt.rank.Points(); got != tt.want {
			t.Errorf("%s.Points() = %d, want %d", tt.rank, got, tt.want)
		}
	}
}

func TestIsTenValue(t *testing.T) {
	t.Parallel()
	for rank := Two; rank <= Ace; rank++ {
		want := rank >= Ten && rank <= King
		if got := rank.IsTenValue(); got != want {
			t.Errorf("%s.IsTenValue() = %v, want %v", rank, got, want)
		}
	}
}

func TestHiLoTags(t *testing.T) {
	t.Parallel()
	// Dealing 2, 7, K, A should move the running count by +1, 0, -1, -1.
	cards := MustParseCards("2h", "7s", "Kd", "Ac")
	count := 0
	for _, c := range cards {
		count += c.HiLo()
	}
	if count != -1 {
		t.Errorf("running count after 2,7,K,A = %d, want -1", count)
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Card
	}{
		{"As", Card{Spades, Ace}},
		{"A♠", Card{Spades, Ace}},
		{"Th", Card{Hearts, Ten}},
		{"2c", Card{Clubs, Two}},
		{"kd", Card{Diamonds, King}},
	}
	for _, tt := range tests {
		got, err := ParseCard(tt.in)
		if err != nil {
			t.Fatalf("ParseCard(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "A", "1s", "Ax", "10s"} {
		if _, err := ParseCard(bad); err == nil {
			t.Errorf("ParseCard(%q) should fail", bad)
		}
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()
	c := NewCard(Hearts, Ace)
	if c.String() != "A♥" {
		t.Errorf("String() = %q, want A♥", c.String())
	}
	if !c.IsRed() {
		t.Error("A♥ should be red")
	}
	if NewCard(Spades, Two).IsRed() {
		t.Error("2♠ should not be red")
	}
}
