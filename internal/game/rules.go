package game

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Rules describes the table configuration for a session. Zero values are
// filled in by applyDefaults, so a partially specified HCL file works.
type Rules struct {
	NumDecks             int     `hcl:"num_decks,optional"`
	BlackjackPayout      float64 `hcl:"blackjack_payout,optional"`
	DealerHitsSoft17     bool    `hcl:"dealer_hits_soft_17,optional"`
	MaxSplits            int     `hcl:"max_splits,optional"`
	DoubleAfterSplit     bool    `hcl:"double_after_split,optional"`
	ResplitAces          bool    `hcl:"resplit_aces,optional"`
	HitSplitAces         bool    `hcl:"hit_split_aces,optional"`
	PenetrationThreshold float64 `hcl:"penetration_threshold,optional"`
	InsuranceOffered     bool    `hcl:"insurance_offered,optional"`
	SurrenderAllowed     bool    `hcl:"surrender_allowed,optional"`
	BlackjackAfterSplit  bool    `hcl:"blackjack_after_split,optional"`
	MinBet               int     `hcl:"min_bet,optional"`
	MaxBet               int     `hcl:"max_bet,optional"`
}

// SessionSettings contains session-level configuration loadable from the
// same file as the table rules.
type SessionSettings struct {
	Bankroll float64 `hcl:"bankroll,optional"`
	BaseBet  int     `hcl:"base_bet,optional"`
	Strategy string  `hcl:"strategy,optional"`
}

// Config is the top-level structure of a blackjacklab HCL config file.
type Config struct {
	Table   *Rules           `hcl:"table,block"`
	Session *SessionSettings `hcl:"session,block"`
}

// DefaultRules returns a classic six-deck Vegas shoe game: dealer stands on
// all 17s, blackjack pays 3:2, double after split allowed, split aces take
// one card each.
func DefaultRules() Rules {
	return Rules{
		NumDecks:             6,
		BlackjackPayout:      1.5,
		DealerHitsSoft17:     false,
		MaxSplits:            3,
		DoubleAfterSplit:     true,
		ResplitAces:          false,
		HitSplitAces:         false,
		PenetrationThreshold: 0.25,
		InsuranceOffered:     true,
		SurrenderAllowed:     false,
		BlackjackAfterSplit:  false,
		MinBet:               1,
		MaxBet:               500,
	}
}

func (r *Rules) applyDefaults() {
	def := DefaultRules()
	if r.NumDecks == 0 {
		r.NumDecks = def.NumDecks
	}
	if r.BlackjackPayout == 0 {
		r.BlackjackPayout = def.BlackjackPayout
	}
	if r.MaxSplits == 0 {
		r.MaxSplits = def.MaxSplits
	}
	if r.PenetrationThreshold == 0 {
		r.PenetrationThreshold = def.PenetrationThreshold
	}
	if r.MinBet == 0 {
		r.MinBet = def.MinBet
	}
	if r.MaxBet == 0 {
		r.MaxBet = def.MaxBet
	}
}

// Validate checks the rules for internal consistency.
func (r Rules) Validate() error {
	if r.NumDecks < 1 || r.NumDecks > 8 {
		return fmt.Errorf("num_decks must be between 1 and 8, got %d", r.NumDecks)
	}
	if r.BlackjackPayout < 1 {
		return fmt.Errorf("blackjack_payout must be at least 1:1, got %g", r.BlackjackPayout)
	}
	if r.MaxSplits < 0 {
		return fmt.Errorf("max_splits must not be negative, got %d", r.MaxSplits)
	}
	if r.PenetrationThreshold < 0 || r.PenetrationThreshold >= 1 {
		return fmt.Errorf("penetration_threshold must be in [0,1), got %g", r.PenetrationThreshold)
	}
	if r.MinBet < 1 {
		return fmt.Errorf("min_bet must be positive, got %d", r.MinBet)
	}
	if r.MaxBet < r.MinBet {
		return fmt.Errorf("max_bet %d is below min_bet %d", r.MaxBet, r.MinBet)
	}
	if r.HitSplitAces && !r.ResplitAces && r.MaxSplits == 0 {
		return fmt.Errorf("hit_split_aces requires splitting to be enabled")
	}
	return nil
}

// LoadConfig loads table rules and session settings from an HCL file.
// A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := &Config{}
	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			parser := hclparse.NewParser()
			file, diags := parser.ParseHCLFile(filename)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
			}
			diags = gohcl.DecodeBody(file.Body, nil, cfg)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode config file: %s", diags.Error())
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if cfg.Table == nil {
		def := DefaultRules()
		cfg.Table = &def
	} else {
		cfg.Table.applyDefaults()
	}
	if cfg.Session == nil {
		cfg.Session = &SessionSettings{}
	}
	if cfg.Session.Bankroll == 0 {
		cfg.Session.Bankroll = 1000
	}
	if cfg.Session.BaseBet == 0 {
		cfg.Session.BaseBet = 10
	}
	if cfg.Session.Strategy == "" {
		cfg.Session.Strategy = "basic"
	}

	if err := cfg.Table.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
