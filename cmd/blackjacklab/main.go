package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play blackjack interactively"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate one strategy over many rounds"`
	Compare  CompareCmd       `cmd:"" help:"Run several strategies head to head"`
	Stats    StatsCmd         `cmd:"" help:"Inspect recorded sessions"`
}

func main() {
	// Local overrides (e.g. BLACKJACKLAB_DB) may live in a .env file.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjacklab"),
		kong.Description("A blackjack table, simulator and strategy lab"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":    version,
			"strategies": "basic,conservative,aggressive,martingale,hilo",
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
