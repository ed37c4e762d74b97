package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/pnl/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("fpnl")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion builds the shell completion tree for the fpnl binary.
func completion() *complete.Command {
	files := map[string]complete.Predictor{
		"t":       predict.Files("*.csv"),
		"p":       predict.Files("*.csv"),
		"s":       predict.Files("*.csv"),
		"symbols": predict.Files("*.csv"),
		"m":       predict.Something,
		"a":       predict.Something,
	}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"positions": {Flags: files},
			"matches":   {Flags: files},
			"split":     {Flags: files},
			"bydate":    {Flags: files},
			"topic":     {Args: predict.Set{"readme", "trades", "settlement", "notation"}},
		},
		Flags: map[string]complete.Predictor{
			"tz":       predict.Something,
			"currency": predict.Set{"USD", "EUR", "GBP", "JPY"},
		},
	}
}
