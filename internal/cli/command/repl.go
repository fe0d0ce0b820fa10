package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/prefixkv/internal/cli/repl"
)

// REPLCommand returns the interactive mode command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start interactive mode",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "save-history",
				Usage: "Persist history to the configured history file (default ~/.prefixkv/history)",
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	historyFile := ""
	if c.Bool("save-history") {
		historyFile = GetSettings(c).HistoryFile
		if historyFile == "" {
			historyFile = repl.DefaultHistoryFile()
		}
	}

	history := repl.NewHistory(historyFile)
	if err := history.Load(); err != nil {
		PrintError("load history: %v", err)
	}

	client := newClient(c)
	r := repl.New(client.Exec,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(history),
	)
	runErr := r.Run(c.Context)

	if err := history.Save(); err != nil {
		PrintError("save history: %v", err)
	}
	return runErr
}
