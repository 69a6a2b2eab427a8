package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/corex-go/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "History file `PATH`",
				Value: repl.DefaultHistoryPath(),
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	_, configPath := CLIConfig(c)

	// Every line re-runs the app with the shell's resolved globals.
	prefix := []string{
		c.App.Name,
		"--server", flags.Server,
		"--output", string(flags.Output),
		"--config", configPath,
	}
	if flags.Caller != "" {
		prefix = append(prefix, "--caller", flags.Caller)
	}
	if flags.Wide {
		prefix = append(prefix, "--wide")
	}

	exec := func(ctx context.Context, args []string) error {
		argv := append(append([]string{}, prefix...), args...)
		return c.App.RunContext(ctx, argv)
	}

	history := repl.NewHistory(c.String("history-file"))
	if err := history.Load(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: load history: %v\n", err)
	}
	defer func() {
		if err := history.Save(); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "warning: save history: %v\n", err)
		}
	}()

	fmt.Fprintf(writer(c), "corex-cli %s, connected to %s. Type \"help\" for commands.\n",
		c.App.Version, flags.Server)

	r := repl.New(repl.Config{
		Input:   c.App.Reader,
		Output:  writer(c),
		Exec:    exec,
		History: history,
	})
	return r.Run(c.Context)
}
