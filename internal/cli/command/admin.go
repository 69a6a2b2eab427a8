package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/corex-go/internal/cli/output"
	"github.com/yndnr/corex-go/internal/infra/buildinfo"
)

// checkpointResult mirrors POST /admin/v1/checkpoint.
type checkpointResult struct {
	Checkpointed bool  `json:"checkpointed"`
	ElapsedMS    int64 `json:"elapsed_ms"`
}

// AdminCommand returns the admin subcommand group.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrative commands (minting authority only)",
		Subcommands: []*cli.Command{
			{
				Name:   "checkpoint",
				Usage:  "Persist a full snapshot of the ledger state",
				Action: adminCheckpoint,
			},
		},
	}
}

func adminCheckpoint(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	var result checkpointResult
	if err := post(c, client, "/admin/v1/checkpoint", nil, &result); err != nil {
		return err
	}
	return render(c, flags, result)
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show client build information",
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			info := buildinfo.Get()
			if flags.Output == output.FormatTable {
				_, err := fmt.Fprintln(writer(c), "corex-cli "+buildinfo.String())
				return err
			}
			return render(c, flags, info)
		},
	}
}
