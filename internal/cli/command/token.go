package command

import (
	"github.com/urfave/cli/v2"
)

// tokenInfo mirrors GET /v1/token.
type tokenInfo struct {
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	TotalSupply      string `json:"total_supply"`
	MintingAuthority string `json:"minting_authority,omitempty"`
	AirdropMilestone uint64 `json:"airdrop_milestone"`
	Accounts         int    `json:"accounts"`
	Transactions     int    `json:"transactions"`
}

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Token metadata",
		Subcommands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "Show name, symbol and total supply",
				Action: tokenInfoAction,
			},
		},
	}
}

func tokenInfoAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	var info tokenInfo
	if err := get(c, client, "/v1/token", &info); err != nil {
		return err
	}
	return render(c, flags, info)
}
