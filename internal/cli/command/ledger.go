package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// transferResult mirrors POST /v1/transfer.
type transferResult struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
}

// mintResult mirrors POST /v1/mint.
type mintResult struct {
	To          string `json:"to"`
	Amount      string `json:"amount"`
	TotalSupply string `json:"total_supply"`
}

// registerResult mirrors POST /v1/register.
type registerResult struct {
	ID         string `json:"id"`
	Registered bool   `json:"registered"`
	Balance    string `json:"balance"`
	Airdrop    *struct {
		Recipients    int    `json:"recipients"`
		PerAccount    string `json:"per_account"`
		Total         string `json:"total"`
		NextMilestone uint64 `json:"next_milestone"`
	} `json:"airdrop,omitempty"`
}

// registerView flattens registerResult for tables.
type registerView struct {
	ID                string `json:"id"`
	Registered        bool   `json:"registered"`
	Balance           string `json:"balance"`
	AirdropRecipients int    `json:"airdrop_recipients,omitempty"`
	AirdropPerAccount string `json:"airdrop_per_account,omitempty"`
	NextMilestone     uint64 `json:"next_milestone,omitempty"`
}

// faucetResult mirrors POST /v1/faucet.
type faucetResult struct {
	To      string `json:"to"`
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
}

// profileInfo mirrors GET /v1/me.
type profileInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Balance    string `json:"balance"`
	Registered bool   `json:"registered"`
}

// TransferCommand returns the transfer command.
func TransferCommand() *cli.Command {
	return &cli.Command{
		Name:      "transfer",
		Usage:     "Move tokens from the caller to another account",
		ArgsUsage: "TO AMOUNT",
		Action:    transferAction,
	}
}

func transferAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: transfer TO AMOUNT")
	}

	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	to, err := ResolveAccount(c, c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid receiver: %w", err)
	}

	body := map[string]string{
		"to":     to.String(),
		"amount": c.Args().Get(1),
	}
	var result transferResult
	if err := post(c, client, "/v1/transfer", body, &result); err != nil {
		return err
	}
	return render(c, flags, result)
}

// MintCommand returns the mint command.
func MintCommand() *cli.Command {
	return &cli.Command{
		Name:      "mint",
		Usage:     "Create new tokens (minting authority only)",
		ArgsUsage: "AMOUNT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "to",
				Usage: "Receiving account `ID|NAME` (default: caller)",
			},
		},
		Action: mintAction,
	}
}

func mintAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: mint AMOUNT [--to ID]")
	}

	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	body := map[string]string{"amount": c.Args().First()}
	if to := c.String("to"); to != "" {
		id, err := ResolveAccount(c, to)
		if err != nil {
			return fmt.Errorf("invalid receiver: %w", err)
		}
		body["to"] = id.String()
	}

	var result mintResult
	if err := post(c, client, "/v1/mint", body, &result); err != nil {
		return err
	}
	return render(c, flags, result)
}

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "Register the caller (may trigger a milestone airdrop)",
		Action: registerAction,
	}
}

func registerAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	var result registerResult
	if err := post(c, client, "/v1/register", nil, &result); err != nil {
		return err
	}

	view := registerView{
		ID:         result.ID,
		Registered: result.Registered,
		Balance:    result.Balance,
	}
	if a := result.Airdrop; a != nil {
		view.AirdropRecipients = a.Recipients
		view.AirdropPerAccount = a.PerAccount
		view.NextMilestone = a.NextMilestone
	}
	return render(c, flags, view)
}

// FaucetCommand returns the faucet command.
func FaucetCommand() *cli.Command {
	return &cli.Command{
		Name:   "faucet",
		Usage:  "Request faucet tokens for the caller",
		Action: faucetAction,
	}
}

func faucetAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	var result faucetResult
	if err := post(c, client, "/v1/faucet", nil, &result); err != nil {
		return err
	}
	return render(c, flags, result)
}

// ProfileCommand returns the profile subcommand group.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show or update the caller's profile",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the caller's profile",
				Action: profileShow,
			},
			{
				Name:  "set",
				Usage: "Update the caller's name and email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Display name"},
					&cli.StringFlag{Name: "email", Usage: "Contact email"},
				},
				Action: profileSet,
			},
		},
	}
}

func profileShow(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	var result profileInfo
	if err := get(c, client, "/v1/me", &result); err != nil {
		return err
	}
	return render(c, flags, result)
}

func profileSet(c *cli.Context) error {
	if !c.IsSet("name") && !c.IsSet("email") {
		return fmt.Errorf("nothing to update (use --name and/or --email)")
	}

	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	// Unset fields keep their current value.
	var current profileInfo
	if err := get(c, client, "/v1/me", &current); err != nil {
		return err
	}
	body := map[string]string{
		"name":  current.Name,
		"email": current.Email,
	}
	if c.IsSet("name") {
		body["name"] = c.String("name")
	}
	if c.IsSet("email") {
		body["email"] = c.String("email")
	}

	if err := post(c, client, "/v1/profile", body, nil); err != nil {
		return err
	}

	var updated profileInfo
	if err := get(c, client, "/v1/me", &updated); err != nil {
		return err
	}
	return render(c, flags, updated)
}
