package command

import (
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/corex-go/internal/cli/config"
	"github.com/yndnr/corex-go/pkg/account"
)

// accountRow is one entry of GET /v1/accounts.
type accountRow struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty" table:"NAME"`
	Balance    string `json:"balance"`
	Registered bool   `json:"registered"`
}

// newAccount is printed by "account new".
type newAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Saved bool   `json:"saved"`
}

// balanceInfo mirrors GET /v1/accounts/{id}/balance.
type balanceInfo struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

// transaction mirrors one history entry.
type transaction struct {
	ID        string `json:"id"`
	Type      string `json:"tx_type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Timestamp uint64 `json:"timestamp"` // Unix nanoseconds
}

// historyRow is the table view of a transaction.
type historyRow struct {
	ID     string    `json:"id" table:"ID,wide"`
	Time   time.Time `json:"time"`
	Type   string    `json:"type"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Amount string    `json:"amount"`
}

// AccountCommand returns the account subcommand group.
func AccountCommand() *cli.Command {
	return &cli.Command{
		Name:    "account",
		Aliases: []string{"acct"},
		Usage:   "Manage account identities",
		Subcommands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Generate a new account identifier",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "save",
						Usage: "Save the identifier under `NAME` in the CLI config",
					},
					&cli.BoolFlag{
						Name:  "use",
						Usage: "Also make it the default caller (requires --save)",
					},
				},
				Action: accountNew,
			},
			{
				Name:   "list",
				Usage:  "List accounts holding a balance or registered",
				Action: accountList,
			},
		},
	}
}

func accountNew(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	id, err := account.Generate()
	if err != nil {
		return fmt.Errorf("generate account: %w", err)
	}
	result := newAccount{ID: id.String()}

	if name := c.String("save"); name != "" {
		cfg, path := CLIConfig(c)
		if _, err := account.Parse(name); err == nil {
			return fmt.Errorf("name %q is itself an account identifier", name)
		}
		if cfg.Accounts == nil {
			cfg.Accounts = make(map[string]string)
		}
		cfg.Accounts[name] = result.ID
		if c.Bool("use") {
			cfg.Caller = name
		}
		if err := config.Save(cfg, path); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		result.Name = name
		result.Saved = true
	} else if c.Bool("use") {
		return fmt.Errorf("--use requires --save")
	}

	return render(c, flags, result)
}

func accountList(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	var result struct {
		Accounts []accountRow `json:"accounts"`
		Count    int          `json:"count"`
	}
	if err := get(c, client, "/v1/accounts", &result); err != nil {
		return err
	}

	cfg, _ := CLIConfig(c)
	names := make(map[string]string, len(cfg.Accounts))
	for name, id := range cfg.Accounts {
		names[id] = name
	}
	for i := range result.Accounts {
		result.Accounts[i].Name = names[result.Accounts[i].ID]
	}

	if result.Accounts == nil {
		result.Accounts = []accountRow{}
	}
	return render(c, flags, result.Accounts)
}

// BalanceCommand returns the balance command.
func BalanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "balance",
		Aliases:   []string{"bal"},
		Usage:     "Show the balance of an account (default: caller)",
		ArgsUsage: "[ID|NAME]",
		Action:    balanceAction,
	}
}

func balanceAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	id, err := accountArg(c, flags)
	if err != nil {
		return err
	}

	var result balanceInfo
	if err := get(c, client, "/v1/accounts/"+url.PathEscape(id)+"/balance", &result); err != nil {
		return err
	}
	return render(c, flags, result)
}

// HistoryCommand returns the history command.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Aliases:   []string{"txs"},
		Usage:     "List transactions involving an account (default: caller)",
		ArgsUsage: "[ID|NAME]",
		Action:    historyAction,
	}
}

func historyAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	id, err := accountArg(c, flags)
	if err != nil {
		return err
	}

	var result struct {
		Transactions []transaction `json:"transactions"`
	}
	if err := get(c, client, "/v1/accounts/"+url.PathEscape(id)+"/transactions", &result); err != nil {
		return err
	}

	rows := make([]historyRow, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		rows = append(rows, historyRow{
			ID:     tx.ID,
			Time:   time.Unix(0, int64(tx.Timestamp)).UTC(),
			Type:   tx.Type,
			From:   tx.From,
			To:     tx.To,
			Amount: tx.Amount,
		})
	}
	return render(c, flags, rows)
}
