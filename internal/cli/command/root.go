package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/corex-go/internal/cli/config"
	"github.com/yndnr/corex-go/internal/cli/connection"
	"github.com/yndnr/corex-go/internal/cli/output"
	"github.com/yndnr/corex-go/internal/infra/buildinfo"
	"github.com/yndnr/corex-go/pkg/account"
)

// Metadata keys.
const (
	metaConfig     = "cliConfig"
	metaConfigPath = "cliConfigPath"
)

// RequestTimeout bounds each server call.
const RequestTimeout = 30 * time.Second

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "corex-cli",
		Usage:    "CoreX (CRX) ledger command-line client",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: make(map[string]any),
		Commands: []*cli.Command{
			TokenCommand(),
			AccountCommand(),
			BalanceCommand(),
			HistoryCommand(),
			TransferCommand(),
			MintCommand(),
			RegisterCommand(),
			FaucetCommand(),
			ProfileCommand(),
			AdminCommand(),
			VersionCommand(),
			ShellCommand(),
		},
		Before: loadConfig,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "CoreX server URL (default " + config.DefaultServer + ")",
			EnvVars: []string{"COREX_SERVER"},
		},
		&cli.StringFlag{
			Name:    "caller",
			Aliases: []string{"c"},
			Usage:   "Caller identity: base58 account ID or saved account name",
			EnvVars: []string{"COREX_CALLER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to CLI configuration file",
			EnvVars: []string{"COREX_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

func loadConfig(c *cli.Context) error {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaConfigPath] = path
	return nil
}

// GlobalFlags holds the resolved global settings.
type GlobalFlags struct {
	Server string
	Caller string // base58 identifier, empty for anonymous
	Output output.Format
	Wide   bool
}

// CLIConfig returns the loaded CLI configuration and its path.
func CLIConfig(c *cli.Context) (*config.CLIConfig, string) {
	cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig)
	if !ok {
		cfg = config.Default()
	}
	path, _ := c.App.Metadata[metaConfigPath].(string)
	return cfg, path
}

// ParseGlobalFlags merges flags with the CLI configuration.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg, _ := CLIConfig(c)

	flags := &GlobalFlags{
		Server: firstNonEmpty(c.String("server"), cfg.Server, config.DefaultServer),
		Wide:   c.Bool("wide"),
	}

	format, err := output.ParseFormat(firstNonEmpty(c.String("output"), cfg.Output))
	if err != nil {
		return nil, err
	}
	flags.Output = format

	if caller := firstNonEmpty(c.String("caller"), cfg.Caller); caller != "" {
		id, err := ResolveAccount(c, caller)
		if err != nil {
			return nil, fmt.Errorf("invalid caller: %w", err)
		}
		flags.Caller = id.String()
	}
	return flags, nil
}

// ResolveAccount parses a base58 identifier or a saved account name.
func ResolveAccount(c *cli.Context, nameOrID string) (account.ID, error) {
	cfg, _ := CLIConfig(c)
	return account.Parse(cfg.ResolveCaller(nameOrID))
}

// accountArg resolves the first argument, defaulting to the caller.
func accountArg(c *cli.Context, flags *GlobalFlags) (string, error) {
	if arg := c.Args().First(); arg != "" {
		id, err := ResolveAccount(c, arg)
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}
	if flags.Caller == "" {
		return "", fmt.Errorf("account ID required (pass one or set --caller)")
	}
	return flags.Caller, nil
}

// EnsureConnected returns an HTTP client for the resolved server and caller.
func EnsureConnected(c *cli.Context) (*connection.HTTPClient, *GlobalFlags, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, nil, err
	}
	return connection.NewHTTPClient(flags.Server, flags.Caller), flags, nil
}

// requestContext bounds a server call by RequestTimeout.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, RequestTimeout)
}

// get performs a GET and decodes the envelope data into target.
func get(c *cli.Context, client *connection.HTTPClient, path string, target any) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, path)
	return connection.Do(resp, err, target)
}

// post performs a POST and decodes the envelope data into target.
func post(c *cli.Context, client *connection.HTTPClient, path string, body, target any) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, path, body)
	return connection.Do(resp, err, target)
}

// render writes data to the app writer in the selected format.
func render(c *cli.Context, flags *GlobalFlags, data any) error {
	return output.NewFormatter(flags.Output, flags.Wide).Format(writer(c), data)
}

func writer(c *cli.Context) io.Writer {
	return c.App.Writer
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
