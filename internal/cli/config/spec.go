package config

// DefaultServer is used when neither the flag nor the file sets one.
const DefaultServer = "http://127.0.0.1:5180"

// CLIConfig is the configuration for corex-cli.
type CLIConfig struct {
	Server string `yaml:"server"`

	// Caller is a base58 identifier or a key of Accounts.
	Caller string `yaml:"caller,omitempty"`

	Output string `yaml:"output"` // table, json, yaml

	// Accounts names identifiers created with "account new --save".
	Accounts map[string]string `yaml:"accounts,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:   DefaultServer,
		Output:   "table",
		Accounts: make(map[string]string),
	}
}

// ResolveCaller maps a saved account name to its identifier. Other values
// are returned unchanged.
func (c *CLIConfig) ResolveCaller(nameOrID string) string {
	if id, ok := c.Accounts[nameOrID]; ok {
		return id
	}
	return nameOrID
}
