package options

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/config"
	"github.com/sadopc/quadra/internal/store"
)

// RootOptions are the global flags that pick where state lives.
type RootOptions struct {
	ConfigFile string
	EnvFile    string
	DataDir    string
	Backend    string
}

// AddRootArgs registers the global flags on the top level command.
func AddRootArgs(cmd *cobra.Command, o *RootOptions) {
	cmd.PersistentFlags().StringVar(&o.ConfigFile, "config", "",
		"Path to a config file. Defaults to config.yaml in the data directory.")
	cmd.PersistentFlags().StringVar(&o.EnvFile, "env-file", "",
		"Path to a .env file with credentials. Defaults to ./.env.")
	cmd.PersistentFlags().StringVar(&o.DataDir, "data-dir", "",
		"Directory for data, config and logs.")
	cmd.PersistentFlags().StringVar(&o.Backend, "backend", "",
		"Storage backend. One of "+strings.Join(store.Backends, ", ")+".")
}

// Config turns the flags into config overrides.
func (o *RootOptions) Config() config.Options {
	return config.Options{
		ConfigFile: o.ConfigFile,
		EnvFile:    o.EnvFile,
		DataDir:    o.DataDir,
		Backend:    o.Backend,
	}
}
