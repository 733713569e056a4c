// Package cmd implements the fiber CLI commands.
//
// The root command carries the flags shared by every subcommand (the
// configuration file) and dispatches to render and version.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "fiber",
		Short: "Render node trees through the fiber reconciler",
		Long: `fiber drives the incremental renderer outside a browser. Node trees
are read from YAML documents, rendered into an in-memory host through a real
idle-time event loop, and the resulting host tree is printed.

Settings are read from ./fiber.yaml when present, or from --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file (default: ./"+config.FileName+" if present)")

	root.AddCommand(newRenderCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// resolve loads the configuration named by --config, or the optional file
// in the working directory.
func (o *rootOptions) resolve() (*config.Resolved, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		return nil, err
	}
	return cfg.Resolve()
}
