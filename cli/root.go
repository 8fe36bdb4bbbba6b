package cli

import (
	"github.com/spf13/cobra"
	"github.com/yeremiapane/quickserve/config"
	"github.com/yeremiapane/quickserve/utils"
)

// Version is set at build time with -ldflags "-X github.com/yeremiapane/quickserve/cli.Version=...".
var Version = "dev"

// NewRootCommand creates the quickserve command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quickserve",
		Short: "QuickServe table ordering backend",
		Long:  "Table ordering backend: customers order from a table and poll their order, staff move orders through the kitchen.",
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(Version)
		},
	})

	return cmd
}

func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig reads the configuration and sets up logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}
