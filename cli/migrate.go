package cli

import (
	"github.com/spf13/cobra"
	"github.com/yeremiapane/quickserve/config"
	"github.com/yeremiapane/quickserve/database"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the database schema",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}
}

func NewSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load menu items and staff accounts from a YAML file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.SeedFile
			}

			seed, err := database.LoadSeed(file)
			if err != nil {
				return err
			}
			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			res, err := database.ApplySeed(cmd.Context(), db, seed)
			if err != nil {
				return err
			}
			cmd.Printf("created %d categories, %d menu items, %d staff accounts\n", res.Categories, res.Menus, res.Staff)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (defaults to SEED_FILE)")
	return cmd
}
