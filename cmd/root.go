package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "climbcraft",
		Short: "Place catalog climbing holds on a photo of your wall",
		Long: `ClimbCraft serves a wall editor: pick a photo of a climbing wall, pan and
zoom it, then drag, rotate and scale holds from manufacturer catalogs onto it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCompositeCmd())
	cmd.AddCommand(newCatalogCmd())

	return cmd
}
