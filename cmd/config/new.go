package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/config"
)

var newConfigCmd = &cobra.Command{
	Use:   "new",
	Short: "Generates a clawctl config file in $HOME/.clawctl",
	Long:  `Generates a clawctl config file in $HOME/.clawctl`,
	Run: func(cmd *cobra.Command, args []string) {
		config.GenerateConfig(os.Stdin)
	},
}

func init() {
	ConfigCmd.AddCommand(newConfigCmd)
}
