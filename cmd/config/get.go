package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/openclaw/clawctl/internal/config"
)

var getConfigCmd = &cobra.Command{
	Use:   "get",
	Short: "Display currently configured options",
	Long:  `Display currently configured options`,
	Run: func(cmd *cobra.Command, args []string) {
		bytes, _ := yaml.Marshal(config.GetConfig())
		fmt.Print(string(bytes))
	},
}

func init() {
	ConfigCmd.AddCommand(getConfigCmd)
}
