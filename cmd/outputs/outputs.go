package outputs

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/openclaw/clawctl/internal/api"
	"github.com/openclaw/clawctl/internal/config"
)

var OutputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Prints the deployment outputs as YAML",
	Long:  `Prints the deployment outputs as YAML: the public endpoint, the instance and secret identifiers, and the operational command strings.`,
	Args: func(cmd *cobra.Command, args []string) error {
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := api.Outputs(cmd.Context())
		if err != nil {
			return err
		}
		bytes, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Print(string(bytes))
		return nil
	},
}
