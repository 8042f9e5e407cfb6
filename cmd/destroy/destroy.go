package destroy

import (
	"errors"
	"fmt"

	"github.com/eiannone/keyboard"
	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/api"
	"github.com/openclaw/clawctl/internal/config"
)

var yes bool
var force bool

var DestroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Tears down everything recorded in the environment's state",
	Long:  `Tears down everything recorded in the environment's state, in reverse dependency order. Adopted account-wide resources (GuardDuty, Inspector) are never destroyed.`,
	Args: func(cmd *cobra.Command, args []string) error {
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !yes {
			c := config.GetConfig()
			fmt.Printf("Destroy everything in environment %q? [y/N] ", c.Environment)
			txt, _, _ := keyboard.GetSingleKey()
			if txt != 'Y' && txt != 'y' {
				fmt.Println()
				return errors.New("destroy aborted")
			}
			fmt.Println()
		}
		return api.Destroy(cmd.Context(), force)
	},
}

func init() {
	DestroyCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	DestroyCmd.PersistentFlags().BoolVar(&force, "force", false, "delete the secret without a recovery window")
}
