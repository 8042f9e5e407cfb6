package secret

import (
	"github.com/spf13/cobra"
)

var SecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manages the gateway API-key secret",
	Long:  `Manages the gateway API-key secret. Deploy stores placeholders only; real keys are injected here, out of band.`,
}

func init() {
	SecretCmd.AddCommand(putSecretCmd)
}
