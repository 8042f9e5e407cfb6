package secret

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/api"
	"github.com/openclaw/clawctl/internal/config"
)

var field string

var putSecretCmd = &cobra.Command{
	Use:   "put",
	Short: "Replaces one field of the gateway secret",
	Long:  `Replaces one field of the gateway secret JSON, reading the value from stdin so it never lands in shell history`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(field) == 0 {
			return errors.New("field is required")
		}
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Enter value for %s: \n", field)
		reader := bufio.NewReader(os.Stdin)
		value, _ := reader.ReadString('\n')
		return api.PutSecretField(cmd.Context(), field, strings.TrimSpace(value))
	},
}

func init() {
	putSecretCmd.PersistentFlags().StringVarP(&field, "field", "f", "", "secret field to replace (anthropic_api_key or openai_api_key)")
}
