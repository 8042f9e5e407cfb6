package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/openclaw/clawctl/cmd/allowlist"
	cfg "github.com/openclaw/clawctl/cmd/config"
	"github.com/openclaw/clawctl/cmd/deploy"
	"github.com/openclaw/clawctl/cmd/destroy"
	"github.com/openclaw/clawctl/cmd/janitor"
	"github.com/openclaw/clawctl/cmd/outputs"
	"github.com/openclaw/clawctl/cmd/secret"
	"github.com/openclaw/clawctl/cmd/status"
	"github.com/openclaw/clawctl/internal/config"
	"github.com/openclaw/clawctl/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "clawctl",
	Short: "Deploys the OpenClaw agent gateway on AWS",
	Long:  `Provisions and operates the hardened AWS deployment of the OpenClaw agent gateway: CloudFront and WAF ingress, a private gateway instance, DNS-firewalled egress, and the cloud janitor automation.`,
}

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Generate markdown documentation",
	Run: func(cmd *cobra.Command, args []string) {
		err := doc.GenMarkdownTree(rootCmd, "./docs")
		if err != nil {
			log.Fatal(err)
		}
	},
}

// Execute will run the cli command
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

var cfgFile string

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.DisableAutoGenTag = true
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file")
	rootCmd.AddCommand(cfg.ConfigCmd)
	rootCmd.AddCommand(deploy.DeployCmd)
	rootCmd.AddCommand(destroy.DestroyCmd)
	rootCmd.AddCommand(status.StatusCmd)
	rootCmd.AddCommand(outputs.OutputsCmd)
	rootCmd.AddCommand(allowlist.AllowlistCmd)
	rootCmd.AddCommand(secret.SecretCmd)
	rootCmd.AddCommand(janitor.JanitorCmd)
	rootCmd.AddCommand(docCmd)
}

func initConfig() {
	config.InitConfig(cfgFile)
	logging.InitLogger()
}
