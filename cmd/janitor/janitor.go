package janitor

import (
	"github.com/spf13/cobra"
)

var JanitorCmd = &cobra.Command{
	Use:   "janitor",
	Short: "Operates the cloud janitor tasks",
	Long:  `Operates the cloud janitor tasks`,
}

func init() {
	JanitorCmd.AddCommand(runJanitorCmd)
}
