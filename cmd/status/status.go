package status

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/api"
	"github.com/openclaw/clawctl/internal/config"
	"github.com/openclaw/clawctl/internal/display"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the live status of every managed resource",
	Long:  `Shows the live status of every managed resource`,
	Args: func(cmd *cobra.Command, args []string) error {
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := api.Status(cmd.Context())
		if err != nil {
			return err
		}
		data := make([][]string, 0, len(rows))
		for _, r := range rows {
			data = append(data, []string{r.Resource, r.Name, r.ID, display.Colorize(r.Status)})
		}
		table, err := display.RenderTable([]string{"Resource", "Name", "ID", "Status"}, data)
		if err != nil {
			return err
		}
		fmt.Print(table)
		return nil
	},
}
