package allowlist

import (
	"github.com/spf13/cobra"
)

var AllowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Manages the egress DNS allowlist",
	Long:  `Manages the egress DNS allowlist. Only allowlisted domains resolve from the private subnet; everything else returns NXDOMAIN. Egress to a known IP address is not filtered.`,
}

func init() {
	AllowlistCmd.AddCommand(getAllowlistCmd)
	AllowlistCmd.AddCommand(applyAllowlistCmd)
	AllowlistCmd.AddCommand(checkAllowlistCmd)
}
