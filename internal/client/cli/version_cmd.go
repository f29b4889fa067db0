package cli

import (
	"github.com/dmitrijs2005/yardcms/internal/buildinfo"
	"github.com/spf13/cobra"
)

func NewVersionCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(deps.Out)
		},
	}
}
