package cli

import (
	"fmt"

	"github.com/dmitrijs2005/yardcms/internal/server/content"
	"github.com/spf13/cobra"
)

func NewSeedCmd(deps *Deps) *cobra.Command {
	var (
		file  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "write default content to the live keys",
		Long: `seed loads a YAML or JSON content file and writes it as the live content
when the store holds none. With --force it replaces existing content and the
replaced version is kept in the history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := content.LoadDefaults(file)
			if err != nil {
				return err
			}
			return deps.withSession(cmd.Context(), func(s *session) error {
				wrote, err := s.content.Service.Seed(cmd.Context(), *doc, force)
				if err != nil {
					return err
				}
				if !wrote {
					fmt.Fprintln(deps.Out, "content already present, nothing written (use --force to replace)")
					return nil
				}
				fmt.Fprintf(deps.Out, "seeded content from %s\n", file)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "content file (YAML or JSON)")
	cmd.Flags().BoolVar(&force, "force", false, "replace existing content")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
