package cli

import (
	"fmt"

	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/spf13/cobra"
)

func NewHistoryCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "inspect and maintain the content history",
	}
	cmd.AddCommand(newHistoryListCmd(deps), newHistoryPruneCmd(deps))
	return cmd
}

func newHistoryListCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list snapshot timestamps, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.withSession(cmd.Context(), func(s *session) error {
				stamps, err := s.content.Service.History(cmd.Context())
				if err != nil {
					return err
				}
				for _, ts := range stamps {
					fmt.Fprintln(deps.Out, ts)
				}
				return nil
			})
		},
	}
}

func newHistoryPruneCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "delete snapshots no longer referenced by the history index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.withSession(cmd.Context(), func(s *session) error {
				removed, err := s.content.Service.PruneHistory(cmd.Context())
				if err != nil {
					return err
				}
				for _, k := range removed {
					fmt.Fprintln(deps.Out, "removed", k)
				}
				fmt.Fprintf(deps.Out, "%d orphaned snapshot(s) removed\n", len(removed))

				if p, ok := s.store.(kv.ExpiredPurger); ok {
					n, err := p.DeleteExpired(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(deps.Out, "%d expired entr(ies) purged\n", n)
				}
				return nil
			})
		},
	}
}
