package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/yardcms/internal/client/apiclient"
	"github.com/spf13/cobra"
)

type remoteFlags struct {
	endpoint string
	username string
}

func NewRemoteCmd(deps *Deps) *cobra.Command {
	flags := &remoteFlags{}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "work with a running server over HTTP",
	}
	cmd.PersistentFlags().StringVarP(&flags.endpoint, "endpoint", "e", "http://127.0.0.1:8080", "server base URL")
	cmd.PersistentFlags().StringVarP(&flags.username, "username", "u", "", "operator username (prompted when empty)")

	cmd.AddCommand(
		newRemoteHistoryCmd(deps, flags),
		newRemoteShowCmd(deps, flags),
		newRemoteRevertCmd(deps, flags),
	)
	return cmd
}

// login connects to the server and authenticates, prompting for missing
// credentials.
func (f *remoteFlags) login(ctx context.Context, deps *Deps) (*apiclient.Client, error) {
	c, err := apiclient.New(f.endpoint)
	if err != nil {
		return nil, err
	}

	p := deps.prompter()
	username := f.username
	if username == "" {
		if username, err = p.Line("Username: "); err != nil {
			return nil, err
		}
	}
	password, err := p.Password("Password: ")
	if err != nil {
		return nil, err
	}

	if err := c.Login(ctx, username, password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}

func newRemoteHistoryCmd(deps *Deps, flags *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "list snapshot timestamps, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.login(cmd.Context(), deps)
			if err != nil {
				return err
			}
			stamps, err := c.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(stamps) == 0 {
				fmt.Fprintln(deps.Out, "no history")
			}
			for i, ts := range stamps {
				fmt.Fprintf(deps.Out, "%2d  %s\n", i+1, ts)
			}
			return nil
		},
	}
}

func newRemoteShowCmd(deps *Deps, flags *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show TIMESTAMP",
		Short: "print a snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.login(cmd.Context(), deps)
			if err != nil {
				return err
			}
			snap, err := c.Snapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(deps.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
}

func newRemoteRevertCmd(deps *Deps, flags *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "revert TIMESTAMP",
		Short: "restore the live content to a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.login(cmd.Context(), deps)
			if err != nil {
				return err
			}
			msg, err := c.Revert(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Out, msg)
			return nil
		},
	}
}
