package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/server/users"
	"github.com/spf13/cobra"
)

func NewUserCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "manage operators",
	}
	cmd.AddCommand(newUserCreateCmd(deps))
	return cmd
}

func newUserCreateCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "create USERNAME",
		Short: "create an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := deps.prompter().NewPassword()
			if err != nil {
				return err
			}

			return deps.withSession(cmd.Context(), func(s *session) error {
				us := users.NewService(users.NewKVRepository(s.store), s.cfg.SecretKey, s.cfg.SessionValidityDuration)
				user, err := us.Register(cmd.Context(), args[0], password)
				if errors.Is(err, common.ErrAlreadyExists) {
					return fmt.Errorf("user %q exists", args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(deps.Out, "created user %s\n", user.Username)
				return nil
			})
		},
	}
}
