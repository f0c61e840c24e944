package subcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/arbiter/service/allocator"
)

func init() {
	RootCmd.AddCommand(NewReleaseCommand())
	for _, action := range allocator.Actions {
		RootCmd.AddCommand(NewActionCommand(action))
	}
}

func NewReleaseCommand() *cobra.Command {
	releaseCmd := &ReleaseCommand{}
	cmd := &cobra.Command{
		Use:   "release <owner>",
		Short: "Free every resource queued or locked by owner",
		Args:  cobra.ExactArgs(1),
		RunE:  releaseCmd.release,
	}
	releaseCmd.bind(cmd)
	return cmd
}

type ReleaseCommand struct {
	ServiceFlags
}

func (r *ReleaseCommand) release(cmd *cobra.Command, args []string) error {
	srv, unlock, err := r.service(cmd.Context())
	if err != nil {
		return err
	}
	defer unlock()
	outcome, err := srv.Allocator().Release(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), outcome)
	return nil
}

// NewActionCommand returns a command running a manual action on named resources
func NewActionCommand(action allocator.Action) *cobra.Command {
	actionCmd := &ActionCommand{Action: action}
	cmd := &cobra.Command{
		Use:   string(action) + " <resource...>",
		Short: fmt.Sprintf("Run %v on each named resource", action),
		Args:  cobra.MinimumNArgs(1),
		RunE:  actionCmd.run,
	}
	actionCmd.bind(cmd)
	if action == allocator.ActionReserve {
		cmd.Flags().StringVarP(&actionCmd.Actor, "actor", "a", "", "user reserving the resource")
		_ = cmd.MarkFlagRequired("actor")
	}
	return cmd
}

type ActionCommand struct {
	ServiceFlags
	Action allocator.Action
	Actor  string
}

func (a *ActionCommand) run(cmd *cobra.Command, args []string) error {
	srv, unlock, err := a.service(cmd.Context())
	if err != nil {
		return err
	}
	defer unlock()
	for _, name := range args {
		outcome, err := srv.Allocator().Execute(cmd.Context(), &allocator.Command{Action: a.Action, Resource: name, Actor: a.Actor})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%v %v\n", name, outcome)
	}
	return nil
}
