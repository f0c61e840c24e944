package subcmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/dao/criteria"
	"github.com/viant/arbiter/service/label"
)

func init() {
	RootCmd.AddCommand(NewStatusCommand())
}

func NewStatusCommand() *cobra.Command {
	statusCmd := &StatusCommand{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show every resource with its state and holder",
		Args:  cobra.NoArgs,
		RunE:  statusCmd.status,
	}
	statusCmd.bind(cmd)
	cmd.Flags().StringVarP(&statusCmd.Label, "label", "l", "", "only resources matching label expression")
	cmd.Flags().StringSliceVar(&statusCmd.States, "status", nil, "only resources in any of states: free, queued, reserved, locked")
	cmd.Flags().StringSliceVarP(&statusCmd.Owners, "owner", "o", nil, "only resources held by any of owners")
	return cmd
}

type StatusCommand struct {
	ServiceFlags
	Label  string
	States []string
	Owners []string
}

func (s *StatusCommand) status(cmd *cobra.Command, args []string) error {
	parameters, err := s.parameters()
	if err != nil {
		return err
	}
	srv, unlock, err := s.service(cmd.Context())
	if err != nil {
		return err
	}
	defer unlock()
	resources := srv.Find(parameters...)
	if s.Label != "" && !label.IsSimple(s.Label) {
		matched, err := srv.Pool().Matching(s.Label)
		if err != nil {
			return err
		}
		names := map[string]bool{}
		for _, r := range matched {
			names[r.Name] = true
		}
		filtered := resources[:0]
		for _, r := range resources {
			if names[r.Name] {
				filtered = append(filtered, r)
			}
		}
		resources = filtered
	}
	statuses := make([]*resource.Status, 0, len(resources))
	for _, r := range resources {
		statuses = append(statuses, r.Status())
	}
	renderStatus(cmd, statuses)
	return nil
}

// parameters maps flags to resource filters; a single label is matched verbatim
func (s *StatusCommand) parameters() ([]*dao.Parameter, error) {
	var result []*dao.Parameter
	if len(s.States) > 0 {
		for _, state := range s.States {
			switch resource.State(state) {
			case resource.StateFree, resource.StateQueued, resource.StateReserved, resource.StateLocked:
			default:
				return nil, fmt.Errorf("unsupported state %q", state)
			}
		}
		result = append(result, dao.NewParameter(criteria.ByState, s.States...))
	}
	if len(s.Owners) > 0 {
		result = append(result, dao.NewParameter(criteria.ByOwner, s.Owners...))
	}
	if label.IsSimple(s.Label) {
		result = append(result, dao.NewParameter(criteria.ByLabel, strings.TrimSpace(s.Label)))
	}
	return result, nil
}

func renderStatus(cmd *cobra.Command, statuses []*resource.Status) {
	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.AppendHeader(table.Row{"Resource", "State", "Owner", "Reserved By", "Labels"})
	for _, status := range statuses {
		writer.AppendRow(table.Row{status.Name, status.State, status.Owner, status.ReservedBy, strings.Join(status.Labels, " ")})
	}
	writer.Render()
}
