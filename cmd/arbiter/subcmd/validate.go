package subcmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewValidateCommand())
}

func NewValidateCommand() *cobra.Command {
	validateCmd := &ValidateCommand{}
	cmd := &cobra.Command{
		Use:   "validate [job...]",
		Short: "Check job requirements against the pool, every job when none is named",
		RunE:  validateCmd.validate,
	}
	validateCmd.bind(cmd)
	return cmd
}

type ValidateCommand struct {
	ServiceFlags
}

func (v *ValidateCommand) validate(cmd *cobra.Command, args []string) error {
	srv, unlock, err := v.service(cmd.Context())
	if err != nil {
		return err
	}
	defer unlock()
	jobs := args
	if len(jobs) == 0 {
		jobs = srv.Jobs().Names()
	}
	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.AppendHeader(table.Row{"Job", "Result", "Message"})
	failed := 0
	for _, name := range jobs {
		result, err := srv.Validate(name)
		if err != nil {
			return err
		}
		if result.IsError() {
			failed++
		}
		writer.AppendRow(table.Row{name, result.Kind, result.Message})
	}
	writer.Render()
	if failed > 0 {
		return fmt.Errorf("%d of %d job(s) failed validation", failed, len(jobs))
	}
	logrus.Debugf("validated %d job(s)", len(jobs))
	return nil
}
