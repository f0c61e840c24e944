package subcmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/arbiter/internal/idgen"
	"github.com/viant/arbiter/model/requirement"
	"github.com/viant/arbiter/service/allocator"
)

func init() {
	RootCmd.AddCommand(NewAllocateCommand())
}

func NewAllocateCommand() *cobra.Command {
	allocateCmd := &AllocateCommand{}
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Queue resources for a job or an ad hoc requirement",
		Args:  cobra.NoArgs,
		RunE:  allocateCmd.allocate,
	}
	allocateCmd.bind(cmd)
	cmd.Flags().StringVarP(&allocateCmd.Job, "job", "j", "", "registered job to schedule")
	cmd.Flags().StringToStringVarP(&allocateCmd.Params, "param", "p", nil, "build parameter key=value")
	cmd.Flags().StringVarP(&allocateCmd.Resources, "resources", "r", "", "whitespace separated resource names")
	cmd.Flags().StringVarP(&allocateCmd.Label, "label", "l", "", "label expression")
	cmd.Flags().StringVarP(&allocateCmd.Quantity, "quantity", "q", "", "number of matching resources, all when empty")
	cmd.Flags().StringVarP(&allocateCmd.Owner, "owner", "o", "", "allocation owner, generated when empty")
	cmd.Flags().BoolVar(&allocateCmd.Start, "start", false, "lock granted resources immediately")
	return cmd
}

type AllocateCommand struct {
	ServiceFlags
	Job       string
	Params    map[string]string
	Resources string
	Label     string
	Quantity  string
	Owner     string
	Start     bool
}

func (a *AllocateCommand) allocate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv, unlock, err := a.service(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	owner := a.Owner
	if owner == "" {
		owner = idgen.NewOwner("cli")
	}
	var decision *allocator.Decision
	if a.Job != "" {
		if a.Resources != "" || a.Label != "" || a.Quantity != "" {
			return fmt.Errorf("--job cannot be combined with --resources, --label or --quantity")
		}
		decision, err = srv.Schedule(ctx, a.Job, a.Params, owner)
	} else {
		decision, err = a.adHoc(cmd, srv.Allocator(), owner)
	}
	if err != nil {
		return err
	}
	if decision.IsGranted() && a.Start {
		if _, err = srv.Allocator().Start(ctx, owner); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%v %v %v\n", decision.Status, owner, strings.Join(decision.Resources, " "))
	env := decision.Env()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%v=%v\n", k, env[k])
	}
	return nil
}

func (a *AllocateCommand) adHoc(cmd *cobra.Command, service *allocator.Service, owner string) (*allocator.Decision, error) {
	descriptor, err := requirement.FromFields(a.Resources, a.Label, a.Quantity)
	if err != nil {
		return nil, err
	}
	resolved, err := descriptor.Resolve(a.Params)
	if err != nil {
		return nil, err
	}
	return service.TryAllocate(cmd.Context(), resolved, owner)
}
