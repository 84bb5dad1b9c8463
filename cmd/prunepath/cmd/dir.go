package cmd

import (
	"github.com/kukaryambik/prunepath/pkg/config"
	"github.com/kukaryambik/prunepath/pkg/pipeline"
	"github.com/kukaryambik/prunepath/pkg/rules"
	"github.com/spf13/cobra"
)

func dirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir [flags] ROOT",
		Short: "Prune an unpacked directory in place",
		Long: "Prune an unpacked directory in place. Rules come from --keep and --delete " +
			"when given, otherwise from the service file; every target list applies.",
		Args: cobra.ExactArgs(1), // Ensure exactly 1 argument is provided
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return opts.dir(args[0])
		},
	}

	cmd.Flags().StringSliceVarP(
		&opts.Keep, "keep", "k", nil, "Path to keep, relative to ROOT; repeatable")
	cmd.Flags().StringSliceVarP(
		&opts.Delete, "delete", "D", nil, "Path to delete, relative to ROOT; repeatable")

	return cmd
}

func (opts *CommandOptions) dir(root string) error {
	rs, functions, err := opts.dirRules()
	if err != nil {
		return err
	}
	return pipeline.New().Dir(root, rs, functions)
}

// dirRules builds an "all" rule set from the flags, or falls back to the
// service file.
func (opts *CommandOptions) dirRules() (*rules.RuleSet, []string, error) {
	if len(opts.Keep) == 0 && len(opts.Delete) == 0 {
		svc, err := config.Load(opts.ConfigFile)
		if err != nil {
			return nil, nil, err
		}
		return svc.PrunePath, svc.Functions, nil
	}

	rs := &rules.RuleSet{}
	if len(opts.Keep) > 0 {
		rs.Keys = append(rs.Keys, rules.KeyKeep)
		rs.Keep = rules.NewTargets().Set(rules.TargetAll, opts.Keep...)
	}
	if len(opts.Delete) > 0 {
		rs.Keys = append(rs.Keys, rules.KeyDelete)
		rs.Delete = rules.NewTargets().Set(rules.TargetAll, opts.Delete...)
	}
	return rs, []string{rules.TargetAll}, nil
}
