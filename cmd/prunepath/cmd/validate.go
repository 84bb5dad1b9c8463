package cmd

import (
	"fmt"

	"github.com/kukaryambik/prunepath/pkg/config"
	"github.com/kukaryambik/prunepath/pkg/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		Aliases: []string{"check"},
		Short:   "Check the rules and list the units that would be pruned",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return opts.validate(cmd)
		},
	}
}

func (opts *CommandOptions) validate(cmd *cobra.Command) error {
	svc, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}

	jobs, err := pipeline.New().Plan(svc)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\tkeep=%d\tdelete=%d\n",
			job.Unit.Archive, len(job.Rules.Keep), len(job.Rules.Delete))
	}
	logrus.Infof("Configuration is valid")
	return nil
}
