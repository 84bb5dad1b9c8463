package cmd

import (
	"github.com/kukaryambik/prunepath/pkg/config"
	"github.com/kukaryambik/prunepath/pkg/pipeline"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Aliases: []string{"prune"},
		Short:   "Prune every packaged archive of the service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return opts.run(cmd)
		},
	}
}

func (opts *CommandOptions) run(cmd *cobra.Command) error {
	svc, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}

	p := pipeline.New()
	p.KeepWorkdir = opts.KeepWorkdir
	return p.Run(cmd.Context(), svc)
}
