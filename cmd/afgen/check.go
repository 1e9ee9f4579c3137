package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sghaida/assistfactory/emit"
	"github.com/sghaida/assistfactory/metrics"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate and print what generate would write, without touching disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			mem := &emit.Memory{}
			res, err := runSession(cmd.Context(), cfg, logger, mem, metrics.New())
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			for _, a := range mem.Artifacts() {
				if quiet {
					fmt.Fprintln(stdout, a.Path(".kt"))
					continue
				}
				src, err := emit.Kotlin(a)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "// ---- %s ----\n%s\n", a.Path(".kt"), src)
			}
			return res.report(stdout, cmd.ErrOrStderr(), "")
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "list output paths only")
	return cmd
}
