package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSyncCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "sync [chapters-dir]",
		Short: "Convert contentZh of every chapter file once",
		Long: `Sync processes every chapter file in the chapters directory in name order.
Files without contentZh, or whose contentZh is not a list, are skipped and
left untouched. A read, parse or write error stops the run unless
--keep-going is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, v, *cfgFile, args, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			_, err = a.scheduler.RunBatch(cmd.Context(), a.cfg.ChaptersDir)
			return err
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "convert and report without writing files")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "log read/parse/write errors and continue with the next file")
	return cmd
}
