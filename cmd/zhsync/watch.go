package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yleoer/zhsync/pkg/config"
)

func newWatchCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	opts := runOptions{keepGoing: true, skipUnchanged: true}
	cmd := &cobra.Command{
		Use:   "watch [chapters-dir]",
		Short: "Sync once, then re-sync chapter files whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, v, *cfgFile, args, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			// 初始同步
			if _, err := a.scheduler.RunBatch(cmd.Context(), a.cfg.ChaptersDir); err != nil {
				return err
			}
			a.logger.Println("Application is running. Press Ctrl+C to exit.")
			return a.scheduler.Watch(cmd.Context(), a.cfg.ChaptersDir)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().Duration("debounce", 0, "delay before syncing a changed file (default 500ms)")
	_ = v.BindPFlag(config.KeyWatchDebounce, cmd.Flags().Lookup("debounce"))
	return cmd
}
