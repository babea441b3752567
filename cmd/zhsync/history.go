package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHistoryCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	var (
		limit int
		runID int64
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sync runs, or the file results of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, *cfgFile, nil)
			if err != nil {
				return err
			}
			// 只读命令，数据库不存在时不创建
			if _, err := os.Stat(cfg.DBPath); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(cmd.OutOrStdout(), "No sync history at %s\n", cfg.DBPath)
				return nil
			}
			store, err := openHistory(cfg, newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer store.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if runID > 0 {
				results, err := store.RunResults(runID)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "PATH\tSTATUS\tPARAGRAPHS\tERROR")
				for _, r := range results {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Path, r.Status, r.Paragraphs, r.Error)
				}
				return nil
			}

			runs, err := store.RecentRuns(limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "ID\tSTARTED\tDIR\tSUCCEEDED\tTABLE")
			for _, r := range runs {
				result := fmt.Sprintf("%d/%d", r.Succeeded, r.Total)
				if r.FinishedAt.IsZero() {
					result = "unfinished"
				}
				fp := r.TableFingerprint
				if len(fp) > 8 {
					fp = fp[:8]
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, humanize.Time(r.StartedAt), r.Dir, result, fp)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to list")
	cmd.Flags().Int64Var(&runID, "run", 0, "show the file results of this run")
	return cmd
}
