package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yleoer/zhsync/pkg/config"
)

// newRootCmd 构建命令树；每次调用使用独立的 viper 实例
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "zhsync",
		Short: "Fill traditional-Chinese chapter content from simplified Chinese",
		Long: `zhsync reads chapter JSON files, converts the simplified-Chinese
paragraphs in contentZh with OpenCC, applies the substitution table and
writes the result to contentZhTraditional in the same file.

Running without a subcommand is the same as "zhsync sync".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./zhsync.yaml or ~/.config/zhsync/zhsync.yaml)")
	flags.String("pattern", "", "chapter file name pattern (default \"chapter-*.json\")")
	flags.String("conversion", "", "OpenCC conversion config (default \"s2t\")")
	flags.String("data-dir", "", "directory of the history database (default \".zhsync\")")
	_ = v.BindPFlag(config.KeyPattern, flags.Lookup("pattern"))
	_ = v.BindPFlag(config.KeyConversion, flags.Lookup("conversion"))
	_ = v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))

	syncCmd := newSyncCmd(v, &cfgFile)
	rootCmd.RunE = syncCmd.RunE
	rootCmd.Flags().AddFlagSet(syncCmd.Flags())

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(newWatchCmd(v, &cfgFile))
	rootCmd.AddCommand(newHistoryCmd(v, &cfgFile))
	rootCmd.AddCommand(newTableCmd(v, &cfgFile))
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
