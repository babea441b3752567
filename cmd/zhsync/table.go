package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/yleoer/zhsync/pkg/converter"
)

// tableDocument 与配置文件中的 substitutions 键格式一致，可直接粘贴回配置
type tableDocument struct {
	Substitutions []converter.Substitution `yaml:"substitutions"`
}

func newTableCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the effective substitution table as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, *cfgFile, nil)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(tableDocument{Substitutions: cfg.Substitutions.Entries()}); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
