package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yleoer/zhsync/pkg/chapter"
	"github.com/yleoer/zhsync/pkg/converter"
	"github.com/yleoer/zhsync/pkg/scanner"
)

// EnvPrefix 是环境变量前缀，例如 ZHSYNC_CHAPTERS_DIR
const EnvPrefix = "ZHSYNC"

// 配置键
const (
	KeyChaptersDir   = "chapters_dir"
	KeyPattern       = "pattern"
	KeyConversion    = "conversion"
	KeySourceField   = "source_field"
	KeyTargetField   = "target_field"
	KeyDataDir       = "data_dir"
	KeyDBFileName    = "db_file_name"
	KeyWatchDebounce = "watch_debounce"
	KeySubstitutions = "substitutions"
)

const (
	chaptersDir = "src/data/chapters"
	dataDir     = ".zhsync"
	dbFileName  = "history.db"

	watchDebounce = 500 * time.Millisecond
)

var ErrSameField = errors.New("source_field and target_field must differ")

type Config struct {
	ChaptersDir   string          // 章节 JSON 所在目录
	Pattern       string          // 章节文件名模式
	Conversion    string          // OpenCC 配置名
	SourceField   string          // 简体段落字段
	TargetField   string          // 繁体段落字段
	DataDir       string          // SQLite 历史数据库所在目录
	DBFileName    string          // SQLite 数据库文件名
	DBPath        string          // 完整的数据库文件路径
	WatchDebounce time.Duration   // 监听模式下同一文件的合并延迟
	Substitutions converter.Table // 转换后套用的替换表
}

// SetDefaults 写入默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyChaptersDir, chaptersDir)
	v.SetDefault(KeyPattern, scanner.DefaultPattern)
	v.SetDefault(KeyConversion, converter.DefaultConversion)
	v.SetDefault(KeySourceField, chapter.SourceField)
	v.SetDefault(KeyTargetField, chapter.TargetField)
	v.SetDefault(KeyDataDir, dataDir)
	v.SetDefault(KeyDBFileName, dbFileName)
	v.SetDefault(KeyWatchDebounce, watchDebounce)
}

// LoadConfig 依次从默认值、.env、环境变量、配置文件和已绑定的命令行参数加载配置。
// configFile 为空时在当前目录和 ~/.config/zhsync 中查找 zhsync.yaml，找不到不算错误。
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// 尝试加载 .env 文件
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("zhsync")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "zhsync"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		ChaptersDir:   v.GetString(KeyChaptersDir),
		Pattern:       v.GetString(KeyPattern),
		Conversion:    v.GetString(KeyConversion),
		SourceField:   v.GetString(KeySourceField),
		TargetField:   v.GetString(KeyTargetField),
		DataDir:       v.GetString(KeyDataDir),
		DBFileName:    v.GetString(KeyDBFileName),
		WatchDebounce: v.GetDuration(KeyWatchDebounce),
	}
	if cfg.ChaptersDir == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyChaptersDir)
	}
	if cfg.SourceField == cfg.TargetField {
		return nil, fmt.Errorf("%w (both are %q)", ErrSameField, cfg.SourceField)
	}
	if cfg.WatchDebounce <= 0 {
		log.Printf("Warning: invalid %s %v, using default %v", KeyWatchDebounce, cfg.WatchDebounce, watchDebounce)
		cfg.WatchDebounce = watchDebounce
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, cfg.DBFileName)

	table, err := loadSubstitutions(v)
	if err != nil {
		return nil, err
	}
	cfg.Substitutions = table

	if used := v.ConfigFileUsed(); used != "" {
		log.Printf("Using config file: %s", used)
	}
	return cfg, nil
}

// loadSubstitutions 读取配置中的替换表；未配置时使用内置表
func loadSubstitutions(v *viper.Viper) (converter.Table, error) {
	if !v.IsSet(KeySubstitutions) {
		return converter.DefaultTable(), nil
	}
	var entries []converter.Substitution
	if err := v.UnmarshalKey(KeySubstitutions, &entries); err != nil {
		return converter.Table{}, fmt.Errorf("failed to decode %s: %w", KeySubstitutions, err)
	}
	table, err := converter.NewTable(entries)
	if err != nil {
		return converter.Table{}, fmt.Errorf("invalid %s: %w", KeySubstitutions, err)
	}
	return table, nil
}
