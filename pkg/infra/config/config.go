// 指示: miu200521358
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/logging"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/minteractor"
	"gopkg.in/yaml.v3"
)

// EnvPrefix は環境変数による上書きの接頭辞。
const EnvPrefix = "MU_HUMANOID_"

// LoggingConfig はログ出力の設定を表す。
type LoggingConfig struct {
	// Level は debug / info / warn / error のいずれか。
	Level string `yaml:"level" env:"LEVEL"`
}

// Config はツール全体の設定を表す。
type Config struct {
	Generator minteractor.GeneratorSettings `yaml:"generator" envPrefix:"GENERATOR_"`
	Rig       minteractor.RigSettings       `yaml:"rig" envPrefix:"RIG_"`
	Pose      minteractor.PoseSettings      `yaml:"pose" envPrefix:"POSE_"`
	Logging   LoggingConfig                 `yaml:"logging" envPrefix:"LOG_"`
}

// DefaultConfig は既定値の設定を返す。
func DefaultConfig() *Config {
	return &Config{
		Generator: minteractor.DefaultGeneratorSettings(),
		Rig:       minteractor.DefaultRigSettings(),
		Pose:      minteractor.DefaultPoseSettings(),
		Logging:   LoggingConfig{Level: logging.LOG_LEVEL_INFO.String()},
	}
}

// Load は既定値へ YAML ファイルと環境変数を順に重ねた設定を返す。
// path が空の場合はファイルを読まない。
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv は環境変数で設定を上書きする。未設定の変数は値を変えない。
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("環境変数の解析に失敗しました: %w", err)
	}
	return nil
}

// Validate は各設定を検証する。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("設定が未指定です")
	}
	if err := c.Generator.Validate(); err != nil {
		return err
	}
	if err := c.Rig.Validate(); err != nil {
		return err
	}
	if !(c.Pose.MetersPerUnit > 0) {
		return fmt.Errorf("単位換算係数は正の値で指定してください: %v", c.Pose.MetersPerUnit)
	}
	if _, ok := logging.ParseLogLevel(c.Logging.Level); !ok {
		return fmt.Errorf("ログレベルが不正です: %s", c.Logging.Level)
	}
	return nil
}

// LogLevel は設定されたログレベルを返す。
func (c *Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLogLevel(c.Logging.Level)
	return level
}

// UsecaseDeps は設定値をユースケースの依存へ写す。
func (c *Config) UsecaseDeps() minteractor.HumanoidUsecaseDeps {
	return minteractor.HumanoidUsecaseDeps{
		Generator: c.Generator,
		Rig:       c.Rig,
		Pose:      c.Pose,
	}
}

// Save は設定を YAML で書き出す。
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("設定ディレクトリの作成に失敗しました: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("設定の変換に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("設定ファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}
