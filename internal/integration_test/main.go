// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_humanoid/pkg/adapter/io_model"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
)

// batchConfig は一括リグ合成の実行設定を表す。
type batchConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
	Reset      bool
	InputPaths []string
}

// batchEntry は1モデル分の入力情報を表す。
type batchEntry struct {
	Index        int
	SourcePath   string
	ModelName    string
	CaseDir      string
	ArmaturePath string
	PosePath     string
}

// batchResult は1モデル分の処理結果を表す。
type batchResult struct {
	Entry       batchEntry
	Status      string
	Duration    time.Duration
	Err         error
	GuessInfo   string
	RigInfo     string
	SkippedPose int
}

// rigProgressCollector はリグ合成の進捗イベントを収集する。
type rigProgressCollector struct {
	eventCounts  map[minteractor.RigProgressEventType]int
	boneMax      int
	skippedTotal int
}

// main は入力モデルを一括で推定・リグ合成・ポーズ書き出しする。
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run は実行設定を解決して一括処理を実行し、終了コードを返す。
func run(args []string, out io.Writer, errOut io.Writer) int {
	config, err := parseBatchConfig(args)
	if err != nil {
		fmt.Fprintf(errOut, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildBatchEntries(config.OutputRoot, config.InputPaths)
	if len(entries) == 0 {
		fmt.Fprintln(errOut, "処理対象モデルがありません")
		return 2
	}

	results := executeBatch(out, config, entries)
	printBatchSummary(out, results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig(args []string) (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	flags := flag.NewFlagSet("integration_test", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	outputRoot := flags.String("output-root", defaultOutputRoot, "出力ルートディレクトリ")
	dryRun := flags.Bool("dry-run", false, "実処理せず、入力解決と出力先計画のみ表示する")
	failFast := flags.Bool("fail-fast", false, "失敗時に即時終了する")
	reset := flags.Bool("reset", false, "既存の割り当てを破棄して推定し直す")
	if err := flags.Parse(args); err != nil {
		return batchConfig{}, err
	}

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		DryRun:     *dryRun,
		FailFast:   *failFast,
		Reset:      *reset,
		InputPaths: flags.Args(),
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "output"), nil
}

// buildBatchEntries は入力パス一覧から処理対象エントリを生成する。
func buildBatchEntries(outputRoot string, inputPaths []string) []batchEntry {
	entries := make([]batchEntry, 0, len(inputPaths))
	for _, rawPath := range inputPaths {
		resolvedInputPath := normalizeInputPath(rawPath)
		if resolvedInputPath == "" {
			continue
		}
		index := len(entries) + 1
		modelName := resolveModelName(rawPath)
		safeModelName := sanitizePathComponent(modelName)
		caseDir := filepath.Join(outputRoot, fmt.Sprintf("%03d_%s", index, safeModelName))
		entries = append(entries, batchEntry{
			Index:        index,
			SourcePath:   resolvedInputPath,
			ModelName:    modelName,
			CaseDir:      caseDir,
			ArmaturePath: filepath.Join(caseDir, safeModelName+".yaml"),
			PosePath:     filepath.Join(caseDir, safeModelName+".vrma"),
		})
	}
	return entries
}

// executeBatch は全モデルを順次処理する。
func executeBatch(out io.Writer, config batchConfig, entries []batchEntry) []batchResult {
	results := make([]batchResult, 0, len(entries))
	repository := io_model.NewModelRepository()
	usecase := minteractor.NewHumanoidUsecase(minteractor.HumanoidUsecaseDeps{
		ModelReader: repository,
		ModelWriter: repository,
		PoseWriter:  repository,
	})

	total := len(entries)
	for _, entry := range entries {
		fmt.Fprintf(out, "[%d/%d] 処理開始: model=%s\n", entry.Index, total, entry.ModelName)
		result := processEntry(usecase, config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Fprintf(out, "[%d/%d] 処理成功: model=%s output=%s elapsed=%s\n",
				entry.Index, total, entry.ModelName, entry.ArmaturePath, result.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "[%d/%d] 推定: %s\n", entry.Index, total, result.GuessInfo)
			if strings.TrimSpace(result.RigInfo) != "" {
				fmt.Fprintf(out, "[%d/%d] リグ合成進捗: %s\n", entry.Index, total, result.RigInfo)
			}
		case "dry_run":
			fmt.Fprintf(out, "[%d/%d] DRY-RUN: model=%s input=%s output=%s\n",
				entry.Index, total, entry.ModelName, entry.SourcePath, entry.ArmaturePath)
		case "skipped_missing":
			fmt.Fprintf(out, "[%d/%d] 入力不足でスキップ: model=%s input=%s reason=%v\n",
				entry.Index, total, entry.ModelName, entry.SourcePath, result.Err)
		default:
			fmt.Fprintf(out, "[%d/%d] 処理失敗: model=%s reason=%v\n", entry.Index, total, entry.ModelName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// processEntry は1モデル分の推定・リグ合成・保存・ポーズ書き出しを実行する。
func processEntry(usecase *minteractor.HumanoidUsecase, config batchConfig, entry batchEntry) batchResult {
	result := batchResult{
		Entry:  entry,
		Status: "failed",
	}
	if _, err := os.Stat(entry.SourcePath); err != nil {
		result.Status = "skipped_missing"
		result.Err = err
		return result
	}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	loaded, err := usecase.LoadModel(nil, entry.SourcePath)
	if err != nil {
		result.Err = fmt.Errorf("LoadModelに失敗しました: %w", err)
		return result
	}
	guessed, err := usecase.GuessModel(loaded, config.Reset)
	if err != nil {
		result.Err = fmt.Errorf("GuessModelに失敗しました: %w", err)
		return result
	}
	result.GuessInfo = fmt.Sprintf("found=%d kept=%d notFound=%d",
		len(guessed.Found), len(guessed.Kept), len(guessed.NotFound))

	progressCollector := newRigProgressCollector()
	if _, err := usecase.SynthesizeRig(minteractor.RigRequest{
		Editor:           loaded.Skeleton,
		Mapping:          loaded.Mapping,
		ProgressReporter: progressCollector,
	}); err != nil {
		result.Err = fmt.Errorf("SynthesizeRigに失敗しました: %w", err)
		return result
	}
	if err := usecase.SaveModel(nil, entry.ArmaturePath, loaded); err != nil {
		result.Err = fmt.Errorf("SaveModelに失敗しました: %w", err)
		return result
	}
	pose, err := usecase.CaptureModelPose(loaded, 0)
	if err != nil {
		result.Err = fmt.Errorf("CaptureModelPoseに失敗しました: %w", err)
		return result
	}
	if err := usecase.ExportPose(nil, entry.PosePath, pose); err != nil {
		result.Err = fmt.Errorf("ExportPoseに失敗しました: %w", err)
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.RigInfo = progressCollector.Summary()
	result.SkippedPose = len(pose.Skipped)
	return result
}

// printBatchSummary は処理結果の集計を出力する。
func printBatchSummary(out io.Writer, results []batchResult) {
	succeeded := 0
	failed := 0
	skipped := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		case "skipped_missing":
			skipped++
		default:
			failed++
		}
	}
	fmt.Fprintf(out,
		"一括処理サマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		skipped,
		dryRun,
	)
}

// resolveModelName は入力パスから拡張子を除いたモデル名を返す。
func resolveModelName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	ext := filepath.Ext(base)
	name := strings.TrimSpace(strings.TrimSuffix(base, ext))
	if name == "" || name == "." {
		return "model"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(trimmed, runtime.GOOS))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string, goos string) string {
	trimmed := strings.TrimSpace(path)
	if goos != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return "/mnt/" + drive
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return "/mnt/" + drive + rest
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "model"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "model"
	}
	return replaced
}

// newRigProgressCollector はリグ合成進捗収集器を生成する。
func newRigProgressCollector() *rigProgressCollector {
	return &rigProgressCollector{
		eventCounts: map[minteractor.RigProgressEventType]int{},
	}
}

// ReportRigProgress はリグ合成の進捗イベントを収集する。
func (collector *rigProgressCollector) ReportRigProgress(event minteractor.RigProgressEvent) {
	if collector == nil {
		return
	}
	if collector.eventCounts == nil {
		collector.eventCounts = map[minteractor.RigProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
	if event.BoneCount > collector.boneMax {
		collector.boneMax = event.BoneCount
	}
	collector.skippedTotal += event.SkippedCount
}

// Summary は収集した進捗の要約文字列を返す。
func (collector *rigProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d boneMax=%d skipped=%d stages=%s",
		len(collector.eventCounts),
		collector.boneMax,
		collector.skippedTotal,
		strings.Join(types, ","),
	)
}
