// 指示: miu200521358
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/adapter/io_model"
	"github.com/miu200521358/mu_humanoid/pkg/adapter/io_model/vrm"
	"github.com/miu200521358/mu_humanoid/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_humanoid/pkg/infra/config"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/logging"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/minteractor"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// langEnv は表示言語を指定する環境変数。
const langEnv = config.EnvPrefix + "LANG"

// main は人型骨格CLIを実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	cmd := newRootCommand(langFromArgs(args), out, errOut)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// cliApp はコマンド間で共有する実行状態を表す。
type cliApp struct {
	configPath string
	verbose    bool
	lang       string

	out        io.Writer
	errOut     io.Writer
	printer    *message.Printer
	logger     *mlogging.Logger
	repository *io_model.ModelRepository
	usecase    *minteractor.HumanoidUsecase
}

// langFromArgs はヘルプ文の言語を決めるため --lang だけを先読みする。
func langFromArgs(args []string) string {
	lang := os.Getenv(langEnv)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if value, ok := strings.CutPrefix(arg, "--lang="); ok {
			lang = value
			continue
		}
		if arg == "--lang" && i+1 < len(args) {
			lang = args[i+1]
			i++
		}
	}
	return lang
}

// newRootCommand はサブコマンドを組み立てたルートコマンドを返す。
func newRootCommand(lang string, out io.Writer, errOut io.Writer) *cobra.Command {
	app := &cliApp{lang: lang, out: out, errOut: errOut, printer: messages.NewPrinter(lang)}
	p := app.printer

	root := &cobra.Command{
		Use:               "mu_humanoid",
		Short:             p.Sprintf(messages.CmdRootShort),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", p.Sprintf(messages.FlagConfig))
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, p.Sprintf(messages.FlagVerbose))
	root.PersistentFlags().StringVar(&app.lang, "lang", lang, p.Sprintf(messages.FlagLang))

	root.AddCommand(
		app.newGenerateCommand(),
		app.newGuessCommand(),
		app.newRigCommand(),
		app.newPoseCommand(),
		app.newRolesCommand(),
	)
	return root
}

// setup は設定・ロガー・ユースケースを初期化する。
func (a *cliApp) setup(cmd *cobra.Command, args []string) error {
	a.printer = messages.NewPrinter(a.lang)
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", a.printer.Sprintf(messages.MessageConfigFailed), err)
	}

	a.logger = mlogging.NewLogger(a.errOut)
	level := cfg.LogLevel()
	if a.verbose {
		level = logging.LOG_LEVEL_DEBUG
	}
	a.logger.SetLevel(level)
	logging.SetDefaultLogger(a.logger)

	a.repository = io_model.NewModelRepository()
	a.repository.SetLoadProgressReporter(func(event vrm.LoadProgressEvent) {
		a.logger.Debug("VRM読込進捗: type=%s nodes=%d bones=%d mapped=%d",
			event.Type, event.NodeCount, event.BoneCount, event.MappedCount)
	})
	deps := cfg.UsecaseDeps()
	deps.ModelReader = a.repository
	deps.ModelWriter = a.repository
	deps.PoseWriter = a.repository
	a.usecase = minteractor.NewHumanoidUsecase(deps)
	return nil
}

func (a *cliApp) newGenerateCommand() *cobra.Command {
	var output string
	var height float64
	cmd := &cobra.Command{
		Use:   "generate",
		Short: a.printer.Sprintf(messages.CmdGenerateShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(output) == "" {
				return errors.New(a.printer.Sprintf(messages.MessageOutputRequired))
			}
			result, err := a.usecase.GenerateSkeleton(height)
			if err != nil {
				return err
			}
			if err := a.save(output, result.Model); err != nil {
				return err
			}
			a.println(messages.LogGenerateSuccess, output, result.Model.Skeleton.BoneCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", a.printer.Sprintf(messages.FlagOutput))
	cmd.Flags().Float64Var(&height, "height", 0, a.printer.Sprintf(messages.FlagHeight))
	return cmd
}

func (a *cliApp) newGuessCommand() *cobra.Command {
	var input, output string
	var reset bool
	cmd := &cobra.Command{
		Use:   "guess",
		Short: a.printer.Sprintf(messages.CmdGuessShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.load(input)
			if err != nil {
				return err
			}
			result, err := a.usecase.GuessModel(target, reset)
			if err != nil {
				return err
			}
			a.println(messages.LogGuessSummary, len(result.Found), len(result.Kept), len(result.NotFound))
			if len(result.NotFound) > 0 {
				a.println(messages.LogGuessNotFound, joinRoles(result.NotFound))
			}
			return a.save(resolveOutputPath(input, output, ".yaml"), target)
		},
	}
	a.bindIOFlags(cmd, &input, &output)
	cmd.Flags().BoolVar(&reset, "reset", false, a.printer.Sprintf(messages.FlagReset))
	return cmd
}

func (a *cliApp) newRigCommand() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "rig",
		Short: a.printer.Sprintf(messages.CmdRigShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.load(input)
			if err != nil {
				return err
			}
			result, err := a.usecase.SynthesizeRig(minteractor.RigRequest{
				Editor:           target.Skeleton,
				Mapping:          target.Mapping,
				ProgressReporter: a,
			})
			if err != nil {
				return err
			}
			a.println(messages.LogRigSummary, len(result.DerivedBones), len(result.Bindings), len(result.Skipped))
			if len(result.Skipped) > 0 {
				a.println(messages.LogSkippedRoles, joinRoles(result.Skipped))
			}
			return a.save(resolveOutputPath(input, output, ".yaml"), target)
		},
	}
	a.bindIOFlags(cmd, &input, &output)
	return cmd
}

func (a *cliApp) newPoseCommand() *cobra.Command {
	var input, output string
	var metersPerUnit float64
	cmd := &cobra.Command{
		Use:   "pose",
		Short: a.printer.Sprintf(messages.CmdPoseShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.load(input)
			if err != nil {
				return err
			}
			result, err := a.usecase.CaptureModelPose(target, metersPerUnit)
			if err != nil {
				return err
			}
			a.println(messages.LogPoseSummary, result.Record.Len(), len(result.Skipped))
			if len(result.Skipped) > 0 {
				a.println(messages.LogSkippedRoles, joinRoles(result.Skipped))
			}
			outputPath := output
			if strings.TrimSpace(outputPath) == "" {
				outputPath = replaceExt(input, ".vrma")
			}
			if err := a.usecase.ExportPose(nil, outputPath, result); err != nil {
				return fmt.Errorf("%s: %w", a.printer.Sprintf(messages.MessageSaveFailed), err)
			}
			a.println(messages.LogSaveSuccess, outputPath)
			return nil
		},
	}
	a.bindIOFlags(cmd, &input, &output)
	cmd.Flags().Float64Var(&metersPerUnit, "meters-per-unit", 0, a.printer.Sprintf(messages.FlagMetersPerUnit))
	return cmd
}

// newRolesCommand は役割一覧を表示する。入力がある場合は割り当て先も表示する。
func (a *cliApp) newRolesCommand() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "roles",
		Short: a.printer.Sprintf(messages.CmdRolesShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *humanoid.HumanoidModel
			if strings.TrimSpace(input) != "" {
				loaded, err := a.load(input)
				if err != nil {
					return err
				}
				target = loaded
			}
			for _, role := range humanoid.AllRoles() {
				line := strings.Repeat("  ", humanoid.Depth(role)) + role.String()
				if target != nil {
					boneName, ok := target.MappedBone(role)
					if !ok {
						boneName = "-"
					}
					line += ": " + boneName
				}
				fmt.Fprintln(a.out, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", a.printer.Sprintf(messages.FlagInput))
	return cmd
}

// ReportRigProgress はリグ合成進捗をデバッグログへ出力する。
func (a *cliApp) ReportRigProgress(event minteractor.RigProgressEvent) {
	a.logger.Debug("リグ合成進捗: type=%s bones=%d skipped=%d", event.Type, event.BoneCount, event.SkippedCount)
}

func (a *cliApp) bindIOFlags(cmd *cobra.Command, input *string, output *string) {
	cmd.Flags().StringVarP(input, "input", "i", "", a.printer.Sprintf(messages.FlagInput))
	cmd.Flags().StringVarP(output, "output", "o", "", a.printer.Sprintf(messages.FlagOutput))
}

// load は入力ファイルを読み込む。
func (a *cliApp) load(input string) (*humanoid.HumanoidModel, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.New(a.printer.Sprintf(messages.MessageInputRequired))
	}
	target, err := a.usecase.LoadModel(nil, input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.printer.Sprintf(messages.MessageLoadFailed), err)
	}
	return target, nil
}

// save はモデルを骨格YAMLとして保存する。
func (a *cliApp) save(output string, target *humanoid.HumanoidModel) error {
	if err := a.usecase.SaveModel(nil, output, target); err != nil {
		return fmt.Errorf("%s: %w", a.printer.Sprintf(messages.MessageSaveFailed), err)
	}
	a.println(messages.LogSaveSuccess, output)
	return nil
}

func (a *cliApp) println(key string, params ...any) {
	fmt.Fprintln(a.out, a.printer.Sprintf(key, params...))
}

// resolveOutputPath は出力パスを解決する。未指定の場合、入力がYAMLなら上書きし、それ以外は拡張子を差し替える。
func resolveOutputPath(input string, output string, ext string) string {
	if strings.TrimSpace(output) != "" {
		return output
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".yaml", ".yml":
		return input
	}
	return replaceExt(input, ext)
}

func replaceExt(path string, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func joinRoles(roles []humanoid.CanonicalRole) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}
	return strings.Join(names, ", ")
}
