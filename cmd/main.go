// 指示: miu200521358
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_text"
	"github.com/miu200521358/mu_asfamc/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_asfamc/pkg/shared/logging"
	"github.com/miu200521358/mu_asfamc/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_asfamc/pkg/usecase/port/moutput"
	"github.com/urfave/cli/v3"
)

const appName = "mu_asfamc"

// options はCLI引数を保持する。
type options struct {
	asfPath    string
	amcPath    string
	clipName   string
	outputPath string
	frameRate  float64
	overwrite  bool
}

// main はASF/AMCの読み込みと集計を実行する。
func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。args[0] はプログラム名。
func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) error {
	return newCommand(out, errOut).Run(ctx, args)
}

// newCommand はCLIコマンド定義を生成する。
func newCommand(out io.Writer, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      appName,
		Usage:     messages.HelpUsage,
		ArgsUsage: messages.HelpArgsUsage,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "asf", Usage: messages.LabelAsfPath},
			&cli.StringFlag{Name: "amc", Usage: messages.LabelAmcPath},
			&cli.StringFlag{Name: "name", Usage: messages.LabelClipName},
			&cli.StringFlag{Name: "out", Usage: messages.LabelOutputPath},
			&cli.FloatFlag{Name: "frame-rate", Value: 120, Usage: messages.LabelFrameRate},
			&cli.BoolFlag{Name: "overwrite", Value: true, Usage: messages.LabelOverwrite},
			&cli.BoolFlag{Name: "debug", Usage: messages.LabelDebug},
			&cli.BoolFlag{Name: "log-json", Usage: messages.LabelLogJson},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureLogging(cmd, errOut)
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseOptions(cmd)
			if err != nil {
				return err
			}
			return execute(opts, out)
		},
	}
}

// configureLogging はCLIフラグに応じて既定ロガーを設定する。
func configureLogging(cmd *cli.Command, errOut io.Writer) {
	opts := logging.DefaultOptions()
	opts.Output = errOut
	opts.Level = logging.LevelWarn
	if cmd.Bool("debug") {
		opts.Level = logging.LevelDebug
	}
	opts.JSON = cmd.Bool("log-json")
	logging.SetDefaultLogger(logging.New(opts))
}

// parseOptions はCLI引数を解析する。位置引数は ASF, AMC の順に解釈する。
func parseOptions(cmd *cli.Command) (options, error) {
	opts := options{
		asfPath:    strings.TrimSpace(cmd.String("asf")),
		amcPath:    strings.TrimSpace(cmd.String("amc")),
		clipName:   strings.TrimSpace(cmd.String("name")),
		outputPath: strings.TrimSpace(cmd.String("out")),
		frameRate:  cmd.Float("frame-rate"),
		overwrite:  cmd.Bool("overwrite"),
	}
	if opts.asfPath == "" && cmd.Args().Len() > 0 {
		opts.asfPath = cmd.Args().Get(0)
	}
	if opts.amcPath == "" && cmd.Args().Len() > 1 {
		opts.amcPath = cmd.Args().Get(1)
	}
	return validateOptions(opts)
}

// validateOptions は入力パスの拡張子とフレームレートを検証する。
func validateOptions(opts options) (options, error) {
	if opts.asfPath == "" {
		return options{}, errors.New(messages.MessageAsfRequired)
	}
	if !io_text.NewTextRepositoryWithExts(".asf").CanLoad(opts.asfPath) {
		return options{}, fmt.Errorf(messages.MessageAsfExtInvalid, opts.asfPath)
	}
	if opts.amcPath != "" && !io_text.NewTextRepositoryWithExts(".amc").CanLoad(opts.amcPath) {
		return options{}, fmt.Errorf(messages.MessageAmcExtInvalid, opts.amcPath)
	}
	if opts.frameRate <= 0 {
		return options{}, fmt.Errorf(messages.MessageFrameRateInvalid, opts.frameRate)
	}
	return opts, nil
}

// execute は読み込みと集計を行い、YAMLを出力する。
func execute(opts options, out io.Writer) error {
	repository := io_text.NewTextRepository()
	uc := minteractor.NewAsfAmcUsecase(minteractor.AsfAmcUsecaseDeps{
		TextReader: repository,
		TextWriter: repository,
	})
	request := minteractor.ConvertRequest{
		SkeletonPath: opts.asfPath,
		MotionPath:   opts.amcPath,
		ClipName:     opts.clipName,
		OutputPath:   opts.outputPath,
		SaveOptions:  moutput.SaveOptions{Overwrite: opts.overwrite},
		PoseOptions:  minteractor.PoseOptions{SecondsPerFrame: 1 / opts.frameRate},
	}

	if opts.outputPath == "" {
		result, err := uc.Prepare(request)
		if err != nil {
			return fmt.Errorf(messages.MessageLoadFailed, appName, err)
		}
		text, err := minteractor.FormatSummaryYaml(result.Summary)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, text)
		return err
	}

	result, err := uc.Convert(request)
	if err != nil {
		return fmt.Errorf(messages.MessageConvertFailed, appName, err)
	}
	fmt.Fprintf(out, messages.LogConvertSuccess, appName, result.OutputPath)
	return nil
}
