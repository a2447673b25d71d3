// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_text"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"github.com/miu200521358/mu_asfamc/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_asfamc/pkg/usecase/port/moutput"
)

const (
	batchOutputDirMode = 0o755
)

// batchConfig はバッチ変換の実行設定を表す。
type batchConfig struct {
	InputRoot  string
	OutputRoot string
	DryRun     bool
	FailFast   bool
}

// conversionEntry は1モーション分の変換入力情報を表す。
type conversionEntry struct {
	Index        int
	SkeletonPath string
	MotionPath   string
	ClipName     string
	CaseDir      string
	OutputPath   string
}

// conversionResult は1モーション分の変換結果を表す。
type conversionResult struct {
	Entry            conversionEntry
	Status           string
	Duration         time.Duration
	Err              error
	PrepareStageInfo string
}

// prepareProgressCollector は Prepare の進捗イベントを収集する。
type prepareProgressCollector struct {
	eventCounts   map[minteractor.PrepareProgressEventType]int
	nodeMax       int
	frameTotal    int
	keyframeTotal int
	warningTotal  int
}

// main はディレクトリ内のASF/AMCを一括で集計YAMLへ変換する。
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run は実行設定を解決して一括変換を実行し、終了コードを返す。
func run(args []string, out io.Writer, errOut io.Writer) int {
	config, err := parseBatchConfig(args, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries, err := buildConversionEntries(config.InputRoot, config.OutputRoot)
	if err != nil {
		fmt.Fprintf(errOut, "変換対象の探索に失敗しました: %v\n", err)
		return 2
	}
	if len(entries) == 0 {
		fmt.Fprintln(errOut, "変換対象モーションがありません")
		return 2
	}

	results := executeBatchConversion(config, entries, out)
	printBatchSummary(results, out)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig(args []string, errOut io.Writer) (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	flagSet := flag.NewFlagSet("integration_test", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	inputRoot := flagSet.String("input-root", "", "ASF/AMCを探索する入力ルートディレクトリ")
	outputRoot := flagSet.String("output-root", defaultOutputRoot, "変換結果の出力ルートディレクトリ")
	dryRun := flagSet.Bool("dry-run", false, "実変換せず、入力解決と出力先計画のみ表示する")
	failFast := flagSet.Bool("fail-fast", false, "失敗時に即時終了する")
	if err := flagSet.Parse(args); err != nil {
		return batchConfig{}, err
	}

	trimmedInputRoot := strings.TrimSpace(*inputRoot)
	if trimmedInputRoot == "" && flagSet.NArg() > 0 {
		trimmedInputRoot = strings.TrimSpace(flagSet.Arg(0))
	}
	if trimmedInputRoot == "" {
		return batchConfig{}, errors.New("input-root が空です")
	}
	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		InputRoot:  normalizeInputPath(trimmedInputRoot),
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	return filepath.Join(currentDir, "output"), nil
}

// buildConversionEntries は入力ルート配下のAMCを探索し、同じディレクトリのASFと組にする。
func buildConversionEntries(inputRoot string, outputRoot string) ([]conversionEntry, error) {
	asfRepo := io_text.NewTextRepositoryWithExts(".asf")
	amcRepo := io_text.NewTextRepositoryWithExts(".amc")

	asfByDir := map[string][]string{}
	motionPaths := make([]string, 0)
	err := filepath.WalkDir(inputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case asfRepo.CanLoad(path):
			dir := filepath.Dir(path)
			asfByDir[dir] = append(asfByDir[dir], path)
		case amcRepo.CanLoad(path):
			motionPaths = append(motionPaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(motionPaths)

	entries := make([]conversionEntry, 0, len(motionPaths))
	for _, motionPath := range motionPaths {
		clipName := amcRepo.InferName(motionPath)
		safeName := sanitizePathComponent(clipName)
		caseDir := filepath.Join(outputRoot, fmt.Sprintf("%03d_%s", len(entries)+1, safeName))
		entries = append(entries, conversionEntry{
			Index:        len(entries) + 1,
			SkeletonPath: pairSkeletonPath(clipName, asfByDir[filepath.Dir(motionPath)], asfRepo),
			MotionPath:   motionPath,
			ClipName:     clipName,
			CaseDir:      caseDir,
			OutputPath:   filepath.Join(caseDir, safeName+".yaml"),
		})
	}
	return entries, nil
}

// pairSkeletonPath はモーション名の接頭辞に一致するASFを返す。
// 一致がなくディレクトリにASFが1つだけの場合はそれを使う。
func pairSkeletonPath(clipName string, candidates []string, asfRepo moutput.ITextReader) string {
	best := ""
	bestLength := 0
	for _, candidate := range candidates {
		name := asfRepo.InferName(candidate)
		if name == "" || !strings.HasPrefix(strings.ToLower(clipName), strings.ToLower(name)) {
			continue
		}
		if len(name) > bestLength {
			best = candidate
			bestLength = len(name)
		}
	}
	if best != "" {
		return best
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return ""
}

// executeBatchConversion は全モーションの変換処理を順次実行する。
// 同じASFは1度だけ解析して使い回す。
func executeBatchConversion(config batchConfig, entries []conversionEntry, out io.Writer) []conversionResult {
	results := make([]conversionResult, 0, len(entries))
	repository := io_text.NewTextRepository()
	usecase := minteractor.NewAsfAmcUsecase(minteractor.AsfAmcUsecaseDeps{
		TextReader: repository,
		TextWriter: repository,
	})
	skeletons := map[string]*model.Skeleton{}

	total := len(entries)
	for _, entry := range entries {
		fmt.Fprintf(out, "[%d/%d] 変換開始: clip=%s\n", entry.Index, total, entry.ClipName)
		result := convertMotionEntry(usecase, skeletons, config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Fprintf(out, "[%d/%d] 変換成功: clip=%s output=%s elapsed=%s\n", entry.Index, total, entry.ClipName, entry.OutputPath, result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.PrepareStageInfo) != "" {
				fmt.Fprintf(out, "[%d/%d] Prepare進捗: %s\n", entry.Index, total, result.PrepareStageInfo)
			}
		case "dry_run":
			fmt.Fprintf(out, "[%d/%d] DRY-RUN: clip=%s asf=%s amc=%s output=%s\n", entry.Index, total, entry.ClipName, entry.SkeletonPath, entry.MotionPath, entry.OutputPath)
		case "skipped_missing":
			fmt.Fprintf(out, "[%d/%d] 入力不足でスキップ: clip=%s amc=%s reason=%v\n", entry.Index, total, entry.ClipName, entry.MotionPath, result.Err)
		default:
			fmt.Fprintf(out, "[%d/%d] 変換失敗: clip=%s reason=%v\n", entry.Index, total, entry.ClipName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// convertMotionEntry は1モーション分の変換を実行する。
func convertMotionEntry(
	usecase *minteractor.AsfAmcUsecase,
	skeletons map[string]*model.Skeleton,
	config batchConfig,
	entry conversionEntry,
) conversionResult {
	result := conversionResult{
		Entry:  entry,
		Status: "failed",
	}
	if entry.SkeletonPath == "" {
		result.Status = "skipped_missing"
		result.Err = errors.New("対応するASFが見つかりません")
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
	skeleton, ok := skeletons[entry.SkeletonPath]
	if !ok {
		loaded, err := usecase.LoadSkeleton(nil, entry.SkeletonPath)
		if err != nil {
			result.Err = fmt.Errorf("LoadSkeletonに失敗しました: %w", err)
			return result
		}
		skeletons[entry.SkeletonPath] = loaded
		skeleton = loaded
	}

	progressCollector := newPrepareProgressCollector()
	if _, err := usecase.Convert(minteractor.ConvertRequest{
		Skeleton:         skeleton,
		SkeletonPath:     entry.SkeletonPath,
		MotionPath:       entry.MotionPath,
		ClipName:         entry.ClipName,
		OutputPath:       entry.OutputPath,
		SaveOptions:      moutput.SaveOptions{Overwrite: true},
		ProgressReporter: progressCollector,
	}); err != nil {
		result.Err = fmt.Errorf("Convertに失敗しました: %w", err)
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.PrepareStageInfo = progressCollector.Summary()
	return result
}

// printBatchSummary は変換結果の集計を出力する。
func printBatchSummary(results []conversionResult, out io.Writer) {
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
	fmt.Fprintf(
		out,
		"バッチ変換サマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		skipped,
		dryRun,
	)
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(trimmed))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	trimmed := strings.TrimSpace(path)
	if runtime.GOOS != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "clip"
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
		return "clip"
	}
	return replaced
}

// newPrepareProgressCollector は Prepare 進捗収集器を生成する。
func newPrepareProgressCollector() *prepareProgressCollector {
	return &prepareProgressCollector{
		eventCounts: map[minteractor.PrepareProgressEventType]int{},
	}
}

// ReportPrepareProgress は Prepare の進捗イベントを収集する。
func (collector *prepareProgressCollector) ReportPrepareProgress(event minteractor.PrepareProgressEvent) {
	if collector == nil {
		return
	}
	if collector.eventCounts == nil {
		collector.eventCounts = map[minteractor.PrepareProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
	if event.NodeCount > collector.nodeMax {
		collector.nodeMax = event.NodeCount
	}
	collector.frameTotal += event.FrameCount
	collector.keyframeTotal += event.KeyframeCount
	collector.warningTotal += event.WarningCount
}

// Summary は収集した Prepare 進捗の要約文字列を返す。
func (collector *prepareProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d nodes=%d frames=%d keyframes=%d warnings=%d stages=%s",
		len(collector.eventCounts),
		collector.nodeMax,
		collector.frameTotal,
		collector.keyframeTotal,
		collector.warningTotal,
		strings.Join(types, ","),
	)
}
