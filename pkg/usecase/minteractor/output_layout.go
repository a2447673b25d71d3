// 指示: miu200521358
package minteractor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const summaryExt = ".yaml"

var nowFunc = time.Now

// BuildDefaultOutputPath は入力パスから既定の集計YAML出力パスを生成する。
func BuildDefaultOutputPath(inputPath string) string {
	return buildDefaultOutputPathAt(inputPath, nowFunc())
}

// buildDefaultOutputPathAt は指定時刻で既定の集計YAML出力パスを生成する。
func buildDefaultOutputPathAt(inputPath string, now time.Time) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	if strings.EqualFold(filepath.Ext(base), ".xz") {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if base == "" || base == "." {
		return ""
	}
	stamp := now.Format("20060102150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, stamp, summaryExt))
}

// resolveSummaryOutputPath は集計の保存先パスを解決し、拡張子を検証する。
func resolveSummaryOutputPath(inputPath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(inputPath)
	}
	if resolved == "" {
		return "", newOutputInvalid("保存先YAMLパスが未指定です")
	}
	check := resolved
	if strings.EqualFold(filepath.Ext(check), ".xz") {
		check = strings.TrimSuffix(check, filepath.Ext(check))
	}
	switch strings.ToLower(filepath.Ext(check)) {
	case ".yaml", ".yml":
		return resolved, nil
	}
	return "", newOutputInvalid("保存先拡張子が .yaml ではありません: %s", resolved)
}
