// 指示: miu200521358
package minteractor

import (
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/usecase/port/moutput"
)

// SaveSummary は集計をYAMLとして保存する。
func (uc *AsfAmcUsecase) SaveSummary(rep moutput.ITextWriter, path string, summary Summary, opts moutput.SaveOptions) error {
	writer := rep
	if writer == nil {
		writer = uc.textWriter
	}
	if writer == nil {
		return newDependencyMissing("テキスト保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return newOutputInvalid("保存先パスが未指定です")
	}
	text, err := FormatSummaryYaml(summary)
	if err != nil {
		return err
	}
	return writer.Save(path, text, opts)
}
