// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_asfamc/pkg/shared/merr"
)

const (
	UsecaseInputMissingID      = "15101"
	UsecaseDependencyMissingID = "15102"
	UsecaseOutputInvalidID     = "15103"
	UsecaseSummaryEncodeID     = "15104"
)

// newInputMissing は入力未設定エラーを生成する。
func newInputMissing(format string, params ...any) error {
	return merr.NewCommonError(UsecaseInputMissingID, merr.KindUsecase, fmt.Sprintf(format, params...), nil)
}

// newDependencyMissing はリポジトリ未設定エラーを生成する。
func newDependencyMissing(format string, params ...any) error {
	return merr.NewCommonError(UsecaseDependencyMissingID, merr.KindUsecase, fmt.Sprintf(format, params...), nil)
}

// newOutputInvalid は保存先不正エラーを生成する。
func newOutputInvalid(format string, params ...any) error {
	return merr.NewCommonError(UsecaseOutputInvalidID, merr.KindUsecase, fmt.Sprintf(format, params...), nil)
}

// newSummaryEncodeFailed は集計のYAML変換失敗エラーを生成する。
func newSummaryEncodeFailed(cause error) error {
	return merr.NewCommonError(UsecaseSummaryEncodeID, merr.KindParse, "集計のYAML変換に失敗しました", cause)
}
