// 指示: miu200521358
package io_common

import (
	"fmt"

	"github.com/miu200521358/mu_asfamc/pkg/shared/merr"
)

const (
	IoFileNotFoundID       = "14101"
	IoExtInvalidID         = "14102"
	IoParseFailedID        = "14103"
	IoFormatNotSupportedID = "14104"
	IoSectionMissingID     = "14201"
	IoStructureInvalidID   = "14202"
)

// NewIoFileNotFound はファイル未検出エラーを生成する。
func NewIoFileNotFound(path string, cause error) error {
	return merr.NewCommonError(IoFileNotFoundID, merr.KindIO, fmt.Sprintf("ファイルが見つかりません: %s", path), cause)
}

// NewIoExtInvalid は拡張子不正エラーを生成する。
func NewIoExtInvalid(path string, cause error) error {
	return merr.NewCommonError(IoExtInvalidID, merr.KindIO, fmt.Sprintf("拡張子が未対応です: %s", path), cause)
}

// NewIoParseFailed は解析失敗エラーを生成する。
func NewIoParseFailed(format string, cause error, params ...any) error {
	return merr.NewCommonError(IoParseFailedID, merr.KindParse, fmt.Sprintf(format, params...), cause)
}

// NewIoFormatNotSupported は形式未対応エラーを生成する。
func NewIoFormatNotSupported(format string, cause error, params ...any) error {
	return merr.NewCommonError(IoFormatNotSupportedID, merr.KindParse, fmt.Sprintf(format, params...), cause)
}

// NewIoSectionMissing は必須セクション欠落の構造エラーを生成する。
func NewIoSectionMissing(section string) error {
	return merr.NewCommonError(
		IoSectionMissingID,
		merr.KindStructural,
		fmt.Sprintf("必須セクションがありません: :%s", section),
		nil,
	)
}

// NewIoStructureInvalid は構造不正エラーを生成する。
func NewIoStructureInvalid(line int, format string, params ...any) error {
	return merr.NewCommonError(
		IoStructureInvalidID,
		merr.KindStructural,
		fmt.Sprintf("%d行目: %s", line, fmt.Sprintf(format, params...)),
		nil,
	)
}
