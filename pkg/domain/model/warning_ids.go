// 指示: miu200521358
package model

import "fmt"

const (
	// AsfWarningUnknownSection は未対応セクション読み飛ばし警告。
	AsfWarningUnknownSection = "AsfWarningUnknownSection"
	// AsfWarningRootMissing は :root セクション欠落警告。
	AsfWarningRootMissing = "AsfWarningRootMissing"
	// AsfWarningRootPositionInvalid は root position 解析失敗警告。
	AsfWarningRootPositionInvalid = "AsfWarningRootPositionInvalid"
	// AsfWarningBoneNameMissing は name のないボーン定義警告。
	AsfWarningBoneNameMissing = "AsfWarningBoneNameMissing"
	// AsfWarningDirectionInvalid は direction 解析失敗警告。
	AsfWarningDirectionInvalid = "AsfWarningDirectionInvalid"
	// AsfWarningLengthInvalid は length 解析失敗警告。
	AsfWarningLengthInvalid = "AsfWarningLengthInvalid"
	// AsfWarningAxisInvalid は axis 解析失敗警告。
	AsfWarningAxisInvalid = "AsfWarningAxisInvalid"
	// AsfWarningDofUnknown は未知の自由度トークン警告。
	AsfWarningDofUnknown = "AsfWarningDofUnknown"
	// AsfWarningLimitsInvalid は limits 解析失敗警告。
	AsfWarningLimitsInvalid = "AsfWarningLimitsInvalid"
	// AsfWarningUnitsInvalid は units 値の解析失敗警告。
	AsfWarningUnitsInvalid = "AsfWarningUnitsInvalid"
	// AsfWarningDuplicateBone はボーン名重複警告。
	AsfWarningDuplicateBone = "AsfWarningDuplicateBone"
	// AsfWarningHierarchyUnknownBone は bonedata にない階層ボーン警告。
	AsfWarningHierarchyUnknownBone = "AsfWarningHierarchyUnknownBone"
	// AsfWarningHierarchyRevisit は配置済みボーンの再登場警告。
	AsfWarningHierarchyRevisit = "AsfWarningHierarchyRevisit"
	// AmcWarningDuplicateFrame はフレーム番号重複警告。
	AmcWarningDuplicateFrame = "AmcWarningDuplicateFrame"
	// AmcWarningStrayLine はフレーム外の行警告。
	AmcWarningStrayLine = "AmcWarningStrayLine"
	// AmcWarningLateFlag はフレーム開始後のフラグ行警告。
	AmcWarningLateFlag = "AmcWarningLateFlag"
)

// ParseWarning は解析を中断しない入力不備を表す。
type ParseWarning struct {
	ID     string
	Line   int
	Detail string
}

// String は表示用文字列を返す。
func (w ParseWarning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s(line=%d): %s", w.ID, w.Line, w.Detail)
	}
	return fmt.Sprintf("%s: %s", w.ID, w.Detail)
}

// CountWarnings はID別の警告件数を返す。
func CountWarnings(warnings []ParseWarning) map[string]int {
	counts := map[string]int{}
	for _, w := range warnings {
		counts[w.ID]++
	}
	return counts
}
