// 指示: miu200521358
// Package messages はCLI表示に使うメッセージを提供する。
package messages

// メッセージ一覧。
const (
	HelpUsage     = "ASFスケルトンとAMCモーションを読み込み、ボーンツリーと回転キーフレームを集計する"
	HelpArgsUsage = "[ASFパス] [AMCパス]"

	LabelAsfPath    = "入力ASFファイルパス (.asf / .asf.xz)"
	LabelAmcPath    = "入力AMCファイルパス (.amc / .amc.xz)"
	LabelClipName   = "クリップ名 (省略時はAMCファイル名)"
	LabelOutputPath = "集計YAMLの出力パス (省略時は標準出力)"
	LabelFrameRate  = "AMCの1秒あたりフレーム数"
	LabelOverwrite  = "既存の出力ファイルを上書きする"
	LabelDebug      = "デバッグログを出力する"
	LabelLogJson    = "ログをJSON形式で出力する"

	MessageAsfRequired      = "入力ASFファイルを指定してください (--asf)"
	MessageAsfExtInvalid    = "入力拡張子が .asf ではありません: %s"
	MessageAmcExtInvalid    = "入力拡張子が .amc ではありません: %s"
	MessageFrameRateInvalid = "フレームレートは正の値を指定してください: %v"
	MessageLoadFailed       = "[%s] 読み込みに失敗しました: %w"
	MessageConvertFailed    = "[%s] 変換に失敗しました: %w"

	LogConvertSuccess = "[%s] 変換完了: %s\n"
)
