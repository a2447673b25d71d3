// 指示: miu200521358
package moutput

// ITextReader はテキスト入力の読み込み契約を表す。
type ITextReader interface {
	// CanLoad は読み込み可能な拡張子か判定する。
	CanLoad(path string) bool
	// InferName はパスから表示名を推定する。
	InferName(path string) string
	// Load はパスのテキストを復号済み文字列として返す。
	Load(path string) (string, error)
}

// ITextWriter はテキスト出力の書き込み契約を表す。
type ITextWriter interface {
	// Save はテキストをパスへ保存する。
	Save(path string, text string, opts SaveOptions) error
}

// SaveOptions は保存時のオプションを表す。
type SaveOptions struct {
	// Overwrite は既存ファイルの上書きを許可する。
	Overwrite bool
}
