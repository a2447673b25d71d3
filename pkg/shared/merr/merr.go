// 指示: miu200521358
package merr

import (
	"errors"
	"fmt"
)

// ErrorKind はエラー種別を表す。
type ErrorKind string

const (
	// KindStructural は必須セクション欠落など解析全体を中断する構造エラー。
	KindStructural ErrorKind = "structural"
	// KindParse は入力内容の解析失敗。
	KindParse ErrorKind = "parse"
	// KindIO はファイル入出力の失敗。
	KindIO ErrorKind = "io"
	// KindUsecase は呼び出し側の入力や依存設定の不備。
	KindUsecase ErrorKind = "usecase"
)

// CommonError はID付きエラーを表す。
type CommonError struct {
	id      string
	kind    ErrorKind
	message string
	cause   error
}

// NewCommonError はCommonErrorを生成する。
func NewCommonError(id string, kind ErrorKind, message string, cause error) *CommonError {
	return &CommonError{id: id, kind: kind, message: message, cause: cause}
}

// Error はエラーメッセージを返す。
func (e *CommonError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.id, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.id, e.message)
}

// Unwrap は原因エラーを返す。
func (e *CommonError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// ErrorID はエラーIDを返す。
func (e *CommonError) ErrorID() string {
	if e == nil {
		return ""
	}
	return e.id
}

// ErrorKind はエラー種別を返す。
func (e *CommonError) ErrorKind() ErrorKind {
	if e == nil {
		return ""
	}
	return e.kind
}

// Message は原因を含まないメッセージを返す。
func (e *CommonError) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// ExtractErrorID はエラー連鎖から最初のIDを取り出す。
func ExtractErrorID(err error) string {
	var ce *CommonError
	if errors.As(err, &ce) {
		return ce.ErrorID()
	}
	return ""
}

// IsKind はエラー連鎖に指定種別のCommonErrorが含まれるか判定する。
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		var ce *CommonError
		if !errors.As(err, &ce) {
			return false
		}
		if ce.kind == kind {
			return true
		}
		err = ce.cause
	}
	return false
}

// IsStructural は構造エラーか判定する。
func IsStructural(err error) bool {
	return IsKind(err, KindStructural)
}
