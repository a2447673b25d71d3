// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_asfamc/pkg/usecase/port/moutput"

// AsfAmcUsecaseDeps はASF/AMCユースケースの依存を表す。
type AsfAmcUsecaseDeps struct {
	TextReader moutput.ITextReader
	TextWriter moutput.ITextWriter
}

// AsfAmcUsecase はスケルトン読込からクリップ生成までをまとめたユースケースを表す。
type AsfAmcUsecase struct {
	textReader moutput.ITextReader
	textWriter moutput.ITextWriter
}

// NewAsfAmcUsecase はASF/AMCユースケースを生成する。
func NewAsfAmcUsecase(deps AsfAmcUsecaseDeps) *AsfAmcUsecase {
	return &AsfAmcUsecase{
		textReader: deps.TextReader,
		textWriter: deps.TextWriter,
	}
}
