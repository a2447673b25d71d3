// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"github.com/miu200521358/mu_asfamc/pkg/usecase/port/moutput"
)

// LoadSkeleton はASFファイルを読み込んで解析する。
func (uc *AsfAmcUsecase) LoadSkeleton(rep moutput.ITextReader, path string) (*model.Skeleton, error) {
	reader, err := uc.resolveReader(rep)
	if err != nil {
		return nil, err
	}
	text, err := reader.Load(path)
	if err != nil {
		return nil, err
	}
	return ParseSkeleton(text)
}

// LoadMotion はAMCファイルを読み込み、スケルトンに沿ったクリップを生成する。
// クリップ名が空の場合はファイル名から推定する。
func (uc *AsfAmcUsecase) LoadMotion(
	rep moutput.ITextReader,
	path string,
	skeleton *model.Skeleton,
	clipName string,
	opts PoseOptions,
) (*MotionData, error) {
	if skeleton == nil || skeleton.Tree == nil {
		return nil, newInputMissing("スケルトンが未読込です")
	}
	reader, err := uc.resolveReader(rep)
	if err != nil {
		return nil, err
	}
	text, err := reader.Load(path)
	if err != nil {
		return nil, err
	}
	if clipName == "" {
		clipName = reader.InferName(path)
	}
	return ParseMotionData(text, skeleton.Tree, clipName, opts)
}

// resolveReader は読み込みリポジトリを解決する。
func (uc *AsfAmcUsecase) resolveReader(rep moutput.ITextReader) (moutput.ITextReader, error) {
	if rep != nil {
		return rep, nil
	}
	if uc.textReader == nil {
		return nil, newDependencyMissing("テキスト読み込みリポジトリが設定されていません")
	}
	return uc.textReader, nil
}
