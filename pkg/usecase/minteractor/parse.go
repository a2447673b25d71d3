// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_model/amc"
	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_model/asf"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
)

// MotionData はAMC解析結果と生成したクリップを表す。
type MotionData struct {
	Motion *model.Motion
	Clip   *model.AnimationClip
}

// ParseSkeleton はASFテキストを解析し、ボーンツリー付きのスケルトンを返す。
func ParseSkeleton(text string) (*model.Skeleton, error) {
	return asf.ParseSkeleton(text)
}

// ParseMotion はAMCテキストを解析し、ボーンツリーに沿ったクリップを返す。
func ParseMotion(text string, tree *model.BoneTree, clipName string) (*model.AnimationClip, error) {
	data, err := ParseMotionData(text, tree, clipName, DefaultPoseOptions())
	if err != nil {
		return nil, err
	}
	return data.Clip, nil
}

// ParseMotionData はAMCテキストを解析し、フレーム表とクリップの両方を返す。
func ParseMotionData(text string, tree *model.BoneTree, clipName string, opts PoseOptions) (*MotionData, error) {
	if tree == nil {
		return nil, newInputMissing("ボーンツリーが未設定です")
	}
	motion, err := amc.ParseMotion(text)
	if err != nil {
		return nil, err
	}
	clip, err := BuildAnimationClip(tree, motion, clipName, opts)
	if err != nil {
		return nil, err
	}
	return &MotionData{Motion: motion, Clip: clip}, nil
}
