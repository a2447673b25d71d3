// 指示: miu200521358
package minteractor

import (
	"math"
	"strconv"
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"github.com/miu200521358/mu_asfamc/pkg/shared/logging"
)

// PoseOptions は姿勢計算のオプションを表す。
type PoseOptions struct {
	// SecondsPerFrame は1フレームあたりの秒数。0以下の場合は既定値を使う。
	SecondsPerFrame float64
}

// DefaultPoseOptions は既定の姿勢計算オプションを返す。
func DefaultPoseOptions() PoseOptions {
	return PoseOptions{SecondsPerFrame: model.SECONDS_PER_FRAME}
}

// secondsPerFrame は有効な1フレーム秒数を返す。
func (o PoseOptions) secondsPerFrame() float64 {
	if o.SecondsPerFrame <= 0 || math.IsNaN(o.SecondsPerFrame) || math.IsInf(o.SecondsPerFrame, 0) {
		return model.SECONDS_PER_FRAME
	}
	return o.SecondsPerFrame
}

// BuildAnimationClip はボーンツリーとモーションから回転キーフレームのクリップを生成する。
// フレーム0以下はレストポーズとして扱い、キーフレームにしない。
func BuildAnimationClip(
	tree *model.BoneTree,
	motion *model.Motion,
	clipName string,
	opts PoseOptions,
) (*model.AnimationClip, error) {
	if tree == nil || tree.Len() == 0 {
		return nil, newInputMissing("ボーンツリーが未設定です")
	}
	if motion == nil {
		return nil, newInputMissing("モーションが未設定です")
	}

	spf := opts.secondsPerFrame()
	skeletonUnit := tree.Root().AngleUnit
	channelUnit := motion.AngleUnit(skeletonUnit)
	frameIndexes := motion.FrameIndexes()

	clip := &model.AnimationClip{
		Name:      clipName,
		FrameRate: 1 / spf,
		Tracks:    make([]model.Track, 0),
		Diagnostics: model.Diagnostics{
			SkippedBones: make([]string, 0),
		},
	}
	if maxIndex, ok := motion.MaxFrameIndex(); ok && maxIndex > 0 {
		clip.Duration = float64(maxIndex) * spf
	}

	for _, node := range tree.Values() {
		if node.IsRoot() {
			continue
		}
		if !node.IsAnimatable() {
			clip.Diagnostics.SkippedBones = append(clip.Diagnostics.SkippedBones, node.Name)
			continue
		}

		track := buildTrack(node, motion, frameIndexes, channelUnit, spf, &clip.Diagnostics)
		if len(track.Keyframes) == 0 {
			continue
		}
		clip.Tracks = append(clip.Tracks, track)
	}

	logPoseInfo(
		"クリップ生成完了: name=%s tracks=%d keyframes=%d duration=%.4f mismatch=%d missing=%d skipped=%d",
		clip.Name,
		len(clip.Tracks),
		clip.KeyframeCount(),
		clip.Duration,
		clip.Diagnostics.ChannelMismatchCount,
		clip.Diagnostics.MissingChannelCount,
		len(clip.Diagnostics.SkippedBones),
	)
	return clip, nil
}

// buildTrack は1ボーン分のキーフレーム列を生成する。
func buildTrack(
	node model.BoneNode,
	motion *model.Motion,
	frameIndexes []int,
	channelUnit model.AngleUnit,
	spf float64,
	diagnostics *model.Diagnostics,
) model.Track {
	track := model.Track{
		BoneIndex: node.Index,
		BoneName:  node.Name,
		BoneID:    node.ID,
		Keyframes: make([]model.Keyframe, 0),
	}

	axis := axisCorrection(node)
	axisInv := axis.Inverted()
	parentRestInv := node.ParentRestRotation.Inverted()

	for _, index := range frameIndexes {
		if index <= 0 {
			continue
		}
		channel, ok := motion.Frames[index].Channel(node.Name)
		if !ok {
			diagnostics.MissingChannelCount++
			continue
		}

		transform, ok := channelTransform(node.Dof, channel, channelUnit)
		if !ok {
			diagnostics.ChannelMismatchCount++
			logPoseDebug("チャンネル数不一致のため単位変換を使用します: bone=%s frame=%d dof=%d value=%q",
				node.Name, index, len(node.Dof), channel)
		}
		_, rotation, _ := transform.Decompose()

		corrected := axis.Muled(rotation).Muled(axisInv)
		final := parentRestInv.Muled(corrected).Muled(node.RestRotation).Normalized()
		track.Keyframes = append(track.Keyframes, model.Keyframe{
			Frame:    index,
			Time:     float64(index) * spf,
			Rotation: final,
		})
	}
	return track
}

// axisCorrection はボーンの軸補正回転を返す。角度はスケルトンの角度単位で解釈する。
func axisCorrection(node model.BoneNode) mmath.Quaternion {
	if !node.HasAxis {
		return mmath.NewQuaternion()
	}
	radians := mmath.NewVec3(
		node.AngleUnit.ToRadian(node.Axis.Angles.X),
		node.AngleUnit.ToRadian(node.Axis.Angles.Y),
		node.AngleUnit.ToRadian(node.Axis.Angles.Z),
	)
	return mmath.NewQuaternionFromEulerOrder(radians, node.Axis.Order)
}

// channelTransform はdof順にチャンネル値を要素変換として左から掛け合わせる。
// 値の個数がdofと一致しない場合や数値でない値がある場合は単位行列と false を返す。
func channelTransform(dof []model.DofChannel, channel string, unit model.AngleUnit) (mmath.Mat4, bool) {
	values := strings.Fields(channel)
	if len(values) != len(dof) {
		return mmath.NewMat4(), false
	}

	transform := mmath.NewMat4()
	for i, token := range dof {
		value, err := strconv.ParseFloat(values[i], 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return mmath.NewMat4(), false
		}
		transform = channelMatrix(token, value, unit).Muled(transform)
	}
	return transform, true
}

// channelMatrix は1チャンネル分の要素変換行列を返す。
func channelMatrix(token model.DofChannel, value float64, unit model.AngleUnit) mmath.Mat4 {
	switch token {
	case model.DOF_RX:
		return mmath.NewRotationXMat4(unit.ToRadian(value))
	case model.DOF_RY:
		return mmath.NewRotationYMat4(unit.ToRadian(value))
	case model.DOF_RZ:
		return mmath.NewRotationZMat4(unit.ToRadian(value))
	case model.DOF_TX, model.DOF_TY, model.DOF_TZ:
		return token.Axis().MuledScalar(value).ToMat4()
	default:
		// ボーン長チャンネル(l)は姿勢に寄与しないため単位行列とする。
		return mmath.NewMat4()
	}
}

// logPoseInfo は姿勢計算のINFOログを出力する。
func logPoseInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logPoseDebug は姿勢計算のデバッグログを出力する。
func logPoseDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}
