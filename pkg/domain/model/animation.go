// 指示: miu200521358
package model

import (
	"github.com/google/uuid"
	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
	"github.com/tiendc/go-deepcopy"
)

const (
	// FRAME_RATE はAMCの1秒あたりフレーム数。
	FRAME_RATE = 120.0
	// SECONDS_PER_FRAME は1フレームの秒数。
	SECONDS_PER_FRAME = 1.0 / FRAME_RATE
	// TRACK_QUATERNION_SUFFIX は回転トラック名の接尾辞。
	TRACK_QUATERNION_SUFFIX = ".quaternion"
)

// Keyframe は回転キーフレームを表す。
type Keyframe struct {
	Frame    int
	Time     float64
	Rotation mmath.Quaternion
}

// Track は1ボーン分の時刻順キーフレーム列を表す。
type Track struct {
	BoneIndex int
	BoneName  string
	BoneID    uuid.UUID
	Keyframes []Keyframe
}

// Name はトラック名を返す。
func (t Track) Name() string {
	return t.BoneID.String() + TRACK_QUATERNION_SUFFIX
}

// Diagnostics は姿勢計算で黙って縮退した件数を表す。
type Diagnostics struct {
	// ChannelMismatchCount は自由度数と値数の不一致で単位変換にした件数。
	ChannelMismatchCount int
	// MissingChannelCount はフレームにボーンのチャンネルがなかった件数。
	MissingChannelCount int
	// SkippedBones は方向・軸補正・自由度不足で対象外にしたボーン名。
	SkippedBones []string
}

// AnimationClip は名前付きアニメーションを表す。
type AnimationClip struct {
	Name        string
	Duration    float64
	FrameRate   float64
	Tracks      []Track
	Diagnostics Diagnostics
}

// Track はボーン名でトラックを返す。
func (c *AnimationClip) Track(boneName string) (Track, bool) {
	if c == nil {
		return Track{}, false
	}
	for _, track := range c.Tracks {
		if track.BoneName == boneName {
			return track, true
		}
	}
	return Track{}, false
}

// KeyframeCount は全トラックのキーフレーム総数を返す。
func (c *AnimationClip) KeyframeCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, track := range c.Tracks {
		total += len(track.Keyframes)
	}
	return total
}

// Copy はクリップを複製する。
func (c *AnimationClip) Copy() (*AnimationClip, error) {
	if c == nil {
		return nil, nil
	}
	copied := &AnimationClip{}
	if err := deepcopy.Copy(copied, c); err != nil {
		return nil, err
	}
	return copied, nil
}
