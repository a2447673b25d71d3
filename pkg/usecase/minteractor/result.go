// 指示: miu200521358
package minteractor

import (
	"bytes"

	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// WarningSummary は解析警告の出力形式を表す。
type WarningSummary struct {
	ID     string `yaml:"id"`
	Line   int    `yaml:"line,omitempty"`
	Detail string `yaml:"detail"`
}

// SkeletonSummary はスケルトンの集計を表す。
type SkeletonSummary struct {
	Name      string           `yaml:"name,omitempty"`
	Version   string           `yaml:"version,omitempty"`
	Hash      string           `yaml:"hash"`
	AngleUnit string           `yaml:"angle_unit"`
	BoneCount int              `yaml:"bone_count"`
	NodeCount int              `yaml:"node_count"`
	Bones     []string         `yaml:"bones,flow"`
	Warnings  []WarningSummary `yaml:"warnings,omitempty"`
}

// TrackSummary はトラック1本の集計を表す。
type TrackSummary struct {
	Bone          string     `yaml:"bone"`
	Name          string     `yaml:"name"`
	Keyframes     int        `yaml:"keyframes"`
	FirstTime     float64    `yaml:"first_time"`
	LastTime      float64    `yaml:"last_time"`
	FirstRotation [4]float64 `yaml:"first_rotation,flow"`
	LastRotation  [4]float64 `yaml:"last_rotation,flow"`
}

// ClipSummary はクリップの集計を表す。
type ClipSummary struct {
	Name                 string           `yaml:"name"`
	Hash                 string           `yaml:"hash,omitempty"`
	Flags                []string         `yaml:"flags,flow,omitempty"`
	AngleUnit            string           `yaml:"angle_unit"`
	FrameCount           int              `yaml:"frame_count"`
	Duration             float64          `yaml:"duration"`
	FrameRate            float64          `yaml:"frame_rate"`
	TrackCount           int              `yaml:"track_count"`
	KeyframeCount        int              `yaml:"keyframe_count"`
	ChannelMismatchCount int              `yaml:"channel_mismatch_count"`
	MissingChannelCount  int              `yaml:"missing_channel_count"`
	SkippedBones         []string         `yaml:"skipped_bones,flow,omitempty"`
	Tracks               []TrackSummary   `yaml:"tracks,omitempty"`
	Warnings             []WarningSummary `yaml:"warnings,omitempty"`
}

// Summary はスケルトンとクリップの集計を表す。
type Summary struct {
	Skeleton SkeletonSummary `yaml:"skeleton"`
	Clip     *ClipSummary    `yaml:"clip,omitempty"`
}

// Summarize はスケルトンとモーション解析結果を集計する。motion が nil の場合はスケルトンのみ。
func Summarize(skeleton *model.Skeleton, motion *MotionData) Summary {
	summary := Summary{}
	if skeleton != nil {
		summary.Skeleton = summarizeSkeleton(skeleton)
	}
	if motion != nil && motion.Clip != nil {
		clip := summarizeClip(motion, skeleton)
		summary.Clip = &clip
	}
	return summary
}

// summarizeSkeleton はスケルトンを集計する。
func summarizeSkeleton(skeleton *model.Skeleton) SkeletonSummary {
	s := SkeletonSummary{
		Name:      skeleton.Name,
		Version:   skeleton.Version,
		Hash:      skeleton.Hash,
		AngleUnit: string(skeleton.Units.Angle),
		BoneCount: len(skeleton.Bones),
		Warnings:  summarizeWarnings(skeleton.Warnings),
	}
	if skeleton.Tree != nil {
		s.NodeCount = skeleton.Tree.Len()
		s.Bones = skeleton.Tree.Names()
	}
	return s
}

// summarizeClip はクリップとフレーム表を集計する。
func summarizeClip(motion *MotionData, skeleton *model.Skeleton) ClipSummary {
	clip := motion.Clip
	s := ClipSummary{
		Name:                 clip.Name,
		Duration:             clip.Duration,
		FrameRate:            clip.FrameRate,
		TrackCount:           len(clip.Tracks),
		KeyframeCount:        clip.KeyframeCount(),
		ChannelMismatchCount: clip.Diagnostics.ChannelMismatchCount,
		MissingChannelCount:  clip.Diagnostics.MissingChannelCount,
		SkippedBones:         clip.Diagnostics.SkippedBones,
		Tracks:               make([]TrackSummary, 0, len(clip.Tracks)),
	}
	if m := motion.Motion; m != nil {
		fallback := model.ANGLE_DEGREE
		if skeleton != nil {
			fallback = skeleton.Units.Angle
		}
		s.Hash = m.Hash
		s.Flags = m.Flags
		s.AngleUnit = string(m.AngleUnit(fallback))
		s.FrameCount = len(m.Frames)
		s.Warnings = summarizeWarnings(m.Warnings)
	}
	for _, track := range clip.Tracks {
		if len(track.Keyframes) == 0 {
			continue
		}
		first := track.Keyframes[0]
		last := track.Keyframes[len(track.Keyframes)-1]
		s.Tracks = append(s.Tracks, TrackSummary{
			Bone:          track.BoneName,
			Name:          track.Name(),
			Keyframes:     len(track.Keyframes),
			FirstTime:     first.Time,
			LastTime:      last.Time,
			FirstRotation: [4]float64{first.Rotation.X(), first.Rotation.Y(), first.Rotation.Z(), first.Rotation.W},
			LastRotation:  [4]float64{last.Rotation.X(), last.Rotation.Y(), last.Rotation.Z(), last.Rotation.W},
		})
	}
	return s
}

// summarizeWarnings は警告を出力形式へ変換する。
func summarizeWarnings(warnings []model.ParseWarning) []WarningSummary {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]WarningSummary, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningSummary{ID: w.ID, Line: w.Line, Detail: w.Detail})
	}
	return out
}

// FormatSummaryYaml は集計をYAML文字列へ変換する。
func FormatSummaryYaml(summary Summary) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(summary); err != nil {
		return "", newSummaryEncodeFailed(err)
	}
	if err := encoder.Close(); err != nil {
		return "", newSummaryEncodeFailed(err)
	}
	return buf.String(), nil
}
