// 指示: miu200521358
package model

import (
	"sort"
	"strings"
)

// Frame は1フレーム分のボーン名→チャンネル文字列を表す。
type Frame struct {
	Index    int
	Channels map[string]string
	Line     int
}

// Channel はボーンのチャンネル文字列を返す。
func (f Frame) Channel(boneName string) (string, bool) {
	if f.Channels == nil {
		return "", false
	}
	value, ok := f.Channels[boneName]
	return value, ok
}

// Motion はAMCの解析結果を表す。フレーム番号は連続とは限らない。
type Motion struct {
	Flags    []string
	Frames   map[int]Frame
	Warnings []ParseWarning
	Hash     string
}

// NewMotion は空のMotionを生成する。
func NewMotion() *Motion {
	return &Motion{
		Flags:    make([]string, 0),
		Frames:   make(map[int]Frame),
		Warnings: make([]ParseWarning, 0),
	}
}

// FrameIndexes はフレーム番号を昇順で返す。
func (m *Motion) FrameIndexes() []int {
	if m == nil {
		return nil
	}
	indexes := make([]int, 0, len(m.Frames))
	for index := range m.Frames {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	return indexes
}

// MaxFrameIndex は最大フレーム番号を返す。フレームがない場合は false。
func (m *Motion) MaxFrameIndex() (int, bool) {
	indexes := m.FrameIndexes()
	if len(indexes) == 0 {
		return 0, false
	}
	return indexes[len(indexes)-1], true
}

// HasFlag はヘッダフラグの有無を大文字小文字を区別せず判定する。
func (m *Motion) HasFlag(flag string) bool {
	if m == nil {
		return false
	}
	for _, f := range m.Flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

// AngleUnit はヘッダフラグから回転チャンネルの角度単位を返す。指定がなければ fallback。
func (m *Motion) AngleUnit(fallback AngleUnit) AngleUnit {
	if m.HasFlag("RADIANS") {
		return ANGLE_RADIAN
	}
	if m.HasFlag("DEGREES") {
		return ANGLE_DEGREE
	}
	if fallback == "" {
		return ANGLE_DEGREE
	}
	return fallback
}
