// 指示: miu200521358
package model

import (
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
)

// DofChannel はモーションチャンネル1つ分の自由度を表す。
type DofChannel string

const (
	DOF_RX DofChannel = "rx"
	DOF_RY DofChannel = "ry"
	DOF_RZ DofChannel = "rz"
	DOF_TX DofChannel = "tx"
	DOF_TY DofChannel = "ty"
	DOF_TZ DofChannel = "tz"
	// DOF_L はボーン長チャンネル。姿勢には寄与しない。
	DOF_L DofChannel = "l"
)

// ParseDofChannel はトークンを自由度へ変換する。大文字小文字は区別しない。
func ParseDofChannel(token string) (DofChannel, bool) {
	channel := DofChannel(strings.ToLower(strings.TrimSpace(token)))
	switch channel {
	case DOF_RX, DOF_RY, DOF_RZ, DOF_TX, DOF_TY, DOF_TZ, DOF_L:
		return channel, true
	}
	return "", false
}

// ParseDofChannels は空白区切りの自由度列を変換する。未知トークンは別途返す。
func ParseDofChannels(text string) ([]DofChannel, []string) {
	channels := make([]DofChannel, 0, 6)
	unknown := make([]string, 0)
	for _, token := range strings.Fields(text) {
		channel, ok := ParseDofChannel(token)
		if !ok {
			unknown = append(unknown, token)
			continue
		}
		channels = append(channels, channel)
	}
	return channels, unknown
}

// IsRotation は回転チャンネルか判定する。
func (c DofChannel) IsRotation() bool {
	return c == DOF_RX || c == DOF_RY || c == DOF_RZ
}

// IsTranslation は移動チャンネルか判定する。
func (c DofChannel) IsTranslation() bool {
	return c == DOF_TX || c == DOF_TY || c == DOF_TZ
}

// Axis はチャンネルの対象軸を返す。長さチャンネルは零ベクトル。
func (c DofChannel) Axis() mmath.Vec3 {
	switch c {
	case DOF_RX, DOF_TX:
		return mmath.UNIT_X_VEC3
	case DOF_RY, DOF_TY:
		return mmath.UNIT_Y_VEC3
	case DOF_RZ, DOF_TZ:
		return mmath.UNIT_Z_VEC3
	}
	return mmath.ZERO_VEC3
}

// AngleUnit は角度単位を表す。
type AngleUnit string

const (
	ANGLE_DEGREE AngleUnit = "deg"
	ANGLE_RADIAN AngleUnit = "rad"
)

// ParseAngleUnit は単位文字列を変換する。
func ParseAngleUnit(text string) (AngleUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "deg", "degree", "degrees":
		return ANGLE_DEGREE, true
	case "rad", "radian", "radians":
		return ANGLE_RADIAN, true
	}
	return "", false
}

// ToRadian は値をラジアンへ変換する。
func (u AngleUnit) ToRadian(value float64) float64 {
	if u == ANGLE_RADIAN {
		return value
	}
	return mmath.DegToRad(value)
}
