// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// RotationOrder はオイラー角の合成順を表す。
type RotationOrder string

const (
	ORDER_XYZ RotationOrder = "XYZ"
	ORDER_XZY RotationOrder = "XZY"
	ORDER_YXZ RotationOrder = "YXZ"
	ORDER_YZX RotationOrder = "YZX"
	ORDER_ZXY RotationOrder = "ZXY"
	ORDER_ZYX RotationOrder = "ZYX"
)

// RotationOrders は対応する全合成順を返す。
func RotationOrders() []RotationOrder {
	return []RotationOrder{ORDER_XYZ, ORDER_XZY, ORDER_YXZ, ORDER_YZX, ORDER_ZXY, ORDER_ZYX}
}

// ParseRotationOrder は文字列を合成順へ変換する。大文字小文字は区別しない。
func ParseRotationOrder(text string) (RotationOrder, error) {
	order := RotationOrder(strings.ToUpper(strings.TrimSpace(text)))
	for _, candidate := range RotationOrders() {
		if order == candidate {
			return order, nil
		}
	}
	return "", fmt.Errorf("回転順が不正です: %q", text)
}

// oppositeDirectionEpsilon は 1+cosθ がこれ未満なら真逆とみなす閾値。
const oppositeDirectionEpsilon = 1e-12

// Quaternion は回転を表すクォータニオン。
type Quaternion struct {
	mgl64.Quat
}

// NewQuaternion は単位クォータニオンを生成する。
func NewQuaternion() Quaternion {
	return Quaternion{Quat: mgl64.QuatIdent()}
}

// NewQuaternionByValues はx,y,z,wからクォータニオンを生成する。
func NewQuaternionByValues(x, y, z, w float64) Quaternion {
	return Quaternion{Quat: mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}}
}

// NewQuaternionFromAxisAngle は軸と角度(ラジアン)から回転を生成する。
func NewQuaternionFromAxisAngle(axis Vec3, radian float64) Quaternion {
	return Quaternion{Quat: mgl64.QuatRotate(radian, axis.Normalized().toMgl())}
}

// NewQuaternionFromDirections はfromをtoへ向ける最小回転を生成する。
// 真逆の場合のみ、fromに垂直な軸で180度回転する。
func NewQuaternionFromDirections(from, to Vec3) Quaternion {
	if from.Length() == 0 || to.Length() == 0 {
		return NewQuaternion()
	}
	f := from.Normalized().toMgl()
	t := to.Normalized().toMgl()

	w := 1 + f.Dot(t)
	if w < oppositeDirectionEpsilon {
		var axis mgl64.Vec3
		if math.Abs(f[0]) > math.Abs(f[2]) {
			axis = mgl64.Vec3{-f[1], f[0], 0}
		} else {
			axis = mgl64.Vec3{0, -f[2], f[1]}
		}
		return Quaternion{Quat: mgl64.Quat{W: 0, V: axis}}.Normalized()
	}
	return Quaternion{Quat: mgl64.Quat{W: w, V: f.Cross(t)}}.Normalized()
}

// NewQuaternionFromEulerOrder はラジアン角(x,y,z)を指定順の内因性回転で合成する。
// XYZ の場合 qX*qY*qZ となる。
func NewQuaternionFromEulerOrder(radians Vec3, order RotationOrder) Quaternion {
	q := NewQuaternion()
	for _, axis := range string(order) {
		switch axis {
		case 'X':
			q = q.Muled(NewQuaternionFromAxisAngle(UNIT_X_VEC3, radians.X))
		case 'Y':
			q = q.Muled(NewQuaternionFromAxisAngle(UNIT_Y_VEC3, radians.Y))
		case 'Z':
			q = q.Muled(NewQuaternionFromAxisAngle(UNIT_Z_VEC3, radians.Z))
		}
	}
	return q
}

// X はX成分を返す。
func (q Quaternion) X() float64 { return q.V[0] }

// Y はY成分を返す。
func (q Quaternion) Y() float64 { return q.V[1] }

// Z はZ成分を返す。
func (q Quaternion) Z() float64 { return q.V[2] }

// Muled は q*other を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{Quat: q.Quat.Mul(other.Quat)}
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	return Quaternion{Quat: q.Quat.Inverse()}
}

// Normalized は正規化したクォータニオンを返す。
func (q Quaternion) Normalized() Quaternion {
	if q.Quat.Len() == 0 {
		return NewQuaternion()
	}
	return Quaternion{Quat: q.Quat.Normalize()}
}

// Rotated はベクトルを回転させる。
func (q Quaternion) Rotated(v Vec3) Vec3 {
	return vec3FromMgl(q.Quat.Rotate(v.toMgl()))
}

// ToMat4 は回転行列を返す。
func (q Quaternion) ToMat4() Mat4 {
	return Mat4(q.Quat.Mat4())
}

// IsFinite は全成分が有限値か判定する。
func (q Quaternion) IsFinite() bool {
	for _, v := range []float64{q.W, q.V[0], q.V[1], q.V[2]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// NearEquals は成分ごとに許容誤差内で一致するか判定する。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	return math.Abs(q.W-other.W) <= epsilon &&
		math.Abs(q.V[0]-other.V[0]) <= epsilon &&
		math.Abs(q.V[1]-other.V[1]) <= epsilon &&
		math.Abs(q.V[2]-other.V[2]) <= epsilon
}

// SameRotation は符号反転を同一回転として一致判定する。
func (q Quaternion) SameRotation(other Quaternion, epsilon float64) bool {
	if q.NearEquals(other, epsilon) {
		return true
	}
	negated := Quaternion{Quat: mgl64.Quat{W: -other.W, V: other.V.Mul(-1)}}
	return q.NearEquals(negated, epsilon)
}

// String は表示用文字列を返す。
func (q Quaternion) String() string {
	return fmt.Sprintf("[x=%.6f, y=%.6f, z=%.6f, w=%.6f]", q.V[0], q.V[1], q.V[2], q.W)
}
