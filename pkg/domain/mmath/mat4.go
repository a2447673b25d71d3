// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 は列優先の4x4行列を表す。
type Mat4 mgl64.Mat4

// NewMat4 は単位行列を生成する。
func NewMat4() Mat4 {
	return Mat4(mgl64.Ident4())
}

// NewRotationXMat4 はX軸回転行列(ラジアン)を生成する。
func NewRotationXMat4(radian float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DX(radian))
}

// NewRotationYMat4 はY軸回転行列(ラジアン)を生成する。
func NewRotationYMat4(radian float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DY(radian))
}

// NewRotationZMat4 はZ軸回転行列(ラジアン)を生成する。
func NewRotationZMat4(radian float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DZ(radian))
}

// Muled は m*other を返す。
func (m Mat4) Muled(other Mat4) Mat4 {
	return Mat4(mgl64.Mat4(m).Mul4(mgl64.Mat4(other)))
}

// At は行rowと列colの要素を返す。
func (m Mat4) At(row, col int) float64 {
	return m[col*4+row]
}

// Translation は平行移動成分を返す。
func (m Mat4) Translation() Vec3 {
	return NewVec3(m[12], m[13], m[14])
}

// Decompose は行列を平行移動、回転、スケールへ分解する。
// 行列式が負の場合はX軸スケールを反転させる。
func (m Mat4) Decompose() (Vec3, Quaternion, Vec3) {
	sx := NewVec3(m[0], m[1], m[2]).Length()
	sy := NewVec3(m[4], m[5], m[6]).Length()
	sz := NewVec3(m[8], m[9], m[10]).Length()
	if mgl64.Mat4(m).Det() < 0 {
		sx = -sx
	}

	rotation := mgl64.Ident4()
	for col, s := range []float64{sx, sy, sz} {
		if s == 0 || math.IsNaN(s) {
			continue
		}
		for row := 0; row < 3; row++ {
			rotation[col*4+row] = m[col*4+row] / s
		}
	}

	q := Quaternion{Quat: mgl64.Mat4ToQuat(rotation)}.Normalized()
	return m.Translation(), q, NewVec3(sx, sy, sz)
}

// NearEquals は許容誤差内で一致するか判定する。
func (m Mat4) NearEquals(other Mat4, epsilon float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > epsilon {
			return false
		}
	}
	return true
}
