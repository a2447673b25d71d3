// 指示: miu200521358
package model

import "github.com/miu200521358/mu_asfamc/pkg/domain/mmath"

// ROOT_BONE_NAME は階層の起点となる予約名。
const ROOT_BONE_NAME = "root"

// AxisSpec はボーンのローカル座標補正を表す。
type AxisSpec struct {
	// Angles はスケルトンの角度単位で書かれた x,y,z 角。
	Angles mmath.Vec3
	Order  mmath.RotationOrder
}

// Limit は自由度1つ分の可動範囲を表す。
type Limit struct {
	Min float64
	Max float64
}

// BoneSpec は :bonedata の1ボーン分の定義を表す。
type BoneSpec struct {
	Id           int
	Name         string
	Direction    mmath.Vec3
	HasDirection bool
	Length       float64
	Axis         *AxisSpec
	Dof          []DofChannel
	Limits       []Limit
	Line         int
}

// HierarchyEntry は親ボーン名と子ボーン名一覧を表す。
type HierarchyEntry struct {
	Parent   string
	Children []string
	Line     int
}

// Hierarchy は :hierarchy セクションを表す。
type Hierarchy struct {
	Entries []HierarchyEntry
}

// Children は親名に対応する子名一覧を返す。同じ親が複数回ある場合は後勝ち。
func (h *Hierarchy) Children(parent string) []string {
	if h == nil {
		return nil
	}
	for i := len(h.Entries) - 1; i >= 0; i-- {
		if h.Entries[i].Parent == parent {
			return h.Entries[i].Children
		}
	}
	return nil
}

// RootSpec は :root セクションを表す。
type RootSpec struct {
	Order       []DofChannel
	Axis        string
	Position    mmath.Vec3
	Orientation mmath.Vec3
}

// Units は :units セクションを表す。
type Units struct {
	Mass   float64
	Length float64
	Angle  AngleUnit
	Raw    map[string]string
}

// NewUnits は既定単位を生成する。
func NewUnits() Units {
	return Units{Mass: 1, Length: 1, Angle: ANGLE_DEGREE, Raw: map[string]string{}}
}

// Skeleton はASFの解析結果と組み立て済みボーンツリーを表す。
type Skeleton struct {
	Version       string
	Name          string
	Units         Units
	Documentation string
	Root          RootSpec
	Bones         []BoneSpec
	Hierarchy     Hierarchy
	Warnings      []ParseWarning
	Hash          string
	Tree          *BoneTree
}

// BoneSpecByName は名前でボーン定義を返す。
func (s *Skeleton) BoneSpecByName(name string) (BoneSpec, bool) {
	if s == nil {
		return BoneSpec{}, false
	}
	for i := len(s.Bones) - 1; i >= 0; i-- {
		if s.Bones[i].Name == name {
			return s.Bones[i], true
		}
	}
	return BoneSpec{}, false
}
