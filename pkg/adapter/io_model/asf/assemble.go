// 指示: miu200521358
package asf

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_common"
	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
)

// treeAssembler はボーン定義と階層からツリーを組み立てる状態を保持する。
type treeAssembler struct {
	skeleton *model.Skeleton
	specs    map[string]model.BoneSpec
	nodes    []model.BoneNode
	placed   map[string]bool
}

// BuildBoneTree は合成ルートから階層を辿ってボーンツリーを組み立てる。
// bonedata にない子名と、配置済みボーンの再登場は警告にして読み飛ばす。
func BuildBoneTree(skeleton *model.Skeleton) (*model.BoneTree, error) {
	if skeleton == nil {
		return nil, io_common.NewIoParseFailed("スケルトンがありません", nil)
	}
	a := &treeAssembler{
		skeleton: skeleton,
		specs:    make(map[string]model.BoneSpec, len(skeleton.Bones)),
		nodes:    make([]model.BoneNode, 0, len(skeleton.Bones)+1),
		placed:   map[string]bool{model.ROOT_BONE_NAME: true},
	}
	for _, spec := range skeleton.Bones {
		a.specs[spec.Name] = spec
	}

	identity := mmath.NewQuaternion()
	a.nodes = append(a.nodes, model.BoneNode{
		Name:               model.ROOT_BONE_NAME,
		ID:                 boneID(skeleton.Hash, model.ROOT_BONE_NAME),
		ParentIndex:        -1,
		Position:           skeleton.Root.Position,
		Orientation:        identity,
		RestRotation:       identity,
		ParentRestRotation: identity,
		AngleUnit:          skeleton.Units.Angle,
	})
	for _, childName := range skeleton.Hierarchy.Children(model.ROOT_BONE_NAME) {
		a.place(0, childName, mmath.ZERO_VEC3, identity, lineOfParent(skeleton, model.ROOT_BONE_NAME))
	}

	tree, err := model.NewBoneTree(a.nodes)
	if err != nil {
		return nil, io_common.NewIoParseFailed("ボーンツリーの構築に失敗しました", err)
	}
	logAsfDebug("ASFボーンツリー構築完了: nodes=%d", tree.Len())
	return tree, nil
}

// place は子ボーンを配置し、その子孫を再帰的に配置する。
func (a *treeAssembler) place(
	parentIndex int,
	name string,
	offset mmath.Vec3,
	parentRestRotation mmath.Quaternion,
	line int,
) {
	if a.placed[name] {
		a.warn(model.AsfWarningHierarchyRevisit, line, "配置済みのボーンを読み飛ばします: %s", name)
		return
	}
	spec, ok := a.specs[name]
	if !ok {
		a.warn(model.AsfWarningHierarchyUnknownBone, line, "bonedata にないボーンを読み飛ばします: %s", name)
		return
	}
	a.placed[name] = true

	direction := spec.Direction.Normalized()
	restRotation := mmath.NewQuaternion()
	if spec.HasDirection {
		restRotation = mmath.NewQuaternionFromDirections(mmath.UNIT_Z_VEC3, direction)
	}

	node := model.BoneNode{
		Name:               name,
		ID:                 boneID(a.skeleton.Hash, name),
		ParentIndex:        parentIndex,
		Position:           offset,
		Orientation:        parentRestRotation.Inverted().Muled(restRotation),
		RestRotation:       restRotation,
		ParentRestRotation: parentRestRotation,
		Direction:          direction,
		HasDirection:       spec.HasDirection,
		Length:             spec.Length,
		Dof:                spec.Dof,
		AngleUnit:          a.skeleton.Units.Angle,
	}
	if spec.Axis != nil {
		node.Axis = *spec.Axis
		node.HasAxis = true
	}
	index := len(a.nodes)
	a.nodes = append(a.nodes, node)

	childOffset := mmath.NewVec3(0, 0, spec.Length)
	childLine := lineOfParent(a.skeleton, name)
	for _, childName := range a.skeleton.Hierarchy.Children(name) {
		a.place(index, childName, childOffset, restRotation, childLine)
	}
}

// warn は警告を記録してログへ出力する。
func (a *treeAssembler) warn(id string, line int, format string, params ...any) {
	warning := model.ParseWarning{ID: id, Line: line, Detail: fmt.Sprintf(format, params...)}
	a.skeleton.Warnings = append(a.skeleton.Warnings, warning)
	logAsfWarn("ASF警告: %s", warning.String())
}

// lineOfParent は階層で親名が書かれた行番号を返す。
func lineOfParent(skeleton *model.Skeleton, parent string) int {
	for i := len(skeleton.Hierarchy.Entries) - 1; i >= 0; i-- {
		if skeleton.Hierarchy.Entries[i].Parent == parent {
			return skeleton.Hierarchy.Entries[i].Line
		}
	}
	return 0
}

// boneID はスケルトン内容とボーン名から決定的なIDを生成する。
func boneID(skeletonHash string, name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(skeletonHash+"/"+name))
}
