// 指示: miu200521358
package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
	"github.com/tiendc/go-deepcopy"
)

// BoneNode は組み立て済みボーンツリーの1ノードを表す。
type BoneNode struct {
	Index        int
	Name         string
	ID           uuid.UUID
	ParentIndex  int
	ChildIndexes []int
	// Position は親ボーン座標系でのレスト位置。
	Position mmath.Vec3
	// Orientation は親のレスト回転を基準にしたローカルレスト回転。
	Orientation mmath.Quaternion
	// RestRotation は +Z をボーン方向へ向けるレスト回転。
	RestRotation mmath.Quaternion
	// ParentRestRotation は親ボーンのレスト回転。
	ParentRestRotation mmath.Quaternion
	Direction          mmath.Vec3
	HasDirection       bool
	Length             float64
	Axis               AxisSpec
	HasAxis            bool
	Dof                []DofChannel
	// AngleUnit は Axis の角度単位。
	AngleUnit AngleUnit
}

// IsRoot は合成ルートか判定する。
func (n BoneNode) IsRoot() bool {
	return n.ParentIndex < 0
}

// IsAnimatable は姿勢計算の対象か判定する。方向、軸補正、自由度が揃ったボーンのみ対象。
func (n BoneNode) IsAnimatable() bool {
	return !n.IsRoot() && n.HasDirection && n.HasAxis && len(n.Dof) > 0
}

// BoneTree はボーンノードを配列で保持するツリー。構築後は変更しない。
type BoneTree struct {
	nodes  []BoneNode
	byName map[string]int
}

// NewBoneTree はノード配列からツリーを構築する。
// 先頭は親を持たない合成ルートで、各ノードの親は自身より前に並んでいる必要がある。
func NewBoneTree(nodes []BoneNode) (*BoneTree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("ルートノードがありません")
	}
	if nodes[0].ParentIndex >= 0 {
		return nil, fmt.Errorf("先頭ノードが親を持っています: %s", nodes[0].Name)
	}

	tree := &BoneTree{
		nodes:  make([]BoneNode, len(nodes)),
		byName: make(map[string]int, len(nodes)),
	}
	for i, node := range nodes {
		if i > 0 && (node.ParentIndex < 0 || node.ParentIndex >= i) {
			return nil, fmt.Errorf("親インデックスが不正です: bone=%s parent=%d", node.Name, node.ParentIndex)
		}
		if _, exists := tree.byName[node.Name]; exists {
			return nil, fmt.Errorf("ボーン名が重複しています: %s", node.Name)
		}
		node.Index = i
		node.ChildIndexes = nil
		node.Dof = slices.Clone(node.Dof)
		tree.nodes[i] = node
		tree.byName[node.Name] = i
	}
	for i := 1; i < len(tree.nodes); i++ {
		parent := tree.nodes[i].ParentIndex
		tree.nodes[parent].ChildIndexes = append(tree.nodes[parent].ChildIndexes, i)
	}
	return tree, nil
}

// Len はノード数を返す。
func (t *BoneTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Root は合成ルートを返す。
func (t *BoneTree) Root() BoneNode {
	node, _ := t.Get(0)
	return node
}

// Get はインデックスのノード複製を返す。
func (t *BoneTree) Get(index int) (BoneNode, bool) {
	if t == nil || index < 0 || index >= len(t.nodes) {
		return BoneNode{}, false
	}
	return cloneBoneNode(t.nodes[index]), true
}

// GetByName は名前のノード複製を返す。
func (t *BoneTree) GetByName(name string) (BoneNode, bool) {
	if t == nil {
		return BoneNode{}, false
	}
	index, ok := t.byName[name]
	if !ok {
		return BoneNode{}, false
	}
	return t.Get(index)
}

// Parent は親ノードを返す。ルートの場合は false。
func (t *BoneTree) Parent(index int) (BoneNode, bool) {
	node, ok := t.Get(index)
	if !ok || node.IsRoot() {
		return BoneNode{}, false
	}
	return t.Get(node.ParentIndex)
}

// Children は子ノードを宣言順で返す。
func (t *BoneTree) Children(index int) []BoneNode {
	node, ok := t.Get(index)
	if !ok {
		return nil
	}
	children := make([]BoneNode, 0, len(node.ChildIndexes))
	for _, childIndex := range node.ChildIndexes {
		child, _ := t.Get(childIndex)
		children = append(children, child)
	}
	return children
}

// Values は全ノードを深さ優先の先行順で返す。
func (t *BoneTree) Values() []BoneNode {
	if t == nil {
		return nil
	}
	values := make([]BoneNode, 0, len(t.nodes))
	for _, node := range t.nodes {
		values = append(values, cloneBoneNode(node))
	}
	return values
}

// Names は全ノード名を先行順で返す。
func (t *BoneTree) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.nodes))
	for _, node := range t.nodes {
		names = append(names, node.Name)
	}
	return names
}

// Copy はツリー全体を複製する。
func (t *BoneTree) Copy() (*BoneTree, error) {
	if t == nil {
		return nil, nil
	}
	nodes := make([]BoneNode, 0, len(t.nodes))
	if err := deepcopy.Copy(&nodes, t.nodes); err != nil {
		return nil, err
	}
	return NewBoneTree(nodes)
}

// cloneBoneNode はスライスを共有しないノード複製を返す。
func cloneBoneNode(node BoneNode) BoneNode {
	node.ChildIndexes = slices.Clone(node.ChildIndexes)
	node.Dof = slices.Clone(node.Dof)
	return node
}
