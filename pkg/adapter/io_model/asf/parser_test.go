// 指示: miu200521358
package asf

import (
	"math"
	"strings"
	"testing"

	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_common"
	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"github.com/miu200521358/mu_asfamc/pkg/shared/merr"
)

const testAsfText = `# AST/ASF file generated using VICON BodyLanguage
:version 1.10
:name VICON
:units
  mass 1.0
  length 0.45
  angle deg
:documentation
   .ast/.asf automatically generated from VICON data
   second line
:root
   order TX TY TZ RX RY RZ
   axis XYZ
   position 1 2 3
   orientation 0 0 0
:bonedata
  begin
     id 1
     name lhipjoint
     direction 0.692024 -0.648617 0.316857
     length 2.40241
     axis 0 20 -20 XYZ
  end
  begin
     id 2
     name lfemur
     direction 0.34202 -0.939693 0
     length 7.1578
     axis 0 0 20 XYZ
    dof rx ry rz
    limits (-160.0 20.0)
           (-70.0 70.0)
           (-60.0 70.0)
  end
  begin
     id 3
     name lowerback
     direction 0 1 0
     length 2
     axis 0 0 0 ZYX
    dof rx ry rz
  end
:hierarchy
  begin
    root lhipjoint lowerback ghost
    lhipjoint lfemur
  end
`

func mustParseSkeleton(t *testing.T, text string) *model.Skeleton {
	t.Helper()
	skeleton, err := ParseSkeleton(text)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return skeleton
}

func hasWarning(skeleton *model.Skeleton, id string) bool {
	for _, w := range skeleton.Warnings {
		if w.ID == id {
			return true
		}
	}
	return false
}

func TestParseSkeletonReadsSections(t *testing.T) {
	skeleton := mustParseSkeleton(t, testAsfText)

	if skeleton.Version != "1.10" || skeleton.Name != "VICON" {
		t.Fatalf("header mismatch: version=%s name=%s", skeleton.Version, skeleton.Name)
	}
	if skeleton.Units.Length != 0.45 || skeleton.Units.Angle != model.ANGLE_DEGREE {
		t.Fatalf("units mismatch: %+v", skeleton.Units)
	}
	if !strings.HasSuffix(skeleton.Documentation, "second line") {
		t.Fatalf("documentation mismatch: %q", skeleton.Documentation)
	}
	if !skeleton.Root.Position.NearEquals(mmath.NewVec3(1, 2, 3), 0) {
		t.Fatalf("root position mismatch: %v", skeleton.Root.Position)
	}
	if len(skeleton.Root.Order) != 6 || skeleton.Root.Order[0] != model.DOF_TX {
		t.Fatalf("root order mismatch: %v", skeleton.Root.Order)
	}
	if len(skeleton.Bones) != 3 {
		t.Fatalf("bone count mismatch: %d", len(skeleton.Bones))
	}

	femur, ok := skeleton.BoneSpecByName("lfemur")
	if !ok {
		t.Fatalf("lfemur spec missing")
	}
	if femur.Id != 2 || femur.Length != 7.1578 {
		t.Fatalf("lfemur spec mismatch: %+v", femur)
	}
	if femur.Axis == nil || femur.Axis.Order != mmath.ORDER_XYZ || femur.Axis.Angles.Z != 20 {
		t.Fatalf("lfemur axis mismatch: %+v", femur.Axis)
	}
	if len(femur.Dof) != 3 || femur.Dof[2] != model.DOF_RZ {
		t.Fatalf("lfemur dof mismatch: %v", femur.Dof)
	}
	if len(femur.Limits) != 3 || femur.Limits[0].Min != -160 || femur.Limits[2].Max != 70 {
		t.Fatalf("lfemur limits mismatch: %+v", femur.Limits)
	}
	if skeleton.Hash == "" {
		t.Fatalf("hash should be set")
	}
}

func TestParseSkeletonBuildsTreeFollowingHierarchy(t *testing.T) {
	skeleton := mustParseSkeleton(t, testAsfText)
	tree := skeleton.Tree

	if tree.Len() != 4 {
		t.Fatalf("node count mismatch: %v", tree.Names())
	}
	root := tree.Root()
	if root.Name != model.ROOT_BONE_NAME || !root.Position.NearEquals(mmath.NewVec3(1, 2, 3), 0) {
		t.Fatalf("root mismatch: %+v", root)
	}

	seen := map[string]int{}
	for _, node := range tree.Values() {
		seen[node.Name]++
	}
	for name, count := range seen {
		if count != 1 {
			t.Fatalf("bone should appear once: %s=%d", name, count)
		}
	}

	edges := map[string]string{"lhipjoint": "root", "lowerback": "root", "lfemur": "lhipjoint"}
	for child, parentName := range edges {
		node, ok := tree.GetByName(child)
		if !ok {
			t.Fatalf("bone missing: %s", child)
		}
		parent, ok := tree.Parent(node.Index)
		if !ok || parent.Name != parentName {
			t.Fatalf("parent mismatch: %s parent=%s want=%s", child, parent.Name, parentName)
		}
	}

	if _, ok := tree.GetByName("ghost"); ok {
		t.Fatalf("ghost should be skipped")
	}
	if !hasWarning(skeleton, model.AsfWarningHierarchyUnknownBone) {
		t.Fatalf("unknown bone warning missing")
	}
}

func TestParseSkeletonRestRotationsAndOffsets(t *testing.T) {
	skeleton := mustParseSkeleton(t, testAsfText)
	tree := skeleton.Tree

	hip, _ := tree.GetByName("lhipjoint")
	femur, _ := tree.GetByName("lfemur")

	if !hip.Position.NearEquals(mmath.ZERO_VEC3, 0) {
		t.Fatalf("root child should have zero offset: %v", hip.Position)
	}
	if !femur.Position.NearEquals(mmath.NewVec3(0, 0, 2.40241), 1e-12) {
		t.Fatalf("child offset should be parent length on +Z: %v", femur.Position)
	}

	if !hip.RestRotation.Rotated(mmath.UNIT_Z_VEC3).NearEquals(hip.Direction, 1e-9) {
		t.Fatalf("rest rotation should map +Z to direction")
	}
	if !femur.ParentRestRotation.NearEquals(hip.RestRotation, 1e-12) {
		t.Fatalf("parent rest rotation mismatch")
	}
	want := hip.RestRotation.Inverted().Muled(femur.RestRotation)
	if !femur.Orientation.NearEquals(want, 1e-12) {
		t.Fatalf("orientation mismatch: got=%s want=%s", femur.Orientation, want)
	}
	if math.Abs(femur.Direction.Length()-1) > 1e-9 {
		t.Fatalf("direction should be normalized: %v", femur.Direction)
	}

	if hip.IsAnimatable() {
		t.Fatalf("lhipjoint without dof should not be animatable")
	}
	if !femur.IsAnimatable() {
		t.Fatalf("lfemur should be animatable")
	}
}

func TestParseSkeletonSingleFemurExample(t *testing.T) {
	text := `:bonedata
begin
name lfemur
direction 0 -1 0
length 5
axis 0 0 0 XYZ
dof rx ry rz
end
:hierarchy
begin
root lfemur
end
`
	skeleton := mustParseSkeleton(t, text)
	femur, ok := skeleton.Tree.GetByName("lfemur")
	if !ok {
		t.Fatalf("lfemur missing")
	}
	want := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, math.Pi/2)
	if !femur.RestRotation.NearEquals(want, 1e-12) {
		t.Fatalf("rest rotation mismatch: got=%s want=%s", femur.RestRotation, want)
	}
	if !femur.Orientation.NearEquals(want, 1e-12) {
		t.Fatalf("orientation should equal rest rotation under root: %s", femur.Orientation)
	}
	if !hasWarning(skeleton, model.AsfWarningRootMissing) {
		t.Fatalf("root missing warning expected")
	}
}

func TestParseSkeletonNearOppositeDirection(t *testing.T) {
	text := `:bonedata
begin
name head
direction 0.03 0 -1
length 2
axis 0 0 0 XYZ
dof rx
end
:hierarchy
begin
root head
end
`
	skeleton := mustParseSkeleton(t, text)
	head, ok := skeleton.Tree.GetByName("head")
	if !ok {
		t.Fatalf("head missing")
	}
	want := mmath.NewVec3(0.03, 0, -1).Normalized()
	if got := head.RestRotation.Rotated(mmath.UNIT_Z_VEC3); !got.NearEquals(want, 1e-9) {
		t.Fatalf("rest rotation should map +Z to direction: got=%v want=%v", got, want)
	}
}

func TestParseSkeletonMissingBoneDataIsStructural(t *testing.T) {
	text := ":root\nposition 0 0 0\n:hierarchy\nbegin\nroot lfemur\nend\n"
	skeleton, err := ParseSkeleton(text)
	if err == nil {
		t.Fatalf("expected error")
	}
	if skeleton != nil {
		t.Fatalf("no partial skeleton should be returned")
	}
	if !merr.IsStructural(err) {
		t.Fatalf("expected structural error: %v", err)
	}
	if merr.ExtractErrorID(err) != io_common.IoSectionMissingID {
		t.Fatalf("expected id %s, got %s", io_common.IoSectionMissingID, merr.ExtractErrorID(err))
	}
	if !strings.Contains(err.Error(), "bonedata") {
		t.Fatalf("message should name the section: %v", err)
	}
}

func TestParseSkeletonMissingHierarchyIsStructural(t *testing.T) {
	text := ":bonedata\nbegin\nname a\ndirection 0 1 0\nlength 1\nend\n"
	_, err := ParseSkeleton(text)
	if !merr.IsStructural(err) || !strings.Contains(err.Error(), "hierarchy") {
		t.Fatalf("expected hierarchy structural error: %v", err)
	}
}

func TestParseSkeletonBoneDataWithoutBeginIsStructural(t *testing.T) {
	text := ":bonedata\nname a\nend\n:hierarchy\nbegin\nend\n"
	_, err := ParseSkeleton(text)
	if merr.ExtractErrorID(err) != io_common.IoStructureInvalidID {
		t.Fatalf("expected structure invalid error: %v", err)
	}
}

func TestParseSkeletonUnterminatedBlockIsStructural(t *testing.T) {
	text := ":bonedata\nbegin\nname a\n:hierarchy\nbegin\nroot a\nend\n"
	_, err := ParseSkeleton(text)
	if !merr.IsStructural(err) {
		t.Fatalf("expected structural error: %v", err)
	}
}

func TestParseSkeletonDegradesInvalidFields(t *testing.T) {
	text := `:units
angle sideways
:bonedata
begin
name nodir
length abc
axis 0 0 XYZ
dof rx qq
end
begin
direction 0 1 0
end
:hierarchy
begin
root nodir
end
`
	skeleton := mustParseSkeleton(t, text)
	node, ok := skeleton.Tree.GetByName("nodir")
	if !ok {
		t.Fatalf("bone without direction should still be placed")
	}
	if node.HasDirection || node.HasAxis || node.IsAnimatable() {
		t.Fatalf("bone should not be animatable: %+v", node)
	}
	if !node.RestRotation.NearEquals(mmath.NewQuaternion(), 0) {
		t.Fatalf("rest rotation should be identity")
	}
	if len(node.Dof) != 1 {
		t.Fatalf("unknown dof should be dropped: %v", node.Dof)
	}
	for _, id := range []string{
		model.AsfWarningUnitsInvalid,
		model.AsfWarningDirectionInvalid,
		model.AsfWarningLengthInvalid,
		model.AsfWarningAxisInvalid,
		model.AsfWarningDofUnknown,
		model.AsfWarningBoneNameMissing,
	} {
		if !hasWarning(skeleton, id) {
			t.Fatalf("warning missing: %s", id)
		}
	}
}

func TestParseSkeletonSkipsRevisitAndCycles(t *testing.T) {
	text := `:bonedata
begin
name a
direction 0 1 0
length 1
end
begin
name b
direction 1 0 0
length 1
end
:hierarchy
begin
root a b
a b
b a
end
`
	skeleton := mustParseSkeleton(t, text)
	if skeleton.Tree.Len() != 3 {
		t.Fatalf("each bone should appear once: %v", skeleton.Tree.Names())
	}
	b, _ := skeleton.Tree.GetByName("b")
	parent, _ := skeleton.Tree.Parent(b.Index)
	if parent.Name != "a" {
		t.Fatalf("first placement should win: parent=%s", parent.Name)
	}
	if !hasWarning(skeleton, model.AsfWarningHierarchyRevisit) {
		t.Fatalf("revisit warning missing")
	}
}

func TestParseSkeletonSkipsUnknownSectionAndDuplicates(t *testing.T) {
	text := `:version 1.10
:skin
foo.obj
:bonedata
begin
name a
direction 0 1 0
length 1
end
begin
name a
direction 1 0 0
length 3
end
:hierarchy
begin
root a
end
`
	skeleton := mustParseSkeleton(t, text)
	if !hasWarning(skeleton, model.AsfWarningUnknownSection) {
		t.Fatalf("unknown section warning missing")
	}
	if !hasWarning(skeleton, model.AsfWarningDuplicateBone) {
		t.Fatalf("duplicate warning missing")
	}
	if len(skeleton.Bones) != 1 || skeleton.Bones[0].Length != 3 {
		t.Fatalf("last duplicate should win: %+v", skeleton.Bones)
	}
}

func TestParseSkeletonBoneIDsAreStable(t *testing.T) {
	first := mustParseSkeleton(t, testAsfText)
	second := mustParseSkeleton(t, testAsfText)

	a, _ := first.Tree.GetByName("lfemur")
	b, _ := second.Tree.GetByName("lfemur")
	if a.ID != b.ID {
		t.Fatalf("bone id should be stable: %s != %s", a.ID, b.ID)
	}
	hip, _ := first.Tree.GetByName("lhipjoint")
	if hip.ID == a.ID {
		t.Fatalf("bone ids should differ per bone")
	}
}
