// 指示: miu200521358
package minteractor

import (
	"fmt"
	"math"
	"testing"

	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"github.com/miu200521358/mu_asfamc/pkg/shared/merr"
)

const poseEpsilon = 1e-9

// femurAsf は root 直下に lfemur を1本だけ持つASFを生成する。
func femurAsf(units string, axis string, dof string) string {
	return fmt.Sprintf(`:units
  angle %s
:root
  position 0 0 0
:bonedata
  begin
    id 1
    name lfemur
    direction 0 -1 0
    length 5
    axis %s
    dof %s
  end
:hierarchy
  begin
    root lfemur
  end
`, units, axis, dof)
}

func mustTree(t *testing.T, asfText string) *model.BoneTree {
	t.Helper()
	skeleton, err := ParseSkeleton(asfText)
	if err != nil {
		t.Fatalf("skeleton parse failed: %v", err)
	}
	return skeleton.Tree
}

func mustClip(t *testing.T, tree *model.BoneTree, amcText string) *model.AnimationClip {
	t.Helper()
	clip, err := ParseMotion(amcText, tree, "test")
	if err != nil {
		t.Fatalf("motion parse failed: %v", err)
	}
	return clip
}

func degX(degree float64) mmath.Quaternion {
	return mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, mmath.DegToRad(degree))
}

func degY(degree float64) mmath.Quaternion {
	return mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Y_VEC3, mmath.DegToRad(degree))
}

func degZ(degree float64) mmath.Quaternion {
	return mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, mmath.DegToRad(degree))
}

func TestParseMotionFemurClosedForm(t *testing.T) {
	tree := mustTree(t, femurAsf("deg", "0 0 0 XYZ", "rx ry rz"))
	clip := mustClip(t, tree, "1\nlfemur 10 0 0\n")

	if clip.Name != "test" || len(clip.Tracks) != 1 {
		t.Fatalf("clip mismatch: name=%s tracks=%d", clip.Name, len(clip.Tracks))
	}
	track, ok := clip.Track("lfemur")
	if !ok || len(track.Keyframes) != 1 {
		t.Fatalf("lfemur track mismatch")
	}
	femur, _ := tree.GetByName("lfemur")
	if track.BoneID != femur.ID {
		t.Fatalf("track should be keyed by bone id")
	}

	keyframe := track.Keyframes[0]
	if math.Abs(keyframe.Time-1.0/120.0) > poseEpsilon || keyframe.Frame != 1 {
		t.Fatalf("keyframe time mismatch: %f", keyframe.Time)
	}
	want := mmath.NewQuaternionByValues(math.Sin(mmath.DegToRad(50)), 0, 0, math.Cos(mmath.DegToRad(50)))
	if !keyframe.Rotation.SameRotation(want, poseEpsilon) {
		t.Fatalf("rotation mismatch: got=%s want=%s", keyframe.Rotation, want)
	}
	if math.Abs(clip.Duration-1.0/120.0) > poseEpsilon {
		t.Fatalf("duration mismatch: %f", clip.Duration)
	}
	if clip.FrameRate != model.FRAME_RATE {
		t.Fatalf("frame rate mismatch: %f", clip.FrameRate)
	}
}

func TestParseMotionZeroChannelsReproduceBindOrientation(t *testing.T) {
	tree := mustTree(t, `:bonedata
begin
name lhipjoint
direction 0.692024 -0.648617 0.316857
length 2.40241
axis 0 0 0 XYZ
dof rz
end
begin
name lfemur
direction 0.34202 -0.939693 0
length 7.1578
axis 0 0 20 XYZ
dof rx ry rz
end
:hierarchy
begin
root lhipjoint
lhipjoint lfemur
end
`)
	clip := mustClip(t, tree, "0\nlhipjoint 0\nlfemur 0 0 0\n1\nlhipjoint 0\nlfemur 0 0 0\n")

	for _, name := range []string{"lhipjoint", "lfemur"} {
		node, _ := tree.GetByName(name)
		track, ok := clip.Track(name)
		if !ok || len(track.Keyframes) != 1 {
			t.Fatalf("track mismatch: %s", name)
		}
		if !track.Keyframes[0].Rotation.SameRotation(node.Orientation, poseEpsilon) {
			t.Fatalf("bind orientation mismatch: %s got=%s want=%s", name, track.Keyframes[0].Rotation, node.Orientation)
		}
	}
}

func TestParseMotionSkipsFrameZeroAndUsesMaxFrameForDuration(t *testing.T) {
	tree := mustTree(t, femurAsf("deg", "0 0 0 XYZ", "rx ry rz"))
	clip := mustClip(t, tree, "0\nlfemur 5 0 0\n7\nlfemur 1 0 0\n3\nlfemur 2 0 0\n")

	track, _ := clip.Track("lfemur")
	if len(track.Keyframes) != 2 {
		t.Fatalf("frame 0 should not be keyed: %d", len(track.Keyframes))
	}
	if track.Keyframes[0].Frame != 3 || track.Keyframes[1].Frame != 7 {
		t.Fatalf("keyframes should follow frame order: %d %d", track.Keyframes[0].Frame, track.Keyframes[1].Frame)
	}
	if math.Abs(clip.Duration-7.0/120.0) > poseEpsilon {
		t.Fatalf("duration mismatch: %f", clip.Duration)
	}

	onlyRest := mustClip(t, tree, "0\nlfemur 5 0 0\n")
	if len(onlyRest.Tracks) != 0 || onlyRest.Duration != 0 {
		t.Fatalf("rest-only motion should produce no track: tracks=%d duration=%f", len(onlyRest.Tracks), onlyRest.Duration)
	}
}

func TestParseMotionChannelMismatchFallsBackToIdentity(t *testing.T) {
	tree := mustTree(t, femurAsf("deg", "0 0 0 XYZ", "rx ry rz"))
	clip := mustClip(t, tree, "1\nlfemur 10 0\n2\nlfemur a b c\n3\nlfemur 10 0 0 0\n")
	femur, _ := tree.GetByName("lfemur")

	track, _ := clip.Track("lfemur")
	if len(track.Keyframes) != 3 {
		t.Fatalf("mismatched frames should still be keyed: %d", len(track.Keyframes))
	}
	for _, keyframe := range track.Keyframes {
		if !keyframe.Rotation.IsFinite() {
			t.Fatalf("rotation should be finite: frame=%d", keyframe.Frame)
		}
		if !keyframe.Rotation.SameRotation(femur.Orientation, poseEpsilon) {
			t.Fatalf("identity transform expected: frame=%d got=%s", keyframe.Frame, keyframe.Rotation)
		}
	}
	if clip.Diagnostics.ChannelMismatchCount != 3 {
		t.Fatalf("mismatch count mismatch: %d", clip.Diagnostics.ChannelMismatchCount)
	}
}

func TestParseMotionRadiansFlag(t *testing.T) {
	tree := mustTree(t, femurAsf("deg", "0 0 0 XYZ", "rx ry rz"))
	clip := mustClip(t, tree, ":RADIANS\n1\nlfemur 0.5 0 0\n")

	track, _ := clip.Track("lfemur")
	want := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, 0.5+math.Pi/2)
	if !track.Keyframes[0].Rotation.SameRotation(want, poseEpsilon) {
		t.Fatalf("radian channel mismatch: got=%s want=%s", track.Keyframes[0].Rotation, want)
	}
}

func TestParseMotionSkeletonRadianUnitAppliesToAxisAndChannels(t *testing.T) {
	tree := mustTree(t, femurAsf("rad", fmt.Sprintf("0 0 %v XYZ", math.Pi/2), "rx"))
	clip := mustClip(t, tree, "1\nlfemur 0.25\n")

	// Z90 の軸補正下で rx は Y軸回りの回転になる。
	track, _ := clip.Track("lfemur")
	want := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Y_VEC3, 0.25).Muled(degX(90))
	if !track.Keyframes[0].Rotation.SameRotation(want, poseEpsilon) {
		t.Fatalf("rotation mismatch: got=%s want=%s", track.Keyframes[0].Rotation, want)
	}
}

func TestParseMotionAxisCorrectionConjugates(t *testing.T) {
	tree := mustTree(t, femurAsf("deg", "0 0 90 XYZ", "rx"))
	clip := mustClip(t, tree, "1\nlfemur 10\n")

	track, _ := clip.Track("lfemur")
	want := degY(10).Muled(degX(90))
	if !track.Keyframes[0].Rotation.SameRotation(want, poseEpsilon) {
		t.Fatalf("rotation mismatch: got=%s want=%s", track.Keyframes[0].Rotation, want)
	}
}

func TestParseMotionAllRotationOrders(t *testing.T) {
	angles := mmath.NewVec3(10, 20, 30)
	for _, order := range mmath.RotationOrders() {
		tree := mustTree(t, femurAsf("deg", fmt.Sprintf("10 20 30 %s", order), "rx"))
		clip := mustClip(t, tree, "1\nlfemur 15\n")

		axis := mmath.NewQuaternionFromEulerOrder(
			mmath.NewVec3(mmath.DegToRad(angles.X), mmath.DegToRad(angles.Y), mmath.DegToRad(angles.Z)),
			order,
		)
		want := axis.Muled(degX(15)).Muled(axis.Inverted()).Muled(degX(90))
		track, ok := clip.Track("lfemur")
		if !ok {
			t.Fatalf("track missing: order=%s", order)
		}
		if !track.Keyframes[0].Rotation.SameRotation(want, poseEpsilon) {
			t.Fatalf("rotation mismatch: order=%s got=%s want=%s", order, track.Keyframes[0].Rotation, want)
		}
	}
}

func TestParseMotionChannelsComposeInDofOrder(t *testing.T) {
	tree := mustTree(t, femurAsf("deg", "0 0 0 XYZ", "rz rx"))
	clip := mustClip(t, tree, "1\nlfemur 30 40\n")

	track, _ := clip.Track("lfemur")
	want := degX(40).Muled(degZ(30)).Muled(degX(90))
	if !track.Keyframes[0].Rotation.SameRotation(want, poseEpsilon) {
		t.Fatalf("rotation mismatch: got=%s want=%s", track.Keyframes[0].Rotation, want)
	}
}

func TestParseMotionTranslationChannelsDoNotRotate(t *testing.T) {
	tree := mustTree(t, femurAsf("deg", "0 0 0 XYZ", "tx ty tz rx l"))
	clip := mustClip(t, tree, "1\nlfemur 1 2 3 10 4\n")

	track, _ := clip.Track("lfemur")
	if !track.Keyframes[0].Rotation.SameRotation(degX(100), poseEpsilon) {
		t.Fatalf("rotation mismatch: got=%s", track.Keyframes[0].Rotation)
	}
	if clip.Diagnostics.ChannelMismatchCount != 0 {
		t.Fatalf("no mismatch expected")
	}
}

func TestParseMotionMissingChannelsAndSkippedBones(t *testing.T) {
	tree := mustTree(t, `:bonedata
begin
name lhipjoint
direction 0 -1 0
length 2
axis 0 0 0 XYZ
end
begin
name lfemur
direction 0 -1 0
length 5
axis 0 0 0 XYZ
dof rx
end
begin
name rfemur
direction 0 -1 0
length 5
axis 0 0 0 XYZ
dof rx
end
:hierarchy
begin
root lhipjoint rfemur
lhipjoint lfemur
end
`)
	clip := mustClip(t, tree, "1\nlfemur 10\n2\nlfemur 20\nlhipjoint 5\n")

	if _, ok := clip.Track("rfemur"); ok {
		t.Fatalf("bone without channels should have no track")
	}
	if _, ok := clip.Track("lhipjoint"); ok {
		t.Fatalf("bone without dof should have no track")
	}
	if clip.Diagnostics.MissingChannelCount != 2 {
		t.Fatalf("missing count mismatch: %d", clip.Diagnostics.MissingChannelCount)
	}
	if len(clip.Diagnostics.SkippedBones) != 1 || clip.Diagnostics.SkippedBones[0] != "lhipjoint" {
		t.Fatalf("skipped bones mismatch: %v", clip.Diagnostics.SkippedBones)
	}
	track, _ := clip.Track("lfemur")
	if len(track.Keyframes) != 2 {
		t.Fatalf("lfemur keyframes mismatch: %d", len(track.Keyframes))
	}
}

func TestBuildAnimationClipOptionsAndErrors(t *testing.T) {
	tree := mustTree(t, femurAsf("deg", "0 0 0 XYZ", "rx"))
	data, err := ParseMotionData("4\nlfemur 1\n", tree, "slow", PoseOptions{SecondsPerFrame: 0.5})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if data.Clip.Duration != 2 || data.Clip.FrameRate != 2 {
		t.Fatalf("custom timing mismatch: duration=%f rate=%f", data.Clip.Duration, data.Clip.FrameRate)
	}
	if data.Clip.Tracks[0].Keyframes[0].Time != 2 {
		t.Fatalf("keyframe time mismatch: %f", data.Clip.Tracks[0].Keyframes[0].Time)
	}

	if _, err := BuildAnimationClip(nil, model.NewMotion(), "x", DefaultPoseOptions()); merr.ExtractErrorID(err) != UsecaseInputMissingID {
		t.Fatalf("nil tree should fail with input id: %v", err)
	}
	if _, err := BuildAnimationClip(tree, nil, "x", DefaultPoseOptions()); merr.ExtractErrorID(err) != UsecaseInputMissingID {
		t.Fatalf("nil motion should fail with input id: %v", err)
	}
	if _, err := ParseMotion("1\nlfemur 1\n", nil, "x"); merr.ExtractErrorID(err) != UsecaseInputMissingID {
		t.Fatalf("nil tree should fail with input id: %v", err)
	}
	if _, err := ParseMotion("", tree, "x"); err == nil {
		t.Fatalf("empty motion text should fail")
	}
}

func TestChannelTransformComposition(t *testing.T) {
	dof := []model.DofChannel{model.DOF_RX, model.DOF_TY}
	transform, ok := channelTransform(dof, "90 2", model.ANGLE_DEGREE)
	if !ok {
		t.Fatalf("transform should succeed")
	}
	// 平行移動は回転の後に左から掛かるため、回転されない。
	if !transform.Translation().NearEquals(mmath.NewVec3(0, 2, 0), poseEpsilon) {
		t.Fatalf("translation mismatch: %v", transform.Translation())
	}

	reversed, _ := channelTransform([]model.DofChannel{model.DOF_TY, model.DOF_RX}, "2 90", model.ANGLE_DEGREE)
	if !reversed.Translation().NearEquals(mmath.NewVec3(0, 0, 2), poseEpsilon) {
		t.Fatalf("translation should be rotated: %v", reversed.Translation())
	}

	if _, ok := channelTransform(dof, "1", model.ANGLE_DEGREE); ok {
		t.Fatalf("count mismatch should fail")
	}
	if _, ok := channelTransform(dof, "1 NaN", model.ANGLE_DEGREE); ok {
		t.Fatalf("NaN should fail")
	}

	withLength, ok := channelTransform([]model.DofChannel{model.DOF_RX, model.DOF_L}, "90 5", model.ANGLE_DEGREE)
	if !ok || !withLength.NearEquals(mmath.NewRotationXMat4(math.Pi/2), poseEpsilon) {
		t.Fatalf("length channel should not change the transform")
	}
}
