// 指示: miu200521358
package asf

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_model/linecursor"
	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
)

// limitPattern は limits の "(min max)" 1組に一致する。
var limitPattern = regexp.MustCompile(`\(\s*([^\s()]+)\s+([^\s()]+)\s*\)`)

// warnFunc は警告の記録先を表す。
type warnFunc func(id string, line int, format string, params ...any)

// parseBoneSpec は bonedata の1ブロックをボーン定義へ変換する。
// 値の解釈に失敗した項目は欠落扱いにし、ボーン自体は残す。name がない場合のみ false。
func parseBoneSpec(block linecursor.KeyValueBlock, beginLine int, warn warnFunc) (model.BoneSpec, bool) {
	spec := model.BoneSpec{Line: beginLine}

	name, ok := block.Get("name")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		warn(model.AsfWarningBoneNameMissing, beginLine, "name のないボーン定義を無視します")
		return model.BoneSpec{}, false
	}
	spec.Name = name

	if entry, ok := block.Entry("id"); ok {
		if id, err := strconv.Atoi(entry.Value); err == nil {
			spec.Id = id
		}
	}

	if entry, ok := block.Entry("direction"); ok {
		direction, parsed := mmath.ParseVec3(entry.Value)
		if parsed && !direction.IsZero() {
			spec.Direction = direction
			spec.HasDirection = true
		} else {
			warn(model.AsfWarningDirectionInvalid, entry.Line, "direction が不正です: bone=%s value=%q", name, entry.Value)
		}
	} else {
		warn(model.AsfWarningDirectionInvalid, beginLine, "direction がありません: bone=%s", name)
	}

	if entry, ok := block.Entry("length"); ok {
		length, err := strconv.ParseFloat(entry.Value, 64)
		if err == nil {
			spec.Length = length
		} else {
			warn(model.AsfWarningLengthInvalid, entry.Line, "length が不正なため0を使用します: bone=%s value=%q", name, entry.Value)
		}
	} else {
		warn(model.AsfWarningLengthInvalid, beginLine, "length がないため0を使用します: bone=%s", name)
	}

	if entry, ok := block.Entry("axis"); ok {
		axis, err := parseAxis(entry.Value)
		if err == nil {
			spec.Axis = axis
		} else {
			warn(model.AsfWarningAxisInvalid, entry.Line, "axis が不正です: bone=%s value=%q", name, entry.Value)
		}
	}

	if entry, ok := block.Entry("dof"); ok {
		channels, unknown := model.ParseDofChannels(entry.Value)
		spec.Dof = channels
		if len(unknown) > 0 {
			warn(model.AsfWarningDofUnknown, entry.Line, "未知のdofを無視します: bone=%s tokens=%v", name, unknown)
		}
	}

	if entry, ok := block.Entry("limits"); ok {
		limits, parsed := parseLimits(entry.Value)
		if parsed {
			spec.Limits = limits
		} else {
			warn(model.AsfWarningLimitsInvalid, entry.Line, "limits が不正です: bone=%s value=%q", name, entry.Value)
		}
	}

	return spec, true
}

// parseAxis は "a b c ORDER" を軸補正へ変換する。
func parseAxis(text string) (*model.AxisSpec, error) {
	fields := strings.Fields(text)
	if len(fields) != 4 {
		return nil, strconv.ErrSyntax
	}
	angles, ok := mmath.ParseVec3(strings.Join(fields[:3], " "))
	if !ok {
		return nil, strconv.ErrSyntax
	}
	order, err := mmath.ParseRotationOrder(fields[3])
	if err != nil {
		return nil, err
	}
	return &model.AxisSpec{Angles: angles, Order: order}, nil
}

// parseLimits は "(min max) (min max) ..." を可動範囲へ変換する。
func parseLimits(text string) ([]model.Limit, bool) {
	matches := limitPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, false
	}
	limits := make([]model.Limit, 0, len(matches))
	for _, match := range matches {
		minValue, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return nil, false
		}
		maxValue, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			return nil, false
		}
		limits = append(limits, model.Limit{Min: minValue, Max: maxValue})
	}
	return limits, true
}
