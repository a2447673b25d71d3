// 指示: miu200521358
package asf

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_common"
	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_model/linecursor"
	"github.com/miu200521358/mu_asfamc/pkg/domain/mmath"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"github.com/miu200521358/mu_asfamc/pkg/shared/logging"
	"github.com/zeebo/blake3"
)

const (
	sectionVersion       = "version"
	sectionName          = "name"
	sectionUnits         = "units"
	sectionDocumentation = "documentation"
	sectionRoot          = "root"
	sectionBoneData      = "bonedata"
	sectionHierarchy     = "hierarchy"
)

// stopAtEndOrSection は end 行または次セクション行で止まる。
var stopAtEndOrSection = linecursor.StopAtPrefixes("end", ":")

// stopAtSection は次セクション行で止まる。
var stopAtSection = linecursor.StopAtPrefixes(":")

// skeletonParser はASF解析中の状態を保持する。
type skeletonParser struct {
	cursor   *linecursor.Cursor
	skeleton *model.Skeleton
	sections map[string]bool
	boneRefs map[string]int
}

// ParseSkeleton はASFテキストを解析し、ボーンツリーまで組み立てる。
// :bonedata または :hierarchy がない場合は構造エラーを返し、部分的な結果は返さない。
func ParseSkeleton(text string) (*model.Skeleton, error) {
	sum := blake3.Sum256([]byte(text))
	p := &skeletonParser{
		cursor: linecursor.New(text),
		skeleton: &model.Skeleton{
			Units:    model.NewUnits(),
			Bones:    make([]model.BoneSpec, 0),
			Warnings: make([]model.ParseWarning, 0),
			Hash:     hex.EncodeToString(sum[:]),
		},
		sections: map[string]bool{},
		boneRefs: map[string]int{},
	}
	logAsfDebug("ASF解析開始: lines=%d hash=%s", strings.Count(text, "\n")+1, p.skeleton.Hash)

	if err := p.parseSections(); err != nil {
		return nil, err
	}
	for _, required := range []string{sectionBoneData, sectionHierarchy} {
		if !p.sections[required] {
			return nil, io_common.NewIoSectionMissing(required)
		}
	}
	if !p.sections[sectionRoot] {
		p.warn(model.AsfWarningRootMissing, 0, ":root セクションがないため原点を使用します")
	}

	tree, err := BuildBoneTree(p.skeleton)
	if err != nil {
		return nil, err
	}
	p.skeleton.Tree = tree
	logAsfInfo(
		"ASF解析完了: name=%s bones=%d nodes=%d warnings=%d",
		p.skeleton.Name,
		len(p.skeleton.Bones),
		tree.Len(),
		len(p.skeleton.Warnings),
	)
	return p.skeleton, nil
}

// parseSections はトップレベルのセクション行を順に処理する。
func (p *skeletonParser) parseSections() error {
	for {
		line, ok := p.cursor.NextSignificant()
		if !ok {
			return nil
		}
		if !line.HasPrefix(":") {
			continue
		}

		keyword, rest := splitSectionLine(line.Text)
		p.sections[keyword] = true
		switch keyword {
		case sectionVersion:
			p.skeleton.Version = rest
		case sectionName:
			p.skeleton.Name = rest
		case sectionUnits:
			p.applyUnits(p.cursor.ReadBlock(stopAtEndOrSection))
		case sectionDocumentation:
			p.skeleton.Documentation = joinDocumentation(p.cursor.ReadRaw(stopAtSection))
		case sectionRoot:
			p.applyRoot(p.cursor.ReadBlock(stopAtEndOrSection))
		case sectionBoneData:
			if err := p.parseBoneData(); err != nil {
				return err
			}
		case sectionHierarchy:
			if err := p.parseHierarchy(); err != nil {
				return err
			}
		default:
			skipped := p.cursor.ReadRaw(stopAtSection)
			p.warn(model.AsfWarningUnknownSection, line.Number, "未対応セクションを読み飛ばしました: %s (%d行)", line.Text, len(skipped))
		}
	}
}

// splitSectionLine は ":name value" をキーワードと値に分割する。
func splitSectionLine(text string) (string, string) {
	body := strings.TrimPrefix(text, ":")
	keyword, rest, found := linecursor.SplitKeyValue(body)
	if !found {
		return strings.ToLower(strings.TrimSpace(body)), ""
	}
	return strings.ToLower(keyword), rest
}

// joinDocumentation はドキュメント行を結合し、末尾の空行を除く。
func joinDocumentation(lines []linecursor.Line) string {
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}
	return strings.TrimRight(strings.Join(texts, "\n"), "\n")
}

// applyUnits は :units ブロックを単位へ反映する。
func (p *skeletonParser) applyUnits(block linecursor.KeyValueBlock) {
	for _, entry := range block.Entries {
		p.skeleton.Units.Raw[entry.Key] = entry.Value
		switch strings.ToLower(entry.Key) {
		case "mass", "length":
			value, err := strconv.ParseFloat(entry.Value, 64)
			if err != nil {
				p.warn(model.AsfWarningUnitsInvalid, entry.Line, "units %s の値が不正です: %q", entry.Key, entry.Value)
				continue
			}
			if strings.EqualFold(entry.Key, "mass") {
				p.skeleton.Units.Mass = value
			} else {
				p.skeleton.Units.Length = value
			}
		case "angle":
			unit, ok := model.ParseAngleUnit(entry.Value)
			if !ok {
				p.warn(model.AsfWarningUnitsInvalid, entry.Line, "units angle の値が不正です: %q", entry.Value)
				continue
			}
			p.skeleton.Units.Angle = unit
		}
	}
}

// applyRoot は :root ブロックをルート定義へ反映する。
func (p *skeletonParser) applyRoot(block linecursor.KeyValueBlock) {
	root := model.RootSpec{Position: mmath.ZERO_VEC3, Orientation: mmath.ZERO_VEC3}
	if order, ok := block.Get("order"); ok {
		channels, unknown := model.ParseDofChannels(order)
		root.Order = channels
		if len(unknown) > 0 {
			entry, _ := block.Entry("order")
			p.warn(model.AsfWarningDofUnknown, entry.Line, "root order に未知のチャンネルがあります: %v", unknown)
		}
	}
	if axis, ok := block.Get("axis"); ok {
		root.Axis = axis
	}
	if entry, ok := block.Entry("position"); ok {
		if position, parsed := mmath.ParseVec3(entry.Value); parsed {
			root.Position = position
		} else {
			p.warn(model.AsfWarningRootPositionInvalid, entry.Line, "root position が不正なため原点を使用します: %q", entry.Value)
		}
	}
	if entry, ok := block.Entry("orientation"); ok {
		if orientation, parsed := mmath.ParseVec3(entry.Value); parsed {
			root.Orientation = orientation
		}
	}
	p.skeleton.Root = root
}

// parseBoneData は begin/end ブロックを次セクションまで繰り返し読む。
func (p *skeletonParser) parseBoneData() error {
	for {
		line, ok := p.cursor.PeekSignificant()
		if !ok || line.HasPrefix(":") {
			return nil
		}
		block, err := p.readBeginEnd(sectionBoneData)
		if err != nil {
			return err
		}
		p.addBoneSpec(parseBoneSpec(block, line.Number, p.warn))
	}
}

// parseHierarchy は1つの begin/end ブロックを親→子一覧として読む。
func (p *skeletonParser) parseHierarchy() error {
	block, err := p.readBeginEnd(sectionHierarchy)
	if err != nil {
		return err
	}
	entries := make([]model.HierarchyEntry, 0, block.Len())
	for _, entry := range block.Entries {
		entries = append(entries, model.HierarchyEntry{
			Parent:   entry.Key,
			Children: strings.Fields(entry.Value),
			Line:     entry.Line,
		})
	}
	p.skeleton.Hierarchy.Entries = append(p.skeleton.Hierarchy.Entries, entries...)
	return nil
}

// readBeginEnd は begin 行、キー値ブロック、end 行を読む。
func (p *skeletonParser) readBeginEnd(section string) (linecursor.KeyValueBlock, error) {
	begin, ok := p.cursor.NextSignificant()
	if !ok {
		return linecursor.KeyValueBlock{}, io_common.NewIoStructureInvalid(0, ":%s の begin がありません", section)
	}
	if !begin.HasPrefix("begin") {
		return linecursor.KeyValueBlock{}, io_common.NewIoStructureInvalid(
			begin.Number, ":%s の begin がありません: %q", section, begin.Text)
	}

	block := p.cursor.ReadBlock(stopAtEndOrSection)
	end, ok := p.cursor.Peek()
	if !ok || !end.HasPrefix("end") {
		return linecursor.KeyValueBlock{}, io_common.NewIoStructureInvalid(
			begin.Number, ":%s の begin に対応する end がありません", section)
	}
	p.cursor.Next()
	return block, nil
}

// addBoneSpec はボーン定義を追加する。同名は後勝ちで置き換える。
func (p *skeletonParser) addBoneSpec(spec model.BoneSpec, ok bool) {
	if !ok {
		return
	}
	if index, exists := p.boneRefs[spec.Name]; exists {
		p.warn(model.AsfWarningDuplicateBone, spec.Line, "ボーン名が重複しているため後の定義を使用します: %s", spec.Name)
		p.skeleton.Bones[index] = spec
		return
	}
	p.boneRefs[spec.Name] = len(p.skeleton.Bones)
	p.skeleton.Bones = append(p.skeleton.Bones, spec)
}

// warn は警告を記録してログへ出力する。
func (p *skeletonParser) warn(id string, line int, format string, params ...any) {
	warning := model.ParseWarning{ID: id, Line: line, Detail: fmt.Sprintf(format, params...)}
	p.skeleton.Warnings = append(p.skeleton.Warnings, warning)
	logAsfWarn("ASF警告: %s", warning.String())
}

// logAsfInfo はASF解析のINFOログを出力する。
func logAsfInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logAsfDebug はASF解析のデバッグログを出力する。
func logAsfDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logAsfWarn はASF解析の警告ログを出力する。
func logAsfWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
