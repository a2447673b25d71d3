// 指示: miu200521358
package amc

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_common"
	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_model/linecursor"
	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"github.com/miu200521358/mu_asfamc/pkg/shared/logging"
	"github.com/zeebo/blake3"
)

// stopAtFrameOrFlag はフレーム区切り行またはフラグ行で止まる。
func stopAtFrameOrFlag(line linecursor.Line) bool {
	if line.HasPrefix(":") {
		return true
	}
	_, ok := parseFrameIndex(line.Text)
	return ok
}

// motionParser はAMC解析中の状態を保持する。
type motionParser struct {
	cursor  *linecursor.Cursor
	motion  *model.Motion
	started bool
}

// ParseMotion はAMCテキストをフレーム番号付きのチャンネル表へ変換する。
// 同じフレーム番号が再登場した場合は後勝ちで置き換え、警告を残す。
// 有効な行が1行もない場合のみ構造エラーとする。
func ParseMotion(text string) (*model.Motion, error) {
	sum := blake3.Sum256([]byte(text))
	p := &motionParser{
		cursor: linecursor.New(text),
		motion: model.NewMotion(),
	}
	p.motion.Hash = hex.EncodeToString(sum[:])
	logAmcDebug("AMC解析開始: lines=%d hash=%s", strings.Count(text, "\n")+1, p.motion.Hash)

	if _, ok := p.cursor.PeekSignificant(); !ok {
		return nil, io_common.NewIoStructureInvalid(0, "AMCテキストに有効な行がありません")
	}

	for {
		line, ok := p.cursor.NextSignificant()
		if !ok {
			break
		}
		if line.HasPrefix(":") {
			p.readFlag(line)
			continue
		}
		index, ok := parseFrameIndex(line.Text)
		if !ok {
			p.warn(model.AmcWarningStrayLine, line.Number, "フレーム外の行を無視します: %q", line.Text)
			continue
		}
		p.readFrame(index, line.Number)
	}

	logAmcInfo(
		"AMC解析完了: frames=%d flags=%v warnings=%d",
		len(p.motion.Frames),
		p.motion.Flags,
		len(p.motion.Warnings),
	)
	return p.motion, nil
}

// readFlag はヘッダのフラグ行を記録する。フレーム開始後のフラグは無視する。
func (p *motionParser) readFlag(line linecursor.Line) {
	flag := strings.TrimSpace(strings.TrimPrefix(line.Text, ":"))
	if p.started {
		p.warn(model.AmcWarningLateFlag, line.Number, "フレーム開始後のフラグを無視します: %q", line.Text)
		return
	}
	if flag == "" {
		return
	}
	p.motion.Flags = append(p.motion.Flags, flag)
}

// readFrame はフレーム区切り行に続くボーン行を次の区切りまで読む。
// 範囲外の番号もそのまま保持し、キーフレーム化の可否は姿勢計算側で判断する。
func (p *motionParser) readFrame(index int, lineNumber int) {
	p.started = true

	block := p.cursor.ReadBlock(stopAtFrameOrFlag)
	frame := model.Frame{
		Index:    index,
		Channels: make(map[string]string, block.Len()),
		Line:     lineNumber,
	}
	for _, entry := range block.Entries {
		frame.Channels[entry.Key] = entry.Value
	}

	if previous, exists := p.motion.Frames[index]; exists {
		p.warn(
			model.AmcWarningDuplicateFrame,
			lineNumber,
			"フレーム番号が重複しているため後の定義を使用します: frame=%d previousLine=%d",
			index,
			previous.Line,
		)
	}
	p.motion.Frames[index] = frame
}

// warn は警告を記録してログへ出力する。
func (p *motionParser) warn(id string, line int, format string, params ...any) {
	warning := model.ParseWarning{ID: id, Line: line, Detail: fmt.Sprintf(format, params...)}
	p.motion.Warnings = append(p.motion.Warnings, warning)
	logAmcWarn("AMC警告: %s", warning.String())
}

// parseFrameIndex は行全体が数値ならフレーム番号として返す。小数は切り捨てる。
func parseFrameIndex(text string) (int, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if value > math.MaxInt32 || value < math.MinInt32 {
		return 0, false
	}
	return int(value), true
}

// logAmcInfo はAMC解析のINFOログを出力する。
func logAmcInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logAmcDebug はAMC解析のデバッグログを出力する。
func logAmcDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logAmcWarn はAMC解析の警告ログを出力する。
func logAmcWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
