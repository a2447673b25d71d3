// 指示: miu200521358
package linecursor

import (
	"strings"
)

// Line は前後空白を除いた1行を表す。
type Line struct {
	// Number は1始まりの行番号。
	Number int
	Text   string
}

// IsIgnorable は空行またはコメント行か判定する。
func (l Line) IsIgnorable() bool {
	return l.Text == "" || strings.HasPrefix(l.Text, "#")
}

// HasPrefix は行頭一致を判定する。
func (l Line) HasPrefix(prefix string) bool {
	return strings.HasPrefix(l.Text, prefix)
}

// KeyValue はキーと生の値文字列を表す。
type KeyValue struct {
	Key   string
	Value string
	Line  int
}

// KeyValueBlock は読み込み順を保ったキー値ブロックを表す。
type KeyValueBlock struct {
	Entries []KeyValue
}

// Get はキーの値を返す。同じキーが複数ある場合は後勝ち。
func (b KeyValueBlock) Get(key string) (string, bool) {
	entry, ok := b.Entry(key)
	return entry.Value, ok
}

// Entry はキーのエントリを返す。同じキーが複数ある場合は後勝ち。
func (b KeyValueBlock) Entry(key string) (KeyValue, bool) {
	for i := len(b.Entries) - 1; i >= 0; i-- {
		if b.Entries[i].Key == key {
			return b.Entries[i], true
		}
	}
	return KeyValue{}, false
}

// Has はキーの有無を返す。
func (b KeyValueBlock) Has(key string) bool {
	_, ok := b.Entry(key)
	return ok
}

// Len はエントリ数を返す。
func (b KeyValueBlock) Len() int {
	return len(b.Entries)
}

// StopFunc はブロック終端行か判定する。終端行は読み込まれずカーソル位置に残る。
type StopFunc func(line Line) bool

// Cursor は行単位の読み取り位置を管理する。
type Cursor struct {
	lines []Line
	pos   int
}

// New はテキストからカーソルを生成する。改行は \n、\r\n どちらも扱う。
func New(text string) *Cursor {
	rawLines := strings.Split(text, "\n")
	lines := make([]Line, len(rawLines))
	for i, raw := range rawLines {
		lines[i] = Line{Number: i + 1, Text: strings.TrimSpace(raw)}
	}
	return &Cursor{lines: lines}
}

// EOF は全行を読み終えたか判定する。
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.lines)
}

// Peek は現在行を読み進めずに返す。
func (c *Cursor) Peek() (Line, bool) {
	if c.EOF() {
		return Line{}, false
	}
	return c.lines[c.pos], true
}

// Next は現在行を返して1行進める。
func (c *Cursor) Next() (Line, bool) {
	line, ok := c.Peek()
	if ok {
		c.pos++
	}
	return line, ok
}

// SkipIgnorable は空行とコメント行を読み飛ばす。
func (c *Cursor) SkipIgnorable() {
	for {
		line, ok := c.Peek()
		if !ok || !line.IsIgnorable() {
			return
		}
		c.pos++
	}
}

// PeekSignificant は空行とコメント行を飛ばした次の行を返す。
func (c *Cursor) PeekSignificant() (Line, bool) {
	c.SkipIgnorable()
	return c.Peek()
}

// NextSignificant は空行とコメント行を飛ばした次の行を返して進める。
func (c *Cursor) NextSignificant() (Line, bool) {
	c.SkipIgnorable()
	return c.Next()
}

// ReadBlock は stop が真になる行かEOFまでキー値行を読み込む。
// 各行は最初の空白で分割し、左をキー、残りを値とする。空白のない行は読み捨てる。
// '(' で始まる行は直前エントリの値へ継続行として連結する。
func (c *Cursor) ReadBlock(stop StopFunc) KeyValueBlock {
	block := KeyValueBlock{Entries: make([]KeyValue, 0)}
	for {
		line, ok := c.Peek()
		if !ok {
			return block
		}
		if line.IsIgnorable() {
			c.pos++
			continue
		}
		if stop != nil && stop(line) {
			return block
		}
		c.pos++

		if strings.HasPrefix(line.Text, "(") && len(block.Entries) > 0 {
			last := &block.Entries[len(block.Entries)-1]
			last.Value = strings.TrimSpace(last.Value + " " + line.Text)
			continue
		}
		key, value, found := SplitKeyValue(line.Text)
		if !found {
			continue
		}
		block.Entries = append(block.Entries, KeyValue{Key: key, Value: value, Line: line.Number})
	}
}

// ReadRaw は stop が真になる行かEOFまで行をそのまま集める。空行も保持する。
func (c *Cursor) ReadRaw(stop StopFunc) []Line {
	lines := make([]Line, 0)
	for {
		line, ok := c.Peek()
		if !ok {
			return lines
		}
		if stop != nil && stop(line) {
			return lines
		}
		c.pos++
		lines = append(lines, line)
	}
}

// SplitKeyValue は最初の空白でキーと値に分割する。
func SplitKeyValue(text string) (string, string, bool) {
	index := strings.IndexAny(text, " \t")
	if index < 0 {
		return "", "", false
	}
	return text[:index], strings.TrimSpace(text[index+1:]), true
}

// StopAtPrefixes は指定接頭辞で始まる行で止まる StopFunc を返す。
func StopAtPrefixes(prefixes ...string) StopFunc {
	return func(line Line) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(line.Text, prefix) {
				return true
			}
		}
		return false
	}
}
