// 指示: miu200521358
package linecursor

import "testing"

func TestReadBlockStopsBeforeTerminator(t *testing.T) {
	cursor := New("  id 1\r\n name lfemur\n# comment\n\n direction 0 -1 0\nend\nbegin\n")

	block := cursor.ReadBlock(StopAtPrefixes("end", ":"))

	if block.Len() != 3 {
		t.Fatalf("entry count mismatch: %d", block.Len())
	}
	if v, ok := block.Get("direction"); !ok || v != "0 -1 0" {
		t.Fatalf("direction mismatch: %q", v)
	}
	if v, _ := block.Get("id"); v != "1" {
		t.Fatalf("\\r should be trimmed: %q", v)
	}
	line, ok := cursor.Peek()
	if !ok || line.Text != "end" {
		t.Fatalf("terminator should remain unread: %+v", line)
	}
	if line.Number != 6 {
		t.Fatalf("line number mismatch: %d", line.Number)
	}
}

func TestReadBlockStopsAtSectionLine(t *testing.T) {
	cursor := New("mass 1.0\nangle deg\n:documentation\n")
	block := cursor.ReadBlock(StopAtPrefixes("end", ":"))
	if block.Len() != 2 {
		t.Fatalf("entry count mismatch: %d", block.Len())
	}
	line, _ := cursor.Peek()
	if line.Text != ":documentation" {
		t.Fatalf("section line should remain: %s", line.Text)
	}
}

func TestReadBlockJoinsContinuationAndDropsBareLines(t *testing.T) {
	cursor := New("dof rx ry\nlimits (-160.0 20.0)\n(-70.0 70.0)\nbare\nlength\t7.5\n")
	block := cursor.ReadBlock(nil)

	if v, _ := block.Get("limits"); v != "(-160.0 20.0) (-70.0 70.0)" {
		t.Fatalf("limits continuation mismatch: %q", v)
	}
	if block.Has("bare") {
		t.Fatalf("bare line should be dropped")
	}
	if v, _ := block.Get("length"); v != "7.5" {
		t.Fatalf("tab separated value mismatch: %q", v)
	}
	if !cursor.EOF() {
		t.Fatalf("cursor should reach EOF")
	}
}

func TestKeyValueBlockLastEntryWins(t *testing.T) {
	cursor := New("root a b\nroot c\n")
	block := cursor.ReadBlock(nil)
	entry, ok := block.Entry("root")
	if !ok || entry.Value != "c" || entry.Line != 2 {
		t.Fatalf("last entry should win: %+v", entry)
	}
}

func TestReadRawKeepsBlankLines(t *testing.T) {
	cursor := New("first\n\nsecond\n:root\n")
	lines := cursor.ReadRaw(StopAtPrefixes(":"))
	if len(lines) != 3 || lines[1].Text != "" || lines[2].Text != "second" {
		t.Fatalf("raw lines mismatch: %+v", lines)
	}
}

func TestNextSignificantSkipsComments(t *testing.T) {
	cursor := New("# header\n\n:version 1.10\n")
	line, ok := cursor.NextSignificant()
	if !ok || line.Text != ":version 1.10" || line.Number != 3 {
		t.Fatalf("significant line mismatch: %+v", line)
	}
	if _, ok := cursor.NextSignificant(); ok {
		t.Fatalf("trailing empty line should be skipped to EOF")
	}
}

func TestSplitKeyValue(t *testing.T) {
	key, value, ok := SplitKeyValue("lfemur 10 0  0")
	if !ok || key != "lfemur" || value != "10 0  0" {
		t.Fatalf("split mismatch: %q %q", key, value)
	}
	if _, _, ok := SplitKeyValue("lonely"); ok {
		t.Fatalf("line without space should not split")
	}
}
