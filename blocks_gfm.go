// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark

import (
	"strconv"
	"strings"
)

// listMarker describes a parsed list item marker (spec.md §4.2.8).
type listMarker struct {
	listType    ListType
	bulletChar  byte
	delim       byte
	start       int
	markerWidth int // bytes of the marker itself, not counting trailing whitespace
}

func parseListMarker(content string) (m listMarker, ok bool) {
	if content == "" {
		return listMarker{}, false
	}
	c := content[0]
	if c == '-' || c == '+' || c == '*' {
		if len(content) > 1 && !isSpaceOrTab(content[1]) {
			return listMarker{}, false
		}
		return listMarker{listType: BulletList, bulletChar: c, markerWidth: 1}, true
	}
	if isASCIIDigit(c) {
		i := 0
		for i < len(content) && isASCIIDigit(content[i]) && i < 9 {
			i++
		}
		if i == 0 || i >= len(content) {
			return listMarker{}, false
		}
		d := content[i]
		if d != '.' && d != ')' {
			return listMarker{}, false
		}
		if i+1 < len(content) && !isSpaceOrTab(content[i+1]) {
			return listMarker{}, false
		}
		start, _ := strconv.Atoi(content[:i])
		return listMarker{listType: OrderedList, delim: d, start: start, markerWidth: i + 1}, true
	}
	return listMarker{}, false
}

func sameListFamily(a, b listMarker) bool {
	if a.listType != b.listType {
		return false
	}
	if a.listType == BulletList {
		return a.bulletChar == b.bulletChar
	}
	return a.delim == b.delim
}

// looksLikeListStart reports whether the first line of lines begins a list
// item, honoring the paragraph-interruption restrictions of spec.md §4.2.8.
func looksLikeListStart(lines []string, interruptingParagraph bool) bool {
	if len(lines) == 0 {
		return false
	}
	indent := indentWidth(lines[0])
	if indent >= codeBlockIndentLimit {
		return false
	}
	content := removeIndent(lines[0], indent)
	m, ok := parseListMarker(content)
	if !ok {
		return false
	}
	if interruptingParagraph {
		if m.listType == OrderedList && m.start != 1 {
			return false
		}
		if strings.TrimSpace(content[m.markerWidth:]) == "" {
			return false
		}
	}
	return true
}

// listItemContentIndent computes the column width of a list item's marker
// plus following whitespace, per spec.md §4.2.8's "content indent" rule.
func listItemContentIndent(content string, m listMarker) int {
	after := content[m.markerWidth:]
	if strings.TrimSpace(after) == "" {
		return m.markerWidth + 1
	}
	w := indentWidth(after)
	if w == 0 || w > 4 {
		return m.markerWidth + 1
	}
	return m.markerWidth + w
}

// parseListItem consumes a single list item starting at lines[0], whose
// marker and content indent have already been determined.
func parseListItem(lines []string, m listMarker, itemIndent int) (item *Block, consumed int, hadInternalBlank bool) {
	content := removeIndent(lines[0], indentWidth(lines[0]))
	firstRemainder := removeIndent(content[m.markerWidth:], itemIndent-m.markerWidth)

	var innerLines []string
	innerLines = append(innerLines, firstRemainder)
	consumed = 1
	pendingBlanks := 0
	lastWasParagraphish := isLazyContinuationCandidate(firstRemainder)

	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if isBlankLine(line) {
			pendingBlanks++
			consumed++
			continue
		}
		w := indentWidth(line)
		if w >= itemIndent {
			if pendingBlanks > 0 {
				hadInternalBlank = true
				for k := 0; k < pendingBlanks; k++ {
					innerLines = append(innerLines, "")
				}
				pendingBlanks = 0
			}
			dedented := removeIndent(line, itemIndent)
			innerLines = append(innerLines, dedented)
			lastWasParagraphish = isLazyContinuationCandidate(dedented) && indentWidth(dedented) < codeBlockIndentLimit
			consumed++
			continue
		}
		if pendingBlanks == 0 && lastWasParagraphish && isLazyContinuationCandidate(line) {
			innerLines = append(innerLines, lazySentinel+line)
			consumed++
			continue
		}
		break
	}

	// Trailing blank lines belong to the list, not the item, so that
	// parseList can see them between items.
	consumed -= pendingBlanks
	item = &Block{kind: ListItemKind}
	return item, consumed, hadInternalBlank
}

// parseList consumes a whole list (a run of items sharing the same marker
// family) starting at lines[0].
func parseList(lines []string, st *parseState) (*Block, int) {
	indent0 := indentWidth(lines[0])
	content0 := removeIndent(lines[0], indent0)
	firstMarker, _ := parseListMarker(content0)

	list := &Block{
		kind:       ListKind,
		ListType:   firstMarker.listType,
		Start:      firstMarker.start,
		BulletChar: firstMarker.bulletChar,
		Delimiter:  firstMarker.delim,
	}
	if list.ListType == OrderedList && list.Start == 0 {
		list.Start = 1
	}

	sawBlankBetweenItems := false
	anyItemHadInternalBlank := false
	i := 0
	for i < len(lines) {
		if isBlankLine(lines[i]) {
			j := i
			for j < len(lines) && isBlankLine(lines[j]) {
				j++
			}
			if j >= len(lines) {
				i = j
				break
			}
			nIndent := indentWidth(lines[j])
			if nIndent >= codeBlockIndentLimit {
				i = j
				break
			}
			nContent := removeIndent(lines[j], nIndent)
			nm, nok := parseListMarker(nContent)
			if !nok || !sameListFamily(firstMarker, nm) {
				i = j
				break
			}
			sawBlankBetweenItems = true
			i = j
			continue
		}
		curIndent := indentWidth(lines[i])
		if curIndent >= codeBlockIndentLimit {
			break
		}
		curContent := removeIndent(lines[i], curIndent)
		m, ok := parseListMarker(curContent)
		if !ok || !sameListFamily(firstMarker, m) {
			break
		}
		itemIndent := curIndent + listItemContentIndent(curContent, m)
		itemBlock, consumed, hadInternalBlank := parseListItem(lines[i:], m, itemIndent)
		if hadInternalBlank {
			anyItemHadInternalBlank = true
		}
		rawItemLines := reconstructItemLines(lines[i:consumedEnd(i, consumed)], m, itemIndent)
		children := parseBlocks(rawItemLines, st)
		applyTaskListMarker(st, itemBlock, &children)
		for _, c := range children {
			itemBlock.addBlock(c)
		}
		list.addBlock(itemBlock)
		i += consumed
	}

	list.Tight = !sawBlankBetweenItems && !anyItemHadInternalBlank
	return list, i
}

func consumedEnd(start, consumed int) int {
	return start + consumed
}

// reconstructItemLines re-derives the dedented content lines belonging to
// one item, mirroring parseListItem's loop. Kept separate from
// parseListItem so the marker/indent bookkeeping there stays simple; this
// walks the same slice a second time to build the actual []string passed
// to parseBlocks.
func reconstructItemLines(lines []string, m listMarker, itemIndent int) []string {
	content := removeIndent(lines[0], indentWidth(lines[0]))
	firstRemainder := removeIndent(content[m.markerWidth:], itemIndent-m.markerWidth)
	out := []string{firstRemainder}
	pendingBlanks := 0
	lastWasParagraphish := isLazyContinuationCandidate(firstRemainder)
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if isBlankLine(line) {
			pendingBlanks++
			continue
		}
		w := indentWidth(line)
		if w >= itemIndent {
			for k := 0; k < pendingBlanks; k++ {
				out = append(out, "")
			}
			pendingBlanks = 0
			dedented := removeIndent(line, itemIndent)
			out = append(out, dedented)
			lastWasParagraphish = isLazyContinuationCandidate(dedented) && indentWidth(dedented) < codeBlockIndentLimit
			continue
		}
		if pendingBlanks == 0 && lastWasParagraphish && isLazyContinuationCandidate(line) {
			out = append(out, lazySentinel+line)
			continue
		}
		break
	}
	return out
}

// applyTaskListMarker strips a GFM task-list checkbox ("[ ] "/"[x] ") from
// the first paragraph of a list item and records its state, per spec.md
// §4.2.8's task-list note.
func applyTaskListMarker(st *parseState, item *Block, children *[]*Block) {
	if !st.ext.Has(ExtTasklist) || len(*children) == 0 {
		return
	}
	first := (*children)[0]
	if first.kind != ParagraphKind {
		return
	}
	checked, rest, ok := stripTaskCheckbox(first.raw)
	if !ok {
		return
	}
	item.Checked = &checked
	first.raw = rest
}

func stripTaskCheckbox(raw string) (checked bool, rest string, ok bool) {
	if !strings.HasPrefix(raw, "[") {
		return false, raw, false
	}
	end := strings.IndexByte(raw, ']')
	if end != 2 {
		return false, raw, false
	}
	mark := raw[1]
	if end+1 >= len(raw) || !isSpaceOrTab(raw[end+1]) {
		return false, raw, false
	}
	switch mark {
	case ' ':
		return false, raw[end+2:], true
	case 'x', 'X':
		return true, raw[end+2:], true
	default:
		return false, raw, false
	}
}

// tryParseTable attempts to parse a GFM table (spec.md §4.2.10) using the
// last buffered paragraph line as the header row and lines[0] as the
// delimiter row.
func tryParseTable(paraBuf []string, lines []string) (table *Block, consumed int, ok bool) {
	if len(paraBuf) == 0 || len(lines) == 0 {
		return nil, 0, false
	}
	headerLine := paraBuf[len(paraBuf)-1]
	if !strings.Contains(headerLine, "|") {
		return nil, 0, false
	}
	delimIndent := indentWidth(lines[0])
	if delimIndent >= codeBlockIndentLimit {
		return nil, 0, false
	}
	delimContent := removeIndent(lines[0], delimIndent)
	delimCells := splitTableRow(delimContent)
	if len(delimCells) == 0 {
		return nil, 0, false
	}
	alignments := make([]Alignment, len(delimCells))
	for i, cell := range delimCells {
		a, isDelim := parseTableDelimiterCell(cell)
		if !isDelim {
			return nil, 0, false
		}
		alignments[i] = a
	}

	headerCells := splitTableRow(headerLine)
	if len(headerCells) != len(delimCells) {
		return nil, 0, false
	}

	table = &Block{kind: TableKind, Alignments: alignments}
	headerRow := &Block{kind: TableRowKind, IsHeader: true}
	for _, cell := range headerCells {
		headerRow.addBlock(&Block{kind: TableCellKind, raw: cell})
	}
	table.addBlock(headerRow)

	consumed = 1
	for consumed < len(lines) {
		line := lines[consumed]
		if isBlankLine(line) {
			break
		}
		lineIndent := indentWidth(line)
		if lineIndent >= codeBlockIndentLimit {
			break
		}
		lineContent := removeIndent(line, lineIndent)
		// A table row is interrupted by anything else that can interrupt a
		// paragraph, per spec.md §4.2.10.
		if isThematicBreak(lineContent) {
			break
		}
		if _, _, ok := parseATXHeading(lineContent); ok {
			break
		}
		if _, _, _, ok := parseFenceOpen(lineContent); ok {
			break
		}
		if _, ok := parseBlockQuoteMarker(lineContent); ok {
			break
		}
		if _, _, ok := classifyHTMLBlockStart(lineContent, true); ok {
			break
		}
		cells := splitTableRow(lineContent)
		row := &Block{kind: TableRowKind}
		for i := range alignments {
			text := ""
			if i < len(cells) {
				text = cells[i]
			}
			row.addBlock(&Block{kind: TableCellKind, raw: text})
		}
		table.addBlock(row)
		consumed++
	}
	return table, consumed, true
}

// splitTableRow splits a table row into its cells on unescaped "|"
// characters. Splitting is backtick-aware (spec.md §4.2.10): once an odd
// backtick run opens a code span, "|" stops acting as a separator until a
// backtick run of the same length closes it, mirroring the code span
// grammar the inline parser uses (see findCodeSpanClose).
func splitTableRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !isEndEscaped(strings.TrimSuffix(line, "|")) {
		line = strings.TrimSuffix(line, "|")
	}
	var cells []string
	var cur strings.Builder
	codeFenceLen := 0
	for i := 0; i < len(line); i++ {
		if codeFenceLen == 0 && line[i] == '\\' && i+1 < len(line) {
			cur.WriteByte(line[i])
			cur.WriteByte(line[i+1])
			i++
			continue
		}
		if line[i] == '`' {
			j := i
			for j < len(line) && line[j] == '`' {
				j++
			}
			runLen := j - i
			cur.WriteString(line[i:j])
			switch {
			case codeFenceLen == 0:
				codeFenceLen = runLen
			case runLen == codeFenceLen:
				codeFenceLen = 0
			}
			i = j - 1
			continue
		}
		if codeFenceLen == 0 && line[i] == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(line[i])
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func parseTableDelimiterCell(cell string) (Alignment, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return AlignNone, false
	}
	left := strings.HasPrefix(cell, ":")
	right := strings.HasSuffix(cell, ":")
	dashes := strings.Trim(cell, ":")
	if dashes == "" {
		return AlignNone, false
	}
	for i := 0; i < len(dashes); i++ {
		if dashes[i] != '-' {
			return AlignNone, false
		}
	}
	switch {
	case left && right:
		return AlignCenter, true
	case left:
		return AlignLeft, true
	case right:
		return AlignRight, true
	default:
		return AlignNone, true
	}
}

// parseFootnoteDefStart recognizes a GFM footnote definition marker
// "[^label]:" at the start of content (spec.md §4.2.11).
func parseFootnoteDefStart(content string) (label, rest string, ok bool) {
	if !strings.HasPrefix(content, "[^") {
		return "", "", false
	}
	end := strings.IndexByte(content, ']')
	if end < 0 || end+1 >= len(content) || content[end+1] != ':' {
		return "", "", false
	}
	label = content[2:end]
	if label == "" {
		return "", "", false
	}
	rest = content[end+2:]
	rest = strings.TrimPrefix(rest, " ")
	return label, rest, true
}

// parseFootnoteDefinition consumes a footnote definition's body, treating
// it like a list item with a fixed content indent of 4 columns.
func parseFootnoteDefinition(lines []string, firstContent string, st *parseState) (def *FootnoteDefinition, consumed int) {
	const contentIndent = 4
	var innerLines []string
	innerLines = append(innerLines, firstContent)
	consumed = 1
	for consumed < len(lines) {
		line := lines[consumed]
		if isBlankLine(line) {
			innerLines = append(innerLines, "")
			consumed++
			continue
		}
		if indentWidth(line) < contentIndent {
			break
		}
		innerLines = append(innerLines, removeIndent(line, contentIndent))
		consumed++
	}
	children := parseBlocks(innerLines, st)
	return &FootnoteDefinition{Children: children}, consumed
}
