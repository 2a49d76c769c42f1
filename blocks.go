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

import "strings"

// lazySentinel marks a line that a recursive container invocation should
// treat as a lazy continuation of an open paragraph, bypassing every other
// block-start check. See spec.md §4.2, step 1, and §4.2.7.
const lazySentinel = "\x00"

// parseState carries the mutable side tables that accumulate across the
// whole document, threaded through every recursive parseBlocks call so
// that link reference definitions and footnote definitions found inside
// block quotes, list items, or footnote bodies register with first-wins
// semantics in overall document order (spec.md §3, §9).
type parseState struct {
	ext       Extensions
	refs      ReferenceMap
	footnotes FootnoteMap
}

// parseBlocks implements the block-parser state machine of spec.md §4.2.
// lines have already been dedented to the level of their container; a line
// beginning with lazySentinel is a lazy continuation line supplied by a
// blockquote extraction (§4.2.7).
func parseBlocks(lines []string, st *parseState) []*Block {
	var out []*Block
	var paraBuf []string

	flushParagraph := func(setextLevel int) {
		if len(paraBuf) == 0 {
			return
		}
		text := strings.Join(paraBuf, "\n")
		paraBuf = nil
		for {
			rest, consumed := tryParseLinkReferenceDefinition(text, st.refs)
			if !consumed {
				break
			}
			text = rest
		}
		text = strings.TrimSpace(text)
		if text == "" {
			if setextLevel != 0 {
				// spec.md §9 Open Question: a setext underline over a
				// paragraph consisting solely of link reference
				// definitions falls back to a thematic break, not an
				// empty heading, once the definitions are extracted away.
				out = append(out, &Block{kind: ThematicBreakKind})
			}
			return
		}
		if setextLevel != 0 {
			out = append(out, &Block{kind: SetextHeadingKind, Level: setextLevel, raw: text})
			return
		}
		out = append(out, &Block{kind: ParagraphKind, raw: text})
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		if rest, ok := strings.CutPrefix(line, lazySentinel); ok {
			paraBuf = append(paraBuf, rest)
			i++
			continue
		}

		if isBlankLine(line) {
			flushParagraph(0)
			i++
			continue
		}

		indent := indentWidth(line)

		if indent < codeBlockIndentLimit {
			content := removeIndent(line, indent)

			if setextLevel, ok := parseSetextUnderline(content); ok {
				if setextLevel == 2 && isThematicBreak(content) && len(paraBuf) == 0 {
					out = append(out, &Block{kind: ThematicBreakKind})
					i++
					continue
				}
				if len(paraBuf) > 0 {
					flushParagraph(setextLevel)
					i++
					continue
				}
				// No open paragraph: a lone "-" run is a thematic break;
				// a lone "=" run falls through to plain text below.
				if setextLevel == 2 {
					out = append(out, &Block{kind: ThematicBreakKind})
					i++
					continue
				}
			}

			if isThematicBreak(content) {
				flushParagraph(0)
				out = append(out, &Block{kind: ThematicBreakKind})
				i++
				continue
			}

			if level, text, ok := parseATXHeading(content); ok {
				flushParagraph(0)
				out = append(out, &Block{kind: ATXHeadingKind, Level: level, raw: text})
				i++
				continue
			}

			if fenceChar, fenceLen, info, ok := parseFenceOpen(content); ok {
				flushParagraph(0)
				block, consumed := parseFencedCodeBlock(lines[i:], indent, fenceChar, fenceLen, info)
				out = append(out, block)
				i += consumed
				continue
			}

			if rest, ok := parseBlockQuoteMarker(content); ok {
				_ = rest
				flushParagraph(0)
				block, consumed := parseBlockQuote(lines[i:], st)
				out = append(out, block)
				i += consumed
				continue
			}

			if looksLikeListStart(lines[i:], len(paraBuf) > 0) {
				flushParagraph(0)
				block, n := parseList(lines[i:], st)
				out = append(out, block)
				i += n
				continue
			}

			if kind, endCond, ok := classifyHTMLBlockStart(content, len(paraBuf) > 0); ok {
				flushParagraph(0)
				block, consumed := parseHTMLBlock(lines[i:], kind, endCond)
				out = append(out, block)
				i += consumed
				continue
			}

			if st.ext.Has(ExtTable) && len(paraBuf) >= 1 {
				if block, consumed, ok := tryParseTable(paraBuf, lines[i:]); ok {
					// All but the last buffered line become a paragraph.
					if len(paraBuf) > 1 {
						saved := paraBuf[:len(paraBuf)-1]
						paraBuf = saved
						flushParagraph(0)
					}
					paraBuf = nil
					out = append(out, block)
					i += consumed
					continue
				}
			}

			if st.ext.Has(ExtFootnotes) {
				if label, contentStart, ok := parseFootnoteDefStart(content); ok {
					flushParagraph(0)
					def, consumed := parseFootnoteDefinition(lines[i:], contentStart, st)
					def.Label = label
					i += consumed
					st.footnotes.define(label, def)
					continue
				}
			}
		} else {
			// Indented code block: only when not continuing a paragraph.
			if len(paraBuf) == 0 {
				flushParagraph(0)
				block, consumed := parseIndentedCodeBlock(lines[i:])
				out = append(out, block)
				i += consumed
				continue
			}
		}

		// Fallback: append to the paragraph buffer, dedented by up to 3
		// columns (spec.md §4.2, step 13).
		paraBuf = append(paraBuf, trimIndentPrefix(line, 3))
		i++
	}
	flushParagraph(0)
	return out
}

// isThematicBreak reports whether content (already stripped of up to 3
// columns of indent) is a thematic break line.
// https://spec.commonmark.org/0.30/#thematic-breaks
func isThematicBreak(content string) bool {
	n := 0
	var want byte
	for i := 0; i < len(content); i++ {
		switch c := content[i]; c {
		case '-', '_', '*':
			if n == 0 {
				want = c
			} else if c != want {
				return false
			}
			n++
		case ' ', '\t':
		default:
			return false
		}
	}
	return n >= 3
}

// parseSetextUnderline reports whether content is a setext heading
// underline, returning level 1 for '=' and 2 for '-'.
func parseSetextUnderline(content string) (level int, ok bool) {
	if content == "" {
		return 0, false
	}
	c := content[0]
	if c != '=' && c != '-' {
		return 0, false
	}
	i := 0
	for i < len(content) && content[i] == c {
		i++
	}
	for i < len(content) && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	if i != len(content) {
		return 0, false
	}
	if c == '=' {
		return 1, true
	}
	return 2, true
}

// parseATXHeading attempts to parse content as an ATX heading.
// https://spec.commonmark.org/0.30/#atx-headings
func parseATXHeading(content string) (level int, text string, ok bool) {
	n := 0
	for n < len(content) && content[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0, "", false
	}
	if n == len(content) {
		return n, "", true
	}
	if !isSpaceOrTab(content[n]) {
		return 0, "", false
	}
	rest := strings.TrimLeft(content[n:], " \t")
	rest = strings.TrimRight(rest, " \t")
	// Strip a trailing run of unescaped '#' preceded by whitespace (or the
	// whole remainder being hashes).
	trimmed := strings.TrimRight(rest, "#")
	if trimmed == rest {
		return n, rest, true
	}
	if trimmed == "" {
		return n, "", true
	}
	if isSpaceOrTab(trimmed[len(trimmed)-1]) && !isEndEscaped(trimmed) {
		return n, strings.TrimRight(trimmed, " \t"), true
	}
	return n, rest, true
}

// parseFenceOpen attempts to parse content as a fenced code block's opening
// fence line.
func parseFenceOpen(content string) (fenceChar byte, fenceLen int, info string, ok bool) {
	if content == "" {
		return 0, 0, "", false
	}
	c := content[0]
	if c != '`' && c != '~' {
		return 0, 0, "", false
	}
	n := 0
	for n < len(content) && content[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, "", false
	}
	rest := content[n:]
	if c == '`' && strings.ContainsRune(rest, '`') {
		return 0, 0, "", false
	}
	return c, n, strings.TrimSpace(rest), true
}

// parseFencedCodeBlock consumes a fenced code block starting at lines[0],
// which must already have been confirmed as a fence-open line via
// parseFenceOpen on the dedented content. indent is the column indent of
// the opening fence.
func parseFencedCodeBlock(lines []string, indent int, fenceChar byte, fenceLen int, rawInfo string) (*Block, int) {
	info := decodeFenceInfoString(rawInfo)
	var body []string
	i := 1
	for ; i < len(lines); i++ {
		line := lines[i]
		lineIndent := indentWidth(line)
		content := removeIndent(line, lineIndent)
		if isFenceClose(content, fenceChar, fenceLen) {
			i++
			break
		}
		body = append(body, removeIndent(line, min(indent, lineIndent)))
	}
	literal := ""
	if len(body) > 0 {
		literal = strings.Join(body, "\n") + "\n"
	}
	return &Block{kind: FencedCodeBlockKind, Fenced: true, Info: info, Literal: literal}, i
}

func isFenceClose(content string, fenceChar byte, fenceLen int) bool {
	trimmed := strings.TrimLeft(content, " \t")
	if indentWidth(content)-indentWidth(trimmed) >= codeBlockIndentLimit {
		return false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == fenceChar {
		n++
	}
	if n < fenceLen {
		return false
	}
	return strings.TrimSpace(trimmed[n:]) == ""
}

// decodeFenceInfoString unescapes backslash escapes and entity references
// in a fenced code block's info string (spec.md §4.2, step 6).
func decodeFenceInfoString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s) && isASCIIPunctuation(s[i+1]):
			sb.WriteByte(s[i+1])
			i += 2
		case s[i] == '&':
			if decoded, n, ok := scanEntity(s[i:]); ok {
				sb.WriteString(decoded)
				i += n
				continue
			}
			sb.WriteByte(s[i])
			i++
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	return sb.String()
}

// parseIndentedCodeBlock consumes an indented code block per spec.md §4.2,
// step 7.
func parseIndentedCodeBlock(lines []string) (*Block, int) {
	var body []string
	trailingBlanks := 0
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if isBlankLine(line) {
			body = append(body, "")
			trailingBlanks++
			continue
		}
		if indentWidth(line) < codeBlockIndentLimit {
			break
		}
		body = append(body, removeIndent(line, codeBlockIndentLimit))
		trailingBlanks = 0
	}
	body = body[:len(body)-trailingBlanks]
	literal := ""
	if len(body) > 0 {
		literal = strings.Join(body, "\n") + "\n"
	}
	return &Block{kind: IndentedCodeBlockKind, Literal: literal}, i
}

// parseBlockQuoteMarker reports whether content begins with a blockquote
// marker and, if so, the marker's byte length is implied by the caller
// re-deriving it via extractBlockQuoteLine; this function only tests for
// presence.
func parseBlockQuoteMarker(content string) (rest string, ok bool) {
	if content == "" || content[0] != '>' {
		return "", false
	}
	if len(content) > 1 && content[1] == ' ' {
		return content[2:], true
	}
	return content[1:], true
}

// extractBlockQuoteLine strips a blockquote marker from a raw (non
// pre-dedented) line: up to 3 columns of indent, one '>', and at most one
// following space (a tab after '>' counts as 4 columns with the remainder
// preserved as spaces), per spec.md §4.2.7.
func extractBlockQuoteLine(line string) (rest string, ok bool) {
	indent := indentWidth(line)
	if indent >= codeBlockIndentLimit {
		return "", false
	}
	content := removeIndent(line, indent)
	if content == "" || content[0] != '>' {
		return "", false
	}
	content = content[1:]
	if content == "" {
		return "", true
	}
	switch content[0] {
	case ' ':
		return content[1:], true
	case '\t':
		return removeIndent(content, 1), true
	default:
		return content, true
	}
}

// parseBlockQuote consumes a block quote starting at lines[0].
func parseBlockQuote(lines []string, st *parseState) (*Block, int) {
	var innerLines []string
	fenceOpen := false
	var fenceChar byte
	var fenceLen int
	prevWasParagraphLine := false

	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if rest, ok := extractBlockQuoteLine(line); ok {
			innerLines = append(innerLines, rest)
			updateFenceTracking(rest, &fenceOpen, &fenceChar, &fenceLen)
			prevWasParagraphLine = !fenceOpen && !isBlankLine(rest) && indentWidth(rest) < codeBlockIndentLimit &&
				!isThematicBreak(removeIndent(rest, indentWidth(rest))) &&
				!isFenceOpenLine(rest)
			continue
		}
		if fenceOpen {
			break
		}
		if isBlankLine(line) {
			break
		}
		if prevWasParagraphLine && isLazyContinuationCandidate(line) {
			innerLines = append(innerLines, lazySentinel+line)
			continue
		}
		break
	}

	block := &Block{kind: BlockQuoteKind}
	children := parseBlocks(innerLines, st)
	for _, c := range children {
		block.addBlock(c)
	}
	return block, i
}

func isFenceOpenLine(content string) bool {
	trimmed := strings.TrimLeft(content, " \t")
	if indentWidth(content)-indentWidth(trimmed) >= codeBlockIndentLimit {
		return false
	}
	_, _, _, ok := parseFenceOpen(trimmed)
	return ok
}

func updateFenceTracking(line string, open *bool, char *byte, length *int) {
	indent := indentWidth(line)
	if indent >= codeBlockIndentLimit {
		return
	}
	content := removeIndent(line, indent)
	if !*open {
		if c, n, _, ok := parseFenceOpen(content); ok {
			*open = true
			*char = c
			*length = n
		}
		return
	}
	if isFenceClose(content, *char, *length) {
		*open = false
	}
}

// isLazyContinuationCandidate reports whether a non-prefixed line could be
// a lazy continuation: it must not itself be blank, indented code, a fence
// open, a thematic break, an ATX heading, or a list marker start.
func isLazyContinuationCandidate(line string) bool {
	if isBlankLine(line) {
		return false
	}
	indent := indentWidth(line)
	if indent >= codeBlockIndentLimit {
		return false
	}
	content := removeIndent(line, indent)
	if isThematicBreak(content) {
		return false
	}
	if _, _, ok := parseATXHeading(content); ok {
		return false
	}
	if _, _, _, ok := parseFenceOpen(content); ok {
		return false
	}
	if _, ok := parseBlockQuoteMarker(content); ok {
		return false
	}
	if looksLikeListStart([]string{line}, true) {
		return false
	}
	return true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
