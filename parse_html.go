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
	"strings"

	"golang.org/x/net/html/atom"
)

// htmlBlockCondition identifies which of the seven HTML block start
// conditions of spec.md §4.2.9 matched a line.
type htmlBlockCondition int

const (
	htmlCondScriptLike htmlBlockCondition = 1 + iota
	htmlCondComment
	htmlCondProcessingInstruction
	htmlCondDeclaration
	htmlCondCDATA
	htmlCondBlockTag
	htmlCondCompleteTag
)

// blockLevelAtoms is the fixed set of tag names that can start an
// htmlCondBlockTag block (spec.md §4.2.9, type 6). It mirrors the
// CommonMark reference implementation's hardcoded list.
var blockLevelAtoms = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Base: true,
	atom.Basefont: true, atom.Blockquote: true, atom.Body: true, atom.Caption: true,
	atom.Center: true, atom.Col: true, atom.Colgroup: true, atom.Dd: true,
	atom.Details: true, atom.Dialog: true, atom.Dir: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.Frame: true,
	atom.Frameset: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Head: true,
	atom.Header: true, atom.Hr: true, atom.Html: true, atom.Iframe: true,
	atom.Legend: true, atom.Li: true, atom.Link: true, atom.Main: true,
	atom.Menu: true, atom.Menuitem: true, atom.Nav: true, atom.Noframes: true,
	atom.Ol: true, atom.Optgroup: true, atom.Option: true, atom.P: true,
	atom.Param: true, atom.Section: true, atom.Summary: true, atom.Table: true,
	atom.Tbody: true, atom.Td: true, atom.Tfoot: true, atom.Th: true,
	atom.Thead: true, atom.Title: true, atom.Tr: true, atom.Track: true,
	atom.Ul: true,
}

// scriptLikeAtoms is the tag-name set for htmlCondScriptLike (type 1).
var scriptLikeAtoms = map[atom.Atom]bool{
	atom.Script: true, atom.Pre: true, atom.Style: true, atom.Textarea: true,
}

// classifyHTMLBlockStart reports whether content (dedented, indent < 4)
// begins an HTML block, and if so which of the seven conditions applies.
func classifyHTMLBlockStart(content string, interruptingParagraph bool) (cond htmlBlockCondition, endCond htmlBlockCondition, ok bool) {
	if len(content) == 0 || content[0] != '<' {
		return 0, 0, false
	}
	lower := strings.ToLower(content)

	if strings.HasPrefix(lower, "<!--") {
		return htmlCondComment, htmlCondComment, true
	}
	if strings.HasPrefix(content, "<?") {
		return htmlCondProcessingInstruction, htmlCondProcessingInstruction, true
	}
	if strings.HasPrefix(content, "<![CDATA[") {
		return htmlCondCDATA, htmlCondCDATA, true
	}
	if len(content) >= 2 && content[1] == '!' && len(content) >= 3 && isASCIILetter(content[2]) {
		return htmlCondDeclaration, htmlCondDeclaration, true
	}

	name, isClose, tagEnd, tagOK := scanHTMLTagNameOnly(content)
	if tagOK {
		a := atom.Lookup([]byte(strings.ToLower(name)))
		if !isClose && scriptLikeAtoms[a] {
			return htmlCondScriptLike, htmlCondScriptLike, true
		}
		if blockLevelAtoms[a] {
			rest := content[tagEnd:]
			if rest == "" || isSpaceOrTab(rest[0]) || strings.HasPrefix(rest, ">") ||
				(isClose && rest == "") || strings.HasPrefix(rest, "/>") {
				return htmlCondBlockTag, htmlCondBlockTag, true
			}
		}
	}

	if !interruptingParagraph {
		if _, rest, ok := parseHTMLOpenTag(content); ok {
			if strings.TrimSpace(rest) == "" {
				return htmlCondCompleteTag, htmlCondCompleteTag, true
			}
		}
		if rest, ok := parseHTMLClosingTag(content); ok {
			if strings.TrimSpace(rest) == "" {
				return htmlCondCompleteTag, htmlCondCompleteTag, true
			}
		}
	}

	return 0, 0, false
}

// scanHTMLTagNameOnly extracts a leading "<name" or "</name" tag name
// without validating the rest of the tag, for type 1/6 classification.
func scanHTMLTagNameOnly(content string) (name string, isClose bool, end int, ok bool) {
	i := 1
	if i < len(content) && content[i] == '/' {
		isClose = true
		i++
	}
	start := i
	for i < len(content) && (isASCIILetter(content[i]) || isASCIIDigit(content[i]) || content[i] == '-') {
		i++
	}
	if i == start {
		return "", false, 0, false
	}
	return content[start:i], isClose, i, true
}

// parseHTMLBlock consumes an HTML block starting at lines[0] given its
// start/end condition.
func parseHTMLBlock(lines []string, cond, endCond htmlBlockCondition) (*Block, int) {
	var body []string
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		body = append(body, line)
		if lineEndsHTMLBlock(line, endCond) {
			i++
			break
		}
		if endCond == htmlCondBlockTag || endCond == htmlCondCompleteTag {
			// Types 6 and 7 end at the next blank line, checked before
			// consuming it.
			if i+1 < len(lines) && isBlankLine(lines[i+1]) {
				i++
				break
			}
		}
	}
	literal := strings.Join(body, "\n") + "\n"
	return &Block{kind: HTMLBlockKind, Literal: literal}, i
}

func lineEndsHTMLBlock(line string, endCond htmlBlockCondition) bool {
	lower := strings.ToLower(line)
	switch endCond {
	case htmlCondScriptLike:
		return strings.Contains(lower, "</script>") || strings.Contains(lower, "</pre>") ||
			strings.Contains(lower, "</style>") || strings.Contains(lower, "</textarea>")
	case htmlCondComment:
		return strings.Contains(line, "-->")
	case htmlCondProcessingInstruction:
		return strings.Contains(line, "?>")
	case htmlCondDeclaration:
		return strings.Contains(line, ">")
	case htmlCondCDATA:
		return strings.Contains(line, "]]>")
	default:
		return false
	}
}

// The remaining functions implement the raw HTML tag grammar of
// spec.md §4.3, reused by both HTML block classification (type 7) and
// inline raw-HTML/autolink scanning.

// parseHTMLOpenTag attempts to parse an open tag (with optional
// attributes and self-closing slash) starting at s[0] == '<'.
func parseHTMLOpenTag(s string) (name string, rest string, ok bool) {
	if len(s) < 2 || s[0] != '<' {
		return "", s, false
	}
	i := 1
	if !isASCIILetter(s[i]) {
		return "", s, false
	}
	start := i
	for i < len(s) && (isASCIILetter(s[i]) || isASCIIDigit(s[i]) || s[i] == '-') {
		i++
	}
	name = s[start:i]
	for {
		wsStart := i
		for i < len(s) && isHTMLWhitespace(s[i]) {
			i++
		}
		hadSpace := i > wsStart
		if i < len(s) && s[i] == '/' && i+1 < len(s) && s[i+1] == '>' {
			return name, s[i+2:], true
		}
		if i < len(s) && s[i] == '>' {
			return name, s[i+1:], true
		}
		if !hadSpace {
			return "", s, false
		}
		if i >= len(s) || !isHTMLAttrNameStart(s[i]) {
			return "", s, false
		}
		attrStart := i
		for i < len(s) && isHTMLAttrNameChar(s[i]) {
			i++
		}
		_ = s[attrStart:i]
		save := i
		for i < len(s) && isHTMLWhitespace(s[i]) {
			i++
		}
		if i < len(s) && s[i] == '=' {
			i++
			for i < len(s) && isHTMLWhitespace(s[i]) {
				i++
			}
			if i >= len(s) {
				return "", s, false
			}
			switch s[i] {
			case '"':
				end := strings.IndexByte(s[i+1:], '"')
				if end < 0 {
					return "", s, false
				}
				i = i + 1 + end + 1
			case '\'':
				end := strings.IndexByte(s[i+1:], '\'')
				if end < 0 {
					return "", s, false
				}
				i = i + 1 + end + 1
			default:
				vs := i
				for i < len(s) && !isHTMLWhitespace(s[i]) && s[i] != '>' && !(s[i] == '/' && i+1 < len(s) && s[i+1] == '>') &&
					s[i] != '"' && s[i] != '\'' && s[i] != '=' && s[i] != '<' && s[i] != '`' {
					i++
				}
				if i == vs {
					return "", s, false
				}
			}
		} else {
			i = save
		}
	}
}

func isHTMLWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isHTMLAttrNameStart(c byte) bool {
	return isASCIILetter(c) || c == '_' || c == ':'
}

func isHTMLAttrNameChar(c byte) bool {
	return isASCIILetter(c) || isASCIIDigit(c) || c == '_' || c == '.' || c == ':' || c == '-'
}

// parseHTMLClosingTag attempts to parse a closing tag starting at
// s[0] == '<'.
func parseHTMLClosingTag(s string) (rest string, ok bool) {
	if len(s) < 3 || s[0] != '<' || s[1] != '/' {
		return s, false
	}
	i := 2
	if !isASCIILetter(s[i]) {
		return s, false
	}
	for i < len(s) && (isASCIILetter(s[i]) || isASCIIDigit(s[i]) || s[i] == '-') {
		i++
	}
	for i < len(s) && isHTMLWhitespace(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '>' {
		return s[i+1:], true
	}
	return s, false
}

// scanInlineHTML attempts to scan a single raw HTML construct (open tag,
// closing tag, comment, processing instruction, declaration, or CDATA
// section) starting at s[0] == '<', for the inline parser (spec.md
// §4.3.4).
func scanInlineHTML(s string) (literal string, consumed int, ok bool) {
	if len(s) == 0 || s[0] != '<' {
		return "", 0, false
	}
	if _, rest, ok := parseHTMLOpenTag(s); ok {
		n := len(s) - len(rest)
		return s[:n], n, true
	}
	if rest, ok := parseHTMLClosingTag(s); ok {
		n := len(s) - len(rest)
		return s[:n], n, true
	}
	if strings.HasPrefix(s, "<!--") {
		if end := strings.Index(s[4:], "-->"); end >= 0 {
			n := 4 + end + 3
			return s[:n], n, true
		}
		return "", 0, false
	}
	if strings.HasPrefix(s, "<?") {
		if end := strings.Index(s[2:], "?>"); end >= 0 {
			n := 2 + end + 2
			return s[:n], n, true
		}
		return "", 0, false
	}
	if strings.HasPrefix(s, "<![CDATA[") {
		if end := strings.Index(s[9:], "]]>"); end >= 0 {
			n := 9 + end + 3
			return s[:n], n, true
		}
		return "", 0, false
	}
	if len(s) > 2 && s[1] == '!' && isASCIILetter(s[2]) {
		if end := strings.IndexByte(s[2:], '>'); end >= 0 {
			n := 2 + end + 1
			return s[:n], n, true
		}
		return "", 0, false
	}
	return "", 0, false
}
