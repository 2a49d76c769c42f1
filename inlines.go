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
)

// inlineNode is an intrusive doubly-linked-list node used only during
// inline parsing (spec.md §4.3). Delimiter runs and bracket markers need
// to be spliced, reparented, and occasionally deleted as emphasis and
// link/image resolution proceed; a linked list makes that cheap, unlike
// the slice-based [Inline] tree it is eventually flattened into.
type inlineNode struct {
	kind        InlineKind
	literal     string
	destination string
	title       string
	titleSet    bool
	alt         string
	footnoteLabel string
	footnoteKey   string
	noDelim     bool
	noSmart     bool

	// delimiter-run bookkeeping, valid only while kind == TextKind and the
	// node is (or was) referenced from the delimiter stack.
	delimChar  byte
	delimCount int
	canOpen    bool
	canClose   bool

	firstChild, lastChild *inlineNode
	next, prev            *inlineNode
	parent                *inlineNode
}

func newTextNode(s string) *inlineNode {
	return &inlineNode{kind: TextKind, literal: s}
}

// appendChild appends child to the end of parent's child list.
func (p *inlineNode) appendChild(child *inlineNode) {
	child.parent = p
	child.prev = p.lastChild
	child.next = nil
	if p.lastChild != nil {
		p.lastChild.next = child
	} else {
		p.firstChild = child
	}
	p.lastChild = child
}

// insertAfter inserts sibling immediately after n in n's parent's list.
func insertAfter(n, sibling *inlineNode) {
	sibling.parent = n.parent
	sibling.prev = n
	sibling.next = n.next
	if n.next != nil {
		n.next.prev = sibling
	} else if n.parent != nil {
		n.parent.lastChild = sibling
	}
	n.next = sibling
}

// unlink removes n from its parent's child list, leaving n.next/n.prev
// pointing past the excised node so callers holding a "current position"
// pointer can still advance.
func unlink(n *inlineNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else if n.parent != nil {
		n.parent.firstChild = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else if n.parent != nil {
		n.parent.lastChild = n.prev
	}
}

// bracketFrame records an unmatched '[' or '![' seen during the scan, per
// spec.md §4.3.5.
type bracketFrame struct {
	node   *inlineNode // the TextKind node holding "[" or "!["
	image  bool
	active bool // deactivated once an enclosing link is resolved

	// delimAtOpen is a back-pointer (spec.md §9) to the delimiter-stack
	// element that was on top when this bracket opened. When the bracket
	// goes on to form a link or image, emphasis is resolved only down to
	// this point before the interior is wrapped, so a delimiter run that
	// opens before the bracket and one that closes after it can never be
	// matched across the link/image boundary.
	delimAtOpen *delimiterStackElement
}

// inlineParser holds the mutable state of a single call to parseInlines.
type inlineParser struct {
	st       *parseState
	s        string
	pos      int
	root     *inlineNode
	brackets []*bracketFrame
	delims   *delimiterStackElement // most recently pushed; linked via prev
}

// parseInlines parses raw as a sequence of inline content per spec.md
// §4.3, resolving link/image brackets and footnote references but leaving
// emphasis/strikethrough delimiter runs to be resolved by processEmphasis
// once the whole sequence has been scanned.
func parseInlines(raw string, st *parseState) []*Inline {
	if raw == "" {
		return nil
	}
	p := &inlineParser{st: st, s: raw, root: &inlineNode{kind: 0}}
	p.run()
	processEmphasis(p, nil)
	if st.ext.Has(ExtStrikethrough) {
		processStrikethroughEmphasis(p)
	}
	return flattenChildren(p.root)
}

func (p *inlineParser) append(n *inlineNode) {
	p.root.appendChild(n)
}

func (p *inlineParser) run() {
	s := p.s
	for p.pos < len(s) {
		c := s[p.pos]
		switch {
		case c == '\\':
			p.scanBackslash()
		case c == '`':
			p.scanCodeSpan()
		case c == '*' || c == '_':
			p.scanDelimiterRun(c)
		case p.st.ext.Has(ExtStrikethrough) && c == '~':
			if !p.scanStrikethroughDelimiterRun() {
				p.scanTextByte()
			}
		case p.st.ext.Has(ExtFootnotes) && c == '[' && p.pos+1 < len(s) && s[p.pos+1] == '^':
			if !p.scanFootnoteReference() {
				p.scanOpenBracket(false)
			}
		case c == '[':
			p.scanOpenBracket(false)
		case c == '!' && p.pos+1 < len(s) && s[p.pos+1] == '[':
			p.scanOpenBracket(true)
		case c == ']':
			p.scanCloseBracket()
		case c == '<':
			if !p.scanAutolinkOrRawHTML() {
				p.scanTextByte()
			}
		case c == '&':
			p.scanEntityOrText()
		case c == '\n':
			p.scanLineBreak()
		case p.st.ext.Has(ExtAutolink) && isWordBoundaryBefore(p) && p.tryScanExtendedAutolink():
			// handled
		default:
			p.scanTextRun()
		}
	}
}

func (p *inlineParser) scanBackslash() {
	s := p.s
	if p.pos+1 < len(s) {
		next := s[p.pos+1]
		if next == '\n' {
			p.append(&inlineNode{kind: HardBreakKind})
			p.pos += 2
			return
		}
		if isASCIIPunctuation(next) {
			n := newTextNode(string(next))
			n.noDelim = true
			n.noSmart = true
			p.append(n)
			p.pos += 2
			return
		}
	}
	p.append(newTextNode("\\"))
	p.pos++
}

func (p *inlineParser) scanCodeSpan() {
	s := p.s
	start := p.pos
	n := 0
	for p.pos < len(s) && s[p.pos] == '`' {
		p.pos++
		n++
	}
	fence := s[start : start+n]
	closeIdx := findCodeSpanClose(s, p.pos, fence)
	if closeIdx < 0 {
		p.append(newTextNode(fence))
		return
	}
	content := s[p.pos:closeIdx]
	p.pos = closeIdx + n
	content = normalizeCodeSpanContent(content)
	p.append(&inlineNode{kind: CodeSpanKind, literal: content})
}

func findCodeSpanClose(s string, from int, fence string) int {
	for i := from; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '`' {
			j++
		}
		if j-i == len(fence) {
			return i
		}
		i = j
	}
	return -1
}

func normalizeCodeSpanContent(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.TrimSpace(s) != "" {
		s = s[1 : len(s)-1]
	}
	return s
}

func (p *inlineParser) scanTextByte() {
	p.append(newTextNode(string(p.s[p.pos])))
	p.pos++
}

// scanTextRun consumes a maximal run of bytes that don't start any other
// inline construct, as one Text node.
func (p *inlineParser) scanTextRun() {
	s := p.s
	start := p.pos
	for p.pos < len(s) && !isInlineSpecial(s[p.pos], p.st.ext) {
		if p.pos > start && p.st.ext.Has(ExtAutolink) && (isASCIILetter(s[p.pos]) || isASCIIDigit(s[p.pos])) && isWordBoundaryBefore(p) {
			// A word start may begin an extended autolink.
			break
		}
		p.pos++
	}
	if p.pos == start {
		p.pos++
	}
	p.append(newTextNode(s[start:p.pos]))
}

func isInlineSpecial(c byte, ext Extensions) bool {
	switch c {
	case '\\', '`', '*', '_', '[', ']', '!', '<', '&', '\n':
		return true
	case '~':
		return ext.Has(ExtStrikethrough)
	default:
		return false
	}
}

func (p *inlineParser) scanLineBreak() {
	// Look at what was appended just before this newline to decide
	// hard vs soft break (spec.md §4.3, hard/soft breaks).
	s := p.s
	hard := false
	if last := p.root.lastChild; last != nil && last.kind == TextKind {
		trimmed := strings.TrimRight(last.literal, " ")
		if len(last.literal)-len(trimmed) >= 2 {
			hard = true
			last.literal = trimmed
		} else {
			last.literal = strings.TrimRight(last.literal, " \t")
		}
	}
	p.pos++
	// consume leading spaces of the next line
	for p.pos < len(s) && (s[p.pos] == ' ' || s[p.pos] == '\t') {
		p.pos++
	}
	if hard {
		p.append(&inlineNode{kind: HardBreakKind})
	} else {
		p.append(&inlineNode{kind: SoftBreakKind})
	}
}

func (p *inlineParser) scanEntityOrText() {
	if decoded, n, ok := scanEntity(p.s[p.pos:]); ok {
		node := newTextNode(decoded)
		node.noDelim = true
		p.append(node)
		p.pos += n
		return
	}
	p.scanTextByte()
}

func (p *inlineParser) scanAutolinkOrRawHTML() bool {
	s := p.s[p.pos:]
	if dest, label, ok := scanAbsoluteURIAutolink(s); ok {
		p.append(&inlineNode{kind: AutolinkKind, literal: label, destination: dest})
		p.pos += len(label) + 2
		return true
	}
	if addr, ok := scanEmailAutolink(s); ok {
		p.append(&inlineNode{kind: AutolinkKind, literal: addr, destination: "mailto:" + addr})
		p.pos += len(addr) + 2
		return true
	}
	if literal, consumed, ok := scanInlineHTML(s); ok {
		lit := literal
		if p.st.ext.Has(ExtTagfilter) {
			lit = filterTagGFM(lit)
		}
		p.append(&inlineNode{kind: RawHTMLKind, literal: lit})
		p.pos += consumed
		return true
	}
	return false
}

// scanOpenBracket records a potential link ('[') or image ('![') opening.
func (p *inlineParser) scanOpenBracket(image bool) {
	lit := "["
	if image {
		lit = "!["
	}
	node := newTextNode(lit)
	p.append(node)
	p.pos += len(lit)
	p.brackets = append(p.brackets, &bracketFrame{node: node, image: image, active: true, delimAtOpen: p.delims})
}

func (p *inlineParser) scanCloseBracket() {
	if len(p.brackets) == 0 {
		p.scanTextByte()
		return
	}
	frame := p.brackets[len(p.brackets)-1]
	p.brackets = p.brackets[:len(p.brackets)-1]
	if !frame.active {
		p.append(newTextNode("]"))
		p.pos++
		return
	}
	closeNode := newTextNode("]")
	p.append(closeNode)
	p.pos++

	dest, title, titleSet, label, matched := p.tryMatchLinkTail(frame, closeNode)
	if !matched {
		frame.node.noDelim = true
		return
	}

	// Resolve emphasis within the bracket's interior now, before the
	// interior is wrapped into a Link/Image container, scoped to the
	// delimiter that was on top when this bracket opened (spec.md §9's
	// back-pointer). This keeps a delimiter run straddling the bracket
	// boundary (e.g. "*foo [bar*](/url)*") from being matched across it.
	processEmphasis(p, frame.delimAtOpen)
	p.delims = frame.delimAtOpen
	if frame.delimAtOpen != nil {
		frame.delimAtOpen.next = nil
	}

	// Collect the nodes between the opening marker and the closing ']'
	// (exclusive) as the link/image's content, then replace that whole
	// span with a single Link/Image node.
	contentStart := frame.node.next
	contentEnd := closeNode.prev

	kind := LinkKind
	if frame.image {
		kind = ImageKind
	}
	container := &inlineNode{kind: kind, destination: dest, title: title, titleSet: titleSet}
	moveRange(container, contentStart, contentEnd)

	if kind == ImageKind {
		container.alt = flattenText(container)
		container.firstChild, container.lastChild = nil, nil
	}

	replaceRange(frame.node, closeNode, container)

	if kind == LinkKind {
		for _, f := range p.brackets {
			if !f.image {
				f.active = false
			}
		}
	}
	_ = label
}

// moveRange reparents the sibling chain [start, end] (inclusive) to be
// container's children.
func moveRange(container *inlineNode, start, end *inlineNode) {
	if start == nil {
		return
	}
	n := start
	for n != nil {
		next := n.next
		n.parent = container
		n.prev = nil
		n.next = nil
		if container.lastChild != nil {
			container.lastChild.next = n
			n.prev = container.lastChild
		} else {
			container.firstChild = n
		}
		container.lastChild = n
		if n == end {
			break
		}
		n = next
	}
}

// replaceRange removes the sibling chain from openNode through closeNode
// (inclusive) and puts replacement in its place.
func replaceRange(openNode, closeNode, replacement *inlineNode) {
	parent := openNode.parent
	prev := openNode.prev
	next := closeNode.next
	replacement.parent = parent
	replacement.prev = prev
	replacement.next = next
	if prev != nil {
		prev.next = replacement
	} else if parent != nil {
		parent.firstChild = replacement
	}
	if next != nil {
		next.prev = replacement
	} else if parent != nil {
		parent.lastChild = replacement
	}
}

func flattenText(n *inlineNode) string {
	var sb strings.Builder
	for c := n.firstChild; c != nil; c = c.next {
		switch c.kind {
		case TextKind, CodeSpanKind:
			sb.WriteString(c.literal)
		default:
			sb.WriteString(flattenText(c))
		}
	}
	return sb.String()
}

// tryMatchLinkTail attempts to parse an inline "(dest title)", a
// reference "[label]", a collapsed "[]", or a shortcut reference
// immediately following the just-scanned ']'. closeNode is that ']'
// text node, already appended to the sequence; label text is read from
// the nodes strictly between the opening marker and closeNode, so
// closeNode is passed as textBetween's exclusive end rather than nil,
// which would otherwise walk the literal "]" into the label.
func (p *inlineParser) tryMatchLinkTail(frame *bracketFrame, closeNode *inlineNode) (dest, title string, titleSet bool, label string, ok bool) {
	s := p.s
	if p.pos < len(s) && s[p.pos] == '(' {
		if d, t, tset, n, ok2 := parseInlineLinkTail(s[p.pos:]); ok2 {
			p.pos += n
			return d, t, tset, "", true
		}
	}
	if p.pos < len(s) && s[p.pos] == '[' {
		if lbl, n, ok2 := parseLinkLabel(s[p.pos:]); ok2 {
			key := lbl
			if key == "" {
				key = textBetween(frame.node.next, closeNode)
			}
			if def, found := p.st.refs[normalizeLabel(key)]; found {
				p.pos += n
				return def.Destination, def.Title, def.TitlePresent, key, true
			}
			return "", "", false, "", false
		}
	}
	// shortcut reference
	shortcutLabel := textBetween(frame.node.next, closeNode)
	if def, found := p.st.refs[normalizeLabel(shortcutLabel)]; found {
		return def.Destination, def.Title, def.TitlePresent, shortcutLabel, true
	}
	return "", "", false, "", false
}

func textBetween(start, end *inlineNode) string {
	var sb strings.Builder
	for n := start; n != nil && n != end; n = n.next {
		sb.WriteString(n.literal)
	}
	return sb.String()
}

// parseLinkLabel parses "[...]" (a reference label, possibly empty) from
// the start of s, returning the label text and bytes consumed.
func parseLinkLabel(s string) (label string, consumed int, ok bool) {
	if len(s) == 0 || s[0] != '[' {
		return "", 0, false
	}
	i := 1
	depth := 0
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '[':
			depth++
		case ']':
			if depth == 0 {
				if i-1 > 999 {
					return "", 0, false
				}
				return s[1:i], i + 1, true
			}
			depth--
		}
		i++
	}
	return "", 0, false
}

// parseInlineLinkTail parses "(dest \"title\")" from the start of s.
func parseInlineLinkTail(s string) (dest, title string, titleSet bool, consumed int, ok bool) {
	i := 1
	for i < len(s) && isHTMLWhitespace(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '<' {
		end := strings.IndexByte(s[i+1:], '>')
		if end < 0 {
			return "", "", false, 0, false
		}
		dest = decodeInlineText(s[i+1 : i+1+end])
		i = i + 1 + end + 1
	} else {
		start := i
		depth := 0
		for i < len(s) {
			c := s[i]
			if c == '\\' {
				i += 2
				continue
			}
			if c == '(' {
				depth++
			} else if c == ')' {
				if depth == 0 {
					break
				}
				depth--
			} else if isHTMLWhitespace(c) {
				break
			} else if c < 0x20 {
				return "", "", false, 0, false
			}
			i++
		}
		dest = decodeInlineText(s[start:i])
	}
	for i < len(s) && isHTMLWhitespace(s[i]) {
		i++
	}
	if i < len(s) && (s[i] == '"' || s[i] == '\'' || s[i] == '(') {
		closeChar := byte('"')
		switch s[i] {
		case '\'':
			closeChar = '\''
		case '(':
			closeChar = ')'
		}
		j := i + 1
		for j < len(s) {
			if s[j] == '\\' {
				j += 2
				continue
			}
			if s[j] == closeChar {
				break
			}
			j++
		}
		if j >= len(s) {
			return "", "", false, 0, false
		}
		title = decodeInlineText(s[i+1 : j])
		titleSet = true
		i = j + 1
		for i < len(s) && isHTMLWhitespace(s[i]) {
			i++
		}
	}
	if i >= len(s) || s[i] != ')' {
		return "", "", false, 0, false
	}
	return NormalizeURI(dest), title, titleSet, i + 1, true
}

// decodeInlineText resolves backslash escapes and entities in a link
// destination or title, per spec.md §4.3.2/§4.3.3.
func decodeInlineText(s string) string {
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

// tryParseLinkReferenceDefinition attempts to parse and remove a leading
// link reference definition from text, registering it in refs on success
// (spec.md §4.2, step 10).
func tryParseLinkReferenceDefinition(text string, refs ReferenceMap) (rest string, consumed bool) {
	s := strings.TrimLeft(text, " \t\n")
	label, n, ok := parseLinkLabel(s)
	if !ok || strings.TrimSpace(label) == "" {
		return text, false
	}
	s = s[n:]
	if !strings.HasPrefix(s, ":") {
		return text, false
	}
	s = s[1:]
	s = strings.TrimLeft(s, " \t\n")
	var dest string
	if strings.HasPrefix(s, "<") {
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return text, false
		}
		dest = decodeInlineText(s[1:end])
		s = s[end+1:]
	} else {
		i := 0
		for i < len(s) && !isHTMLWhitespace(s[i]) {
			i++
		}
		if i == 0 {
			return text, false
		}
		dest = decodeInlineText(s[:i])
		s = s[i:]
	}
	afterDest := s
	title := ""
	titlePresent := false
	trimmed := strings.TrimLeft(s, " \t\n")
	if len(trimmed) > 0 && (trimmed[0] == '"' || trimmed[0] == '\'' || trimmed[0] == '(') {
		closeChar := byte('"')
		switch trimmed[0] {
		case '\'':
			closeChar = '\''
		case '(':
			closeChar = ')'
		}
		j := 1
		for j < len(trimmed) {
			if trimmed[j] == '\\' {
				j += 2
				continue
			}
			if trimmed[j] == closeChar {
				break
			}
			j++
		}
		if j < len(trimmed) {
			restAfterTitle := trimmed[j+1:]
			lineEnd := strings.IndexByte(restAfterTitle, '\n')
			tail := restAfterTitle
			if lineEnd >= 0 {
				tail = restAfterTitle[:lineEnd]
			}
			if strings.TrimSpace(tail) == "" {
				title = decodeInlineText(trimmed[1:j])
				titlePresent = true
				s = restAfterTitle
			} else {
				s = afterDest
			}
		}
	}
	// The rest of the current line, up to the next newline, must be blank.
	lineEnd := strings.IndexByte(s, '\n')
	firstLineTail := s
	if lineEnd >= 0 {
		firstLineTail = s[:lineEnd]
	}
	if strings.TrimSpace(firstLineTail) != "" {
		return text, false
	}
	if lineEnd >= 0 {
		s = s[lineEnd+1:]
	} else {
		s = ""
	}
	refs.define(label, LinkDefinition{Destination: dest, Title: title, TitlePresent: titlePresent})
	return s, true
}

// scanAbsoluteURIAutolink recognizes a core CommonMark "<scheme:...>"
// autolink (spec.md §4.3, autolinks) starting at s[0] == '<'.
func scanAbsoluteURIAutolink(s string) (dest, label string, ok bool) {
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", "", false
	}
	body := s[1:end]
	if strings.ContainsAny(body, " \t\n<") {
		return "", "", false
	}
	colon := strings.IndexByte(body, ':')
	if colon < 2 {
		return "", "", false
	}
	scheme := body[:colon]
	if !isASCIILetter(scheme[0]) {
		return "", "", false
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		if !isASCIILetter(c) && !isASCIIDigit(c) && c != '+' && c != '.' && c != '-' {
			return "", "", false
		}
	}
	if len(scheme) < 2 || len(scheme) > 32 {
		return "", "", false
	}
	return NormalizeURI(body), body, true
}

// scanEmailAutolink recognizes a core CommonMark "<user@host>" email
// autolink starting at s[0] == '<'.
func scanEmailAutolink(s string) (addr string, ok bool) {
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", false
	}
	body := s[1:end]
	if !looksLikeEmailAddress(body) {
		return "", false
	}
	return body, true
}

// looksLikeEmailAddress implements a permissive approximation of the
// autolink email grammar in the CommonMark spec appendix.
func looksLikeEmailAddress(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	for i := 0; i < len(local); i++ {
		c := local[i]
		if !isASCIILetter(c) && !isASCIIDigit(c) && !strings.ContainsRune(".!#$%&'*+/=?^_`{|}~-", rune(c)) {
			return false
		}
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 1 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !isASCIILetter(c) && !isASCIIDigit(c) && c != '-' {
				return false
			}
		}
	}
	return true
}

// flattenChildren converts the linked-list children of n into the []
// *Inline tree used by the public API.
func flattenChildren(n *inlineNode) []*Inline {
	var out []*Inline
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, flattenNode(c))
	}
	return out
}

func flattenNode(n *inlineNode) *Inline {
	return &Inline{
		kind:          n.kind,
		Literal:       n.literal,
		noDelim:       n.noDelim,
		noSmart:       n.noSmart,
		Destination:   n.destination,
		Title:         n.title,
		TitleSet:      n.titleSet,
		Alt:           n.alt,
		FootnoteLabel: n.footnoteLabel,
		FootnoteKey:   n.footnoteKey,
		Children:      flattenChildrenAsInlines(n),
	}
}

func flattenChildrenAsInlines(n *inlineNode) []*Inline {
	var out []*Inline
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, flattenNode(c))
	}
	return out
}

