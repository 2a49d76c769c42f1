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
	"unicode/utf8"
)

// scanStrikethroughDelimiterRun scans a GFM strikethrough delimiter run
// (spec.md §4.3.7): exactly one or two consecutive '~' characters,
// classified with the same flanking rules as emphasis delimiters.
func (p *inlineParser) scanStrikethroughDelimiterRun() bool {
	s := p.s
	start := p.pos
	n := 0
	for p.pos < len(s) && s[p.pos] == '~' && n < 2 {
		p.pos++
		n++
	}
	if p.pos < len(s) && s[p.pos] == '~' {
		// More than two tildes: GFM does not treat this as a
		// strikethrough delimiter run.
		for p.pos < len(s) && s[p.pos] == '~' {
			p.pos++
		}
		p.append(newTextNode(s[start:p.pos]))
		return true
	}
	run := s[start:p.pos]

	before, _ := utf8.DecodeLastRuneInString(s[:start])
	if start == 0 {
		before = ' '
	}
	after, _ := utf8.DecodeRuneInString(s[p.pos:])
	if p.pos >= len(s) {
		after = ' '
	}
	beforeSpace := isUnicodeWhitespace(before)
	afterSpace := isUnicodeWhitespace(after)
	beforePunct := isUnicodePunctuation(before)
	afterPunct := isUnicodePunctuation(after)
	leftFlanking := !afterSpace && !(afterPunct && !beforeSpace && !beforePunct)
	rightFlanking := !beforeSpace && !(beforePunct && !afterSpace && !afterPunct)

	node := newTextNode(run)
	node.delimChar = '~'
	node.delimCount = len(run)
	node.canOpen = leftFlanking
	node.canClose = rightFlanking
	p.append(node)

	if leftFlanking || rightFlanking {
		p.pushDelimiter(&delimiterStackElement{
			node:      node,
			char:      '~',
			count:     len(run),
			origCount: len(run),
			canOpen:   leftFlanking,
			canClose:  rightFlanking,
		})
	}
	return true
}

// processStrikethroughEmphasis resolves '~' delimiter runs into
// Strikethrough nodes. Unlike '*'/'_', GFM strikethrough delimiters must
// match same-length runs (both single or both double tilde), so this
// walks the stack independently of processEmphasis rather than sharing
// its multiple-of-3 logic.
func processStrikethroughEmphasis(p *inlineParser) {
	for closer := firstDelimiter(p); closer != nil; {
		next := closer.next
		if closer.char != '~' || !closer.canClose || closer.count == 0 {
			closer = next
			continue
		}
		var opener *delimiterStackElement
		for o := closer.prev; o != nil; o = o.prev {
			if o.char == '~' && o.canOpen && o.count == closer.count {
				opener = o
				break
			}
		}
		if opener == nil {
			closer = next
			continue
		}
		wrapStrikethrough(opener, closer)
		unlink(opener.node)
		unlink(closer.node)
		removeDelimiter(opener)
		removeDelimiter(closer)
		closer.count = 0
		closer = next
	}
}

func wrapStrikethrough(opener, closer *delimiterStackElement) {
	container := &inlineNode{kind: StrikethroughKind}
	start := opener.node.next
	end := closer.node.prev
	if start == closer.node {
		start, end = nil, nil
	}
	if start != nil {
		moveRange(container, start, end)
	}
	container.parent = opener.node.parent
	container.prev = opener.node
	container.next = closer.node
	opener.node.next = container
	closer.node.prev = container
}

func firstDelimiter(p *inlineParser) *delimiterStackElement {
	e := p.delims
	if e == nil {
		return nil
	}
	for e.prev != nil {
		e = e.prev
	}
	return e
}

// isWordBoundaryBefore reports whether the position just before p.pos is
// not an alphanumeric character, a precondition for recognizing a GFM
// extended autolink (spec.md §4.3.8): "www.commonmark.org" inside
// "wwwwww.commonmark.org" is not an autolink.
func isWordBoundaryBefore(p *inlineParser) bool {
	if p.pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(p.s[:p.pos])
	if r > 0x7f {
		return true
	}
	return !(isASCIILetter(byte(r)) || isASCIIDigit(byte(r)))
}

// tryScanExtendedAutolink recognizes a GFM extended autolink (www., http/
// https URL, or bare email address) starting at p.pos, per spec.md
// §4.3.8. It reports whether it matched and consumed input.
func (p *inlineParser) tryScanExtendedAutolink() bool {
	s := p.s[p.pos:]
	switch {
	case hasCaseInsensitivePrefix(s, "www.") && p.scanExtendedWebAutolink(s, 0):
		return true
	case hasCaseInsensitivePrefix(s, "http://") && p.scanExtendedWebAutolink(s, 7):
		return true
	case hasCaseInsensitivePrefix(s, "https://") && p.scanExtendedWebAutolink(s, 8):
		return true
	default:
		return p.scanExtendedEmailAutolink(s)
	}
}

func (p *inlineParser) scanExtendedWebAutolink(s string, schemeLen int) bool {
	end := schemeLen
	for end < len(s) && !isUnicodeWhitespaceByte(s[end]) && s[end] != '<' {
		end++
	}
	domainAndPath := s[:end]
	if !strings.Contains(domainAndPath[schemeLen:], ".") {
		return false
	}
	domainAndPath = trimExtendedAutolinkTrailer(domainAndPath)
	if domainAndPath == "" {
		return false
	}
	label := domainAndPath
	dest := domainAndPath
	if schemeLen == 0 {
		dest = "http://" + domainAndPath
	}
	p.append(&inlineNode{kind: AutolinkKind, literal: label, destination: NormalizeURI(dest)})
	p.pos += len(domainAndPath)
	return true
}

// trimExtendedAutolinkTrailer strips trailing punctuation and balances
// parentheses per the GFM extended-autolink trailing-punctuation rule.
func trimExtendedAutolinkTrailer(s string) string {
	for {
		if s == "" {
			return s
		}
		last := s[len(s)-1]
		switch last {
		case '?', '!', '.', ',', ':', '*', '_', '~':
			s = s[:len(s)-1]
			continue
		case ';':
			if entityEnd := strings.LastIndexByte(s, '&'); entityEnd >= 0 {
				if _, _, ok := scanEntity(s[entityEnd:]); ok {
					s = s[:entityEnd]
					continue
				}
			}
			s = s[:len(s)-1]
			continue
		case ')':
			open := strings.Count(s, "(")
			closeCount := strings.Count(s, ")")
			if closeCount > open {
				s = s[:len(s)-1]
				continue
			}
		}
		return s
	}
}

func (p *inlineParser) scanExtendedEmailAutolink(s string) bool {
	end := 0
	for end < len(s) {
		c := s[end]
		if isASCIILetter(c) || isASCIIDigit(c) || strings.ContainsRune(".+-_", rune(c)) {
			end++
			continue
		}
		break
	}
	if end == 0 || end >= len(s) || s[end] != '@' {
		return false
	}
	local := s[:end]
	rest := s[end+1:]
	domEnd := 0
	lastDot := -1
	for domEnd < len(rest) {
		c := rest[domEnd]
		if isASCIILetter(c) || isASCIIDigit(c) || c == '-' {
			domEnd++
			continue
		}
		if c == '.' && domEnd+1 < len(rest) && (isASCIILetter(rest[domEnd+1]) || isASCIIDigit(rest[domEnd+1])) {
			lastDot = domEnd
			domEnd++
			continue
		}
		break
	}
	if lastDot < 0 || domEnd == 0 {
		return false
	}
	domain := rest[:domEnd]
	addr := local + "@" + domain
	p.append(&inlineNode{kind: AutolinkKind, literal: addr, destination: "mailto:" + addr})
	p.pos += len(addr)
	return true
}

func isUnicodeWhitespaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// scanFootnoteReference recognizes a GFM footnote reference "[^label]"
// (spec.md §4.3.9) at p.pos.
func (p *inlineParser) scanFootnoteReference() bool {
	s := p.s[p.pos:]
	label, n, ok := parseLinkLabel(s)
	if !ok || len(label) < 2 || label[0] != '^' {
		return false
	}
	key := label[1:]
	if key == "" {
		return false
	}
	p.append(&inlineNode{kind: FootnoteReferenceKind, footnoteLabel: key, footnoteKey: normalizeLabel(key)})
	p.pos += n
	return true
}

// filterTagGFM disables the small set of raw HTML tags GFM's tag filter
// extension disallows (spec.md §4.4.9) by inserting a literal "&lt;"
// where a "<" would otherwise start the tag.
func filterTagGFM(raw string) string {
	if len(raw) < 2 || raw[0] != '<' {
		return raw
	}
	i := 1
	if i < len(raw) && raw[i] == '/' {
		i++
	}
	start := i
	for i < len(raw) && (isASCIILetter(raw[i]) || isASCIIDigit(raw[i])) {
		i++
	}
	name := strings.ToLower(raw[start:i])
	switch name {
	case "title", "textarea", "style", "xmp", "iframe", "noembed", "noframes", "script", "plaintext":
		return "&lt;" + raw[1:]
	default:
		return raw
	}
}
