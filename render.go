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
	"fmt"
	"strconv"
	"strings"
)

// htmlRenderer converts a parsed [Document] to HTML per spec.md §4.4.
type htmlRenderer struct {
	opts      RenderOptions
	refs      ReferenceMap
	footnotes FootnoteMap
	sb        strings.Builder

	footnoteOrder     []string
	footnoteAnchors   map[string]string
	footnoteRefCount  map[string]int
	footnoteDisplayNo map[string]int
}

func (r *htmlRenderer) render(doc *Document) string {
	r.footnoteAnchors = make(map[string]string)
	r.footnoteRefCount = make(map[string]int)
	r.footnoteDisplayNo = make(map[string]int)
	for _, b := range doc.Children {
		r.block(b, false)
	}
	r.renderFootnotes()
	return r.sb.String()
}

func (r *htmlRenderer) block(b *Block, tight bool) {
	switch b.Kind() {
	case ParagraphKind:
		if tight {
			r.inlines(b.Inlines)
			r.sb.WriteByte('\n')
			return
		}
		r.sb.WriteString("<p>")
		r.inlines(b.Inlines)
		r.sb.WriteString("</p>\n")
	case ThematicBreakKind:
		r.sb.WriteString("<hr />\n")
	case ATXHeadingKind, SetextHeadingKind:
		level := b.Level
		if level < 1 {
			level = 1
		}
		fmt.Fprintf(&r.sb, "<h%d>", level)
		r.inlines(b.Inlines)
		fmt.Fprintf(&r.sb, "</h%d>\n", level)
	case IndentedCodeBlockKind:
		r.sb.WriteString("<pre><code>")
		r.sb.WriteString(escapeHTML(b.Literal, false))
		r.sb.WriteString("</code></pre>\n")
	case FencedCodeBlockKind:
		r.renderFencedCode(b)
	case HTMLBlockKind:
		if r.opts.Safe {
			r.sb.WriteString("<!-- raw HTML omitted -->\n")
			return
		}
		if !r.opts.Extensions.Has(ExtTagfilter) {
			r.sb.WriteString(b.Literal)
			return
		}
		rest := b.Literal
		for i := strings.IndexByte(rest, '<'); i >= 0; i = strings.IndexByte(rest, '<') {
			r.sb.WriteString(rest[:i])
			if filterTagGFM(rest[i:]) != rest[i:] {
				r.sb.WriteString("&lt;")
			} else {
				r.sb.WriteByte('<')
			}
			rest = rest[i+1:]
		}
		r.sb.WriteString(rest)
	case BlockQuoteKind:
		r.sb.WriteString("<blockquote>\n")
		for _, c := range b.blockChildren() {
			r.block(c, false)
		}
		r.sb.WriteString("</blockquote>\n")
	case ListKind:
		r.renderList(b)
	case TableKind:
		r.renderTable(b)
	}
}

func (r *htmlRenderer) renderFencedCode(b *Block) {
	r.sb.WriteString("<pre><code")
	if b.Info != "" {
		class := b.Info
		if !r.opts.FullInfoString {
			if i := strings.IndexAny(class, " \t"); i >= 0 {
				class = class[:i]
			}
		}
		if class != "" {
			r.sb.WriteString(` class="language-`)
			r.sb.WriteString(escapeHTML(class, true))
			r.sb.WriteByte('"')
		}
	}
	r.sb.WriteByte('>')
	r.sb.WriteString(escapeHTML(b.Literal, false))
	r.sb.WriteString("</code></pre>\n")
}

func (r *htmlRenderer) renderList(b *Block) {
	tag := "ul"
	if b.ListType == OrderedList {
		tag = "ol"
	}
	r.sb.WriteByte('<')
	r.sb.WriteString(tag)
	if b.ListType == OrderedList && b.Start != 1 {
		fmt.Fprintf(&r.sb, ` start="%d"`, b.Start)
	}
	r.sb.WriteString(">\n")
	for _, item := range b.blockChildren() {
		r.renderListItem(item, b.Tight)
	}
	r.sb.WriteString("</")
	r.sb.WriteString(tag)
	r.sb.WriteString(">\n")
}

func (r *htmlRenderer) renderListItem(item *Block, tight bool) {
	r.sb.WriteString("<li>")
	if item.Checked != nil && r.opts.Extensions.Has(ExtTasklist) {
		if *item.Checked {
			r.sb.WriteString(`<input type="checkbox" checked="" disabled="" /> `)
		} else {
			r.sb.WriteString(`<input type="checkbox" disabled="" /> `)
		}
	}
	children := item.blockChildren()
	if tight && len(children) > 0 {
		if children[0].Kind() == ParagraphKind {
			r.inlines(children[0].Inlines)
		}
		for _, c := range children[1:] {
			r.sb.WriteByte('\n')
			r.block(c, tight)
		}
	} else {
		r.sb.WriteByte('\n')
		for _, c := range children {
			r.block(c, false)
		}
	}
	r.sb.WriteString("</li>\n")
}

func (r *htmlRenderer) renderTable(b *Block) {
	rows := b.blockChildren()
	if len(rows) == 0 {
		return
	}
	r.sb.WriteString("<table>\n<thead>\n")
	r.renderTableRow(rows[0], b.Alignments)
	r.sb.WriteString("</thead>\n")
	if len(rows) > 1 {
		r.sb.WriteString("<tbody>\n")
		for _, row := range rows[1:] {
			r.renderTableRow(row, b.Alignments)
		}
		r.sb.WriteString("</tbody>\n")
	}
	r.sb.WriteString("</table>\n")
}

func (r *htmlRenderer) renderTableRow(row *Block, alignments []Alignment) {
	r.sb.WriteString("<tr>\n")
	cellTag := "td"
	if row.IsHeader {
		cellTag = "th"
	}
	for i, cell := range row.blockChildren() {
		align := AlignNone
		if i < len(alignments) {
			align = alignments[i]
		}
		r.sb.WriteByte('<')
		r.sb.WriteString(cellTag)
		r.writeAlignAttr(align)
		r.sb.WriteByte('>')
		r.inlines(cell.Inlines)
		r.sb.WriteString("</")
		r.sb.WriteString(cellTag)
		r.sb.WriteString(">\n")
	}
	r.sb.WriteString("</tr>\n")
}

func (r *htmlRenderer) writeAlignAttr(align Alignment) {
	if align == AlignNone {
		return
	}
	name := map[Alignment]string{AlignLeft: "left", AlignCenter: "center", AlignRight: "right"}[align]
	if r.opts.TablePreferStyleAttributes {
		fmt.Fprintf(&r.sb, ` style="text-align: %s"`, name)
		return
	}
	fmt.Fprintf(&r.sb, ` align="%s"`, name)
}

func (r *htmlRenderer) inlines(nodes []*Inline) {
	for _, n := range nodes {
		r.inline(n)
	}
}

func (r *htmlRenderer) inline(n *Inline) {
	switch n.Kind() {
	case TextKind:
		text := n.Literal
		if r.opts.Smart && !n.noSmart {
			text = applySmartPunctuation(text)
		}
		r.sb.WriteString(escapeHTML(text, false))
	case SoftBreakKind:
		if r.opts.Smart {
			r.sb.WriteByte(' ')
		} else {
			r.sb.WriteByte('\n')
		}
	case HardBreakKind:
		r.sb.WriteString("<br />\n")
	case CodeSpanKind:
		r.sb.WriteString("<code>")
		r.sb.WriteString(escapeHTML(n.Literal, false))
		r.sb.WriteString("</code>")
	case EmphasisKind:
		r.sb.WriteString("<em>")
		r.inlines(n.Children)
		r.sb.WriteString("</em>")
	case StrongKind:
		r.sb.WriteString("<strong>")
		r.inlines(n.Children)
		r.sb.WriteString("</strong>")
	case StrikethroughKind:
		r.sb.WriteString("<del>")
		r.inlines(n.Children)
		r.sb.WriteString("</del>")
	case LinkKind:
		if r.opts.Safe && isDangerousURL(n.Destination) {
			r.inlines(n.Children)
			return
		}
		r.sb.WriteString(`<a href="`)
		r.writeURL(n.Destination)
		r.sb.WriteByte('"')
		if n.TitleSet {
			r.sb.WriteString(` title="`)
			r.sb.WriteString(escapeHTML(n.Title, true))
			r.sb.WriteByte('"')
		}
		r.sb.WriteByte('>')
		r.inlines(n.Children)
		r.sb.WriteString("</a>")
	case ImageKind:
		if r.opts.Safe && isDangerousURL(n.Destination) {
			r.sb.WriteString(escapeHTML(n.Alt, false))
			return
		}
		r.sb.WriteString(`<img src="`)
		r.writeURL(n.Destination)
		r.sb.WriteString(`" alt="`)
		r.sb.WriteString(escapeHTML(n.Alt, true))
		r.sb.WriteByte('"')
		if n.TitleSet {
			r.sb.WriteString(` title="`)
			r.sb.WriteString(escapeHTML(n.Title, true))
			r.sb.WriteByte('"')
		}
		r.sb.WriteString(" />")
	case AutolinkKind:
		r.sb.WriteString(`<a href="`)
		r.writeURL(n.Destination)
		r.sb.WriteString(`">`)
		r.sb.WriteString(escapeHTML(n.Literal, false))
		r.sb.WriteString("</a>")
	case RawHTMLKind:
		if r.opts.Safe {
			r.sb.WriteString("<!-- raw HTML omitted -->")
			return
		}
		r.sb.WriteString(n.Literal)
	case FootnoteReferenceKind:
		r.renderFootnoteReference(n)
	}
}

func (r *htmlRenderer) writeURL(dest string) {
	if r.opts.Safe && isDangerousURL(dest) {
		r.sb.WriteString("")
		return
	}
	r.sb.WriteString(escapeHTML(dest, true))
}

// renderFootnoteReference emits the superscript reference marker. The
// anchor text is the URL-normalized footnote label itself (spec.md
// §4.4/§9), not a positional index, so a document can be edited to add or
// remove earlier footnotes without shifting anchors already linked to from
// outside the document. A footnote referenced more than once gets a
// "-2", "-3", ... suffix on the second and later fnref ids, since anchors
// must be unique within the document.
func (r *htmlRenderer) renderFootnoteReference(n *Inline) {
	key := n.FootnoteKey
	anchor, seen := r.footnoteAnchors[key]
	if !seen {
		label := n.FootnoteLabel
		if def := r.footnotes[key]; def != nil {
			label = def.Label
		}
		anchor = NormalizeURI(label)
		r.footnoteAnchors[key] = anchor
		r.footnoteOrder = append(r.footnoteOrder, key)
		r.footnoteDisplayNo[key] = len(r.footnoteOrder)
	}
	r.footnoteRefCount[key]++
	refID := "fnref-" + anchor
	if count := r.footnoteRefCount[key]; count > 1 {
		refID = fmt.Sprintf("fnref-%s-%d", anchor, count)
	}
	display := strconv.Itoa(r.footnoteDisplayNo[key])
	fmt.Fprintf(&r.sb, `<sup class="footnote-ref"><a href="#fn-%s" id="%s" data-footnote-ref>%s</a></sup>`, anchor, refID, display)
}

func (r *htmlRenderer) renderFootnotes() {
	if len(r.footnoteOrder) == 0 {
		return
	}
	r.sb.WriteString("<section class=\"footnotes\" data-footnotes>\n<ol>\n")
	for _, key := range r.footnoteOrder {
		anchor := r.footnoteAnchors[key]
		def := r.footnotes[key]
		fmt.Fprintf(&r.sb, `<li id="fn-%s">`, anchor)
		r.sb.WriteByte('\n')
		if def != nil {
			children := def.Children
			for j, c := range children {
				if j == len(children)-1 && c.Kind() == ParagraphKind {
					r.sb.WriteString("<p>")
					r.inlines(c.Inlines)
					r.sb.WriteByte(' ')
					r.sb.WriteString(r.footnoteBackrefs(anchor, r.footnoteRefCount[key]))
					r.sb.WriteString("</p>\n")
					continue
				}
				r.block(c, false)
			}
		}
		r.sb.WriteString("</li>\n")
	}
	r.sb.WriteString("</ol>\n</section>\n")
}

// footnoteBackrefs builds one "return to reference" link per time the
// footnote at anchor was referenced, matching the "-n" suffix
// renderFootnoteReference gives the 2nd and later fnref ids.
func (r *htmlRenderer) footnoteBackrefs(anchor string, count int) string {
	if count < 1 {
		count = 1
	}
	var sb strings.Builder
	for i := 1; i <= count; i++ {
		refID := "fnref-" + anchor
		label := "↩"
		if i > 1 {
			refID = fmt.Sprintf("fnref-%s-%d", anchor, i)
			label = fmt.Sprintf(`↩<sup class="footnote-ref">%d</sup>`, i)
		}
		fmt.Fprintf(&sb, `<a href="#%s" class="footnote-backref" data-footnote-backref>%s</a>`, refID, label)
	}
	return sb.String()
}

// escapeHTML escapes '&', '<', '>', and '"' for safe inclusion in HTML
// text or an attribute value.
func escapeHTML(s string, attribute bool) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// isDangerousURL reports whether dest uses a scheme that "--safe"
// rendering should refuse to emit, mirroring cmark's scan_dangerous_url.
func isDangerousURL(dest string) bool {
	lower := strings.ToLower(dest)
	if strings.HasPrefix(lower, "data:") {
		for _, safe := range []string{"data:image/png", "data:image/gif", "data:image/jpeg", "data:image/webp"} {
			if strings.HasPrefix(lower, safe) {
				return false
			}
		}
		return true
	}
	for _, scheme := range []string{"javascript:", "vbscript:", "file:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}
