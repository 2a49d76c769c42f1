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

// Package commonmark provides a CommonMark parser with optional GitHub
// Flavored Markdown extensions and an HTML renderer.
package commonmark

import "unsafe"

// Document is the root of a parsed Markdown document.
type Document struct {
	Children  []*Block
	Refs      ReferenceMap
	Footnotes FootnoteMap
}

// AsNode returns a single synthetic root [Node] for use with [Walk], whose
// children are the document's top-level blocks. Document itself is not a
// [Node].
func (doc *Document) AsNode() Node {
	if doc == nil {
		return Node{}
	}
	root := &Block{kind: documentKind, children: make([]Node, len(doc.Children))}
	for i, c := range doc.Children {
		root.children[i] = c.AsNode()
	}
	return root.AsNode()
}

// BlockKind is an enumeration of the kinds of [Block] nodes.
type BlockKind uint16

const (
	ParagraphKind BlockKind = 1 + iota
	ThematicBreakKind
	ATXHeadingKind
	SetextHeadingKind
	IndentedCodeBlockKind
	FencedCodeBlockKind
	HTMLBlockKind
	BlockQuoteKind
	ListKind
	ListItemKind
	TableKind
	TableRowKind
	TableCellKind

	documentKind
)

func (kind BlockKind) String() string {
	switch kind {
	case ParagraphKind:
		return "paragraph"
	case ThematicBreakKind:
		return "thematic_break"
	case ATXHeadingKind:
		return "atx_heading"
	case SetextHeadingKind:
		return "setext_heading"
	case IndentedCodeBlockKind:
		return "indented_code_block"
	case FencedCodeBlockKind:
		return "fenced_code_block"
	case HTMLBlockKind:
		return "html_block"
	case BlockQuoteKind:
		return "block_quote"
	case ListKind:
		return "list"
	case ListItemKind:
		return "list_item"
	case TableKind:
		return "table"
	case TableRowKind:
		return "table_row"
	case TableCellKind:
		return "table_cell"
	default:
		return "unknown_block"
	}
}

// ListType distinguishes bullet lists from ordered lists.
type ListType int8

const (
	BulletList ListType = iota
	OrderedList
)

// Alignment is a table column's horizontal alignment.
type Alignment int8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Block is a structural element of a Markdown document.
//
// The fields that are populated depend on Kind; see the field comments.
// Block is a value tree: unlike the teacher's span-based design, every
// field holds fully decoded content rather than an offset into a shared
// source buffer (see DESIGN.md).
type Block struct {
	kind BlockKind

	// raw holds the not-yet-inline-parsed text of a paragraph, heading, or
	// table cell. It is cleared once Inlines is populated.
	raw string

	// Heading level, 1-6. Set for ATXHeadingKind and SetextHeadingKind.
	Level int

	// Info string and literal text of a code block.
	Info    string
	Literal string
	Fenced  bool

	// List/list item fields.
	ListType    ListType
	Start       int // starting number for an ordered list
	BulletChar  byte
	Delimiter   byte // '.' or ')'
	Tight       bool
	Checked     *bool // task-list checkbox state; nil if not a task item

	// Table fields.
	Alignments []Alignment
	IsHeader   bool

	Inlines  []*Inline
	children []Node
}

func (b *Block) Kind() BlockKind {
	if b == nil {
		return 0
	}
	return b.kind
}

func (b *Block) Children() []Node {
	if b == nil {
		return nil
	}
	return b.children
}

func (b *Block) ChildCount() int {
	return len(b.Children())
}

func (b *Block) Child(i int) Node {
	return b.children[i]
}

func (b *Block) AsNode() Node {
	if b == nil {
		return Node{}
	}
	return Node{typ: nodeTypeBlock, ptr: unsafe.Pointer(b)}
}

func (b *Block) blockChildren() []*Block {
	out := make([]*Block, 0, len(b.children))
	for _, c := range b.children {
		if bc := c.Block(); bc != nil {
			out = append(out, bc)
		}
	}
	return out
}

func (b *Block) addBlock(child *Block) {
	b.children = append(b.children, child.AsNode())
}

func (b *Block) lastBlockChild() *Block {
	if len(b.children) == 0 {
		return nil
	}
	return b.children[len(b.children)-1].Block()
}

// canContain reports whether a block of kind b.kind may directly contain a
// child block of kind childKind.
func (kind BlockKind) canContain(childKind BlockKind) bool {
	switch kind {
	case ListKind:
		return childKind == ListItemKind
	case ListItemKind, BlockQuoteKind, documentKind:
		return childKind != ListItemKind
	case TableKind:
		return childKind == TableRowKind
	case TableRowKind:
		return childKind == TableCellKind
	default:
		return false
	}
}

// acceptsRaw reports whether a block of this kind carries a raw inline
// buffer prior to inline parsing.
func (kind BlockKind) acceptsRaw() bool {
	return kind == ParagraphKind || kind == ATXHeadingKind || kind == SetextHeadingKind || kind == TableCellKind
}

// InlineKind is an enumeration of the kinds of [Inline] nodes: text,
// emphasis, links, and so on.
type InlineKind uint16

const (
	TextKind InlineKind = 1 + iota
	SoftBreakKind
	HardBreakKind
	CodeSpanKind
	EmphasisKind
	StrongKind
	StrikethroughKind
	LinkKind
	ImageKind
	AutolinkKind
	RawHTMLKind
	FootnoteReferenceKind
)

func (kind InlineKind) String() string {
	switch kind {
	case TextKind:
		return "text"
	case SoftBreakKind:
		return "softbreak"
	case HardBreakKind:
		return "hardbreak"
	case CodeSpanKind:
		return "code_span"
	case EmphasisKind:
		return "emphasis"
	case StrongKind:
		return "strong"
	case StrikethroughKind:
		return "strikethrough"
	case LinkKind:
		return "link"
	case ImageKind:
		return "image"
	case AutolinkKind:
		return "autolink"
	case RawHTMLKind:
		return "html_inline"
	case FootnoteReferenceKind:
		return "footnote_ref"
	default:
		return "unknown_inline"
	}
}

// Inline is a leaf or container node within a block's inline content.
type Inline struct {
	kind InlineKind

	// Literal holds the text of a TextKind, CodeSpanKind, RawHTMLKind, or
	// AutolinkKind node.
	Literal string

	// noDelim marks a text node produced by an escaped '*' or '_' so the
	// emphasis resolver ignores it (spec.md §4.3.1).
	noDelim bool
	// noSmart marks a text node produced by an escaped '"', ''', '-', or
	// '.' so the smart-punctuation pass ignores those bytes (spec.md
	// §4.3.1, §9).
	noSmart bool

	// Link/image fields.
	Destination string
	Title       string
	TitleSet    bool
	Alt         string // ImageKind only: flattened alt text.

	// FootnoteReferenceKind fields.
	FootnoteLabel string
	FootnoteKey   string

	Children []*Inline
}

func (in *Inline) Kind() InlineKind {
	if in == nil {
		return 0
	}
	return in.kind
}

func (in *Inline) ChildCount() int {
	if in == nil {
		return 0
	}
	return len(in.Children)
}

func (in *Inline) Child(i int) Node {
	return in.Children[i].AsNode()
}

func (in *Inline) AsNode() Node {
	if in == nil {
		return Node{}
	}
	return Node{typ: nodeTypeInline, ptr: unsafe.Pointer(in)}
}

const (
	nodeTypeBlock = 1 + iota
	nodeTypeInline
)

// Node is a pointer to a [Block] or an [Inline]. The zero Node is invalid.
// Nodes can be compared for equality with ==.
type Node struct {
	ptr unsafe.Pointer
	typ uint8
}

// Block returns the referenced block, or nil if n does not reference a
// block.
func (n Node) Block() *Block {
	if n.typ != nodeTypeBlock {
		return nil
	}
	return (*Block)(n.ptr)
}

// Inline returns the referenced inline, or nil if n does not reference an
// inline.
func (n Node) Inline() *Inline {
	if n.typ != nodeTypeInline {
		return nil
	}
	return (*Inline)(n.ptr)
}

// ChildCount returns the number of children n has.
func (n Node) ChildCount() int {
	if b := n.Block(); b != nil {
		return b.ChildCount()
	}
	if in := n.Inline(); in != nil {
		return in.ChildCount()
	}
	return 0
}

// Child returns the i'th child of n.
func (n Node) Child(i int) Node {
	if b := n.Block(); b != nil {
		return b.Child(i)
	}
	if in := n.Inline(); in != nil {
		return in.Child(i)
	}
	panic("Child on nil Node")
}
