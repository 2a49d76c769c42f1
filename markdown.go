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

// Extensions is a bitmask of GitHub Flavored Markdown extensions beyond
// the CommonMark core (spec.md §1).
type Extensions uint

const (
	ExtTable Extensions = 1 << iota
	ExtStrikethrough
	ExtTasklist
	ExtAutolink
	ExtTagfilter
	ExtFootnotes
)

// GFMExtensions is the set of extensions enabled by [GFM] and the
// "--gfm" CLI flag.
const GFMExtensions = ExtTable | ExtStrikethrough | ExtTasklist | ExtAutolink | ExtTagfilter | ExtFootnotes

// Has reports whether e includes ext.
func (e Extensions) Has(ext Extensions) bool {
	return e&ext != 0
}

// ParseOptions configures [Parse].
type ParseOptions struct {
	// Extensions is the set of GitHub Flavored Markdown extensions to
	// enable in addition to the CommonMark core.
	Extensions Extensions
}

// Parse parses source as CommonMark (with any extensions set in opts) and
// returns the resulting document. Parse never returns an error: like the
// reference implementation, it is total over its input (spec.md §5).
func Parse(source string, opts *ParseOptions) *Document {
	var ext Extensions
	if opts != nil {
		ext = opts.Extensions
	}
	lines := normalizeLineEndings(source)
	st := &parseState{
		ext:       ext,
		refs:      make(ReferenceMap),
		footnotes: make(FootnoteMap),
	}
	children := parseBlocks(lines, st)
	resolveInlines(children, st)
	return &Document{
		Children:  children,
		Refs:      st.refs,
		Footnotes: st.footnotes,
	}
}

// resolveInlines walks the block tree in document order, parsing the raw
// inline content of every leaf that carries one (spec.md §4.3).
func resolveInlines(blocks []*Block, st *parseState) {
	for _, b := range blocks {
		if b.kind.acceptsRaw() {
			b.Inlines = parseInlines(b.raw, st)
			b.raw = ""
		}
		if len(b.children) > 0 {
			resolveInlines(b.blockChildren(), st)
		}
	}
	for _, def := range st.footnotes {
		if def.resolved {
			continue
		}
		def.resolved = true
		resolveInlines(def.Children, st)
	}
}

// CommonMarkOptions returns a [ParseOptions] configured for the
// CommonMark core with no extensions.
func CommonMarkOptions() *ParseOptions {
	return &ParseOptions{}
}

// GFMOptions returns a [ParseOptions] configured for GitHub Flavored
// Markdown: the CommonMark core plus tables, strikethrough, task lists,
// extended autolinks, the disallowed-raw-HTML tag filter, and footnotes.
func GFMOptions() *ParseOptions {
	return &ParseOptions{Extensions: GFMExtensions}
}

// RenderOptions configures [Render].
type RenderOptions struct {
	// Extensions is the set of GitHub Flavored Markdown extensions to
	// activate in the renderer. It should match the Extensions used to
	// parse the document.
	Extensions Extensions

	// Safe replaces raw HTML blocks/inlines with an HTML comment and drops
	// dangerous link destinations (a link renders only its content, an
	// image only its alt text), mirroring cmark's "--safe" flag
	// (spec.md §4.4).
	Safe bool

	// Smart enables smart punctuation substitution (spec.md §4.4, §9).
	Smart bool

	// TablePreferStyleAttributes emits column alignment as inline "style"
	// attributes instead of the "align" attribute (spec.md §4.4.10).
	TablePreferStyleAttributes bool

	// FullInfoString includes a fenced code block's entire info string in
	// the rendered "class" attribute rather than just its first word
	// (spec.md §4.4.6).
	FullInfoString bool
}

// Render renders doc as HTML.
func Render(doc *Document, opts *RenderOptions) string {
	if opts == nil {
		opts = &RenderOptions{}
	}
	r := &htmlRenderer{opts: *opts, refs: doc.Refs, footnotes: doc.Footnotes}
	return r.render(doc)
}

// RenderHTML parses source and renders it as HTML in one step, using ext
// for both parsing and rendering.
func RenderHTML(source string, ext Extensions) string {
	doc := Parse(source, &ParseOptions{Extensions: ext})
	return Render(doc, &RenderOptions{Extensions: ext})
}

// Options configures the combined parse-and-render entry points [Markdown]
// and [GFM]. It carries the rendering-side knobs of [RenderOptions]; the
// extension set is implied by which of the two functions is called.
type Options struct {
	// Safe replaces raw HTML blocks/inlines with an HTML comment and drops
	// dangerous link destinations (a link renders only its content, an
	// image only its alt text) (spec.md §4.4).
	Safe bool

	// Smart enables smart punctuation substitution (spec.md §4.4, §9).
	Smart bool

	// TablePreferStyleAttributes emits column alignment as inline "style"
	// attributes instead of the "align" attribute (spec.md §4.4.10).
	TablePreferStyleAttributes bool

	// FullInfoString includes a fenced code block's entire info string in
	// the rendered "class" attribute rather than just its first word
	// (spec.md §4.4.6).
	FullInfoString bool
}

// Markdown parses source as CommonMark and renders it to HTML in a single
// call: spec.md §6's `markdown(input, options) -> string`.
func Markdown(source string, opts *Options) string {
	return parseAndRender(source, 0, opts)
}

// GFM parses source as GitHub Flavored Markdown (the CommonMark core plus
// every extension in [GFMExtensions]) and renders it to HTML in a single
// call: spec.md §6's `gfm(input, options) -> string`.
func GFM(source string, opts *Options) string {
	return parseAndRender(source, GFMExtensions, opts)
}

func parseAndRender(source string, ext Extensions, opts *Options) string {
	var o Options
	if opts != nil {
		o = *opts
	}
	doc := Parse(source, &ParseOptions{Extensions: ext})
	return Render(doc, &RenderOptions{
		Extensions:                 ext,
		Safe:                       o.Safe,
		Smart:                      o.Smart,
		TablePreferStyleAttributes: o.TablePreferStyleAttributes,
		FullInfoString:             o.FullInfoString,
	})
}
