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

package commonmark_test

import (
	"testing"

	"github.com/kelmoresen/commonmark"
)

func TestParseBlocksStructure(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "lazy continuation in block quote",
			source: "> line one\nlazy line two\n",
			want:   "<blockquote>\n<p>line one\nlazy line two</p>\n</blockquote>\n",
		},
		{
			name:   "block quote ends at blank line",
			source: "> quoted\n\nafter\n",
			want:   "<blockquote>\n<p>quoted</p>\n</blockquote>\n<p>after</p>\n",
		},
		{
			name:   "nested block quote",
			source: "> outer\n> > inner\n",
			want:   "<blockquote>\n<p>outer</p>\n<blockquote>\n<p>inner</p>\n</blockquote>\n</blockquote>\n",
		},
		{
			name:   "fence inside block quote does not end on lazy line",
			source: "> ```\n> code\n> ```\n",
			want:   "<blockquote>\n<pre><code>code\n</code></pre>\n</blockquote>\n",
		},
		{
			name:   "list interrupts paragraph only when starting at one",
			source: "text\n2. item\n",
			want:   "<p>text\n2. item</p>\n",
		},
		{
			name:   "list starting at one interrupts paragraph",
			source: "text\n1. item\n",
			want:   "<p>text</p>\n<ol>\n<li>item</li>\n</ol>\n",
		},
		{
			name:   "link reference definition consumed from paragraph",
			source: "[foo]: /url \"title\"\n\n[foo]\n",
			want:   "<p><a href=\"/url\" title=\"title\">foo</a></p>\n",
		},
		{
			name:   "setext heading over multiline paragraph",
			source: "line one\nline two\n========\n",
			want:   "<h1>line one\nline two</h1>\n",
		},
		{
			name:   "atx heading with closing hashes",
			source: "### heading ###\n",
			want:   "<h3>heading</h3>\n",
		},
		{
			name:   "html block type 6 ends at blank line",
			source: "<div>\ncontent\n</div>\n\nafter\n",
			want:   "<div>\ncontent\n</div>\n<p>after</p>\n",
		},
		{
			name:   "nested list items",
			source: "- one\n  - nested\n- two\n",
			want:   "<ul>\n<li>one\n<ul>\n<li>nested</li>\n</ul>\n</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name:   "indented code block not confused with list continuation",
			source: "    code\n",
			want:   "<pre><code>code\n</code></pre>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := commonmark.RenderHTML(test.source, 0)
			if !normHTMLEqual(t, got, test.want) {
				t.Errorf("RenderHTML(%q) = %q; want %q", test.source, got, test.want)
			}
		})
	}
}

func TestParseBlocksThematicVsSetext(t *testing.T) {
	// A lone "---" with no preceding paragraph text is a thematic break,
	// not a setext heading underline missing its title.
	got := commonmark.RenderHTML("---\n", 0)
	want := "<hr />\n"
	if !normHTMLEqual(t, got, want) {
		t.Errorf("RenderHTML(%q) = %q; want %q", "---\n", got, want)
	}
}

func TestParseFencedCodeBlockInfoString(t *testing.T) {
	source := "~~~ruby startline=3\nputs 1\n~~~\n"
	got := commonmark.RenderHTML(source, 0)
	want := "<pre><code class=\"language-ruby\">puts 1\n</code></pre>\n"
	if !normHTMLEqual(t, got, want) {
		t.Errorf("RenderHTML(%q) = %q; want %q", source, got, want)
	}
}

func TestParseLooseVsTightList(t *testing.T) {
	tight := commonmark.RenderHTML("- a\n- b\n", 0)
	if !normHTMLEqual(t, tight, "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n") {
		t.Errorf("tight list rendered as %q", tight)
	}
	loose := commonmark.RenderHTML("- a\n\n- b\n", 0)
	if !normHTMLEqual(t, loose, "<ul>\n<li>\n<p>a</p>\n</li>\n<li>\n<p>b</p>\n</li>\n</ul>\n") {
		t.Errorf("loose list rendered as %q", loose)
	}
}
