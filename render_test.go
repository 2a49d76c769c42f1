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
	"github.com/kelmoresen/commonmark/internal/normhtml"
)

func TestRenderCore(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "paragraph",
			source: "hello *world*\n",
			want:   "<p>hello <em>world</em></p>\n",
		},
		{
			name:   "strong",
			source: "**hello** __world__\n",
			want:   "<p><strong>hello</strong> <strong>world</strong></p>\n",
		},
		{
			name:   "atx heading",
			source: "## Title\n",
			want:   "<h2>Title</h2>\n",
		},
		{
			name:   "setext heading",
			source: "Title\n=====\n",
			want:   "<h1>Title</h1>\n",
		},
		{
			name:   "thematic break",
			source: "a\n\n---\n\nb\n",
			want:   "<p>a</p>\n<hr />\n<p>b</p>\n",
		},
		{
			name:   "indented code block",
			source: "    code here\n",
			want:   "<pre><code>code here\n</code></pre>\n",
		},
		{
			name:   "fenced code block with info",
			source: "```go\nfmt.Println(1)\n```\n",
			want:   "<pre><code class=\"language-go\">fmt.Println(1)\n</code></pre>\n",
		},
		{
			name:   "block quote",
			source: "> quoted text\n",
			want:   "<blockquote>\n<p>quoted text</p>\n</blockquote>\n",
		},
		{
			name:   "tight bullet list",
			source: "- one\n- two\n",
			want:   "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name:   "loose bullet list",
			source: "- one\n\n- two\n",
			want:   "<ul>\n<li>\n<p>one</p>\n</li>\n<li>\n<p>two</p>\n</li>\n</ul>\n",
		},
		{
			name:   "ordered list with start",
			source: "3. one\n4. two\n",
			want:   "<ol start=\"3\">\n<li>one</li>\n<li>two</li>\n</ol>\n",
		},
		{
			name:   "link",
			source: "[text](/dest \"title\")\n",
			want:   "<p><a href=\"/dest\" title=\"title\">text</a></p>\n",
		},
		{
			name:   "reference link",
			source: "[text][lbl]\n\n[lbl]: /dest\n",
			want:   "<p><a href=\"/dest\">text</a></p>\n",
		},
		{
			name:   "image",
			source: "![alt](/img.png)\n",
			want:   "<p><img src=\"/img.png\" alt=\"alt\" /></p>\n",
		},
		{
			name:   "code span",
			source: "`code`\n",
			want:   "<p><code>code</code></p>\n",
		},
		{
			name:   "hard line break",
			source: "line one  \nline two\n",
			want:   "<p>line one<br />\nline two</p>\n",
		},
		{
			name:   "autolink",
			source: "<https://example.com>\n",
			want:   "<p><a href=\"https://example.com\">https://example.com</a></p>\n",
		},
		{
			name:   "entity",
			source: "AT&amp;T\n",
			want:   "<p>AT&amp;T</p>\n",
		},
		{
			name:   "escaped emphasis marker",
			source: "\\*not emphasis\\*\n",
			want:   "<p>*not emphasis*</p>\n",
		},
		{
			name:   "html block passthrough",
			source: "<div>\n  raw\n</div>\n",
			want:   "<div>\n  raw\n</div>\n",
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

func TestRenderSafeMode(t *testing.T) {
	doc := commonmark.Parse("<script>alert(1)</script>\n\n[x](javascript:alert(1))\n", commonmark.CommonMarkOptions())
	got := commonmark.Render(doc, &commonmark.RenderOptions{Safe: true})
	if got == "" {
		t.Fatal("Render returned empty string")
	}
	if containsSubstring(got, "<script>") {
		t.Errorf("safe render leaked raw HTML block: %q", got)
	}
	if containsSubstring(got, "javascript:") {
		t.Errorf("safe render leaked dangerous URL: %q", got)
	}
}

func containsSubstring(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}

func normHTMLEqual(t *testing.T, got, want string) bool {
	t.Helper()
	return string(normhtml.NormalizeHTML([]byte(got))) == string(normhtml.NormalizeHTML([]byte(want)))
}
