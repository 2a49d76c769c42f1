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

func TestParseInlinesEmphasis(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "simple emphasis",
			source: "*foo*\n",
			want:   "<p><em>foo</em></p>\n",
		},
		{
			name:   "simple strong",
			source: "**foo**\n",
			want:   "<p><strong>foo</strong></p>\n",
		},
		{
			name:   "nested strong in emphasis",
			source: "*foo **bar** baz*\n",
			want:   "<p><em>foo <strong>bar</strong> baz</em></p>\n",
		},
		{
			name:   "multiple of three rule",
			source: "**foo*bar*baz**\n",
			want:   "<p><strong>foo<em>bar</em>baz</strong></p>\n",
		},
		{
			name:   "intraword underscore not emphasis",
			source: "foo_bar_baz\n",
			want:   "<p>foo_bar_baz</p>\n",
		},
		{
			name:   "intraword asterisk is emphasis",
			source: "foo*bar*baz\n",
			want:   "<p>foo<em>bar</em>baz</p>\n",
		},
		{
			name:   "unmatched opener left literal",
			source: "*foo\n",
			want:   "<p>*foo</p>\n",
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

func TestParseInlinesCodeSpan(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "backtick code span",
			source: "`` foo ` bar ``\n",
			want:   "<p><code>foo ` bar</code></p>\n",
		},
		{
			name:   "code span strips single surrounding space",
			source: "` foo `\n",
			want:   "<p><code>foo</code></p>\n",
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

func TestParseInlinesLinksAndImages(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "inline link",
			source: "[link](/uri \"title\")\n",
			want:   "<p><a href=\"/uri\" title=\"title\">link</a></p>\n",
		},
		{
			name:   "collapsed reference link",
			source: "[foo][]\n\n[foo]: /url\n",
			want:   "<p><a href=\"/url\">foo</a></p>\n",
		},
		{
			name:   "shortcut reference link",
			source: "[foo]\n\n[foo]: /url \"t\"\n",
			want:   "<p><a href=\"/url\" title=\"t\">foo</a></p>\n",
		},
		{
			name:   "link inside link is not resolved",
			source: "[foo [bar](/url1)](/url2)\n",
			want:   "<p>[foo <a href=\"/url1\">bar</a>](/url2)</p>\n",
		},
		{
			name:   "image with alt text",
			source: "![alt *text*](/img.png \"t\")\n",
			want:   "<p><img src=\"/img.png\" alt=\"alt text\" title=\"t\" /></p>\n",
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

func TestParseInlinesAutolinkAndRawHTML(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "uri autolink",
			source: "<http://foo.com>\n",
			want:   "<p><a href=\"http://foo.com\">http://foo.com</a></p>\n",
		},
		{
			name:   "email autolink",
			source: "<foo@bar.example.com>\n",
			want:   "<p><a href=\"mailto:foo@bar.example.com\">foo@bar.example.com</a></p>\n",
		},
		{
			name:   "raw inline html passthrough",
			source: "foo <span id=\"x\">bar</span> baz\n",
			want:   "<p>foo <span id=\"x\">bar</span> baz</p>\n",
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

func TestParseInlinesBreaksAndEntities(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "soft break becomes newline",
			source: "foo\nbar\n",
			want:   "<p>foo\nbar</p>\n",
		},
		{
			name:   "hard break via backslash",
			source: "foo\\\nbar\n",
			want:   "<p>foo<br />\nbar</p>\n",
		},
		{
			name:   "named entity",
			source: "&copy; 2023\n",
			want:   "<p>© 2023</p>\n",
		},
		{
			name:   "numeric entity",
			source: "&#65;\n",
			want:   "<p>A</p>\n",
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
