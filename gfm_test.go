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
	"strings"
	"testing"

	"github.com/kelmoresen/commonmark"
)

func TestGFMTable(t *testing.T) {
	source := "| a | b |\n| --- | :---: |\n| 1 | 2 |\n"
	got := commonmark.RenderHTML(source, commonmark.ExtTable)
	for _, want := range []string{"<table>", "<th>a</th>", `align="center"`, "<td>1</td>", `<td align="center">2</td>`} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderHTML(%q) = %q; missing %q", source, got, want)
		}
	}
}

func TestGFMStrikethrough(t *testing.T) {
	got := commonmark.RenderHTML("~~gone~~\n", commonmark.ExtStrikethrough)
	want := "<p><del>gone</del></p>\n"
	if got != want {
		t.Errorf("RenderHTML strikethrough = %q; want %q", got, want)
	}
}

func TestGFMTaskList(t *testing.T) {
	source := "- [ ] todo\n- [x] done\n"
	got := commonmark.RenderHTML(source, commonmark.ExtTasklist)
	if !strings.Contains(got, `<input type="checkbox" disabled=""`) {
		t.Errorf("RenderHTML(%q) missing unchecked box: %q", source, got)
	}
	if !strings.Contains(got, `checked=""`) {
		t.Errorf("RenderHTML(%q) missing checked box: %q", source, got)
	}
}

func TestGFMExtendedAutolink(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"visit www.commonmark.org today", `<a href="http://www.commonmark.org">www.commonmark.org</a>`},
		{"visit https://example.com/path.", `<a href="https://example.com/path">https://example.com/path</a>.`},
		{"contact user@example.com", `<a href="mailto:user@example.com">user@example.com</a>`},
	}
	for _, test := range tests {
		got := commonmark.RenderHTML(test.source, commonmark.ExtAutolink)
		if !strings.Contains(got, test.want) {
			t.Errorf("RenderHTML(%q) = %q; missing %q", test.source, got, test.want)
		}
	}
}

func TestGFMFootnotes(t *testing.T) {
	source := "Here is a note.[^x]\n\n[^x]: The note text.\n"
	got := commonmark.RenderHTML(source, commonmark.ExtFootnotes)
	for _, want := range []string{
		`data-footnote-ref`,
		`id="fnref-x"`,
		`href="#fn-x"`,
		`id="fn-x"`,
		"The note text.",
		`href="#fnref-x" class="footnote-backref"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderHTML(%q) = %q; missing %q", source, got, want)
		}
	}
}

func TestGFMFootnotesRepeatedReference(t *testing.T) {
	source := "One[^x] and two[^x].\n\n[^x]: The note text.\n"
	got := commonmark.RenderHTML(source, commonmark.ExtFootnotes)
	for _, want := range []string{
		`id="fnref-x"`,
		`id="fnref-x-2"`,
		`href="#fnref-x" class="footnote-backref"`,
		`href="#fnref-x-2" class="footnote-backref"`,
		`↩<sup class="footnote-ref">2</sup>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderHTML(%q) = %q; missing %q", source, got, want)
		}
	}
}

func TestGFMTagFilter(t *testing.T) {
	got := commonmark.RenderHTML("<title>hi</title>\n", commonmark.ExtTagfilter)
	if strings.Contains(got, "<title>") {
		t.Errorf("tag filter did not disable <title>: %q", got)
	}
	if !strings.Contains(got, "&lt;title>") {
		t.Errorf("tag filter output unexpected: %q", got)
	}
}

func TestGFMExtensions(t *testing.T) {
	source := "# Doc\n\n| a |\n| - |\n| b |\n\n- [x] done\n"
	got := commonmark.RenderHTML(source, commonmark.GFMExtensions)
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "checkbox") {
		t.Errorf("GFM() combined extensions rendering incomplete: %q", got)
	}
}
