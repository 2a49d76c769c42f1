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

func renderSmart(source string) string {
	doc := commonmark.Parse(source, commonmark.CommonMarkOptions())
	return commonmark.Render(doc, &commonmark.RenderOptions{Smart: true})
}

func TestSmartPunctuationDashRuns(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"single hyphen", "a-b\n", "<p>a-b</p>\n"},
		{"two hyphens", "a--b\n", "<p>a–b</p>\n"},
		{"three hyphens", "a---b\n", "<p>a—b</p>\n"},
		{"four hyphens", "a----b\n", "<p>a—-b</p>\n"},
		{"five hyphens", "a-----b\n", "<p>a—–b</p>\n"},
		{"six hyphens", "a------b\n", "<p>a——b</p>\n"},
		{"nine hyphens", "a---------b\n", "<p>a———b</p>\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := renderSmart(test.source)
			if got != test.want {
				t.Errorf("Render(%q, Smart) = %q; want %q", test.source, got, test.want)
			}
		})
	}
}

func TestSmartPunctuationEllipsis(t *testing.T) {
	got := renderSmart("wait for it...\n")
	want := "<p>wait for it…</p>\n"
	if got != want {
		t.Errorf("Render(ellipsis, Smart) = %q; want %q", got, want)
	}
}

func TestSmartPunctuationQuotes(t *testing.T) {
	got := renderSmart(`"double" and 'single' quotes` + "\n")
	want := "<p>“double” and ‘single’ quotes</p>\n"
	if got != want {
		t.Errorf("Render(quotes, Smart) = %q; want %q", got, want)
	}
}

func TestSmartPunctuationSkipsBackslashEscapes(t *testing.T) {
	got := renderSmart(`a\-\-\-b` + "\n")
	want := "<p>a---b</p>\n"
	if got != want {
		t.Errorf("Render(escaped dashes, Smart) = %q; want %q", got, want)
	}
}

func TestSmartPunctuationDisabledByDefault(t *testing.T) {
	doc := commonmark.Parse("a---b...\n", commonmark.CommonMarkOptions())
	got := commonmark.Render(doc, &commonmark.RenderOptions{})
	want := "<p>a---b...</p>\n"
	if got != want {
		t.Errorf("Render without Smart = %q; want %q", got, want)
	}
}
