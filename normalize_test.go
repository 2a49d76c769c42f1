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

import "testing"

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Foo", "foo"},
		{"  Foo   Bar  ", "foo bar"},
		{"Foo\tBar\nBaz", "foo bar baz"},
		{"FOO", "foo"},
		{"ẞ", "ss"},
	}
	for _, test := range tests {
		if got := normalizeLabel(test.in); got != test.want {
			t.Errorf("normalizeLabel(%q) = %q; want %q", test.in, got, test.want)
		}
	}
}

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/foo bar", "/foo%20bar"},
		{"/already%20encoded", "/already%20encoded"},
		{"/lower%2fcase", "/lower%2Fcase"},
		{"/café", "/cafe%CC%81"},
		{"http://example.com/a,b;c?d=e&f=g", "http://example.com/a,b;c?d=e&f=g"},
		{"/100%", "/100%25"},
	}
	for _, test := range tests {
		if got := NormalizeURI(test.in); got != test.want {
			t.Errorf("NormalizeURI(%q) = %q; want %q", test.in, got, test.want)
		}
	}
}

func TestIsUnicodeWhitespace(t *testing.T) {
	if !isUnicodeWhitespace(' ') || !isUnicodeWhitespace('\t') || !isUnicodeWhitespace('\n') {
		t.Error("ASCII whitespace not recognized")
	}
	if isUnicodeWhitespace('a') {
		t.Error("'a' incorrectly treated as whitespace")
	}
}

func TestIsUnicodePunctuation(t *testing.T) {
	if !isUnicodePunctuation('.') || !isUnicodePunctuation('!') {
		t.Error("ASCII punctuation not recognized")
	}
	if isUnicodePunctuation('a') {
		t.Error("'a' incorrectly treated as punctuation")
	}
}
