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

func TestScanEntity(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantDecoded string
		wantN       int
		wantOK      bool
	}{
		{"named", "&amp;rest", "&", 5, true},
		{"decimal", "&#65;rest", "A", 5, true},
		{"hex lower", "&#x41;rest", "A", 6, true},
		{"hex upper", "&#X41;rest", "A", 6, true},
		{"unknown named", "&notareal;", "", 0, false},
		{"missing semicolon", "&amp", "", 0, false},
		{"out of range codepoint replaced", "&#9999999;", "�", 10, true},
		{"zero codepoint replaced", "&#0;", "�", 4, true},
		{"not an entity", "plain", "", 0, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decoded, n, ok := scanEntity(test.in)
			if decoded != test.wantDecoded || n != test.wantN || ok != test.wantOK {
				t.Errorf("scanEntity(%q) = %q, %d, %v; want %q, %d, %v",
					test.in, decoded, n, ok, test.wantDecoded, test.wantN, test.wantOK)
			}
		})
	}
}

func TestDecodeEntity(t *testing.T) {
	tests := []struct {
		body string
		want string
		ok   bool
	}{
		{"copy", "©", true},
		{"COPY", "©", true},
		{"#65", "A", true},
		{"#x41", "A", true},
		{"bogus", "", false},
	}
	for _, test := range tests {
		got, ok := decodeEntity(test.body)
		if got != test.want || ok != test.ok {
			t.Errorf("decodeEntity(%q) = %q, %v; want %q, %v", test.body, got, ok, test.want, test.ok)
		}
	}
}

func TestValidEntityBody(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"amp", true},
		{"#123", true},
		{"#x1F", true},
		{"#", false},
		{"", false},
		{"1abc", false},
		{"way-too-long-to-be-a-real-named-entity-reference", false},
	}
	for _, test := range tests {
		if got := validEntityBody(test.body); got != test.want {
			t.Errorf("validEntityBody(%q) = %v; want %v", test.body, got, test.want)
		}
	}
}
