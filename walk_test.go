// Copyright 2024 Ross Light
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

	"github.com/google/go-cmp/cmp"
	"github.com/kelmoresen/commonmark"
)

func TestWalkDocumentOrder(t *testing.T) {
	doc := commonmark.Parse("# Title\n\nfirst *em* text\n\nsecond text\n", commonmark.CommonMarkOptions())

	var kinds []string
	commonmark.WalkDocument(doc, &commonmark.WalkOptions{
		Pre: func(c *commonmark.Cursor) bool {
			if b := c.Node().Block(); b != nil {
				kinds = append(kinds, b.Kind().String())
			}
			return true
		},
	})

	want := []string{"atx_heading", "paragraph", "paragraph"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("walked block kinds (-want +got):\n%s", diff)
	}
}

func TestWalkStopsOnFalsePost(t *testing.T) {
	// A single top-level list holding nested paragraphs gives Walk one
	// subtree deep enough to observe early termination: post-order visits
	// the first item's paragraph before anything else, so returning false
	// there should prevent every later node from being visited.
	doc := commonmark.Parse("- one\n- two\n", commonmark.CommonMarkOptions())

	visited := 0
	commonmark.WalkDocument(doc, &commonmark.WalkOptions{
		Post: func(c *commonmark.Cursor) bool {
			visited++
			return false
		},
	})
	if visited != 1 {
		t.Errorf("visited = %d; want 1 (Walk should stop after Post returns false)", visited)
	}
}

func TestWalkSkipsChildrenWhenPreReturnsFalse(t *testing.T) {
	doc := commonmark.Parse("> quoted paragraph\n", commonmark.CommonMarkOptions())

	var sawParagraph bool
	commonmark.WalkDocument(doc, &commonmark.WalkOptions{
		Pre: func(c *commonmark.Cursor) bool {
			if b := c.Node().Block(); b != nil {
				if b.Kind() == commonmark.ParagraphKind {
					sawParagraph = true
				}
				if b.Kind() == commonmark.BlockQuoteKind {
					return false
				}
			}
			return true
		},
	})
	if sawParagraph {
		t.Error("Walk descended into block quote children after Pre returned false")
	}
}
