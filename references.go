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

// LinkDefinition is the data of a link reference definition.
// https://spec.commonmark.org/0.30/#link-reference-definition
type LinkDefinition struct {
	Destination  string
	Title        string
	TitlePresent bool
}

// ReferenceMap is a mapping of normalized labels to link definitions.
type ReferenceMap map[string]LinkDefinition

// MatchReference reports whether the normalized label appears in the map.
func (m ReferenceMap) MatchReference(normalizedLabel string) bool {
	_, ok := m[normalizedLabel]
	return ok
}

// define records a link reference definition, honoring the first-wins rule
// from spec.md §3.
func (m ReferenceMap) define(label string, def LinkDefinition) {
	label = normalizeLabel(label)
	if label == "" || def.Destination == "" {
		return
	}
	if _, exists := m[label]; exists {
		return
	}
	m[label] = def
}

// FootnoteDefinition is the data of a GFM footnote definition.
type FootnoteDefinition struct {
	// Label is the original, unnormalized label text as written in the
	// source, used for anchor generation (spec.md §9: footnote anchors
	// URL-encode the original label, not the normalized key).
	Label    string
	Children []*Block

	// resolved marks that resolveInlines has already processed this
	// definition's content, since FootnoteMap iteration order is
	// unspecified and definitions are otherwise unreachable from the
	// document's own Children tree.
	resolved bool
}

// FootnoteMap is a mapping of normalized footnote labels to definitions.
type FootnoteMap map[string]*FootnoteDefinition

func (m FootnoteMap) define(label string, def *FootnoteDefinition) {
	key := normalizeLabel(label)
	if key == "" {
		return
	}
	if _, exists := m[key]; exists {
		return
	}
	m[key] = def
}
