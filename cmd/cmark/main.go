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

// Command cmark reads Markdown from stdin and writes rendered HTML to
// stdout, per spec.md's CLI surface.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/kelmoresen/commonmark"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("cmark: ")

	var (
		gfm                        bool
		smart                      bool
		tablePreferStyleAttributes bool
		fullInfoString             bool
		unsafe                     bool
		extNames                   stringList
	)
	flag.BoolVar(&gfm, "gfm", false, "enable all GitHub Flavored Markdown extensions")
	flag.BoolVar(&smart, "smart", false, "use smart punctuation")
	flag.BoolVar(&tablePreferStyleAttributes, "table-prefer-style-attributes", false, "use style attributes for table alignment")
	flag.BoolVar(&fullInfoString, "full-info-string", false, "include full info string in code blocks")
	flag.BoolVar(&unsafe, "unsafe", false, "accepted for compatibility; has no effect")
	flag.Var(&extNames, "e", "enable a specific extension by name (repeatable)")
	flag.Parse()

	_ = unsafe

	ext := commonmark.Extensions(0)
	if gfm {
		ext = commonmark.GFMExtensions
	}
	for _, name := range extNames {
		e, ok := extensionByName(name)
		if !ok {
			log.Fatalf("unknown extension %q", name)
		}
		ext |= e
	}
	if extNames.has("smart") {
		smart = true
	}
	if extNames.has("table-prefer-style-attributes") {
		tablePreferStyleAttributes = true
	}
	if extNames.has("full-info-string") {
		fullInfoString = true
	}

	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("read stdin: %v", err)
	}

	doc := commonmark.Parse(string(source), &commonmark.ParseOptions{Extensions: ext})
	html := commonmark.Render(doc, &commonmark.RenderOptions{
		Extensions:                 ext,
		Smart:                      smart,
		TablePreferStyleAttributes: tablePreferStyleAttributes,
		FullInfoString:             fullInfoString,
	})
	if _, err := fmt.Fprint(os.Stdout, html); err != nil {
		log.Fatalf("write stdout: %v", err)
	}
}

func extensionByName(name string) (commonmark.Extensions, bool) {
	switch name {
	case "table":
		return commonmark.ExtTable, true
	case "strikethrough":
		return commonmark.ExtStrikethrough, true
	case "tasklist":
		return commonmark.ExtTasklist, true
	case "autolink":
		return commonmark.ExtAutolink, true
	case "tagfilter":
		return commonmark.ExtTagfilter, true
	case "footnotes":
		return commonmark.ExtFootnotes, true
	case "smart", "table-prefer-style-attributes", "full-info-string":
		// Handled as renderer options rather than parser extensions.
		return 0, true
	default:
		return 0, false
	}
}

// stringList implements flag.Value for a repeatable -e flag.
type stringList []string

func (l *stringList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func (l stringList) has(name string) bool {
	for _, s := range l {
		if s == name {
			return true
		}
	}
	return false
}
