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

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var labelFolder = cases.Fold()

// normalizeLabel implements spec.md §3's "Normalized label" rule: trim
// surrounding whitespace, collapse internal whitespace runs to a single
// space, fold Unicode case, and special-case U+1E9E ("LATIN CAPITAL LETTER
// SHARP S") to "ss" the way the reference implementation does (its case
// fold table maps U+1E9E to U+00DF, "ß", and CommonMark additionally
// expands that to "ss").
func normalizeLabel(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	lastWasSpace := true // trims leading whitespace
	for _, r := range s {
		if isLabelWhitespace(r) {
			if !lastWasSpace {
				sb.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		lastWasSpace = false
		if r == 0x1E9E {
			sb.WriteString("ss")
			continue
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	out = strings.TrimRight(out, " ")
	return labelFolder.String(out)
}

func isLabelWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// NormalizeURI percent-encodes any characters in s that are not reserved or
// unreserved URI characters, suitable for use as an href or src attribute
// value. It leaves existing percent-triples alone, uppercasing their hex
// digits.
func NormalizeURI(s string) string {
	// RFC 3986 reserved and unreserved characters, plus the additional
	// characters the CommonMark reference implementation preserves.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	var sb strings.Builder
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
				sb.WriteByte('%')
				sb.WriteByte(toUpperHex(s[i+1]))
				sb.WriteByte(toUpperHex(s[i+2]))
				skip = 2
				continue
			}
			sb.WriteString("%25")
		case c < 0x80 && (isASCIILetter(byte(c)) || isASCIIDigit(byte(c))) || strings.ContainsRune(safeSet, c):
			sb.WriteRune(c)
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(hexDigit(b >> 4))
				sb.WriteByte(hexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func isHexDigit(c byte) bool {
	return isASCIIDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func toUpperHex(c byte) byte {
	if 'a' <= c && c <= 'f' {
		return c - 'a' + 'A'
	}
	return c
}

func hexDigit(x byte) byte {
	if x < 0xa {
		return '0' + x
	}
	return 'A' + x - 0xa
}

// isUnicodeWhitespace reports whether r is Unicode whitespace as defined by
// the CommonMark spec (Zs category, tab, line feed, form feed, or carriage
// return).
func isUnicodeWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// isUnicodePunctuation reports whether r is Unicode punctuation or symbol,
// per the CommonMark definition used for flanking rules.
func isUnicodePunctuation(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
