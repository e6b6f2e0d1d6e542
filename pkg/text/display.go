// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package text derives human readable titles from document file names.
package text

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxDisplayRunes is the longest display name ever returned.
	MaxDisplayRunes = 100

	clampRunes = 97
	ellipsis   = "..."
	fallback   = "untitled"
)

// bookTitle matches the first 《…》 pair, non greedy.
var bookTitle = regexp.MustCompile(`《(.+?)》`)

// DisplayName returns the title shown for a document in the table of contents.
//
// The content of the first 《…》 pair wins when it is non-empty, otherwise the
// extension-stripped stem is used. Control characters are removed and the
// result is clamped to MaxDisplayRunes (97 runes plus "..."). DisplayName
// never returns an empty string.
func DisplayName(filename string) string {
	base := norm.NFC.String(filepath.Base(filename))
	stem := Stem(base)

	name := stem
	if m := bookTitle.FindStringSubmatch(stem); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			name = inner
		}
	}

	for _, candidate := range []string{name, stem, strings.TrimSpace(base)} {
		if cleaned := clamp(stripControl(candidate)); cleaned != "" {
			return cleaned
		}
	}
	return fallback
}

// Stem returns the base name of path without its extension and surrounding
// whitespace.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, s)
}

// isControl reports C0 controls, DEL and C1 controls.
func isControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

func clamp(s string) string {
	if utf8.RuneCountInString(s) <= MaxDisplayRunes {
		return s
	}
	return string([]rune(s)[:clampRunes]) + ellipsis
}
