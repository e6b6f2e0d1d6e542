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

package text

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	long := strings.Repeat("长", 120)

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "book_title",
			filename: "《Report》_v2.docx",
			want:     "Report",
		},
		{
			name:     "plain_stem",
			filename: "plain_notes.docx",
			want:     "plain_notes",
		},
		{
			name:     "first_title_wins",
			filename: "《甲》与《乙》.doc",
			want:     "甲",
		},
		{
			name:     "blank_title_falls_back_to_stem",
			filename: "《  》notes.docx",
			want:     "《  》notes",
		},
		{
			name:     "title_is_trimmed",
			filename: "01 《 年度 总结 》.docx",
			want:     "年度 总结",
		},
		{
			name:     "directory_is_ignored",
			filename: "/srv/books/《三体》.docx",
			want:     "三体",
		},
		{
			name:     "surrounding_whitespace",
			filename: "  spaced name  .docx",
			want:     "spaced name",
		},
		{
			name:     "control_characters_removed",
			filename: "bad\x07na\u0085me.docx",
			want:     "badname",
		},
		{
			name:     "only_control_characters",
			filename: "\x01\x02.docx",
			want:     ".docx",
		},
		{
			name:     "dotfile",
			filename: ".docx",
			want:     ".docx",
		},
		{
			name:     "clamped",
			filename: long + ".docx",
			want:     strings.Repeat("长", 97) + "...",
		},
		{
			name:     "exactly_max_is_kept",
			filename: strings.Repeat("a", 100) + ".docx",
			want:     strings.Repeat("a", 100),
		},
		{
			name:     "decomposed_input_is_composed",
			filename: "Cafe\u0301.docx",
			want:     "Caf\u00e9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayName(tt.filename)
			assert.Equal(t, tt.want, got, "display name should match")
			assert.NotEmpty(t, got, "display name should never be empty")
		})
	}
}

func TestDisplayNameLongStemInvariants(t *testing.T) {
	stem := strings.Repeat("x\x1f", 80) + strings.Repeat("y", 60)

	got := DisplayName(stem + ".docx")

	assert.Equal(t, MaxDisplayRunes, utf8.RuneCountInString(got), "clamped name should be exactly max runes")
	assert.True(t, strings.HasSuffix(got, "..."), "clamped name should end with ellipsis")
	for _, r := range got {
		assert.False(t, isControl(r), "clamped name should not contain control characters")
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "report", Stem("/a/b/report.docx"))
	assert.Equal(t, "archive.tar", Stem("archive.tar.gz"))
	assert.Equal(t, "no_ext", Stem("no_ext"))
}
