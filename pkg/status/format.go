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

package status

import (
	"fmt"
)

// 🎨 Message layouts
const (
	EmojiProgress = "⏳"
	EmojiComplete = "✅"
	MsgProgress   = "%s Progress: %d/%d (%.0f%%)"
)

// FileFormatter defines how workspace events are formatted
type FileFormatter interface {
	// FormatArtifact formats the state of a temporary artifact
	FormatArtifact(path string, state ArtifactState) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatArtifact formats an artifact state with emojis
func (f *DefaultFileFormatter) FormatArtifact(path string, state ArtifactState) string {
	switch state {
	case ArtifactTracked:
		return fmt.Sprintf("✨ Tracking %s", path)
	case ArtifactRemoved:
		return fmt.Sprintf("🗑️  Removed %s", path)
	case ArtifactFailed:
		return fmt.Sprintf("❌ Failed to remove %s", path)
	default:
		return fmt.Sprintf("👍 Kept %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	current, total = max(current, 0), max(total, 0)

	var percentage float64
	if total > 0 {
		percentage = min(float64(current)/float64(total)*100, 100)
	}

	if total > 0 && current >= total || total == 0 && current > 0 {
		return fmt.Sprintf(MsgProgress, EmojiComplete, current, total, percentage)
	}
	return fmt.Sprintf(MsgProgress, EmojiProgress, current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
