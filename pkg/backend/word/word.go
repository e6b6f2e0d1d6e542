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

// Package word is the live tier: it drives a Word.Application automation
// server through COM. Every COM call runs on one OS-locked thread and waits
// at most the configured call timeout. On other platforms the host is never
// available.
package word

import (
	"time"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/toc"
)

const progID = "Word.Application"

// Word enumeration values used by the automation calls.
const (
	wdFormatDocumentDefault = 16
	wdDoNotSaveChanges      = 0
	wdSaveChanges           = -1
	wdCollapseEnd           = 0
	wdCollapseStart         = 1
	wdPageBreak             = 7
	wdStatisticPages        = 2
	wdAlignParagraphLeft    = 0
	wdAlignParagraphCenter  = 1
	wdAlignTabRight         = 2
	wdTabLeaderDots         = 1
	wdLineSpaceSingle       = 0
	wdAlertsNone            = 0
)

// 🖥️ Host starts Word sessions
type Host struct {
	callTimeout time.Duration
}

var _ backend.Host = (*Host)(nil)

// New returns a host whose calls wait at most callTimeout. Zero waits
// forever.
func New(callTimeout time.Duration) *Host {
	return &Host{callTimeout: callTimeout}
}

// Editor returns a toc editor that opens documents in their own session.
func (h *Host) Editor() *Editor {
	return &Editor{host: h}
}

// ✏️ Editor inserts tables of contents through Word
type Editor struct {
	host *Host
}

var _ toc.Editor = (*Editor)(nil)
