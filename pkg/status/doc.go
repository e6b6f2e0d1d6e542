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

/*
Package status manages the output workspace of a merge run.

🎯 Purpose:
- Creates the output directory once selection succeeded
- Tracks temporary conversion artifacts
- Removes every artifact at the end of a run, whatever the outcome
- Reports per-source progress

🔄 Flow:
1. The orchestrator creates a Manager for the output directory
2. Strategies register each converted temp file with TrackArtifact
3. Cleanup deletes them in parallel, swallowing and logging failures
4. RemoveDirIfEmpty drops a directory the run created but never filled

🤝 Interfaces:
- ArtifactTracker: registers and removes temporary files
- ProgressReporter: reports progress
- FileFormatter: formats status messages
*/
package status
