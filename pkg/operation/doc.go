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
Package operation runs merges end to end.

🎯 Purpose:
- Turns a directory into 合并结果/合并完成文档.docx
- Picks the merge strategy for the platform
- Owns the output directory and every temporary file of a run

🔄 Flow:
1. Validate the directory and resolve the strategy
2. Select the documents (nothing is written when there are none)
3. Merge them through the structural backend or one live host session
4. Write the table of contents, live or structural
5. Remove temporary files and tell the notifier how it went

⚡ Failure policy:
- Per document failures are skips, logged by the strategy
- Directory, selection, strategy and save failures end the run
- A failed table of contents leaves the merged document in place
- Panics become ErrPanic, the notifier still hears about them

🔍 Example:

	op := operation.NewMergeOperation(dir, operation.Options{Config: cfg, Host: host})
	runner := operation.NewRunner(logger, true)
	if err := runner.Run(ctx, op); err != nil {
		return err
	}
	fmt.Println(op.Report().Output)
*/
package operation
