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
Package rewrite replaces matches inside files without ever leaving a
partially written file behind.

	            +-------------+
	            |   Engine    |
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+------+           +------+------+
	| In memory  |           |  Streaming  |
	| (<= limit) |           | (per line)  |
	+-----+------+           +------+------+
	      |                         |
	      +------------+------------+
	                   |
	          temp file + rename

🔄 Flow:
1. Files no larger than the threshold are read whole, replaced as one unit
   and written back. Invalid UTF-8 or any I/O failure falls back to streaming.
2. Streaming scans the file into candidates, then rewrites it line by line,
   keeping each line's original terminator (LF, CRLF or none).
3. Each candidate's line is compared with what is on disk during the rewrite.
   A line that changed since the scan keeps its on-disk content and the
   candidate is marked "File changed since last search".
4. Output goes to a temporary file in the target's directory which receives
   the target's permissions and is then renamed over it.

⚠️ Concurrency:
Different files can be rewritten concurrently with one Engine. Two rewrites
of the same file are not coordinated and the last rename wins.
*/
package rewrite
