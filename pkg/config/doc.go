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
Package config loads per-project defaults for replacerc.

	            +-------------+
	            |   Options   |
	            | (defaults)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Finds a .replacerc.{yaml,yml,json,hcl} file in the working directory
- Parses it with the parser registered for its extension
- Validates values and fills in defaults

🔄 Precedence:
Options only provide defaults. The command line layers them under
REPLACERC_* environment variables and flags:

	file < environment < flags

🔍 Example:

	path := config.Find(".")
	if path != "" {
		opts, err := config.Load(ctx, path)
		if err != nil {
			return err
		}
		v.MergeConfigMap(opts.Settings())
	}

Unknown keys are rejected by every parser, so a typo in a config file is an
error rather than a silently ignored setting.
*/
package config
