// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package version embeds build metadata stamped by the release tooling into
// the binary.
package version

import (
	"fmt"
	"strings"
)

// build is populated at build time with -ldflags -X, as
// <tag>-<commits since tag>-g<commit>-<branch>.
var build string

// Build returns the raw stamped build string.
func Build() string {
	return build
}

// Parse renders the stamped build string as a human-readable version.
func Parse() string {
	parts := strings.SplitN(build, "-", 4)
	if len(parts[0]) > 1 && strings.ToLower(parts[0])[0] != 'v' {
		parts[0] = "v" + parts[0]
	}
	switch {
	case len(parts) != 4:
		// built without the release tooling
		return "v0.0.0-unofficial"
	case parts[1] != "0":
		// ahead of the release tag; strip the "g" commit prefix
		return fmt.Sprintf("%s-%s (%s, +%s)", parts[0], parts[3], parts[2][1:], parts[1])
	case parts[3] != "main":
		return fmt.Sprintf("%s-%s", parts[0], parts[3])
	default:
		return parts[0]
	}
}
