/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mife

import "strings"

// Flags switch off parts of the scheme. They exist for testing and
// debugging only: a scheme with any flag set is not secure.
type Flags uint

const (
	// NoRandomizers skips the scalar randomization of the matrices.
	NoRandomizers Flags = 1 << iota
	// NoKilian skips the Kilian randomization of the matrices.
	NoKilian
	// SimplePartitions encodes the first slot of the first input
	// under the full index set and all other slots under the empty
	// one.
	SimplePartitions
)

// Has reports whether all flags of o are set in f.
func (f Flags) Has(o Flags) bool {
	return f&o == o
}

func (f Flags) String() string {
	var names []string
	if f.Has(NoRandomizers) {
		names = append(names, "NoRandomizers")
	}
	if f.Has(NoKilian) {
		names = append(names, "NoKilian")
	}
	if f.Has(SimplePartitions) {
		names = append(names, "SimplePartitions")
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}
