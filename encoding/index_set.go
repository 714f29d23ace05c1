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

package encoding

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// IndexSet is a multiset over the positions 0 ... gamma-1, stored as
// the multiplicity of every position.
type IndexSet []int

// NewIndexSet returns the empty index set over gamma positions.
func NewIndexSet(gamma int) IndexSet {
	return make(IndexSet, gamma)
}

// Copy returns a copy of s.
func (s IndexSet) Copy() IndexSet {
	return append(IndexSet(nil), s...)
}

// Equal reports whether s and other are the same multiset.
func (s IndexSet) Equal(other IndexSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}

	return true
}

// Union returns the sum of s and other. It returns ErrIndexSet if they
// are over different universes or share a position.
func (s IndexSet) Union(other IndexSet) (IndexSet, error) {
	if len(s) != len(other) {
		return nil, errors.Wrapf(ErrIndexSet, "universes of size %d and %d", len(s), len(other))
	}
	res := make(IndexSet, len(s))
	for i := range s {
		res[i] = s[i] + other[i]
		if res[i] > 1 {
			return nil, errors.Wrapf(ErrIndexSet, "position %d used twice", i)
		}
	}

	return res, nil
}

// IsTop reports whether s contains every position exactly once.
func (s IndexSet) IsTop() bool {
	for _, c := range s {
		if c != 1 {
			return false
		}
	}

	return len(s) > 0
}

// Validate checks that s is a set over gamma positions.
func (s IndexSet) Validate(gamma int) error {
	if len(s) != gamma {
		return errors.Wrapf(ErrIndexSet, "expected %d positions, got %d", gamma, len(s))
	}
	for i, c := range s {
		if c != 0 && c != 1 {
			return errors.Wrapf(ErrIndexSet, "position %d has multiplicity %d", i, c)
		}
	}

	return nil
}

// String renders s as its multiplicities, for example "0110".
func (s IndexSet) String() string {
	var b strings.Builder
	for _, c := range s {
		b.WriteString(strconv.Itoa(c))
	}

	return b.String()
}

// ParseIndexSet parses the output of IndexSet.String.
func ParseIndexSet(str string) (IndexSet, error) {
	s := make(IndexSet, len(str))
	for i, r := range str {
		if r != '0' && r != '1' {
			return nil, errors.Wrapf(ErrIndexSet, "invalid multiplicity %q", r)
		}
		s[i] = int(r - '0')
	}

	return s, nil
}
