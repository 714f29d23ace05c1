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

package data

import (
	"math/big"
	"strings"
)

// Support is a boolean matrix marking which entries of some matrix
// are nonzero: s[i][j] is true iff the entry (i, j) is nonzero.
type Support [][]bool

// NewSupport returns a rows x cols Support with s[i][j] = nonZero(i, j).
// It stops at the first error reported by nonZero.
func NewSupport(rows, cols int, nonZero func(i, j int) (bool, error)) (Support, error) {
	s := make(Support, rows)
	for i := range s {
		s[i] = make([]bool, cols)
		for j := range s[i] {
			nz, err := nonZero(i, j)
			if err != nil {
				return nil, err
			}
			s[i][j] = nz
		}
	}

	return s, nil
}

// Support returns the support of m modulo p.
func (m Matrix) Support(p *big.Int) Support {
	s, _ := NewSupport(m.Rows(), m.Cols(), func(i, j int) (bool, error) {
		return new(big.Int).Mod(m[i][j], p).Sign() != 0, nil
	})

	return s
}

// Rows returns the number of rows of s.
func (s Support) Rows() int {
	return len(s)
}

// Cols returns the number of columns of s.
func (s Support) Cols() int {
	if len(s) != 0 {
		return len(s[0])
	}

	return 0
}

// AllZero reports whether no entry of s is marked nonzero.
func (s Support) AllZero() bool {
	for _, row := range s {
		for _, nz := range row {
			if nz {
				return false
			}
		}
	}

	return true
}

// String renders s as rows of 0 and 1, 1 marking a nonzero entry.
func (s Support) String() string {
	var b strings.Builder
	for i, row := range s {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, nz := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			if nz {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}

	return b.String()
}
