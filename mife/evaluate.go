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

import (
	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/internal/parallel"
	"github.com/pkg/errors"
)

// EncodedMatrix is a matrix of encodings.
type EncodedMatrix [][]encoding.Element

// NewEncodedMatrix returns a rows x cols EncodedMatrix with nil
// entries.
func NewEncodedMatrix(rows, cols int) EncodedMatrix {
	m := make(EncodedMatrix, rows)
	for i := range m {
		m[i] = make([]encoding.Element, cols)
	}

	return m
}

// Rows returns the number of rows of m.
func (m EncodedMatrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns of m.
func (m EncodedMatrix) Cols() int {
	if len(m) != 0 {
		return len(m[0])
	}

	return 0
}

// Mul returns the product of m and other, computed with the operations
// of ev. The entries of the product are computed in parallel.
func (m EncodedMatrix) Mul(ev encoding.Evaluator, other EncodedMatrix) (EncodedMatrix, error) {
	if m.Cols() != other.Rows() || m.Cols() == 0 {
		return nil, errors.Wrapf(internal.MalformedCipher, "cannot multiply %dx%d and %dx%d matrices",
			m.Rows(), m.Cols(), other.Rows(), other.Cols())
	}

	rows, cols := m.Rows(), other.Cols()
	prod := NewEncodedMatrix(rows, cols)
	err := parallel.For(rows*cols, func(n int) error {
		i, j := n/cols, n%cols
		var sum encoding.Element
		for k := 0; k < m.Cols(); k++ {
			term, err := ev.Mul(m[i][k], other[k][j])
			if err != nil {
				return errors.Wrapf(err, "entry (%d, %d)", i, j)
			}
			if sum == nil {
				sum = term
				continue
			}
			if sum, err = ev.Add(sum, term); err != nil {
				return errors.Wrapf(err, "entry (%d, %d)", i, j)
			}
		}
		prod[i][j] = sum
		return nil
	})
	if err != nil {
		return nil, err
	}

	return prod, nil
}

// ZeroTest returns the support of the matrix encoded by m, whose
// entries must be at the top level index set.
func (m EncodedMatrix) ZeroTest(ev encoding.Evaluator) (data.Support, error) {
	rows, cols := m.Rows(), m.Cols()
	nonZero := make([]bool, rows*cols)
	err := parallel.For(rows*cols, func(n int) error {
		z, err := ev.IsZero(m[n/cols][n%cols])
		if err != nil {
			return errors.Wrapf(err, "entry (%d, %d)", n/cols, n%cols)
		}
		nonZero[n] = !z
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data.NewSupport(rows, cols, func(i, j int) (bool, error) {
		return nonZero[i*cols+j], nil
	})
}

// ZeroPattern renders the zero test of m as rows of 0 and 1, 1 marking
// a nonzero entry.
func (m EncodedMatrix) ZeroPattern(ev encoding.Evaluator) (string, error) {
	s, err := m.ZeroTest(ev)
	if err != nil {
		return "", err
	}

	return s.String(), nil
}

// Product multiplies the encoded matrices of the ciphertexts in the
// order of the program, taking the slots of input i from cts[i].
func Product(pp *PublicParams, cts []*Ciphertext) (EncodedMatrix, error) {
	if err := pp.Validate(); err != nil {
		return nil, err
	}
	if pp.Evaluator == nil {
		return nil, errors.Wrap(internal.MalformedPubParams, "no evaluator")
	}
	if len(cts) != pp.NumInputs {
		return nil, errors.Wrapf(internal.MalformedInput, "%d ciphertexts for %d inputs", len(cts), pp.NumInputs)
	}
	for i, ct := range cts {
		if ct == nil || len(ct.Enc) != pp.NumInputs || len(ct.Enc[i]) != pp.N[i] {
			return nil, errors.Wrapf(internal.MalformedCipher, "ciphertext %d", i)
		}
	}

	var prod EncodedMatrix
	for k := 0; k < pp.Kappa; k++ {
		i, j := pp.Position(k)
		m := cts[i].Enc[i][j]
		if k == 0 {
			prod = m
			continue
		}
		var err error
		if prod, err = prod.Mul(pp.Evaluator, m); err != nil {
			return nil, errors.Wrapf(err, "product at position %d", k)
		}
	}

	return prod, nil
}

// Support returns the support of the product of the ciphertexts.
func Support(pp *PublicParams, cts []*Ciphertext) (data.Support, error) {
	prod, err := Product(pp, cts)
	if err != nil {
		return nil, err
	}

	return prod.ZeroTest(pp.Evaluator)
}

// Evaluate computes the function of the program on the messages of
// the ciphertexts, cts[i] providing input i.
func Evaluate(pp *PublicParams, cts []*Ciphertext) (int, error) {
	s, err := Support(pp, cts)
	if err != nil {
		return 0, err
	}

	return pp.Program.Interpret(pp, s)
}
