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

	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// ErrSingular is returned when a matrix has no inverse modulo p.
var ErrSingular = errors.New("matrix is not invertible")

// Matrix wraps a slice of Vector elements. It represents a row-major
// order matrix.
//
// The j-th element from the i-th vector of the matrix can be obtained
// as m[i][j].
type Matrix []Vector

// NewMatrix accepts a slice of Vector elements and
// returns a new Matrix instance.
// It returns error if not all the vectors have the same number of elements.
func NewMatrix(vectors []Vector) (Matrix, error) {
	l := -1
	newVectors := make([]Vector, len(vectors))

	if len(vectors) > 0 {
		l = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != l {
			return nil, errors.New("all vectors should be of the same length")
		}
		newVectors[i] = NewVector(v)
	}

	return Matrix(newVectors), nil
}

// NewRandomMatrix returns a new Matrix instance
// with random elements sampled by the provided sample.Sampler.
// Returns an error in case of sampling failure.
func NewRandomMatrix(rows, cols int, sampler sample.Sampler) (Matrix, error) {
	mat := make([]Vector, rows)

	for i := 0; i < rows; i++ {
		vec, err := NewRandomVector(cols, sampler)
		if err != nil {
			return nil, err
		}

		mat[i] = vec
	}

	return NewMatrix(mat)
}

// NewConstantMatrix returns a new Matrix instance
// with all elements set to constant c.
func NewConstantMatrix(rows, cols int, c *big.Int) Matrix {
	mat := make([]Vector, rows)
	for i := 0; i < rows; i++ {
		mat[i] = NewConstantVector(cols, c)
	}

	return mat
}

// NewIdentityMatrix returns the n x n identity matrix.
func NewIdentityMatrix(n int) Matrix {
	mat := NewConstantMatrix(n, n, big.NewInt(0))
	for i := 0; i < n; i++ {
		mat[i][i].SetInt64(1)
	}

	return mat
}

// Rows returns the number of rows of matrix m.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns of matrix m.
func (m Matrix) Cols() int {
	if len(m) != 0 {
		return len(m[0])
	}

	return 0
}

// CheckDims checks whether dimensions of matrix m match
// the provided rows and cols arguments.
func (m Matrix) CheckDims(rows, cols int) bool {
	return m.Rows() == rows && m.Cols() == cols
}

// Copy returns a deep copy of m.
func (m Matrix) Copy() Matrix {
	res := make(Matrix, m.Rows())
	for i, v := range m {
		res[i] = v.Copy()
	}

	return res
}

// GetCol returns i-th column of matrix m as a vector.
// It returns error if i >= the number of m's columns.
func (m Matrix) GetCol(i int) (Vector, error) {
	if i >= m.Cols() {
		return nil, errors.New("column index exceeds matrix dimensions")
	}

	column := make([]*big.Int, m.Rows())
	for j := 0; j < m.Rows(); j++ {
		column[j] = m[j][i]
	}

	return NewVector(column), nil
}

// Transpose transposes matrix m and returns
// the result in a new Matrix.
func (m Matrix) Transpose() Matrix {
	transposed := make([]Vector, m.Cols())
	for i := 0; i < m.Cols(); i++ {
		transposed[i], _ = m.GetCol(i)
	}

	mT, _ := NewMatrix(transposed)

	return mT
}

// Mod applies the element-wise modulo operation on matrix m.
// The result is returned in a new Matrix.
func (m Matrix) Mod(modulo *big.Int) Matrix {
	vectors := make([]Vector, m.Rows())

	for i, v := range m {
		vectors[i] = v.Mod(modulo)
	}

	matrix, _ := NewMatrix(vectors)

	return matrix
}

// Apply applies an element-wise function f to matrix m.
// The result is returned in a new Matrix.
func (m Matrix) Apply(f func(*big.Int) *big.Int) Matrix {
	res := make(Matrix, len(m))

	for i, vi := range m {
		res[i] = vi.Apply(f)
	}

	return res
}

// Mul multiplies matrices m and other.
// The result is returned in a new Matrix.
// Error is returned if the number of columns of m differs from the
// number of rows of other.
func (m Matrix) Mul(other Matrix) (Matrix, error) {
	if m.Cols() != other.Rows() {
		return nil, errors.Errorf("cannot multiply %dx%d and %dx%d matrices",
			m.Rows(), m.Cols(), other.Rows(), other.Cols())
	}

	prod := make([]Vector, m.Rows())
	tmp := new(big.Int)
	for i := 0; i < m.Rows(); i++ {
		prod[i] = make([]*big.Int, other.Cols())
		for j := 0; j < other.Cols(); j++ {
			sum := big.NewInt(0)
			for k := 0; k < m.Cols(); k++ {
				sum.Add(sum, tmp.Mul(m[i][k], other[k][j]))
			}
			prod[i][j] = sum
		}
	}

	return NewMatrix(prod)
}

// MulMod multiplies matrices m and other and reduces the
// entries of the product modulo p.
func (m Matrix) MulMod(other Matrix, p *big.Int) (Matrix, error) {
	prod, err := m.Mul(other)
	if err != nil {
		return nil, err
	}

	return prod.Mod(p), nil
}

// MulScalar multiplies elements of matrix m by a scalar x.
// The result is returned in a new Matrix.
func (m Matrix) MulScalar(x *big.Int) Matrix {
	return m.Apply(func(i *big.Int) *big.Int {
		return new(big.Int).Mul(i, x)
	})
}

// Minor returns a matrix obtained from m by removing row i and column j.
// It returns an error if i >= number of rows of m, or if j >= number of
// columns of m.
func (m Matrix) Minor(i int, j int) (Matrix, error) {
	if i >= m.Rows() || j >= m.Cols() {
		return nil, errors.New("cannot obtain minor - out of bounds")
	}
	mat := make(Matrix, 0, m.Rows()-1)
	for k := 0; k < m.Rows(); k++ {
		if k == i {
			continue
		}
		vec := make(Vector, 0, len(m[k])-1)
		vec = append(vec, m[k][:j]...)
		vec = append(vec, m[k][j+1:]...)
		mat = append(mat, vec)
	}

	return NewMatrix(mat)
}

// DeterminantMod returns the determinant of m modulo the prime p,
// as a value in [0, p). It eliminates below the pivots, swapping rows
// when a pivot vanishes and flipping the sign for every swap. A
// singular matrix yields 0, not an error.
func (m Matrix) DeterminantMod(p *big.Int) (*big.Int, error) {
	n := m.Rows()
	if n == 0 || n != m.Cols() {
		return nil, errors.Wrap(internal.MalformedInput, "determinant needs a nonempty square matrix")
	}

	switch n {
	case 1:
		return new(big.Int).Mod(m[0][0], p), nil
	case 2:
		det := new(big.Int).Mul(m[0][0], m[1][1])
		det.Sub(det, new(big.Int).Mul(m[0][1], m[1][0]))
		return det.Mod(det, p), nil
	}

	a := m.Mod(p)
	det := big.NewInt(1)
	f := new(big.Int)
	tmp := new(big.Int)
	for k := 0; k < n; k++ {
		pivot := -1
		for i := k; i < n; i++ {
			if a[i][k].Sign() != 0 {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			return big.NewInt(0), nil
		}
		if pivot != k {
			a[k], a[pivot] = a[pivot], a[k]
			det.Neg(det)
		}

		det.Mul(det, a[k][k])
		det.Mod(det, p)

		inv := new(big.Int).ModInverse(a[k][k], p)
		for i := k + 1; i < n; i++ {
			if a[i][k].Sign() == 0 {
				continue
			}
			f.Mul(a[i][k], inv)
			f.Mod(f, p)
			for j := k; j < n; j++ {
				tmp.Mul(f, a[k][j])
				a[i][j].Sub(a[i][j], tmp)
				a[i][j].Mod(a[i][j], p)
			}
		}
	}

	return det.Mod(det, p), nil
}

// Cofactor returns the cofactor matrix of m modulo p: the entry (i, j)
// is the determinant of the minor without row i and column j,
// negated when i+j is odd.
func (m Matrix) Cofactor(p *big.Int) (Matrix, error) {
	n := m.Rows()
	if n == 0 || n != m.Cols() {
		return nil, errors.Wrap(internal.MalformedInput, "cofactor needs a nonempty square matrix")
	}
	if n == 1 {
		return Matrix{Vector{big.NewInt(1)}}, nil
	}

	cof := make(Matrix, n)
	for i := 0; i < n; i++ {
		cof[i] = make(Vector, n)
		for j := 0; j < n; j++ {
			minor, err := m.Minor(i, j)
			if err != nil {
				return nil, err
			}
			value, err := minor.DeterminantMod(p)
			if err != nil {
				return nil, err
			}
			if (i+j)%2 == 1 {
				value.Neg(value)
				value.Mod(value, p)
			}
			cof[i][j] = value
		}
	}

	return cof, nil
}

// InverseMod returns the inverse of m modulo the prime p, computed as
// the transposed cofactor matrix scaled by the inverse of the
// determinant. It returns ErrSingular if the determinant is 0 mod p.
func (m Matrix) InverseMod(p *big.Int) (Matrix, error) {
	det, err := m.DeterminantMod(p)
	if err != nil {
		return nil, err
	}
	if det.Sign() == 0 {
		return nil, errors.Wrapf(ErrSingular, "determinant of %dx%d matrix is 0", m.Rows(), m.Cols())
	}
	invDet := internal.ModExp(det, big.NewInt(-1), p)

	cof, err := m.Cofactor(p)
	if err != nil {
		return nil, err
	}

	inv := cof.Transpose().MulScalar(invDet)

	return inv.Mod(p), nil
}

// GaussianElimination uses Gaussian elimination to transform a matrix
// into an equivalent upper triangular form modulo p.
func (m Matrix) GaussianElimination(p *big.Int) (Matrix, error) {
	if m.Rows() == 0 || m.Cols() == 0 {
		return nil, errors.New("the matrix should not be empty")
	}

	res := m.Mod(p)

	h, k := 0, 0
	for h < m.Rows() && k < res.Cols() {
		zero := true
		for i := h; i < m.Rows(); i++ {
			if res[i][k].Sign() != 0 {
				res[h], res[i] = res[i], res[h]
				zero = false
				break
			}
		}
		if zero {
			k++
			continue
		}
		mHKInv := new(big.Int).ModInverse(res[h][k], p)
		for i := h + 1; i < m.Rows(); i++ {
			f := new(big.Int).Mul(mHKInv, res[i][k])
			res[i][k] = big.NewInt(0)
			for j := k + 1; j < res.Cols(); j++ {
				res[i][j].Sub(res[i][j], new(big.Int).Mul(f, res[h][j]))
				res[i][j].Mod(res[i][j], p)
			}
		}
		k++
		h++
	}

	return res, nil
}

// InverseModGauss returns the inverse matrix of m modulo the prime p
// by Gauss-Jordan elimination of m extended with the identity. It is
// the faster alternative to InverseMod for larger matrices. It
// returns ErrSingular if m has no inverse.
func (m Matrix) InverseModGauss(p *big.Int) (Matrix, error) {
	n := m.Rows()
	if n == 0 || n != m.Cols() {
		return nil, errors.Wrap(internal.MalformedInput, "inverse needs a nonempty square matrix")
	}

	ext := make(Matrix, n)
	for i := 0; i < n; i++ {
		ext[i] = make(Vector, 2*n)
		for j := 0; j < n; j++ {
			ext[i][j] = new(big.Int).Mod(m[i][j], p)
			ext[i][n+j] = big.NewInt(0)
		}
		ext[i][n+i].SetInt64(1)
	}

	triang, err := ext.GaussianElimination(p)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if triang[i][i].Sign() == 0 {
			return nil, ErrSingular
		}
	}

	// back substitution, one pivot row at a time
	tmp := new(big.Int)
	for i := n - 1; i >= 0; i-- {
		inv := new(big.Int).ModInverse(triang[i][i], p)
		for j := i; j < 2*n; j++ {
			triang[i][j].Mul(triang[i][j], inv)
			triang[i][j].Mod(triang[i][j], p)
		}
		for r := 0; r < i; r++ {
			f := new(big.Int).Set(triang[r][i])
			for j := i; j < 2*n; j++ {
				tmp.Mul(f, triang[i][j])
				triang[r][j].Sub(triang[r][j], tmp)
				triang[r][j].Mod(triang[r][j], p)
			}
		}
	}

	inv := make(Matrix, n)
	for i := 0; i < n; i++ {
		inv[i] = triang[i][n:]
	}

	return inv, nil
}

// String renders m with one row per line.
func (m Matrix) String() string {
	rows := make([]string, m.Rows())
	for i, v := range m {
		rows[i] = v.String()
	}
	return strings.Join(rows, "\n")
}
