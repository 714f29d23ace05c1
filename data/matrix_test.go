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
	"math"
	"math/big"
	"testing"

	"github.com/fentec-project/mife/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// 2^61 - 1
var mersenne61 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 61), big.NewInt(1))

func intMatrix(rows [][]int64) Matrix {
	m := make(Matrix, len(rows))
	for i, r := range rows {
		m[i] = make(Vector, len(r))
		for j, x := range r {
			m[i][j] = big.NewInt(x)
		}
	}
	return m
}

func assertIdentityMod(t *testing.T, m Matrix, p *big.Int) {
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			want := int64(0)
			if i == j {
				want = 1
			}
			assert.Equal(t, want, new(big.Int).Mod(m[i][j], p).Int64(), "entry (%d, %d)", i, j)
		}
	}
}

func TestMatrix(t *testing.T) {
	rows, cols := 5, 3
	bound := new(big.Int).Exp(big.NewInt(2), big.NewInt(20), big.NewInt(0))
	sampler := sample.NewUniform(bound)

	x, err := NewRandomMatrix(rows, cols, sampler)
	if err != nil {
		t.Fatalf("Error during random generation: %v", err)
	}

	modulo := big.NewInt(int64(104729))
	mod := x.Mod(modulo)
	c := x.Copy()
	c[0][0].Add(c[0][0], big.NewInt(1))

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.Equal(t, new(big.Int).Mod(x[i][j], modulo).Int64(), mod[i][j].Int64(), "coordinates should mod correctly")
		}
	}
	assert.NotEqual(t, 0, c[0][0].Cmp(x[0][0]), "copy should not share entries")
}

func TestMatrix_Dims(t *testing.T) {
	sampler := sample.NewUniform(big.NewInt(10))
	m1, _ := NewRandomMatrix(2, 3, sampler)

	assert.Equal(t, 2, m1.Rows())
	assert.Equal(t, 3, m1.Cols())
	assert.True(t, m1.CheckDims(2, 3))
	assert.False(t, m1.CheckDims(3, 2))

	var empty Matrix
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, 0, empty.Cols())
}

func TestNewMatrix_Ragged(t *testing.T) {
	_, err := NewMatrix([]Vector{
		{big.NewInt(1), big.NewInt(2)},
		{big.NewInt(3)},
	})
	assert.Error(t, err)
}

func TestMatrix_MulScalar(t *testing.T) {
	m := intMatrix([][]int64{{1, 1, 1}, {1, 1, 1}})
	mTimesTwo := intMatrix([][]int64{{2, 2, 2}, {2, 2, 2}})

	assert.Equal(t, mTimesTwo, m.MulScalar(big.NewInt(2)))
}

func TestMatrix_Mul(t *testing.T) {
	m1 := intMatrix([][]int64{{1, 2, 3}, {4, 5, 6}})
	m2 := intMatrix([][]int64{{1, 2}, {3, 4}, {5, 6}})
	mismatched := intMatrix([][]int64{{1}})

	prod, err := m1.Mul(m2)
	require.NoError(t, err)
	assert.Equal(t, intMatrix([][]int64{{22, 28}, {49, 64}}), prod, "product of matrices does not work correctly")

	_, err = m1.Mul(mismatched)
	assert.Error(t, err, "expected an error because of dimension mismatch")

	prodMod, err := m1.MulMod(m2, big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, intMatrix([][]int64{{2, 8}, {9, 4}}), prodMod)
}

func TestMatrix_Transpose(t *testing.T) {
	m := intMatrix([][]int64{{1, 2, 3}, {4, 5, 6}})
	assert.Equal(t, intMatrix([][]int64{{1, 4}, {2, 5}, {3, 6}}), m.Transpose())
}

func TestMatrix_Minor(t *testing.T) {
	m := intMatrix([][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	minor, err := m.Minor(1, 0)
	require.NoError(t, err)
	assert.Equal(t, intMatrix([][]int64{{2, 3}, {8, 9}}), minor)

	_, err = m.Minor(3, 0)
	assert.Error(t, err)
}

// ratDet returns the determinant of m over the rationals.
func ratDet(m Matrix) *big.Int {
	n := m.Rows()
	a := make([][]*big.Rat, n)
	for i := range a {
		a[i] = make([]*big.Rat, n)
		for j := range a[i] {
			a[i][j] = new(big.Rat).SetInt(m[i][j])
		}
	}

	det := big.NewRat(1, 1)
	for k := 0; k < n; k++ {
		piv := -1
		for i := k; i < n; i++ {
			if a[i][k].Sign() != 0 {
				piv = i
				break
			}
		}
		if piv < 0 {
			return big.NewInt(0)
		}
		if piv != k {
			a[k], a[piv] = a[piv], a[k]
			det.Neg(det)
		}
		det.Mul(det, a[k][k])
		for i := k + 1; i < n; i++ {
			f := new(big.Rat).Quo(a[i][k], a[k][k])
			for j := k; j < n; j++ {
				a[i][j].Sub(a[i][j], new(big.Rat).Mul(f, a[k][j]))
			}
		}
	}

	return new(big.Int).Set(det.Num())
}

func TestMatrix_DeterminantMod(t *testing.T) {
	sampler := sample.NewUniformRange(big.NewInt(-9), big.NewInt(10))
	for trial := 0; trial < 10; trial++ {
		m, err := NewRandomMatrix(5, 5, sampler)
		if err != nil {
			t.Fatalf("Error during random generation: %v", err)
		}

		data := make([]float64, 0, 25)
		for _, row := range m {
			for _, x := range row {
				data = append(data, float64(x.Int64()))
			}
		}
		ref := big.NewInt(int64(math.Round(mat.Det(mat.NewDense(5, 5, data)))))
		assert.Equal(t, ref.String(), ratDet(m).String(), "rational elimination disagrees with LU")

		for _, p := range []*big.Int{big.NewInt(7), big.NewInt(104729), mersenne61} {
			detMod, err := m.DeterminantMod(p)
			if err != nil {
				t.Fatalf("Error during computation of determinant: %v", err)
			}
			assert.Equal(t, new(big.Int).Mod(ref, p).Int64(), detMod.Int64(), "p = %v", p)
		}
	}
}

func TestMatrix_DeterminantMod_FullRange(t *testing.T) {
	sampler := sample.NewUniform(mersenne61)
	for _, n := range []int{1, 2, 3, 6} {
		m, err := NewRandomMatrix(n, n, sampler)
		if err != nil {
			t.Fatalf("Error during random generation: %v", err)
		}
		// entries outside [0, p) reduce to the same determinant
		shifted := m.Copy()
		shifted[0][0].Sub(shifted[0][0], mersenne61)

		ref := new(big.Int).Mod(ratDet(m), mersenne61)
		for _, x := range []Matrix{m, shifted} {
			det, err := x.DeterminantMod(mersenne61)
			require.NoError(t, err)
			assert.Equal(t, ref.String(), det.String(), "n = %d", n)
		}
	}
}

func TestMatrix_DeterminantMod_Swap(t *testing.T) {
	p := big.NewInt(101)
	// a permutation matrix of one transposition
	m := intMatrix([][]int64{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}})
	det, err := m.DeterminantMod(p)
	require.NoError(t, err)
	assert.Equal(t, int64(100), det.Int64())

	m = intMatrix([][]int64{{0, 2, 1, 0}, {0, 0, 3, 1}, {5, 1, 0, 0}, {0, 0, 0, 4}})
	det, err = m.DeterminantMod(p)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mod(ratDet(m), p).Int64(), det.Int64())
}

func TestMatrix_DeterminantMod_Small(t *testing.T) {
	p := big.NewInt(13)

	det, err := intMatrix([][]int64{{-3}}).DeterminantMod(p)
	require.NoError(t, err)
	assert.Equal(t, int64(10), det.Int64())

	det, err = intMatrix([][]int64{{1, 2}, {3, 4}}).DeterminantMod(p)
	require.NoError(t, err)
	assert.Equal(t, int64(11), det.Int64())
}

func TestMatrix_DeterminantMod_Singular(t *testing.T) {
	m := intMatrix([][]int64{{1, 2, 3}, {2, 4, 6}, {0, 1, 1}})
	det, err := m.DeterminantMod(big.NewInt(101))
	require.NoError(t, err)
	assert.Equal(t, 0, det.Sign())

	_, err = intMatrix([][]int64{{1, 2, 3}, {4, 5, 6}}).DeterminantMod(big.NewInt(101))
	assert.Error(t, err)
	_, err = Matrix{}.DeterminantMod(big.NewInt(101))
	assert.Error(t, err)
}

func TestMatrix_Cofactor(t *testing.T) {
	p := big.NewInt(101)
	m := intMatrix([][]int64{{3, 5}, {7, 11}})
	cof, err := m.Cofactor(p)
	require.NoError(t, err)
	assert.Equal(t, intMatrix([][]int64{{11, 94}, {96, 3}}), cof)

	m = intMatrix([][]int64{{1, 2, 3}, {0, 4, 5}, {1, 0, 6}})
	cof, err = m.Cofactor(p)
	require.NoError(t, err)
	// integer cofactors are {{24, 5, -4}, {-12, 3, 2}, {-2, -5, 4}}
	assert.Equal(t, intMatrix([][]int64{{24, 5, 97}, {89, 3, 2}, {99, 96, 4}}), cof)
}

func TestMatrix_InverseMod(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 6} {
		m, err := NewRandomMatrix(n, n, sample.NewUniform(mersenne61))
		if err != nil {
			t.Fatalf("Error during random generation: %v", err)
		}

		inv, err := m.InverseMod(mersenne61)
		if err != nil {
			t.Fatalf("Error during matrix inversion: %v", err)
		}
		prod, err := m.MulMod(inv, mersenne61)
		require.NoError(t, err)
		assertIdentityMod(t, prod, mersenne61)

		prod, err = inv.MulMod(m, mersenne61)
		require.NoError(t, err)
		assertIdentityMod(t, prod, mersenne61)

		invGauss, err := m.InverseModGauss(mersenne61)
		if err != nil {
			t.Fatalf("Error during matrix inversion: %v", err)
		}
		assert.Equal(t, inv.String(), invGauss.String(), "adjugate and Gauss-Jordan inverses differ")
	}
}

func TestMatrix_InverseMod_Singular(t *testing.T) {
	p := big.NewInt(7)
	// determinant is 21
	m := intMatrix([][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 2}})
	require.Equal(t, "21", ratDet(m).String())
	det, err := m.DeterminantMod(p)
	require.NoError(t, err)
	require.Equal(t, 0, det.Sign())

	_, err = m.InverseMod(p)
	assert.ErrorIs(t, err, ErrSingular)
	_, err = m.InverseModGauss(p)
	assert.ErrorIs(t, err, ErrSingular)

	_, err = intMatrix([][]int64{{1, 2}}).InverseMod(p)
	assert.Error(t, err)
}

func TestNewIdentityMatrix(t *testing.T) {
	id := NewIdentityMatrix(3)
	assertIdentityMod(t, id, big.NewInt(5))
	m := intMatrix([][]int64{{1, 2, 3}, {4, 5, 6}})
	prod, err := m.Mul(id)
	require.NoError(t, err)
	assert.Equal(t, m, prod)
}
