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

package ggh

import (
	"math"
	"math/big"
	"math/cmplx"

	"github.com/fentec-project/mife/data"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// rot returns the matrix of multiplication by v in Z[x]/(x^n+1). Its
// j-th column holds the coefficients of x^j * v.
func rot(v data.Vector) data.Matrix {
	n := len(v)
	m := make(data.Matrix, n)
	for i := range m {
		m[i] = make(data.Vector, n)
		for j := range m[i] {
			if i >= j {
				m[i][j] = new(big.Int).Set(v[i-j])
			} else {
				m[i][j] = new(big.Int).Neg(v[n+i-j])
			}
		}
	}

	return m
}

// determinant returns the determinant of the square integer matrix m,
// computed by fraction free Bareiss elimination.
func determinant(m data.Matrix) *big.Int {
	n := m.Rows()
	a := m.Copy()
	sign := 1
	prev := big.NewInt(1)
	tmp := new(big.Int)

	for k := 0; k < n-1; k++ {
		if a[k][k].Sign() == 0 {
			swap := -1
			for i := k + 1; i < n; i++ {
				if a[i][k].Sign() != 0 {
					swap = i
					break
				}
			}
			if swap == -1 {
				return big.NewInt(0)
			}
			a[k], a[swap] = a[swap], a[k]
			sign = -sign
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				// (a_ij a_kk - a_ik a_kj) / prev is exact
				x := new(big.Int).Mul(a[i][j], a[k][k])
				x.Sub(x, tmp.Mul(a[i][k], a[k][j]))
				a[i][j] = x.Quo(x, prev)
			}
		}
		prev = a[k][k]
	}

	det := new(big.Int).Set(a[n-1][n-1])
	if sign < 0 {
		det.Neg(det)
	}

	return det
}

// norm returns the absolute value of the algebraic norm of v.
func norm(v data.Vector) *big.Int {
	return new(big.Int).Abs(determinant(rot(v)))
}

// inverse returns a and d > 0 with v * a = d in Z[x]/(x^n+1), so that
// a/d is the inverse of v in Q[x]/(x^n+1). d is the absolute value of
// the norm of v.
func inverse(v data.Vector) (data.Vector, *big.Int, error) {
	n := len(v)
	m := rot(v)

	// Gauss-Jordan elimination of [m | e_0] over the rationals
	aug := make([][]*big.Rat, n)
	for i := range aug {
		aug[i] = make([]*big.Rat, n+1)
		for j := 0; j < n; j++ {
			aug[i][j] = new(big.Rat).SetInt(m[i][j])
		}
		aug[i][n] = new(big.Rat)
	}
	aug[0][n].SetInt64(1)

	tmp := new(big.Rat)
	for k := 0; k < n; k++ {
		pivot := -1
		for i := k; i < n; i++ {
			if aug[i][k].Sign() != 0 {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			return nil, nil, errors.New("element is not invertible")
		}
		aug[k], aug[pivot] = aug[pivot], aug[k]

		inv := new(big.Rat).Inv(aug[k][k])
		for j := k; j <= n; j++ {
			aug[k][j].Mul(aug[k][j], inv)
		}
		for i := 0; i < n; i++ {
			if i == k || aug[i][k].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(aug[i][k])
			for j := k; j <= n; j++ {
				aug[i][j].Sub(aug[i][j], tmp.Mul(f, aug[k][j]))
			}
		}
	}

	d := norm(v)
	a := make(data.Vector, n)
	for i := range a {
		y := new(big.Rat).Mul(aug[i][n], new(big.Rat).SetInt(d))
		if !y.IsInt() {
			return nil, nil, errors.New("inverse does not divide the norm")
		}
		a[i] = new(big.Int).Set(y.Num())
	}

	return a, d, nil
}

// minEmbedding returns the smallest absolute value of the canonical
// embeddings of v, its evaluations at the primitive 2n-th roots of
// unity. They are the discrete Fourier transform of the coefficients
// twisted by powers of exp(i pi / n).
func minEmbedding(v data.Vector) float64 {
	n := len(v)
	seq := make([]complex128, n)
	for j, c := range v {
		x, _ := new(big.Float).SetInt(c).Float64()
		seq[j] = complex(x, 0) * cmplx.Exp(complex(0, math.Pi*float64(j)/float64(n)))
	}

	coeffs := fourier.NewCmplxFFT(n).Coefficients(nil, seq)
	abs := make([]float64, n)
	for k, c := range coeffs {
		abs[k] = cmplx.Abs(c)
	}

	return floats.Min(abs)
}
