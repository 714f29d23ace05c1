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

package mife_test

import (
	"math/big"
	"testing"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/mife"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2^61 - 1
var mersenne61, _ = new(big.Int).SetString("2305843009213693951", 10)

func TestKilian_Telescoping(t *testing.T) {
	p := mersenne61
	dims := []int{2, 3, 1, 4}
	kc, err := mife.GenerateKilian(dims, p, sample.NewUniform(p), nil)
	require.NoError(t, err)
	require.NoError(t, kc.Check(p))

	// shapes 1x2, 2x3, 3x1, 1x4, 4x2
	shapes := [][2]int{{1, 2}, {2, 3}, {3, 1}, {1, 4}, {4, 2}}
	sampler := sample.NewUniform(p)
	want := data.NewIdentityMatrix(1)
	got := data.NewIdentityMatrix(1)
	for k, shape := range shapes {
		m, err := data.NewRandomMatrix(shape[0], shape[1], sampler)
		require.NoError(t, err)
		want, err = want.MulMod(m, p)
		require.NoError(t, err)

		mk, err := kc.Apply(k, m, p)
		require.NoError(t, err)
		require.True(t, mk.CheckDims(shape[0], shape[1]))
		got, err = got.MulMod(mk, p)
		require.NoError(t, err)
	}

	assert.Equal(t, want.String(), got.String())
}

func TestKilian_LargeDims(t *testing.T) {
	p := mersenne61
	dims := []int{mife.AdjugateMaxDim + 3, 2}
	kc, err := mife.GenerateKilian(dims, p, sample.NewUniform(p), nil)
	require.NoError(t, err)
	require.NoError(t, kc.Check(p))

	adj, err := kc.R[0].InverseMod(p)
	require.NoError(t, err)
	assert.Equal(t, adj.String(), kc.RInv[0].String())
}

func TestKilian_LargeDimsSingular(t *testing.T) {
	p := big.NewInt(101)
	s := &zeroSampler{n: 1 << 30}
	_, err := mife.GenerateKilian([]int{mife.AdjugateMaxDim + 1}, p, s, nil)
	assert.Equal(t, data.ErrSingular, errors.Cause(err))
}

func TestKilian_ApplyOutOfRange(t *testing.T) {
	p := big.NewInt(101)
	kc, err := mife.GenerateKilian([]int{2}, p, sample.NewUniform(p), nil)
	require.NoError(t, err)

	_, err = kc.Apply(2, data.NewIdentityMatrix(2), p)
	assert.Error(t, err)
	_, err = kc.Apply(0, data.NewIdentityMatrix(3), p)
	assert.Error(t, err)
}

func TestKilian_Empty(t *testing.T) {
	p := big.NewInt(101)
	kc, err := mife.GenerateKilian(nil, p, sample.NewUniform(p), nil)
	require.NoError(t, err)

	m := data.NewConstantMatrix(2, 3, big.NewInt(7))
	res, err := kc.Apply(0, m, p)
	require.NoError(t, err)
	assert.Equal(t, m.String(), res.String())
}

// zeroSampler returns 0 for the first n samples and then defers to s.
type zeroSampler struct {
	n int
	s sample.Sampler
}

func (z *zeroSampler) Sample() (*big.Int, error) {
	if z.n > 0 {
		z.n--
		return big.NewInt(0), nil
	}
	return z.s.Sample()
}

func TestKilian_ResampleSingular(t *testing.T) {
	p := big.NewInt(1000003)
	// the first link is the zero matrix
	s := &zeroSampler{n: 4, s: sample.NewUniform(p)}
	kc, err := mife.GenerateKilian([]int{2, 2}, p, s, nil)
	require.NoError(t, err)
	assert.NoError(t, kc.Check(p))
}

func TestKilian_Singular(t *testing.T) {
	p := big.NewInt(101)
	s := &zeroSampler{n: 1 << 30}
	_, err := mife.GenerateKilian([]int{3}, p, s, nil)
	assert.Equal(t, data.ErrSingular, errors.Cause(err))
}

func TestRandomize_Support(t *testing.T) {
	p := mersenne61
	key, err := sample.NewKey()
	require.NoError(t, err)
	stream, err := sample.NewUniformStream(p, key)
	require.NoError(t, err)

	bits := sample.NewBit()
	uniform := sample.NewUniform(p)
	for n := 0; n < 20; n++ {
		m, err := data.NewRandomMatrix(4, 5, uniform)
		require.NoError(t, err)
		for i := range m {
			for j := range m[i] {
				b, err := bits.Sample()
				require.NoError(t, err)
				if b.Sign() == 0 {
					m[i][j] = big.NewInt(0)
				}
			}
		}

		r, err := mife.Randomize(m, p, stream)
		require.NoError(t, err)
		assert.Equal(t, m.Support(p), r.Support(p))
	}
}

func TestRandomize_ZeroSampler(t *testing.T) {
	p := big.NewInt(101)
	m := data.NewIdentityMatrix(2)

	// zero draws are rejected
	r, err := mife.Randomize(m, p, &zeroSampler{n: 3, s: sample.NewUniform(p)})
	require.NoError(t, err)
	assert.Equal(t, m.Support(p), r.Support(p))

	_, err = mife.Randomize(m, p, &zeroSampler{n: 1 << 30})
	assert.Error(t, err)
}
