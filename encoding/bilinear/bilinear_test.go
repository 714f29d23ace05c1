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

package bilinear_test

import (
	"math/big"
	"testing"

	"github.com/fentec-project/bn256"
	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/encoding/bilinear"
	"github.com/fentec-project/mife/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBilinear(t *testing.T) {
	enc, err := bilinear.New().Setup(2, 4)
	if err != nil {
		t.Fatalf("Error during setup: %v", err)
	}
	assert.Equal(t, bn256.Order, enc.Modulus())

	x, err := sample.NewUniform(bn256.Order).Sample()
	require.NoError(t, err)
	negX := new(big.Int).Neg(x)

	left := encoding.IndexSet{1, 1, 0, 0}
	right := encoding.IndexSet{0, 0, 1, 1}

	a, err := enc.Encode(x, left)
	require.NoError(t, err)
	b, err := enc.Encode(big.NewInt(5), right)
	require.NoError(t, err)
	c, err := enc.Encode(negX, left)
	require.NoError(t, err)

	// 5x + 5(-x) = 0
	ab, err := enc.Mul(a, b)
	require.NoError(t, err)
	cb, err := enc.Mul(c, b)
	require.NoError(t, err)
	sum, err := enc.Add(ab, cb)
	require.NoError(t, err)

	isZero, err := enc.IsZero(sum)
	require.NoError(t, err)
	assert.True(t, isZero)

	isZero, err = enc.IsZero(ab)
	require.NoError(t, err)
	assert.False(t, isZero)

	_, err = enc.IsZero(a)
	assert.ErrorIs(t, err, encoding.ErrNotTopLevel)
	_, err = enc.Mul(a, c)
	assert.ErrorIs(t, err, encoding.ErrIndexSet)
	_, err = enc.Mul(ab, b)
	assert.Error(t, err)
	_, err = enc.Add(a, ab)
	assert.ErrorIs(t, err, encoding.ErrIndexSet)
}

func TestBilinear_LevelOne(t *testing.T) {
	enc, err := bilinear.New().Setup(1, 2)
	require.NoError(t, err)

	a, err := enc.Encode(big.NewInt(3), encoding.IndexSet{1, 1})
	require.NoError(t, err)
	b, err := enc.Encode(big.NewInt(-3), encoding.IndexSet{1, 1})
	require.NoError(t, err)
	sum, err := enc.Add(a, b)
	require.NoError(t, err)

	isZero, err := enc.IsZero(sum)
	require.NoError(t, err)
	assert.True(t, isZero)
	isZero, err = enc.IsZero(a)
	require.NoError(t, err)
	assert.False(t, isZero)
}

func TestBilinear_Kappa(t *testing.T) {
	_, err := bilinear.New().Setup(3, 6)
	assert.Error(t, err)
	_, err = bilinear.New().Setup(0, 6)
	assert.Error(t, err)
}
