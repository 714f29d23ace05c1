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

package clear_test

import (
	"bufio"
	"bytes"
	"math/big"
	"testing"

	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/encoding/clear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClear(t *testing.T) {
	scheme, err := clear.New(big.NewInt(101))
	require.NoError(t, err)
	enc, err := scheme.Setup(2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(101), enc.Modulus().Int64())
	assert.Equal(t, 3, enc.Universe())

	a, err := enc.Encode(big.NewInt(7), encoding.IndexSet{1, 0, 0})
	require.NoError(t, err)
	b, err := enc.Encode(big.NewInt(-7), encoding.IndexSet{1, 0, 0})
	require.NoError(t, err)
	c, err := enc.Encode(big.NewInt(3), encoding.IndexSet{0, 1, 1})
	require.NoError(t, err)

	sum, err := enc.Add(a, b)
	require.NoError(t, err)
	zero, err := enc.Mul(sum, c)
	require.NoError(t, err)
	isZero, err := enc.IsZero(zero)
	require.NoError(t, err)
	assert.True(t, isZero)

	nonZero, err := enc.Mul(a, c)
	require.NoError(t, err)
	isZero, err = enc.IsZero(nonZero)
	require.NoError(t, err)
	assert.False(t, isZero)
	assert.Equal(t, int64(21), nonZero.(*clear.Element).Value.Int64())

	_, err = enc.IsZero(a)
	assert.ErrorIs(t, err, encoding.ErrNotTopLevel)
	_, err = enc.Add(a, c)
	assert.ErrorIs(t, err, encoding.ErrIndexSet)
	_, err = enc.Mul(a, b)
	assert.ErrorIs(t, err, encoding.ErrIndexSet)
	_, err = enc.Encode(big.NewInt(1), encoding.IndexSet{1, 0})
	assert.ErrorIs(t, err, encoding.ErrIndexSet)
}

func TestClear_Degree(t *testing.T) {
	scheme, err := clear.New(big.NewInt(101))
	require.NoError(t, err)
	enc, err := scheme.Setup(2, 3)
	require.NoError(t, err)

	var elems []encoding.Element
	for i := 0; i < 3; i++ {
		s := encoding.NewIndexSet(3)
		s[i] = 1
		e, err := enc.Encode(big.NewInt(int64(i+1)), s)
		require.NoError(t, err)
		elems = append(elems, e)
	}
	prod, err := enc.Mul(elems[0], elems[1])
	require.NoError(t, err)
	_, err = enc.Mul(prod, elems[2])
	assert.Error(t, err, "three factors exceed degree 2")
}

func TestClear_NotPrime(t *testing.T) {
	_, err := clear.New(big.NewInt(100))
	assert.Error(t, err)
}

func TestClear_Codec(t *testing.T) {
	scheme, err := clear.New(big.NewInt(101))
	require.NoError(t, err)
	enc, err := scheme.Setup(1, 4)
	require.NoError(t, err)
	codec := enc.(encoding.Codec)

	e, err := enc.Encode(big.NewInt(77), encoding.IndexSet{0, 1, 1, 0})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.WriteElement(&buf, e))
	require.NoError(t, codec.WriteElement(&buf, e))

	r := bufio.NewReader(&buf)
	for i := 0; i < 2; i++ {
		read, err := codec.ReadElement(r)
		require.NoError(t, err)
		assert.Equal(t, e, read)
	}
	_, err = codec.ReadElement(r)
	assert.Error(t, err)
}
