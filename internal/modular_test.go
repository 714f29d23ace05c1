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

package internal

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModExp(t *testing.T) {
	p := big.NewInt(101)
	inv := ModExp(big.NewInt(7), big.NewInt(-1), p)
	assert.Equal(t, big.NewInt(1), new(big.Int).Mod(new(big.Int).Mul(inv, big.NewInt(7)), p))
	assert.Equal(t, big.NewInt(49), ModExp(big.NewInt(7), big.NewInt(2), p))
	assert.Nil(t, ModExp(big.NewInt(0), big.NewInt(-1), p))
}

func TestDivRound(t *testing.T) {
	var tests = []struct {
		a, b, want int64
	}{
		{7, 2, 4},
		{5, 3, 2},
		{-7, 2, -3},
		{-5, 3, -2},
		{0, 9, 0},
		{-1, 3, 0},
	}
	for _, test := range tests {
		got := DivRound(big.NewInt(test.a), big.NewInt(test.b))
		assert.Equal(t, test.want, got.Int64(), "round(%d/%d)", test.a, test.b)
	}
}
