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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMatrix_Support(t *testing.T) {
	m := intMatrix([][]int64{{0, 7, 14}, {3, 0, -7}})
	got := m.Support(big.NewInt(7))
	want := Support{{false, false, false}, {true, false, false}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("support mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, got.Rows())
	assert.Equal(t, 3, got.Cols())
	assert.False(t, got.AllZero())
	assert.Equal(t, "0 0 0\n1 0 0", got.String())

	assert.True(t, intMatrix([][]int64{{7, 0}}).Support(big.NewInt(7)).AllZero())
}

func TestNewSupport_Error(t *testing.T) {
	errTest := errors.New("zero test failed")
	_, err := NewSupport(2, 2, func(i, j int) (bool, error) {
		if i == 1 && j == 1 {
			return false, errTest
		}
		return true, nil
	})
	assert.Equal(t, errTest, err)
}
