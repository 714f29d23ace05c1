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

package sample_test

import (
	"testing"

	"github.com/fentec-project/mife/sample"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

type paramBounds struct {
	meanLow, meanHigh float64
	varLow, varHigh   float64
}

func drawFloats(t *testing.T, s sample.Sampler, n int) []float64 {
	vec := make([]float64, n)
	for i := range vec {
		x, err := s.Sample()
		if err != nil {
			t.Fatalf("Error during sampling: %v", err)
		}
		vec[i] = float64(x.Int64())
	}

	return vec
}

func testNormalSampler(t *testing.T, s sample.Sampler, expect paramBounds) {
	vec := drawFloats(t, s, 10000)
	me, v := stat.MeanVariance(vec, nil)

	assert.True(t, me >= expect.meanLow, "mean value of the normal distribution is too low")
	assert.True(t, me <= expect.meanHigh, "mean value of the normal distribution is too high")
	assert.True(t, v >= expect.varLow, "variance of the normal distribution is too low")
	assert.True(t, v <= expect.varHigh, "variance of the normal distribution is too high")
}
