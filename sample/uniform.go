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

package sample

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// UniformRange samples random values from the interval [min, max).
type UniformRange struct {
	min   *big.Int
	width *big.Int
}

// NewUniformRange returns an instance of the UniformRange sampler.
// It accepts lower and upper bounds on the sampled values.
// Sample returns an error if max <= min.
func NewUniformRange(min, max *big.Int) *UniformRange {
	return &UniformRange{
		min:   new(big.Int).Set(min),
		width: new(big.Int).Sub(max, min),
	}
}

// NewUniform returns an instance of the UniformRange sampler
// drawing from [0, max).
func NewUniform(max *big.Int) *UniformRange {
	return NewUniformRange(big.NewInt(0), max)
}

// NewBit returns a sampler of single random bits.
func NewBit() *UniformRange {
	return NewUniform(big.NewInt(2))
}

// Sample samples a value from the interval [min, max) using
// the operating system's cryptographic source.
func (u *UniformRange) Sample() (*big.Int, error) {
	if u.width.Sign() <= 0 {
		return nil, errors.New("upper bound of the interval must exceed the lower bound")
	}
	r, err := rand.Int(rand.Reader, u.width)
	if err != nil {
		return nil, errors.Wrap(err, "error while sampling")
	}

	return r.Add(r, u.min), nil
}
