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

// Package sample includes samplers for sampling random values
// from different probability distributions.
//
// Package sample provides the Sampler interface
// along with different implementations of this interface.
// Uniform samplers back the Kilian matrices and the scalar
// randomizers of the MIFE engine, keyed stream samplers give every
// worker goroutine its own independent source, and the discrete
// Gaussian samplers produce the short secrets of the lattice
// based graded encoding.
package sample

import "math/big"

// Sampler samples a single *big.Int from some probability
// distribution.
type Sampler interface {
	Sample() (*big.Int, error)
}
