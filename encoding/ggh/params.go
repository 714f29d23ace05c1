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

	"github.com/pkg/errors"
)

// Parameters configure a GGH encoding.
type Parameters struct {
	// LogN is the logarithm of the ring degree n.
	LogN int
	// LogQi is the bit size of each prime of the RNS modulus q.
	LogQi int
	// MinLevels is the least number of primes of q. Setup adds more
	// when the degree kappa of the encoding needs them.
	MinLevels int
	// SigmaG and SigmaH are the deviations of the secrets g and h.
	SigmaG float64
	SigmaH float64
	// SigmaR and BoundR are the deviation and the tail cut of the
	// randomness of every encoding.
	SigmaR float64
	BoundR float64
	// Prec is the precision of the samplers of g and h. Their tails
	// are cut at sigma * sqrt(Prec).
	Prec uint
	// MaxTries bounds the number of candidates for g and h.
	MaxTries int
}

// DefaultParameters are the parameters used unless specified
// otherwise. They make no claim of security.
var DefaultParameters = Parameters{
	LogN:      5,
	LogQi:     55,
	MinLevels: 4,
	SigmaG:    4,
	SigmaH:    4,
	SigmaR:    3.2,
	BoundR:    19.2,
	Prec:      16,
	MaxTries:  1 << 16,
}

// TestParameters are small parameters for tests.
var TestParameters = Parameters{
	LogN:      4,
	LogQi:     55,
	MinLevels: 2,
	SigmaG:    4,
	SigmaH:    4,
	SigmaR:    3.2,
	BoundR:    19.2,
	Prec:      16,
	MaxTries:  1 << 14,
}

// N returns the ring degree.
func (p Parameters) N() int {
	return 1 << uint(p.LogN)
}

func (p Parameters) validate() error {
	switch {
	case p.LogN < 4 || p.LogN > 10:
		return errors.Errorf("LogN = %d outside [4, 10]", p.LogN)
	case p.LogQi < 30 || p.LogQi > 61:
		return errors.Errorf("LogQi = %d outside [30, 61]", p.LogQi)
	case p.MinLevels < 1:
		return errors.Errorf("MinLevels = %d", p.MinLevels)
	case p.SigmaG <= 0 || p.SigmaH <= 0 || p.SigmaR <= 0 || p.BoundR < p.SigmaR:
		return errors.New("invalid deviations")
	case p.Prec < 4:
		return errors.Errorf("precision %d too low", p.Prec)
	case p.MaxTries < 1:
		return errors.Errorf("MaxTries = %d", p.MaxTries)
	}

	return nil
}

// cut returns the bound on the coefficients of a secret of deviation
// sigma.
func (p Parameters) cut(sigma float64) int64 {
	return int64(sigma * math.Sqrt(float64(p.Prec)))
}

// levels returns the number of primes of q needed for products of
// kappa encodings to be zero tested correctly.
//
// A level one numerator e + gr has coefficients below
// B = n * cut(g) * (BoundR + 1), a product of kappa of them below
// n^(kappa-1) B^kappa. On top of that come sums of up to 2^32
// products, the factor n between a numerator and its quotient by g,
// the secret h and the gap between the zero test threshold and q.
func (p Parameters) levels(kappa int) int {
	cutG := p.cut(p.SigmaG)
	cutH := p.cut(p.SigmaH)
	b := big.NewInt(int64(p.N()) * cutG * int64(math.Ceil(p.BoundR)+1))

	bits := kappa*b.BitLen() + (kappa-1)*p.LogN
	bits += 32
	bits += 2 * p.LogN
	bits += big.NewInt(cutH).BitLen()
	bits += 3 + p.LogN + big.NewInt(cutG).BitLen()
	bits++

	levels := (bits + p.LogQi - 1) / p.LogQi
	if levels < p.MinLevels {
		levels = p.MinLevels
	}

	return levels
}
