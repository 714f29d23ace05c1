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

// Package ggh implements a graded encoding in the style of Garg,
// Gentry and Halevi over the ring R = Z[x]/(x^n+1), with the
// ring arithmetic of lattigo.
//
// The secret is a short g whose norm p = N(g) is a prime, so that
// R/gR is the plaintext field Z_p, together with a random unit z_i
// modulo q for every index set position and a short h. An encoding of
// m under the set S is
//
//	c = (e + g r) / z_S  mod q,
//
// where e is a short element of the coset of m modulo g, r a short
// random element and z_S the product of the z_i in S. Encodings are
// added and multiplied modulo q. At the top level set the zero test
// parameter pzt = h z_1 ... z_gamma / g yields pzt c = h (e/g + r),
// which is short iff e is divisible by g, that is iff m = 0.
package ggh

import (
	"math/big"
	"sync"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/ring"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"
)

// Scheme instantiates GGH encodings.
type Scheme struct {
	params Parameters
}

// New returns a Scheme with the given parameters.
func New(params Parameters) (*Scheme, error) {
	if err := params.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid GGH parameters")
	}

	return &Scheme{params: params}, nil
}

// Element is a GGH encoding. The polynomial is kept in the NTT domain.
type Element struct {
	c     ring.Poly
	set   encoding.IndexSet
	level int
}

// IndexSet returns the index set of e.
func (e *Element) IndexSet() encoding.IndexSet {
	return e.set
}

// Level returns the number of encodings multiplied into e.
func (e *Element) Level() int {
	return e.level
}

// Evaluator holds the public parameters of a GGH encoding.
type Evaluator struct {
	params Parameters
	ringQ  *ring.Ring
	q      *big.Int
	p      *big.Int
	kappa  int
	gamma  int
	// pzt = h z_1 ... z_gamma / g in the NTT domain
	pzt ring.Poly
	// coefficients of pzt c below threshold mark a zero
	threshold *big.Int
}

// Encoder holds the secret parameters of a GGH encoding.
type Encoder struct {
	*Evaluator

	// g in coefficient and NTT domain
	g    data.Vector
	gNTT ring.Poly
	// g^-1 = gInv / gDen in Q[x]/(x^n+1)
	gInv data.Vector
	gDen *big.Int
	// zInv[i] = z_i^-1 in the NTT domain
	zInv []ring.Poly

	mu      sync.Mutex
	sampler ring.Sampler
}

// Setup samples the secrets of an encoding for products of kappa
// encodings over gamma positions.
func (s *Scheme) Setup(kappa, gamma int) (encoding.Encoder, error) {
	if kappa < 1 || gamma < 1 {
		return nil, errors.Errorf("invalid parameters kappa = %d, gamma = %d", kappa, gamma)
	}
	params := s.params
	n := params.N()

	primesGen := ring.NewNTTFriendlyPrimesGenerator(uint64(params.LogQi), uint64(2*n))
	primes, err := primesGen.NextAlternatingPrimes(params.levels(kappa))
	if err != nil {
		return nil, errors.Wrap(err, "cannot generate the RNS primes")
	}
	ringQ, err := ring.NewRing(n, primes)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create the ring")
	}
	q := big.NewInt(1)
	for _, qi := range primes {
		q.Mul(q, new(big.Int).SetUint64(qi))
	}

	prng, err := sampling.NewPRNG()
	if err != nil {
		return nil, errors.Wrap(err, "cannot create PRNG")
	}
	gaussian, err := ring.NewSampler(prng, ringQ, ring.DiscreteGaussian{Sigma: params.SigmaR, Bound: params.BoundR}, false)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create the sampler of r")
	}
	uniform, err := ring.NewSampler(prng, ringQ, ring.Uniform{}, false)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create the sampler of z")
	}

	enc := &Encoder{
		Evaluator: &Evaluator{
			params: params,
			ringQ:  ringQ,
			q:      q,
			kappa:  kappa,
			gamma:  gamma,
		},
		sampler: gaussian,
	}

	if err := enc.sampleG(); err != nil {
		return nil, err
	}
	h, err := enc.sampleH()
	if err != nil {
		return nil, err
	}

	// pzt = h z_1 ... z_gamma g^-1
	enc.pzt = enc.toNTT(h)
	gInvNTT, err := enc.invertNTT(enc.gNTT)
	if err != nil {
		return nil, err
	}
	ringQ.MulCoeffsBarrett(enc.pzt, gInvNTT, enc.pzt)

	enc.zInv = make([]ring.Poly, gamma)
	for i := range enc.zInv {
		z := ringQ.NewPoly()
		for {
			uniform.Read(z)
			if enc.zInv[i], err = enc.invertNTT(z); err == nil {
				break
			}
		}
		ringQ.MulCoeffsBarrett(enc.pzt, z, enc.pzt)
	}

	return enc, nil
}

// sampleG samples g until its norm is a prime, it is invertible
// modulo q and its canonical embeddings are at least 1 in absolute
// value. The latter bounds the coefficients of x/g by n times those
// of x.
func (c *Encoder) sampleG() error {
	n := c.params.N()
	sampler := sample.NewNormalCumulative(big.NewFloat(c.params.SigmaG), c.params.Prec, true)

	for try := 0; try < c.params.MaxTries; try++ {
		g, err := data.NewRandomVector(n, sampler)
		if err != nil {
			return err
		}
		p := norm(g)
		if !p.ProbablyPrime(20) {
			continue
		}
		gNTT := c.toNTT(g)
		if _, err := c.invertNTT(gNTT); err != nil {
			continue
		}
		if minEmbedding(g) < 1 {
			continue
		}
		gInv, gDen, err := inverse(g)
		if err != nil {
			continue
		}

		c.g, c.gNTT, c.gInv, c.gDen = g, gNTT, gInv, gDen
		c.p = p

		maxG := big.NewInt(1)
		for _, x := range g {
			if new(big.Int).Abs(x).Cmp(maxG) > 0 {
				maxG = new(big.Int).Abs(x)
			}
		}
		// a nonzero top level encoding has pzt c of size at least
		// q / (4 n max|g_i|)
		c.threshold = new(big.Int).Quo(c.q, maxG.Mul(maxG, big.NewInt(int64(8*n))))

		return nil
	}

	return errors.Errorf("no suitable g found in %d tries", c.params.MaxTries)
}

// sampleH samples h with a norm not divisible by p, so that h is not
// in the ideal generated by g.
func (c *Encoder) sampleH() (data.Vector, error) {
	sampler := sample.NewNormalNegative(big.NewFloat(c.params.SigmaH), c.params.Prec)

	for try := 0; try < c.params.MaxTries; try++ {
		h, err := data.NewRandomVector(c.params.N(), sampler)
		if err != nil {
			return nil, err
		}
		if new(big.Int).Mod(norm(h), c.p).Sign() != 0 {
			return h, nil
		}
	}

	return nil, errors.Errorf("no suitable h found in %d tries", c.params.MaxTries)
}

// toNTT returns the NTT of the polynomial with coefficients v.
func (ev *Evaluator) toNTT(v data.Vector) ring.Poly {
	pol := ev.ringQ.NewPoly()
	ev.ringQ.SetCoefficientsBigint(v, pol)
	ev.ringQ.NTT(pol, pol)

	return pol
}

// invertNTT returns the inverse of a modulo q, both in the NTT domain.
func (ev *Evaluator) invertNTT(a ring.Poly) (ring.Poly, error) {
	inv := ev.ringQ.NewPoly()
	for i, qi := range ev.ringQ.ModuliChain() {
		for j, x := range a.Coeffs[i] {
			if x == 0 {
				return inv, errors.New("element is not invertible modulo q")
			}
			inv.Coeffs[i][j] = ring.ModExp(x, qi-2, qi)
		}
	}

	return inv, nil
}

// Modulus returns the plaintext modulus p = N(g).
func (ev *Evaluator) Modulus() *big.Int {
	return ev.p
}

// Universe returns the number of index set positions.
func (ev *Evaluator) Universe() int {
	return ev.gamma
}

// Encode encodes x under s.
func (c *Encoder) Encode(x *big.Int, s encoding.IndexSet) (encoding.Element, error) {
	if err := s.Validate(c.gamma); err != nil {
		return nil, err
	}
	m := new(big.Int).Mod(x, c.p)

	// e = m - g round(m g^-1) is a short element of m + gR
	k := make(data.Vector, len(c.gInv))
	for i, a := range c.gInv {
		k[i] = internal.DivRound(new(big.Int).Mul(m, a), c.gDen)
	}
	gk, err := c.g.MulAsPolyInRing(k)
	if err != nil {
		return nil, err
	}
	e := gk.MulScalar(big.NewInt(-1))
	e[0].Add(e[0], m)

	r := c.ringQ.NewPoly()
	c.mu.Lock()
	c.sampler.Read(r)
	c.mu.Unlock()
	c.ringQ.NTT(r, r)

	num := c.toNTT(e)
	c.ringQ.MulCoeffsBarrett(r, c.gNTT, r)
	c.ringQ.Add(num, r, num)
	for i, in := range s {
		if in == 1 {
			c.ringQ.MulCoeffsBarrett(num, c.zInv[i], num)
		}
	}

	return &Element{c: num, set: s.Copy(), level: 1}, nil
}

// Public returns the public part of c.
func (c *Encoder) Public() encoding.Evaluator {
	return c.Evaluator
}

func (ev *Evaluator) cast(a, b encoding.Element) (*Element, *Element, error) {
	x, ok1 := a.(*Element)
	y, ok2 := b.(*Element)
	if !ok1 || !ok2 {
		return nil, nil, encoding.ErrForeign
	}

	return x, y, nil
}

// Add adds two encodings under the same index set and level.
func (ev *Evaluator) Add(a, b encoding.Element) (encoding.Element, error) {
	x, y, err := ev.cast(a, b)
	if err != nil {
		return nil, err
	}
	if !x.set.Equal(y.set) || x.level != y.level {
		return nil, errors.Wrapf(encoding.ErrIndexSet, "cannot add %v and %v", x.set, y.set)
	}

	sum := ev.ringQ.NewPoly()
	ev.ringQ.Add(x.c, y.c, sum)

	return &Element{c: sum, set: x.set.Copy(), level: x.level}, nil
}

// Mul multiplies two encodings under disjoint index sets. The product
// of more than kappa encodings is refused, as its zero test would be
// meaningless.
func (ev *Evaluator) Mul(a, b encoding.Element) (encoding.Element, error) {
	x, y, err := ev.cast(a, b)
	if err != nil {
		return nil, err
	}
	set, err := x.set.Union(y.set)
	if err != nil {
		return nil, err
	}
	if x.level+y.level > ev.kappa {
		return nil, errors.Errorf("product of %d encodings exceeds the degree %d",
			x.level+y.level, ev.kappa)
	}

	prod := ev.ringQ.NewPoly()
	ev.ringQ.MulCoeffsBarrett(x.c, y.c, prod)

	return &Element{c: prod, set: set, level: x.level + y.level}, nil
}

// IsZero reports whether a top level encoding encodes 0.
func (ev *Evaluator) IsZero(a encoding.Element) (bool, error) {
	x, ok := a.(*Element)
	if !ok {
		return false, encoding.ErrForeign
	}
	if !x.set.IsTop() {
		return false, encoding.ErrNotTopLevel
	}

	w := ev.ringQ.NewPoly()
	ev.ringQ.MulCoeffsBarrett(ev.pzt, x.c, w)
	ev.ringQ.INTT(w, w)

	coeffs := make([]*big.Int, ev.ringQ.N())
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}
	ev.ringQ.PolyToBigintCentered(w, 1, coeffs)
	for _, coef := range coeffs {
		if coef.CmpAbs(ev.threshold) >= 0 {
			return false, nil
		}
	}

	return true, nil
}
