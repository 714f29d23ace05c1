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

package mife

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/internal"
	"github.com/pkg/errors"
)

// Public parameters, secret keys and ciphertexts are written as
// whitespace separated tokens, starting with a tag. Big integers are
// written in hexadecimal.
const (
	tagPublicParams = "mife-pp"
	tagSecretKey    = "mife-sk"
	tagCiphertext   = "mife-ct"
)

// maxOuterDim bounds the rows of the first and the columns of the last
// matrix of a stored ciphertext, the dimensions not fixed by the
// Kilian chain.
const maxOuterDim = 1 << 12

type tokenWriter struct {
	w   *bufio.Writer
	err error
}

func (t *tokenWriter) write(format string, a ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, a...)
}

func (t *tokenWriter) ints(xs []int) {
	t.write("%d", len(xs))
	for _, x := range xs {
		t.write(" %d", x)
	}
	t.write("\n")
}

func (t *tokenWriter) matrix(m data.Matrix) {
	t.write("%d %d\n", m.Rows(), m.Cols())
	for _, row := range m {
		for j, x := range row {
			if j > 0 {
				t.write(" ")
			}
			t.write("%s", x.Text(16))
		}
		t.write("\n")
	}
}

func (t *tokenWriter) flush() error {
	if t.err != nil {
		return t.err
	}

	return t.w.Flush()
}

type tokenReader struct {
	r   *bufio.Reader
	err error
}

func newTokenReader(r io.Reader) *tokenReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &tokenReader{r: br}
	}

	return &tokenReader{r: bufio.NewReader(r)}
}

func (t *tokenReader) token() string {
	if t.err != nil {
		return ""
	}
	var tok string
	if _, err := fmt.Fscan(t.r, &tok); err != nil {
		t.err = errors.Wrap(err, "unexpected end of input")
	}

	return tok
}

func (t *tokenReader) expect(tag string) {
	if tok := t.token(); t.err == nil && tok != tag {
		t.err = errors.Errorf("expected %q, got %q", tag, tok)
	}
}

func (t *tokenReader) int() int {
	tok := t.token()
	if t.err != nil {
		return 0
	}
	var x int
	if _, err := fmt.Sscan(tok, &x); err != nil {
		t.err = errors.Errorf("malformed integer %q", tok)
	}

	return x
}

// count reads a nonnegative length not larger than max.
func (t *tokenReader) count(max int) int {
	n := t.int()
	if t.err == nil && (n < 0 || n > max) {
		t.err = errors.Errorf("length %d outside [0, %d]", n, max)
	}

	return n
}

// ints reads a list of exactly n integers.
func (t *tokenReader) ints(n int) []int {
	if l := t.int(); t.err == nil && l != n {
		t.err = errors.Errorf("list of length %d, expected %d", l, n)
	}
	xs := make([]int, n)
	for i := 0; i < n && t.err == nil; i++ {
		xs[i] = t.int()
	}

	return xs
}

// dim reads a matrix dimension. It must equal want if want > 0 and
// lie in [1, maxOuterDim] otherwise.
func (t *tokenReader) dim(want int) int {
	if want > 0 {
		if d := t.int(); t.err == nil && d != want {
			t.err = errors.Errorf("dimension %d, expected %d", d, want)
		}
		return want
	}
	d := t.count(maxOuterDim)
	if t.err == nil && d == 0 {
		t.err = errors.New("empty matrix")
	}

	return d
}

func (t *tokenReader) big() *big.Int {
	tok := t.token()
	if t.err != nil {
		return nil
	}
	x, ok := new(big.Int).SetString(tok, 16)
	if !ok {
		t.err = errors.Errorf("malformed big integer %q", tok)
	}

	return x
}

func (t *tokenReader) matrix(rows, cols int) data.Matrix {
	if r, c := t.int(), t.int(); t.err == nil && (r != rows || c != cols) {
		t.err = errors.Errorf("expected a %dx%d matrix, got %dx%d", rows, cols, r, c)
	}
	m := data.NewConstantMatrix(rows, cols, big.NewInt(0))
	for i := 0; i < rows && t.err == nil; i++ {
		for j := 0; j < cols && t.err == nil; j++ {
			m[i][j] = t.big()
		}
	}

	return m
}

// WritePublicParams writes pp to w. The program and the evaluator are
// not written.
func WritePublicParams(w io.Writer, pp *PublicParams) error {
	if err := pp.Validate(); err != nil {
		return err
	}
	t := &tokenWriter{w: bufio.NewWriter(w)}
	t.write("%s %d %d %d\n", tagPublicParams, pp.NumInputs, pp.L, uint(pp.Flags))
	t.ints(pp.N)
	t.write("%d ", pp.Gamma)
	t.ints(pp.Gammas)
	t.write("%d %d\n", pp.Kappa, pp.NumR)
	t.write("%s\n", pp.P.Text(16))
	t.ints(pp.KilianDims)

	return t.flush()
}

// ReadPublicParams reads public parameters written by
// WritePublicParams. They must describe prog, and ev must be the
// evaluator of the encoding they were set up with.
func ReadPublicParams(r io.Reader, prog Program, ev encoding.Evaluator) (*PublicParams, error) {
	t := newTokenReader(r)
	t.expect(tagPublicParams)
	numInputs, L, flags := t.int(), t.int(), t.int()
	if t.err != nil {
		return nil, errors.Wrap(internal.MalformedPubParams, t.err.Error())
	}

	pp, err := newPublicParams(prog, L, Flags(flags))
	if err != nil {
		return nil, err
	}
	if pp.NumInputs != numInputs {
		return nil, errors.Wrapf(internal.MalformedPubParams, "%d inputs, program has %d", numInputs, pp.NumInputs)
	}

	n := t.ints(numInputs)
	gamma := t.int()
	gammas := t.ints(numInputs)
	kappa, numR := t.int(), t.int()
	p := t.big()
	dims := t.ints(pp.NumR)
	if t.err != nil {
		return nil, errors.Wrap(internal.MalformedPubParams, t.err.Error())
	}
	for i := 0; i < numInputs; i++ {
		if n[i] != pp.N[i] || gammas[i] != pp.Gammas[i] {
			return nil, errors.Wrapf(internal.MalformedPubParams, "dimensions of input %d", i)
		}
	}
	if gamma != pp.Gamma || kappa != pp.Kappa || numR != pp.NumR {
		return nil, errors.Wrap(internal.MalformedPubParams, "gamma, kappa or numR")
	}
	if ev == nil || ev.Modulus().Cmp(p) != 0 || ev.Universe() != gamma {
		return nil, errors.Wrap(internal.MalformedPubParams, "evaluator does not match")
	}

	pp.P = p
	pp.KilianDims = dims
	pp.Evaluator = ev
	if err := pp.resolveOrder(); err != nil {
		return nil, err
	}
	if err := pp.Validate(); err != nil {
		return nil, err
	}

	return pp, nil
}

// WriteSecretKey writes the Kilian chain of sk to w. The secret of the
// encoding is not written.
func WriteSecretKey(w io.Writer, pp *PublicParams, sk *SecretKey) error {
	t := &tokenWriter{w: bufio.NewWriter(w)}
	if sk.Kilian == nil {
		t.write("%s 0\n", tagSecretKey)
		return t.flush()
	}

	t.write("%s %d\n", tagSecretKey, sk.Kilian.NumR())
	for k := range sk.Kilian.R {
		t.matrix(sk.Kilian.R[k])
		t.matrix(sk.Kilian.RInv[k])
	}

	return t.flush()
}

// ReadSecretKey reads a secret key written by WriteSecretKey and joins
// it with enc, the encoder pp was set up with. The Kilian matrices are
// checked to be inverse to each other.
func ReadSecretKey(r io.Reader, pp *PublicParams, enc encoding.Encoder) (*SecretKey, error) {
	if enc == nil || enc.Modulus().Cmp(pp.P) != 0 {
		return nil, errors.Wrap(internal.MalformedSecKey, "encoder does not match")
	}
	t := newTokenReader(r)
	t.expect(tagSecretKey)
	numR := t.int()
	if t.err != nil {
		return nil, errors.Wrap(internal.MalformedSecKey, t.err.Error())
	}

	sk := &SecretKey{Encoder: enc}
	if numR == 0 && (pp.NumR == 0 || pp.Flags.Has(NoKilian)) {
		if !pp.Flags.Has(NoKilian) {
			sk.Kilian = &KilianChain{}
		}
		return sk, nil
	}
	if numR != pp.NumR || len(pp.KilianDims) != numR {
		return nil, errors.Wrapf(internal.MalformedSecKey, "%d Kilian matrices for %d links", numR, pp.NumR)
	}

	kc := &KilianChain{
		Dims: append([]int(nil), pp.KilianDims...),
		R:    make([]data.Matrix, numR),
		RInv: make([]data.Matrix, numR),
	}
	for k := 0; k < numR; k++ {
		d := kc.Dims[k]
		kc.R[k] = t.matrix(d, d)
		kc.RInv[k] = t.matrix(d, d)
	}
	if t.err != nil {
		return nil, errors.Wrap(internal.MalformedSecKey, t.err.Error())
	}
	if err := kc.Check(pp.P); err != nil {
		return nil, err
	}
	sk.Kilian = kc

	return sk, nil
}

// WriteCiphertext writes ct to w, its elements written by codec.
func WriteCiphertext(w io.Writer, pp *PublicParams, ct *Ciphertext, codec encoding.Codec) error {
	t := &tokenWriter{w: bufio.NewWriter(w)}
	t.write("%s %d\n", tagCiphertext, len(ct.Enc))
	for i, slots := range ct.Enc {
		t.write("%d\n", len(slots))
		for j, m := range slots {
			t.write("%d %d\n", m.Rows(), m.Cols())
			for _, row := range m {
				for _, e := range row {
					if t.err == nil {
						t.err = codec.WriteElement(t.w, e)
					}
				}
				t.write("\n")
			}
			if t.err != nil {
				return errors.Wrapf(t.err, "slot (%d, %d)", i, j)
			}
		}
	}

	return t.flush()
}

// ReadCiphertext reads a ciphertext written by WriteCiphertext, its
// elements read by codec.
func ReadCiphertext(r io.Reader, pp *PublicParams, codec encoding.Codec) (*Ciphertext, error) {
	t := newTokenReader(r)
	t.expect(tagCiphertext)
	numInputs := t.int()
	if t.err == nil && numInputs != pp.NumInputs {
		t.err = errors.Errorf("%d inputs instead of %d", numInputs, pp.NumInputs)
	}

	at := make([][]int, pp.NumInputs)
	for i := range at {
		at[i] = make([]int, pp.N[i])
	}
	for k := 0; k < pp.Kappa; k++ {
		i, j := pp.Position(k)
		at[i][j] = k
	}

	ct := &Ciphertext{Enc: make([][]EncodedMatrix, pp.NumInputs)}
	for i := 0; i < pp.NumInputs && t.err == nil; i++ {
		if n := t.int(); t.err == nil && n != pp.N[i] {
			t.err = errors.Errorf("%d slots for input %d instead of %d", n, i, pp.N[i])
		}
		ct.Enc[i] = make([]EncodedMatrix, pp.N[i])
		for j := 0; j < pp.N[i] && t.err == nil; j++ {
			wantRows, wantCols := pp.shape(at[i][j])
			rows := t.dim(wantRows)
			cols := t.dim(wantCols)
			if t.err != nil {
				break
			}
			m := NewEncodedMatrix(rows, cols)
			for a := 0; a < rows && t.err == nil; a++ {
				for b := 0; b < cols && t.err == nil; b++ {
					m[a][b], t.err = codec.ReadElement(t.r)
				}
			}
			ct.Enc[i][j] = m
		}
	}
	if t.err != nil {
		return nil, errors.Wrap(internal.MalformedCipher, t.err.Error())
	}

	return ct, nil
}
