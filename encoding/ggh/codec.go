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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fentec-project/mife/encoding"
	"github.com/pkg/errors"
)

// WriteElement writes e as a single token: its index set, its level
// and the residues of its NTT coefficients modulo every prime of q.
func (ev *Evaluator) WriteElement(w io.Writer, e encoding.Element) error {
	x, ok := e.(*Element)
	if !ok {
		return encoding.ErrForeign
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v:%d:", x.set, x.level)
	for i, level := range x.c.Coeffs[:ev.ringQ.Level()+1] {
		for j, c := range level {
			if i > 0 || j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatUint(c, 16))
		}
	}
	b.WriteByte(' ')

	_, err := io.WriteString(w, b.String())
	return err
}

// ReadElement reads an element written by WriteElement.
func (ev *Evaluator) ReadElement(r io.Reader) (encoding.Element, error) {
	var tok string
	if _, err := fmt.Fscan(r, &tok); err != nil {
		return nil, errors.Wrap(err, "cannot read element")
	}
	parts := strings.Split(tok, ":")
	if len(parts) != 3 {
		return nil, errors.New("malformed element")
	}

	set, err := encoding.ParseIndexSet(parts[0])
	if err != nil {
		return nil, err
	}
	if len(set) != ev.gamma {
		return nil, errors.Wrapf(encoding.ErrIndexSet, "element over %d positions", len(set))
	}
	level, err := strconv.Atoi(parts[1])
	if err != nil || level < 1 || level > ev.kappa {
		return nil, errors.Errorf("malformed level %q", parts[1])
	}

	moduli := ev.ringQ.ModuliChain()
	n := ev.ringQ.N()
	coeffs := strings.Split(parts[2], ",")
	if len(coeffs) != n*len(moduli) {
		return nil, errors.Errorf("%d coefficients, expected %d", len(coeffs), n*len(moduli))
	}

	c := ev.ringQ.NewPoly()
	for i, qi := range moduli {
		for j := 0; j < n; j++ {
			x, err := strconv.ParseUint(coeffs[i*n+j], 16, 64)
			if err != nil || x >= qi {
				return nil, errors.Errorf("malformed coefficient %q", coeffs[i*n+j])
			}
			c.Coeffs[i][j] = x
		}
	}

	return &Element{c: c, set: set, level: level}, nil
}
