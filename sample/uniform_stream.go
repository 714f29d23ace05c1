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
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/salsa20"
	"golang.org/x/crypto/sha3"
)

// streamBlock is the number of key stream bytes produced per nonce.
const streamBlock = 512

// UniformStream samples values from the interval [0, max) using the
// salsa20 key stream determined by a 32 byte key. Two streams with
// the same key and bound produce the same sequence of samples.
//
// A UniformStream is not safe for concurrent use; every goroutine
// should own its stream, typically keyed by DeriveKey.
type UniformStream struct {
	key      *[32]byte
	max      *big.Int
	maxBytes int
	over     uint
	counter  uint64
	buf      []byte
}

// NewUniformStream returns an instance of the UniformStream sampler.
// It returns an error if max < 2.
func NewUniformStream(max *big.Int, key *[32]byte) (*UniformStream, error) {
	if max.Cmp(big.NewInt(2)) < 0 {
		return nil, errors.New("upper bound on samples should be at least 2")
	}
	maxBits := new(big.Int).Sub(max, big.NewInt(1)).BitLen()
	maxBytes := (maxBits + 7) / 8

	return &UniformStream{
		key:      key,
		max:      new(big.Int).Set(max),
		maxBytes: maxBytes,
		over:     uint(8*maxBytes - maxBits),
	}, nil
}

// refill appends the key stream of the next nonce to the buffer.
func (u *UniformStream) refill() {
	nonce := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonce, u.counter)
	u.counter++

	in := make([]byte, streamBlock)
	out := make([]byte, streamBlock)
	salsa20.XORKeyStream(out, in, nonce, u.key)
	u.buf = append(u.buf, out...)
}

// Sample returns the next value of the stream. Candidates that are
// not smaller than max are rejected, so the result is uniform.
func (u *UniformStream) Sample() (*big.Int, error) {
	for {
		for len(u.buf) < u.maxBytes {
			u.refill()
		}
		chunk := u.buf[:u.maxBytes]
		chunk[0] = chunk[0] >> u.over
		ret := new(big.Int).SetBytes(chunk)
		u.buf = u.buf[u.maxBytes:]
		if ret.Cmp(u.max) < 0 {
			return ret, nil
		}
	}
}

// NewKey returns a fresh random 32 byte key.
func NewKey() (*[32]byte, error) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		return nil, errors.Wrap(err, "error while sampling key")
	}

	return &key, nil
}

// DeriveKey derives the key of the index-th stream with the given label
// from seed using SHAKE-256. Different (label, index) pairs give
// independent keys.
func DeriveKey(seed []byte, label string, index uint64) *[32]byte {
	h := sha3.NewShake256()
	idx := make([]byte, 8)
	binary.BigEndian.PutUint64(idx, index)
	lbl := make([]byte, 8)
	binary.BigEndian.PutUint64(lbl, uint64(len(label)))

	_, _ = h.Write(seed)
	_, _ = h.Write(lbl)
	_, _ = h.Write([]byte(label))
	_, _ = h.Write(idx)

	var key [32]byte
	_, _ = h.Read(key[:])

	return &key
}
