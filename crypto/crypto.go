// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

package crypto

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/sha3"

	"github.com/probeum/dropvm/common"
)

// KeccakState wraps sha3.state, additionally supporting Read to pull a
// variable amount of output without the copy Sum performs.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, 32)
	d := NewKeccakState()
	for _, in := range data {
		d.Write(in)
	}
	d.Read(b)
	return b
}

// Keccak256Hash calculates the Keccak256 hash, returning it as a common.Hash.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewKeccakState()
	for _, in := range data {
		d.Write(in)
	}
	d.Read(h[:])
	return h
}

// HashData hashes data into an externally supplied KeccakState, avoiding
// an allocation on the SHA3 opcode's hot path.
func HashData(kh KeccakState, data []byte) (h common.Hash) {
	kh.Reset()
	kh.Write(data)
	kh.Read(h[:])
	return h
}

// CreateAddress derives the address of a contract deployed by b at the
// given nonce: keccak256(b ++ big-endian nonce)[12:]. The production
// Yellow Paper rule RLP-encodes (sender, nonce); this interpreter core
// has no RLP codec in its dependency surface, so it uses this simpler
// encoding instead (see DESIGN.md for the rationale).
func CreateAddress(b common.Address, nonce uint64) common.Address {
	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], nonce)
	data := make([]byte, 0, common.AddressLength+8)
	data = append(data, b.Bytes()...)
	data = append(data, nonceBytes[:]...)
	return common.BytesToAddress(Keccak256(data))
}
