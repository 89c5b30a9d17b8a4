// Copyright 2016 The go-probeum Authors
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

package vm

import (
	"encoding/binary"

	"github.com/holiman/bloomfilter/v2"

	"github.com/probeum/dropvm/crypto"
)

// bloomAccumulator tracks a probabilistic membership filter over every
// log emitted by a frame (its own address and each topic), so a host can
// cheaply test "might this frame have logged topic X" before scanning
// Frame.Logs in full — the standard receipt-bloom idea, scoped per
// frame instead of per block.
type bloomAccumulator struct {
	filter *bloomfilter.Filter
}

const (
	bloomM = 2048 * 8 // bits
	bloomK = 3         // hash functions
)

func newBloomAccumulator() *bloomAccumulator {
	f, err := bloomfilter.New(bloomM, bloomK)
	if err != nil {
		// bloomM/bloomK are constants chosen to be valid; a failure here
		// would be a programming error, not a runtime condition.
		panic(err)
	}
	return &bloomAccumulator{filter: f}
}

// bloomHasher is a hash.Hash64 wrapper around an 8-byte Keccak256 digest:
// Filter.Add/Contains take a hash.Hash64, not a raw uint64, so the
// digest has to arrive already shaped to satisfy hash.Hash's Write/Sum/
// Reset/Size/BlockSize alongside Sum64. Only Sum64 and Size are ever
// actually called by the filter.
type bloomHasher [8]byte

func (h bloomHasher) Write(p []byte) (n int, err error) { panic("not implemented") }
func (h bloomHasher) Sum(b []byte) []byte               { panic("not implemented") }
func (h bloomHasher) Reset()                            { panic("not implemented") }
func (h bloomHasher) BlockSize() int                    { return 0 }
func (h bloomHasher) Size() int                         { return 8 }
func (h bloomHasher) Sum64() uint64                     { return binary.BigEndian.Uint64(h[:]) }

// bloomHash64 reduces an arbitrary byte string to the hash.Hash64 the
// filter hashes on, using Keccak256 so the bits spread evenly.
func bloomHash64(b []byte) bloomHasher {
	sum := crypto.Keccak256(b)
	var h bloomHasher
	copy(h[:], sum[:8])
	return h
}

func (ba *bloomAccumulator) add(b []byte) {
	ba.filter.Add(bloomHash64(b))
}

// MightContain reports whether b may have been added; false is
// authoritative, true requires checking Frame.Logs.
func (ba *bloomAccumulator) MightContain(b []byte) bool {
	return ba.filter.Contains(bloomHash64(b))
}

// appendLog records a LOGn emission and folds its address/topics into
// the frame's bloom accumulator.
func (f *Frame) appendLog(rec LogRecord) {
	f.Logs = append(f.Logs, rec)
	f.LogBloom.add(rec.Address.Bytes())
	for _, t := range rec.Topics {
		f.LogBloom.add(t.Bytes())
	}
}
