// Copyright 2015 The go-probeum Authors
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

package runtime

import (
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/golang/snappy"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/probeum/dropvm/core/vm"

	"github.com/probeum/dropvm/common"
	"github.com/probeum/dropvm/crypto"
)

func codeHash(code []byte) common.Hash {
	if len(code) == 0 {
		return common.Hash{}
	}
	return crypto.Keccak256Hash(code)
}

// codeStore holds deployed bytecode content-addressed by its Keccak256
// hash. Code is immutable once deployed, so unlike balances or storage
// it never needs snapshot/revert bookkeeping — only a cache in front of
// an optional persistent layer. A fastcache.Cache absorbs repeat reads
// of hot contracts, holding the uncompressed bytes; an optional
// goleveldb database persists across process restarts when a caller
// asks for one (the CLI's --db flag), storing each blob snappy-compressed
// the way go-ethereum-family nodes compress everything that lands on
// disk in their freezer/ancient stores.
type codeStore struct {
	cache *fastcache.Cache
	db    *leveldb.DB
}

func newCodeStore(cacheBytes int, dbPath string) (*codeStore, error) {
	if cacheBytes <= 0 {
		cacheBytes = 32 * 1024 * 1024
	}
	cs := &codeStore{cache: fastcache.New(cacheBytes)}
	if dbPath != "" {
		db, err := leveldb.OpenFile(dbPath, nil)
		if err != nil {
			return nil, err
		}
		cs.db = db
	}
	return cs, nil
}

func (cs *codeStore) get(hash common.Hash) []byte {
	if hash.IsZero() {
		return nil
	}
	if b, ok := cs.cache.HasGet(nil, hash.Bytes()); ok {
		return b
	}
	if cs.db != nil {
		if compressed, err := cs.db.Get(hash.Bytes(), nil); err == nil {
			if b, err := snappy.Decode(nil, compressed); err == nil {
				cs.cache.Set(hash.Bytes(), b)
				return b
			}
		}
	}
	return nil
}

func (cs *codeStore) put(hash common.Hash, code []byte) {
	cs.cache.Set(hash.Bytes(), code)
	if cs.db != nil {
		cs.db.Put(hash.Bytes(), snappy.Encode(nil, code), nil)
	}
}

func (cs *codeStore) close() error {
	if cs.db != nil {
		return cs.db.Close()
	}
	return nil
}

// account is one address's mutable world-state record. Code itself
// lives in the codeStore, addressed by codeHash, so snapshotting an
// account never copies contract bytecode.
type account struct {
	balance  *vm.Word
	nonce    uint64
	codeHash common.Hash
	storage  map[common.Hash]common.Hash
	suicided bool
}

func newAccount() *account {
	return &account{balance: new(vm.Word), storage: make(map[common.Hash]common.Hash)}
}

func (a *account) clone() *account {
	c := &account{
		balance:  new(vm.Word).Set(a.balance),
		nonce:    a.nonce,
		codeHash: a.codeHash,
		suicided: a.suicided,
		storage:  make(map[common.Hash]common.Hash, len(a.storage)),
	}
	for k, v := range a.storage {
		c.storage[k] = v
	}
	return c
}

// MemoryStateDB is the reference vm.StateDB implementation used by
// tests, the CLI, and the debug server: every account lives in a plain
// map, snapshotted by deep-copying it, with deployed code routed
// through a shared codeStore. It is not meant to back a production
// chain — there is no trie, no root hash, no disk-backed account
// index — only enough to exercise core/vm end to end.
type MemoryStateDB struct {
	mu       sync.RWMutex
	accounts map[common.Address]*account
	snaps    []map[common.Address]*account
	code     *codeStore
}

// NewMemoryStateDB builds a MemoryStateDB whose code store caches up to
// codeCacheBytes of bytecode in memory (0 picks a sane default) and,
// when dbPath is non-empty, persists code to a goleveldb database at
// that path.
func NewMemoryStateDB(codeCacheBytes int, dbPath string) (*MemoryStateDB, error) {
	cs, err := newCodeStore(codeCacheBytes, dbPath)
	if err != nil {
		return nil, err
	}
	return &MemoryStateDB{accounts: make(map[common.Address]*account), code: cs}, nil
}

// Close releases the underlying goleveldb handle, if any.
func (s *MemoryStateDB) Close() error { return s.code.close() }

func (s *MemoryStateDB) getOrCreate(addr common.Address) *account {
	a, ok := s.accounts[addr]
	if !ok {
		a = newAccount()
		s.accounts[addr] = a
	}
	return a
}

func (s *MemoryStateDB) GetBalance(addr common.Address) *vm.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[addr]; ok {
		return new(vm.Word).Set(a.balance)
	}
	return new(vm.Word)
}

func (s *MemoryStateDB) SubBalance(addr common.Address, amount *vm.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.getOrCreate(addr)
	a.balance.Sub(a.balance, amount)
}

func (s *MemoryStateDB) AddBalance(addr common.Address, amount *vm.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.getOrCreate(addr)
	a.balance.Add(a.balance, amount)
}

func (s *MemoryStateDB) GetCode(addr common.Address) []byte {
	s.mu.RLock()
	a, ok := s.accounts[addr]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.code.get(a.codeHash)
}

func (s *MemoryStateDB) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *MemoryStateDB) GetCodeHash(addr common.Address) common.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[addr]; ok {
		return a.codeHash
	}
	return common.Hash{}
}

func (s *MemoryStateDB) SetCode(addr common.Address, code []byte) {
	hash := codeHash(code)
	s.code.put(hash, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(addr).codeHash = hash
}

func (s *MemoryStateDB) GetNonce(addr common.Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[addr]; ok {
		return a.nonce
	}
	return 0
}

func (s *MemoryStateDB) SetNonce(addr common.Address, nonce uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(addr).nonce = nonce
}

func (s *MemoryStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[addr]; ok {
		return a.storage[key]
	}
	return common.Hash{}
}

func (s *MemoryStateDB) SetState(addr common.Address, key, value common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(addr).storage[key] = value
}

func (s *MemoryStateDB) Exist(addr common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[addr]
	return ok
}

func (s *MemoryStateDB) CreateAccount(addr common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[addr]; !ok {
		s.accounts[addr] = newAccount()
	}
}

func (s *MemoryStateDB) Suicide(addr common.Address, beneficiary common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[addr]
	if !ok {
		return
	}
	ben := s.getOrCreate(beneficiary)
	ben.balance.Add(ben.balance, a.balance)
	a.balance = new(vm.Word)
	a.suicided = true
}

func (s *MemoryStateDB) HasSuicided(addr common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[addr]
	return ok && a.suicided
}

// Snapshot deep-copies the current account set and pushes it onto the
// undo stack, returning its index as the snapshot id.
func (s *MemoryStateDB) Snapshot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := make(map[common.Address]*account, len(s.accounts))
	for addr, a := range s.accounts {
		clone[addr] = a.clone()
	}
	s.snaps = append(s.snaps, clone)
	return len(s.snaps) - 1
}

// RevertToSnapshot restores the account set captured at id, discarding
// that snapshot and every snapshot taken after it.
func (s *MemoryStateDB) RevertToSnapshot(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.snaps) {
		return
	}
	s.accounts = s.snaps[id]
	s.snaps = s.snaps[:id]
}

var _ vm.StateDB = (*MemoryStateDB)(nil)
