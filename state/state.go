// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/kv"
	"github.com/gaslink/gaslink/stackedmap"
)

// storage key space prefix in the underlying kv store.
const storagePrefix = "s"

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

type storageKey struct {
	addr gaslink.Address
	key  gaslink.Bytes32
}

func (sk storageKey) persistentKey() []byte {
	buf := make([]byte, 0, len(storagePrefix)+gaslink.AddressLength+32)
	buf = append(buf, storagePrefix...)
	buf = append(buf, sk.addr.Bytes()...)
	return append(buf, sk.key.Bytes()...)
}

// State manages contract storage slots with save-restore/snapshot-revert manner.
// All mutations are kept in a stacked map until committed, so that any sequence
// of them can be reverted to a checkpoint without touching the backing store.
type State struct {
	db kv.GetPutter
	sm *stackedmap.StackedMap
}

// New create a state object backed by the given kv store.
func New(db kv.GetPutter) *State {
	st := &State{db: db}
	st.sm = stackedmap.New(func(key interface{}) (interface{}, bool, error) {
		raw, err := st.db.Get(key.(storageKey).persistentKey())
		if err != nil {
			if st.db.IsNotFound(err) {
				return rlp.RawValue(nil), true, nil
			}
			return nil, false, err
		}
		return rlp.RawValue(raw), true, nil
	})
	// base layer holds uncommitted changes
	st.sm.Push()
	return st
}

// GetRawStorage returns the raw rlp encoded storage value of the given slot.
func (s *State) GetRawStorage(addr gaslink.Address, key gaslink.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v.(rlp.RawValue), nil
}

// SetRawStorage sets the raw rlp encoded storage value of the given slot.
func (s *State) SetRawStorage(addr gaslink.Address, key gaslink.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// DecodeStorage loads the raw value of the given slot and calls the decoder on it.
// The decoder receives nil for a slot that was never written.
func (s *State) DecodeStorage(addr gaslink.Address, key gaslink.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// EncodeStorage calls the encoder and stores the returned raw value into the given slot.
func (s *State) EncodeStorage(addr gaslink.Address, key gaslink.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// GetStructured decodes the storage value of the given slot into val.
// val is left untouched for a slot that was never written.
func (s *State) GetStructured(addr gaslink.Address, key gaslink.Bytes32, val interface{}) error {
	return s.DecodeStorage(addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, val)
	})
}

// SetStructured encodes val into the storage value of the given slot.
func (s *State) SetStructured(addr gaslink.Address, key gaslink.Bytes32, val interface{}) error {
	return s.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(val)
	})
}

// NewCheckpoint makes a checkpoint of current state.
// It returns the checkpoint for later revert.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts state to the given checkpoint.
func (s *State) RevertTo(checkpoint int) {
	s.sm.PopTo(checkpoint)
}

// Commit persists all uncommitted changes into the backing kv store,
// then rebases the in-memory overlay onto it.
func (s *State) Commit() error {
	batch := s.db.NewBatch()
	s.sm.Journal(func(k, v interface{}) bool {
		_ = batch.Put(k.(storageKey).persistentKey(), v.(rlp.RawValue))
		return true
	})
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
