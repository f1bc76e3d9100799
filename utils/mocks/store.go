// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package mocks

import (
	"bytes"
	"context"
	"sort"

	"cosmossdk.io/core/store"
)

// StoreService is an in-memory store.KVStoreService for tests.
type StoreService struct {
	store *memoryStore
}

var _ store.KVStoreService = StoreService{}

// NewStoreService returns an empty in-memory store service.
func NewStoreService() StoreService {
	return StoreService{store: &memoryStore{data: make(map[string][]byte)}}
}

func (s StoreService) OpenKVStore(_ context.Context) store.KVStore {
	return s.store
}

type memoryStore struct {
	data map[string][]byte
}

var _ store.KVStore = &memoryStore{}

func (m *memoryStore) Get(key []byte) ([]byte, error) {
	value, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (m *memoryStore) Has(key []byte) (bool, error) {
	_, ok := m.data[string(key)]
	return ok, nil
}

func (m *memoryStore) Set(key, value []byte) error {
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memoryStore) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memoryStore) Iterator(start, end []byte) (store.Iterator, error) {
	return m.iterator(start, end, false), nil
}

func (m *memoryStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return m.iterator(start, end, true), nil
}

// iterator snapshots the keys within [start, end) in lexicographic order.
func (m *memoryStore) iterator(start, end []byte, reverse bool) store.Iterator {
	var keys []string
	for key := range m.data {
		bz := []byte(key)
		if start != nil && bytes.Compare(bz, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(bz, end) >= 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = append([]byte(nil), m.data[key]...)
	}

	return &memoryIterator{start: start, end: end, keys: keys, values: values}
}

type memoryIterator struct {
	start, end []byte
	keys       []string
	values     [][]byte
	index      int
}

var _ store.Iterator = &memoryIterator{}

func (it *memoryIterator) Domain() ([]byte, []byte) { return it.start, it.end }

func (it *memoryIterator) Valid() bool { return it.index < len(it.keys) }

func (it *memoryIterator) Next() { it.index++ }

func (it *memoryIterator) Key() []byte { return []byte(it.keys[it.index]) }

func (it *memoryIterator) Value() []byte { return it.values[it.index] }

func (it *memoryIterator) Error() error { return nil }

func (it *memoryIterator) Close() error { return nil }
