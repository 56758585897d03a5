package store

import "sync"

// memoryKV is an in-process backend for tests and dry runs. Batch writes are
// applied under one lock acquisition so they are atomic with respect to
// concurrent readers.
type memoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[string(key)]
	if !ok {
		return nil, errKeyNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *memoryKV) newBatch() keyValueBatch {
	return &memoryBatch{kv: m}
}

func (m *memoryKV) close() error {
	return nil
}

type memoryOp struct {
	key, value []byte
}

type memoryBatch struct {
	kv  *memoryKV
	ops []memoryOp
}

func (mb *memoryBatch) put(key, value []byte) error {
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)
	mb.ops = append(mb.ops, memoryOp{key: k, value: v})
	return nil
}

func (mb *memoryBatch) write() error {
	mb.kv.mu.Lock()
	defer mb.kv.mu.Unlock()
	for _, op := range mb.ops {
		mb.kv.data[string(op.key)] = op.value
	}
	mb.ops = nil
	return nil
}
