package store

import (
	stderrors "errors"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// pebbleKV backs the store with a PebbleDB database.
type pebbleKV struct {
	db *pebble.DB
}

func openPebble(path string, readOnly bool) (keyValueStore, error) {
	db, err := pebble.Open(path, &pebble.Options{ReadOnly: readOnly})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble database %s", path)
	}
	return &pebbleKV{db: db}, nil
}

func (p *pebbleKV) get(key []byte) ([]byte, error) {
	val, closer, err := p.db.Get(key)
	if err != nil {
		if stderrors.Is(err, pebble.ErrNotFound) {
			return nil, errKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()

	// The value is only valid until closer.Close().
	result := make([]byte, len(val))
	copy(result, val)
	return result, nil
}

func (p *pebbleKV) newBatch() keyValueBatch {
	return &pebbleBatch{b: p.db.NewBatch()}
}

func (p *pebbleKV) close() error {
	return p.db.Close()
}

type pebbleBatch struct {
	b *pebble.Batch
}

func (pb *pebbleBatch) put(key, value []byte) error {
	return pb.b.Set(key, value, nil)
}

func (pb *pebbleBatch) write() error {
	defer pb.b.Close()
	return errors.Wrap(pb.b.Commit(pebble.Sync), "commit pebble batch")
}
