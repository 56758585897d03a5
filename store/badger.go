package store

import (
	stderrors "errors"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// badgerKV backs the store with a BadgerDB database.
type badgerKV struct {
	db *badger.DB
}

func openBadger(path string, readOnly bool) (keyValueStore, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(readOnly).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger database %s", path)
	}
	return &badgerKV{db: db}, nil
}

func (b *badgerKV) get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (b *badgerKV) newBatch() keyValueBatch {
	return &badgerBatch{wb: b.db.NewWriteBatch()}
}

func (b *badgerKV) close() error {
	return b.db.Close()
}

// badgerBatch buffers writes through badger's WriteBatch. Flush may split a
// large batch across several transactions, so atomicity is weaker here than on
// the other backends. Entries are applied in insertion order and WriteBlocks
// inserts the head pointer last, so a crash mid-flush leaves the head at a
// fully persisted block.
type badgerBatch struct {
	wb *badger.WriteBatch
}

func (bb *badgerBatch) put(key, value []byte) error {
	return bb.wb.Set(key, value)
}

func (bb *badgerBatch) write() error {
	return errors.Wrap(bb.wb.Flush(), "flush badger write batch")
}
