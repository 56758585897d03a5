package store

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// levelKV backs the store with a goleveldb database.
type levelKV struct {
	db *leveldb.DB
}

func openLevelDB(path string, readOnly bool) (keyValueStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ReadOnly: readOnly})
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb database %s", path)
	}
	return &levelKV{db: db}, nil
}

func (l *levelKV) get(key []byte) ([]byte, error) {
	val, err := l.db.Get(key, nil)
	if stderrors.Is(err, leveldb.ErrNotFound) {
		return nil, errKeyNotFound
	}
	return val, err
}

func (l *levelKV) newBatch() keyValueBatch {
	return &levelBatch{db: l.db, b: new(leveldb.Batch)}
}

func (l *levelKV) close() error {
	return l.db.Close()
}

type levelBatch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (lb *levelBatch) put(key, value []byte) error {
	lb.b.Put(key, value)
	return nil
}

func (lb *levelBatch) write() error {
	return errors.Wrap(lb.db.Write(lb.b, &opt.WriteOptions{Sync: true}), "write leveldb batch")
}
