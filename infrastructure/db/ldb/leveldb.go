package ldb

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is returned by Get when a key doesn't exist
var ErrNotFound = errors.New("not found")

// LevelDB is a key/value store on disk
type LevelDB struct {
	ldb *leveldb.DB
}

// NewLevelDB opens the LevelDB store named storeName under path, creating
// it if it doesn't exist
func NewLevelDB(path string, storeName string) (*LevelDB, error) {
	dbPath := filepath.Join(path, storeName)

	// Open leveldb. If it doesn't exist, create it.
	ldb, err := leveldb.OpenFile(dbPath, Options())

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		log.Warnf("LevelDB corruption detected for path %s: %s",
			dbPath, err)
		ldb, err = leveldb.RecoverFile(dbPath, Options())
		if err != nil {
			return nil, errors.WithStack(err)
		}
		log.Warnf("LevelDB recovered from corruption for path %s",
			dbPath)
	}

	// If the database cannot be opened for any other
	// reason, return the error as-is.
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Debugf("Opened LevelDB at %s", dbPath)
	return &LevelDB{ldb: ldb}, nil
}

// Close closes the database
func (db *LevelDB) Close() error {
	return errors.WithStack(db.ldb.Close())
}

// Put sets the value for key, overwriting any previous value
func (db *LevelDB) Put(key []byte, value []byte) error {
	return errors.WithStack(db.ldb.Put(key, value, nil))
}

// Get returns the value of key. It returns an error wrapping ErrNotFound
// if key doesn't exist.
func (db *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := db.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "key %x", key)
		}
		return nil, errors.WithStack(err)
	}
	return value, nil
}

// Has returns whether key exists
func (db *LevelDB) Has(key []byte) (bool, error) {
	exists, err := db.ldb.Has(key, nil)
	return exists, errors.WithStack(err)
}

// Delete removes key. Deleting a missing key isn't an error.
func (db *LevelDB) Delete(key []byte) error {
	return errors.WithStack(db.ldb.Delete(key, nil))
}

// ForEach calls fn with every key starting with prefix, in key order. The
// slices passed to fn are only valid until it returns.
func (db *LevelDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	iterator := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iterator.Release()

	for iterator.Next() {
		err := fn(iterator.Key(), iterator.Value())
		if err != nil {
			return err
		}
	}
	return errors.WithStack(iterator.Error())
}
