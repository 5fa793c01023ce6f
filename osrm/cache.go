package osrm

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// Cache persists chunk responses in a badger database so repeated
// preparation runs over the same coordinates skip the network. Entries
// are keyed by a digest of the exact chunk request, so any change to
// the coordinates or the tiling produces fresh fetches.
type Cache struct {
	db *badger.DB
}

// OpenCache opens (or creates) a cache at path.
func OpenCache(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{db: db}, nil
}

// Close flushes and closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// cacheKey digests a chunk request into a fixed-size badger key.
func cacheKey(request string) []byte {
	sum := sha256.Sum256([]byte(request))

	return []byte("table:" + hex.EncodeToString(sum[:]))
}

// Get looks up the distances table cached for a chunk request. The bool
// result distinguishes a miss from an empty value.
func (c *Cache) Get(request string) ([][]*float64, bool, error) {
	var table [][]*float64
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(request))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &table)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return table, true, nil
}

// Put stores the distances table for a chunk request. Unroutable cells
// stay null in the stored JSON, round-tripping the wire form exactly.
func (c *Cache) Put(request string, table [][]*float64) error {
	buf, err := json.Marshal(table)
	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(request), buf)
	})
}
