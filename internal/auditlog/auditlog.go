// Package auditlog persists the public commitments a signing
// operation produces — salt, challenge, and the Ch/Cv Merkle roots —
// so a node can later answer "did I produce this signature" without
// re-deriving it, with a short-lived in-memory cache of recently
// stored records in front of the durable store.
//
// Grounded on walletConfig's LevelDB-backed persistence
// (core/wallet/config/config.go: OpenFile, Put/Get with a
// length-prefixed combined record) for the durable half, and on
// rpc.KVStore's highwayhash-keyed in-memory store
// (rpc/store.go: NewKVStore/Put/Get, TTL'd, checksum-deduplicated) for
// the fast half.
package auditlog

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/minio/highwayhash"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/sphinx-core/picnic3/log"
)

// ErrNotFound is returned by Lookup when no record exists for a digest.
var ErrNotFound = errors.New("auditlog: record not found")

// Record is the public commitment trail for one signing operation:
// enough to recognize the signature again, never enough to forge one.
type Record struct {
	Salt      []byte
	Challenge []byte
	ChRoot    []byte
	CvRoot    []byte
	CreatedAt int64
}

func (r *Record) encode() []byte {
	var buf bytes.Buffer
	writeField := func(b []byte) {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
		buf.Write(lenBuf[:])
		buf.Write(b)
	}
	writeField(r.Salt)
	writeField(r.Challenge)
	writeField(r.ChRoot)
	writeField(r.CvRoot)
	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], uint64(r.CreatedAt))
	buf.Write(tsBuf[:])
	return buf.Bytes()
}

func decodeRecord(data []byte) (*Record, error) {
	readField := func() ([]byte, error) {
		if len(data) < 4 {
			return nil, fmt.Errorf("auditlog: truncated record")
		}
		n := binary.LittleEndian.Uint32(data[:4])
		data = data[4:]
		if uint32(len(data)) < n {
			return nil, fmt.Errorf("auditlog: truncated record field")
		}
		field := data[:n]
		data = data[n:]
		return field, nil
	}
	r := &Record{}
	var err error
	if r.Salt, err = readField(); err != nil {
		return nil, err
	}
	if r.Challenge, err = readField(); err != nil {
		return nil, err
	}
	if r.ChRoot, err = readField(); err != nil {
		return nil, err
	}
	if r.CvRoot, err = readField(); err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("auditlog: truncated record timestamp")
	}
	r.CreatedAt = int64(binary.LittleEndian.Uint64(data[:8]))
	return r, nil
}

// Log is the durable+fast combination: every Stored record goes to
// LevelDB and is also held in a highwayhash-keyed in-memory table, so
// a Lookup of a recently stored digest doesn't need a LevelDB round
// trip. Entries leave that table only through PruneRecent.
type Log struct {
	db        *leveldb.DB
	hashKey   []byte
	mu        sync.Mutex
	recent    map[[highwayhash.Size]byte]*Record
	recentTTL time.Duration
}

// Open opens (creating if absent) the LevelDB file at path and
// returns a ready Log.
func Open(path string) (*Log, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("auditlog: open %s: %w", path, err)
	}
	hashKey := make([]byte, 32)
	if _, err := rand.Read(hashKey); err != nil {
		return nil, fmt.Errorf("auditlog: generate hash key: %w", err)
	}
	return &Log{
		db:        db,
		hashKey:   hashKey,
		recent:    make(map[[highwayhash.Size]byte]*Record),
		recentTTL: 5 * time.Second,
	}, nil
}

// Close releases the underlying LevelDB handle.
func (l *Log) Close() error { return l.db.Close() }

func (l *Log) recentKey(digest []byte) ([highwayhash.Size]byte, error) {
	var key [highwayhash.Size]byte
	h, err := highwayhash.New(l.hashKey)
	if err != nil {
		return key, fmt.Errorf("auditlog: init highwayhash: %w", err)
	}
	h.Write(digest)
	copy(key[:], h.Sum(nil))
	return key, nil
}

// Store persists a record keyed by digest (cmd/picnic3 uses the
// signature's challenge digest) and refreshes the recent
// in-memory cache entry.
func (l *Log) Store(digest []byte, r *Record) error {
	if err := l.db.Put(digest, r.encode(), nil); err != nil {
		return fmt.Errorf("auditlog: store: %w", err)
	}
	key, err := l.recentKey(digest)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.recent[key] = r
	l.mu.Unlock()
	return nil
}

// Lookup returns the stored record for digest, checking the in-memory
// cache before falling back to LevelDB.
func (l *Log) Lookup(digest []byte) (*Record, error) {
	key, err := l.recentKey(digest)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	if r, ok := l.recent[key]; ok {
		l.mu.Unlock()
		return r, nil
	}
	l.mu.Unlock()

	data, err := l.db.Get(digest, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("auditlog: lookup: %w", err)
	}
	return decodeRecord(data)
}

// PruneRecent drops in-memory cache entries older than recentTTL,
// mirroring rpc.KVStore's TTL eviction. It never touches LevelDB;
// durable records are kept until the caller deletes them explicitly.
func (l *Log) PruneRecent(now int64) {
	cutoff := now - int64(l.recentTTL/time.Second)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, r := range l.recent {
		if r.CreatedAt < cutoff {
			delete(l.recent, k)
		}
	}
}

// PruneOlderThan deletes every durable record with CreatedAt before
// cutoff, matching hashtree.PruneOldLeaves' role of keeping storage
// from growing indefinitely. It logs (at DEBUG) how many records it
// removed rather than returning a count.
func (l *Log) PruneOlderThan(cutoff int64) error {
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()

	var toDelete [][]byte
	for iter.Next() {
		r, err := decodeRecord(iter.Value())
		if err != nil {
			continue
		}
		if r.CreatedAt < cutoff {
			toDelete = append(toDelete, append([]byte(nil), iter.Key()...))
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("auditlog: prune iterate: %w", err)
	}

	batch := new(leveldb.Batch)
	for _, k := range toDelete {
		batch.Delete(k)
	}
	if err := l.db.Write(batch, nil); err != nil {
		return fmt.Errorf("auditlog: prune write: %w", err)
	}
	log.Debugf("auditlog: pruned %d records older than %d", len(toDelete), cutoff)
	return nil
}
