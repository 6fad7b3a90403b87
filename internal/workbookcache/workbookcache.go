// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package workbookcache memoizes the decompressed shared-strings and
// worksheet XML blobs produced while opening an XLSX file, keyed per
// file and member. It stores raw XML bytes only: a hit replaces the
// freshly extracted blob, but the ingest path still inflates the
// archive and parses the XML on every open. It mirrors
// the teacher's spinner package's two-tier shape (a small admission-
// controlled in-memory cache in front of durable storage), swapping
// spinner's block cache for a workbook-shaped one and bigcache's
// unused on-disk half for pebble, which the teacher's go.mod already
// requires but never imports.
package workbookcache

import (
	"encoding/binary"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"
	"github.com/dgryski/go-tinylfu"
)

// Key identifies one cached blob: a workbook path plus size, mtime
// and the archive member name within it, collapsed to a single
// 64-bit xxhash.
type Key uint64

// KeyFor hashes the identifying fields of a cached member. Two opens
// of the same path at the same size and mtime produce the same key,
// so an edited-and-resaved file naturally misses the cache.
func KeyFor(path string, size int64, modTime time.Time, member string) Key {
	h := xxhash.New()
	h.WriteString(path)
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(size))
	binary.BigEndian.PutUint64(buf[8:16], uint64(modTime.UnixNano()))
	h.Write(buf[:])
	h.WriteString(member)
	return Key(h.Sum64())
}

// KeyForFile stats path and derives a Key for member within it.
func KeyForFile(path, member string) (Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return KeyFor(path, info.Size(), info.ModTime(), member), nil
}

func hashKey(k Key) uint64 { return uint64(k) }

// Cache is a two-level store: an in-memory window-TinyLFU cache of
// recently used blobs, backed by a pebble database on disk for blobs
// evicted from memory (or from a previous process).
type Cache struct {
	mem  *tinylfu.T[Key, []byte]
	disk *pebble.DB
}

// Open opens (creating if necessary) a pebble database at dir and
// wraps it with an in-memory cache holding up to memEntries blobs.
func Open(dir string, memEntries int) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	mem := tinylfu.New[Key, []byte](memEntries, memEntries*10, hashKey, tinylfu.OnEvict(func(Key, []byte) {}))
	return &Cache{mem: mem, disk: db}, nil
}

// Get returns the cached blob for key, checking memory before disk.
// A disk hit is promoted into memory.
func (c *Cache) Get(key Key) ([]byte, bool) {
	if blob, ok := c.mem.Get(key); ok {
		return blob, true
	}

	diskKey := encodeKey(key)
	val, closer, err := c.disk.Get(diskKey)
	if err != nil {
		return nil, false
	}
	blob := append([]byte(nil), val...)
	closer.Close()

	c.mem.Add(key, blob)
	return blob, true
}

// Put stores blob under key in both tiers.
func (c *Cache) Put(key Key, blob []byte) error {
	c.mem.Add(key, blob)
	return c.disk.Set(encodeKey(key), blob, pebble.Sync)
}

// Close releases the on-disk database.
func (c *Cache) Close() error {
	return c.disk.Close()
}

func encodeKey(k Key) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}
