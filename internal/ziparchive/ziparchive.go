// Copyright (c) Elliot Nunn. Portions copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package ziparchive is a from-scratch reader for the classic PKZip
// layout: it locates the end-of-central-directory record, walks the
// central directory, and extracts named member files, decompressing
// DEFLATE payloads with internal/deflate. ZIP64, spanning, and
// encryption are not supported.
package ziparchive

import (
	"errors"
	"fmt"
	"os"

	"github.com/Felipe-Aquino/csvim/internal/bytereader"
	"github.com/Felipe-Aquino/csvim/internal/deflate"
)

var (
	ErrFormat       = errors.New("ziparchive: not a valid zip file")
	ErrNoEOCD       = fmt.Errorf("%w: end-of-central-directory signature not found", ErrFormat)
	ErrAlgorithm    = errors.New("ziparchive: unsupported compression method")
	ErrSizeMismatch = fmt.Errorf("%w: local header size does not match central directory", ErrFormat)
)

const (
	sigLocalFile  = "\x50\x4b\x03\x04"
	sigCentralDir = "\x50\x4b\x01\x02"
	sigEOCD       = "\x50\x4b\x05\x06"

	methodStored  = 0
	methodDeflate = 8

	eocdSearchWindow = 64 * 1024
)

// Entry is one extracted ZIP member: its UTF-8 name and decompressed
// payload.
type Entry struct {
	Name string
	Data []byte
}

// Open reads and fully extracts the ZIP archive at path.
func Open(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OpenBytes(data)
}

// OpenBytes reads and fully extracts a ZIP archive already in memory.
func OpenBytes(data []byte) ([]Entry, error) {
	eocd, err := findEOCD(data)
	if err != nil {
		return nil, err
	}

	cd := bytereader.New(data)
	cd.Seek(eocd.centralDirOffset)

	type claim struct {
		name             string
		localOffset      int64
		method           uint16
		compressedSize   int64
		uncompressedSize int64
	}
	claims := make([]claim, 0, eocd.totalEntries)

	for i := 0; i < int(eocd.totalEntries); i++ {
		sig, err := cd.ReadBytes(4)
		if err != nil {
			return nil, fmt.Errorf("ziparchive: central directory entry %d: %w", i, err)
		}
		if string(sig) != sigCentralDir {
			return nil, fmt.Errorf("%w: central directory entry %d has a bad signature", ErrFormat, i)
		}
		if _, err := cd.ReadBytes(4); err != nil { // version made by, version needed
			return nil, err
		}
		if _, err := cd.ReadU16LE(); err != nil { // general purpose flags
			return nil, err
		}
		method, err := cd.ReadU16LE()
		if err != nil {
			return nil, err
		}
		if _, err := cd.ReadBytes(4); err != nil { // mod time, mod date
			return nil, err
		}
		if _, err := cd.ReadU32LE(); err != nil { // crc32, parsed but never re-verified
			return nil, err
		}
		compSize, err := cd.ReadU32LE()
		if err != nil {
			return nil, err
		}
		uncompSize, err := cd.ReadU32LE()
		if err != nil {
			return nil, err
		}
		nameLen, err := cd.ReadU16LE()
		if err != nil {
			return nil, err
		}
		extraLen, err := cd.ReadU16LE()
		if err != nil {
			return nil, err
		}
		commentLen, err := cd.ReadU16LE()
		if err != nil {
			return nil, err
		}
		if _, err := cd.ReadBytes(8); err != nil { // disk start, internal attrs, external attrs
			return nil, err
		}
		localOffset, err := cd.ReadU32LE()
		if err != nil {
			return nil, err
		}
		name, err := cd.ReadUTF8(int(nameLen))
		if err != nil {
			return nil, fmt.Errorf("ziparchive: entry %d name: %w", i, err)
		}
		if _, err := cd.ReadBytes(int(extraLen)); err != nil {
			return nil, err
		}
		if _, err := cd.ReadBytes(int(commentLen)); err != nil {
			return nil, err
		}

		claims = append(claims, claim{
			name:             name,
			localOffset:      int64(localOffset),
			method:           method,
			compressedSize:   int64(compSize),
			uncompressedSize: int64(uncompSize),
		})
	}

	entries := make([]Entry, 0, len(claims))
	for _, c := range claims {
		lr := bytereader.New(data)
		lr.Seek(c.localOffset)

		sig, err := lr.ReadBytes(4)
		if err != nil || string(sig) != sigLocalFile {
			return nil, fmt.Errorf("%w: local file header for %q", ErrFormat, c.name)
		}
		if _, err := lr.ReadBytes(2 + 2 + 2 + 2 + 2); err != nil { // version, flags, method, time, date
			return nil, err
		}
		if _, err := lr.ReadU32LE(); err != nil { // crc32
			return nil, err
		}
		localCompSize, err := lr.ReadU32LE()
		if err != nil {
			return nil, err
		}
		if _, err := lr.ReadU32LE(); err != nil { // uncompressed size
			return nil, err
		}
		localNameLen, err := lr.ReadU16LE()
		if err != nil {
			return nil, err
		}
		localExtraLen, err := lr.ReadU16LE()
		if err != nil {
			return nil, err
		}
		if int64(localCompSize) != c.compressedSize {
			return nil, fmt.Errorf("%w: %q", ErrSizeMismatch, c.name)
		}
		if _, err := lr.ReadBytes(int(localNameLen)); err != nil {
			return nil, err
		}
		if _, err := lr.ReadBytes(int(localExtraLen)); err != nil {
			return nil, err
		}
		payload, err := lr.ReadBytes(int(c.compressedSize))
		if err != nil {
			return nil, fmt.Errorf("ziparchive: payload for %q: %w", c.name, err)
		}

		var out []byte
		switch c.method {
		case methodStored:
			out = append([]byte(nil), payload...)
		case methodDeflate:
			out, err = deflate.Decompress(payload)
			if err != nil {
				return nil, fmt.Errorf("ziparchive: inflating %q: %w", c.name, err)
			}
		default:
			return nil, fmt.Errorf("%w: %q uses method %d", ErrAlgorithm, c.name, c.method)
		}
		if int64(len(out)) != c.uncompressedSize {
			return nil, fmt.Errorf("%w: %q decompressed to %d bytes, expected %d", ErrSizeMismatch, c.name, len(out), c.uncompressedSize)
		}

		entries = append(entries, Entry{Name: c.name, Data: out})
	}

	return entries, nil
}

type eocdRecord struct {
	totalEntries     uint16
	centralDirOffset int64
}

func findEOCD(data []byte) (eocdRecord, error) {
	r := bytereader.New(data)
	floor := r.Len() - eocdSearchWindow
	if floor < 0 {
		floor = 0
	}
	r.Seek(floor)

	off, ok := r.FindSignatureReverse([]byte(sigEOCD))
	if !ok {
		return eocdRecord{}, ErrNoEOCD
	}

	r.Seek(off + 4)
	if _, err := r.ReadBytes(2 + 2); err != nil { // disk number, disk with central directory
		return eocdRecord{}, err
	}
	if _, err := r.ReadU16LE(); err != nil { // entries on this disk
		return eocdRecord{}, err
	}
	total, err := r.ReadU16LE()
	if err != nil {
		return eocdRecord{}, err
	}
	if _, err := r.ReadU32LE(); err != nil { // central directory size
		return eocdRecord{}, err
	}
	cdOffset, err := r.ReadU32LE()
	if err != nil {
		return eocdRecord{}, err
	}

	return eocdRecord{totalEntries: total, centralDirOffset: int64(cdOffset)}, nil
}

// Find returns the first extracted entry whose Name matches, or ok ==
// false.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
