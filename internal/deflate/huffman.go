// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package deflate

import "github.com/Felipe-Aquino/csvim/internal/bitreader"

const maxCodeLen = 15

// huffmanTable is a canonical Huffman decode table as described in
// spec §4.2.1: codes are generated MSB-first by the standard
// algorithm, then stored bit-reversed because the bitstream is read
// LSB-first. The key packs (length, reversed code) so codes of
// different lengths never collide.
type huffmanTable struct {
	minLen, maxLen int
	syms           map[uint32]int
}

func tableKey(length int, code uint32) uint32 {
	return uint32(length)<<16 | code
}

// reverseBits reverses the low n bits of v.
func reverseBits(v uint32, n int) uint32 {
	var out uint32
	for i := 0; i < n; i++ {
		out = out<<1 | (v & 1)
		v >>= 1
	}
	return out
}

// buildHuffmanTable runs the canonical Huffman construction of spec
// §4.2.1 over a per-symbol length vector, where lengths[i] == 0 means
// symbol i has no code. An all-zero vector produces an empty,
// always-failing table (valid for an unused distance alphabet).
func buildHuffmanTable(lengths []int) (*huffmanTable, error) {
	var count [maxCodeLen + 1]int
	minLen, maxLen := 0, 0
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if l < 0 || l > maxCodeLen {
			return nil, errBadCodeLength
		}
		count[l]++
		if minLen == 0 || l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}

	t := &huffmanTable{minLen: minLen, maxLen: maxLen, syms: make(map[uint32]int)}
	if maxLen == 0 {
		return t, nil
	}

	var nextCode [maxCodeLen + 2]int
	code := 0
	for l := 1; l <= maxLen; l++ {
		code = (code + count[l-1]) << 1
		nextCode[l] = code
	}

	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		rev := reverseBits(uint32(c), l)
		key := tableKey(l, rev)
		if _, exists := t.syms[key]; exists {
			return nil, errBadCodeLength
		}
		t.syms[key] = sym
	}
	return t, nil
}

// decode reads the next Huffman-coded symbol from r, trying candidate
// lengths from minLen to maxLen as spec §4.2.1 directs.
func (t *huffmanTable) decode(r *bitreader.Reader) (int, error) {
	if t.maxLen == 0 {
		return 0, errInvalidCode
	}
	for n := t.minLen; n <= t.maxLen; n++ {
		bits, err := r.Peek(uint(n))
		if err != nil {
			return 0, err
		}
		if sym, ok := t.syms[tableKey(n, bits)]; ok {
			r.Drop(uint(n))
			return sym, nil
		}
	}
	return 0, errInvalidCode
}
