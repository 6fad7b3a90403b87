// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package deflate is a from-scratch decoder for the RFC 1951 DEFLATE
// format: stored, fixed-Huffman, and dynamic-Huffman blocks, with no
// external codec dependency. It decodes a raw stream (no zlib or gzip
// wrapper) entirely into memory, as fed by the ZIP reader.
package deflate

import (
	"errors"
	"fmt"

	"github.com/Felipe-Aquino/csvim/internal/bitreader"
)

// Sentinel errors, wrapped with context at each call site so callers
// can classify without string matching.
var (
	ErrFormat         = errors.New("deflate: malformed stream")
	errBadCodeLength  = fmt.Errorf("%w: invalid Huffman code lengths", ErrFormat)
	errInvalidCode    = fmt.Errorf("%w: invalid Huffman code", ErrFormat)
	errReservedBlock  = fmt.Errorf("%w: reserved block type", ErrFormat)
	errStoredLenCheck = fmt.Errorf("%w: stored block length/~length mismatch", ErrFormat)
	errBadDistance    = fmt.Errorf("%w: back-reference distance exceeds output so far", ErrFormat)
	errReservedSymbol = fmt.Errorf("%w: reserved length/distance symbol", ErrFormat)
	errTooManyLens    = fmt.Errorf("%w: code-length run overflows its alphabet", ErrFormat)
)

var fixedLitLen, fixedDist *huffmanTable

func init() {
	var err error
	fixedLitLen, err = buildHuffmanTable(fixedLitLenLengths())
	if err != nil {
		panic(err) // unreachable: the RFC 1951 fixed table is always well-formed
	}
	fixedDist, err = buildHuffmanTable(fixedDistLengths())
	if err != nil {
		panic(err)
	}
}

// Decompress decodes a raw DEFLATE stream (RFC 1951) in full, reading
// blocks until one marked final has been processed.
func Decompress(data []byte) ([]byte, error) {
	r := bitreader.New(data)
	out := make([]byte, 0, len(data)*3) // the LZ77 output window, also the back-reference source

	for {
		final, err := r.Read(1)
		if err != nil {
			return nil, fmt.Errorf("deflate: block header: %w", err)
		}
		typ, err := r.Read(2)
		if err != nil {
			return nil, fmt.Errorf("deflate: block header: %w", err)
		}

		switch typ {
		case 0:
			out, err = decodeStoredBlock(r, out)
		case 1:
			out, err = decodeHuffmanBlock(r, out, fixedLitLen, fixedDist)
		case 2:
			out, err = decodeDynamicBlock(r, out)
		default:
			err = errReservedBlock
		}
		if err != nil {
			return nil, err
		}

		if final == 1 {
			return out, nil
		}
	}
}

func decodeStoredBlock(r *bitreader.Reader, out []byte) ([]byte, error) {
	offset := r.AlignByte()
	lenBytes, err := r.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("deflate: stored block header at byte offset %d: %w", offset, err)
	}
	n := int(lenBytes[0]) | int(lenBytes[1])<<8
	nn := int(lenBytes[2]) | int(lenBytes[3])<<8
	if uint16(nn) != uint16(^uint16(n)) {
		return nil, errStoredLenCheck
	}
	if n == 0 {
		return out, nil
	}
	payload, err := r.ReadBytes(n)
	if err != nil {
		return nil, fmt.Errorf("deflate: stored block payload: %w", err)
	}
	return append(out, payload...), nil
}

func decodeDynamicBlock(r *bitreader.Reader, out []byte) ([]byte, error) {
	hlitBits, err := r.Read(5)
	if err != nil {
		return nil, fmt.Errorf("deflate: HLIT: %w", err)
	}
	hdistBits, err := r.Read(5)
	if err != nil {
		return nil, fmt.Errorf("deflate: HDIST: %w", err)
	}
	hclenBits, err := r.Read(4)
	if err != nil {
		return nil, fmt.Errorf("deflate: HCLEN: %w", err)
	}
	nlit := int(hlitBits) + 257
	ndist := int(hdistBits) + 1
	nclen := int(hclenBits) + 4

	var clLengths [19]int
	for i := 0; i < nclen; i++ {
		v, err := r.Read(3)
		if err != nil {
			return nil, fmt.Errorf("deflate: code-length alphabet: %w", err)
		}
		clLengths[codeLengthOrder[i]] = int(v)
	}
	clTable, err := buildHuffmanTable(clLengths[:])
	if err != nil {
		return nil, fmt.Errorf("deflate: code-length alphabet: %w", err)
	}

	allLens := make([]int, 0, nlit+ndist)
	for len(allLens) < nlit+ndist {
		sym, err := clTable.decode(r)
		if err != nil {
			return nil, fmt.Errorf("deflate: code-length symbol: %w", err)
		}
		switch {
		case sym <= 15:
			allLens = append(allLens, sym)
		case sym == 16:
			if len(allLens) == 0 {
				return nil, fmt.Errorf("%w: repeat-previous with no previous length", ErrFormat)
			}
			extra, err := r.Read(2)
			if err != nil {
				return nil, err
			}
			prev := allLens[len(allLens)-1]
			rep := int(extra) + 3
			if len(allLens)+rep > nlit+ndist {
				return nil, errTooManyLens
			}
			for i := 0; i < rep; i++ {
				allLens = append(allLens, prev)
			}
		case sym == 17:
			extra, err := r.Read(3)
			if err != nil {
				return nil, err
			}
			rep := int(extra) + 3
			if len(allLens)+rep > nlit+ndist {
				return nil, errTooManyLens
			}
			for i := 0; i < rep; i++ {
				allLens = append(allLens, 0)
			}
		case sym == 18:
			extra, err := r.Read(7)
			if err != nil {
				return nil, err
			}
			rep := int(extra) + 11
			if len(allLens)+rep > nlit+ndist {
				return nil, errTooManyLens
			}
			for i := 0; i < rep; i++ {
				allLens = append(allLens, 0)
			}
		default:
			return nil, errInvalidCode
		}
	}

	litLenTable, err := buildHuffmanTable(allLens[:nlit])
	if err != nil {
		return nil, fmt.Errorf("deflate: literal/length alphabet: %w", err)
	}
	distTable, err := buildHuffmanTable(allLens[nlit:])
	if err != nil {
		return nil, fmt.Errorf("deflate: distance alphabet: %w", err)
	}

	return decodeHuffmanBlock(r, out, litLenTable, distTable)
}

// decodeHuffmanBlock runs the main decode loop of spec §4.2 for a
// block whose literal/length and distance alphabets are already built
// (fixed or dynamic).
func decodeHuffmanBlock(r *bitreader.Reader, out []byte, litLen, dist *huffmanTable) ([]byte, error) {
	for {
		sym, err := litLen.decode(r)
		if err != nil {
			return nil, fmt.Errorf("deflate: literal/length symbol: %w", err)
		}

		switch {
		case sym < 256:
			out = append(out, byte(sym))
		case sym == endOfBlock:
			return out, nil
		case sym <= 285:
			idx := sym - 257
			length := lengthBase[idx]
			if n := lengthExtra[idx]; n > 0 {
				extra, err := r.Read(n)
				if err != nil {
					return nil, fmt.Errorf("deflate: length extra bits: %w", err)
				}
				length += int(extra)
			}

			distSym, err := dist.decode(r)
			if err != nil {
				return nil, fmt.Errorf("deflate: distance symbol: %w", err)
			}
			if distSym > 29 {
				return nil, errReservedSymbol
			}
			distance := distBase[distSym]
			if n := distExtra[distSym]; n > 0 {
				extra, err := r.Read(n)
				if err != nil {
					return nil, fmt.Errorf("deflate: distance extra bits: %w", err)
				}
				distance += int(extra)
			}

			if distance > len(out) {
				return nil, errBadDistance
			}

			// Element-wise copy: distance < length is legal and must
			// produce a repeating run, so a bulk copy() is wrong here.
			start := len(out) - distance
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}
		default:
			return nil, errReservedSymbol
		}
	}
}
