package deflate

import (
	"bytes"
	"testing"
)

func TestDecompressStoredBlock(t *testing.T) {
	// final=1, type=00 (stored), then LEN=8 NLEN=~8, then "Raw Data"
	in := []byte{0x01, 0x08, 0x00, 0xF7, 0xFF, 'R', 'a', 'w', ' ', 'D', 'a', 't', 'a'}
	got, err := Decompress(in)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if want := "Raw Data"; string(got) != want {
		t.Errorf("Decompress = %q, want %q", got, want)
	}
}

func TestDecompressStoredBlockEmpty(t *testing.T) {
	in := []byte{0x01, 0x00, 0x00, 0xFF, 0xFF}
	got, err := Decompress(in)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Decompress of a zero-length stored block produced %d bytes", len(got))
	}
}

func TestDecompressFixedHuffman(t *testing.T) {
	// "Hello, Hello, Hello, Hello, zip!\n" compressed with fixed
	// Huffman codes, exercising a back-reference well past distance 1.
	in := []byte{
		243, 72, 205, 201, 201, 215, 81, 240, 192, 70, 85, 101, 22, 40, 114, 1, 0,
	}
	got, err := Decompress(in)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	want := "Hello, Hello, Hello, Hello, zip!\n"
	if string(got) != want {
		t.Errorf("Decompress = %q, want %q", got, want)
	}
}

func TestDecompressDynamicHuffman(t *testing.T) {
	in := []byte{
		213, 143, 49, 82, 68, 33, 16, 68, 115, 78, 209, 153, 137, 151, 208, 140, 196, 68, 61,
		0, 43, 243, 63, 212, 2, 67, 193, 80, 236, 191, 189, 195, 95, 215, 19, 152, 88, 53, 9,
		211, 205, 244, 107, 43, 232, 226, 154, 144, 199, 140, 18, 224, 144, 120, 34, 197, 61,
		200, 179, 121, 163, 155, 64, 66, 44, 59, 44, 174, 133, 166, 62, 232, 64, 139, 181, 170,
		127, 107, 156, 145, 15, 92, 200, 155, 151, 226, 151, 86, 238, 6, 97, 190, 158, 74, 98,
		214, 253, 81, 201, 88, 65, 162, 77, 244, 126, 151, 230, 202, 78, 136, 185, 54, 234, 61,
		114, 129, 142, 186, 3, 57, 111, 140, 197, 116, 189, 60, 41, 214, 104, 132, 25, 156, 18,
		48, 60, 155, 215, 33, 15, 10, 139, 224, 252, 125, 141, 206, 153, 78, 68, 243, 206, 42,
		156, 209, 14, 158, 168, 226, 210, 200, 73, 56, 217, 236, 111, 75, 253, 213, 70, 89, 57,
		138, 129, 81, 36, 38, 85, 191, 120, 36, 191, 82, 93, 57, 50, 55, 50, 31, 171, 204, 31,
		120, 62, 127, 132, 101, 98, 109, 192, 219, 3, 235, 63, 53, 53, 223,
	}
	want := "It started with a low light,\n" +
		"Next thing I knew they ripped from my bed\n" +
		"And then they took my blood type\n" +
		"It left a strange impression on my head\n\n" +
		"I wasn't sure what to do\n" +
		"But I knew I had to do something\n" +
		"So I took a deep breath\n" +
		"And I started to run\n\n" +
		"I ran until I couldn't anymore\n" +
		"Then I ran until I couldn't anymore\n" +
		"Then I ran until I couldn't anymore\n" +
		"Until I ran out of breath\n\n" +
		"I wasn't sure what to do\n" +
		"But I knew I had to do something\n" +
		"So I took a deep breath\n" +
		"And I started to run\n\n" +
		"I ran until I couldn't anymore\n" +
		"Then I ran until I couldn't anymore\n\n"

	got, err := Decompress(in)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(got) != want {
		t.Errorf("Decompress mismatch:\n got=%q\nwant=%q", got, want)
	}
}

func TestDecompressBackReferenceOverlap(t *testing.T) {
	// Hand-built fixed-Huffman block: literal 'a', then length 258
	// (symbol 285) at distance 1 (distance code 0), then end-of-block.
	// A bulk copy() instead of the element-wise loop would get this wrong.
	in := []byte{0x4B, 0x1C, 0x05, 0x00}
	out, err := Decompress(in)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(out) != 259 {
		t.Fatalf("len(out) = %d, want 259", len(out))
	}
	if !bytes.Equal(out, bytes.Repeat([]byte("a"), 259)) {
		t.Errorf("distance-1 run did not repeat the last byte")
	}
}

func TestReservedBlockType(t *testing.T) {
	in := []byte{0x07} // final=1, type=11 (reserved)
	if _, err := Decompress(in); err == nil {
		t.Error("Decompress of reserved block type 11 did not fail")
	}
}

