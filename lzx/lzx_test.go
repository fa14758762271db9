package lzx

import (
	"bytes"
	"testing"
)

// bitWriter builds LZX bitstreams for fixtures: 16-bit little-endian
// words, bits pushed MSB-first within each word.
type bitWriter struct {
	out []byte
	cur uint16
	n   uint
}

func (w *bitWriter) writeBits(v uint32, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		bit := v >> uint(i) & 1
		w.cur |= uint16(bit) << (15 - w.n)
		w.n++
		if w.n == 16 {
			w.out = append(w.out, byte(w.cur), byte(w.cur>>8))
			w.cur, w.n = 0, 0
		}
	}
}

func (w *bitWriter) flush() []byte {
	if w.n > 0 {
		w.out = append(w.out, byte(w.cur), byte(w.cur>>8))
		w.cur, w.n = 0, 0
	}
	return w.out
}

// writePretree emits a pretree whose only code is a single zero bit for
// sym, followed by count occurrences of that code.
func (w *bitWriter) writePretree(sym, count int) {
	for i := 0; i < 20; i++ {
		if i == sym {
			w.writeBits(1, 4)
		} else {
			w.writeBits(0, 4)
		}
	}
	for i := 0; i < count; i++ {
		w.writeBits(0, 1)
	}
}

// literalStream encodes payload as one verbatim block of literals. Every
// literal symbol gets code length 8, making the canonical code of symbol i
// equal to i.
func literalStream(payload []byte) []byte {
	w := &bitWriter{}
	w.writeBits(0, 1) // Intel E8 off
	w.writeBits(blockTypeVerbatim, 3)
	w.writeBits(uint32(len(payload))>>8, 16)
	w.writeBits(uint32(len(payload))&0xFF, 8)

	// Main tree first half: delta from 0 to 8 is pretree symbol 9.
	w.writePretree(9, 256)
	// Main tree second half: all zero, delta 0.
	w.writePretree(0, 256)
	// Length tree: all zero.
	w.writePretree(0, 249)

	for _, b := range payload {
		w.writeBits(uint32(b), 8)
	}
	return w.flush()
}

func TestNewDecoderWindowRange(t *testing.T) {
	for bits := 15; bits <= 21; bits++ {
		if _, err := NewDecoder(bits); err != nil {
			t.Errorf("window bits %d: unexpected error %v", bits, err)
		}
	}
	for _, bits := range []int{0, 14, 22} {
		if _, err := NewDecoder(bits); err != ErrWindowSize {
			t.Errorf("window bits %d: expected ErrWindowSize, got %v", bits, err)
		}
	}
}

func TestPositionTables(t *testing.T) {
	wantExtra := []byte{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4}
	for i, want := range wantExtra {
		if extraBits[i] != want {
			t.Errorf("extraBits[%d] = %d, want %d", i, extraBits[i], want)
		}
	}
	wantBase := []uint32{0, 1, 2, 3, 4, 6, 8, 12, 16, 24, 32, 48, 64, 96, 128, 192}
	for i, want := range wantBase {
		if positionBase[i] != want {
			t.Errorf("positionBase[%d] = %d, want %d", i, positionBase[i], want)
		}
	}
	base := uint32(0)
	for i := 0; i <= 51; i++ {
		if positionBase[i] != base {
			t.Errorf("positionBase[%d] = %d, want running sum %d", i, positionBase[i], base)
		}
		base += 1 << extraBits[i]
	}
}

func TestMakeDecodeTableComplete(t *testing.T) {
	// 256 codes of length 8 exactly fill a 12-bit table.
	lengths := make([]byte, maintreeMaxSymbols)
	for i := 0; i < 256; i++ {
		lengths[i] = 8
	}
	var table [(1 << maintreeTableBits) + maintreeMaxSymbols*2]uint16
	if err := makeDecodeTable(maintreeMaxSymbols, maintreeTableBits, lengths, table[:]); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	for i := 0; i < 1<<maintreeTableBits; i++ {
		if table[i] >= 256 {
			t.Fatalf("table[%d] = %d resolves to no symbol", i, table[i])
		}
		if int(table[i]) != i>>4 {
			t.Fatalf("table[%d] = %d, want canonical symbol %d", i, table[i], i>>4)
		}
	}
}

func TestMakeDecodeTableOverrun(t *testing.T) {
	// Three codes of length 1 overfill the code space.
	lengths := []byte{1, 1, 1, 0, 0, 0, 0, 0}
	var table [(1 << alignedTableBits) + alignedNumElements*2]uint16
	if err := makeDecodeTable(alignedNumElements, alignedTableBits, lengths, table[:]); err != ErrTableOverrun {
		t.Fatalf("expected ErrTableOverrun, got %v", err)
	}
}

func TestMakeDecodeTableLongCodes(t *testing.T) {
	// A 3-bit table with codes of length up to 5 exercises the overflow
	// nodes: lengths 1,2,3,4,5,5 are a complete assignment.
	lengths := []byte{1, 2, 3, 4, 5, 5, 0, 0}
	var table [(1 << 3) + 8*2]uint16
	if err := makeDecodeTable(8, 3, lengths, table[:]); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	// Symbol 0 occupies half the direct region.
	for i := 0; i < 4; i++ {
		if table[i] != 0 {
			t.Errorf("table[%d] = %d, want 0", i, table[i])
		}
	}
}

func TestBitReaderWords(t *testing.T) {
	// Words are little-endian; bits come MSB-first within each word.
	br := NewBitReader([]byte{0x34, 0x12, 0x78, 0x56})
	if got := br.ReadBits(16); got != 0x1234 {
		t.Fatalf("first word = %04X, want 1234", got)
	}
	if got := br.ReadBits(4); got != 0x5 {
		t.Fatalf("high nibble = %X, want 5", got)
	}
	if got := br.ReadBits(12); got != 0x678 {
		t.Fatalf("rest = %03X, want 678", got)
	}
}

func TestBitReaderPeek(t *testing.T) {
	br := NewBitReader([]byte{0x34, 0x12})
	if got := br.PeekBits(8); got != 0x12 {
		t.Fatalf("peek = %02X, want 12", got)
	}
	if got := br.PeekBits(8); got != 0x12 {
		t.Fatalf("second peek = %02X, want 12", got)
	}
	if got := br.ReadBits(8); got != 0x12 {
		t.Fatalf("read after peek = %02X, want 12", got)
	}
}

func TestDecompressLiterals(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	stream := literalStream(payload)

	d, err := NewDecoder(16)
	if err != nil {
		t.Fatal(err)
	}
	got, err := d.Decompress(NewBitReader(stream), len(payload), len(stream))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("decompressed %q, want %q", got, payload)
	}
}

func TestDecompressDeterminism(t *testing.T) {
	payload := bytes.Repeat([]byte{0xA5, 0x00, 0xFF, 0x42}, 64)
	stream := literalStream(payload)

	var results [][]byte
	for i := 0; i < 2; i++ {
		d, err := NewDecoder(16)
		if err != nil {
			t.Fatal(err)
		}
		got, err := d.Decompress(NewBitReader(stream), len(payload), len(stream))
		if err != nil {
			t.Fatalf("run %d: unexpected error %v", i, err)
		}
		results = append(results, got)
	}
	if !bytes.Equal(results[0], results[1]) {
		t.Fatal("repeated decompression produced different bytes")
	}
	if !bytes.Equal(results[0], payload) {
		t.Fatal("decompressed bytes do not match payload")
	}
}

func TestDecompressInvalidBlockType(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(0, 1) // Intel E8 off
	w.writeBits(0, 3) // block type 0 is invalid
	stream := w.flush()

	d, err := NewDecoder(16)
	if err != nil {
		t.Fatal(err)
	}
	_, err = d.Decompress(NewBitReader(stream), 16, len(stream))
	if _, ok := err.(ErrInvalidBlockType); !ok {
		t.Fatalf("expected ErrInvalidBlockType, got %v", err)
	}
}

func TestDecompressIntelE8(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(1, 1)
	stream := w.flush()

	d, err := NewDecoder(16)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Decompress(NewBitReader(stream), 1, len(stream)); err != ErrIntelE8 {
		t.Fatalf("expected ErrIntelE8, got %v", err)
	}
}

func TestDecompressAllFraming(t *testing.T) {
	payload := []byte("framed frame payload bytes")
	stream := literalStream(payload)

	// Explicit frame size via the 0xFF flag.
	framed := []byte{0xFF, byte(len(payload) >> 8), byte(len(payload)), byte(len(stream) >> 8), byte(len(stream))}
	framed = append(framed, stream...)

	d, err := NewDecoder(16)
	if err != nil {
		t.Fatal(err)
	}
	got, err := d.DecompressAll(framed, len(payload))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("decompressed %q, want %q", got, payload)
	}
}

func TestDecompressAllSizeLimits(t *testing.T) {
	// A 16-bit frame size of 0xFFFF is within the 0x10000 limit, so the
	// frame is decoded; its zero-filled block has the invalid block type 0.
	framed := []byte{0xFF, 0xFF, 0xFF, 0x00, 0x02}
	framed = append(framed, make([]byte, 0x200)...)

	d, err := NewDecoder(16)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.DecompressAll(framed, 0); err == nil {
		t.Fatal("expected error for 0xFFFF-byte frame of zero bytes")
	}
}

func TestDecompressUncompressedBlock(t *testing.T) {
	payload := []byte("raw uncompressed block body!")

	w := &bitWriter{}
	w.writeBits(0, 1) // Intel E8 off
	w.writeBits(blockTypeUncompressed, 3)
	w.writeBits(uint32(len(payload))>>8, 16)
	w.writeBits(uint32(len(payload))&0xFF, 8)
	stream := w.flush()

	// Byte-mode tail: R0..R2 then the literal body.
	stream = append(stream, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0)
	stream = append(stream, payload...)

	d, err := NewDecoder(16)
	if err != nil {
		t.Fatal(err)
	}
	got, err := d.Decompress(NewBitReader(stream), len(payload), len(stream))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("decompressed %q, want %q", got, payload)
	}
}
