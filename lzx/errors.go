package lzx

import (
	"errors"
	"fmt"
)

var (
	// Indicates a window size outside the supported 2^15..2^21 range.
	ErrWindowSize = errors.New("window size out of range")
	// Indicates a stream with the Intel E8 preprocessing bit set.
	ErrIntelE8 = errors.New("Intel E8 call translation is not supported")
	// Indicates a canonical Huffman length assignment that overfills its
	// decode table.
	ErrTableOverrun = errors.New("overrun while building Huffman decode table")
	// Indicates a frame that would write past the end of the window.
	ErrWindowRun = errors.New("run overflows decompression window")
	// Indicates an uncompressed block body that reads past its block budget.
	ErrBlockOverrun = errors.New("uncompressed block overruns its input")
	// Indicates a frame or block size outside the chunked framing limits.
	ErrInvalidSize = errors.New("invalid compressed frame or block size")
	// Indicates input that ran out while output bytes were still owed.
	ErrEOF = errors.New("unexpected end of input with data remaining")
	// Indicates a bit pattern that no code of the current table produces.
	ErrBadHuffmanCode = errors.New("invalid Huffman code in stream")
)

// ErrInvalidBlockType indicates a block type code not defined by the
// format.
type ErrInvalidBlockType uint32

func (err ErrInvalidBlockType) Error() string {
	return fmt.Sprintf("invalid block type %d", uint32(err))
}
