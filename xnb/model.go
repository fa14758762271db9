package xnb

import (
	"errors"

	"github.com/anaminus/parse"
)

////////////////////////////////////////////////////////////////

// xnbSig is the signature of an XNB file.
const xnbSig = "XNB"

// prologueSize is the byte length of the fixed prologue, including the
// decompressed-size field present in compressed files.
const prologueSize = 14

// flagHiDef, flagLz4 and flagLzx are the bits of the flags byte at offset
// 5.
const (
	flagHiDef = 0x01
	flagLz4   = 0x40
	flagLzx   = 0x80
)

// lzxWindowBits selects the 64 KiB window used by XNB payloads.
const lzxWindowBits = 16

var errVarintOverflow = errors.New("7-bit encoded integer overflows 32 bits")

////////////////////////////////////////////////////////////////

// readUvarint reads a 7-bit variable-length encoded integer: seven payload
// bits per byte, least significant group first, high bit set on all but the
// final byte.
func readUvarint(fr *parse.BinaryReader, data *uint32) (failed bool) {
	if fr.Err() != nil {
		return true
	}

	var value uint32
	var shift uint
	for {
		var b uint8
		if fr.Number(&b) {
			return true
		}
		value |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift > 31 {
			fr.Add(0, errVarintOverflow)
			return true
		}
	}

	*data = value
	return false
}

func writeUvarint(fw *parse.BinaryWriter, data uint32) (failed bool) {
	if fw.Err() != nil {
		return true
	}

	for data >= 0x80 {
		if fw.Number(uint8(data&0x7F | 0x80)) {
			return true
		}
		data >>= 7
	}
	return fw.Number(uint8(data))
}

// readString reads a length-prefixed UTF-8 string. The prefix is a 7-bit
// variable-length integer counting bytes.
func readString(fr *parse.BinaryReader, data *string) (failed bool) {
	var length uint32
	if readUvarint(fr, &length) {
		return true
	}

	s := make([]byte, length)
	if fr.Bytes(s) {
		return true
	}

	*data = string(s)
	return false
}

func writeString(fw *parse.BinaryWriter, data string) (failed bool) {
	if writeUvarint(fw, uint32(len(data))) {
		return true
	}
	return fw.Bytes([]byte(data))
}

// readBool reads a single-byte boolean.
func readBool(fr *parse.BinaryReader, data *bool) (failed bool) {
	var b uint8
	if fr.Number(&b) {
		return true
	}
	*data = b != 0
	return false
}

func writeBool(fw *parse.BinaryWriter, data bool) (failed bool) {
	var b uint8
	if data {
		b = 1
	}
	return fw.Number(b)
}

// readSeparator consumes the '\n' record separator used by the SFD
// payloads.
func readSeparator(fr *parse.BinaryReader) (failed bool) {
	var b uint8
	if fr.Number(&b) {
		return true
	}
	if b != '\n' {
		fr.Add(0, errSeparator(b))
		return true
	}
	return false
}

func writeSeparator(fw *parse.BinaryWriter) (failed bool) {
	return fw.Number(uint8('\n'))
}
