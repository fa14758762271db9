package lzx

// Frames in an XNB payload are chunked: each is preceded by a big-endian
// 16-bit compressed block size, optionally (flag byte 0xFF) with an
// explicit big-endian 16-bit frame size; otherwise the frame decompresses
// to 0x8000 bytes. Each frame's bitstream starts on a fresh 16-bit word.
const defaultFrameSize = 0x8000

// readSwapped16 reads a 16-bit integer stored high byte first.
func readSwapped16(data []byte) int {
	return int(data[0])<<8 | int(data[1])
}

// DecompressAll decodes a complete chunked LZX payload. sizeHint, when
// positive, preallocates the output.
func (d *Decoder) DecompressAll(data []byte, sizeHint int) ([]byte, error) {
	if sizeHint < 0 {
		sizeHint = 0
	}
	out := make([]byte, 0, sizeHint)

	pos := 0
	for pos < len(data) {
		frameSize := defaultFrameSize
		var blockSize int
		if data[pos] == 0xFF {
			if pos+5 > len(data) {
				return nil, ErrEOF
			}
			frameSize = readSwapped16(data[pos+1:])
			blockSize = readSwapped16(data[pos+3:])
			pos += 5
		} else {
			if pos+2 > len(data) {
				return nil, ErrEOF
			}
			blockSize = readSwapped16(data[pos:])
			pos += 2
		}

		if blockSize == 0 || frameSize == 0 {
			break
		}
		if blockSize > 0x10000 || frameSize > 0x10000 {
			return nil, ErrInvalidSize
		}
		if pos+blockSize > len(data) {
			return nil, ErrEOF
		}

		frame, err := d.Decompress(NewBitReader(data[pos:pos+blockSize]), frameSize, blockSize)
		if err != nil {
			return nil, err
		}
		out = append(out, frame...)
		pos += blockSize
	}
	return out, nil
}
