// Package lzx implements a decompressor for the LZX sliding-dictionary
// format as used by XNB content files: canonical Huffman codes, three block
// types, a three-slot repeated-offset LRU, and 16-bit little-endian word
// framing with the Intel E8 translation bit forced to zero.
package lzx

const (
	minMatch = 2

	numChars            = 256
	numPrimaryLengths   = 7
	numSecondaryLengths = 249

	pretreeNumElements = 20
	pretreeTableBits   = 6
	alignedNumElements = 8
	alignedTableBits   = 7
	maintreeMaxSymbols = numChars + 50*8
	maintreeTableBits  = 12
	lengthMaxSymbols   = numSecondaryLengths + 1
	lengthTableBits    = 12

	blockTypeVerbatim     = 1
	blockTypeAligned      = 2
	blockTypeUncompressed = 3
)

// The position-slot tables. positionBase[s] is the lowest offset encoded by
// slot s; extraBits[s] is the number of fine-offset bits carried after the
// slot.
var extraBits, positionBase = buildPositionTables()

func buildPositionTables() (eb [52]byte, pb [52]uint32) {
	j := byte(0)
	for i := 0; i <= 50; i += 2 {
		eb[i], eb[i+1] = j, j
		if i != 0 && j < 17 {
			j++
		}
	}
	base := uint32(0)
	for i := 0; i <= 51; i++ {
		pb[i] = base
		base += 1 << eb[i]
	}
	return eb, pb
}

// Decoder holds the state of one LZX stream: the sliding window, the
// repeated-offset LRU, and the four Huffman code tables. A Decoder is not
// safe for concurrent use; distinct streams need distinct Decoders.
type Decoder struct {
	windowSize uint32
	window     []byte
	windowPosn uint32

	r0, r1, r2 uint32

	mainElements uint32
	headerRead   bool

	blockType      uint32
	blockLength    uint32
	blockRemaining uint32

	pretreeLen  [pretreeNumElements]byte
	alignedLen  [alignedNumElements]byte
	maintreeLen [maintreeMaxSymbols]byte
	lengthLen   [lengthMaxSymbols]byte
	pretreeTbl  [(1 << pretreeTableBits) + pretreeNumElements*2]uint16
	alignedTbl  [(1 << alignedTableBits) + alignedNumElements*2]uint16
	maintreeTbl [(1 << maintreeTableBits) + maintreeMaxSymbols*2]uint16
	lengthTbl   [(1 << lengthTableBits) + lengthMaxSymbols*2]uint16
}

// NewDecoder constructs a decoder with a 2^windowBits byte window.
// windowBits must be in [15,21].
func NewDecoder(windowBits int) (*Decoder, error) {
	if windowBits < 15 || windowBits > 21 {
		return nil, ErrWindowSize
	}

	var posnSlots uint32
	switch windowBits {
	case 20:
		posnSlots = 42
	case 21:
		posnSlots = 50
	default:
		posnSlots = uint32(windowBits) * 2
	}

	d := &Decoder{
		windowSize:   1 << uint(windowBits),
		mainElements: numChars + posnSlots*8,
		r0:           1,
		r1:           1,
		r2:           1,
	}
	d.window = make([]byte, d.windowSize)
	return d, nil
}

// Decompress decodes one frame of frameSize bytes from the reader. The
// reader must span exactly one framed block of blockSize bytes. The decoded
// bytes are drawn from the rolling window, so frames continue each other's
// match context.
func (d *Decoder) Decompress(br *BitReader, frameSize, blockSize int) ([]byte, error) {
	if frameSize < 0 || uint32(frameSize) > d.windowSize {
		return nil, ErrWindowRun
	}

	if !d.headerRead {
		if br.ReadBits(1) != 0 {
			return nil, ErrIntelE8
		}
		d.headerRead = true
	}

	togo := frameSize
	for togo > 0 {
		if d.blockRemaining == 0 {
			if d.blockType == blockTypeUncompressed && d.blockLength&1 == 1 {
				br.ReadByte() // parity pad
			}
			if br.Exhausted() {
				return nil, ErrEOF
			}

			d.blockType = br.ReadBits(3)
			hi := br.ReadBits(16)
			lo := br.ReadBits(8)
			d.blockLength = hi<<8 | lo
			d.blockRemaining = d.blockLength

			switch d.blockType {
			case blockTypeAligned:
				for i := range d.alignedLen {
					d.alignedLen[i] = byte(br.ReadBits(3))
				}
				if err := makeDecodeTable(alignedNumElements, alignedTableBits, d.alignedLen[:], d.alignedTbl[:]); err != nil {
					return nil, err
				}
				if err := d.readBlockTables(br); err != nil {
					return nil, err
				}
			case blockTypeVerbatim:
				if err := d.readBlockTables(br); err != nil {
					return nil, err
				}
			case blockTypeUncompressed:
				br.ByteAlign()
				var ok bool
				if d.r0, ok = br.ReadUint32LE(); !ok {
					return nil, ErrEOF
				}
				if d.r1, ok = br.ReadUint32LE(); !ok {
					return nil, ErrEOF
				}
				if d.r2, ok = br.ReadUint32LE(); !ok {
					return nil, ErrEOF
				}
			default:
				return nil, ErrInvalidBlockType(d.blockType)
			}
		}

		thisRun := int(d.blockRemaining)
		if thisRun > togo {
			thisRun = togo
		}
		togo -= thisRun
		d.blockRemaining -= uint32(thisRun)

		d.windowPosn &= d.windowSize - 1
		if d.windowPosn+uint32(thisRun) > d.windowSize {
			return nil, ErrWindowRun
		}

		var err error
		switch d.blockType {
		case blockTypeVerbatim:
			err = d.decodeMatches(br, thisRun, false)
		case blockTypeAligned:
			err = d.decodeMatches(br, thisRun, true)
		case blockTypeUncompressed:
			err = d.decodeUncompressed(br, thisRun, blockSize)
		}
		if err != nil {
			return nil, err
		}
	}

	start := d.windowPosn
	if start == 0 {
		start = d.windowSize
	}
	if uint32(frameSize) > start {
		return nil, ErrWindowRun
	}
	out := make([]byte, frameSize)
	copy(out, d.window[start-uint32(frameSize):start])
	return out, nil
}

// readBlockTables reads the main and length trees shared by the verbatim
// and aligned block headers.
func (d *Decoder) readBlockTables(br *BitReader) error {
	if err := d.readLengths(br, d.maintreeLen[:], 0, numChars); err != nil {
		return err
	}
	if err := d.readLengths(br, d.maintreeLen[:], numChars, d.mainElements); err != nil {
		return err
	}
	if err := makeDecodeTable(d.mainElements, maintreeTableBits, d.maintreeLen[:], d.maintreeTbl[:]); err != nil {
		return err
	}
	if err := d.readLengths(br, d.lengthLen[:], 0, numSecondaryLengths); err != nil {
		return err
	}
	return makeDecodeTable(lengthMaxSymbols, lengthTableBits, d.lengthLen[:], d.lengthTbl[:])
}

// readLengths reads a run-length-coded code-length table delta. Deltas are
// relative to the table's previous contents, modulo 17.
func (d *Decoder) readLengths(br *BitReader, lengths []byte, first, last uint32) error {
	for x := range d.pretreeLen {
		d.pretreeLen[x] = byte(br.ReadBits(4))
	}
	if err := makeDecodeTable(pretreeNumElements, pretreeTableBits, d.pretreeLen[:], d.pretreeTbl[:]); err != nil {
		return err
	}

	for x := first; x < last; {
		z, err := d.readHuffSym(br, d.pretreeTbl[:], d.pretreeLen[:], pretreeNumElements, pretreeTableBits)
		if err != nil {
			return err
		}
		switch {
		case z == 17:
			y := br.ReadBits(4) + 4
			for ; y > 0 && x < last; y-- {
				lengths[x] = 0
				x++
			}
		case z == 18:
			y := br.ReadBits(5) + 20
			for ; y > 0 && x < last; y-- {
				lengths[x] = 0
				x++
			}
		case z == 19:
			y := br.ReadBits(1) + 4
			z, err = d.readHuffSym(br, d.pretreeTbl[:], d.pretreeLen[:], pretreeNumElements, pretreeTableBits)
			if err != nil {
				return err
			}
			v := int(lengths[x]) - int(z)
			if v < 0 {
				v += 17
			}
			for ; y > 0 && x < last; y-- {
				lengths[x] = byte(v)
				x++
			}
		default:
			v := int(lengths[x]) - int(z)
			if v < 0 {
				v += 17
			}
			lengths[x] = byte(v)
			x++
		}
	}
	return nil
}

// decodeMatches decodes thisRun output bytes of a verbatim or aligned
// block into the window.
func (d *Decoder) decodeMatches(br *BitReader, thisRun int, aligned bool) error {
	mask := d.windowSize - 1
	for thisRun > 0 {
		sym, err := d.readHuffSym(br, d.maintreeTbl[:], d.maintreeLen[:], d.mainElements, maintreeTableBits)
		if err != nil {
			return err
		}
		if sym < numChars {
			d.window[d.windowPosn&mask] = byte(sym)
			d.windowPosn = (d.windowPosn + 1) & mask
			thisRun--
			continue
		}

		sym -= numChars
		matchLength := int(sym & numPrimaryLengths)
		if matchLength == numPrimaryLengths {
			footer, err := d.readHuffSym(br, d.lengthTbl[:], d.lengthLen[:], lengthMaxSymbols, lengthTableBits)
			if err != nil {
				return err
			}
			matchLength += int(footer)
		}
		matchLength += minMatch

		var matchOffset uint32
		slot := sym >> 3
		switch slot {
		case 0:
			matchOffset = d.r0
		case 1:
			matchOffset = d.r1
			d.r1 = d.r0
			d.r0 = matchOffset
		case 2:
			matchOffset = d.r2
			d.r2 = d.r0
			d.r0 = matchOffset
		default:
			if aligned {
				extra := uint(extraBits[slot])
				matchOffset = positionBase[slot] - 2
				switch {
				case extra > 3:
					matchOffset += br.ReadBits(extra-3) << 3
					bits, err := d.readHuffSym(br, d.alignedTbl[:], d.alignedLen[:], alignedNumElements, alignedTableBits)
					if err != nil {
						return err
					}
					matchOffset += bits
				case extra == 3:
					bits, err := d.readHuffSym(br, d.alignedTbl[:], d.alignedLen[:], alignedNumElements, alignedTableBits)
					if err != nil {
						return err
					}
					matchOffset += bits
				case extra > 0:
					matchOffset += br.ReadBits(extra)
				default:
					matchOffset = 1
				}
			} else {
				if slot != 3 {
					matchOffset = positionBase[slot] - 2 + br.ReadBits(uint(extraBits[slot]))
				} else {
					matchOffset = 1
				}
			}
			d.r2 = d.r1
			d.r1 = d.r0
			d.r0 = matchOffset
		}

		if matchOffset == 0 || matchOffset > d.windowSize {
			return ErrBadHuffmanCode
		}

		// LZSS overlap: copy byte-wise forward, wrapping at the window
		// boundary.
		dest := d.windowPosn
		for i := uint32(0); i < uint32(matchLength); i++ {
			d.window[(dest+i)&mask] = d.window[(dest+i-matchOffset)&mask]
		}
		d.windowPosn = (d.windowPosn + uint32(matchLength)) & mask
		thisRun -= matchLength
	}
	return nil
}

// decodeUncompressed copies thisRun literal bytes from the byte stream into
// the window. blockSize bounds the frame's byte budget.
func (d *Decoder) decodeUncompressed(br *BitReader, thisRun, blockSize int) error {
	if br.BytePos()+thisRun > blockSize {
		return ErrBlockOverrun
	}
	if !br.ReadBytes(d.window[d.windowPosn : d.windowPosn+uint32(thisRun)]) {
		return ErrBlockOverrun
	}
	d.windowPosn = (d.windowPosn + uint32(thisRun)) & (d.windowSize - 1)
	return nil
}

// readHuffSym decodes one symbol: a direct table lookup for codes no longer
// than the table's index width, then a bit-by-bit walk of the overflow
// nodes stored past the leaf region.
func (d *Decoder) readHuffSym(br *BitReader, table []uint16, lengths []byte, nsyms, nbits uint32) (uint32, error) {
	br.ensure(16)
	sym := uint32(table[br.PeekBits(uint(nbits))])
	if sym >= nsyms {
		j := uint32(1) << (32 - nbits)
		for sym >= nsyms {
			if sym == emptyEntry {
				return 0, ErrBadHuffmanCode
			}
			j >>= 1
			if j == 0 {
				return 0, ErrBadHuffmanCode
			}
			sym <<= 1
			if br.buffer()&j != 0 {
				sym |= 1
			}
			if int(sym) >= len(table) {
				return 0, ErrBadHuffmanCode
			}
			sym = uint32(table[sym])
		}
	}
	br.removeBits(uint(lengths[sym]))
	return sym, nil
}
