package xnb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/anaminus/parse"
	"github.com/bkaradzic/go-lz4"

	xnbfile "github.com/Odex64/xnb-utils"
	"github.com/Odex64/xnb-utils/errors"
	"github.com/Odex64/xnb-utils/lzx"
)

// Decoder decodes a stream of bytes into an xnbfile.Document.
type Decoder struct{}

// Decode reads an XNB file from r and decodes it into a document. Warnings
// that do not stop decoding (unknown platform, unknown version, extra mip
// levels) are returned separately from the error.
func (d Decoder) Decode(r io.Reader) (doc *xnbfile.Document, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("nil reader")
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return d.decode(buf)
}

// Decompress reencodes a compressed XNB file as uncompressed. The file is
// decoded from r, then encoded to w without payload compression.
func (d Decoder) Decompress(w io.Writer, r io.Reader) (warn, err error) {
	doc, warn, err := d.Decode(r)
	if err != nil {
		return warn, err
	}

	ws, err := Encoder{Uncompressed: true}.Encode(w, doc)
	warn = errors.Union(warn, ws)
	return warn, err
}

// decodeError folds reader failures into a DataError carrying the payload
// offset.
func decodeError(fr *parse.BinaryReader, err error) error {
	fr.Add(0, err)
	if err := fr.Err(); err != nil {
		return DataError{Offset: fr.N(), Cause: err}
	}
	return nil
}

func (d Decoder) decode(buf []byte) (doc *xnbfile.Document, warn, err error) {
	var warns errors.Errors

	if len(buf) < 10 {
		return nil, nil, ErrTruncated
	}
	if !bytes.Equal(buf[0:3], []byte(xnbSig)) {
		return nil, nil, ErrBadMagic
	}

	header := xnbfile.Header{
		TargetPlatform: xnbfile.TargetPlatform(buf[3]),
		Version:        buf[4],
	}
	if !header.TargetPlatform.Valid() {
		warns = append(warns, errUnknownTargetPlatform(buf[3]))
	}
	if !header.KnownVersion() {
		warns = append(warns, errUnknownVersion(buf[4]))
	}

	flags := buf[5]
	header.HiDef = flags&flagHiDef != 0
	switch {
	case flags&flagLzx != 0:
		header.Compression = xnbfile.CompressionLzx
	case flags&flagLz4 != 0:
		header.Compression = xnbfile.CompressionLz4
	}

	fileSize := binary.LittleEndian.Uint32(buf[6:10])
	if int64(fileSize) != int64(len(buf)) {
		return nil, warns.Return(), ErrTruncated
	}

	var payload []byte
	switch header.Compression {
	case xnbfile.CompressionLzx:
		if len(buf) < prologueSize {
			return nil, warns.Return(), ErrTruncated
		}
		decompressedSize := binary.LittleEndian.Uint32(buf[10:prologueSize])
		dec, err := lzx.NewDecoder(lzxWindowBits)
		if err != nil {
			return nil, warns.Return(), CompressionError{Cause: err}
		}
		payload, err = dec.DecompressAll(buf[prologueSize:], int(decompressedSize))
		if err != nil {
			return nil, warns.Return(), CompressionError{Cause: err}
		}
	case xnbfile.CompressionLz4:
		if len(buf) < prologueSize {
			return nil, warns.Return(), ErrTruncated
		}
		decompressedSize := binary.LittleEndian.Uint32(buf[10:prologueSize])

		// lz4 requires the uncompressed length before the compressed data.
		compressedData := make([]byte, 4+len(buf)-prologueSize)
		binary.LittleEndian.PutUint32(compressedData, decompressedSize)
		copy(compressedData[4:], buf[prologueSize:])

		payload = make([]byte, decompressedSize)
		if _, err := lz4.Decode(payload, compressedData); err != nil {
			return nil, warns.Return(), CompressionError{Cause: err}
		}
	default:
		payload = buf[10:]
	}

	fr := parse.NewBinaryReader(bytes.NewReader(payload))
	st := codecState{}

	var readerCount uint32
	if readUvarint(fr, &readerCount) {
		return nil, warns.Return(), decodeError(fr, nil)
	}

	reg := Registry{}
	for i := uint32(0); i < readerCount; i++ {
		var entry xnbfile.ReaderEntry
		if readString(fr, &entry.TypeName) {
			return nil, warns.Return(), decodeError(fr, nil)
		}
		if fr.Number(&entry.Version) {
			return nil, warns.Return(), decodeError(fr, nil)
		}
		if err := reg.Add(entry); err != nil {
			return nil, warns.Return(), err
		}
	}

	var sharedCount uint32
	if readUvarint(fr, &sharedCount) {
		return nil, warns.Return(), decodeError(fr, nil)
	}
	if sharedCount != 0 {
		return nil, warns.Return(), ErrSharedResources
	}

	var rootIndex uint32
	if readUvarint(fr, &rootIndex) {
		return nil, warns.Return(), decodeError(fr, nil)
	}
	reader, err := reg.Resolve(rootIndex)
	if err != nil {
		return nil, warns.Return(), err
	}

	content, failed := reader.readFrom(fr, &st)
	warns = warns.Append(st.warns...)
	if failed {
		return nil, warns.Return(), decodeError(fr, nil)
	}

	doc = &xnbfile.Document{
		Header:  header,
		Readers: reg.Entries(),
		Content: content,
	}
	return doc, warns.Return(), nil
}
