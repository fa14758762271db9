package xnb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/anaminus/parse"
	"github.com/bkaradzic/go-lz4"

	xnbfile "github.com/Odex64/xnb-utils"
	"github.com/Odex64/xnb-utils/errors"
)

// Encoder encodes an xnbfile.Document into a stream of bytes.
type Encoder struct {
	// If Uncompressed is true, then the payload is written uncompressed
	// regardless of the target platform.
	Uncompressed bool
}

// Encode writes doc to w as an XNB file. Mobile targets (Android, iOS)
// compress the payload with LZ4; all other targets write uncompressed.
// The document's first reader entry must name the reader of its content;
// a document without reader entries gets a default table.
func (e Encoder) Encode(w io.Writer, doc *xnbfile.Document) (warn, err error) {
	if w == nil {
		return nil, errors.New("nil writer")
	}
	if doc == nil || doc.Content == nil {
		return nil, errors.New("nil document content")
	}

	var warns errors.Errors
	header := doc.Header
	if !header.TargetPlatform.Valid() {
		warns = append(warns, errUnknownTargetPlatform(byte(header.TargetPlatform)))
	}
	if !header.KnownVersion() {
		warns = append(warns, errUnknownVersion(header.Version))
	}

	reader, ok := readerFor(doc.Content)
	if !ok {
		return warns.Return(), ErrUnknownReader(doc.Content.ReaderName())
	}

	entries := doc.Readers
	if len(entries) == 0 {
		entries = []xnbfile.ReaderEntry{defaultEntry(reader)}
	}
	if !xnbfile.ParseTypeName(entries[0].TypeName).Equal(reader.Type()) {
		return warns.Return(), ErrReaderTypeMismatch
	}
	reg := Registry{}
	for _, entry := range entries {
		if err := reg.Add(entry); err != nil {
			return warns.Return(), err
		}
	}

	st := codecState{}
	var pbuf bytes.Buffer
	fw := parse.NewBinaryWriter(&pbuf)

	if writeUvarint(fw, uint32(reg.Len())) {
		return warns.Return(), encodeError(fw)
	}
	for _, entry := range reg.Entries() {
		if writeString(fw, entry.TypeName) {
			return warns.Return(), encodeError(fw)
		}
		if fw.Number(entry.Version) {
			return warns.Return(), encodeError(fw)
		}
	}

	// Shared resources: always zero.
	if writeUvarint(fw, 0) {
		return warns.Return(), encodeError(fw)
	}

	// Root payload: 1-based reader index, then the content.
	if writeUvarint(fw, 1) {
		return warns.Return(), encodeError(fw)
	}
	if reader.writeTo(fw, doc.Content, &st) {
		warns = warns.Append(st.warns...)
		return warns.Return(), encodeError(fw)
	}
	warns = warns.Append(st.warns...)

	payload := pbuf.Bytes()

	compress := !e.Uncompressed &&
		(header.TargetPlatform == xnbfile.Android || header.TargetPlatform == xnbfile.IOS)

	flags := byte(0)
	if header.HiDef {
		flags |= flagHiDef
	}
	if compress {
		flags |= flagLz4
	}

	out := make([]byte, 0, prologueSize+len(payload))
	out = append(out, xnbSig...)
	out = append(out, byte(header.TargetPlatform), header.Version, flags)
	out = append(out, 0, 0, 0, 0) // file size, back-patched

	if compress {
		out = append(out, 0, 0, 0, 0) // decompressed size, back-patched
		compressed, err := lz4.Encode(nil, payload)
		if err != nil {
			return warns.Return(), CompressionError{Cause: err}
		}
		// lz4 prepends the uncompressed length; the container carries it
		// in the prologue instead.
		out = append(out, compressed[4:]...)
		binary.LittleEndian.PutUint32(out[10:], uint32(len(payload)))
	} else {
		out = append(out, payload...)
	}
	binary.LittleEndian.PutUint32(out[6:], uint32(len(out)))

	if _, err := w.Write(out); err != nil {
		return warns.Return(), err
	}
	return warns.Return(), nil
}

// encodeError folds writer failures into a DataError carrying the payload
// offset.
func encodeError(fw *parse.BinaryWriter) error {
	if err := fw.Err(); err != nil {
		return DataError{Offset: fw.N(), Cause: err}
	}
	return nil
}
