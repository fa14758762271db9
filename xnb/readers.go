package xnb

import (
	"github.com/anaminus/parse"

	xnbfile "github.com/Odex64/xnb-utils"
	"github.com/Odex64/xnb-utils/errors"
)

////////////////////////////////////////////////////////////////

// codecState carries state shared by the content readers of one pack or
// unpack: the warning channel.
type codecState struct {
	warns errors.Errors
}

func (st *codecState) warn(err error) {
	st.warns = st.warns.Append(err)
}

////////////////////////////////////////////////////////////////

// ContentReader is the typed codec for one supported content type. The
// method set is partially unexported, which closes the set of
// implementations to this package.
type ContentReader interface {
	// Type returns the reader's .NET type name, without an assembly
	// qualifier.
	Type() xnbfile.TypeName

	// Polymorphic returns whether the reader's table index prefixes its
	// payload when the payload appears nested inside another payload.
	// The root payload is always prefixed.
	Polymorphic() bool

	readFrom(fr *parse.BinaryReader, st *codecState) (xnbfile.Value, bool)
	writeTo(fw *parse.BinaryWriter, v xnbfile.Value, st *codecState) bool
}

// contentReaders is the closed set of supported readers.
var contentReaders = []ContentReader{
	Texture2DReader{},
	SoundEffectReader{},
	ItemsReader{},
	AnimationsReader{},
}

// qualifiedNames maps each reader's unqualified type name to the
// assembly-qualified form written into new files.
var qualifiedNames = map[string]string{
	"Microsoft.Xna.Framework.Content.Texture2DReader":   "Microsoft.Xna.Framework.Content.Texture2DReader, Microsoft.Xna.Framework.Graphics, Version=4.0.0.0, Culture=neutral, PublicKeyToken=842cf8be1de50553",
	"Microsoft.Xna.Framework.Content.SoundEffectReader": "Microsoft.Xna.Framework.Content.SoundEffectReader, Microsoft.Xna.Framework, Version=4.0.0.0, Culture=neutral, PublicKeyToken=842cf8be1de50553",
	"SFD.Content.ItemsContentTypeReader":                "SFD.Content.ItemsContentTypeReader, SFD",
	"SFD.Content.AnimationsContentTypeReader":           "SFD.Content.AnimationsContentTypeReader, SFD",
}

// lookupReader resolves an assembly-qualified reader type name to one of
// the supported readers.
func lookupReader(name string) (ContentReader, bool) {
	t := xnbfile.ParseTypeName(name)
	for _, r := range contentReaders {
		if t.Equal(r.Type()) {
			return r, true
		}
	}
	return nil, false
}

// readerFor returns the reader that encodes the given value.
func readerFor(v xnbfile.Value) (ContentReader, bool) {
	return lookupReader(v.ReaderName())
}

// defaultEntry returns the reader-table entry written for a document that
// does not carry its own.
func defaultEntry(r ContentReader) xnbfile.ReaderEntry {
	name := r.Type().String()
	if q, ok := qualifiedNames[name]; ok {
		name = q
	}
	return xnbfile.ReaderEntry{TypeName: name}
}

////////////////////////////////////////////////////////////////

// Registry is the ordered content reader table embedded in one XNB file.
// The reader at index 0 decodes the root content; payload dispatch uses
// 1-based indexes.
type Registry struct {
	entries []xnbfile.ReaderEntry
	readers []ContentReader
}

// Add resolves and appends one reader-table entry, preserving order.
func (reg *Registry) Add(entry xnbfile.ReaderEntry) error {
	r, ok := lookupReader(entry.TypeName)
	if !ok {
		return ErrUnknownReader(entry.TypeName)
	}
	reg.entries = append(reg.entries, entry)
	reg.readers = append(reg.readers, r)
	return nil
}

// Len returns the number of table entries.
func (reg *Registry) Len() int {
	return len(reg.readers)
}

// Entries returns the table entries in file order.
func (reg *Registry) Entries() []xnbfile.ReaderEntry {
	return reg.entries
}

// Resolve maps a 1-based payload reader index to its reader. Index 0 is
// reserved for null payloads and is rejected here.
func (reg *Registry) Resolve(index uint32) (ContentReader, error) {
	if index < 1 || int(index) > len(reg.readers) {
		return nil, ErrInvalidReaderIndex{Index: index, Count: len(reg.readers)}
	}
	return reg.readers[index-1], nil
}

// IndexOf returns the 1-based index of the given reader, or 0 if it is not
// in the table.
func (reg *Registry) IndexOf(r ContentReader) uint32 {
	for i, have := range reg.readers {
		if have.Type().Equal(r.Type()) {
			return uint32(i + 1)
		}
	}
	return 0
}
