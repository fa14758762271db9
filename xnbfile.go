// The xnbfile package handles the decoding, encoding, and manipulation of
// XNA content binary (XNB) assets.
//
// This package can be used to work with XNB assets outside of the XNA
// content pipeline. Decoded assets begin with a Document struct. A Document
// carries the container header, the ordered table of content readers that
// were embedded in the file, and the typed root content. Every supported
// content type implements the Value interface.
//
// Documents are decoded from and encoded to the binary container format by
// the "xnb" sub-package. Documents can also be converted to and from a
// human-editable JSON form in which binary media (textures, audio) is
// extracted to sidecar files; see MarshalSidecar and UnmarshalSidecar.
package xnbfile

import (
	"fmt"
)

////////////////////////////////////////////////////////////////

// TargetPlatform identifies the platform an XNB file was built for. It is
// stored as a single lowercase ASCII character.
type TargetPlatform byte

const (
	Windows      TargetPlatform = 'w'
	WindowsPhone TargetPlatform = 'm'
	Xbox360      TargetPlatform = 'x'
	Android      TargetPlatform = 'a'
	IOS          TargetPlatform = 'i'
)

// Valid returns whether the platform is one known to the codec. Unknown
// platforms are preserved but produce a warning when decoding.
func (p TargetPlatform) Valid() bool {
	switch p {
	case Windows, WindowsPhone, Xbox360, Android, IOS:
		return true
	}
	return false
}

// String returns a readable name for the platform. If the platform is not
// valid, then the returned value will be "Invalid".
func (p TargetPlatform) String() string {
	switch p {
	case Windows:
		return "Windows"
	case WindowsPhone:
		return "WindowsPhone"
	case Xbox360:
		return "Xbox360"
	case Android:
		return "Android"
	case IOS:
		return "iOS"
	}
	return "Invalid"
}

// Compression indicates how the payload of an XNB file is compressed.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionLzx
	CompressionLz4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLzx:
		return "lzx"
	case CompressionLz4:
		return "lz4"
	}
	return "Invalid"
}

// Header is the fixed prologue of an XNB file.
type Header struct {
	// TargetPlatform is the platform character stored at offset 3.
	TargetPlatform TargetPlatform

	// Version is the XNB format version. Versions 3, 4 and 5 are known.
	Version uint8

	// HiDef indicates the HiDef graphics profile rather than Reach. The
	// flag is preserved but not interpreted.
	HiDef bool

	// Compression indicates how the payload is stored.
	Compression Compression
}

// KnownVersion returns whether the format version is one known to the
// codec. Unknown versions are preserved but produce a warning when
// decoding.
func (h Header) KnownVersion() bool {
	return h.Version == 3 || h.Version == 4 || h.Version == 5
}

////////////////////////////////////////////////////////////////

// ReaderEntry is one entry of the content reader table embedded in an XNB
// file. The reader at index 0 decodes the root content.
type ReaderEntry struct {
	// TypeName is the assembly-qualified .NET name of the reader.
	TypeName string

	// Version is the reader version number.
	Version int32
}

////////////////////////////////////////////////////////////////

// Value holds the decoded root content of an XNB file. The set of types
// implementing Value is closed; one content reader exists per type.
type Value interface {
	// ReaderName returns the unqualified .NET type name of the content
	// reader that encodes the value.
	ReaderName() string

	// Copy returns a deep copy of the value.
	Copy() Value
}

////////////////////////////////////////////////////////////////

// Document is the decoded form of an XNB file.
type Document struct {
	// Header is the container prologue.
	Header Header

	// Readers is the ordered reader table. Readers[0] names the reader of
	// the root content.
	Readers []ReaderEntry

	// Content is the decoded root content.
	Content Value
}

// Copy returns a deep copy of the document.
func (doc *Document) Copy() *Document {
	c := &Document{
		Header:  doc.Header,
		Readers: make([]ReaderEntry, len(doc.Readers)),
	}
	copy(c.Readers, doc.Readers)
	if doc.Content != nil {
		c.Content = doc.Content.Copy()
	}
	return c
}

// String implements the fmt.Stringer interface by describing the document's
// header and content type.
func (doc *Document) String() string {
	content := "none"
	if doc.Content != nil {
		content = doc.Content.ReaderName()
	}
	return fmt.Sprintf("XNB v%d %s (%s): %s",
		doc.Header.Version, doc.Header.TargetPlatform, doc.Header.Compression, content)
}
