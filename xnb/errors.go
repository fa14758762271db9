package xnb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// Indicates an unexpected file signature.
	ErrBadMagic = errors.New("invalid XNB signature")
	// Indicates a file whose recorded size does not match its actual size,
	// or data that ends before a field is complete.
	ErrTruncated = errors.New("file is truncated")
	// Indicates a nonzero shared-resource count, which the codec does not
	// support.
	ErrSharedResources = errors.New("shared resources are not supported")
	// Indicates a document whose first reader entry does not name the
	// reader of its content.
	ErrReaderTypeMismatch = errors.New("reader table does not match content type")
	// Indicates an item whose pixels use more than 255 distinct colors.
	ErrPaletteTooLarge = errors.New("item palette exceeds 255 colors")
)

// ErrUnknownReader indicates a content reader type not known by the codec.
type ErrUnknownReader string

func (err ErrUnknownReader) Error() string {
	return fmt.Sprintf("unknown content reader %q", string(err))
}

// ErrInvalidReaderIndex indicates a reader index outside the file's reader
// table.
type ErrInvalidReaderIndex struct {
	Index uint32
	Count int
}

func (err ErrInvalidReaderIndex) Error() string {
	return fmt.Sprintf("reader index %d out of range (%d readers)", err.Index, err.Count)
}

// ErrUnsupportedTextureFormat indicates a surface format the codec cannot
// decode.
type ErrUnsupportedTextureFormat int32

func (err ErrUnsupportedTextureFormat) Error() string {
	return fmt.Sprintf("unsupported texture surface format %d", int32(err))
}

// ErrUnsupportedAudioFormat indicates a sound effect whose format header is
// not the 18-byte WAVEFORMATEX the codec supports.
type ErrUnsupportedAudioFormat uint32

func (err ErrUnsupportedAudioFormat) Error() string {
	return fmt.Sprintf("unsupported audio format header size %d", uint32(err))
}

// ErrPaletteMiss indicates a pixel color that the item encoder could not
// locate in its built palette.
type ErrPaletteMiss struct {
	R, G, B, A uint8
}

func (err ErrPaletteMiss) Error() string {
	return fmt.Sprintf("color (%d,%d,%d,%d) not present in item palette", err.R, err.G, err.B, err.A)
}

// CompressionError wraps an error that occurred while compressing or
// decompressing a payload.
type CompressionError struct {
	Cause error
}

func (err CompressionError) Error() string {
	if err.Cause == nil {
		return "compression error"
	}
	return "compression error: " + err.Cause.Error()
}

func (err CompressionError) Unwrap() error {
	return err.Cause
}

// DataError wraps an error that occurred while encoding or decoding byte
// data.
type DataError struct {
	// Offset is the byte offset within the payload where the error
	// occurred.
	Offset int64

	Cause error
}

func (err DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err DataError) Unwrap() error {
	return err.Cause
}

// errUnknownTargetPlatform is a warning for a platform character not known
// by the codec.
type errUnknownTargetPlatform byte

func (err errUnknownTargetPlatform) Error() string {
	return fmt.Sprintf("unknown target platform %q", string(rune(err)))
}

// errUnknownVersion is a warning for an XNB format version not known by the
// codec.
type errUnknownVersion uint8

func (err errUnknownVersion) Error() string {
	return fmt.Sprintf("unknown XNB format version %d", uint8(err))
}

// errExtraMipmaps is a warning for textures carrying more than one mip
// level; only level 0 is retained.
var errExtraMipmaps = errors.New("texture has multiple mip levels; keeping level 0 only")

// errNoMipLevels indicates a texture with a zero mip count.
var errNoMipLevels = errors.New("texture has no mip levels")

// errPaletteIndex indicates a layer pixel referencing a palette slot past
// the item's palette table.
type errPaletteIndex struct {
	Index uint8
	Count int
}

func (err errPaletteIndex) Error() string {
	return fmt.Sprintf("palette index %d out of range (%d colors)", err.Index, err.Count)
}

// errSeparator indicates a missing record separator in an SFD payload.
type errSeparator byte

func (err errSeparator) Error() string {
	return fmt.Sprintf("expected record separator, found byte 0x%02X", byte(err))
}
