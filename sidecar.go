package xnbfile

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/draw"
	"image/png"

	"github.com/Odex64/xnb-utils/errors"
	"golang.org/x/crypto/blake2b"
)

// EmitSidecar stores a media blob under the suggested name and returns the
// name actually used, which is recorded in the document. Implementations
// typically write a file next to the document.
type EmitSidecar func(name string, data []byte) (string, error)

// LoadSidecar retrieves a media blob previously stored under name.
type LoadSidecar func(name string) ([]byte, error)

////////////////////////////////////////////////////////////////

// sidecarWriter deduplicates emitted media: identical blobs are stored once
// and share a name.
type sidecarWriter struct {
	emit EmitSidecar
	seen map[[32]byte]string
}

func newSidecarWriter(emit EmitSidecar) *sidecarWriter {
	return &sidecarWriter{emit: emit, seen: map[[32]byte]string{}}
}

func (w *sidecarWriter) write(name string, data []byte) (string, error) {
	sum := blake2b.Sum256(data)
	if name, ok := w.seen[sum]; ok {
		return name, nil
	}
	name, err := w.emit(name, data)
	if err != nil {
		return "", err
	}
	w.seen[sum] = name
	return name, nil
}

////////////////////////////////////////////////////////////////

// encodePNG encodes RGBA8 pixels as a PNG blob.
func encodePNG(width, height uint32, pixels []byte) ([]byte, error) {
	img := &image.NRGBA{
		Pix:    pixels,
		Stride: int(width) * 4,
		Rect:   image.Rect(0, 0, int(width), int(height)),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodePNG decodes a PNG blob into RGBA8 pixels.
func decodePNG(data []byte) (width, height uint32, pixels []byte, err error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, err
	}
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) || nrgba.Stride != b.Dx()*4 {
		converted := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(converted, converted.Bounds(), img, b.Min, draw.Src)
		nrgba = converted
	}
	return uint32(b.Dx()), uint32(b.Dy()), nrgba.Pix, nil
}

////////////////////////////////////////////////////////////////

// buildWave wraps an 18-byte WAVEFORMATEX-style header and PCM sample data
// in a RIFF/WAVE container.
func buildWave(format, data []byte) []byte {
	size := 4 + 8 + len(format) + 8 + len(data)
	out := make([]byte, 0, 8+size)
	out = append(out, "RIFF"...)
	out = appendUint32(out, uint32(size))
	out = append(out, "WAVE"...)
	out = append(out, "fmt "...)
	out = appendUint32(out, uint32(len(format)))
	out = append(out, format...)
	out = append(out, "data"...)
	out = appendUint32(out, uint32(len(data)))
	out = append(out, data...)
	return out
}

// parseWave extracts the format header and sample data from a RIFF/WAVE
// blob. 16-byte fmt chunks are widened to the 18-byte form; unknown chunks
// are skipped.
func parseWave(blob []byte) (format, data []byte, err error) {
	if len(blob) < 12 || string(blob[0:4]) != "RIFF" || string(blob[8:12]) != "WAVE" {
		return nil, nil, errors.New("not a RIFF/WAVE file")
	}

	pos := 12
	for pos+8 <= len(blob) {
		id := string(blob[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(blob[pos+4 : pos+8]))
		pos += 8
		if pos+size > len(blob) {
			return nil, nil, errors.New("truncated RIFF chunk")
		}
		switch id {
		case "fmt ":
			format = append([]byte(nil), blob[pos:pos+size]...)
			if len(format) == 16 {
				format = append(format, 0, 0) // cbSize
			}
		case "data":
			data = append([]byte(nil), blob[pos:pos+size]...)
		}
		// Chunks are word-aligned.
		pos += size + size&1
	}

	if format == nil {
		return nil, nil, errors.New("WAVE file has no fmt chunk")
	}
	if len(format) != 18 {
		return nil, nil, errors.New("unsupported WAVE format header size")
	}
	if data == nil {
		return nil, nil, errors.New("WAVE file has no data chunk")
	}
	return format, data, nil
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
