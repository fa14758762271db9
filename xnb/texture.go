package xnb

import (
	"github.com/anaminus/parse"

	xnbfile "github.com/Odex64/xnb-utils"
	"github.com/Odex64/xnb-utils/internal/dxt"
)

// Texture2DReader is the content reader for two-dimensional textures.
// Pixels are premultiplied on disk; the reader converts to straight alpha
// after decoding and back before encoding.
type Texture2DReader struct{}

func (Texture2DReader) Type() xnbfile.TypeName {
	return xnbfile.ParseTypeName("Microsoft.Xna.Framework.Content.Texture2DReader")
}

func (Texture2DReader) Polymorphic() bool {
	return true
}

func (Texture2DReader) readFrom(fr *parse.BinaryReader, st *codecState) (xnbfile.Value, bool) {
	var format int32
	if fr.Number(&format) {
		return nil, true
	}

	var width, height, mipCount uint32
	if fr.Number(&width) || fr.Number(&height) || fr.Number(&mipCount) {
		return nil, true
	}
	if mipCount < 1 {
		fr.Add(0, errNoMipLevels)
		return nil, true
	}
	if mipCount > 1 {
		st.warn(errExtraMipmaps)
	}

	var dataSize uint32
	if fr.Number(&dataSize) {
		return nil, true
	}
	data := make([]byte, dataSize)
	if fr.Bytes(data) {
		return nil, true
	}

	// Only mip level 0 is retained; discard the rest.
	for i := uint32(1); i < mipCount; i++ {
		var size uint32
		if fr.Number(&size) {
			return nil, true
		}
		if fr.Bytes(make([]byte, size)) {
			return nil, true
		}
	}

	var pixels []byte
	switch xnbfile.SurfaceFormat(format) {
	case xnbfile.FormatColor:
		if uint32(len(data)) != width*height*4 {
			fr.Add(0, ErrTruncated)
			return nil, true
		}
		pixels = data
	case xnbfile.FormatDxt1, xnbfile.FormatDxt3, xnbfile.FormatDxt5:
		var err error
		pixels, err = dxt.Decompress(dxtFormat(xnbfile.SurfaceFormat(format)), int(width), int(height), data)
		if err != nil {
			fr.Add(0, err)
			return nil, true
		}
	default:
		fr.Add(0, ErrUnsupportedTextureFormat(format))
		return nil, true
	}

	unpremultiply(pixels)

	return &xnbfile.Texture2D{
		Format: xnbfile.SurfaceFormat(format),
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, false
}

func (Texture2DReader) writeTo(fw *parse.BinaryWriter, v xnbfile.Value, st *codecState) bool {
	t, ok := v.(*xnbfile.Texture2D)
	if !ok {
		fw.Add(0, ErrReaderTypeMismatch)
		return true
	}

	pixels := append([]byte(nil), t.Pixels...)
	premultiply(pixels)

	var data []byte
	switch t.Format {
	case xnbfile.FormatColor:
		data = pixels
	case xnbfile.FormatDxt1, xnbfile.FormatDxt3, xnbfile.FormatDxt5:
		var err error
		data, err = dxt.Compress(dxtFormat(t.Format), int(t.Width), int(t.Height), pixels)
		if err != nil {
			fw.Add(0, err)
			return true
		}
	default:
		fw.Add(0, ErrUnsupportedTextureFormat(int32(t.Format)))
		return true
	}

	if fw.Number(int32(t.Format)) {
		return true
	}
	if fw.Number(t.Width) || fw.Number(t.Height) {
		return true
	}
	if fw.Number(uint32(1)) { // mip count
		return true
	}
	if fw.Number(uint32(len(data))) {
		return true
	}
	return fw.Bytes(data)
}

func dxtFormat(f xnbfile.SurfaceFormat) dxt.Format {
	switch f {
	case xnbfile.FormatDxt1:
		return dxt.Dxt1
	case xnbfile.FormatDxt3:
		return dxt.Dxt3
	default:
		return dxt.Dxt5
	}
}

// unpremultiply converts premultiplied-alpha RGBA8 pixels to straight
// alpha: c' = min(255, ceil(c*255/a)).
func unpremultiply(p []byte) {
	for i := 0; i+3 < len(p); i += 4 {
		a := uint32(p[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			v := (uint32(p[i+c])*255 + a - 1) / a
			if v > 255 {
				v = 255
			}
			p[i+c] = byte(v)
		}
	}
}

// premultiply converts straight-alpha RGBA8 pixels to premultiplied alpha:
// c' = floor(c*a/255).
func premultiply(p []byte) {
	for i := 0; i+3 < len(p); i += 4 {
		a := uint32(p[i+3])
		if a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			p[i+c] = byte(uint32(p[i+c]) * a / 255)
		}
	}
}
