package xnb

import (
	"github.com/anaminus/parse"

	xnbfile "github.com/Odex64/xnb-utils"
)

// ItemsReader is the content reader for equipment items. Layer pixels are
// palette-compressed: each pixel is a repeat flag, optionally followed by a
// palette index that loads a running color register.
type ItemsReader struct{}

func (ItemsReader) Type() xnbfile.TypeName {
	return xnbfile.ParseTypeName("SFD.Content.ItemsContentTypeReader")
}

func (ItemsReader) Polymorphic() bool {
	return true
}

func (ItemsReader) readFrom(fr *parse.BinaryReader, st *codecState) (xnbfile.Value, bool) {
	var it xnbfile.Item

	if readString(fr, &it.FileName) || readString(fr, &it.GameName) {
		return nil, true
	}
	if fr.Number(&it.EquipmentLayer) {
		return nil, true
	}
	if readString(fr, &it.ID) {
		return nil, true
	}
	if readBool(fr, &it.JacketUnderBelt) || readBool(fr, &it.CanEquip) || readBool(fr, &it.CanScript) {
		return nil, true
	}
	if readString(fr, &it.ColorPalette) {
		return nil, true
	}
	if fr.Number(&it.Width) || fr.Number(&it.Height) {
		return nil, true
	}

	var paletteLen uint8
	if fr.Number(&paletteLen) {
		return nil, true
	}
	palette := make([]xnbfile.RGBA, paletteLen)
	for i := range palette {
		if fr.Number(&palette[i].R) || fr.Number(&palette[i].G) ||
			fr.Number(&palette[i].B) || fr.Number(&palette[i].A) {
			return nil, true
		}
	}

	var partCount int32
	if fr.Number(&partCount) {
		return nil, true
	}
	if readSeparator(fr) {
		return nil, true
	}

	it.Parts = make([]xnbfile.ItemPart, 0, partCount)
	for p := int32(0); p < partCount; p++ {
		var part xnbfile.ItemPart
		var layerCount int32
		if fr.Number(&part.Type) || fr.Number(&layerCount) {
			return nil, true
		}

		part.Layers = make([]*xnbfile.ItemLayer, layerCount)
		for l := int32(0); l < layerCount; l++ {
			var present bool
			if readBool(fr, &present) {
				return nil, true
			}
			if present {
				layer, failed := readItemLayer(fr, palette, it.Width, it.Height)
				if failed {
					return nil, true
				}
				part.Layers[l] = layer
			}
			if readSeparator(fr) {
				return nil, true
			}
		}
		it.Parts = append(it.Parts, part)
	}

	return &it, false
}

// readItemLayer decodes one run-of-same-color pixel stream. The color
// register starts transparent.
func readItemLayer(fr *parse.BinaryReader, palette []xnbfile.RGBA, width, height int32) (*xnbfile.ItemLayer, bool) {
	pixels := make([]byte, width*height*4)
	var reg xnbfile.RGBA
	for i := int32(0); i < width*height; i++ {
		var repeat bool
		if readBool(fr, &repeat) {
			return nil, true
		}
		if !repeat {
			var index uint8
			if fr.Number(&index) {
				return nil, true
			}
			if int(index) >= len(palette) {
				fr.Add(0, errPaletteIndex{Index: index, Count: len(palette)})
				return nil, true
			}
			reg = palette[index]
		}
		pixels[i*4+0] = reg.R
		pixels[i*4+1] = reg.G
		pixels[i*4+2] = reg.B
		pixels[i*4+3] = reg.A
	}
	return &xnbfile.ItemLayer{Pixels: pixels}, false
}

func (ItemsReader) writeTo(fw *parse.BinaryWriter, v xnbfile.Value, st *codecState) bool {
	it, ok := v.(*xnbfile.Item)
	if !ok {
		fw.Add(0, ErrReaderTypeMismatch)
		return true
	}

	palette, index, err := buildPalette(it)
	if err != nil {
		fw.Add(0, err)
		return true
	}

	if writeString(fw, it.FileName) || writeString(fw, it.GameName) {
		return true
	}
	if fw.Number(it.EquipmentLayer) {
		return true
	}
	if writeString(fw, it.ID) {
		return true
	}
	if writeBool(fw, it.JacketUnderBelt) || writeBool(fw, it.CanEquip) || writeBool(fw, it.CanScript) {
		return true
	}
	if writeString(fw, it.ColorPalette) {
		return true
	}
	if fw.Number(it.Width) || fw.Number(it.Height) {
		return true
	}

	if fw.Number(uint8(len(palette))) {
		return true
	}
	for _, c := range palette {
		if fw.Number(c.R) || fw.Number(c.G) || fw.Number(c.B) || fw.Number(c.A) {
			return true
		}
	}

	if fw.Number(int32(len(it.Parts))) {
		return true
	}
	if writeSeparator(fw) {
		return true
	}

	for _, part := range it.Parts {
		if fw.Number(part.Type) || fw.Number(int32(len(part.Layers))) {
			return true
		}
		for _, layer := range part.Layers {
			if writeBool(fw, layer != nil) {
				return true
			}
			if layer != nil {
				if writeItemLayer(fw, layer, palette, index) {
					return true
				}
			}
			if writeSeparator(fw) {
				return true
			}
		}
	}

	return false
}

// writeItemLayer encodes one pixel stream against the item palette. The
// color register starts at the last palette color.
func writeItemLayer(fw *parse.BinaryWriter, layer *xnbfile.ItemLayer, palette []xnbfile.RGBA, index map[xnbfile.RGBA]uint8) bool {
	reg := palette[len(palette)-1]
	for i := 0; i+3 < len(layer.Pixels); i += 4 {
		c := xnbfile.RGBA{
			R: layer.Pixels[i+0],
			G: layer.Pixels[i+1],
			B: layer.Pixels[i+2],
			A: layer.Pixels[i+3],
		}
		if c == reg {
			if writeBool(fw, true) {
				return true
			}
			continue
		}
		idx, ok := index[c]
		if !ok {
			fw.Add(0, ErrPaletteMiss{R: c.R, G: c.G, B: c.B, A: c.A})
			return true
		}
		if writeBool(fw, false) || fw.Number(idx) {
			return true
		}
		reg = c
	}
	return false
}

// buildPalette scans every layer pixel in file order and assigns palette
// indexes by first appearance.
func buildPalette(it *xnbfile.Item) ([]xnbfile.RGBA, map[xnbfile.RGBA]uint8, error) {
	var palette []xnbfile.RGBA
	index := map[xnbfile.RGBA]uint8{}
	for _, part := range it.Parts {
		for _, layer := range part.Layers {
			if layer == nil {
				continue
			}
			for i := 0; i+3 < len(layer.Pixels); i += 4 {
				c := xnbfile.RGBA{
					R: layer.Pixels[i+0],
					G: layer.Pixels[i+1],
					B: layer.Pixels[i+2],
					A: layer.Pixels[i+3],
				}
				if _, ok := index[c]; ok {
					continue
				}
				if len(palette) >= 255 {
					return nil, nil, ErrPaletteTooLarge
				}
				index[c] = uint8(len(palette))
				palette = append(palette, c)
			}
		}
	}
	return palette, index, nil
}
