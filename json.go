package xnbfile

import (
	"encoding/json"
	"fmt"

	"github.com/Odex64/xnb-utils/errors"
)

// jsonVersion is the version number embedded in serialized documents.
const jsonVersion = 1

// jsonDocument is the JSON shape of a Document. Content holds one of the
// jsonTexture, jsonSound, jsonItem or jsonAnimations shapes, selected by
// ContentType.
type jsonDocument struct {
	Version     int             `json:"version"`
	Header      jsonHeader      `json:"header"`
	Readers     []ReaderEntry   `json:"readers"`
	ContentType string          `json:"contentType"`
	Content     json.RawMessage `json:"content"`
}

type jsonHeader struct {
	TargetPlatform string `json:"targetPlatform"`
	FormatVersion  uint8  `json:"formatVersion"`
	HiDef          bool   `json:"hiDef"`
	Compression    string `json:"compression"`
}

type jsonTexture struct {
	SurfaceFormat int32  `json:"surfaceFormat"`
	Image         string `json:"image"`
}

type jsonSound struct {
	Audio      string `json:"audio"`
	LoopStart  int32  `json:"loopStart"`
	LoopLength int32  `json:"loopLength"`
	Duration   int32  `json:"duration"`
}

type jsonItem struct {
	FileName        string         `json:"fileName"`
	GameName        string         `json:"gameName"`
	EquipmentLayer  int32          `json:"equipmentLayer"`
	ID              string         `json:"id"`
	JacketUnderBelt bool           `json:"jacketUnderBelt"`
	CanEquip        bool           `json:"canEquip"`
	CanScript       bool           `json:"canScript"`
	ColorPalette    string         `json:"colorPalette"`
	Width           int32          `json:"width"`
	Height          int32          `json:"height"`
	Parts           []jsonItemPart `json:"parts"`
}

type jsonItemPart struct {
	Type int32 `json:"type"`

	// Layers holds one sidecar image name per layer; absent and empty
	// layers are null.
	Layers []*string `json:"layers"`
}

type jsonAnimations struct {
	Animations []Animation `json:"animations"`
}

const (
	contentTexture    = "texture2D"
	contentSound      = "soundEffect"
	contentItem       = "item"
	contentAnimations = "animations"
)

////////////////////////////////////////////////////////////////

// MarshalSidecar serializes the document to JSON, extracting binary media
// to sidecar files through emit. Sidecar names derive from basename;
// identical media blobs share one sidecar.
func (doc *Document) MarshalSidecar(basename string, emit EmitSidecar) ([]byte, error) {
	if doc.Content == nil {
		return nil, errors.New("nil document content")
	}

	sw := newSidecarWriter(emit)

	var contentType string
	var content interface{}
	switch v := doc.Content.(type) {
	case *Texture2D:
		name, err := exportImage(sw, basename+".png", v.Width, v.Height, v.Pixels)
		if err != nil {
			return nil, err
		}
		contentType = contentTexture
		content = jsonTexture{SurfaceFormat: int32(v.Format), Image: name}
	case *SoundEffect:
		name, err := sw.write(basename+".wav", buildWave(v.Format, v.Data))
		if err != nil {
			return nil, err
		}
		contentType = contentSound
		content = jsonSound{
			Audio:      name,
			LoopStart:  v.LoopStart,
			LoopLength: v.LoopLength,
			Duration:   v.Duration,
		}
	case *Item:
		j, err := exportItem(sw, basename, v)
		if err != nil {
			return nil, err
		}
		contentType = contentItem
		content = j
	case *Animations:
		contentType = contentAnimations
		content = jsonAnimations{Animations: v.List}
	default:
		return nil, fmt.Errorf("unsupported content type %T", doc.Content)
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(jsonDocument{
		Version: jsonVersion,
		Header: jsonHeader{
			TargetPlatform: string(rune(doc.Header.TargetPlatform)),
			FormatVersion:  doc.Header.Version,
			HiDef:          doc.Header.HiDef,
			Compression:    doc.Header.Compression.String(),
		},
		Readers:     doc.Readers,
		ContentType: contentType,
		Content:     raw,
	}, "", "\t")
}

func exportImage(sw *sidecarWriter, name string, width, height uint32, pixels []byte) (string, error) {
	blob, err := encodePNG(width, height, pixels)
	if err != nil {
		return "", err
	}
	return sw.write(name, blob)
}

// exportItem writes each non-empty layer as a sidecar image named
// {basename}_{partType}_{sequence}.png. Empty and absent layers stay null.
func exportItem(sw *sidecarWriter, basename string, it *Item) (jsonItem, error) {
	j := jsonItem{
		FileName:        it.FileName,
		GameName:        it.GameName,
		EquipmentLayer:  it.EquipmentLayer,
		ID:              it.ID,
		JacketUnderBelt: it.JacketUnderBelt,
		CanEquip:        it.CanEquip,
		CanScript:       it.CanScript,
		ColorPalette:    it.ColorPalette,
		Width:           it.Width,
		Height:          it.Height,
	}
	for _, part := range it.Parts {
		jp := jsonItemPart{Type: part.Type, Layers: make([]*string, len(part.Layers))}
		for i, layer := range part.Layers {
			if layer == nil || layer.Empty() {
				continue
			}
			name := fmt.Sprintf("%s_%d_%d.png", basename, part.Type, i)
			name, err := exportImage(sw, name, uint32(it.Width), uint32(it.Height), layer.Pixels)
			if err != nil {
				return jsonItem{}, err
			}
			jp.Layers[i] = &name
		}
		j.Parts = append(j.Parts, jp)
	}
	return j, nil
}

////////////////////////////////////////////////////////////////

// UnmarshalSidecar deserializes a document from JSON, reinjecting sidecar
// media through load.
func UnmarshalSidecar(b []byte, load LoadSidecar) (*Document, error) {
	var j jsonDocument
	if err := json.Unmarshal(b, &j); err != nil {
		return nil, err
	}
	if len(j.Header.TargetPlatform) != 1 {
		return nil, errors.New("invalid target platform in document header")
	}

	doc := &Document{
		Header: Header{
			TargetPlatform: TargetPlatform(j.Header.TargetPlatform[0]),
			Version:        j.Header.FormatVersion,
			HiDef:          j.Header.HiDef,
		},
		Readers: j.Readers,
	}
	switch j.Header.Compression {
	case "lzx":
		doc.Header.Compression = CompressionLzx
	case "lz4":
		doc.Header.Compression = CompressionLz4
	}

	switch j.ContentType {
	case contentTexture:
		var c jsonTexture
		if err := json.Unmarshal(j.Content, &c); err != nil {
			return nil, err
		}
		blob, err := load(c.Image)
		if err != nil {
			return nil, err
		}
		width, height, pixels, err := decodePNG(blob)
		if err != nil {
			return nil, err
		}
		doc.Content = &Texture2D{
			Format: SurfaceFormat(c.SurfaceFormat),
			Width:  width,
			Height: height,
			Pixels: pixels,
		}
	case contentSound:
		var c jsonSound
		if err := json.Unmarshal(j.Content, &c); err != nil {
			return nil, err
		}
		blob, err := load(c.Audio)
		if err != nil {
			return nil, err
		}
		format, data, err := parseWave(blob)
		if err != nil {
			return nil, err
		}
		doc.Content = &SoundEffect{
			Format:     format,
			Data:       data,
			LoopStart:  c.LoopStart,
			LoopLength: c.LoopLength,
			Duration:   c.Duration,
		}
	case contentItem:
		var c jsonItem
		if err := json.Unmarshal(j.Content, &c); err != nil {
			return nil, err
		}
		it, err := importItem(&c, load)
		if err != nil {
			return nil, err
		}
		doc.Content = it
	case contentAnimations:
		var c jsonAnimations
		if err := json.Unmarshal(j.Content, &c); err != nil {
			return nil, err
		}
		doc.Content = &Animations{List: c.Animations}
	default:
		return nil, fmt.Errorf("unsupported content type %q", j.ContentType)
	}

	return doc, nil
}

func importItem(c *jsonItem, load LoadSidecar) (*Item, error) {
	it := &Item{
		FileName:        c.FileName,
		GameName:        c.GameName,
		EquipmentLayer:  c.EquipmentLayer,
		ID:              c.ID,
		JacketUnderBelt: c.JacketUnderBelt,
		CanEquip:        c.CanEquip,
		CanScript:       c.CanScript,
		ColorPalette:    c.ColorPalette,
		Width:           c.Width,
		Height:          c.Height,
	}
	for _, jp := range c.Parts {
		part := ItemPart{Type: jp.Type, Layers: make([]*ItemLayer, len(jp.Layers))}
		for i, name := range jp.Layers {
			if name == nil {
				continue
			}
			blob, err := load(*name)
			if err != nil {
				return nil, err
			}
			width, height, pixels, err := decodePNG(blob)
			if err != nil {
				return nil, err
			}
			if width != uint32(c.Width) || height != uint32(c.Height) {
				return nil, fmt.Errorf("layer %q is %dx%d, item is %dx%d",
					*name, width, height, c.Width, c.Height)
			}
			part.Layers[i] = &ItemLayer{Pixels: pixels}
		}
		it.Parts = append(it.Parts, part)
	}
	return it, nil
}
