package xnbfile

import (
	"strings"
)

// SurfaceFormat identifies the pixel format of a Texture2D as stored on
// disk.
type SurfaceFormat int32

const (
	FormatColor SurfaceFormat = 0
	FormatEct1  SurfaceFormat = 2
	FormatDxt1  SurfaceFormat = 4
	FormatDxt3  SurfaceFormat = 5
	FormatDxt5  SurfaceFormat = 6
)

// String returns a string representation of the format. If the format is
// not valid, then the returned value will be "Invalid".
func (f SurfaceFormat) String() string {
	switch f {
	case FormatColor:
		return "Color"
	case FormatEct1:
		return "Ect1"
	case FormatDxt1:
		return "Dxt1"
	case FormatDxt3:
		return "Dxt3"
	case FormatDxt5:
		return "Dxt5"
	}
	return "Invalid"
}

////////////////////////////////////////////////////////////////

// Texture2D is a decoded two-dimensional texture. Pixels is mip level 0 in
// RGBA8 order with straight (non-premultiplied) alpha; premultiplication is
// applied by the container codec when encoding and removed when decoding.
type Texture2D struct {
	Format SurfaceFormat
	Width  uint32
	Height uint32
	Pixels []byte
}

func (t *Texture2D) ReaderName() string {
	return "Microsoft.Xna.Framework.Content.Texture2DReader"
}

func (t *Texture2D) Copy() Value {
	c := *t
	c.Pixels = append([]byte(nil), t.Pixels...)
	return &c
}

////////////////////////////////////////////////////////////////

// SoundEffect is a decoded PCM sound effect.
type SoundEffect struct {
	// Format is the WAVEFORMATEX structure without its leading size field.
	// It is always 18 bytes.
	Format []byte

	// Data is the raw sample data.
	Data []byte

	LoopStart  int32
	LoopLength int32
	Duration   int32
}

func (s *SoundEffect) ReaderName() string {
	return "Microsoft.Xna.Framework.Content.SoundEffectReader"
}

func (s *SoundEffect) Copy() Value {
	c := *s
	c.Format = append([]byte(nil), s.Format...)
	c.Data = append([]byte(nil), s.Data...)
	return &c
}

////////////////////////////////////////////////////////////////

// RGBA is one palette color of an Item.
type RGBA struct {
	R, G, B, A uint8
}

// Item is a decoded equipment item: layered sprite art compressed against a
// dynamic color palette.
type Item struct {
	FileName        string
	GameName        string
	EquipmentLayer  int32
	ID              string
	JacketUnderBelt bool
	CanEquip        bool
	CanScript       bool
	ColorPalette    string
	Width           int32
	Height          int32

	// Parts holds the item's sprite parts, each with a set of optional
	// image layers.
	Parts []ItemPart
}

// ItemPart is one sprite part of an Item.
type ItemPart struct {
	// Type is the part slot identifier.
	Type int32

	// Layers holds the part's image layers. A nil layer was not present in
	// the file.
	Layers []*ItemLayer
}

// ItemLayer is a single image layer of an item part, as RGBA8 pixels of the
// item's Width and Height.
type ItemLayer struct {
	Pixels []byte
}

// Empty returns whether the layer has no pixel with a nonzero alpha.
func (l *ItemLayer) Empty() bool {
	for i := 3; i < len(l.Pixels); i += 4 {
		if l.Pixels[i] != 0 {
			return false
		}
	}
	return true
}

func (it *Item) ReaderName() string {
	return "SFD.Content.ItemsContentTypeReader"
}

func (it *Item) Copy() Value {
	c := *it
	c.Parts = make([]ItemPart, len(it.Parts))
	for i, p := range it.Parts {
		cp := ItemPart{Type: p.Type, Layers: make([]*ItemLayer, len(p.Layers))}
		for j, l := range p.Layers {
			if l != nil {
				cp.Layers[j] = &ItemLayer{Pixels: append([]byte(nil), l.Pixels...)}
			}
		}
		c.Parts[i] = cp
	}
	return &c
}

////////////////////////////////////////////////////////////////

// Animations is a decoded animation set.
type Animations struct {
	List []Animation
}

// Animation is a named sequence of frames.
type Animation struct {
	Name   string
	Frames []AnimationFrame
}

// IsRecoil returns whether the animation is a recoil animation, which the
// game treats specially when blending.
func (a *Animation) IsRecoil() bool {
	return strings.Contains(a.Name, "RECOIL")
}

// AnimationFrame is one frame of an animation.
type AnimationFrame struct {
	Event      string
	Time       int32
	Collisions []AnimationCollision
	Parts      []AnimationPart
}

// AnimationCollision is a collision rectangle attached to a frame.
type AnimationCollision struct {
	ID     int32
	Width  float32
	Height float32
	X      float32
	Y      float32
}

// AnimationPart is one placed body part of a frame. The 32-bit ID packs a
// part type and a local index in groups of 50.
type AnimationPart struct {
	ID       int32
	X        float32
	Y        float32
	Rotation float32
	Flip     int32
	ScaleX   float32
	ScaleY   float32
	Postfix  string
}

// LocalID returns the part index within its type group.
func (p AnimationPart) LocalID() int32 {
	return p.ID % 50
}

// TypeID returns the part type group: ID/50 for non-negative IDs, and
// -(-ID/50 + 1) for negative IDs, so -1 through -49 give -1 and -50 through
// -99 give -2.
func (p AnimationPart) TypeID() int32 {
	if p.ID >= 0 {
		return p.ID / 50
	}
	return -(-p.ID/50 + 1)
}

func (a *Animations) ReaderName() string {
	return "SFD.Content.AnimationsContentTypeReader"
}

func (a *Animations) Copy() Value {
	c := &Animations{List: make([]Animation, len(a.List))}
	for i, anim := range a.List {
		ca := Animation{Name: anim.Name, Frames: make([]AnimationFrame, len(anim.Frames))}
		for j, f := range anim.Frames {
			cf := AnimationFrame{
				Event:      f.Event,
				Time:       f.Time,
				Collisions: append([]AnimationCollision(nil), f.Collisions...),
				Parts:      append([]AnimationPart(nil), f.Parts...),
			}
			ca.Frames[j] = cf
		}
		c.List[i] = ca
	}
	return c
}
