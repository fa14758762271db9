package xnbfile

import (
	"reflect"
	"testing"
)

func TestValueCopy(t *testing.T) {
	values := []Value{
		&Texture2D{Format: FormatColor, Width: 1, Height: 1, Pixels: []byte{1, 2, 3, 4}},
		&SoundEffect{Format: make([]byte, 18), Data: []byte{5, 6}, LoopLength: 2},
		&Item{
			ID:     "Test",
			Width:  1,
			Height: 1,
			Parts: []ItemPart{
				{Type: 3, Layers: []*ItemLayer{{Pixels: []byte{9, 9, 9, 255}}, nil}},
			},
		},
		&Animations{
			List: []Animation{
				{Name: "A", Frames: []AnimationFrame{{Time: 1, Parts: []AnimationPart{{ID: 51}}}}},
			},
		},
	}
	for _, v := range values {
		if c := v.Copy(); !reflect.DeepEqual(v, c) {
			t.Errorf("Copy of %T is not deeply equal", v)
		}
	}
}

func TestTextureCopyIsDeep(t *testing.T) {
	v := &Texture2D{Pixels: []byte{1, 2, 3, 4}}
	c := v.Copy().(*Texture2D)
	c.Pixels[0] = 99
	if v.Pixels[0] == 99 {
		t.Error("Copy shares the pixel buffer")
	}
}

func TestItemCopyIsDeep(t *testing.T) {
	v := &Item{
		Parts: []ItemPart{{Layers: []*ItemLayer{{Pixels: []byte{1, 2, 3, 4}}}}},
	}
	c := v.Copy().(*Item)
	c.Parts[0].Layers[0].Pixels[0] = 99
	if v.Parts[0].Layers[0].Pixels[0] == 99 {
		t.Error("Copy shares a layer buffer")
	}
}

func TestSurfaceFormatString(t *testing.T) {
	cases := map[SurfaceFormat]string{
		FormatColor:      "Color",
		FormatEct1:       "Ect1",
		FormatDxt1:       "Dxt1",
		FormatDxt3:       "Dxt3",
		FormatDxt5:       "Dxt5",
		SurfaceFormat(3): "Invalid",
	}
	for f, want := range cases {
		if got := f.String(); got != want {
			t.Errorf("SurfaceFormat(%d).String() = %q, want %q", f, got, want)
		}
	}
}

func TestTargetPlatform(t *testing.T) {
	for _, p := range []TargetPlatform{Windows, WindowsPhone, Xbox360, Android, IOS} {
		if !p.Valid() {
			t.Errorf("%s not valid", p)
		}
	}
	if TargetPlatform('z').Valid() {
		t.Error("'z' reported valid")
	}
}
