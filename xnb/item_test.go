package xnb

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	xnbfile "github.com/Odex64/xnb-utils"
)

func testItem() *xnbfile.Item {
	// Two layers over a 2x2 canvas. The first pixel of each layer must not
	// collide with the last palette color: the writer's color register
	// starts there, while the reader's starts transparent.
	red := []byte{255, 0, 0, 255}
	blue := []byte{0, 0, 255, 255}
	clear := []byte{0, 0, 0, 0}

	layerA := append(append(append(append([]byte{}, red...), red...), blue...), clear...)
	layerB := append(append(append(append([]byte{}, blue...), blue...), blue...), red...)

	return &xnbfile.Item{
		FileName:        "ItemTest",
		GameName:        "Test Item",
		EquipmentLayer:  3,
		ID:              "TestItem",
		JacketUnderBelt: true,
		CanEquip:        true,
		CanScript:       false,
		ColorPalette:    "Skin",
		Width:           2,
		Height:          2,
		Parts: []xnbfile.ItemPart{
			{Type: 5, Layers: []*xnbfile.ItemLayer{
				{Pixels: layerA},
				nil,
			}},
			{Type: 9, Layers: []*xnbfile.ItemLayer{
				{Pixels: layerB},
			}},
		},
	}
}

func itemRoundTrip(t *testing.T, it *xnbfile.Item) *xnbfile.Item {
	t.Helper()
	doc := &xnbfile.Document{
		Header:  xnbfile.Header{TargetPlatform: xnbfile.Windows, Version: 5},
		Content: it,
	}

	var buf bytes.Buffer
	if _, err := (Encoder{}).Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	got, warn, err := Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if warn != nil {
		t.Errorf("unexpected warnings: %v", warn)
	}

	item, ok := got.Content.(*xnbfile.Item)
	if !ok {
		t.Fatalf("content is %T, want *Item", got.Content)
	}
	return item
}

func TestItemRoundTrip(t *testing.T) {
	it := testItem()
	got := itemRoundTrip(t, it)
	if !reflect.DeepEqual(got, it) {
		t.Fatalf("round trip altered the item:\ngot  %+v\nwant %+v", got, it)
	}
}

func TestItemPaletteClosure(t *testing.T) {
	// Re-encoding a decoded item reproduces the same bytes: every pixel
	// color round-trips through the palette.
	doc := &xnbfile.Document{
		Header:  xnbfile.Header{TargetPlatform: xnbfile.Windows, Version: 5},
		Content: testItem(),
	}

	var first bytes.Buffer
	if _, err := (Encoder{}).Encode(&first, doc); err != nil {
		t.Fatal(err)
	}
	decoded, _, err := Decoder{}.Decode(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	var second bytes.Buffer
	if _, err := (Encoder{}).Encode(&second, decoded); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("re-encoding a decoded item changed the bytes")
	}
}

func TestItemPaletteTooLarge(t *testing.T) {
	// A 16x16 layer with 256 distinct colors overflows the palette.
	pixels := make([]byte, 16*16*4)
	for i := 0; i < 256; i++ {
		pixels[i*4+0] = byte(i)
		pixels[i*4+1] = byte(i >> 4)
		pixels[i*4+3] = 255
	}
	it := &xnbfile.Item{
		ID:     "TooColorful",
		Width:  16,
		Height: 16,
		Parts: []xnbfile.ItemPart{
			{Type: 1, Layers: []*xnbfile.ItemLayer{{Pixels: pixels}}},
		},
	}
	doc := &xnbfile.Document{
		Header:  xnbfile.Header{TargetPlatform: xnbfile.Windows, Version: 5},
		Content: it,
	}

	var buf bytes.Buffer
	_, err := (Encoder{}).Encode(&buf, doc)
	if !errors.Is(err, ErrPaletteTooLarge) {
		t.Fatalf("expected ErrPaletteTooLarge, got %v", err)
	}
}

func TestItemLayerEmpty(t *testing.T) {
	l := &xnbfile.ItemLayer{Pixels: make([]byte, 4*4)}
	if !l.Empty() {
		t.Error("all-transparent layer is not Empty")
	}
	l.Pixels[3] = 1
	if l.Empty() {
		t.Error("layer with visible pixel is Empty")
	}
}
