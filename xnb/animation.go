package xnb

import (
	"github.com/anaminus/parse"

	xnbfile "github.com/Odex64/xnb-utils"
)

// AnimationsReader is the content reader for animation sets.
type AnimationsReader struct{}

func (AnimationsReader) Type() xnbfile.TypeName {
	return xnbfile.ParseTypeName("SFD.Content.AnimationsContentTypeReader")
}

func (AnimationsReader) Polymorphic() bool {
	return true
}

func (AnimationsReader) readFrom(fr *parse.BinaryReader, st *codecState) (xnbfile.Value, bool) {
	var count int32
	if fr.Number(&count) {
		return nil, true
	}

	set := &xnbfile.Animations{List: make([]xnbfile.Animation, 0, count)}
	for i := int32(0); i < count; i++ {
		var anim xnbfile.Animation
		if readString(fr, &anim.Name) {
			return nil, true
		}

		var frameCount int32
		if fr.Number(&frameCount) {
			return nil, true
		}
		anim.Frames = make([]xnbfile.AnimationFrame, 0, frameCount)
		for f := int32(0); f < frameCount; f++ {
			frame, failed := readFrame(fr)
			if failed {
				return nil, true
			}
			anim.Frames = append(anim.Frames, frame)
		}

		if readSeparator(fr) {
			return nil, true
		}
		set.List = append(set.List, anim)
	}

	return set, false
}

func readFrame(fr *parse.BinaryReader) (frame xnbfile.AnimationFrame, failed bool) {
	if readString(fr, &frame.Event) {
		return frame, true
	}
	if fr.Number(&frame.Time) {
		return frame, true
	}

	var collisionCount int32
	if fr.Number(&collisionCount) {
		return frame, true
	}
	if collisionCount > 0 {
		frame.Collisions = make([]xnbfile.AnimationCollision, collisionCount)
	}
	for i := range frame.Collisions {
		c := &frame.Collisions[i]
		if fr.Number(&c.ID) || fr.Number(&c.Width) || fr.Number(&c.Height) ||
			fr.Number(&c.X) || fr.Number(&c.Y) {
			return frame, true
		}
	}

	var partCount int32
	if fr.Number(&partCount) {
		return frame, true
	}
	if partCount > 0 {
		frame.Parts = make([]xnbfile.AnimationPart, partCount)
	}
	for i := range frame.Parts {
		p := &frame.Parts[i]
		if fr.Number(&p.ID) || fr.Number(&p.X) || fr.Number(&p.Y) || fr.Number(&p.Rotation) {
			return frame, true
		}
		if fr.Number(&p.Flip) || fr.Number(&p.ScaleX) || fr.Number(&p.ScaleY) {
			return frame, true
		}
		if readString(fr, &p.Postfix) {
			return frame, true
		}
	}

	return frame, readSeparator(fr)
}

func (AnimationsReader) writeTo(fw *parse.BinaryWriter, v xnbfile.Value, st *codecState) bool {
	set, ok := v.(*xnbfile.Animations)
	if !ok {
		fw.Add(0, ErrReaderTypeMismatch)
		return true
	}

	if fw.Number(int32(len(set.List))) {
		return true
	}
	for _, anim := range set.List {
		if writeString(fw, anim.Name) {
			return true
		}
		if fw.Number(int32(len(anim.Frames))) {
			return true
		}
		for _, frame := range anim.Frames {
			if writeFrame(fw, frame) {
				return true
			}
		}
		if writeSeparator(fw) {
			return true
		}
	}
	return false
}

func writeFrame(fw *parse.BinaryWriter, frame xnbfile.AnimationFrame) bool {
	if writeString(fw, frame.Event) {
		return true
	}
	if fw.Number(frame.Time) {
		return true
	}

	if fw.Number(int32(len(frame.Collisions))) {
		return true
	}
	for _, c := range frame.Collisions {
		if fw.Number(c.ID) || fw.Number(c.Width) || fw.Number(c.Height) ||
			fw.Number(c.X) || fw.Number(c.Y) {
			return true
		}
	}

	if fw.Number(int32(len(frame.Parts))) {
		return true
	}
	for _, p := range frame.Parts {
		if fw.Number(p.ID) || fw.Number(p.X) || fw.Number(p.Y) || fw.Number(p.Rotation) {
			return true
		}
		if fw.Number(p.Flip) || fw.Number(p.ScaleX) || fw.Number(p.ScaleY) {
			return true
		}
		if writeString(fw, p.Postfix) {
			return true
		}
	}

	return writeSeparator(fw)
}
