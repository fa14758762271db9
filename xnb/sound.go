package xnb

import (
	"github.com/anaminus/parse"

	xnbfile "github.com/Odex64/xnb-utils"
)

// waveFormatSize is the only format-header size the codec accepts: a full
// WAVEFORMATEX without its own size field.
const waveFormatSize = 18

// SoundEffectReader is the content reader for PCM sound effects.
type SoundEffectReader struct{}

func (SoundEffectReader) Type() xnbfile.TypeName {
	return xnbfile.ParseTypeName("Microsoft.Xna.Framework.Content.SoundEffectReader")
}

func (SoundEffectReader) Polymorphic() bool {
	return true
}

func (SoundEffectReader) readFrom(fr *parse.BinaryReader, st *codecState) (xnbfile.Value, bool) {
	var formatSize uint32
	if fr.Number(&formatSize) {
		return nil, true
	}
	if formatSize != waveFormatSize {
		fr.Add(0, ErrUnsupportedAudioFormat(formatSize))
		return nil, true
	}

	format := make([]byte, waveFormatSize)
	if fr.Bytes(format) {
		return nil, true
	}

	var dataSize uint32
	if fr.Number(&dataSize) {
		return nil, true
	}
	data := make([]byte, dataSize)
	if fr.Bytes(data) {
		return nil, true
	}

	s := &xnbfile.SoundEffect{
		Format: format,
		Data:   data,
	}
	if fr.Number(&s.LoopStart) || fr.Number(&s.LoopLength) || fr.Number(&s.Duration) {
		return nil, true
	}
	return s, false
}

func (SoundEffectReader) writeTo(fw *parse.BinaryWriter, v xnbfile.Value, st *codecState) bool {
	s, ok := v.(*xnbfile.SoundEffect)
	if !ok {
		fw.Add(0, ErrReaderTypeMismatch)
		return true
	}
	if len(s.Format) != waveFormatSize {
		fw.Add(0, ErrUnsupportedAudioFormat(uint32(len(s.Format))))
		return true
	}

	if fw.Number(uint32(waveFormatSize)) {
		return true
	}
	if fw.Bytes(s.Format) {
		return true
	}
	if fw.Number(uint32(len(s.Data))) {
		return true
	}
	if fw.Bytes(s.Data) {
		return true
	}
	return fw.Number(s.LoopStart) || fw.Number(s.LoopLength) || fw.Number(s.Duration)
}
