package xnb

import (
	"bufio"
	"fmt"
	"io"

	xnbfile "github.com/Odex64/xnb-utils"
	"github.com/Odex64/xnb-utils/errors"
)

// Dump writes to w a readable representation of the XNB file decoded from
// r.
func (d Decoder) Dump(w io.Writer, r io.Reader) (warn, err error) {
	if w == nil {
		return nil, errors.New("nil writer")
	}

	doc, warn, err := d.Decode(r)
	if err != nil {
		return warn, err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "TargetPlatform: %s (%q)", doc.Header.TargetPlatform, byte(doc.Header.TargetPlatform))
	fmt.Fprintf(bw, "\nVersion: %d", doc.Header.Version)
	fmt.Fprintf(bw, "\nHiDef: %t", doc.Header.HiDef)
	fmt.Fprintf(bw, "\nCompression: %s", doc.Header.Compression)
	fmt.Fprintf(bw, "\nReaders: (count:%d) {", len(doc.Readers))
	for i, entry := range doc.Readers {
		fmt.Fprintf(bw, "\n\t#%d: %s (version %d)", i, entry.TypeName, entry.Version)
	}
	fmt.Fprint(bw, "\n}")

	switch v := doc.Content.(type) {
	case *xnbfile.Texture2D:
		fmt.Fprintf(bw, "\nTexture2D: %dx%d %s (%d pixel bytes)", v.Width, v.Height, v.Format, len(v.Pixels))
	case *xnbfile.SoundEffect:
		fmt.Fprintf(bw, "\nSoundEffect: %d sample bytes", len(v.Data))
		fmt.Fprintf(bw, "\n\tLoopStart: %d", v.LoopStart)
		fmt.Fprintf(bw, "\n\tLoopLength: %d", v.LoopLength)
		fmt.Fprintf(bw, "\n\tDuration: %d", v.Duration)
	case *xnbfile.Item:
		fmt.Fprintf(bw, "\nItem: %q (%s) %dx%d", v.GameName, v.ID, v.Width, v.Height)
		fmt.Fprintf(bw, "\n\tParts: (count:%d) {", len(v.Parts))
		for _, part := range v.Parts {
			present := 0
			for _, layer := range part.Layers {
				if layer != nil {
					present++
				}
			}
			fmt.Fprintf(bw, "\n\t\ttype %d: %d/%d layers", part.Type, present, len(part.Layers))
		}
		fmt.Fprint(bw, "\n\t}")
	case *xnbfile.Animations:
		fmt.Fprintf(bw, "\nAnimations: (count:%d) {", len(v.List))
		for _, anim := range v.List {
			fmt.Fprintf(bw, "\n\t%q: %d frames", anim.Name, len(anim.Frames))
		}
		fmt.Fprint(bw, "\n}")
	}
	fmt.Fprintln(bw)

	return warn, bw.Flush()
}
