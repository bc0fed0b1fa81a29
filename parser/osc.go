package parser

import (
	"bytes"
	"strconv"

	"github.com/vtx/vtx"
)

// dispatchOSC parses the accumulated OSC payload "n;text" and applies
// the title-setting sequences spec.md §4.1 names; other numbers (46, 50)
// are accepted and discarded, and anything else is ignored, per spec.md.
func (p *Parser) dispatchOSC() {
	buf := p.oscBuf
	p.oscBuf = nil
	if len(buf) == 0 {
		return
	}

	sep := bytes.IndexByte(buf, ';')
	var numPart, text string
	if sep < 0 {
		numPart = string(buf)
	} else {
		numPart = string(buf[:sep])
		text = string(buf[sep+1:])
	}
	n, err := strconv.Atoi(numPart)
	if err != nil {
		return
	}

	switch n {
	case 0:
		p.screen.SetTitle(text, vtx.TitleIconAndWindow)
	case 1:
		p.screen.SetTitle(text, vtx.TitleIcon)
	case 2:
		p.screen.SetTitle(text, vtx.TitleWindow)
	case 3:
		p.screen.SetTitle(text, vtx.TitleXProperty)
	case 46, 50:
		// Accepted and discarded (spec.md §4.1).
	default:
		// Ignored.
	}
}
