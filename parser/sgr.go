package parser

import "github.com/vtx/vtx"

// sgrModeMap mirrors the original source's mode_map table exactly
// (including its unused index 0 and the three no-op slots at 2, 3, 6 -
// spec.md §9 flags whether 2 (faint) and 3 (italic) were meant to do
// something as an open question; this implementation preserves the
// table's literal behaviour rather than guessing).
var sgrModeMap = [9]vtx.Cell{
	0,
	vtx.AttrBold,
	0,
	0,
	vtx.AttrUnderline,
	vtx.AttrBlink,
	0,
	vtx.AttrReverse,
	vtx.AttrConcealed,
}

// dispatchSGR applies every accumulated CSI parameter as an SGR (Select
// Graphic Rendition) code, per spec.md §4.1's SGR semantics list.
func (p *Parser) dispatchSGR() {
	if p.nparams == 0 {
		p.screen.SetCurrentAttr(vtx.Clear)
		return
	}
	attr := p.screen.CurrentAttr()
	for i := 0; i < p.nparams; i++ {
		n := p.paramRaw(i)
		switch {
		case n == 0 || n == 27:
			attr = vtx.Clear
		case n >= 1 && n < 9:
			attr = attr.WithAttr(sgrModeMap[n])
		case n >= 20 && n <= 28:
			idx := n
			if idx == 22 {
				idx = 21
			}
			attr = attr.WithoutAttr(sgrModeMap[idx-20])
		case n >= 30 && n <= 37:
			attr = attr.WithFg(n - 30)
		case n == 39:
			attr = attr.WithFg(vtx.ColorDefaultFg)
		case n >= 40 && n <= 47:
			attr = attr.WithBg(n - 40)
		case n == 49:
			attr = attr.WithBg(vtx.ColorDefaultBg)
		case n >= 90 && n <= 97:
			attr = attr.WithFg(n - 90 + 8)
		case n >= 100 && n <= 107:
			attr = attr.WithBg(n - 100 + 8)
		}
	}
	p.screen.SetCurrentAttr(attr)
}
