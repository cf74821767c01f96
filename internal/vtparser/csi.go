package vtparser

// stepCSI accumulates a CSI sequence's private marker, parameters, and
// intermediates, then dispatches on the final byte. Kitty's keyboard
// protocol reuses ordinary CSI finals ('u', '~', and the letters A-S after
// a "1;modifiers" parameter pair), so it needs no separate parser state —
// only a dispatch-time distinction in internal/client's Action resolver.
func (p *Parser) stepCSI(b byte) {
	switch {
	case b == '?' || b == '<' || b == '=' || b == '>':
		if len(p.params) == 0 && !p.hasParam {
			p.private = b
			p.state = stateCSIParam
			return
		}
		p.reset()
	case b >= '0' && b <= '9':
		p.curParam = p.curParam*10 + int(b-'0')
		p.hasParam = true
		p.state = stateCSIParam
	case b == ';' || b == ':':
		p.params = append(p.params, p.curParam)
		p.curParam = 0
		p.hasParam = false
		p.state = stateCSIParam
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.finishCSI(b)
	default:
		p.reset()
	}
}

func (p *Parser) stepCSIIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		if len(p.intermediate) < 16 {
			p.intermediate = append(p.intermediate, b)
		}
	case b >= 0x40 && b <= 0x7e:
		p.finishCSI(b)
	default:
		p.reset()
	}
}

func (p *Parser) finishCSI(final byte) {
	if p.hasParam || len(p.params) == 0 {
		p.params = append(p.params, p.curParam)
	}
	if len(p.intermediate) >= maxScratch {
		p.reset()
		return
	}
	p.sink.CSIDispatch(p.params, p.intermediate, final, p.private)
	p.reset()
}

// --- OSC (Operating System Command): OSC <ps> ; <string> BEL|ST ---

func (p *Parser) stepOSC(b byte) {
	switch b {
	case 0x07: // BEL terminator
		p.finishOSC()
	case 0x1b: // possible ST (ESC \)
		p.strBuf = append(p.strBuf, b)
		// Peek handled on next byte via a small lookahead state; simplest
		// correct approach: treat ESC as a tentative terminator and let a
		// following '\\' complete it, anything else re-enters OSC string.
		p.state = stateOSCString
	case '\\':
		if len(p.strBuf) > 0 && p.strBuf[len(p.strBuf)-1] == 0x1b {
			p.strBuf = p.strBuf[:len(p.strBuf)-1]
			p.finishOSC()
			return
		}
		p.appendStrByte(b)
	default:
		p.appendStrByte(b)
	}
}

func (p *Parser) appendStrByte(b byte) {
	if len(p.strBuf) >= maxScratch {
		return // drop overflow, keep consuming until the terminator arrives
	}
	p.strBuf = append(p.strBuf, b)
}

func (p *Parser) finishOSC() {
	params := splitOSC(p.strBuf)
	p.sink.OSCDispatch(params)
	p.reset()
}

func splitOSC(buf []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, b := range buf {
		if b == ';' {
			out = append(out, buf[start:i])
			start = i + 1
		}
	}
	out = append(out, buf[start:])
	return out
}

// --- DCS (Device Control String): used here for sixel image bodies ---

func (p *Parser) stepDCSEntry(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.curParam = p.curParam*10 + int(b-'0')
		p.hasParam = true
	case b == ';':
		p.params = append(p.params, p.curParam)
		p.curParam = 0
		p.hasParam = false
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
	case b == 'q':
		// Sixel image body begins.
		if p.hasParam || len(p.params) == 0 {
			p.params = append(p.params, p.curParam)
		}
		p.dcsParams = append([]int{}, p.params...)
		p.dcsIntermediate = append([]byte{}, p.intermediate...)
		p.dcsFinal = 'q'
		p.strBuf = p.strBuf[:0]
		p.state = stateSixelBody
	case b >= 0x40 && b <= 0x7e:
		if p.hasParam || len(p.params) == 0 {
			p.params = append(p.params, p.curParam)
		}
		p.dcsParams = append([]int{}, p.params...)
		p.dcsIntermediate = append([]byte{}, p.intermediate...)
		p.dcsFinal = b
		p.strBuf = p.strBuf[:0]
		p.state = stateDCSString
	default:
		p.reset()
	}
}

func (p *Parser) stepDCSString(b byte) {
	if b == 0x1b {
		p.state = stateDCSString
		p.appendStrByte(b)
		return
	}
	if b == '\\' && len(p.strBuf) > 0 && p.strBuf[len(p.strBuf)-1] == 0x1b {
		p.strBuf = p.strBuf[:len(p.strBuf)-1]
		p.sink.DCSDispatch(p.dcsParams, p.dcsIntermediate, p.dcsFinal, p.strBuf)
		p.reset()
		return
	}
	p.appendStrByte(b)
}

// stepSixelBody accumulates a sixel image body (the DCS q ... payload)
// until ST (ESC \), then reports it via DCSDispatch with final 'q' so the
// grid can hand the raw payload to its SixelImageStore for decoding.
func (p *Parser) stepSixelBody(b byte) {
	if b == 0x1b {
		p.appendStrByte(b)
		return
	}
	if b == '\\' && len(p.strBuf) > 0 && p.strBuf[len(p.strBuf)-1] == 0x1b {
		p.strBuf = p.strBuf[:len(p.strBuf)-1]
		p.sink.DCSDispatch(p.dcsParams, p.dcsIntermediate, 'q', p.strBuf)
		p.reset()
		return
	}
	p.appendStrByte(b)
}

// --- APC (Application Program Command): used for the Kitty graphics protocol ---

func (p *Parser) stepAPC(b byte) {
	if b == 0x1b {
		p.appendStrByte(b)
		return
	}
	if b == '\\' && len(p.strBuf) > 0 && p.strBuf[len(p.strBuf)-1] == 0x1b {
		p.strBuf = p.strBuf[:len(p.strBuf)-1]
		p.sink.APCDispatch(p.strBuf)
		p.reset()
		return
	}
	p.appendStrByte(b)
}
