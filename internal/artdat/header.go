package artdat

import (
	"fmt"
	"strconv"
	"strings"

	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// Entry is a single AssetHeader row: an archive-relative name (forward
// slashes, "assets/"-prefixed) and the byte count of its payload.
type Entry struct {
	Name string
	Size uint32
}

// encodeHeader serializes entries to the engine's lightweight object
// notation: an array of objects with unquoted keys, e.g.
// [{name:"assets/a/b.txt",size:3},{name:"assets/c.bin",size:1}]
//
// This mirrors the shape produced by the "haxeformat" serializer the
// original tool calls out to (per original_source/src/command/pack.rs);
// since every AssetHeader entry has exactly the two fields above, a
// small hand-rolled codec reproduces its wire shape exactly without
// depending on the full Haxe serialization format.
func encodeHeader(entries []Entry) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("{name:")
		b.WriteString(strconv.Quote(e.Name))
		b.WriteString(",size:")
		b.WriteString(strconv.FormatUint(uint64(e.Size), 10))
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String()
}

// decodeHeader parses the notation produced by encodeHeader back into
// entries, in order.
func decodeHeader(s string) ([]Entry, error) {
	p := &headerParser{src: s}
	entries, err := p.parseArray()
	if err != nil {
		return nil, fmt.Errorf("parsing Art.dat header: %w: %v", perr.ErrMalformedInput, err)
	}
	return entries, nil
}

type headerParser struct {
	src string
	pos int
}

func (p *headerParser) parseArray() ([]Entry, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var entries []Entry
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return entries, nil
	}
	for {
		entry, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *headerParser) parseObject() (Entry, error) {
	var entry Entry
	var haveName, haveSize bool

	if err := p.expect('{'); err != nil {
		return entry, err
	}
	p.skipSpace()
	for p.peek() != '}' {
		key, err := p.parseIdent()
		if err != nil {
			return entry, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return entry, err
		}
		p.skipSpace()

		switch key {
		case "name":
			val, err := p.parseString()
			if err != nil {
				return entry, err
			}
			entry.Name = val
			haveName = true
		case "size":
			val, err := p.parseNumber()
			if err != nil {
				return entry, err
			}
			entry.Size = uint32(val)
			haveSize = true
		default:
			return entry, fmt.Errorf("unexpected field %q in header entry", key)
		}

		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		break
	}
	if err := p.expect('}'); err != nil {
		return entry, err
	}
	if !haveName || !haveSize {
		return entry, fmt.Errorf("header entry missing name or size field")
	}
	return entry, nil
}

func (p *headerParser) parseIdent() (string, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ':' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected field name at offset %d", start)
	}
	return p.src[start:p.pos], nil
}

func (p *headerParser) parseString() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", fmt.Errorf("unterminated string literal")
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			switch p.src[p.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(p.src[p.pos])
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *headerParser) parseNumber() (uint64, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	return strconv.ParseUint(p.src[start:p.pos], 10, 32)
}

func (p *headerParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *headerParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *headerParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}
