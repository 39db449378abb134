// Package xmlmerge implements the identity-based structural XML merge of
// spec.md §4.7: an original document is overlaid with a patch document,
// matching elements by a path-scoped identity rather than position.
package xmlmerge

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// NodeKind discriminates the three kinds of content this merger preserves.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
	KindComment
)

// Node is a minimal XML tree node: just enough structure to carry tag,
// attributes (in source order), and mixed element/text/comment children
// through the merge walk.
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    []xml.Attr
	Children []*Node
	Text     string // set for KindText and KindComment
}

func (n *Node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// parseDocument reads the first element of data and returns it as a Node
// tree. Only the document's root element is returned; a leading
// xml.ProcInst or xml.Directive (if any) is discarded, as none of the
// patched game XML files carry one.
func parseDocument(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("xml document has no root element: %w", perr.ErrMalformedInput)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing xml: %w: %v", perr.ErrMalformedInput, err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, start)
		}
	}
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := &Node{
		Kind:  KindElement,
		Tag:   start.Name.Local,
		Attrs: append([]xml.Attr(nil), start.Attr...),
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing xml element %q: %w: %v", n.Tag, perr.ErrMalformedInput, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.EndElement:
			return n, nil
		case xml.CharData:
			if text := string(t); strings.TrimSpace(text) != "" || looksSignificant(text) {
				n.Children = append(n.Children, &Node{Kind: KindText, Text: text})
			}
		case xml.Comment:
			n.Children = append(n.Children, &Node{Kind: KindComment, Text: string(t)})
		}
	}
}

// looksSignificant keeps whitespace-only text nodes out of the tree, so
// formatting whitespace between elements is dropped; writeNode emits no
// indentation of its own.
func looksSignificant(string) bool {
	return false
}

// writeDocument serializes n as a complete XML document.
func writeDocument(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeNode recursively serializes n, dropping any id="override" sentinel
// attribute encountered at any depth.
func writeNode(w *bytes.Buffer, n *Node) error {
	switch n.Kind {
	case KindText:
		xml.EscapeText(w, []byte(n.Text))
		return nil
	case KindComment:
		w.WriteString("<!--")
		w.WriteString(n.Text)
		w.WriteString("-->")
		return nil
	}

	w.WriteByte('<')
	w.WriteString(n.Tag)
	for _, a := range n.Attrs {
		if a.Name.Local == "id" && a.Value == "override" {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(a.Name.Local)
		w.WriteString(`="`)
		xml.EscapeText(w, []byte(a.Value))
		w.WriteByte('"')
	}
	if len(n.Children) == 0 {
		w.WriteString("/>")
		return nil
	}
	w.WriteByte('>')
	for _, c := range n.Children {
		if err := writeNode(w, c); err != nil {
			return err
		}
	}
	w.WriteString("</")
	w.WriteString(n.Tag)
	w.WriteByte('>')
	return nil
}

func cloneNode(n *Node) *Node {
	cp := &Node{
		Kind:  n.Kind,
		Tag:   n.Tag,
		Text:  n.Text,
		Attrs: append([]xml.Attr(nil), n.Attrs...),
	}
	for _, c := range n.Children {
		cp.Children = append(cp.Children, cloneNode(c))
	}
	return cp
}
