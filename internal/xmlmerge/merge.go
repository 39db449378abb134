package xmlmerge

import "strings"

// pathIndex is index[path][id] from spec.md §4.7, keyed insertion-ordered
// so draining unmatched patch nodes at the end of a merge produces a
// deterministic sibling order (the patch document's own order).
type pathIndex struct {
	buckets map[string]*idBucket
}

type idBucket struct {
	order   []string
	entries map[string]*Node
}

func newPathIndex() *pathIndex {
	return &pathIndex{buckets: make(map[string]*idBucket)}
}

func (p *pathIndex) put(pathKey, id string, n *Node) {
	b, ok := p.buckets[pathKey]
	if !ok {
		b = &idBucket{entries: make(map[string]*Node)}
		p.buckets[pathKey] = b
	}
	if _, exists := b.entries[id]; !exists {
		b.order = append(b.order, id)
	}
	b.entries[id] = n
}

func (p *pathIndex) take(pathKey, id string) (*Node, bool) {
	b, ok := p.buckets[pathKey]
	if !ok {
		return nil, false
	}
	n, ok := b.entries[id]
	if !ok {
		return nil, false
	}
	delete(b.entries, id)
	return n, true
}

// drain returns and removes every remaining entry at pathKey, in the
// order they were first inserted.
func (p *pathIndex) drain(pathKey string) []*Node {
	b, ok := p.buckets[pathKey]
	if !ok {
		return nil
	}
	var out []*Node
	for _, id := range b.order {
		if n, ok := b.entries[id]; ok {
			out = append(out, n)
			delete(b.entries, id)
		}
	}
	return out
}

// buildIndex walks the patch document and inserts every element that
// yields an identity under index[path(element)][id(element)].
func buildIndex(root *Node) *pathIndex {
	idx := newPathIndex()
	var walk func(n *Node, ancestors []string, isRoot bool)
	walk = func(n *Node, ancestors []string, isRoot bool) {
		pathKey := path(ancestors)
		if id, ok := identity(n, false); ok {
			idx.put(pathKey, id, n)
		}
		childAncestors := ancestors
		if !isRoot {
			childAncestors = append(append([]string{}, ancestors...), n.Tag)
		}
		for _, c := range n.Children {
			if c.Kind == KindElement {
				walk(c, childAncestors, false)
			}
		}
	}
	walk(root, nil, true)
	return idx
}

// Merge overlays patchXML onto originalXML per spec.md §4.7 and returns
// the merged document. filename selects the Facts.xml "&&" escaping
// quirk: the source contains literal "&&" that the parser rejects, so it
// is escaped to "&amp;&amp;" before parsing and unescaped on emit.
func Merge(originalXML, patchXML []byte, filename string) ([]byte, error) {
	if filename == "Facts.xml" {
		originalXML = escapeFactsQuirk(originalXML)
		patchXML = escapeFactsQuirk(patchXML)
	}

	origRoot, err := parseDocument(originalXML)
	if err != nil {
		return nil, err
	}
	patchRoot, err := parseDocument(patchXML)
	if err != nil {
		return nil, err
	}

	idx := buildIndex(patchRoot)
	merged := mergeWalk(origRoot, nil, true, idx)

	out, err := writeDocument(merged)
	if err != nil {
		return nil, err
	}
	if filename == "Facts.xml" {
		out = unescapeFactsQuirk(out)
	}
	return out, nil
}

// mergeWalk implements the three-step merge rule of spec.md §4.7.
func mergeWalk(n *Node, ancestors []string, isRoot bool, idx *pathIndex) *Node {
	pathKey := path(ancestors)

	if id, ok := identity(n, true); ok {
		if patched, found := idx.take(pathKey, id); found {
			return cloneNode(patched)
		}
	}

	if len(n.Attrs) > 0 {
		return cloneNode(n)
	}

	out := &Node{Kind: KindElement, Tag: n.Tag}
	childAncestors := ancestors
	if !isRoot {
		childAncestors = append(append([]string{}, ancestors...), n.Tag)
	}

	for _, c := range n.Children {
		switch c.Kind {
		case KindElement:
			out.Children = append(out.Children, mergeWalk(c, childAncestors, false, idx))
		default:
			out.Children = append(out.Children, &Node{Kind: c.Kind, Text: c.Text})
		}
	}

	childPathKey := path(childAncestors)
	for _, extra := range idx.drain(childPathKey) {
		out.Children = append(out.Children, cloneNode(extra))
	}

	return out
}

func escapeFactsQuirk(data []byte) []byte {
	return []byte(strings.ReplaceAll(string(data), "&&", "&amp;&amp;"))
}

func unescapeFactsQuirk(data []byte) []byte {
	return []byte(strings.ReplaceAll(string(data), "&amp;&amp;", "&&"))
}
