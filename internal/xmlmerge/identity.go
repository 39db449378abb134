package xmlmerge

import "strings"

// identity computes id(node) per spec.md §4.7. In matching mode an
// attributeless, non-special-cased element still yields an identity (the
// "#override" sentinel) so it can match a patch node explicitly marked
// with id="override"; in indexing mode the same element is excluded,
// since an attributeless tag carries no identity of its own.
func identity(n *Node, matching bool) (string, bool) {
	switch n.Tag {
	case "paper":
		id, _ := n.attr("id")
		nation, _ := n.attr("nation")
		return "pa#" + id + "#" + nation, true
	case "purpose":
		val, _ := n.attr("val")
		return "pr#" + val, true
	}

	if len(n.Attrs) == 0 {
		if matching {
			return n.Tag + "#override", true
		}
		return "", false
	}

	if id, ok := n.attr("id"); ok {
		return n.Tag + "#" + id, true
	}

	parts := make([]string, len(n.Attrs))
	for i, a := range n.Attrs {
		parts[i] = a.Name.Local + "=" + a.Value
	}
	return n.Tag + "[" + strings.Join(parts, ",") + "]", true
}

// path joins the tag names of ancestors strictly between the root and
// node, excluding the root itself.
func path(ancestors []string) string {
	return strings.Join(ancestors, "/")
}
