package diagram

import "strings"

// Stylesheet renders the interaction stylesheet for the registry.
//
// For every node it emits a selector for edges leaving the node and one for
// edges entering it, scoped to the root graph element carrying the node's id
// as a class (set by the href from [Compile]). The selectors match the
// compound edge id written by [Compile], so both must be compiled from the
// same registry. Outgoing edges get FromStyle, incoming edges ToStyle, and the
// CSS option is appended verbatim.
func Stylesheet(r *Registry) string {
	var froms, tos []string
	r.eachNode(func(n *Node) {
		froms = append(froms, selector(n.ID, fromToken(n.ID)))
		tos = append(tos, selector(n.ID, toToken(n.ID)))
	})

	var b strings.Builder
	b.WriteString(strings.Join(froms, ",\n"))
	b.WriteString("{" + r.opts.FromStyle + "}\n\n")
	b.WriteString(strings.Join(tos, ",\n"))
	b.WriteString("{" + r.opts.ToStyle + "}\n\n")
	b.WriteString(r.opts.CSS + "\n")
	return b.String()
}

func selector(id ID, token string) string {
	return "#" + RootID + "." + string(id) + " [id~=" + token + "] path"
}
