package scene

// JoinResult describes one reconciliation of keyed children.
type JoinResult struct {
	// Nodes are the bound children in data order.
	Nodes []*Node

	Entered int
	Updated int
	Exited  int
}

// Join reconciles the children of parent that match tag and class against
// keys. Children whose key is no longer present are removed, children whose
// key is present are returned as-is for the caller to update, and a new
// child is created for every new key. New children get the class attribute,
// are passed to enter once, and are inserted before the next surviving
// sibling in key order.
//
// Keys are deduplicated; a repeated key binds to the same node as its first
// occurrence and is otherwise ignored.
func Join(parent *Node, tag, class string, keys []string, enter func(*Node)) JoinResult {
	existing := make(map[string]*Node)
	var stale []*Node
	for _, c := range parent.children {
		if !c.Matches(tag, class) {
			continue
		}
		if _, dup := existing[c.Key]; dup {
			stale = append(stale, c)
			continue
		}
		existing[c.Key] = c
	}

	var res JoinResult
	fresh := make(map[*Node]bool)
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		if n, ok := existing[key]; ok {
			delete(existing, key)
			res.Nodes = append(res.Nodes, n)
			res.Updated++
			continue
		}
		n := NewNode(tag)
		n.Key = key
		if class != "" {
			n.SetAttr("class", class)
		}
		fresh[n] = true
		res.Nodes = append(res.Nodes, n)
	}

	for _, c := range parent.children {
		if n, ok := existing[c.Key]; ok && n == c {
			stale = append(stale, c)
		}
	}
	for _, n := range stale {
		parent.Remove(n)
		res.Exited++
	}

	if len(fresh) == 0 {
		return res
	}
	next := make([]*Node, len(res.Nodes))
	var ref *Node
	for i := len(res.Nodes) - 1; i >= 0; i-- {
		next[i] = ref
		if !fresh[res.Nodes[i]] {
			ref = res.Nodes[i]
		}
	}
	for i, n := range res.Nodes {
		if !fresh[n] {
			continue
		}
		parent.InsertBefore(n, next[i])
		if enter != nil {
			enter(n)
		}
		res.Entered++
	}
	return res
}

// Singleton ensures parent has exactly one child matching tag and class and
// returns it; enter runs when the child is created.
func Singleton(parent *Node, tag, class string, enter func(*Node)) (*Node, JoinResult) {
	res := Join(parent, tag, class, []string{""}, enter)
	return res.Nodes[0], res
}
