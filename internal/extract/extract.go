// Package extract walks tree-sitter query matches into pending symbols and
// calls (C5): parent-chain scope paths, temp-id memoization, and signature
// extraction.
package extract

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/symindex/internal/lang"
	"github.com/jward/symindex/internal/store"
)

// Extracted is one file's extraction result, ready to become a
// store.PendingFile once its containing file row's id is known.
type Extracted struct {
	Symbols []store.PendingSymbol
	Calls   []store.PendingCall
}

// memoDef records one memoized definition node during the walk: its
// assigned temp id, its scope-path segment name, and its own AST node id
// (for parent-chain lookups).
type memoDef struct {
	tid    int64
	name   string
	nodeID uintptr
}

// rawMatch is one query match reduced to the captures extraction cares
// about: either a definition (defNode set) or a call (isCall set).
type rawMatch struct {
	defNode    *sitter.Node
	defKind    string // "func" or "class"
	nameNode   *sitter.Node
	calleeNode *sitter.Node
	isCall     bool
}

// File runs the extraction pass over one parsed tree and returns its pending
// symbols and calls. filePath is used only for canonical id construction.
func File(entry *lang.Entry, tree *sitter.Tree, src []byte, filePath string) Extracted {
	root := tree.RootNode()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(entry.Query, root)

	var matches []rawMatch
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		m = cursor.FilterPredicates(m, src)

		var rm rawMatch
		for _, c := range m.Captures {
			name := entry.Query.CaptureNameForId(c.Index)
			node := c.Node
			switch name {
			case "def.func":
				rm.defNode, rm.defKind = node, store.KindFunction
			case "def.class":
				rm.defNode, rm.defKind = node, store.KindClass
			case "name":
				rm.nameNode = node
			case "callee":
				rm.calleeNode = node
				rm.isCall = true
			}
		}
		if rm.defNode != nil || rm.isCall {
			matches = append(matches, rm)
		}
	}

	// Order matches by AST start byte so parent memoization (which relies on
	// enclosing definitions being visited before their children) is stable
	// regardless of query/pattern iteration order.
	sort.Slice(matches, func(i, j int) bool {
		return startByte(matches[i]) < startByte(matches[j])
	})

	var (
		nextTID int64
		byNode  = map[uintptr]*memoDef{} // node id -> memo entry
		out     Extracted
	)

	findEnclosing := func(node *sitter.Node) *memoDef {
		for p := node.Parent(); p != nil; p = p.Parent() {
			if m, ok := byNode[nodeKey(p)]; ok {
				return m
			}
		}
		return nil
	}

	scopePath := func(node *sitter.Node, ownName string) string {
		var segs []string
		for p := node.Parent(); p != nil; p = p.Parent() {
			if !entry.ScopeSet[p.Type()] {
				continue
			}
			if id := firstIdentifierChild(p, src); id != "" {
				segs = append(segs, id)
			}
		}
		if len(segs) == 0 {
			return ownName
		}
		reversed := make([]string, len(segs))
		for i, s := range segs {
			reversed[len(segs)-1-i] = s
		}
		return strings.Join(reversed, "::") + "::" + ownName
	}

	for _, m := range matches {
		switch {
		case m.defNode != nil:
			name := ""
			if m.nameNode != nil {
				name = string(src[m.nameNode.StartByte():m.nameNode.EndByte()])
			}
			if name == "" {
				continue
			}

			tid := nextTID
			nextTID++

			var parentTID *int64
			if enclosing := findEnclosing(m.defNode); enclosing != nil {
				pt := enclosing.tid
				parentTID = &pt
			}

			sp := scopePath(m.defNode, name)
			canonical := store.CanonicalID(m.defKind, filePath, name)

			sig := ""
			if m.defKind == store.KindFunction {
				sig = firstNonEmptyLine(src, m.defNode)
			}

			lineStart := int(m.defNode.StartPoint().Row) + 1
			lineEnd := int(m.defNode.EndPoint().Row) + 1

			out.Symbols = append(out.Symbols, store.PendingSymbol{
				TempID:        tid,
				Name:          name,
				QualifiedName: sp,
				CanonicalID:   canonical,
				Kind:          m.defKind,
				LineStart:     lineStart,
				LineEnd:       lineEnd,
				Signature:     sig,
				ParentTempID:  parentTID,
			})

			key := nodeKey(m.defNode)
			byNode[key] = &memoDef{tid: tid, name: name, nodeID: key}

		case m.isCall:
			if m.calleeNode == nil {
				continue
			}
			enclosing := findEnclosing(m.calleeNode)
			if enclosing == nil {
				continue // no enclosing definition: call is dropped
			}
			calleeName := string(src[m.calleeNode.StartByte():m.calleeNode.EndByte()])
			line := int(m.calleeNode.StartPoint().Row) + 1
			out.Calls = append(out.Calls, store.PendingCall{
				CallerTempID: enclosing.tid,
				CalleeName:   calleeName,
				CallLine:     line,
			})
		}
	}

	return out
}

func startByte(m rawMatch) uint32 {
	if m.defNode != nil {
		return m.defNode.StartByte()
	}
	if m.calleeNode != nil {
		return m.calleeNode.StartByte()
	}
	return 0
}

// nodeKey derives a stable, comparable key for a tree-sitter node from its
// own byte range, since go-tree-sitter Node values are not unique pointers
// across repeated traversals of the same tree.
func nodeKey(n *sitter.Node) uintptr {
	return uintptr(n.StartByte())<<32 | uintptr(n.EndByte())
}

// firstIdentifierChild returns the text of the first identifier-like child
// of node, used to pull a scope segment's label out of an enclosing
// definition node. Tries the "name" field first (most grammars expose
// their definition's identifier this way), then falls back to the first
// named child whose type ends in "identifier".
func firstIdentifierChild(n *sitter.Node, src []byte) string {
	if named := n.ChildByFieldName("name"); named != nil {
		return string(src[named.StartByte():named.EndByte()])
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if strings.HasSuffix(c.Type(), "identifier") {
			return string(src[c.StartByte():c.EndByte()])
		}
	}
	return ""
}

func firstNonEmptyLine(src []byte, node *sitter.Node) string {
	text := src[node.StartByte():node.EndByte()]
	for _, line := range strings.Split(string(text), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
