package zwom

import "github.com/sco1/zwom/internal/models"

// The parse tree is transient: the parser builds it, the visitor in
// parser.go flattens it into blocks, and it is discarded. Nodes are a small
// tagged union: a leaf token, a nested sequence (grammar repetition and
// optional constructs introduce structurally variable wrapper layers), or a
// typed result produced by a grammar rule.

type node interface{ isNode() }

// leaf wraps a structural token (braces, commas) that carries no value.
type leaf struct {
	tok token
}

func (leaf) isNode() {}

// seq is a nested sequence of child nodes.
type seq []node

func (seq) isNode() {}

// blockNode is the typed result of the block rule.
type blockNode struct {
	tag  models.Tag
	body seq
}

func (blockNode) isNode() {}

// paramNode is the typed result of the assignment rule.
type paramNode struct {
	key models.Tag
	val models.Value
}

func (paramNode) isNode() {}

// messageNode is the typed result of the message rule.
type messageNode struct {
	msg models.Message
}

func (messageNode) isNode() {}

// flatten walks an arbitrarily nested sequence and returns every node the
// match function selects, in left-to-right document order. A matched node
// is a leaf for traversal purposes: flatten never descends into it, so a
// message nested inside a block result is never re-emitted when scanning
// for blocks. The walk keeps an explicit frame stack instead of recursing.
func flatten(root seq, match func(node) bool) []node {
	type frame struct {
		s seq
		i int
	}

	var out []node
	stack := []frame{{s: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i >= len(top.s) {
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.s[top.i]
		top.i++

		if match(n) {
			out = append(out, n)
			continue
		}
		if s, ok := n.(seq); ok {
			stack = append(stack, frame{s: s})
		}
	}
	return out
}

func isBlockNode(n node) bool {
	_, ok := n.(blockNode)
	return ok
}

func isParamNode(n node) bool {
	_, ok := n.(paramNode)
	return ok
}

func isMessageNode(n node) bool {
	_, ok := n.(messageNode)
	return ok
}
