package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/nihei9/dervish/symbol"
)

// Namer resolves tags to names. *symbol.TableReader implements it.
type Namer interface {
	Name(sym symbol.Symbol) string
}

type NodeType int

const (
	NodeTypeEmpty    = NodeType(0)
	NodeTypeLeaf     = NodeType(1)
	NodeTypeInterior = NodeType(2)
)

// Node is a tree whose tags are resolved to names and whose leaves are resolved to
// text. It is the form trees are printed, encoded, and compared in.
type Node struct {
	Parent   *Node
	Offset   int
	Type     NodeType
	KindName string
	Text     string
	Children []*Node
}

func NewInteriorNode(kind string, children ...*Node) *Node {
	return &Node{
		Type:     NodeTypeInterior,
		KindName: kind,
		Children: children,
	}
}

func NewLeafNode(kind string, text string) *Node {
	return &Node{
		Type:     NodeTypeLeaf,
		KindName: kind,
		Text:     text,
	}
}

func NewEmptyNode() *Node {
	return &Node{
		Type: NodeTypeEmpty,
	}
}

// Encode resolves t into a Node. Leaves holding a value with a Text method (lexer
// tokens, for instance) use it; other leaves are formatted with fmt.
func Encode[T any](t *Tree[T], names Namer) *Node {
	return encode(t, names).Fill()
}

func encode[T any](t *Tree[T], names Namer) *Node {
	var kind string
	if !t.Tag.IsNil() {
		kind = names.Name(t.Tag)
	}
	switch t.Kind {
	case KindLeaf:
		return NewLeafNode(kind, leafText(t.Elem))
	case KindNode:
		children := make([]*Node, len(t.Children))
		for i, c := range t.Children {
			children[i] = encode(c, names)
		}
		return NewInteriorNode(kind, children...)
	}
	return NewEmptyNode()
}

type texter interface {
	Text() string
}

func leafText(elem any) string {
	switch e := elem.(type) {
	case texter:
		return e.Text()
	case fmt.Stringer:
		return e.String()
	case string:
		return e
	}
	return fmt.Sprint(elem)
}

// Fill sets the parent links and offsets of the descendants of n.
func (n *Node) Fill() *Node {
	for i, c := range n.Children {
		c.Parent = n
		c.Offset = i
		c.Fill()
	}
	return n
}

func (n *Node) name() string {
	if n.KindName == "" {
		return "<anonymous>"
	}
	return n.KindName
}

func (n *Node) path() string {
	if n.Parent == nil {
		return n.name()
	}
	return fmt.Sprintf("%v.[%v]%v", n.Parent.path(), n.Offset, n.name())
}

func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case NodeTypeEmpty:
		return json.Marshal(struct {
			Type NodeType `json:"type"`
		}{
			Type: n.Type,
		})
	case NodeTypeLeaf:
		if n.KindName == "" {
			return json.Marshal(struct {
				Type NodeType `json:"type"`
				Text string   `json:"text"`
			}{
				Type: n.Type,
				Text: n.Text,
			})
		}
		return json.Marshal(struct {
			Type     NodeType `json:"type"`
			KindName string   `json:"kind_name"`
			Text     string   `json:"text"`
		}{
			Type:     n.Type,
			KindName: n.KindName,
			Text:     n.Text,
		})
	case NodeTypeInterior:
		return json.Marshal(struct {
			Type     NodeType `json:"type"`
			KindName string   `json:"kind_name,omitempty"`
			Children []*Node  `json:"children"`
		}{
			Type:     n.Type,
			KindName: n.KindName,
			Children: n.Children,
		})
	default:
		return nil, fmt.Errorf("invalid node type: %v", n.Type)
	}
}

// Print prints t with ruled lines, resolving tags through names.
func Print[T any](w io.Writer, t *Tree[T], names Namer) {
	PrintNode(w, Encode(t, names))
}

// PrintNode prints a tree whose root is `node`.
func PrintNode(w io.Writer, node *Node) {
	printNode(w, node, "", "")
}

func printNode(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	switch node.Type {
	case NodeTypeEmpty:
		fmt.Fprintf(w, "%v()\n", ruledLine)
	case NodeTypeLeaf:
		fmt.Fprintf(w, "%v%v %v\n", ruledLine, node.name(), strconv.Quote(node.Text))
	case NodeTypeInterior:
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.name())

		num := len(node.Children)
		for i, child := range node.Children {
			var line string
			if num > 1 && i < num-1 {
				line = "├─ "
			} else {
				line = "└─ "
			}

			var prefix string
			if i >= num-1 {
				prefix = "   "
			} else {
				prefix = "│  "
			}

			printNode(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
		}
	}
}

type Diff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newDiff(expected, actual *Node, message string) *Diff {
	return &Diff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

func (d *Diff) String() string {
	return fmt.Sprintf("%v: expected path: %v, actual path: %v", d.Message, d.ExpectedPath, d.ActualPath)
}

// DiffNode compares an expected tree with an actual one. An expected kind `_` matches
// any kind.
func DiffNode(expected, actual *Node) []*Diff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected == nil || actual == nil {
		return []*Diff{
			{
				Message: "one of the trees is missing",
			},
		}
	}
	if expected.KindName != "_" && actual.KindName != expected.KindName {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.KindName, actual.KindName)
		return []*Diff{
			newDiff(expected, actual, msg),
		}
	}
	if expected.Type != actual.Type {
		msg := fmt.Sprintf("unexpected node type: expected %v but got %v", expected.Type, actual.Type)
		return []*Diff{
			newDiff(expected, actual, msg),
		}
	}
	if expected.Type == NodeTypeLeaf && expected.Text != actual.Text {
		msg := fmt.Sprintf("unexpected text: expected '%v' but got '%v'", expected.Text, actual.Text)
		return []*Diff{
			newDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*Diff{
			newDiff(expected, actual, msg),
		}
	}
	var diffs []*Diff
	for i, exp := range expected.Children {
		if ds := DiffNode(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

// Format renders n as an S-expression, one node per line. An empty tree is `()`, a
// leaf is `(kind "text")`, and an interior node lists its children after its kind.
func (n *Node) Format() string {
	var b []byte
	b = n.format(b, 0)
	return string(b)
}

func (n *Node) format(buf []byte, depth int) []byte {
	for i := 0; i < depth; i++ {
		buf = append(buf, "    "...)
	}
	buf = append(buf, '(')
	switch n.Type {
	case NodeTypeLeaf:
		buf = append(buf, n.name()...)
		buf = append(buf, ' ')
		buf = strconv.AppendQuote(buf, n.Text)
	case NodeTypeInterior:
		buf = append(buf, n.name()...)
		for _, c := range n.Children {
			buf = append(buf, '\n')
			buf = c.format(buf, depth+1)
		}
	}
	return append(buf, ')')
}
