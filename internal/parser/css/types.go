package css

// NodeType identifies the kind of a value token
type NodeType int

const (
	// WordNode is any non-function token: keywords, numbers, colors, strings
	WordNode NodeType = iota
	// FunctionNode is a function call such as blur(2px)
	FunctionNode
	// DividerNode is a comma separating values or arguments
	DividerNode
	// SpaceNode is whitespace between tokens
	SpaceNode
)

func (t NodeType) String() string {
	switch t {
	case WordNode:
		return "word"
	case FunctionNode:
		return "function"
	case DividerNode:
		return "divider"
	case SpaceNode:
		return "space"
	}
	return "unknown"
}

// Node is one token of a tokenized declaration value.
// Start and End are byte offsets into ValueList.Source.
type Node struct {
	Type NodeType
	// Value is the lowercased name for functions and the raw text otherwise
	Value string
	Start int
	End   int
	// Nodes holds a function's argument tokens
	Nodes []Node
}

// ValueList is a tokenized declaration value
type ValueList struct {
	Source string
	Nodes  []Node
}

// Raw returns the original source text of a node
func (v *ValueList) Raw(n Node) string {
	return v.Source[n.Start:n.End]
}
