package nodestore

// NodeClass fixes which attribute block of a Node is populated.
type NodeClass uint8

const (
	ObjectNode NodeClass = iota
	VariableNode
	MethodNode
	ObjectTypeNode
	VariableTypeNode
	ReferenceTypeNode
	DataTypeNode
	ViewNode
)

// ReferenceDirection distinguishes forward and inverse references, the way
// every OPC UA reference carries both ends of a relation.
type ReferenceDirection uint8

const (
	Forward ReferenceDirection = iota
	Inverse
)

// Reference is an edge to another node in the address space.
type Reference struct {
	TypeId    NodeId
	Direction ReferenceDirection
	Target    NodeId
}

// DataValue is the value carried by a VariableNode, with the minimal status
// and timestamp surface a downstream data-change sampler needs to read.
type DataValue struct {
	Value         any
	StatusGood    bool
	SourceTimeSec int64
}

type ObjectAttrs struct {
	EventNotifier byte
}

type VariableAttrs struct {
	Value           DataValue
	DataType        NodeId
	ValueRank       int32
	AccessLevel     byte
	MinSamplingMsec float64
}

type MethodAttrs struct {
	Executable bool
}

type ObjectTypeAttrs struct {
	IsAbstract bool
}

type VariableTypeAttrs struct {
	DataType   NodeId
	IsAbstract bool
}

type ReferenceTypeAttrs struct {
	IsAbstract bool
	Symmetric  bool
}

type DataTypeAttrs struct {
	IsAbstract bool
}

type ViewAttrs struct {
	ContainsNoLoops bool
}

// Node is the polymorphic record the store maps NodeId to. Only NodeId and
// Class are ever read by the store itself; everything else exists so the
// package is a usable address-space backing on its own.
type Node struct {
	NodeId      NodeId
	Class       NodeClass
	BrowseName  string
	DisplayName string
	References  []Reference

	Object        ObjectAttrs
	Variable      VariableAttrs
	Method        MethodAttrs
	ObjectType    ObjectTypeAttrs
	VariableType  VariableTypeAttrs
	ReferenceType ReferenceTypeAttrs
	DataType      DataTypeAttrs
	View          ViewAttrs
}

// clone deep-copies n: each Reference's identifiers are cloned along with
// the ByteString payloads of the NodeId and the DataType ids, and a
// Variable value that is a []byte is copied. Any other reference-typed
// value payload (another slice type, a map, a pointer) is shared with n.
func (n *Node) clone() Node {
	out := *n
	out.NodeId = n.NodeId.copy()
	if n.References != nil {
		out.References = make([]Reference, len(n.References))
		for i, r := range n.References {
			out.References[i] = Reference{
				TypeId:    r.TypeId.copy(),
				Direction: r.Direction,
				Target:    r.Target.copy(),
			}
		}
	}
	if bs, ok := n.Variable.Value.Value.([]byte); ok {
		out.Variable.Value.Value = append([]byte(nil), bs...)
	}
	out.Variable.DataType = n.Variable.DataType.copy()
	out.VariableType.DataType = n.VariableType.DataType.copy()
	return out
}
