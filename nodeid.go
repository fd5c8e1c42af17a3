package nodestore

import (
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// IdentifierType is the discriminant for NodeId's identifier payload,
// mirroring the four identifier kinds an OPC UA NodeId can carry.
type IdentifierType uint8

const (
	IdentifierNumeric IdentifierType = iota
	IdentifierString
	IdentifierGUID
	IdentifierByteString
)

func (t IdentifierType) String() string {
	switch t {
	case IdentifierNumeric:
		return "Numeric"
	case IdentifierString:
		return "String"
	case IdentifierGUID:
		return "GUID"
	case IdentifierByteString:
		return "ByteString"
	default:
		return "Unknown"
	}
}

// NodeId is an opaque structured identifier: a namespace index plus exactly
// one of four identifier payloads. It satisfies the "NodeId" external
// collaborator from the store's point of view: a 32-bit Hash and an Equal
// predicate, nothing more.
type NodeId struct {
	Namespace      uint16
	IdentifierType IdentifierType

	Numeric    uint32
	String     string
	GUID       uuid.UUID
	ByteString []byte
}

// NumericNodeId is a convenience constructor for the common case.
func NumericNodeId(namespace uint16, value uint32) NodeId {
	return NodeId{Namespace: namespace, IdentifierType: IdentifierNumeric, Numeric: value}
}

// StringNodeId is a convenience constructor for string identifiers.
func StringNodeId(namespace uint16, value string) NodeId {
	return NodeId{Namespace: namespace, IdentifierType: IdentifierString, String: value}
}

// IsZeroNumeric reports the "assign me an identifier" sentinel: a numeric
// identifier carrying the value zero.
func (id NodeId) IsZeroNumeric() bool {
	return id.IdentifierType == IdentifierNumeric && id.Numeric == 0
}

// Hash computes the 32-bit hash the slot table caches at insertion and uses
// for every probe. Numeric identifiers hash cheaply; String, GUID and
// ByteString identifiers are hashed with xxhash and folded to 32 bits.
func (id NodeId) Hash() uint32 {
	h := uint64(id.Namespace) * 2654435761
	switch id.IdentifierType {
	case IdentifierNumeric:
		h ^= uint64(id.Numeric)*0x9E3779B97F4A7C15 + 1
	case IdentifierString:
		h ^= xxhash.Sum64String(id.String) + 2
	case IdentifierGUID:
		b, _ := id.GUID.MarshalBinary()
		h ^= xxhash.Sum64(b) + 3
	case IdentifierByteString:
		h ^= xxhash.Sum64(id.ByteString) + 4
	}
	return uint32(h ^ (h >> 32))
}

// Equal compares namespace, identifier type, and payload.
func (id NodeId) Equal(other NodeId) bool {
	if id.Namespace != other.Namespace || id.IdentifierType != other.IdentifierType {
		return false
	}
	switch id.IdentifierType {
	case IdentifierNumeric:
		return id.Numeric == other.Numeric
	case IdentifierString:
		return id.String == other.String
	case IdentifierGUID:
		return id.GUID == other.GUID
	case IdentifierByteString:
		return string(id.ByteString) == string(other.ByteString)
	default:
		return false
	}
}

// copy deep-copies the identifier, cloning the ByteString payload so the
// result shares no backing array with id.
func (id NodeId) copy() NodeId {
	out := id
	if id.ByteString != nil {
		out.ByteString = append([]byte(nil), id.ByteString...)
	}
	return out
}
