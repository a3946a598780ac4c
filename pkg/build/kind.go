package build

import "fmt"

// Kind enumerates the closed set of builder variants. Dispatch in the
// compiler is keyed by kind, not by open-ended runtime type lookup; the
// registry only maps tag strings to builders carrying a kind.
type Kind int

const (
	KindRod Kind = iota
	KindSphere
	KindBox
	KindString
	KindHinge
	KindPrismatic
	KindFlexCable
)

func (k Kind) String() string {
	switch k {
	case KindRod:
		return "rod"
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindString:
		return "string"
	case KindHinge:
		return "hinge"
	case KindPrismatic:
		return "prismatic"
	case KindFlexCable:
		return "flexible cable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// shape describes what graph element a kind consumes.
type shape int

const (
	shapeRigidNode shape = iota // rigid entity built from a single node
	shapeRigidPair              // rigid entity spanning a pair
	shapeConnector              // connector built from a pair in phase 2
)

func (k Kind) shape() shape {
	switch k {
	case KindSphere:
		return shapeRigidNode
	case KindRod, KindBox:
		return shapeRigidPair
	default:
		return shapeConnector
	}
}

// rigid reports whether the kind produces a rigid entity in phase 1.
func (k Kind) rigid() bool {
	return k.shape() != shapeConnector
}
