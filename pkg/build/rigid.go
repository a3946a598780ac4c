package build

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/phys"
	"tenseg/pkg/scene"
	"tenseg/pkg/structure"
)

// RodConfig parameterizes cylindrical rod entities. A density of zero
// produces a static rod that never moves in the simulation.
type RodConfig struct {
	Radius  float64
	Density float64 // mass per unit volume, 0 for static
}

// RodBuilder turns a tagged pair into a rigid cylinder spanning its two
// nodes.
type RodBuilder struct {
	Config RodConfig
}

// Kind returns KindRod.
func (RodBuilder) Kind() Kind { return KindRod }

// BuildRigidPair creates the rod body centered at the pair midpoint and
// wires a resolver that offsets connection points onto the rod surface.
func (b RodBuilder) BuildRigidPair(w phys.World, p structure.Pair, from, to structure.Node) (*scene.RigidEntity, error) {
	if b.Config.Radius <= 0 {
		return nil, fmt.Errorf("rod radius must be positive, got %g", b.Config.Radius)
	}
	if b.Config.Density < 0 {
		return nil, fmt.Errorf("rod density must be non-negative, got %g", b.Config.Density)
	}
	length := to.Pos.Sub(from.Pos).Length()
	if length == 0 {
		return nil, fmt.Errorf("rod endpoints coincide at %v", from.Pos)
	}

	volume := math.Pi * b.Config.Radius * b.Config.Radius * length
	mass := b.Config.Density * volume
	inertia := mass * length * length / 12
	center := from.Pos.Add(to.Pos).MulScalar(0.5)

	body := w.NewBody(center, mass, inertia)
	axis := to.Pos.Sub(from.Pos).DivScalar(length)
	return scene.NewRigidEntity(body, p.Tags, []int{p.From, p.To},
		rodResolver(body, axis, b.Config.Radius)), nil
}

// rodResolver offsets the reference node onto the rod surface: radially,
// perpendicular to the rod axis, toward the destination. Matches the
// attachment geometry of a cylinder with physical extent rather than the
// raw node coordinate.
func rodResolver(body phys.Body, axis v3.Vec, radius float64) scene.ResolverFunc {
	axisLocal := body.PointToLocal(body.Position().Add(axis))
	return func(ref, dest v3.Vec) v3.Vec {
		// Current axis direction, tracked with the body.
		axisW := body.PointToWorld(axisLocal).Sub(body.Position())
		refToDest := dest.Sub(ref)
		if refToDest.Length() == 0 {
			return ref
		}
		rotAxis := axisW.Cross(refToDest.Normalize())
		if rotAxis.Length() < 1e-12 {
			// Destination lies along the rod axis; attach at the node.
			return ref
		}
		directional := rotAxis.Normalize().Cross(axisW).Normalize()
		return ref.Add(directional.MulScalar(radius))
	}
}

// SphereConfig parameterizes sphere entities built on single nodes.
type SphereConfig struct {
	Radius   float64
	Density  float64
	Friction float64
}

// SphereBuilder turns a tagged node into a rigid sphere.
type SphereBuilder struct {
	Config SphereConfig
}

// Kind returns KindSphere.
func (SphereBuilder) Kind() Kind { return KindSphere }

// BuildNode creates the sphere body at the node position.
func (b SphereBuilder) BuildNode(w phys.World, index int, n structure.Node) (*scene.RigidEntity, error) {
	if b.Config.Radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive, got %g", b.Config.Radius)
	}
	if b.Config.Density < 0 {
		return nil, fmt.Errorf("sphere density must be non-negative, got %g", b.Config.Density)
	}
	r := b.Config.Radius
	volume := 4.0 / 3.0 * math.Pi * r * r * r
	mass := b.Config.Density * volume
	inertia := 2.0 / 5.0 * mass * r * r

	body := w.NewBody(n.Pos, mass, inertia)
	resolver := func(ref, dest v3.Vec) v3.Vec {
		d := dest.Sub(ref)
		if d.Length() == 0 {
			return ref
		}
		return ref.Add(d.Normalize().MulScalar(r))
	}
	return scene.NewRigidEntity(body, n.Tags, []int{index}, resolver), nil
}

// BoxConfig parameterizes box entities spanning a pair: the pair defines
// the long axis, Width and Height the cross-section half-extents.
type BoxConfig struct {
	Width   float64 // half-extent across the span
	Height  float64 // half-extent across the span
	Density float64
}

// BoxBuilder turns a tagged pair into a rigid box spanning its nodes.
type BoxBuilder struct {
	Config BoxConfig
}

// Kind returns KindBox.
func (BoxBuilder) Kind() Kind { return KindBox }

// BuildRigidPair creates the box body centered at the pair midpoint.
func (b BoxBuilder) BuildRigidPair(w phys.World, p structure.Pair, from, to structure.Node) (*scene.RigidEntity, error) {
	if b.Config.Width <= 0 || b.Config.Height <= 0 {
		return nil, fmt.Errorf("box half-extents must be positive, got %g x %g", b.Config.Width, b.Config.Height)
	}
	if b.Config.Density < 0 {
		return nil, fmt.Errorf("box density must be non-negative, got %g", b.Config.Density)
	}
	length := to.Pos.Sub(from.Pos).Length()
	if length == 0 {
		return nil, fmt.Errorf("box endpoints coincide at %v", from.Pos)
	}

	volume := length * 2 * b.Config.Width * 2 * b.Config.Height
	mass := b.Config.Density * volume
	inertia := mass * (length*length + 4*b.Config.Width*b.Config.Width) / 12
	center := from.Pos.Add(to.Pos).MulScalar(0.5)

	body := w.NewBody(center, mass, inertia)
	axis := to.Pos.Sub(from.Pos).DivScalar(length)
	// The box shares the rod's radial attachment geometry, using the
	// smaller cross-section half-extent as the surface offset.
	offset := math.Min(b.Config.Width, b.Config.Height)
	return scene.NewRigidEntity(body, p.Tags, []int{p.From, p.To},
		rodResolver(body, axis, offset)), nil
}
