package build

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/cable"
	"tenseg/pkg/phys/newton"
	"tenseg/pkg/scene"
	"tenseg/pkg/structure"
)

func worlds() (*newton.World, *cable.World) {
	w := newton.New(newton.DefaultConfig())
	return w, cable.NewWorld(w.Gravity())
}

// twoRodStructure builds two collinear rods along X with a gap between
// them: rod A spans nodes 0-1, rod B spans nodes 2-3.
func twoRodStructure(t *testing.T) *structure.Structure {
	t.Helper()
	st := structure.New()
	st.AddNode(v3.Vec{X: 0}, "")  // 0
	st.AddNode(v3.Vec{X: 4}, "")  // 1
	st.AddNode(v3.Vec{X: 14}, "") // 2
	st.AddNode(v3.Vec{X: 18}, "") // 3
	if err := st.AddPair(0, 1, "rod"); err != nil {
		t.Fatal(err)
	}
	if err := st.AddPair(2, 3, "rod"); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register("rod", RodBuilder{Config: RodConfig{Radius: 1, Density: 1}})

	b, err := reg.Resolve("rod")
	if err != nil {
		t.Fatal(err)
	}
	if b.Kind() != KindRod {
		t.Errorf("kind = %v, want rod", b.Kind())
	}

	_, err = reg.Resolve("girder")
	var ute UnknownTagError
	if !errors.As(err, &ute) {
		t.Fatalf("Resolve(girder) = %v, want UnknownTagError", err)
	}
	if ute.Tag != "girder" {
		t.Errorf("error tag = %q, want girder", ute.Tag)
	}
}

func TestCompileTwoPhase(t *testing.T) {
	st := twoRodStructure(t)
	if err := st.AddPair(1, 2, "string"); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	// Connector registered before the rigid builder: phase separation
	// must build all rods first regardless of registration order.
	reg.Register("string", StringBuilder{Config: scene.StringConfig{Stiffness: 100, Damping: 1}})
	reg.Register("rod", RodBuilder{Config: RodConfig{Radius: 0.5, Density: 1}})

	w, soft := worlds()
	sc, err := Compile(st, reg, w, soft)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Rigids()) != 2 {
		t.Errorf("rigid count = %d, want 2", len(sc.Rigids()))
	}
	if len(sc.Connectors()) != 1 {
		t.Errorf("connector count = %d, want 1", len(sc.Connectors()))
	}
	if len(sc.Strings()) != 1 {
		t.Errorf("string count = %d, want 1", len(sc.Strings()))
	}
}

func TestCompileMissingRigidOwner(t *testing.T) {
	st := structure.New()
	st.AddNode(v3.Vec{}, "")
	st.AddNode(v3.Vec{X: 10}, "")
	if err := st.AddPair(0, 1, "string"); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	reg.Register("string", StringBuilder{Config: scene.StringConfig{Stiffness: 100}})

	w, soft := worlds()
	sc, err := Compile(st, reg, w, soft)
	var mro MissingRigidOwnerError
	if !errors.As(err, &mro) {
		t.Fatalf("err = %v, want MissingRigidOwnerError", err)
	}
	if mro.Node != 0 {
		t.Errorf("offending node = %d, want 0", mro.Node)
	}
	if mro.Tag != "string" {
		t.Errorf("offending tag = %q, want string", mro.Tag)
	}
	if sc != nil {
		t.Error("failed compile must not return a partial scene")
	}
	// The authored structure is untouched.
	if st.NodeCount() != 2 || st.PairCount() != 1 {
		t.Error("compile mutated the structure")
	}
}

func TestCompileTagTypeMismatch(t *testing.T) {
	// A connector tag on a node.
	st := structure.New()
	st.AddNode(v3.Vec{}, "string")
	reg := NewRegistry()
	reg.Register("string", StringBuilder{Config: scene.StringConfig{Stiffness: 1}})

	w, soft := worlds()
	_, err := Compile(st, reg, w, soft)
	var ttm TagTypeMismatchError
	if !errors.As(err, &ttm) {
		t.Fatalf("err = %v, want TagTypeMismatchError", err)
	}
	if !ttm.OnNode || ttm.Index != 0 {
		t.Errorf("mismatch location = onNode %v index %d, want node 0", ttm.OnNode, ttm.Index)
	}

	// A node tag on a pair.
	st2 := structure.New()
	st2.AddNode(v3.Vec{}, "")
	st2.AddNode(v3.Vec{X: 1}, "")
	if err := st2.AddPair(0, 1, "sphere"); err != nil {
		t.Fatal(err)
	}
	reg2 := NewRegistry()
	reg2.Register("sphere", SphereBuilder{Config: SphereConfig{Radius: 1, Density: 1}})

	w2, soft2 := worlds()
	_, err = Compile(st2, reg2, w2, soft2)
	if !errors.As(err, &ttm) {
		t.Fatalf("err = %v, want TagTypeMismatchError", err)
	}
	if ttm.OnNode {
		t.Error("mismatch should point at a pair")
	}
}

func TestCompileSharedTagOnNodesAndPairs(t *testing.T) {
	// Models commonly tag a pair and its endpoint nodes with the same
	// label. The rod builder consumes pairs; same-tagged nodes are not
	// a mismatch, they are simply skipped in phase 1.
	st := structure.New()
	st.AddNode(v3.Vec{}, "rod")
	st.AddNode(v3.Vec{X: 4}, "rod")
	st.AddNode(v3.Vec{X: 14}, "rod")
	st.AddNode(v3.Vec{X: 18}, "rod")
	if err := st.AddPair(0, 1, "rod"); err != nil {
		t.Fatal(err)
	}
	if err := st.AddPair(2, 3, "rod"); err != nil {
		t.Fatal(err)
	}
	if err := st.AddPair(1, 2, "string"); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	reg.Register("rod", RodBuilder{Config: RodConfig{Radius: 0.5, Density: 1}})
	reg.Register("string", StringBuilder{Config: scene.StringConfig{Stiffness: 100, Damping: 1}})

	w, soft := worlds()
	sc, err := Compile(st, reg, w, soft)
	if err != nil {
		t.Fatalf("shared rod tag must compile, got: %v", err)
	}
	if len(sc.Rigids()) != 2 {
		t.Errorf("rigid count = %d, want 2", len(sc.Rigids()))
	}
	if len(sc.Strings()) != 1 {
		t.Errorf("string count = %d, want 1", len(sc.Strings()))
	}
}

func TestCompileDuplicateOwner(t *testing.T) {
	st := structure.New()
	st.AddNode(v3.Vec{}, "")
	st.AddNode(v3.Vec{X: 4}, "")
	st.AddNode(v3.Vec{X: 8}, "")
	// Two rods sharing node 1.
	if err := st.AddPair(0, 1, "rod"); err != nil {
		t.Fatal(err)
	}
	if err := st.AddPair(1, 2, "rod"); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry()
	reg.Register("rod", RodBuilder{Config: RodConfig{Radius: 0.5, Density: 1}})

	w, soft := worlds()
	_, err := Compile(st, reg, w, soft)
	var dup DuplicateOwnerError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateOwnerError", err)
	}
	if dup.Node != 1 {
		t.Errorf("duplicate node = %d, want 1", dup.Node)
	}
}

func TestCompileBuilderFailure(t *testing.T) {
	st := twoRodStructure(t)
	reg := NewRegistry()
	reg.Register("rod", RodBuilder{Config: RodConfig{Radius: 0, Density: 1}}) // invalid radius

	w, soft := worlds()
	_, err := Compile(st, reg, w, soft)
	var be BuilderError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want BuilderError", err)
	}
	if be.Tag != "rod" || be.Index != 0 {
		t.Errorf("failure surfaced as tag %q index %d, want rod 0", be.Tag, be.Index)
	}
}

func TestCompileInvalidCableResolution(t *testing.T) {
	st := twoRodStructure(t)
	if err := st.AddPair(1, 2, "flex"); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry()
	reg.Register("rod", RodBuilder{Config: RodConfig{Radius: 0.5, Density: 1}})
	reg.Register("flex", FlexCableBuilder{Config: cable.Config{Resolution: 1, Stiffness: 10}})

	w, soft := worlds()
	_, err := Compile(st, reg, w, soft)
	var ire cable.InvalidResolutionError
	if !errors.As(err, &ire) {
		t.Fatalf("err = %v, want InvalidResolutionError through BuilderError", err)
	}
}

func TestLastRegistrationWins(t *testing.T) {
	st := twoRodStructure(t)
	if err := st.AddPair(1, 2, "link"); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	reg.Register("rod", RodBuilder{Config: RodConfig{Radius: 0.5, Density: 1}})
	reg.Register("link", StringBuilder{Config: scene.StringConfig{Stiffness: 100}})
	// Replace the link builder: the recompiled scene must contain a
	// flexible cable, not a string.
	reg.Register("link", FlexCableBuilder{Config: cable.Config{Resolution: 4, Stiffness: 10, Damping: 1}})

	w, soft := worlds()
	sc, err := Compile(st, reg, w, soft)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Strings()) != 0 {
		t.Error("replaced builder still produced a string")
	}
	if len(sc.FlexCables()) != 1 {
		t.Fatalf("flex cable count = %d, want 1", len(sc.FlexCables()))
	}
	if soft.ChainCount() != 1 {
		t.Errorf("cable world chains = %d, want 1", soft.ChainCount())
	}
}

func TestMultiWordTagMatching(t *testing.T) {
	st := structure.New()
	st.AddNode(v3.Vec{}, "")
	st.AddNode(v3.Vec{X: 4}, "")
	st.AddNode(v3.Vec{X: 10}, "")
	st.AddNode(v3.Vec{X: 14}, "")
	if err := st.AddPair(0, 1, "vert rod"); err != nil {
		t.Fatal(err)
	}
	if err := st.AddPair(2, 3, "vert rod"); err != nil {
		t.Fatal(err)
	}
	if err := st.AddPair(1, 2, "vert string one"); err != nil {
		t.Fatal(err)
	}
	if err := st.AddPair(0, 3, "saddle string two"); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	reg.Register("vert rod", RodBuilder{Config: RodConfig{Radius: 0.5, Density: 1}})
	reg.Register("vert string", StringBuilder{Config: scene.StringConfig{Stiffness: 100}})

	w, soft := worlds()
	sc, err := Compile(st, reg, w, soft)
	if err != nil {
		t.Fatal(err)
	}
	// Only "vert string one" matched the string builder; "saddle
	// string two" has no builder and is skipped.
	if got := sc.Strings(); len(got) != 1 {
		t.Fatalf("string count = %d, want 1", len(got))
	} else if !got[0].Tags().Has("one") {
		t.Errorf("wrong pair matched: %v", got[0].Tags())
	}
	if len(sc.Rigids()) != 2 {
		t.Errorf("rigid count = %d, want 2", len(sc.Rigids()))
	}
}

// End-to-end scenario: two static rods 10 units apart joined by a
// flexible cable with resolution 5. The chain seeds at 2.5 unit spacing
// and its ends stay coincident with the rod attachment points while the
// scene steps.
func TestEndToEndFlexibleCable(t *testing.T) {
	st := twoRodStructure(t)
	if err := st.AddPair(1, 2, "flex cable"); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	// Density 0: static rods, fixed in the world.
	reg.Register("rod", RodBuilder{Config: RodConfig{Radius: 0.5, Density: 0}})
	reg.Register("flex cable", FlexCableBuilder{Config: cable.Config{
		Resolution: 5, Stiffness: 200, Damping: 2, Bending: 1,
	}})

	w, soft := worlds()
	sc, err := Compile(st, reg, w, soft)
	if err != nil {
		t.Fatal(err)
	}

	fcs := sc.FlexCables()
	if len(fcs) != 1 {
		t.Fatalf("flex cable count = %d, want 1", len(fcs))
	}
	chain := fcs[0].Chain()
	pts := chain.Points()
	if len(pts) != 5 {
		t.Fatalf("chain resolution = %d, want 5", len(pts))
	}
	// Node 1 at x=4 and node 2 at x=14 are collinear with both rod
	// axes, so the attachment points are the nodes themselves and the
	// seeded spacing is exactly 10/4.
	for i := 1; i < 5; i++ {
		d := pts[i].Sub(pts[i-1]).Length()
		if math.Abs(d-2.5) > 1e-12 {
			t.Errorf("segment %d spacing = %g, want 2.5", i, d)
		}
	}

	sc.Setup()
	for i := 0; i < 100; i++ {
		if err := sc.Step(1.0 / 600); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	sc.Teardown()

	pts = chain.Points()
	if !pts[0].Equals(v3.Vec{X: 4}, 1e-6) {
		t.Errorf("chain start drifted to %v", pts[0])
	}
	if !pts[4].Equals(v3.Vec{X: 14}, 1e-6) {
		t.Errorf("chain end drifted to %v", pts[4])
	}
	// Interior sags under gravity.
	if pts[2].Y >= 0 {
		t.Errorf("cable midpoint should sag, y = %g", pts[2].Y)
	}
}
