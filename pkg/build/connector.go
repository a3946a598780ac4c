package build

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/cable"
	"tenseg/pkg/scene"
)

// resolveAttachments computes the two surface attachment points for a
// connector: each endpoint's rigid owner resolves its own point given
// both authored node positions.
func resolveAttachments(ctx ConnectorContext) (from, to v3.Vec) {
	from = ctx.From.ConnectionPoint(ctx.FromPos, ctx.ToPos)
	to = ctx.To.ConnectionPoint(ctx.ToPos, ctx.FromPos)
	return from, to
}

// StringBuilder turns a tagged pair into a tension-only string actuator
// between the endpoint rigid entities.
type StringBuilder struct {
	Config scene.StringConfig
}

// Kind returns KindString.
func (StringBuilder) Kind() Kind { return KindString }

// BuildConnector creates the actuator and registers it as a force
// element in the primary world.
func (b StringBuilder) BuildConnector(ctx ConnectorContext) (scene.Connector, error) {
	if b.Config.Stiffness <= 0 {
		return nil, fmt.Errorf("string stiffness must be positive, got %g", b.Config.Stiffness)
	}
	if b.Config.Damping < 0 {
		return nil, fmt.Errorf("string damping must be non-negative, got %g", b.Config.Damping)
	}
	fromAttach, toAttach := resolveAttachments(ctx)
	sa := scene.NewStringActuator(ctx.Pair.Tags, b.Config,
		ctx.From.Body(), ctx.To.Body(), fromAttach, toAttach)
	ctx.World.AddConstraint(sa)
	return sa, nil
}

// HingeBuilder turns a tagged pair into a hinge joint anchored between
// the endpoint attachment points.
type HingeBuilder struct {
	Config scene.HingeConfig
}

// Kind returns KindHinge.
func (HingeBuilder) Kind() Kind { return KindHinge }

// BuildConnector creates the hinge and registers it in the primary
// world.
func (b HingeBuilder) BuildConnector(ctx ConnectorContext) (scene.Connector, error) {
	if b.Config.Stiffness <= 0 {
		return nil, fmt.Errorf("hinge stiffness must be positive, got %g", b.Config.Stiffness)
	}
	if b.Config.MinAngle > b.Config.MaxAngle {
		return nil, fmt.Errorf("hinge angle limits inverted: min %g > max %g", b.Config.MinAngle, b.Config.MaxAngle)
	}
	fromAttach, toAttach := resolveAttachments(ctx)
	anchor := fromAttach.Add(toAttach).MulScalar(0.5)
	h := scene.NewHinge(ctx.Pair.Tags, b.Config, ctx.From.Body(), ctx.To.Body(), anchor)
	ctx.World.AddConstraint(h)
	return h, nil
}

// PrismaticBuilder turns a tagged pair into a sliding joint between the
// endpoint rigid entities.
type PrismaticBuilder struct {
	Config scene.PrismaticConfig
}

// Kind returns KindPrismatic.
func (PrismaticBuilder) Kind() Kind { return KindPrismatic }

// BuildConnector creates the joint and registers it in the primary
// world.
func (b PrismaticBuilder) BuildConnector(ctx ConnectorContext) (scene.Connector, error) {
	if b.Config.Stiffness <= 0 {
		return nil, fmt.Errorf("prismatic stiffness must be positive, got %g", b.Config.Stiffness)
	}
	if b.Config.MinExtension > b.Config.MaxExtension {
		return nil, fmt.Errorf("prismatic extension limits inverted: min %g > max %g",
			b.Config.MinExtension, b.Config.MaxExtension)
	}
	fromAttach, toAttach := resolveAttachments(ctx)
	p := scene.NewPrismatic(ctx.Pair.Tags, b.Config, ctx.From.Body(), ctx.To.Body(), fromAttach, toAttach)
	ctx.World.AddConstraint(p)
	return p, nil
}

// FlexCableBuilder turns a tagged pair into a discretized flexible cable
// co-simulated in the secondary cable world.
type FlexCableBuilder struct {
	Config cable.Config
}

// Kind returns KindFlexCable.
func (FlexCableBuilder) Kind() Kind { return KindFlexCable }

// BuildConnector discretizes the cable between the resolved attachment
// points, registers the chain with the cable world and the coupling
// force element with the primary world. Requires a cable world.
func (b FlexCableBuilder) BuildConnector(ctx ConnectorContext) (scene.Connector, error) {
	if ctx.Soft == nil {
		return nil, fmt.Errorf("flexible cable requires a cable world")
	}
	fromAttach, toAttach := resolveAttachments(ctx)
	fc, err := scene.NewFlexCable(ctx.Pair.Tags, b.Config,
		ctx.From.Body(), ctx.To.Body(), fromAttach, toAttach)
	if err != nil {
		return nil, err
	}
	ctx.Soft.AddChain(fc.Chain())
	ctx.World.AddConstraint(fc)
	return fc, nil
}
