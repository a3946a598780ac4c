// Package control ships reusable scene controllers. Controllers attach
// to a compiled scene through the observer protocol and act on the
// entities they find there; the scene never interprets what they do.
package control

import (
	"tenseg/pkg/scene"
)

// Pretension shortens every string actuator's rest length by a fixed
// fraction of its built length at setup, putting the whole structure
// under initial tension so it holds its shape.
type Pretension struct {
	// Ratio is the fraction of built length to remove, in [0, 1).
	// 0.05 shortens every string by 5%.
	Ratio float64
}

// OnSetup applies the pretension to every string in the scene.
func (p *Pretension) OnSetup(s *scene.Scene) {
	for _, sa := range s.Strings() {
		sa.SetRestLength(sa.Length() * (1 - p.Ratio))
	}
}

// OnStep does nothing; pretension is a setup-time action.
func (p *Pretension) OnStep(s *scene.Scene, dt float64) {}

// OnTeardown does nothing.
func (p *Pretension) OnTeardown(s *scene.Scene) {}
