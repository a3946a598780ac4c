package cable

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// World is the secondary dynamics world for flexible cables. It holds
// tracking references to chains (ownership stays with the connector that
// created each chain) and advances them all by the same timestep as the
// primary rigid-body world.
type World struct {
	gravity v3.Vec
	chains  []*Chain
}

// NewWorld creates an empty cable world with the given gravity.
func NewWorld(gravity v3.Vec) *World {
	return &World{gravity: gravity}
}

// AddChain registers a chain for stepping.
func (w *World) AddChain(c *Chain) {
	w.chains = append(w.chains, c)
}

// ChainCount returns the number of registered chains.
func (w *World) ChainCount() int {
	return len(w.chains)
}

// Step advances every chain by dt. dt must be positive and must equal
// the timestep used for the primary world in the same tick.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("cable: timestep must be positive, got %g", dt)
	}
	for _, c := range w.chains {
		c.step(dt, w.gravity)
	}
	return nil
}
