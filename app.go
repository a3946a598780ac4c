// Package tenseg ties the library together: a model script plus TOML
// builder definitions in, a compiled physics scene out. Drivers that
// want finer control use the sub-packages directly.
package tenseg

import (
	"fmt"

	"tenseg/pkg/build"
	"tenseg/pkg/cable"
	"tenseg/pkg/config"
	"tenseg/pkg/phys/newton"
	"tenseg/pkg/scene"
	"tenseg/pkg/script"
)

// App wires the full pipeline: model script -> structure graph ->
// compiled physics scene.
type App struct {
	engine *script.Engine
	reg    *build.Registry
}

// NewApp creates an App that compiles models against the given builder
// registry.
func NewApp(reg *build.Registry) *App {
	return &App{
		engine: script.NewEngine(),
		reg:    reg,
	}
}

// NewAppFromTOML creates an App whose registry is populated from TOML
// builder definitions.
func NewAppFromTOML(data []byte) (*App, error) {
	f, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	return NewApp(f.Registry()), nil
}

// Load evaluates Lisp source and compiles the resulting structure into a
// fresh scene with its own physics worlds. Errors in user code come back
// as script.EvalError values; compilation failures are returned as an
// error and leave no scene behind.
func (a *App) Load(source string) (*scene.Scene, []script.EvalError, error) {
	st, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, nil, err
	}
	if len(evalErrs) > 0 {
		return nil, evalErrs, nil
	}

	w := newton.New(newton.DefaultConfig())
	soft := cable.NewWorld(w.Gravity())
	sc, err := build.Compile(st, a.reg, w, soft)
	if err != nil {
		return nil, nil, fmt.Errorf("compile: %w", err)
	}
	return sc, nil, nil
}

// Run steps a loaded scene through its full observer lifecycle.
func (a *App) Run(sc *scene.Scene, dt float64, ticks int) error {
	sc.Setup()
	defer sc.Teardown()
	for i := 0; i < ticks; i++ {
		if err := sc.Step(dt); err != nil {
			return err
		}
	}
	return nil
}
