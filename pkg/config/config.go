// Package config loads tag-to-builder parameter mappings from TOML and
// turns them into a populated builder registry. Model scripts describe
// geometry; the accompanying config file decides what each tag means
// physically (radii, densities, stiffnesses, cable resolutions).
package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/build"
	"tenseg/pkg/cable"
	"tenseg/pkg/scene"
)

// Vec is the TOML shape of a 3-vector.
type Vec struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	Z float64 `toml:"z"`
}

func (v Vec) vec() v3.Vec { return v3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// Hinge is the TOML shape of a hinge builder config.
type Hinge struct {
	Axis      Vec     `toml:"axis"`
	MinAngle  float64 `toml:"min_angle"`
	MaxAngle  float64 `toml:"max_angle"`
	Stiffness float64 `toml:"stiffness"`
	Damping   float64 `toml:"damping"`
}

// Prismatic is the TOML shape of a prismatic builder config.
type Prismatic struct {
	Axis         Vec     `toml:"axis"`
	MinExtension float64 `toml:"min_extension"`
	MaxExtension float64 `toml:"max_extension"`
	Stiffness    float64 `toml:"stiffness"`
	Damping      float64 `toml:"damping"`
	MotorForce   float64 `toml:"motor_force"`
}

// String is the TOML shape of a string actuator config.
type String struct {
	Stiffness float64 `toml:"stiffness"`
	Damping   float64 `toml:"damping"`
	MaxForce  float64 `toml:"max_force"`
	MaxVel    float64 `toml:"max_vel"`
}

// Cable is the TOML shape of a flexible cable config.
type Cable struct {
	Resolution int     `toml:"resolution"`
	Stiffness  float64 `toml:"stiffness"`
	Damping    float64 `toml:"damping"`
	Bending    float64 `toml:"bending"`
	Density    float64 `toml:"density"`
}

// Rod is the TOML shape of a rod builder config.
type Rod struct {
	Radius  float64 `toml:"radius"`
	Density float64 `toml:"density"`
}

// Sphere is the TOML shape of a sphere builder config.
type Sphere struct {
	Radius   float64 `toml:"radius"`
	Density  float64 `toml:"density"`
	Friction float64 `toml:"friction"`
}

// Box is the TOML shape of a box builder config.
type Box struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Density float64 `toml:"density"`
}

// File is a full tag-to-config mapping. Each map key is the tag the
// builder is registered under.
type File struct {
	Rods       map[string]Rod       `toml:"rods"`
	Spheres    map[string]Sphere    `toml:"spheres"`
	Boxes      map[string]Box       `toml:"boxes"`
	Strings    map[string]String    `toml:"strings"`
	Hinges     map[string]Hinge     `toml:"hinges"`
	Prismatics map[string]Prismatic `toml:"prismatics"`
	Cables     map[string]Cable     `toml:"cables"`
}

// Parse decodes a TOML document into a File.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &f, nil
}

// Registry builds a registry from the mapping. Map iteration order does
// not matter: phase separation in the compiler makes build output
// independent of registration order.
func (f *File) Registry() *build.Registry {
	reg := build.NewRegistry()
	for tag, c := range f.Rods {
		reg.Register(tag, build.RodBuilder{Config: build.RodConfig{
			Radius: c.Radius, Density: c.Density,
		}})
	}
	for tag, c := range f.Spheres {
		reg.Register(tag, build.SphereBuilder{Config: build.SphereConfig{
			Radius: c.Radius, Density: c.Density, Friction: c.Friction,
		}})
	}
	for tag, c := range f.Boxes {
		reg.Register(tag, build.BoxBuilder{Config: build.BoxConfig{
			Width: c.Width, Height: c.Height, Density: c.Density,
		}})
	}
	for tag, c := range f.Strings {
		reg.Register(tag, build.StringBuilder{Config: scene.StringConfig{
			Stiffness: c.Stiffness, Damping: c.Damping,
			MaxForce: c.MaxForce, MaxVel: c.MaxVel,
		}})
	}
	for tag, c := range f.Hinges {
		reg.Register(tag, build.HingeBuilder{Config: scene.HingeConfig{
			Axis:     c.Axis.vec(),
			MinAngle: c.MinAngle, MaxAngle: c.MaxAngle,
			Stiffness: c.Stiffness, Damping: c.Damping,
		}})
	}
	for tag, c := range f.Prismatics {
		reg.Register(tag, build.PrismaticBuilder{Config: scene.PrismaticConfig{
			Axis:         c.Axis.vec(),
			MinExtension: c.MinExtension, MaxExtension: c.MaxExtension,
			Stiffness: c.Stiffness, Damping: c.Damping,
			MotorForce: c.MotorForce,
		}})
	}
	for tag, c := range f.Cables {
		reg.Register(tag, build.FlexCableBuilder{Config: cable.Config{
			Resolution: c.Resolution, Stiffness: c.Stiffness,
			Damping: c.Damping, Bending: c.Bending, Density: c.Density,
		}})
	}
	return reg
}
