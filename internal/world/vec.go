// Package world provides the shared village space: 2D geometry, the village
// clock, the tagged-location registry, simulated walking, and the registry of
// villagers that provider discovery scans.
package world

import "math"

// Vec2 is a position in the village plane, in centimeters.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by f.
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// Len returns the vector length.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the distance between two positions.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}
