package posture

import (
	"errors"
	"math"
)

//ErrDegenerateGeometry is returned when an angle is asked for around a zero-length vector (two points coincide)
var ErrDegenerateGeometry = errors.New("degenerate geometry: zero-length vector")

//Point is a 2D position in normalized image coordinates (y grows downwards)
type Point struct {
	X float64
	Y float64
}

//Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Scale(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

//Norm is the euclidean length of p as a vector
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

//Dist returns the euclidean distance between p and q
func Dist(p, q Point) float64 {
	return q.Sub(p).Norm()
}

//Midpoint returns the component-wise average of p and q
func Midpoint(p, q Point) Point {
	return p.Add(q).Scale(0.5)
}

//AngleAt returns, in degrees, the angle between a = p - q and b = q - r.
//For three collinear points in order p, q, r the result is 0.
func AngleAt(p, q, r Point) (float64, error) {
	a := p.Sub(q)
	b := q.Sub(r)

	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0, ErrDegenerateGeometry
	}

	cos := a.Dot(b) / (na * nb)
	//rounding can push the cosine slightly outside acos' domain
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, nil
}
