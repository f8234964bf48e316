package annotation

import (
	"image"
	"math"
)

const (
	// HitThreshold is the maximum image-space distance at which a point
	// still counts as hitting a shape body.
	HitThreshold = 8.0
	// HandleRadius is the image-space radius around a resize handle.
	HandleRadius = 6.0
)

// Handle identifies a resize handle on a shape.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	// HandleStart and HandleEnd are the two arrow endpoints.
	HandleStart
	HandleEnd
)

func dist(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Hypot(dx, dy)
}

// DistanceToStep reports the Euclidean distance from p to the indicator
// centre. A step is hit while the distance is below its diameter.
func DistanceToStep(s StepIndicator, p image.Point) float64 {
	return dist(s.Pos, p)
}

// HitStep reports whether p hits the indicator.
func HitStep(s StepIndicator, p image.Point) bool {
	return DistanceToStep(s, p) < float64(2*s.Size)
}

// DistanceToRect reports the distance from p to the rectangle r: the
// distance to the nearest edge when p is inside, the distance to the
// nearest boundary point when outside.
func DistanceToRect(r image.Rectangle, p image.Point) float64 {
	r = r.Canon()
	if p.In(r) {
		left := float64(p.X - r.Min.X)
		right := float64(r.Max.X - p.X)
		top := float64(p.Y - r.Min.Y)
		bottom := float64(r.Max.Y - p.Y)
		return math.Min(math.Min(left, right), math.Min(top, bottom))
	}
	dx := 0.0
	if p.X < r.Min.X {
		dx = float64(r.Min.X - p.X)
	} else if p.X > r.Max.X {
		dx = float64(p.X - r.Max.X)
	}
	dy := 0.0
	if p.Y < r.Min.Y {
		dy = float64(r.Min.Y - p.Y)
	} else if p.Y > r.Max.Y {
		dy = float64(p.Y - r.Max.Y)
	}
	return math.Hypot(dx, dy)
}

// DistanceToSegment reports the distance from p to the segment a-b.
func DistanceToSegment(a, b, p image.Point) float64 {
	abx := float64(b.X - a.X)
	aby := float64(b.Y - a.Y)
	apx := float64(p.X - a.X)
	apy := float64(p.Y - a.Y)
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return dist(a, p)
	}
	t := (apx*abx + apy*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := float64(a.X) + t*abx
	cy := float64(a.Y) + t*aby
	return math.Hypot(float64(p.X)-cx, float64(p.Y)-cy)
}

// DistanceToShape dispatches on the shape kind.
func DistanceToShape(s Shape, p image.Point) float64 {
	switch s.Kind {
	case KindArrow:
		return DistanceToSegment(s.P1, s.P2, p)
	case KindRect, KindBlur:
		return DistanceToRect(s.Bounds(), p)
	default:
		return math.Inf(1)
	}
}

// HitShape reports whether p hits the shape body.
func HitShape(s Shape, p image.Point) bool {
	return DistanceToShape(s, p) < HitThreshold
}

// HitText reports whether p lies inside the cached text bounding box.
// Text hits are binary; callers give them priority over other kinds.
func HitText(t Text, p image.Point) bool {
	return p.In(t.Bounds())
}

// ShapeHandleAt reports which resize handle of s, if any, lies within
// HandleRadius of p. Arrows expose their two endpoints, boxes their
// four corners.
func ShapeHandleAt(s Shape, p image.Point) Handle {
	if s.Kind == KindArrow {
		if dist(s.P1, p) <= HandleRadius {
			return HandleStart
		}
		if dist(s.P2, p) <= HandleRadius {
			return HandleEnd
		}
		return HandleNone
	}
	b := s.Bounds()
	corners := []struct {
		pt image.Point
		h  Handle
	}{
		{b.Min, HandleTopLeft},
		{image.Pt(b.Max.X, b.Min.Y), HandleTopRight},
		{image.Pt(b.Min.X, b.Max.Y), HandleBottomLeft},
		{b.Max, HandleBottomRight},
	}
	for _, c := range corners {
		if dist(c.pt, p) <= HandleRadius {
			return c.h
		}
	}
	return HandleNone
}

// StepBounds returns the axis-aligned box covering the indicator circle.
func StepBounds(s StepIndicator) image.Rectangle {
	r := s.Size
	return image.Rect(s.Pos.X-r, s.Pos.Y-r, s.Pos.X+r, s.Pos.Y+r)
}
