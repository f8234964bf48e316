package scene

import (
	"image"
	"math"

	"github.com/example/snapmark/internal/annotation"
)

// hit priorities when distances tie; higher wins.
const (
	prioStep = iota
	prioShape
	prioText
)

// HitTest returns the id of the annotation under p, or "" when nothing
// is within reach. The closest candidate wins; a text hit counts as
// distance zero so the topmost visual layer is preferred. Ties are
// broken by text > shapes > steps, then by draw-order recency.
func (s *Scene) HitTest(p image.Point) string {
	bestID := ""
	bestDist := math.Inf(1)
	bestPrio := -1
	bestOrder := -1

	consider := func(id string, d float64, prio, order int) {
		if d < bestDist {
			bestID, bestDist, bestPrio, bestOrder = id, d, prio, order
			return
		}
		if d == bestDist {
			if prio > bestPrio || (prio == bestPrio && order > bestOrder) {
				bestID, bestPrio, bestOrder = id, prio, order
			}
		}
	}

	for order, id := range s.DrawOrder {
		if st := s.Step(id); st != nil {
			if d := annotation.DistanceToStep(*st, p); d < float64(2*st.Size) {
				consider(id, d, prioStep, order)
			}
			continue
		}
		if sh := s.Shape(id); sh != nil {
			if d := annotation.DistanceToShape(*sh, p); d < annotation.HitThreshold {
				consider(id, d, prioShape, order)
			}
			continue
		}
		if t := s.Text(id); t != nil && annotation.HitText(*t, p) {
			consider(id, 0, prioText, order)
		}
	}
	return bestID
}

// IntersectBand returns the ids of every annotation whose bounds
// intersect the rubber-band rectangle, in draw order.
func (s *Scene) IntersectBand(band image.Rectangle) []string {
	band = band.Canon()
	var ids []string
	for _, id := range s.DrawOrder {
		if s.Bounds(id).Overlaps(band) {
			ids = append(ids, id)
		}
	}
	return ids
}
