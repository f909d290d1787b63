package anim

import "math"

// CubicSpline is a piecewise cubic Hermite curve through n-dimensional
// samples at increasing times.
//
// Knots are stored per sample and per dimension as the triplet
// (in-tangent, value, out-tangent), with tangents already scaled to the
// normalized segment parameter.
type CubicSpline struct {
	times []float64
	knots []float64
	dim   int
}

// NewCubicSpline wraps precomputed knots. len(knots) must be len(times)*dim*3.
func NewCubicSpline(times, knots []float64) *CubicSpline {
	dim := 0
	if len(times) > 0 {
		dim = len(knots) / len(times) / 3
	}
	return &CubicSpline{times: times, knots: knots, dim: dim}
}

// SplineFromPoints fits a spline through points, which holds len(times)
// samples of equal dimension laid out back to back.
// Smoothness scales the tangents: 0 gives straight segments, 1 a
// Catmull-Rom style curve.
func SplineFromPoints(times, points []float64, smoothness float64) *CubicSpline {
	return NewCubicSpline(times, calcKnots(times, points, smoothness))
}

// SplineFromPointsLooping fits a spline that wraps around after length.
// The last two samples are prepended shifted back by length and the first
// two appended shifted forward, so tangents at both ends see the samples
// across the seam.
func SplineFromPointsLooping(length float64, times, points []float64, smoothness float64) *CubicSpline {
	if len(times) < 2 {
		return SplineFromPoints(times, points, smoothness)
	}

	n := len(times)
	dim := len(points) / n

	newTimes := make([]float64, 0, n+4)
	newTimes = append(newTimes, times[n-2]-length, times[n-1]-length)
	newTimes = append(newTimes, times...)
	newTimes = append(newTimes, length+times[0], length+times[1])

	newPoints := make([]float64, 0, len(points)+dim*4)
	newPoints = append(newPoints, points[len(points)-dim*2:]...)
	newPoints = append(newPoints, points...)
	newPoints = append(newPoints, points[:dim*2]...)

	return SplineFromPoints(newTimes, newPoints, smoothness)
}

// Dim returns the number of values produced per evaluation
func (s *CubicSpline) Dim() int {
	return s.dim
}

// Evaluate writes the curve value at time t into result, which must hold
// at least Dim values. Times outside the sampled range clamp to the end
// samples. An empty spline writes NaN.
func (s *CubicSpline) Evaluate(t float64, result []float64) {
	times := s.times
	if len(times) == 0 {
		for i := range result {
			result[i] = math.NaN()
		}
		return
	}

	last := len(times) - 1
	switch {
	case t <= times[0]:
		s.knot(0, result)
	case t >= times[last]:
		s.knot(last, result)
	default:
		seg := 0
		for t >= times[seg+1] {
			seg++
		}
		s.evaluateSegment(seg, (t-times[seg])/(times[seg+1]-times[seg]), result)
	}
}

func (s *CubicSpline) knot(index int, result []float64) {
	idx := index * 3 * s.dim
	for i := 0; i < s.dim; i++ {
		result[i] = s.knots[idx+i*3+1]
	}
}

func (s *CubicSpline) evaluateSegment(segment int, t float64, result []float64) {
	dim := s.dim
	knots := s.knots

	t2 := t * t
	twot := t + t
	omt := 1 - t
	omt2 := omt * omt

	idx := segment * dim * 3
	for i := 0; i < dim; i++ {
		p0 := knots[idx+1]
		m0 := knots[idx+2]
		m1 := knots[idx+dim*3]
		p1 := knots[idx+dim*3+1]
		idx += 3

		result[i] = p0*((1+twot)*omt2) +
			m0*(t*omt2) +
			p1*(t2*(3-twot)) +
			m1*(t2*(t-1))
	}
}

func calcKnots(times, points []float64, smoothness float64) []float64 {
	n := len(times)
	if n == 0 {
		return nil
	}
	dim := len(points) / n
	knots := make([]float64, n*dim*3)

	for i := 0; i < n; i++ {
		t := times[i]

		for j := 0; j < dim; j++ {
			idx := i*dim + j
			p := points[idx]

			var tangent float64
			switch {
			case n == 1:
				tangent = 0
			case i == 0:
				tangent = (points[idx+dim] - p) / (times[i+1] - t)
			case i == n-1:
				tangent = (p - points[idx-dim]) / (t - times[i-1])
			default:
				tangent = (points[idx+dim] - points[idx-dim]) / (times[i+1] - times[i-1])
			}

			// convert to derivatives w.r.t. the normalized segment parameter
			var inScale, outScale float64
			if n > 1 {
				if i > 0 {
					inScale = times[i] - times[i-1]
				} else {
					inScale = times[1] - times[0]
				}
				if i < n-1 {
					outScale = times[i+1] - times[i]
				} else {
					outScale = times[i] - times[i-1]
				}
			}

			knots[idx*3] = tangent * inScale * smoothness
			knots[idx*3+1] = p
			knots[idx*3+2] = tangent * outScale * smoothness
		}
	}

	return knots
}
