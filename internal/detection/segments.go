package detection

import (
	"math"
	"sort"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
)

// Direction classifies a straight stroke segment.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
	Diagonal   Direction = "diagonal"
)

const (
	numAngles   = 180
	lineBand    = 2.0
	maxSegments = 32
)

// Segment is a straight run of ink found by the Hough transform.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`

	// Length is the distance between Start and End, rounded to 0.1 px.
	Length float64 `json:"length"`

	// AngleDegrees is the segment direction in [0, 180), measured from the
	// positive X axis with Y pointing down.
	AngleDegrees float64 `json:"angle_degrees"`

	Direction Direction `json:"direction"`

	// Thickness is the number of inked pixels across the segment's midpoint.
	Thickness int `json:"thickness"`

	// Pixels is the number of inked pixels assigned to the segment.
	Pixels int `json:"pixels"`
}

// DetectSegments finds straight stroke segments in an ink image.
//
// Inked pixels (value > threshold) vote in a (rho, theta) Hough accumulator
// with one-degree steps. Local maxima are visited in descending vote order;
// the unclaimed inked pixels within two pixels of its line become a segment
// when there are at least minLength of them spanning at least minLength
// pixels. The segment then claims every pixel within half its thickness of
// the line, and claimed pixels are ignored by later peaks, so a thick stroke
// produces one segment rather than several parallel ones.
//
// Segments are returned in the order they were found, strongest first. At
// most 32 are reported.
func DetectSegments(img *imaging.InkImage, threshold float64, minLength int) []Segment {
	size := img.Size
	if minLength < 2 {
		minLength = 2
	}

	points := make([]Point, 0)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if img.Pix[y*size+x] > threshold {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	if len(points) < minLength {
		return []Segment{}
	}

	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for theta := 0; theta < numAngles; theta++ {
		angle := float64(theta) * math.Pi / 180.0
		cosT[theta] = math.Cos(angle)
		sinT[theta] = math.Sin(angle)
	}

	// Vote in Hough space
	maxDist := int(math.Ceil(math.Sqrt2 * float64(size)))
	accumulator := make([][]int, maxDist*2+1)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}
	for _, p := range points {
		for theta := 0; theta < numAngles; theta++ {
			rho := float64(p.X)*cosT[theta] + float64(p.Y)*sinT[theta]
			accumulator[int(math.Round(rho))+maxDist][theta]++
		}
	}

	type peak struct {
		rho   int
		theta int
		votes int
	}
	peaks := make([]peak, 0)
	for rhoIdx := range accumulator {
		for theta := 0; theta < numAngles; theta++ {
			votes := accumulator[rhoIdx][theta]
			if votes < minLength {
				continue
			}
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := rhoIdx + dr
					nt := (theta + dt + numAngles) % numAngles
					if nr >= 0 && nr < len(accumulator) && accumulator[nr][nt] > votes {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{rho: rhoIdx - maxDist, theta: theta, votes: votes})
			}
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	claimed := make([]bool, len(points))
	segments := make([]Segment, 0)
	for _, pk := range peaks {
		if len(segments) >= maxSegments {
			break
		}
		cosA := cosT[pk.theta]
		sinA := sinT[pk.theta]
		rho := float64(pk.rho)

		// Project the band's pixels onto the line direction (-sin, cos) to
		// find the endpoints.
		members := make([]int, 0)
		minT, maxT := math.MaxFloat64, -math.MaxFloat64
		var start, end Point
		for i, p := range points {
			if claimed[i] {
				continue
			}
			if math.Abs(float64(p.X)*cosA+float64(p.Y)*sinA-rho) >= lineBand {
				continue
			}
			members = append(members, i)
			t := -float64(p.X)*sinA + float64(p.Y)*cosA
			if t < minT {
				minT = t
				start = p
			}
			if t > maxT {
				maxT = t
				end = p
			}
		}
		if len(members) < minLength {
			continue
		}

		dx := float64(end.X - start.X)
		dy := float64(end.Y - start.Y)
		length := math.Sqrt(dx*dx + dy*dy)
		if length < float64(minLength) {
			continue
		}

		thickness := estimateThickness(img, threshold, start, end)
		band := math.Max(lineBand, float64(thickness)/2+1)
		for i, p := range points {
			if !claimed[i] && math.Abs(float64(p.X)*cosA+float64(p.Y)*sinA-rho) < band {
				claimed[i] = true
			}
		}

		angle := math.Atan2(dy, dx) * 180 / math.Pi
		if angle < 0 {
			angle += 180
		}
		if angle >= 180 {
			angle -= 180
		}
		if start.X > end.X || (start.X == end.X && start.Y > end.Y) {
			start, end = end, start
		}

		segments = append(segments, Segment{
			Start:        start,
			End:          end,
			Length:       math.Round(length*10) / 10,
			AngleDegrees: math.Round(angle*10) / 10,
			Direction:    classify(angle),
			Thickness:    thickness,
			Pixels:       len(members),
		})
	}
	return segments
}

func classify(angle float64) Direction {
	switch {
	case angle < 22.5 || angle >= 157.5:
		return Horizontal
	case angle >= 67.5 && angle < 112.5:
		return Vertical
	default:
		return Diagonal
	}
}

// estimateThickness counts inked pixels along perpendiculars at a quarter,
// half, and three quarters of the way along the segment and returns the
// median, so a crossing stroke at one sample does not inflate the result.
func estimateThickness(img *imaging.InkImage, threshold float64, start, end Point) int {
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return 1
	}

	perpX := -dy / length
	perpY := dx / length

	counts := make([]int, 0, 3)
	for _, f := range []float64{0.25, 0.5, 0.75} {
		midX := float64(start.X) + f*dx
		midY := float64(start.Y) + f*dy
		count := 0
		for d := -8; d <= 8; d++ {
			px := int(math.Round(midX + float64(d)*perpX))
			py := int(math.Round(midY + float64(d)*perpY))
			if px >= 0 && px < img.Size && py >= 0 && py < img.Size && img.Pix[py*img.Size+px] > threshold {
				count++
			}
		}
		counts = append(counts, count)
	}
	sort.Ints(counts)

	if counts[1] < 1 {
		return 1
	}
	return counts[1]
}
