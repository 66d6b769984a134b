package detection

import (
	"sort"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
)

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Component is one connected blob of ink.
type Component struct {
	// Bounds is the inclusive box around the blob.
	Bounds imaging.BoundingBox `json:"bounds"`

	// Pixels is the number of inked pixels in the blob.
	Pixels int `json:"pixels"`

	// CenterX and CenterY are the mean pixel coordinates.
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
}

// FindComponents groups inked pixels into 8-connected blobs.
//
// A pixel is inked when its value exceeds threshold. Blobs smaller than
// minPixels are dropped as noise. The result is sorted by size, largest first;
// blobs of equal size keep their scan order (top to bottom, left to right).
//
// Strokes that touch or cross merge into one blob, so the count is a lower
// bound on the number of strokes, never an estimate of it. A character like
// 三 yields three components; 十 yields one.
func FindComponents(img *imaging.InkImage, threshold float64, minPixels int) []Component {
	size := img.Size
	inked := make([]bool, len(img.Pix))
	for i, v := range img.Pix {
		inked[i] = v > threshold
	}
	visited := make([]bool, len(img.Pix))

	components := make([]Component, 0)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			idx := y*size + x
			if !inked[idx] || visited[idx] {
				continue
			}
			blob := floodFill(inked, visited, x, y, size)
			if len(blob) < minPixels {
				continue
			}
			components = append(components, summarize(blob))
		}
	}

	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Pixels > components[j].Pixels
	})
	return components
}

// floodFill collects the 8-connected inked region containing (startX, startY).
func floodFill(inked, visited []bool, startX, startY, size int) []Point {
	blob := make([]Point, 0)
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= size || p.Y < 0 || p.Y >= size {
			continue
		}
		idx := p.Y*size + p.X
		if visited[idx] || !inked[idx] {
			continue
		}

		visited[idx] = true
		blob = append(blob, p)

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return blob
}

func summarize(blob []Point) Component {
	first := blob[0]
	box := imaging.BoundingBox{MinX: first.X, MinY: first.Y, MaxX: first.X, MaxY: first.Y}
	var sumX, sumY int
	for _, p := range blob {
		if p.X < box.MinX {
			box.MinX = p.X
		}
		if p.X > box.MaxX {
			box.MaxX = p.X
		}
		if p.Y < box.MinY {
			box.MinY = p.Y
		}
		if p.Y > box.MaxY {
			box.MaxY = p.Y
		}
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(blob))
	return Component{
		Bounds:  box,
		Pixels:  len(blob),
		CenterX: float64(sumX) / n,
		CenterY: float64(sumY) / n,
	}
}
