package engine

// FitsAnywhere reports whether shape, in any of its four orientations, can be
// placed somewhere on board. Empty padding rows and columns may hang off the
// board, so anchors are searched over the trimmed bounding box.
func FitsAnywhere(board Board, shape Shape) bool {
	for turn := 0; turn < Orientations; turn++ {
		rotated := shape.ApplyRotations(turn)
		trimmed, off := rotated.Trim()
		for r := 0; r+trimmed.Rows() <= board.Size(); r++ {
			for c := 0; c+trimmed.Cols() <= board.Size(); c++ {
				anchor := Coordinate{Row: r - off.Row, Col: c - off.Col}
				if board.IsPlaceable(rotated, anchor) {
					return true
				}
			}
		}
	}
	return false
}

// CountPlacements counts the anchors where shape fits on board in its
// current orientation
func CountPlacements(board Board, shape Shape) int {
	count := 0
	for r := 0; r < board.Size(); r++ {
		for c := 0; c < board.Size(); c++ {
			if board.IsPlaceable(shape, Coordinate{Row: r, Col: c}) {
				count++
			}
		}
	}
	return count
}

// PieceArea sums the filled cells of pieces
func PieceArea(pieces []Piece) int {
	area := 0
	for _, p := range pieces {
		area += p.Shape.FilledCount()
	}
	return area
}

// SmallestPiece returns the filled-cell count of the smallest piece, or 0
// when pieces is empty
func SmallestPiece(pieces []Piece) int {
	smallest := 0
	for _, p := range pieces {
		n := p.Shape.FilledCount()
		if smallest == 0 || n < smallest {
			smallest = n
		}
	}
	return smallest
}

// FreeRegions returns the 4-connected regions of empty cells, each listed in
// discovery order, scanning the board row by row
func FreeRegions(board Board) [][]Coordinate {
	size := board.Size()
	visited := make([]bool, size*size)
	var regions [][]Coordinate

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			start := Coordinate{Row: r, Col: c}
			if visited[r*size+c] || !board.Cell(start).IsEmpty() {
				continue
			}

			region := []Coordinate{}
			queue := []Coordinate{start}
			visited[r*size+c] = true
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				region = append(region, cur)

				for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					n := cur.Offset(d[0], d[1])
					if !board.InBounds(n) || visited[n.Row*size+n.Col] || !board.Cell(n).IsEmpty() {
						continue
					}
					visited[n.Row*size+n.Col] = true
					queue = append(queue, n)
				}
			}
			regions = append(regions, region)
		}
	}
	return regions
}

// DeadRegions returns the free regions with fewer cells than minArea; no
// piece of at least minArea cells can ever fill them
func DeadRegions(board Board, minArea int) [][]Coordinate {
	var dead [][]Coordinate
	for _, region := range FreeRegions(board) {
		if len(region) < minArea {
			dead = append(dead, region)
		}
	}
	return dead
}
