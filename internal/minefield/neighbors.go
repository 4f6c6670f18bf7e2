package minefield

// linkNeighbors wires the 8-connected adjacency of every cell by comparing
// every pair. It runs once per board; resets reuse the result.
func linkNeighbors(cells []Cell) {
	for i := range cells {
		for j := range cells {
			if i == j {
				continue
			}
			if adjacent(cells[i], cells[j]) {
				cells[i].neighbors = append(cells[i].neighbors, j)
			}
		}
	}
}

func adjacent(a, b Cell) bool {
	return absInt(a.row-b.row) <= 1 && absInt(a.col-b.col) <= 1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
