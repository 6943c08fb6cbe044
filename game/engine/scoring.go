package engine

import "sort"

// ClassicScoreTable returns the official Knister point values.
func ClassicScoreTable() ScoreTable {
	return ScoreTable{
		FiveOfAKind:        10,
		FourOfAKind:        6,
		FullHouse:          8,
		ThreeOfAKind:       3,
		TwoPairs:           3,
		OnePair:            1,
		StraightWithPivot:  8,
		StraightNoPivot:    12,
		DiagonalMultiplier: 2,
	}
}

// StraightPivot returns the value that downgrades a straight when present.
// For the classic two six-sided dice this is 7, the most probable total.
func (d DiceConfig) StraightPivot() int {
	return d.Count * (d.Faces + 1) / 2
}

// ScoreLine computes the score of a single row, column, or diagonal. Zeros
// mark empty cells and are ignored; fewer than two filled cells never score.
//
// Classification goes strictly by the multiset of value multiplicities,
// sorted descending, and the branch order matters: [4,1] must hit four of a
// kind before any pair check can see it, while [3,1,1] falls through full
// house to three of a kind. Straights are checked last and require the whole
// line filled with distinct consecutive values.
func ScoreLine(line []int, table ScoreTable, pivot int) int {
	values := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return 0
	}

	counts := multiplicities(values)

	switch {
	case counts[0] == 5:
		return table.FiveOfAKind
	case counts[0] == 4:
		return table.FourOfAKind
	case counts[0] == 3 && len(counts) == 2 && counts[1] == 2:
		return table.FullHouse
	case counts[0] == 2 && len(counts) >= 2 && counts[1] == 2:
		return table.TwoPairs
	case counts[0] == 3:
		return table.ThreeOfAKind
	case counts[0] == 2:
		return table.OnePair
	}

	// All values distinct from here on.
	if len(values) == len(line) && isStraight(values) {
		if contains(values, pivot) {
			return table.StraightWithPivot
		}
		return table.StraightNoPivot
	}

	return 0
}

// TotalScore computes the total score of a grid: every row and column once,
// plus both diagonals weighted by the diagonal multiplier. It is a pure
// function of the grid contents.
func TotalScore(grid [][]int, table ScoreTable, pivot int) int {
	size := len(grid)
	score := 0

	col := make([]int, size)
	for i := 0; i < size; i++ {
		score += ScoreLine(grid[i], table, pivot)
		for j := 0; j < size; j++ {
			col[j] = grid[j][i]
		}
		score += ScoreLine(col, table, pivot)
	}

	main := make([]int, size)
	anti := make([]int, size)
	for i := 0; i < size; i++ {
		main[i] = grid[i][i]
		anti[i] = grid[i][size-1-i]
	}
	score += ScoreLine(main, table, pivot) * table.DiagonalMultiplier
	score += ScoreLine(anti, table, pivot) * table.DiagonalMultiplier

	return score
}

// multiplicities returns the counts of each distinct value, sorted descending.
func multiplicities(values []int) []int {
	byValue := make(map[int]int, len(values))
	for _, v := range values {
		byValue[v]++
	}
	counts := make([]int, 0, len(byValue))
	for _, c := range byValue {
		counts = append(counts, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	return counts
}

// isStraight reports whether the distinct values form a run of consecutive
// integers when sorted.
func isStraight(values []int) bool {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] != 1 {
			return false
		}
	}
	return true
}

func contains(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
