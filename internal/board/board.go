package board

import "github.com/khrees2412/jobhunter/pkg/models"

// Lane is one column with its cards
type Lane struct {
	Column Column
	Jobs   []models.Job
}

// Board is the grouped job list. Every column is present, empty or not.
type Board struct {
	Lanes []Lane
}

// Group assigns every job to exactly one column, keeping input order
func Group(jobs []models.Job) Board {
	cols := Columns()
	index := make(map[Column]int, len(cols))
	b := Board{Lanes: make([]Lane, len(cols))}
	for i, c := range cols {
		index[c] = i
		b.Lanes[i] = Lane{Column: c, Jobs: []models.Job{}}
	}

	for _, job := range jobs {
		i := index[ColumnFor(job)]
		b.Lanes[i].Jobs = append(b.Lanes[i].Jobs, job)
	}
	return b
}

// Lane returns the lane for c
func (b Board) Lane(c Column) Lane {
	for _, l := range b.Lanes {
		if l.Column == c {
			return l
		}
	}
	return Lane{Column: c, Jobs: []models.Job{}}
}

// Count is the number of cards in c
func (b Board) Count(c Column) int {
	return len(b.Lane(c).Jobs)
}

// Total is the number of cards on the board
func (b Board) Total() int {
	n := 0
	for _, l := range b.Lanes {
		n += len(l.Jobs)
	}
	return n
}

// Counts maps each column to its card count
func (b Board) Counts() map[Column]int {
	out := make(map[Column]int, len(b.Lanes))
	for _, l := range b.Lanes {
		out[l.Column] = len(l.Jobs)
	}
	return out
}
