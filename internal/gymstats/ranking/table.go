package ranking

import (
	"math"
	"sort"

	"github.com/2beens/gymstats/internal/gymstats"

	"github.com/google/uuid"
)

// Threshold is the minimum score needed for a rank.
type Threshold struct {
	Rank gymstats.Rank `json:"rank"`
	Min  float64       `json:"min"`
}

// Table is a benchmark table for one target and gender, sorted by descending
// threshold.
type Table []Threshold

func NewTable(thresholds []Threshold) Table {
	t := make(Table, len(thresholds))
	copy(t, thresholds)
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].Min > t[j].Min
	})
	return t
}

// Assign returns the highest rank whose threshold the score meets. A score
// below every threshold gets the lowest rank. Only an empty table yields no rank.
func (t Table) Assign(score float64) (gymstats.Rank, bool) {
	if len(t) == 0 {
		return gymstats.Rank{}, false
	}
	for _, th := range t {
		if score >= th.Min {
			return th.Rank, true
		}
	}
	return t[len(t)-1].Rank, true
}

// Position of a rank counted from the bottom of the table, the lowest rank
// being 0. A missing rank is at the bottom, a rank the table does not know
// (a retired benchmark row) is -1.
func (t Table) Position(rankID *uuid.UUID) int {
	if rankID == nil {
		return 0
	}
	if i := t.index(*rankID); i >= 0 {
		return len(t) - 1 - i
	}
	return -1
}

func (t Table) index(rankID uuid.UUID) int {
	for i, th := range t {
		if th.Rank.ID == rankID {
			return i
		}
	}
	return -1
}

// Next returns the rank directly above the given one.
func (t Table) Next(rankID uuid.UUID) (Threshold, bool) {
	i := t.index(rankID)
	if i <= 0 {
		return Threshold{}, false
	}
	return t[i-1], true
}

// Progress reports how far the score has travelled from the current rank
// threshold towards the next one, in percent. The top rank is always 100.
func (t Table) Progress(score float64) (current Threshold, next *Threshold, percent float64, ok bool) {
	rank, ok := t.Assign(score)
	if !ok {
		return Threshold{}, nil, 0, false
	}
	i := t.index(rank.ID)
	current = t[i]
	if i == 0 {
		return current, nil, 100, true
	}

	n := t[i-1]
	span := n.Min - current.Min
	if span <= 0 {
		return current, &n, 100, true
	}
	percent = (score - current.Min) / span * 100
	percent = math.Max(0, math.Min(100, percent))
	return current, &n, percent, true
}
