package exam

import "sort"

// Ranking holds class positions. Students sharing a mean share a position.
type Ranking struct {
	positions map[string]int
	outOf     int
}

// Rank orders the class by endterm mean, highest first. Students without an endterm mean come last.
func Rank(res *Results) Ranking {
	recs := res.All()
	mean := func(rec StudentRecord) Mean { return rec.Summaries[Endterm].Mean }
	sort.SliceStable(recs, func(i, j int) bool {
		mi, mj := mean(recs[i]), mean(recs[j])
		if mi.Valid != mj.Valid {
			return mi.Valid
		}
		return mi.Value > mj.Value
	})

	ranking := Ranking{positions: make(map[string]int, len(recs)), outOf: len(recs)}
	for i, rec := range recs {
		pos := i + 1
		if i > 0 && mean(recs[i-1]) == mean(rec) {
			pos = ranking.positions[recs[i-1].StudentID]
		}
		ranking.positions[rec.StudentID] = pos
	}
	return ranking
}

// Position returns 0 for unknown students.
func (r Ranking) Position(studentID string) int { return r.positions[studentID] }

func (r Ranking) OutOf() int { return r.outOf }
