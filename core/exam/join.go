package exam

import "fmt"

// Join lines up the three round tables by student ID and computes every deviation.
// The tables must list the same students, in any order; the output keeps the opener order.
// Any malformed input fails the whole batch.
func (g Grader) Join(subjects []Subject, opener, midterm, endterm []Entry) (*Results, error) {
	rounds := [NumRounds][]Entry{opener, midterm, endterm}
	rows, err := indexRounds(rounds)
	if err != nil {
		return nil, err
	}
	for _, r := range Rounds {
		for _, entry := range rounds[r] {
			if err := checkScores(r, entry, len(subjects)); err != nil {
				return nil, err
			}
		}
	}

	n := len(opener)
	res := &Results{
		records: make([]StudentRecord, 0, n),
		index:   make(map[string]int, n),
	}
	for _, first := range opener {
		var entries [NumRounds]Entry
		for _, r := range Rounds {
			entries[r] = rounds[r][rows[r][first.StudentID]]
		}

		rec := StudentRecord{
			StudentID: first.StudentID,
			Subjects:  make([]SubjectResult, len(subjects)),
		}

		var means [NumRounds]Mean
		for _, r := range Rounds {
			rec.Summaries[r] = entries[r].Summary
			means[r] = entries[r].Summary.Mean
		}
		rec.MeanDeviation = g.SummaryDeviation(means)
		rec.MeanColor = rec.MeanDeviation.Color()

		for s, subj := range subjects {
			var scores [NumRounds]Score
			for _, r := range Rounds {
				scores[r] = entries[r].Scores[s]
			}
			dev := g.SubjectDeviation(scores)
			rec.Subjects[s] = SubjectResult{
				Subject:   subj,
				Scores:    scores,
				Deviation: dev,
				Color:     dev.Color(),
			}
		}

		res.index[rec.StudentID] = len(res.records)
		res.records = append(res.records, rec)
	}
	return res, nil
}

// Join uses the default grading policy.
func Join(subjects []Subject, opener, midterm, endterm []Entry) (*Results, error) {
	return defaultGrader.Join(subjects, opener, midterm, endterm)
}

// indexRounds maps every student ID to its row, per round, and checks the three tables hold the same students.
func indexRounds(rounds [NumRounds][]Entry) ([NumRounds]map[string]int, error) {
	var rows [NumRounds]map[string]int
	opener := rounds[Opener]
	for _, r := range Rounds[1:] {
		if len(rounds[r]) != len(opener) {
			return rows, &MismatchedRoundsError{
				Round:    r,
				Position: -1,
				Msg:      fmt.Sprintf("has %d students, %s has %d", len(rounds[r]), Opener, len(opener)),
			}
		}
	}

	for _, r := range Rounds {
		rows[r] = make(map[string]int, len(rounds[r]))
		for i, entry := range rounds[r] {
			if entry.StudentID == "" {
				return rows, &MismatchedRoundsError{Round: r, Position: i, Msg: "missing student id"}
			}
			if _, ok := rows[r][entry.StudentID]; ok {
				return rows, &MismatchedRoundsError{
					Round:    r,
					Position: i,
					Msg:      fmt.Sprintf("duplicate student id %q", entry.StudentID),
				}
			}
			rows[r][entry.StudentID] = i
		}
	}

	// same length & unique IDs: the sets are equal when every ID is known to the opener table
	for _, r := range Rounds[1:] {
		for i, entry := range rounds[r] {
			if _, ok := rows[Opener][entry.StudentID]; !ok {
				return rows, &MismatchedRoundsError{
					Round:    r,
					Position: i,
					Msg:      fmt.Sprintf("student id %q is not in the %s table", entry.StudentID, Opener),
				}
			}
		}
	}
	return rows, nil
}

func checkScores(r Round, entry Entry, numSubjects int) error {
	if len(entry.Scores) != numSubjects {
		return &InvalidScoreError{
			StudentID: entry.StudentID,
			Round:     r,
			Subject:   -1,
			Msg:       fmt.Sprintf("has %d scores, want one per subject (%d)", len(entry.Scores), numSubjects),
		}
	}
	for s, score := range entry.Scores {
		if score.Mark == MissingMark {
			return &InvalidScoreError{
				StudentID: entry.StudentID,
				Round:     r,
				Subject:   s,
				Mark:      score.Mark,
				Msg:       "missing mark",
			}
		}
		if score.Mark < AbsentMark || score.Mark > MaxMark {
			return &InvalidScoreError{
				StudentID: entry.StudentID,
				Round:     r,
				Subject:   s,
				Mark:      score.Mark,
				Msg:       fmt.Sprintf("mark %d outside [%d, %d]", score.Mark, AbsentMark, MaxMark),
			}
		}
	}
	return nil
}
