package inmemdb

import (
	"sync"

	"github.com/neptune-academy/reportcards/core/exam"
	"github.com/neptune-academy/reportcards/core/student"
)

type (
	// DB keeps every table in memory, used for tests & dry runs.
	DB struct {
		student *studentTable
		exam    *examTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student // {adm: Student}
	}

	examKey struct {
		term  exam.Term
		round exam.Round
	}

	examTable struct {
		sync.RWMutex
		table map[examKey][]exam.Entry
	}
)

func Open() *DB {
	return &DB{
		student: &studentTable{table: make(map[string]*student.Student)},
		exam:    &examTable{table: make(map[examKey][]exam.Entry)},
	}
}
