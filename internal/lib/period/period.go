// Package period реализует вычисление границ расчётного периода (календарный месяц).
//
// Это единственное место в системе, где вычисляются границы периода:
// проверка квоты и запись расхода обязаны использовать одни и те же границы,
// иначе счётчики уедут в соседний месяц.
package period

import (
	"fmt"
	"time"
)

// Period описывает расчётный период учёта квот.
// Start — первый момент месяца в UTC, End — первый момент следующего
// месяца в UTC. Правая граница не включается: период есть [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// Current возвращает период календарного месяца, содержащего now.
// Момент времени приводится к UTC до усечения, чтобы границы
// не зависели от локали процесса.
func Current(now time.Time) Period {
	t := now.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

// Key возвращает стабильный строковый идентификатор периода вида "2006-01".
// Используется как часть ключа кеша.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Start.Year(), int(p.Start.Month()))
}

// Contains сообщает, попадает ли момент t в период [Start, End).
func (p Period) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(p.Start) && u.Before(p.End)
}
