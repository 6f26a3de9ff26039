package picker

import (
	"time"

	"github.com/amonks/agenda/task"
)

// Day is one cell of the month grid.
type Day struct {
	Date     time.Time
	InMonth  bool
	Disabled bool
	Today    bool
	Selected bool
}

// Grid returns the displayed month as Monday-first weeks. Leading and
// trailing cells from neighbouring months are included and disabled.
func (p *Picker) Grid() [][]Day {
	p.mu.Lock()
	defer p.mu.Unlock()

	today := task.Day(p.clock.Now())
	first := p.month
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)

	var weeks [][]Day
	for cursor := start; ; {
		week := make([]Day, 7)
		for i := range week {
			week[i] = Day{
				Date:     cursor,
				InMonth:  cursor.Month() == first.Month() && cursor.Year() == first.Year(),
				Disabled: p.disabledLocked(cursor),
				Today:    cursor.Equal(today),
				Selected: !p.armed.IsZero() && cursor.Equal(p.armed),
			}
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
		if cursor.Month() != first.Month() || cursor.Year() != first.Year() {
			break
		}
	}
	return weeks
}
