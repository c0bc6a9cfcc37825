package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aristath/stepweaver/internal/scheduler"
)

// RenderTimeline draws one row per worker with a column per tick, showing
// which task occupied the slot ('.' when idle). Schedules longer than
// maxWidth ticks are sampled so each column covers several ticks.
func RenderTimeline(sched *scheduler.Schedule, maxWidth int) string {
	if sched == nil || sched.Ticks == 0 {
		return StyleHelp.Render("(empty schedule)")
	}
	if maxWidth < 1 {
		maxWidth = sched.Ticks
	}
	step := (sched.Ticks + maxWidth - 1) / maxWidth
	cols := (sched.Ticks + step - 1) / step

	rows := make([][]rune, sched.Workers)
	for w := range rows {
		rows[w] = []rune(strings.Repeat(".", cols))
	}
	for _, sp := range sched.Spans {
		r, _ := utf8.DecodeRuneInString(sp.Task)
		for c := 0; c < cols; c++ {
			t := c * step
			if t >= sp.Start && t < sp.End {
				rows[sp.Worker][c] = r
			}
		}
	}

	var b strings.Builder
	header := fmt.Sprintf("%d ticks, %d workers", sched.Ticks, sched.Workers)
	if step > 1 {
		header += fmt.Sprintf(", 1 column = %d ticks", step)
	}
	b.WriteString(StyleTitle.Render(header))
	b.WriteString("\n")
	for w, row := range rows {
		b.WriteString(fmt.Sprintf("W%-2d |%s|\n", w, string(row)))
	}
	return b.String()
}
