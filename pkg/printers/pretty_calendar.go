package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/frota/pkg/movement"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar renders the month of then, highlighting the days on which
// vehicles departed.
func (pp *PrettyPrint) Calendar(then time.Time, h movement.History) {
	count := make([]int, DaysIn(then))
	for _, r := range h {
		at := r.Start().At.Local()
		if at.Year() == then.Year() && at.Month() == then.Month() {
			count[at.Day()-1]++
		}
	}
	pp.PrintMonthCount(then, count)
}

// PrintMonthCount renders a month grid; days with a non-zero count are bold.
func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(pp.Writer(), "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(pp.Writer(), "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < DaysIn(then); i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(pp.Writer(), "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(pp.Writer(), "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(pp.Writer(), "\n")
		}
	}
	_, _ = fmt.Fprint(pp.Writer(), "\n\n")
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
