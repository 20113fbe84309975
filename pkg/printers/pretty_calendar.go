package printers

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/marker/pkg/highlight"
)

// Tracking prints the current month with days that saw highlight activity
// emphasized.
func (pp *PrettyPrint) Tracking(recs ...*highlight.Record) {
	now := time.Now()
	pp.PrintMonth(now, recs...)
}

// TrackingYear prints the whole year's activity, one month at a time.
func (pp *PrettyPrint) TrackingYear(recs ...*highlight.Record) {
	now := time.Now()
	now = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.Local)

	for i := 0; i < 12; i++ {
		pp.PrintMonth(now, recs...)
		now = NextMonth(now)
	}
}

const width = len("11 12 13 14 15 16 17") // an example week

func (pp *PrettyPrint) PrintMonth(then time.Time, recs ...*highlight.Record) {
	days := DaysIn(then)

	count := make([]int, days)

	now := time.Now()
	for _, r := range recs {
		created := r.Created(now).Local()
		if created.Year() == then.Local().Year() && created.Month() == then.Local().Month() {
			count[created.Day()-1]++
		}
	}

	pp.PrintMonthCount(then, count)
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	tf.Printf("%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		if i < d {
			fmt.Print("   ")
		}
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < days; i++ {
		if i < len(count) {
			if count[i] == 0 {
				l1.Printf("%2d ", i+1)
			} else {
				l2.Printf("%2d ", i+1)
			}
		} else {
			l1.Printf("%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			fmt.Print("\n")
		}
	}
	fmt.Print("\n\n")

}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Local().Year(), then.Local().Month()+1, then.Local().Day(), 1, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.UTC().Year(), then.UTC().Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.UTC().Year(), then.UTC().Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}

// --- Demo

func (pp *PrettyPrint) PrintMonthDemo(then time.Time) {
	days := DaysIn(then)

	count := make([]int, days)

	for i := 0; i < days; i++ {
		count[i] = rand.Intn(2)
	}

	pp.PrintMonthCount(then, count)
}
