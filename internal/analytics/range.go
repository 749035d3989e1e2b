package analytics

import (
	"fmt"
	"strconv"
	"time"
)

// Argentina is the dealership's local time. It has no DST.
var Argentina = time.FixedZone("ART", -3*60*60)

const defaultRangeDays = 7

// Range is a half-open report window [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

// ParseRange resolves the admin report window. Explicit from/to dates
// (YYYY-MM-DD, Argentina time) win over range; to is inclusive of its whole
// day. range is "today" or a positive number of days, defaulting to 7.
func ParseRange(rangeRaw, from, to string, now time.Time) Range {
	if from != "" || to != "" {
		start, ok := parseDay(from)
		if !ok {
			start = now.AddDate(0, 0, -defaultRangeDays)
		}
		end, ok := parseDay(to)
		if ok {
			end = end.AddDate(0, 0, 1)
		} else {
			end = now
		}

		var label string
		switch {
		case from != "" && to != "":
			label = fmt.Sprintf("Rango %s → %s", from, to)
		case from != "":
			label = "Desde " + from
		default:
			label = "Hasta " + to
		}
		return Range{Start: start, End: end, Label: label}
	}

	if rangeRaw == "today" {
		local := now.In(Argentina)
		midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Argentina)
		return Range{Start: midnight, End: now, Label: "Hoy"}
	}

	days := defaultRangeDays
	if n, err := strconv.Atoi(rangeRaw); err == nil && n > 0 {
		days = n
	}
	return Range{
		Start: now.AddDate(0, 0, -days),
		End:   now,
		Label: fmt.Sprintf("Últimos %d días", days),
	}
}

func parseDay(s string) (time.Time, bool) {
	if len(s) != len("2006-01-02") {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", s, Argentina)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
