package date

// Range represents a range of dates, both boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range between two dates, swapping them if needed.
func NewRange(from, to Date) Range {
	if to.Before(from) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Months returns the range widened to whole months: from the first day of
// From's month to the last day of To's month.
func (r Range) Months() Range {
	return Range{From: r.From.StartOfMonth(), To: r.To.EndOfMonth()}
}

// Days returns the number of days in the range, both boundaries included.
func (r Range) Days() int { return r.From.DaysUntil(r.To) + 1 }

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
