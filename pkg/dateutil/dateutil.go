package dateutil

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date without time-of-day or timezone. Service records
// are effective at day granularity, so the whole engine works on these
// triples instead of time.Time instants.
type Date struct {
	Year  int
	Month int
	Day   int
}

// MinYear and MaxYear bound the accepted range of calendar years.
const (
	MinYear = 1900
	MaxYear = 3099
)

// ErrInvalidDate is returned for strings that parse structurally but do not
// represent a real calendar date (e.g. 30 February).
var ErrInvalidDate = errors.New("invalid calendar date")

// New constructs a validated Date.
func New(year, month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// Parse accepts ISO (YYYY-MM-DD) or display (DD/MM/YYYY) input.
func Parse(input string) (Date, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Date{}, fmt.Errorf("parse date: empty input")
	}

	var year, month, day int
	var err error
	switch {
	case strings.Contains(s, "-"):
		_, err = fmt.Sscanf(s, "%d-%d-%d", &year, &month, &day)
	case strings.Contains(s, "/"):
		_, err = fmt.Sscanf(s, "%d/%d/%d", &day, &month, &year)
	default:
		return Date{}, fmt.Errorf("parse date %q: unrecognised format", s)
	}
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}

	return New(year, month, day)
}

// Validate checks the year range and that the day exists in the month,
// accounting for leap years.
func (d Date) Validate() error {
	if d.Year < MinYear || d.Year > MaxYear {
		return fmt.Errorf("%w: year %d outside [%d, %d]", ErrInvalidDate, d.Year, MinYear, MaxYear)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, d.Month)
	}
	if d.Day < 1 || d.Day > daysInMonth(d.Year, d.Month) {
		return fmt.Errorf("%w: day %d in %04d-%02d", ErrInvalidDate, d.Day, d.Year, d.Month)
	}
	return nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if isLeap(year) {
			return 29
		}
		return 28
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats the date as ISO YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Display formats the date as DD/MM/YYYY for form-facing output.
func (d Date) Display() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// Compare returns -1, 0 or 1 ordering a relative to b.
func Compare(a, b Date) int {
	switch {
	case a.Year != b.Year:
		return sign(a.Year - b.Year)
	case a.Month != b.Month:
		return sign(a.Month - b.Month)
	default:
		return sign(a.Day - b.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return Compare(d, other) < 0 }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return Compare(d, other) > 0 }

// Equal reports whether the two dates are the same day.
func (d Date) Equal(other Date) bool { return d == other }

// Time converts to a UTC midnight time.Time.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// FromTime truncates a time.Time to its calendar date.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddYears returns the date n years later. 29 February rolls forward to
// 1 March in non-leap target years, matching time.Time normalisation.
func (d Date) AddYears(n int) Date {
	return FromTime(d.Time().AddDate(n, 0, 0))
}

// DaysBetweenInclusive returns |b-a| in days plus one, counting both
// endpoints. Used for leave durations and absence spans.
func DaysBetweenInclusive(a, b Date) int {
	diff := b.Time().Sub(a.Time()) / (24 * time.Hour)
	if diff < 0 {
		diff = -diff
	}
	return int(diff) + 1
}

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if Compare(a, b) <= 0 {
		return a
	}
	return b
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if Compare(a, b) >= 0 {
		return a
	}
	return b
}

// MarshalJSON emits the ISO form.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null, ISO, or display formatted strings.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for DATE columns.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time(), nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into dateutil.Date", src)
	}
}
