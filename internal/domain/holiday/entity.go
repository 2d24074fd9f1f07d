package holiday

import "strings"

type HolidayType string

const (
	HolidayTypeRegular    HolidayType = "regular"
	HolidayTypeNonWorking HolidayType = "non-working"
)

// Holiday is a calendar entry sourced from the company holiday list.
type Holiday struct {
	ID   string      `json:"id,omitempty"`
	Date string      `json:"date"`
	Name string      `json:"name"`
	Type HolidayType `json:"type"`
}

// TypeFromFlag maps the store's is_regular flag to a HolidayType.
func TypeFromFlag(isRegular bool) HolidayType {
	if isRegular {
		return HolidayTypeRegular
	}
	return HolidayTypeNonWorking
}

// NormalizeDate trims timestamp suffixes ("2025-12-25T00:00:00Z",
// "2025-12-25 00:00:00") down to YYYY-MM-DD.
func NormalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if len(date) > 10 && (date[10] == 'T' || date[10] == ' ') {
		return date[:10]
	}
	return date
}

// Normalize returns a copy of the holidays with normalized dates. Entries
// sharing a date keep the first regular holiday, else the first entry.
func Normalize(holidays []Holiday) []Holiday {
	seen := make(map[string]int, len(holidays))
	out := make([]Holiday, 0, len(holidays))
	for _, h := range holidays {
		h.Date = NormalizeDate(h.Date)
		if i, ok := seen[h.Date]; ok {
			if out[i].Type != HolidayTypeRegular && h.Type == HolidayTypeRegular {
				out[i] = h
			}
			continue
		}
		seen[h.Date] = len(out)
		out = append(out, h)
	}
	return out
}
