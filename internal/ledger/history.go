package ledger

import (
	"sort"
	"time"

	"github.com/advdiary/advdiary/internal/records"
)

// Labels for the synthetic display-only entry derived from a legacy
// previousDate with no recorded history.
const (
	migratedStep  = "Previous Proceeding"
	migratedNotes = "Historical record migrated from previous date field."
)

const dateLayout = "2006-01-02"

// ApplyScheduleChange converts a superseded next-date into an immutable
// history entry. existing is the last persisted version of the case, or nil
// for a new case. When the next date changes, the pre-edit date, step and
// notes are appended to the history and the old date is recorded as the
// previous date; an edit that leaves the next date alone never fabricates a
// history entry. The appended item, if any, is returned alongside the final
// case.
func ApplyScheduleChange(existing *records.Case, incoming records.Case) (records.Case, *records.HistoryItem) {
	if existing == nil || existing.NextDate == incoming.NextDate {
		return incoming, nil
	}

	item := records.HistoryItem{
		Date:  existing.NextDate,
		Step:  existing.StepOfTheDay,
		Notes: existing.Notes,
	}

	final := incoming
	final.History = append(append([]records.HistoryItem(nil), existing.History...), item)
	final.PreviousDate = existing.NextDate
	return final, &item
}

// DisplayHistory returns the history entries to present for a case. A case
// that predates history tracking but carries a previous date gets a single
// synthetic entry; the derivation is display-only and is never written back.
func DisplayHistory(c records.Case) []records.HistoryItem {
	if len(c.History) > 0 {
		return append([]records.HistoryItem(nil), c.History...)
	}
	if c.PreviousDate != "" {
		return []records.HistoryItem{{
			Date:  c.PreviousDate,
			Step:  migratedStep,
			Notes: migratedNotes,
		}}
	}
	return nil
}

// SortForDisplay returns a copy of the entries ordered newest first. The
// stored sequence stays in insertion order; this ordering exists only for
// display and export.
func SortForDisplay(items []records.HistoryItem) []records.HistoryItem {
	out := append([]records.HistoryItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, erri := time.Parse(dateLayout, out[i].Date)
		tj, errj := time.Parse(dateLayout, out[j].Date)
		if erri != nil || errj != nil {
			return out[i].Date > out[j].Date
		}
		return ti.After(tj)
	})
	return out
}
