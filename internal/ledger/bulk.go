package ledger

import "github.com/advdiary/advdiary/internal/records"

// CompleteCases returns updated copies of every case whose id appears in ids,
// with status set to Completed. Ids with no matching case are skipped; only
// the status changes on the copies (the repository refreshes updatedAt on
// write).
func CompleteCases(ids []string, cases []records.Case) []records.Case {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var updated []records.Case
	for _, c := range cases {
		if _, ok := want[c.CaseID]; ok {
			c.Status = records.StatusCompleted
			updated = append(updated, c)
		}
	}
	return updated
}
