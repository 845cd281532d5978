package ledger

import "github.com/advdiary/advdiary/internal/records"

// LinkOnClientSave returns updated copies of every case whose case number
// matches the saved client's case number and which is not already linked to
// it. Matching is exact text equality on the human-entered case number, so a
// client may adopt several cases at once; cases already pointing at the
// client are left alone.
func LinkOnClientSave(client records.Client, cases []records.Case) []records.Case {
	if client.CaseNumber == "" {
		return nil
	}

	var updated []records.Case
	for _, c := range cases {
		if c.CaseNumber == client.CaseNumber && c.ClientID != client.ClientID {
			c.ClientID = client.ClientID
			updated = append(updated, c)
		}
	}
	return updated
}

// UnlinkOnClientDelete returns updated copies of every case linked to the
// client with its reference cleared. The cases themselves are never deleted.
func UnlinkOnClientDelete(clientID string, cases []records.Case) []records.Case {
	var updated []records.Case
	for _, c := range cases {
		if c.ClientID == clientID {
			c.ClientID = ""
			updated = append(updated, c)
		}
	}
	return updated
}
