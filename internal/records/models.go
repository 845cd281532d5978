package records

import "time"

// Priority of a case listing.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// CaseStatus tracks whether a matter is still being worked.
type CaseStatus string

const (
	StatusActive    CaseStatus = "Active"
	StatusCompleted CaseStatus = "Completed"
)

// HistoryItem is an immutable snapshot of a past procedural step. It is only
// ever appended to a case's history, never mutated in place.
type HistoryItem struct {
	Date  string `json:"date"`
	Step  string `json:"step"`
	Notes string `json:"notes,omitempty"`
}

// Case is a legal matter. The JSON field names are the ledger wire format;
// history order is insertion order and is the canonical record.
type Case struct {
	CaseID          string        `json:"caseId"`
	UserID          string        `json:"userId"`
	ClientID        string        `json:"clientId,omitempty"`
	SerialNumber    string        `json:"serialNumber"`
	CaseNumber      string        `json:"caseNumber"`
	CaseNameParties string        `json:"caseNameParties,omitempty"`
	CourtName       string        `json:"courtName"`
	CaseType        string        `json:"caseType"`
	Priority        Priority      `json:"priority"`
	Status          CaseStatus    `json:"status"`
	Section         string        `json:"section"`
	PreviousDate    string        `json:"previousDate"`
	NextDate        string        `json:"nextDate"`
	StepOfTheDay    string        `json:"stepOfTheDay"`
	IsTaskDone      bool          `json:"isTaskDone,omitempty"`
	Notes           string        `json:"notes"`
	History         []HistoryItem `json:"history,omitempty"`
	CreatedAt       int64         `json:"createdAt"`
	UpdatedAt       int64         `json:"updatedAt"`
}

// Client is a person represented by the practitioner. CaseNumber is the
// natural join key into Case.CaseNumber; CaseName is a denormalized display
// cache of the linked case's party description.
type Client struct {
	ClientID      string `json:"clientId"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
	Photo         string `json:"photo,omitempty"`
	CaseNumber    string `json:"caseNumber,omitempty"`
	CaseName      string `json:"caseName,omitempty"`
	LastContacted string `json:"lastContacted,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

// User is the owning principal for cases and clients.
type User struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Photo  string `json:"photo,omitempty"`
}

// CaseTypes lists the recognized matter categories.
func CaseTypes() []string {
	return []string{
		"Civil", "Criminal", "Family", "Revenue",
		"Consumer", "Labour", "Writ", "Other",
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
