package model

import (
	"time"

	"github.com/google/uuid"
)

// Design statuses.
const (
	DesignStatusDraft       = "Draft"
	DesignStatusSubmitted   = "Submitted"
	DesignStatusUnderReview = "Under Review"
	DesignStatusInProgress  = "In Progress"
	DesignStatusCompleted   = "Completed"
	DesignStatusCancelled   = "Cancelled"
)

// Design project types.
var ValidProjectTypes = []string{"Door", "Window", "Gate", "Roofing", "HVAC", "Custom"}

// designTransitions encodes the allowed workflow: Draft -> Submitted ->
// Under Review -> In Progress -> Completed, with Cancelled reachable before
// Completed. Completed and Cancelled are terminal.
var designTransitions = map[string][]string{
	DesignStatusDraft:       {DesignStatusSubmitted, DesignStatusCancelled},
	DesignStatusSubmitted:   {DesignStatusUnderReview, DesignStatusCancelled},
	DesignStatusUnderReview: {DesignStatusInProgress, DesignStatusCancelled},
	DesignStatusInProgress:  {DesignStatusCompleted, DesignStatusCancelled},
	DesignStatusCompleted:   {},
	DesignStatusCancelled:   {},
}

// CanTransitionDesign reports whether a design may move between statuses.
func CanTransitionDesign(from, to string) bool {
	for _, next := range designTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UserMayTransitionDesign limits non-admin transitions to submitting or
// cancelling their own draft.
func UserMayTransitionDesign(from, to string) bool {
	return from == DesignStatusDraft &&
		(to == DesignStatusSubmitted || to == DesignStatusCancelled)
}

// Dimensions are the requested measurements of a custom project.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth,omitempty"`
	Unit   string  `json:"unit"`
}

// Specifications describe the requested build.
type Specifications struct {
	Dimensions Dimensions `json:"dimensions"`
	Material   string     `json:"material,omitempty"`
	Color      string     `json:"color,omitempty"`
	Finish     string     `json:"finish,omitempty"`
	Features   []string   `json:"features,omitempty"`
}

// Budget is the customer's acceptable cost range.
type Budget struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Timeline is the requested schedule.
type Timeline struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

// DesignNote is one append-only note on a design.
type DesignNote struct {
	UserID    uuid.UUID `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// DesignRevision is one append-only version log entry.
type DesignRevision struct {
	Version   int       `json:"version"`
	Changes   string    `json:"changes"`
	UpdatedBy uuid.UUID `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Design is a custom project request.
type Design struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	UserID         uuid.UUID        `json:"userId" db:"user_id"`
	ProjectName    string           `json:"projectName" db:"project_name"`
	ProjectType    string           `json:"projectType" db:"project_type"`
	Category       string           `json:"category" db:"category"`
	Specifications Specifications   `json:"specifications" db:"specifications"`
	Budget         Budget           `json:"budget" db:"budget"`
	Timeline       Timeline         `json:"timeline" db:"timeline"`
	Description    string           `json:"description,omitempty" db:"description"`
	Status         string           `json:"status" db:"status"`
	EstimatedCost  float64          `json:"estimatedCost" db:"estimated_cost"`
	Notes          []DesignNote     `json:"notes" db:"notes"`
	Revisions      []DesignRevision `json:"revisions" db:"revisions"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time        `json:"updatedAt" db:"updated_at"`
}

// DesignInput is the create/update payload for a design.
type DesignInput struct {
	ProjectName    string         `json:"projectName"`
	ProjectType    string         `json:"projectType"`
	Category       string         `json:"category"`
	Specifications Specifications `json:"specifications"`
	Budget         Budget         `json:"budget"`
	Timeline       Timeline       `json:"timeline"`
	Description    string         `json:"description"`
	Status         string         `json:"status,omitempty"`
	TrackRevision  bool           `json:"trackRevision,omitempty"`
	RevisionNote   string         `json:"revisionChanges,omitempty"`
}

// DesignFilter narrows admin design listings.
type DesignFilter struct {
	Status      string
	ProjectType string
	Category    string
}

// DesignStatusUpdate is the admin status transition payload.
type DesignStatusUpdate struct {
	Status        string  `json:"status"`
	EstimatedCost float64 `json:"estimatedCost,omitempty"`
}
