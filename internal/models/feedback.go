package models

import "time"

// Known project identifiers accepted by the feedback table.
const (
	ProjectTouristUtility = "tourist-utility-service-system"
	ProjectStrokeRecovery = "stroke-hand-recovery-system"
)

// Innovation levels.
const (
	InnovationLow          = "low"
	InnovationMedium       = "medium"
	InnovationHigh         = "high"
	InnovationBreakthrough = "breakthrough"
)

var (
	ProjectTypes     = []string{ProjectTouristUtility, ProjectStrokeRecovery}
	InnovationLevels = []string{InnovationLow, InnovationMedium, InnovationHigh, InnovationBreakthrough}
)

type Feedback struct {
	ID          int64     `json:"id"`
	ProjectType string    `json:"projectType"`
	Rating      int       `json:"rating"`
	Innovation  *string   `json:"innovation"`
	Comments    *string   `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateFeedbackRequest is the POST /feedback body. Only presence is checked;
// enum membership and rating range are left to the table constraints.
type CreateFeedbackRequest struct {
	ProjectType string  `json:"projectType" validate:"required"`
	Rating      int     `json:"rating" validate:"required"`
	Innovation  *string `json:"innovation"`
	Comments    *string `json:"comments"`
}

// UpdateFeedbackRequest is the PUT /feedback/{id} body. A nil field keeps the
// stored value.
type UpdateFeedbackRequest struct {
	ProjectType *string `json:"projectType"`
	Rating      *int    `json:"rating"`
	Innovation  *string `json:"innovation"`
	Comments    *string `json:"comments"`
}
