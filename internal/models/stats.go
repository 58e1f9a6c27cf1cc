package models

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// Page is one page of feedback plus its pagination block.
type Page struct {
	Items      []Feedback `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type ProjectStats struct {
	ProjectType   string  `json:"projectType"`
	TotalFeedback int64   `json:"totalFeedback"`
	AverageRating float64 `json:"averageRating"`
	HighestRating int64   `json:"highestRating"`
	LowestRating  int64   `json:"lowestRating"`
}

type InnovationCount struct {
	Innovation string `json:"innovation"`
	Count      int64  `json:"count"`
}

type Stats struct {
	TotalFeedback          int64             `json:"totalFeedback"`
	OverallAverageRating   float64           `json:"overallAverageRating"`
	ProjectStats           []ProjectStats    `json:"projectStats"`
	InnovationDistribution []InnovationCount `json:"innovationDistribution"`
}
