package models

// Deletions lists persisted child rows removed during an edit session.
type Deletions struct {
	Services         []int64 `json:"services,omitempty"`
	RatingQuestions  []int64 `json:"ratingQuestions,omitempty"`
	Documents        []int64 `json:"documents,omitempty"`
	ClaimCentres     []int64 `json:"claimCentres,omitempty"`
	ServiceProviders []int64 `json:"serviceProviders,omitempty"`
	ClaimControllers []int64 `json:"claimControllers,omitempty"`
}

// Empty reports whether nothing is pending.
func (d Deletions) Empty() bool {
	return len(d.Services) == 0 && len(d.RatingQuestions) == 0 && len(d.Documents) == 0 &&
		len(d.ClaimCentres) == 0 && len(d.ServiceProviders) == 0 && len(d.ClaimControllers) == 0
}
