package api

// Project is the subset of YouTrack project fields the server works with.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Archived  bool   `json:"archived,omitempty"`
}
