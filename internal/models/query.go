package models

// ListFilter captures the list-view query state carried by list endpoints.
type ListFilter struct {
	Search    string
	SortBy    string
	SortOrder string
	// Page is one-based on the wire, matching the pagination metadata.
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
