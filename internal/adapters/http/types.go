package http

// MessageResponse is a simple message payload
type MessageResponse struct {
	Message string `json:"message"`
}

// ListItemsResponse wraps the API item list with its total count
type ListItemsResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}
