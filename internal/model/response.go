package model

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type UserResponse struct {
	OK   bool      `json:"ok"`
	User AdminUser `json:"user"`
}

type ItemResponse struct {
	OK   bool `json:"ok"`
	Item any  `json:"item"`
}

type ItemsResponse struct {
	OK         bool        `json:"ok"`
	Items      any         `json:"items"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type UploadResponse struct {
	OK  bool   `json:"ok"`
	URL string `json:"url"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
