// Package dto defines data transfer objects for the fiction feature's HTTP transport layer.
package dto

// CreateFictionReq represents the request body for POST /fictions.
// Description must be present but may be empty.
type CreateFictionReq struct {
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Author      string  `json:"author" binding:"required,min=1,max=100"`
	Genre       string  `json:"genre" binding:"required,max=50,genre"`
	Description *string `json:"description" binding:"required,max=500"`
	Content     string  `json:"content" binding:"required,min=1"`
}

// UpdateFictionReq represents the request body for PUT /fictions/:id.
// Absent fields and explicit nulls both decode to nil and are left unchanged.
type UpdateFictionReq struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Author      *string `json:"author" binding:"omitempty,min=1,max=100"`
	Genre       *string `json:"genre" binding:"omitempty,max=50,genre"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Content     *string `json:"content" binding:"omitempty,min=1"`
}
