package api

// ListUsersRequest binds the query parameters of GET /v1/users.
type ListUsersRequest struct {
	Email       string `form:"email"`
	DisplayName string `form:"display_name"`
	IsActive    *bool  `form:"is_active"`
	Page        int    `form:"page,default=1" binding:"omitempty,gte=1"`
	PageSize    int    `form:"page_size,default=20" binding:"omitempty,gte=1,lte=100"`
}

// UpdateUserRequest is the payload for PATCH /v1/users/:id. Pointers
// distinguish "field not sent" from a zero value.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	IsActive    *bool   `json:"is_active"`
	IsAdmin     *bool   `json:"is_admin"`
}
