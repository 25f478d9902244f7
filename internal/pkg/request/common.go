package request

// ByIDRequest binds the UUID path parameter shared by detail endpoints.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
