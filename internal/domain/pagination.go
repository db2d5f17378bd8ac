package domain

// ListParams holds limit/offset pagination parameters for list queries.
type ListParams struct {
	Limit  int
	Offset int
}
