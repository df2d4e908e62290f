package fastapi

// Greeting models the response payload for the fast-api endpoint.
type Greeting struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello from FastAPI!"`
}

// GetOutput is the response for GET /api/fast-api.
type GetOutput struct {
	Body Greeting
}
