package hello

// Data models the response payload for the hello endpoint.
type Data struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello, World"`
}

// GetOutput is the response for GET /api/hello.
type GetOutput struct {
	Body Data
}
