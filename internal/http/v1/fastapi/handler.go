package fastapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/atlasforge/greeter/internal/platform/logging"
	"github.com/atlasforge/greeter/internal/platform/protection"
)

const (
	// Path is the route served by this package.
	Path = "/api/fast-api"
	// Message is the fixed greeting.
	Message = "Hello from FastAPI!"
)

// Register wires the fast-api route into the provided API router. The operation opts in
// to the protection-bypass header, so the protection middleware must already be installed.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-fast-api",
		Method:      http.MethodGet,
		Path:        Path,
		Summary:     "Get the fast-api greeting",
		Description: "Returns a static greeting. When VERCEL_AUTH_SECRET is set the response also carries the " +
			protection.HeaderName + " header.",
		Tags:     []string{"Greetings"},
		Metadata: protection.Metadata(),
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Greeting",
				Headers: map[string]*huma.Param{
					protection.HeaderName: {
						Description: "Deployment protection bypass token, present only when configured",
						Schema:      &huma.Schema{Type: huma.TypeString},
					},
				},
			},
		},
	}, getHandler)
}

func getHandler(ctx context.Context, _ *struct{}) (*GetOutput, error) {
	applog.LogInfo(ctx, "fast-api get", zap.String("path", Path))
	return &GetOutput{Body: Greeting{Message: Message}}, nil
}
