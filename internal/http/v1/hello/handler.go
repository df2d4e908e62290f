package hello

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/atlasforge/greeter/internal/platform/logging"
)

// Path is the route served by this package.
const Path = "/api/hello"

// Message is the fixed greeting.
const Message = "Hello, World"

// Register wires the hello route into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-hello",
		Method:      http.MethodGet,
		Path:        Path,
		Summary:     "Get the hello greeting",
		Tags:        []string{"Greetings"},
	}, getHandler)
}

func getHandler(ctx context.Context, _ *struct{}) (*GetOutput, error) {
	applog.LogInfo(ctx, "hello get", zap.String("path", Path))
	return &GetOutput{Body: Data{Message: Message}}, nil
}
