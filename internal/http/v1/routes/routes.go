package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/atlasforge/greeter/internal/http/v1/fastapi"
	"github.com/atlasforge/greeter/internal/http/v1/hello"
	"github.com/atlasforge/greeter/internal/platform/protection"
)

// Register wires all greeting routes into the provided API router. lookup resolves the
// protection-bypass secret per request; nil reads the process environment.
func Register(api huma.API, lookup protection.Lookup) {
	api.UseMiddleware(protection.Middleware(lookup))

	hello.Register(api)
	fastapi.Register(api)
}
