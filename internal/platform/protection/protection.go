// Package protection copies the deployment protection-bypass secret into responses.
//
// The hosting platform skips its preview access check when a response carries
// the bypass header. The secret comes from VERCEL_AUTH_SECRET and is read on every
// request, so rotating it needs no restart.
package protection

import (
	"os"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	applog "github.com/atlasforge/greeter/internal/platform/logging"
)

const (
	// HeaderName is the response header carrying the bypass token.
	HeaderName = "x-vercel-protection-bypass"
	// EnvVar names the environment variable holding the token.
	EnvVar = "VERCEL_AUTH_SECRET"
	// MetadataKey marks a huma.Operation as opting in to the header.
	MetadataKey = "protectionBypass"
)

// Lookup reads an environment variable. os.Getenv satisfies it.
type Lookup func(key string) string

// Metadata returns operation metadata that opts an operation in to the bypass header.
func Metadata() map[string]any {
	return map[string]any{MetadataKey: true}
}

// Middleware returns huma middleware that sets HeaderName on opted-in operations
// whenever the secret is non-empty. The value is copied verbatim; absent or empty
// secrets leave the header off. A nil lookup uses os.Getenv.
//
// An audit event is logged when injection starts or the secret changes, not per request.
func Middleware(lookup Lookup) func(huma.Context, func(huma.Context)) {
	if lookup == nil {
		lookup = os.Getenv
	}
	var seen changeTracker
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if !enabled(op) {
			next(ctx)
			return
		}
		if secret := lookup(EnvVar); secret != "" {
			ctx.SetHeader(HeaderName, secret)
			if seen.changed(secret) {
				applog.LogAuditEvent(ctx.Context(), applog.AuditEvent{
					Action:       "protection_bypass",
					ResourceType: "operation",
					ResourceID:   op.OperationID,
					Result:       "enabled",
				})
			}
		}
		next(ctx)
	}
}

func enabled(op *huma.Operation) bool {
	if op == nil || op.Metadata == nil {
		return false
	}
	on, _ := op.Metadata[MetadataKey].(bool)
	return on
}

// changeTracker remembers the last secret injected.
type changeTracker struct {
	mu   sync.Mutex
	last string
}

// changed records secret and reports whether it differs from the previous one.
func (t *changeTracker) changed(secret string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if secret == t.last {
		return false
	}
	t.last = secret
	return true
}
