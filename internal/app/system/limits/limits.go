// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxResourceBody is the largest JSON body accepted by a resource
	// create or update. Records are a handful of short fields.
	MaxResourceBody = 1 << 20 // 1 MB
)
