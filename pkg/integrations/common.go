package integrations

import (
	"net/http"
	"time"

	"github.com/matzehuels/crdb/pkg/buildinfo"
)

// DefaultTimeout bounds a single CRDB request. Large queries can take the
// server well over a minute to assemble.
const DefaultTimeout = 120 * time.Second

// maxResponseBytes is the largest accepted response body; larger replies fail.
const maxResponseBytes = 64 << 20

// NewHTTPClient creates the HTTP client used for CRDB requests. It has no
// client-level timeout: each call carries its own deadline through the
// request context.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}

// UserAgent identifies the client to the server.
func UserAgent() string {
	return buildinfo.UserAgent()
}
