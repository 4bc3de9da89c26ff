package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scrum-console-gateway/internal/session"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
	"github.com/noah-isme/scrum-console-gateway/pkg/response"
)

const (
	// ContextGateKey holds the resolved *session.Gate for the request.
	ContextGateKey = "session_gate"
	// ContextSessionIDKey holds the opaque session ID from the Authorization
	// header, empty for anonymous requests.
	ContextSessionIDKey = "session_id"
)

// Admission resolves the caller's session and checks the route table on
// every request. The table is consulted per request rather than at login so
// a role change upstream takes effect on the caller's next request.
func Admission(mgr *session.Manager, table *session.RouteTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessionID(c)
		gate := mgr.Resolve(c.Request.Context(), id)

		c.Set(ContextGateKey, gate)
		c.Set(ContextSessionIDKey, id)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		required := table.Capability(c.Request.Method, path)

		if session.Admit(gate, required) {
			c.Next()
			return
		}

		if !gate.Authenticated() {
			response.Error(c, appErrors.ErrUnauthorized)
		} else {
			response.Error(c, appErrors.ErrForbidden)
		}
		c.Abort()
	}
}

func sessionID(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GateFrom extracts the session gate placed by Admission.
func GateFrom(c *gin.Context) *session.Gate {
	value, ok := c.Get(ContextGateKey)
	if !ok {
		return session.NewGate()
	}
	gate, ok := value.(*session.Gate)
	if !ok {
		return session.NewGate()
	}
	return gate
}

// SessionIDFrom extracts the opaque session ID placed by Admission.
func SessionIDFrom(c *gin.Context) string {
	value, ok := c.Get(ContextSessionIDKey)
	if !ok {
		return ""
	}
	id, _ := value.(string)
	return id
}
