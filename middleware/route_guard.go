package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/mentorship-backend/models"
)

const (
	LoginPath      = "/login"
	SelectRolePath = "/select-role"
	dashboardPath  = "/dashboard"
)

var publicPrefixes = []string{
	LoginPath,
	"/api/auth",
	"/api/health",
	"/favicon.ico",
	"/static",
	"/robots.txt",
	"/sitemap.xml",
}

// Visitor is what the guard knows about the caller of a page route. A nil
// Visitor has no valid session.
type Visitor struct {
	Role models.Role
}

// Decision is the outcome of evaluating a navigation. An empty Redirect
// means the page may be served.
type Decision struct {
	Redirect string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

func allow() Decision { return Decision{} }
func redirect(path string) Decision {
	return Decision{Redirect: path}
}

// IsPublicPath reports whether path is reachable without a session.
func IsPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Evaluate decides whether visitor may open path.
func Evaluate(path string, visitor *Visitor) Decision {
	if IsPublicPath(path) {
		return allow()
	}
	if visitor == nil {
		return redirect(LoginPath)
	}
	if path == "/" {
		return allow()
	}

	role := visitor.Role
	if path == SelectRolePath {
		if role.IsSet() {
			return redirect(role.DashboardPath())
		}
		return allow()
	}

	if path != dashboardPath && !strings.HasPrefix(path, dashboardPath+"/") {
		return allow()
	}
	switch role {
	case models.RoleMentor, models.RoleSeeker:
		own := role.DashboardPath()
		if path == own || strings.HasPrefix(path, own+"/") {
			return allow()
		}
		return redirect(own)
	default:
		return redirect(SelectRolePath)
	}
}

// RouteGuard applies Evaluate to page routes. A token that cannot be
// decoded is treated as no session and its cookie is cleared.
func RouteGuard(verifier TokenVerifier, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		var visitor *Visitor
		if token := tokenFromRequest(c); token != "" {
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				ClearSessionCookie(c, secureCookie)
			} else {
				setIdentity(c, claims)
				visitor = &Visitor{Role: claims.Role}
			}
		}

		decision := Evaluate(path, visitor)
		if !decision.Allowed() {
			c.Redirect(http.StatusFound, decision.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}
