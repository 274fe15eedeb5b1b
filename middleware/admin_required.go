// file: middleware/admin_required.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-refdata/logger"
	"go-refdata/metrics"
	"go-refdata/session"
)

// NoAdminRightsMessage is shown to non-admins who open the admin page.
const NoAdminRightsMessage = "No admin rights to enter Admin page"

// AdminChecker looks up whether a username holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, username string) (bool, error)
}

// AdminRequired lets only admins through. Everyone else gets the welcome page
// with a 403, never the handler's view. A missing username counts as non-admin.
func AdminRequired(checker AdminChecker, pub metrics.Publisher) gin.HandlerFunc {
	if pub == nil {
		pub = metrics.Noop{}
	}
	return func(c *gin.Context) {
		st := session.Load(c)

		isAdmin, err := checker.IsAdmin(c.Request.Context(), st.Username)
		if err != nil {
			logger.Errorf("[AdminRequired] role lookup for '%s' failed: %v", st.Username, err)
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Internal server error"})
			c.Abort()
			return
		}

		if !isAdmin {
			logger.Warningf("[AdminRequired] '%s' blocked from %s", st.Username, c.Request.URL.Path)
			pub.Count(c.Request.Context(), metrics.AdminDenied, "")
			c.HTML(http.StatusForbidden, "welcome.html", gin.H{
				"Username": st.Username,
				"Flashes":  []string{NoAdminRightsMessage},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
