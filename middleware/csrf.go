// file: middleware/csrf.go
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-refdata/logger"
	"go-refdata/metrics"
	"go-refdata/session"
)

// CSRFProtect rejects any POST whose csrf_token form field does not equal the
// session's token. A session without a token rejects every POST.
func CSRFProtect(pub metrics.Publisher) gin.HandlerFunc {
	if pub == nil {
		pub = metrics.Noop{}
	}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		expected := session.Load(c).CSRFToken
		submitted := c.PostForm(session.CSRFField)

		if expected == "" || submitted == "" ||
			subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
			logger.Warningf("[CSRFProtect] token mismatch on %s", c.Request.URL.Path)
			pub.Count(c.Request.Context(), metrics.CSRFRejected, "")
			c.String(http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}

		c.Next()
	}
}
