package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

var errUnauthorized = errors.New("invalid or missing bearer token")

// BearerAuth rejects requests whose Authorization header does not carry
// the shared webhook secret. Rejection happens before any upstream call.
// An empty secret disables the check, matching the legacy deployment
// where WEBHOOK_SECRET was optional.
func BearerAuth(secret string) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		if secret != "" {
			auth := req.Request.Header.Get("Authorization")
			if auth != "Bearer "+secret {
				log.Warn().
					Str("path", req.Request.URL.Path).
					Msg("webhook authentication failed")
				HandleError(resp, errUnauthorized, http.StatusUnauthorized)
				return
			}
		}

		chain.ProcessFilter(req, resp)
	}
}
