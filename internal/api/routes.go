package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/modguard/guardrail-relay/internal/api/middleware"
	"github.com/modguard/guardrail-relay/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler, webhookSecret string) {
	ws := new(restful.WebService)

	ws.
		Path("/").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/guardrail").
			To(handler.Guardrail).
			Filter(middleware.BearerAuth(webhookSecret)).
			Doc("Run the requested guardrail checks against the text").
			Metadata(restfulspec.KeyOpenAPITags, []string{"guardrail"}).
			Writes(models.GuardrailResponse{}).
			Returns(200, "OK", models.GuardrailResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(502, "Bad Gateway", middleware.ErrorResponse{}).
			Returns(504, "Gateway Timeout", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/guardrail/check/{check_name}").
			To(handler.GuardrailCheck).
			Filter(middleware.BearerAuth(webhookSecret)).
			Doc("Run a single guardrail check against the text").
			Metadata(restfulspec.KeyOpenAPITags, []string{"guardrail"}).
			Param(ws.PathParameter("check_name", "Check name (prompt_injections, financial_legal_tax_advice, medical)").DataType("string")).
			Writes(models.GuardrailResponse{}).
			Returns(200, "OK", models.GuardrailResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(404, "Check Not Found", middleware.ErrorResponse{}).
			Returns(502, "Bad Gateway", middleware.ErrorResponse{}).
			Returns(504, "Gateway Timeout", middleware.ErrorResponse{}))

	container.Add(ws)
}
