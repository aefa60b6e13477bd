package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/modguard/guardrail-relay/internal/api/middleware"
	"github.com/modguard/guardrail-relay/internal/executor"
	"github.com/modguard/guardrail-relay/internal/models"
	"github.com/modguard/guardrail-relay/internal/translator"
	"github.com/rs/zerolog"
)

type Handler struct {
	executor      *executor.Executor
	checkExecutor *executor.CheckExecutor
	provider      string
	checkCount    int
	apiKeySet     bool
	logger        *zerolog.Logger
}

type HealthResponse struct {
	Status    string `json:"status"`
	Provider  string `json:"provider"`
	Checks    int    `json:"checks"`
	APIKeySet bool   `json:"api_key_set"`
}

func NewHandler(
	exec *executor.Executor,
	checkExec *executor.CheckExecutor,
	provider string,
	checkCount int,
	apiKeySet bool,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		executor:      exec,
		checkExecutor: checkExec,
		provider:      provider,
		checkCount:    checkCount,
		apiKeySet:     apiKeySet,
		logger:        logger,
	}
}

// POST /guardrail
// Body: text plus snake_case boolean check flags
// Returns: per-check verdict map plus overall verdict
func (h *Handler) Guardrail(req *restful.Request, resp *restful.Response) {
	mc, ok := h.readModeration(req, resp)
	if !ok {
		return
	}

	ctx := req.Request.Context()
	result, err := h.executor.Execute(ctx, mc)
	if err != nil {
		h.writeExecutionError(resp, err)
		return
	}

	if err := resp.WriteHeaderAndEntity(http.StatusOK, result); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write response")
	}
}

// POST /guardrail/check/{check_name}
func (h *Handler) GuardrailCheck(req *restful.Request, resp *restful.Response) {
	checkName := req.PathParameter("check_name")

	mc, ok := h.readModeration(req, resp)
	if !ok {
		return
	}

	ctx := req.Request.Context()
	result, err := h.checkExecutor.Execute(ctx, checkName, mc)
	if err != nil {
		if errors.Is(err, executor.ErrCheckNotFound) {
			middleware.HandleError(resp, err, http.StatusNotFound)
			return
		}
		h.writeExecutionError(resp, err)
		return
	}

	if err := resp.WriteHeaderAndEntity(http.StatusOK, result); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write response")
	}
}

// Health handler GET /health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:    "ok",
		Provider:  h.provider,
		Checks:    h.checkCount,
		APIKeySet: h.apiKeySet,
	}

	if err := resp.WriteHeaderAndEntity(http.StatusOK, healthResponse); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write response")
	}
}

// readModeration parses and validates the inbound payload. The body is
// read raw because the check flags are dynamic keys resolved against the
// allow-list, not struct fields.
func (h *Handler) readModeration(req *restful.Request, resp *restful.Response) (models.ModerationContext, bool) {
	body, err := io.ReadAll(req.Request.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return models.ModerationContext{}, false
	}

	parsed, err := translator.ParseRequest(body)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Invalid guardrail request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return models.ModerationContext{}, false
	}

	return parsed, true
}

func (h *Handler) writeExecutionError(resp *restful.Response, err error) {
	if errors.Is(err, executor.ErrCheckDisabled) {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if errors.Is(err, executor.ErrUpstreamTimeout) {
		middleware.HandleError(resp, err, http.StatusGatewayTimeout)
		return
	}
	middleware.HandleError(resp, err, http.StatusBadGateway)
}
