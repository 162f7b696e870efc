package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/logger"
	"github.com/lumio/backend/internal/interfaces/http/dto"
	"github.com/lumio/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// actorID returns the authenticated user or writes a 401
func (h *BaseHandler) actorID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.ActorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
	}
	return id, ok
}

// uuidParam parses a path parameter or writes a 400
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes and validates the body, writing the error response on
// failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		tooLarge       *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErrs):
		middleware.HandleValidationError(c, err)
	case errors.As(err, &tooLarge):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid JSON body")
	default:
		h.BadRequest(c, "Invalid request body")
	}
	return false
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a list with its total
func (h *BaseHandler) SuccessList(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps domain errors to their status; anything else is logged
// and answered with a 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.FromGin(c).Error("Request failed", zap.String("code", code), zap.Error(err))
		}
		h.Error(c, status, code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.FromGin(c).Error("Unexpected error", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}
