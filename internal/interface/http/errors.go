package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/apperr"
	"github.com/oksasatya/go-identity-service/pkg/response"
)

// writeError maps service errors onto the API envelope. Internal errors
// are logged and surfaced as a generic message.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		response.Error[any](c, http.StatusBadRequest, "validation failed", ve.Fields)
		return
	}

	var ce *apperr.ConflictError
	if errors.As(err, &ce) {
		response.Error[any](c, http.StatusConflict, ce.Message, nil)
		return
	}

	if errors.Is(err, apperr.ErrUnauthorized) {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	logger.WithError(err).Error("request failed")
	response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
}
