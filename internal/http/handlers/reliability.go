package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dowhat/dowhat-backend/internal/http/response"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
	"github.com/dowhat/dowhat-backend/internal/reliability"
)

type ReliabilityHandler struct {
	log     *logger.Logger
	service *reliability.Service
}

func NewReliabilityHandler(log *logger.Logger, service *reliability.Service) *ReliabilityHandler {
	return &ReliabilityHandler{
		log:     log.With("handler", "ReliabilityHandler"),
		service: service,
	}
}

// GET /api/users/:id/reliability
func (h *ReliabilityHandler) GetUserReliability(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	result, err := h.service.ScoreUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("GetUserReliability failed", "error", err, "user_id", userID)
		response.RespondError(c, http.StatusInternalServerError, "reliability_score_failed", err)
		return
	}
	response.RespondOK(c, result)
}
