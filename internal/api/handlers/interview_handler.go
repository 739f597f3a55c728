package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/services"
	"github.com/mockmate/backend/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type startRequest struct {
	CVSessionToken string `json:"cv_session_token" binding:"required"`
	Mode           string `json:"mode"`
	Difficulty     string `json:"difficulty"`
	QuestionCount  int    `json:"question_count"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "invalid request body", err))
		return
	}
	if req.Mode == "" {
		req.Mode = string(models.ModeMixed)
	}
	if req.Difficulty == "" {
		req.Difficulty = string(models.DifficultyMedium)
	}
	if req.QuestionCount == 0 {
		req.QuestionCount = 5
	}

	res, err := h.svc.Start(c.Request.Context(), req.CVSessionToken,
		models.InterviewMode(req.Mode), models.Difficulty(req.Difficulty),
		req.QuestionCount, optionalUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type respondRequest struct {
	SessionID  string `json:"session_id" binding:"required"`
	QuestionID string `json:"question_id" binding:"required"`
	// an empty transcript is a valid answer; the scorer judges it
	Transcript      string  `json:"transcript"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (h *InterviewHandler) Respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Respond", "invalid request body", err))
		return
	}

	res, err := h.svc.Respond(c.Request.Context(), req.SessionID, req.QuestionID, req.Transcript, req.DurationSeconds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type endRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (h *InterviewHandler) End(c *gin.Context) {
	var req endRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.End", "invalid request body", err))
		return
	}

	// the completion channel is for tests; the request does not wait
	if _, err := h.svc.End(c.Request.Context(), req.SessionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message":    "evaluation started",
		"session_id": req.SessionID,
	})
}

func (h *InterviewHandler) Results(c *gin.Context) {
	sessionID := c.Param("session_id")

	view, err := h.svc.Results(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if view.Processing {
		c.JSON(http.StatusAccepted, gin.H{
			"status":     "evaluating",
			"session_id": sessionID,
		})
		return
	}
	c.JSON(http.StatusOK, view.Results)
}
