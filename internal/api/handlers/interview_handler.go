package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/services"
	"github.com/hireloop/hireloop/internal/utils"
)

type InterviewHandler struct {
	svc        services.InterviewService
	resumption services.ResumptionService
}

func NewInterviewHandler(svc services.InterviewService, resumption services.ResumptionService) *InterviewHandler {
	return &InterviewHandler{svc: svc, resumption: resumption}
}

type CreateInterviewRequest struct {
	CandidateID string                   `json:"candidate_id" binding:"required"`
	Metadata    models.InterviewMetadata `json:"metadata"`
}

func (h *InterviewHandler) Create(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Create", "invalid request body", err))
		return
	}

	sess, err := h.svc.Create(c.Request.Context(), req.CandidateID, req.Metadata)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

func (h *InterviewHandler) Start(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	out, err := h.svc.Start(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

type SubmitAnswerRequest struct {
	Ordinal *int   `json:"ordinal" binding:"required"`
	Answer  string `json:"answer" binding:"required"`
}

func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SubmitAnswer", "invalid request body", err))
		return
	}

	out, err := h.svc.SubmitAnswer(c.Request.Context(), c.Param("session_id"), *req.Ordinal, req.Answer)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	sess, err := h.svc.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// GetByCandidate is the hiring-side lookup: one candidate owns at most
// one session.
func (h *InterviewHandler) GetByCandidate(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	sess, err := h.svc.GetByCandidate(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// Resume reconciles the client's cached checkpoint against the stored
// session. Query params carry the checkpoint; absence means the client
// kept nothing.
func (h *InterviewHandler) Resume(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var cp *services.Checkpoint
	if s := c.Query("ordinal"); s != "" {
		ordinal, err := strconv.Atoi(s)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Resume", "ordinal must be an integer", err))
			return
		}
		elapsed, _ := strconv.Atoi(c.Query("elapsed_seconds"))
		cp = &services.Checkpoint{
			Ordinal:        ordinal,
			Level:          models.Tier(c.Query("level")),
			ElapsedSeconds: elapsed,
		}
	}

	decision, err := h.resumption.Reconcile(c.Request.Context(), c.Param("session_id"), cp)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

func (h *InterviewHandler) Restart(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	if err := h.resumption.Restart(c.Request.Context(), c.Param("session_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"restarted": true})
}

func (h *InterviewHandler) Transcript(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	limit := 50
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := h.svc.Transcript(c.Request.Context(), c.Param("session_id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": c.Param("session_id"),
		"entries":    rows,
	})
}
