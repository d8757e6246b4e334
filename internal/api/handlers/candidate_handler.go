package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hireloop/hireloop/internal/services"
	"github.com/hireloop/hireloop/internal/utils"
)

type CandidateHandler struct {
	svc services.CandidateService
}

func NewCandidateHandler(svc services.CandidateService) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

const maxResumeBytes = 10 << 20

// Create accepts multipart form data: extracted resume text, optional
// manual field overrides, and an optional raw resume file for archival.
func (h *CandidateHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	in := services.CreateCandidateInput{
		Name:       strings.TrimSpace(c.PostForm("name")),
		Email:      strings.TrimSpace(c.PostForm("email")),
		Phone:      strings.TrimSpace(c.PostForm("phone")),
		ResumeText: c.PostForm("resume_text"),
	}
	if skills := c.PostForm("skills"); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				in.Skills = append(in.Skills, s)
			}
		}
	}

	if file, err := c.FormFile("resume"); err == nil && file != nil {
		if file.Size > maxResumeBytes {
			writeError(c, utils.E(utils.CodeInvalidArgument, "CandidateHandler.Create", "resume file too large", nil))
			return
		}
		f, err := file.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, "CandidateHandler.Create", "failed to read resume file", err))
			return
		}
		defer f.Close()

		in.Resume = f
		in.ResumeFileName = file.Filename
		in.ResumeMimeType = file.Header.Get("Content-Type")
	}

	row, missing, err := h.svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	msg := "candidate created with complete information"
	if len(missing) > 0 {
		msg = "candidate created, please verify: " + strings.Join(missing, ", ")
	}

	c.JSON(http.StatusCreated, gin.H{
		"candidate":      row,
		"message":        msg,
		"missing_fields": missing,
	})
}

func (h *CandidateHandler) Get(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	row, err := h.svc.Get(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

func (h *CandidateHandler) Stats(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *CandidateHandler) List(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	q := services.CandidateListQuery{
		Search: c.Query("search"),
		SortBy: c.DefaultQuery("sort_by", "created_at"),
		Order:  c.DefaultQuery("order", "desc"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	q = q.Clamped()

	rows, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	pages := total / int64(q.Limit)
	if total%int64(q.Limit) != 0 {
		pages++
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": rows,
		"pagination": gin.H{
			"page":  q.Page,
			"limit": q.Limit,
			"total": total,
			"pages": pages,
		},
	})
}
