package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"projecthub/internal/entity"
	"projecthub/internal/store"
	"projecthub/internal/view"
)

// API handlers

func (s *Server) handleAPIData(c *gin.Context) {
	ctx := c.Request.Context()

	project, err := s.store.Project(ctx)
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	progress, err := s.store.Progress(ctx)
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	cards, err := s.store.CardStates(ctx)
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}

	payload := gin.H{
		"project":              project,
		"development_progress": progress,
		"cards":                cards,
		"last_updated":         s.now().Format("2006-01-02T15:04"),
	}
	for _, name := range entity.Collections {
		rows, err := s.store.List(ctx, name)
		if err != nil {
			s.apiError(c, http.StatusInternalServerError, err)
			return
		}
		payload[name] = rows
	}

	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleAPIDBHealth(c *gin.Context) {
	if err := s.store.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleAPIProject(c *gin.Context) {
	project, err := s.store.Project(c.Request.Context())
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleAPIUpdateProject(c *gin.Context) {
	// Pointer fields distinguish absent keys from empty values, so a
	// name-only payload leaves the other columns alone.
	var update store.ProjectUpdate
	if err := c.BindJSON(&update); err != nil {
		return // BindJSON already wrote the 400
	}

	err := s.store.UpdateProject(c.Request.Context(), update)
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project updated",
	})
}

func (s *Server) handleAPIProgress(c *gin.Context) {
	progress, err := s.store.Progress(c.Request.Context())
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	dev := view.BuildDevelopmentView(percentString(progress.Percent), progress.Phase, "")
	c.JSON(http.StatusOK, gin.H{
		"percent":       progress.Percent,
		"phase":         progress.Phase,
		"status_text":   progress.StatusText,
		"percent_label": dev.PercentLabel,
	})
}

func (s *Server) handleAPIUpdateProgress(c *gin.Context) {
	var body struct {
		Percent any    `json:"percent"`
		Legacy  any    `json:"percent_complete"` // older clients
		Phase   string `json:"phase"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	percentRaw := rawString(body.Percent)
	if body.Percent == nil {
		percentRaw = rawString(body.Legacy)
	}

	updated, err := s.store.UpdateProgress(c.Request.Context(), percentRaw, body.Phase)
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"percent": updated.Percent,
		"phase":   updated.Phase,
	})
}

func (s *Server) handleAPICards(c *gin.Context) {
	cards, err := s.store.CardStates(c.Request.Context())
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cards": cards,
		"order": view.OrderCardKeys(cards),
	})
}

func (s *Server) handleAPIUpdateCard(c *gin.Context) {
	var body struct {
		Position int  `json:"position"`
		Pinned   bool `json:"pinned"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	card := entity.CardState{Key: c.Param("key"), Position: body.Position, Pinned: body.Pinned}
	if !entity.ValidCardKey(card.Key) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown card",
		})
		return
	}
	err := s.store.SetCardState(c.Request.Context(), card)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown card",
		})
		return
	}
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Card updated",
	})
}

func (s *Server) handleAPIList(c *gin.Context) {
	name, ok := s.lookupEntity(c)
	if !ok {
		return
	}
	rows, err := s.store.List(c.Request.Context(), name)
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"count":   len(rows),
	})
}

func (s *Server) handleAPICreate(c *gin.Context) {
	name, ok := s.lookupEntity(c)
	if !ok {
		return
	}
	var payload map[string]any
	if err := c.BindJSON(&payload); err != nil {
		return
	}

	data := entity.Sanitize(name, payload)
	id, err := s.store.Insert(c.Request.Context(), name, data, s.now())
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      id,
		"message": "Record created",
	})
}

func (s *Server) handleAPIUpdate(c *gin.Context) {
	name, ok := s.lookupEntity(c)
	if !ok {
		return
	}
	id, ok := s.recordID(c)
	if !ok {
		return
	}
	var payload map[string]any
	if err := c.BindJSON(&payload); err != nil {
		return
	}

	data := entity.Sanitize(name, payload)
	err := s.store.Update(c.Request.Context(), name, id, data, s.now())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "record not found",
		})
		return
	}
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
		"message": "Record updated",
	})
}

func (s *Server) handleAPIDelete(c *gin.Context) {
	name, ok := s.lookupEntity(c)
	if !ok {
		return
	}
	id, ok := s.recordID(c)
	if !ok {
		return
	}

	err := s.store.Delete(c.Request.Context(), name, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "record not found",
		})
		return
	}
	if err != nil {
		s.apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Record deleted",
	})
}

func (s *Server) recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid record id",
		})
		return 0, false
	}
	return id, true
}

func (s *Server) apiError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// rawString renders a JSON scalar back to its form-field string.
func rawString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}
