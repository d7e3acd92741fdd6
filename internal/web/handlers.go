package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projecthub/internal/entity"
	"projecthub/internal/store"
	"projecthub/internal/view"
)

// dashboardData is everything the page template needs. When a store call
// fails, Error is set and the page renders a degraded panel instead of a 500.
type dashboardData struct {
	Project   store.Project
	Progress  view.DevelopmentView
	Sections  []view.Section
	Week      view.WeekView
	Log       []map[string]any
	CardOrder []string
	DocFilter string
	Error     string
}

func (s *Server) handleDashboard(c *gin.Context) {
	data, err := s.loadDashboard(c)
	if err != nil {
		s.logger.Error("dashboard load failed", zap.Error(err))
		data.Error = "The database is unavailable. Showing an empty dashboard."
	}
	c.HTML(http.StatusOK, "dashboard.html", data)
}

func (s *Server) loadDashboard(c *gin.Context) (dashboardData, error) {
	ctx := c.Request.Context()
	data := dashboardData{DocFilter: view.NormalizeDocTypeKey(c.Query("doc_type"))}

	project, err := s.store.Project(ctx)
	if err != nil {
		return data, err
	}
	data.Project = project

	progress, err := s.store.Progress(ctx)
	if err != nil {
		return data, err
	}
	data.Progress = view.BuildDevelopmentView(percentString(progress.Percent), progress.Phase, project.Phase)

	rows := make(map[string][]map[string]any, len(entity.Collections))
	for _, name := range entity.Collections {
		list, err := s.store.List(ctx, name)
		if err != nil {
			return data, err
		}
		rows[name] = list
	}
	rows["documentation"] = view.FilterByDocType(rows["documentation"], data.DocFilter)

	data.Sections = view.BuildSections(rows)
	data.Week = view.BuildWeekView(rows["tasks"], s.now())
	data.Log = rows["development_log"]

	cards, err := s.store.CardStates(ctx)
	if err != nil {
		return data, err
	}
	data.CardOrder = view.OrderCardKeys(cards)
	return data, nil
}

// Section returns the table section for a card key, for template dispatch.
func (d dashboardData) Section(key string) *view.Section {
	for i := range d.Sections {
		if d.Sections[i].Key == key {
			return &d.Sections[i]
		}
	}
	return nil
}

// percentString renders a stored percent for the view transforms, which take
// the raw form-field representation.
func percentString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// lookupEntity resolves the :entity route parameter, writing the 404 itself
// when the name is unknown.
func (s *Server) lookupEntity(c *gin.Context) (string, bool) {
	name := c.Param("entity")
	if _, err := entity.Lookup(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown entity",
		})
		return "", false
	}
	return name, true
}
