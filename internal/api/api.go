package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/ru-menu/internal/logger"
	"github.com/pfrederiksen/ru-menu/internal/menu"
	"github.com/pfrederiksen/ru-menu/internal/service"
)

// Menus supplies today's parsed menu; satisfied by *service.Service
type Menus interface {
	Menu(ctx context.Context) (*menu.ParsedMenu, error)
}

// MealResponse is the JSON form of one meal
type MealResponse struct {
	Meal    string       `json:"meal"`
	Text    string       `json:"text"`
	Entries []menu.Entry `json:"entries"`
	Empty   bool         `json:"empty"`
}

// TodayResponse is the JSON form of the whole day
type TodayResponse struct {
	Text  string         `json:"text"`
	Meals []MealResponse `json:"meals"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	menus Menus
}

// NewRouter builds the gin engine serving menus
func NewRouter(menus Menus) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	h := &handler{menus: menus}
	r.GET("/health", h.health)
	r.GET("/metrics", h.metrics)

	m := r.Group("/menu")
	{
		m.GET("/today", h.today)
		m.GET("/:meal", h.meal)
	}

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		logger.RecordTiming("api.request", elapsed)
		logger.Debug("HTTP request", logger.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": elapsed.String(),
		})
	}
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) metrics(c *gin.Context) {
	c.JSON(http.StatusOK, logger.GetMetricsSnapshot())
}

func (h *handler) today(c *gin.Context) {
	pm, ok := h.load(c)
	if !ok {
		return
	}

	text := menu.FormatToday(pm)
	if !wantsJSON(c) {
		c.String(http.StatusOK, text)
		return
	}

	resp := TodayResponse{Text: text}
	for _, m := range menu.Meals {
		resp.Meals = append(resp.Meals, mealResponse(pm, m))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) meal(c *gin.Context) {
	name := c.Param("meal")
	m, ok := menu.ParseMeal(name)
	if !ok {
		logger.IncrCounter("api.unknown_meal")
		h.fail(c, http.StatusNotFound, menu.NoItemsMessage(name))
		return
	}

	pm, ok := h.load(c)
	if !ok {
		return
	}

	resp := mealResponse(pm, m)
	if !wantsJSON(c) {
		c.String(http.StatusOK, resp.Text)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// load fetches today's menu, writing a 502 and returning false on failure
func (h *handler) load(c *gin.Context) (*menu.ParsedMenu, bool) {
	pm, err := h.menus.Menu(c.Request.Context())
	if err != nil {
		logger.IncrCounter("api.fetch_failed")
		logger.Error("Failed to load menu", logger.Fields{"path": c.Request.URL.Path}, err)
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		h.fail(c, status, service.FetchErrorMessage(err))
		return nil, false
	}
	return pm, true
}

func (h *handler) fail(c *gin.Context, status int, message string) {
	if wantsJSON(c) {
		c.JSON(status, ErrorResponse{Error: message})
		return
	}
	c.String(status, message)
}

func mealResponse(pm *menu.ParsedMenu, m menu.Meal) MealResponse {
	text, _ := pm.Render(m)
	entries := pm.Section(m)
	if entries == nil {
		entries = []menu.Entry{}
	}
	return MealResponse{
		Meal:    m.Label(),
		Text:    text,
		Entries: entries,
		Empty:   pm.Empty(m),
	}
}

func wantsJSON(c *gin.Context) bool {
	return c.Query("format") == "json"
}
