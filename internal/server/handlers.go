package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/wordbloom/internal/progress"
	"github.com/abhisek/wordbloom/internal/spacedrep"
	"github.com/abhisek/wordbloom/internal/translation"
)

const maxDocumentBytes = 4 << 20

func (s *Server) getProgress(c echo.Context) error {
	doc := s.tracker.Snapshot()
	if doc == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "progress not loaded")
	}
	b, err := progress.Marshal(doc)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "encode progress").SetInternal(err)
	}
	return c.JSONBlob(http.StatusOK, b)
}

func (s *Server) putProgress(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDocumentBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read body").SetInternal(err)
	}
	doc, err := progress.Unmarshal(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid progress document").SetInternal(err)
	}
	if err := s.tracker.Replace(c.Request().Context(), doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

type scheduleResponse struct {
	OneDay  checkpointResponse `json:"oneDay"`
	OneWeek checkpointResponse `json:"oneWeek"`
}

type checkpointResponse struct {
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Due       bool      `json:"due"`
}

type topicStatusResponse struct {
	TopicID      string                `json:"topicId"`
	Status       spacedrep.TopicStatus `json:"status"`
	Attempts     int                   `json:"attempts"`
	BestScore    *int                  `json:"bestScore,omitempty"`
	CompletedAt  *time.Time            `json:"completedAt,omitempty"`
	Schedule     *scheduleResponse     `json:"schedule,omitempty"`
	MistakeCount int                   `json:"mistakeCount"`
}

func (s *Server) topicStatus(c echo.Context) error {
	id := c.Param("id")
	now := s.now()

	resp := topicStatusResponse{TopicID: id, Status: spacedrep.StatusNotStarted}
	if tp := s.tracker.TopicProgress(id); tp != nil {
		resp.Status = tp.Status(now)
		resp.Attempts = len(tp.Attempts)
		resp.BestScore = tp.BestScore
		resp.CompletedAt = tp.CompletedAt
		resp.MistakeCount = len(tp.Mistakes)
		if sch := tp.Schedule; sch != nil {
			resp.Schedule = &scheduleResponse{
				OneDay:  checkpointResponse{sch.OneDay.Date, sch.OneDay.Completed, sch.OneDay.IsDue(now)},
				OneWeek: checkpointResponse{sch.OneWeek.Date, sch.OneWeek.Completed, sch.OneWeek.IsDue(now)},
			}
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) dueReviews(c echo.Context) error {
	now := s.now()
	var due []progress.DueReview
	if c.QueryParam("all") == "true" {
		due = s.tracker.DueReviews(now)
	} else {
		due = s.tracker.VisibleDueReviews(now)
	}
	if due == nil {
		due = []progress.DueReview{}
	}
	return c.JSON(http.StatusOK, map[string]any{"reviews": due})
}

func (s *Server) dismissReview(c echo.Context) error {
	kind, err := spacedrep.ParseReviewKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.tracker.DismissReviewAlert(c.Request().Context(), c.Param("topic"), kind)
	return c.NoContent(http.StatusNoContent)
}

type mistakeResponse struct {
	TopicID       string    `json:"topicId"`
	ItemID        string    `json:"itemId"`
	LastWrongDate time.Time `json:"lastWrongDate"`
	TimesWrong    int       `json:"timesWrong"`
}

func (s *Server) mistakes(c echo.Context) error {
	all := s.tracker.AllMistakes()
	out := make([]mistakeResponse, 0, len(all))
	for _, m := range all {
		out = append(out, mistakeResponse{
			TopicID:       m.TopicID,
			ItemID:        m.ItemID,
			LastWrongDate: m.LastWrongDate,
			TimesWrong:    m.TimesWrong,
		})
	}
	count := len(out)
	return c.JSON(http.StatusOK, map[string]any{
		"count":          count,
		"alertDismissed": s.tracker.IsMistakesAlertDismissed(count),
		"byTopic":        s.tracker.MistakesByTopic(),
		"mistakes":       out,
	})
}

func (s *Server) dismissMistakes(c echo.Context) error {
	count := s.tracker.MistakeCount()
	s.tracker.DismissMistakesAlert(c.Request().Context(), count)
	return c.JSON(http.StatusOK, map[string]int{"dismissedCount": count})
}

func (s *Server) checkTranslation(c echo.Context) error {
	var req translation.Request
	if err := c.Bind(&req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	res := translation.CheckOrUnavailable(c.Request().Context(), s.checker, req, s.logger)
	return c.JSON(http.StatusOK, res)
}
