package api

import (
	"errors"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aleister1102/phishlens/internal/auth"
	"github.com/aleister1102/phishlens/internal/features"
	"github.com/aleister1102/phishlens/internal/history"
)

const subjectKey = "subject"

// URLRequest is the body of /features and /predict.
type URLRequest struct {
	URL string `json:"url"`
}

// FeaturesResponse is returned by /features.
type FeaturesResponse struct {
	URL      string          `json:"url"`
	Features features.Vector `json:"features"`
}

// PredictResponse is returned by /predict.
type PredictResponse struct {
	URL            string          `json:"url"`
	Prediction     string          `json:"prediction"`
	RiskLevel      string          `json:"risk_level"`
	Confidence     float64         `json:"confidence"`
	RawProbability float64         `json:"raw_probability"`
	PolicyNote     string          `json:"policy_note"`
	Source         string          `json:"source"`
	Features       features.Vector `json:"features"`
}

// HistoryResponse is returned by /history.
type HistoryResponse struct {
	Subject string           `json:"subject"`
	Count   int              `json:"count"`
	Items   []history.Record `json:"items"`
}

func (s *Server) health(c *fiber.Ctx) error {
	scorer, model := "unavailable", "none"
	if s.deps.Scorer != nil {
		model = s.deps.Scorer.Name()
		if s.deps.Scorer.Available() {
			scorer = "available"
		}
	}

	body := fiber.Map{
		"status": "healthy",
		"scorer": scorer,
		"model":  model,
	}
	if s.deps.Monitor != nil {
		body["resources"] = s.deps.Monitor.Latest()
	}
	return c.JSON(body)
}

func (s *Server) features(c *fiber.Ctx) error {
	url, err := parseURL(c)
	if err != nil {
		return err
	}
	return c.JSON(FeaturesResponse{
		URL:      url,
		Features: s.deps.Pipeline.ExtractFeatures(url),
	})
}

func (s *Server) predict(c *fiber.Ctx) error {
	url, err := parseURL(c)
	if err != nil {
		return err
	}

	if s.cfg.RequireModel && (s.deps.Scorer == nil || !s.deps.Scorer.Available()) {
		return fiber.NewError(fiber.StatusServiceUnavailable, MsgModelUnavailable)
	}

	a := s.deps.Pipeline.ScoreURL(c.UserContext(), url)
	subject := subjectOf(c)

	if s.deps.History != nil {
		if _, err := s.deps.History.Save(c.UserContext(), history.FromAssessment(subject, a)); err != nil {
			s.deps.Metrics.IncHistoryWriteError()
			s.logger.Error().Err(err).Str("subject", subject).Str("url", url).Msg("Failed to store scan result")
		}
	}

	return c.JSON(PredictResponse{
		URL:            a.URL,
		Prediction:     string(a.Prediction),
		RiskLevel:      string(a.RiskLevel),
		Confidence:     round4(a.AdjustedProbability),
		RawProbability: a.RawProbability,
		PolicyNote:     a.PolicyNote,
		Source:         string(a.Source),
		Features:       a.Features,
	})
}

func (s *Server) listHistory(c *fiber.Ctx) error {
	if s.deps.History == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Scan history is disabled.")
	}

	limit := c.QueryInt("limit", history.DefaultListLimit)
	if limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be positive")
	}

	subject := subjectOf(c)
	items, err := s.deps.History.List(c.UserContext(), history.Query{Subject: subject, Limit: limit})
	if err != nil {
		return err
	}
	return c.JSON(HistoryResponse{Subject: subject, Count: len(items), Items: items})
}

// authenticate stores the token subject under subjectKey. Without an issuer every
// caller is AnonymousSubject.
func (s *Server) authenticate(c *fiber.Ctx) error {
	if s.deps.Issuer == nil {
		c.Locals(subjectKey, AnonymousSubject)
		return c.Next()
	}

	subject, err := s.deps.Issuer.Verify(auth.BearerToken(c.Get(fiber.HeaderAuthorization)))
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, auth.ErrMissingToken) {
			msg = "missing authorization"
		}
		s.logger.Debug().Err(err).Str("path", c.Path()).Msg("Rejected request")
		return fiber.NewError(fiber.StatusUnauthorized, msg)
	}

	c.Locals(subjectKey, subject)
	return c.Next()
}

func subjectOf(c *fiber.Ctx) string {
	if subject, ok := c.Locals(subjectKey).(string); ok && subject != "" {
		return subject
	}
	return AnonymousSubject
}

func parseURL(c *fiber.Ctx) (string, error) {
	var req URLRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.URL) == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "url is required")
	}
	return req.URL, nil
}

func round4(p float64) float64 {
	return math.Round(p*10000) / 10000
}
