package server

import (
	"errors"
	"net/http"
	"time"
	"transcriptsum/internal/domain"
	"transcriptsum/internal/metrics"
	"transcriptsum/internal/summarizer"
	"transcriptsum/internal/transcript"

	"github.com/labstack/echo/v4"
)

const healthMessage = "Service is healthy"

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.HealthResponse{
		Status:  "ok",
		Message: healthMessage,
	})
}

func (s *Server) handleSummarize(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	kind := summarizer.SelectProvider(req.Model)
	provider := kind.String()

	if req.Text == nil {
		s.metrics.RecordSummarize(provider, metrics.OutcomeRejected, 0)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "text is required")
	}

	text := transcript.Normalize(*req.Text)
	if text == "" {
		s.metrics.RecordSummarize(provider, metrics.OutcomeRejected, 0)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "text must not be empty")
	}

	if s.rejectPersonalIDs && transcript.ContainsPersonalID(text) {
		s.metrics.RecordSummarize(provider, metrics.OutcomeRejected, 0)
		s.log.WarnContext(ctx, "Rejected text containing a personal identity code",
			"provider", provider,
			"textLength", len(text))

		return echo.NewHTTPError(http.StatusUnprocessableEntity,
			"text contains a personal identity code, remove it before submitting")
	}

	start := time.Now()
	summary, err := s.summarizer.Summarize(ctx, summarizer.Input{
		Text:           text,
		TargetLanguage: req.TargetLanguage,
		Tonality:       req.Tonality,
		Styling:        req.Styling,
		Model:          req.Model,
	})
	elapsed := time.Since(start)

	if err != nil {
		return s.summarizeError(c, provider, elapsed, err)
	}

	s.metrics.RecordSummarize(provider, metrics.OutcomeSuccess, elapsed)
	s.log.InfoContext(ctx, "Text is summarized",
		"provider", provider,
		"textLength", len(text),
		"summaryLength", len(summary),
		"elapsed", elapsed)

	return c.JSON(http.StatusOK, domain.SummarizeResponse{SummarizedText: summary})
}

func (s *Server) summarizeError(c echo.Context, provider string, elapsed time.Duration, err error) error {
	ctx := c.Request().Context()

	switch {
	case errors.Is(err, summarizer.ErrProviderNotConfigured):
		s.metrics.RecordSummarize(provider, metrics.OutcomeNotConfigured, 0)
		s.log.ErrorContext(ctx, "Provider is not configured",
			"error", err,
			"provider", provider)

		return echo.NewHTTPError(http.StatusServiceUnavailable,
			"provider "+provider+" is not configured").SetInternal(err)
	case errors.Is(err, summarizer.ErrEmptyText):
		s.metrics.RecordSummarize(provider, metrics.OutcomeRejected, 0)

		return echo.NewHTTPError(http.StatusUnprocessableEntity, "text must not be empty").SetInternal(err)
	default:
		s.metrics.RecordSummarize(provider, metrics.OutcomeUpstreamFailed, elapsed)
		s.log.ErrorContext(ctx, "Failed to summarize text",
			"error", err,
			"provider", provider,
			"upstreamStatus", summarizer.UpstreamStatus(err),
			"elapsed", elapsed)

		return echo.NewHTTPError(http.StatusBadGateway, "summarization provider request failed").SetInternal(err)
	}
}
