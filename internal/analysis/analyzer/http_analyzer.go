package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/clipforge/viral-moments-backend/internal/analysis"
	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/pkg/errors"
)

// httpAnalyzer calls the external download + ML scoring service.
type httpAnalyzer struct {
	cfg    *config.Config
	client *http.Client
}

func NewHTTPAnalyzer(cfg *config.Config) analysis.Analyzer {
	return &httpAnalyzer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Analyzer.Timeout},
	}
}

type analyzeRequest struct {
	VideoID   string `json:"video_id"`
	SourceURL string `json:"source_url"`
}

func (a *httpAnalyzer) Analyze(ctx context.Context, video models.VideoReference) (*models.AnalysisPayload, error) {
	body, err := json.Marshal(analyzeRequest{
		VideoID:   video.VideoID,
		SourceURL: video.SourceURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "httpAnalyzer.Analyze.Marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Analyzer.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "httpAnalyzer.Analyze.NewRequest")
	}
	req.Header.Set("Content-Type", "application/json")
	if a.cfg.Analyzer.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.Analyzer.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(httpErrors.ErrAnalysis, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Wrap(httpErrors.ErrAnalysis,
			fmt.Sprintf("analyzer returned status %d: %s", resp.StatusCode, string(b)))
	}

	payload := &models.AnalysisPayload{}
	if err = json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return nil, errors.Wrap(httpErrors.ErrAnalysis, "decode analyzer response: "+err.Error())
	}
	return payload, nil
}
