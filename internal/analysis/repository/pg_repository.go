package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/analysis"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type analysisRepo struct {
	db *sqlx.DB
}

func NewAnalysisRepo(db *sqlx.DB) analysis.Repository {
	return &analysisRepo{db: db}
}

// analysisRow mirrors the analyses table; hooks and moments live in jsonb
// columns and are (un)marshalled at this boundary.
type analysisRow struct {
	AnalysisID   uuid.UUID `db:"analysis_id"`
	SessionID    string    `db:"session_id"`
	VideoID      string    `db:"video_id"`
	SourceURL    string    `db:"source_url"`
	Title        string    `db:"title"`
	Channel      string    `db:"channel"`
	Duration     string    `db:"duration"`
	OverallScore int       `db:"overall_score"`
	Hooks        []byte    `db:"hooks"`
	Moments      []byte    `db:"moments"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r analysisRow) toModel() (*models.AnalysisResult, error) {
	result := &models.AnalysisResult{
		AnalysisID: r.AnalysisID,
		SessionID:  r.SessionID,
		Video: models.VideoReference{
			VideoID:   r.VideoID,
			SourceURL: r.SourceURL,
		},
		Title:        r.Title,
		Channel:      r.Channel,
		Duration:     r.Duration,
		OverallScore: r.OverallScore,
		CreatedAt:    r.CreatedAt,
	}
	if len(r.Hooks) > 0 {
		if err := json.Unmarshal(r.Hooks, &result.Hooks); err != nil {
			return nil, errors.Wrap(err, "analysisRow.toModel.UnmarshalHooks")
		}
	}
	if len(r.Moments) > 0 {
		if err := json.Unmarshal(r.Moments, &result.Moments); err != nil {
			return nil, errors.Wrap(err, "analysisRow.toModel.UnmarshalMoments")
		}
	}
	return result, nil
}

func (a *analysisRepo) CreateAnalysis(ctx context.Context, result *models.AnalysisResult) error {
	hooks, err := json.Marshal(result.Hooks)
	if err != nil {
		return errors.Wrap(err, "analysisRepo.CreateAnalysis.MarshalHooks")
	}
	momentsJSON, err := json.Marshal(result.Moments)
	if err != nil {
		return errors.Wrap(err, "analysisRepo.CreateAnalysis.MarshalMoments")
	}
	if _, err = a.db.ExecContext(
		ctx,
		createAnalysisQuery,
		result.AnalysisID,
		result.SessionID,
		result.Video.VideoID,
		result.Video.SourceURL,
		result.Title,
		result.Channel,
		result.Duration,
		result.OverallScore,
		hooks,
		momentsJSON,
		result.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "analysisRepo.CreateAnalysis.Exec")
	}
	return nil
}

func (a *analysisRepo) GetAnalysisByID(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResult, error) {
	var row analysisRow
	if err := a.db.GetContext(ctx, &row, getAnalysisByIDQuery, analysisID); err != nil {
		return nil, errors.Wrap(err, "analysisRepo.GetAnalysisByID.Get")
	}
	return row.toModel()
}

func (a *analysisRepo) GetAnalyses(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.AnalysisList, error) {
	var totalCount int
	if err := a.db.GetContext(ctx, &totalCount, getTotalAnalysesBySessionQuery, sessionID); err != nil {
		return nil, errors.Wrap(err, "analysisRepo.GetAnalyses.Count")
	}
	if totalCount == 0 {
		return &models.AnalysisList{
			Analyses:   make([]*models.AnalysisResult, 0),
			TotalCount: 0,
			Page:       pagination.GetPage(),
			PageSize:   pagination.GetSize(),
			HasMore:    false,
		}, nil
	}

	rows, err := a.db.QueryxContext(ctx, getAnalysesBySessionQuery, sessionID, pagination.GetOffset(), pagination.GetLimit())
	if err != nil {
		return nil, errors.Wrap(err, "analysisRepo.GetAnalyses.Query")
	}
	defer rows.Close()

	analyses := make([]*models.AnalysisResult, 0, pagination.GetSize())
	for rows.Next() {
		var row analysisRow
		if err = rows.StructScan(&row); err != nil {
			return nil, errors.Wrap(err, "analysisRepo.GetAnalyses.StructScan")
		}
		result, err := row.toModel()
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, result)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "analysisRepo.GetAnalyses.Rows")
	}

	return &models.AnalysisList{
		Analyses:   analyses,
		TotalCount: totalCount,
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), totalCount, pagination.GetSize()),
	}, nil
}
