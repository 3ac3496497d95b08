package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/analysis"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	analysisPrefix = "analysis:"
)

type analysisRedisRepo struct {
	redisClient *redis.Client
}

func NewAnalysisRedisRepo(redisClient *redis.Client) analysis.RedisRepository {
	return &analysisRedisRepo{redisClient: redisClient}
}

func (a *analysisRedisRepo) SetAnalysis(ctx context.Context, analysisID string, seconds int, result *models.AnalysisResult) error {
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "analysisRedisRepo.SetAnalysis.Marshal")
	}
	if err = a.redisClient.Set(ctx, analysisPrefix+analysisID, resultBytes, time.Second*time.Duration(seconds)).Err(); err != nil {
		return errors.Wrap(err, "analysisRedisRepo.SetAnalysis.Set")
	}
	return nil
}

func (a *analysisRedisRepo) GetAnalysisByID(ctx context.Context, analysisID string) (*models.AnalysisResult, error) {
	resultBytes, err := a.redisClient.Get(ctx, analysisPrefix+analysisID).Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "analysisRedisRepo.GetAnalysisByID.Get")
	}
	result := &models.AnalysisResult{}
	if err = json.Unmarshal(resultBytes, result); err != nil {
		return nil, errors.Wrap(err, "analysisRedisRepo.GetAnalysisByID.Unmarshal")
	}
	return result, nil
}
