package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/internal/session"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type sessionRepo struct {
	redisClient *redis.Client
	basePrefix  string
	cfg         *config.Config
}

func NewSessionRepository(redisClient *redis.Client, cfg *config.Config) session.SessRepository {
	return &sessionRepo{
		redisClient: redisClient,
		basePrefix:  cfg.Session.Prefix + ":",
		cfg:         cfg,
	}
}

func (s *sessionRepo) CreateSession(ctx context.Context, sess *models.Session, expire int) (string, error) {
	sess.SessionID = uuid.New().String()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	sessionKey := s.createKey(sess.SessionID)

	sessBytes, err := json.Marshal(sess)
	if err != nil {
		return "", errors.Wrap(err, "sessionRepo.CreateSession.Marshal")
	}
	if err = s.redisClient.Set(ctx, sessionKey, sessBytes, time.Second*time.Duration(expire)).Err(); err != nil {
		return "", errors.Wrap(err, "sessionRepo.CreateSession.Set")
	}
	return sess.SessionID, nil
}

func (s *sessionRepo) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	sessBytes, err := s.redisClient.Get(ctx, s.createKey(sessionID)).Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "sessionRepo.GetSessionByID.Get")
	}
	sess := &models.Session{}
	if err = json.Unmarshal(sessBytes, sess); err != nil {
		return nil, errors.Wrap(err, "sessionRepo.GetSessionByID.Unmarshal")
	}
	return sess, nil
}

func (s *sessionRepo) DeleteByID(ctx context.Context, sessionID string) error {
	if err := s.redisClient.Del(ctx, s.createKey(sessionID)).Err(); err != nil {
		return errors.Wrap(err, "sessionRepo.DeleteByID.Del")
	}
	return nil
}

func (s *sessionRepo) createKey(sessionID string) string {
	return fmt.Sprintf("%s%s", s.basePrefix, sessionID)
}
