package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"terraUrbBack/internal/models"
	"terraUrbBack/internal/repositories"
)

const (
	statsCacheKey = "terraurb:stats"
	statsCacheTTL = time.Minute
)

type StatsService struct {
	ComplaintRepo *repositories.ComplaintRepository
	UserRepo      *repositories.UserRepository
	CommentRepo   *repositories.CommentRepository
	ReportRepo    *repositories.ReportRepository
	ActivityRepo  *repositories.ActivityLogRepository
	Redis         *redis.Client
}

const recentActivityLimit = 50

// GetRecentActivity returns the latest audit-trail entries for the admin
// dashboard.
func (s *StatsService) GetRecentActivity(ctx context.Context, actor models.Actor) ([]models.ActivityLog, error) {
	if !actor.IsStaff() {
		return nil, models.ErrPermissionDenied
	}
	return s.ActivityRepo.GetRecent(ctx, recentActivityLimit)
}

// GetStats assembles the dashboard counters. Results are served from Redis
// when fresh; cache failures fall through to the database.
func (s *StatsService) GetStats(ctx context.Context, actor models.Actor) (models.Stats, error) {
	if !actor.IsStaff() {
		return models.Stats{}, models.ErrPermissionDenied
	}

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var stats models.Stats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		} else if err != redis.Nil {
			log.Printf("stats cache read failed: %v", err)
		}
	}

	byStatus, err := s.ComplaintRepo.CountByStatus(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}

	totalUsers, err := s.UserRepo.Count(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	totalComments, err := s.CommentRepo.Count(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	pendingReports, err := s.ReportRepo.CountPending(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	stats := models.Stats{
		TotalComplaints:    total,
		ComplaintsByStatus: byStatus,
		TotalUsers:         totalUsers,
		TotalComments:      totalComments,
		PendingReports:     pendingReports,
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.Redis.Set(ctx, statsCacheKey, payload, statsCacheTTL).Err(); err != nil {
				log.Printf("stats cache write failed: %v", err)
			}
		}
	}
	return stats, nil
}
