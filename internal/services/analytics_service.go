package services

import (
	"context"
	"fmt"

	"tunelink/internal/models"
	"tunelink/internal/repositories"
)

// recentClickCount bounds the recent-clicks list in a summary.
const recentClickCount = 10

// AnalyticsSummary is a point-in-time aggregation over a link's full click
// history. Nothing here is precomputed; every summary is a fresh fold.
type AnalyticsSummary struct {
	Link             *models.Link         `json:"link"`
	TotalClicks      int                  `json:"total_clicks"`
	ClicksByPlatform map[string]int       `json:"clicks_by_platform"`
	ClicksByDate     map[string]int       `json:"clicks_by_date"`
	RecentClicks     []*models.ClickEvent `json:"recent_clicks"`
}

// AnalyticsService records clicks and builds on-demand summaries.
type AnalyticsService struct {
	linkRepo  repositories.LinkRepository
	clickRepo repositories.ClickRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(linkRepo repositories.LinkRepository, clickRepo repositories.ClickRepository) *AnalyticsService {
	return &AnalyticsService{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
	}
}

// RecordClick appends one immutable click event for a link. The link must
// exist; a click against a deleted link is dropped with ErrNotFound.
func (s *AnalyticsService) RecordClick(ctx context.Context, linkID, platform, referrer string, utm models.UTMParams, userAgent, ip string) (*models.ClickEvent, error) {
	link, err := s.linkRepo.FindByID(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up link for click: %w", err)
	}
	if link == nil {
		return nil, repositories.ErrNotFound
	}

	event := models.NewClickEvent(link.ID, platform, referrer, utm, userAgent, ip)
	if err := s.clickRepo.Insert(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Summarize builds an analytics summary for a link. Only the link's owner
// may read analytics; a mismatch reads the same as a missing link.
func (s *AnalyticsService) Summarize(ctx context.Context, linkID, ownerID string) (*AnalyticsSummary, error) {
	link, err := s.linkRepo.FindByID(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up link for summary: %w", err)
	}
	if link == nil || link.OwnerID != ownerID {
		return nil, repositories.ErrNotFound
	}

	events, err := s.clickRepo.FindByLink(ctx, link.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load click events: %w", err)
	}

	recent, err := s.clickRepo.FindRecent(ctx, link.ID, recentClickCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent clicks: %w", err)
	}

	summary := BuildSummary(events)
	summary.Link = link
	summary.RecentClicks = recent

	return summary, nil
}

// BuildSummary folds a click history into counters. Dates group by the UTC
// calendar day of each event, regardless of server locale.
func BuildSummary(events []*models.ClickEvent) *AnalyticsSummary {
	summary := &AnalyticsSummary{
		TotalClicks:      len(events),
		ClicksByPlatform: make(map[string]int),
		ClicksByDate:     make(map[string]int),
		RecentClicks:     make([]*models.ClickEvent, 0),
	}

	for _, event := range events {
		summary.ClicksByPlatform[event.Platform]++

		day := event.CreatedAt.UTC().Format("2006-01-02")
		summary.ClicksByDate[day]++
	}

	return summary
}