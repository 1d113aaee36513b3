package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"dzemat-platform/cache"
	"dzemat-platform/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FeedItemType is the closed set of feed variants.
type FeedItemType string

const (
	FeedNewMember         FeedItemType = "new_member"
	FeedBadgeAwarded      FeedItemType = "badge_awarded"
	FeedCertificateIssued FeedItemType = "certificate_issued"
	FeedAnnouncement      FeedItemType = "announcement"
	FeedEvent             FeedItemType = "event"
	FeedShopListing       FeedItemType = "shop_listing"
	FeedTaskCompleted     FeedItemType = "task_completed"
)

// FeedItem is one entry of the unified tenant feed.
type FeedItem struct {
	ID                string       `json:"id"`
	Type              FeedItemType `json:"type"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	CreatedAt         time.Time    `json:"created_at"`
	RelatedEntityType string       `json:"related_entity_type,omitempty"`
	RelatedEntityID   string       `json:"related_entity_id,omitempty"`
	IsClickable       bool         `json:"is_clickable"`
	Icon              string       `json:"icon"`
	Color             string       `json:"color"`
}

const feedCacheTTL = 30 * time.Second

type FeedService struct {
	DB     *gorm.DB
	Cache  cache.Cache
	Logger *zap.Logger
}

func NewFeedService(db *gorm.DB, c cache.Cache, logger *zap.Logger) *FeedService {
	return &FeedService{DB: db, Cache: c, Logger: logger}
}

// Aggregate merges the tenant's recent happenings into one
// reverse-chronological feed. The projection is rebuilt from the source
// tables on every cache miss; clients poll it, so it is cached briefly.
func (s *FeedService) Aggregate(ctx context.Context, tenantID string, limit int) ([]FeedItem, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	cacheKey := "feed:" + tenantID
	if raw, ok := s.Cache.Get(ctx, cacheKey); ok {
		var items []FeedItem
		if err := json.Unmarshal(raw, &items); err == nil {
			if len(items) > limit {
				items = items[:limit]
			}
			return items, nil
		}
	}

	var items []FeedItem
	collect := func(source string, fn func() ([]FeedItem, error)) error {
		part, err := fn()
		if err != nil {
			s.Logger.Error("feed: source query failed",
				zap.String("source", source), zap.Error(err))
			return err
		}
		items = append(items, part...)
		return nil
	}

	if err := collect("members", func() ([]FeedItem, error) { return s.newMembers(tenantID, limit) }); err != nil {
		return nil, err
	}
	if err := collect("badges", func() ([]FeedItem, error) { return s.badgeGrants(tenantID, limit) }); err != nil {
		return nil, err
	}
	if err := collect("certificates", func() ([]FeedItem, error) { return s.certificates(tenantID, limit) }); err != nil {
		return nil, err
	}
	if err := collect("announcements", func() ([]FeedItem, error) { return s.announcements(tenantID, limit) }); err != nil {
		return nil, err
	}
	if err := collect("events", func() ([]FeedItem, error) { return s.events(tenantID, limit) }); err != nil {
		return nil, err
	}
	if err := collect("listings", func() ([]FeedItem, error) { return s.listings(tenantID, limit) }); err != nil {
		return nil, err
	}
	if err := collect("tasks", func() ([]FeedItem, error) { return s.completedTasks(tenantID, limit) }); err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}

	if raw, err := json.Marshal(items); err == nil {
		_ = s.Cache.Set(ctx, cacheKey, raw, feedCacheTTL)
	}
	return items, nil
}

func (s *FeedService) newMembers(tenantID string, limit int) ([]FeedItem, error) {
	var users []models.User
	if err := s.DB.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(users))
	for _, u := range users {
		items = append(items, newFeedItem(FeedNewMember, "member", u.ID,
			"New member: "+Initials(u.FullName()),
			"A new member joined the džemat", u.CreatedAt))
	}
	return items, nil
}

func (s *FeedService) badgeGrants(tenantID string, limit int) ([]FeedItem, error) {
	var grants []models.UserBadge
	if err := s.DB.Preload("Badge").Where("tenant_id = ?", tenantID).
		Order("earned_at DESC").Limit(limit).Find(&grants).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(grants))
	for _, g := range grants {
		items = append(items, newFeedItem(FeedBadgeAwarded, "badge", g.BadgeID,
			"Badge earned: "+g.Badge.Name, g.Badge.Description, g.EarnedAt))
	}
	return items, nil
}

func (s *FeedService) certificates(tenantID string, limit int) ([]FeedItem, error) {
	var certs []models.UserCertificate
	if err := s.DB.Where("tenant_id = ?", tenantID).
		Order("issued_at DESC").Limit(limit).Find(&certs).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(certs))
	for _, c := range certs {
		items = append(items, newFeedItem(FeedCertificateIssued, "certificate", c.ID,
			"Certificate awarded", "A certificate was issued to "+Initials(c.RecipientName), c.IssuedAt))
	}
	return items, nil
}

func (s *FeedService) announcements(tenantID string, limit int) ([]FeedItem, error) {
	var anns []models.Announcement
	if err := s.DB.Where("tenant_id = ? AND status = ?", tenantID, models.AnnouncementPublished).
		Order("published_at DESC").Limit(limit).Find(&anns).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(anns))
	for _, a := range anns {
		at := a.CreatedAt
		if a.PublishedAt != nil {
			at = *a.PublishedAt
		}
		items = append(items, newFeedItem(FeedAnnouncement, "announcement", a.ID,
			a.Title, a.Body, at))
	}
	return items, nil
}

func (s *FeedService) events(tenantID string, limit int) ([]FeedItem, error) {
	var events []models.Event
	if err := s.DB.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(events))
	for _, e := range events {
		items = append(items, newFeedItem(FeedEvent, "event", e.ID,
			"Event: "+e.Title, e.Description, e.CreatedAt))
	}
	return items, nil
}

func (s *FeedService) listings(tenantID string, limit int) ([]FeedItem, error) {
	var listings []models.Listing
	if err := s.DB.Where("tenant_id = ? AND status = ?", tenantID, models.ListingActive).
		Order("created_at DESC").Limit(limit).Find(&listings).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(listings))
	for _, l := range listings {
		items = append(items, newFeedItem(FeedShopListing, "listing", l.ID,
			"For sale: "+l.Title, l.Description, l.CreatedAt))
	}
	return items, nil
}

func (s *FeedService) completedTasks(tenantID string, limit int) ([]FeedItem, error) {
	var tasks []models.Task
	if err := s.DB.Where("tenant_id = ? AND status = ?", tenantID, models.TaskApproved).
		Order("approved_at DESC").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(tasks))
	for _, t := range tasks {
		at := t.UpdatedAt
		if t.ApprovedAt != nil {
			at = *t.ApprovedAt
		}
		items = append(items, newFeedItem(FeedTaskCompleted, "task", t.ID,
			"Completed: "+t.Title, t.Description, at))
	}
	return items, nil
}

func newFeedItem(t FeedItemType, entityType, entityID, title, description string, at time.Time) FeedItem {
	icon, color := DisplayMeta(t)
	return FeedItem{
		ID:                string(t) + ":" + entityID,
		Type:              t,
		Title:             title,
		Description:       description,
		CreatedAt:         at,
		RelatedEntityType: entityType,
		RelatedEntityID:   entityID,
		IsClickable:       IsClickable(t),
		Icon:              icon,
		Color:             color,
	}
}

// ===============================
// PRESENTATION MAPPING
// ===============================
// Stateless type→display functions, kept apart from the queries so the
// client never re-derives them.

// DisplayMeta returns the icon name and accent color for a feed type.
func DisplayMeta(t FeedItemType) (icon, color string) {
	switch t {
	case FeedNewMember:
		return "person-add", "#2e7d32"
	case FeedBadgeAwarded:
		return "military-tech", "#f9a825"
	case FeedCertificateIssued:
		return "workspace-premium", "#6a1b9a"
	case FeedAnnouncement:
		return "campaign", "#1565c0"
	case FeedEvent:
		return "event", "#00838f"
	case FeedShopListing:
		return "storefront", "#ef6c00"
	case FeedTaskCompleted:
		return "task-alt", "#455a64"
	default:
		return "info", "#607d8b"
	}
}

// IsClickable reports whether items of this type deep-link to a detail
// page. New-member and badge entries are informational only.
func IsClickable(t FeedItemType) bool {
	switch t {
	case FeedNewMember, FeedBadgeAwarded:
		return false
	default:
		return true
	}
}

// Initials redacts a full name to initials for public feed entries.
// Works on runes, so non-Latin scripts keep their first letters; a
// single-token name yields a single initial instead of breaking.
func Initials(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	if len(fields) > 2 {
		fields = []string{fields[0], fields[len(fields)-1]}
	}
	parts := make([]string, 0, 2)
	for _, f := range fields {
		runes := []rune(f)
		parts = append(parts, strings.ToUpper(string(runes[0]))+".")
	}
	return strings.Join(parts, " ")
}
