package resource

import (
	"time"

	"records-atlas/internal/domain/entity"
)

type DTO struct {
	ID             int64      `json:"id"`
	JurisdictionID int64      `json:"jurisdiction_id"`
	Jurisdiction   string     `json:"jurisdiction,omitempty"` // page code, set on search results
	Section        string     `json:"section,omitempty"`
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	Tags           []string   `json:"tags,omitempty"`
	Note           string     `json:"note,omitempty"`
	FeedURL        string     `json:"feed_url,omitempty"`
	LastCheckedAt  *time.Time `json:"last_checked_at,omitempty"`
	LastStatus     int        `json:"last_status,omitempty"`
	Alive          bool       `json:"alive"`
	PageTitle      string     `json:"page_title,omitempty"`
	Preview        string     `json:"preview,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type NoticeDTO struct {
	ID          int64     `json:"id"`
	ResourceID  int64     `json:"resource_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

func toDTO(res *entity.Resource) DTO {
	return DTO{
		ID:             res.ID,
		JurisdictionID: res.JurisdictionID,
		Section:        res.Section,
		Title:          res.Title,
		URL:            res.URL,
		Tags:           res.Tags,
		Note:           res.Note,
		FeedURL:        res.FeedURL,
		LastCheckedAt:  res.LastCheckedAt,
		LastStatus:     res.LastStatus,
		Alive:          res.Alive,
		PageTitle:      res.PageTitle,
		Preview:        res.Preview,
		CreatedAt:      res.CreatedAt,
	}
}
