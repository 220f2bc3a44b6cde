package catalog

import (
	"context"
	"strings"

	"streaming-app/internal/apperr"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log.WithField("service", "catalog")}
}

// Filter narrows Browse. Empty fields are ignored; set fields are AND-combined.
type Filter struct {
	Type  string
	Genre string
	Year  *int
}

func (s *Service) Browse(ctx context.Context, f Filter) ([]Content, error) {
	db := s.db.WithContext(ctx)
	q := db.Model(&Content{})
	if f.Type != "" {
		if !ValidType(f.Type) {
			return nil, apperr.BadRequest("type must be Movie or Show")
		}
		q = q.Where("type = ?", f.Type)
	}
	if g := strings.TrimSpace(f.Genre); g != "" {
		sub := db.Table("content_genres").
			Select("content_genres.content_id").
			Joins("JOIN genres ON genres.genre_id = content_genres.genre_id").
			Where("genres.name = ?", g)
		q = q.Where("content_id IN (?)", sub)
	}
	if f.Year != nil {
		q = q.Where("release_year = ?", *f.Year)
	}

	var out []Content
	if err := q.Order("content_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Content, error) {
	return FindContent(s.db.WithContext(ctx), id)
}

// FindContent loads a content row inside an existing query scope.
func FindContent(tx *gorm.DB, id uint) (*Content, error) {
	var c Content
	if err := tx.First(&c, "content_id = ?", id).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Content not found")
	}
	return &c, nil
}

func (s *Service) MediaFiles(ctx context.Context, contentID uint) ([]MediaFile, error) {
	db := s.db.WithContext(ctx)
	if _, err := FindContent(db, contentID); err != nil {
		return nil, err
	}
	var out []MediaFile
	if err := db.Where("content_id = ?", contentID).Order("media_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Genres(ctx context.Context, contentID uint) ([]Genre, error) {
	db := s.db.WithContext(ctx)
	if _, err := FindContent(db, contentID); err != nil {
		return nil, err
	}
	var out []Genre
	err := db.Model(&Genre{}).
		Joins("JOIN content_genres ON content_genres.genre_id = genres.genre_id").
		Where("content_genres.content_id = ?", contentID).
		Order("genres.name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Seasons(ctx context.Context, contentID uint) ([]Season, error) {
	db := s.db.WithContext(ctx)
	if _, err := FindContent(db, contentID); err != nil {
		return nil, err
	}
	var out []Season
	if err := db.Where("content_id = ?", contentID).Order("season_number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Episodes(ctx context.Context, seasonID uint) ([]Episode, error) {
	db := s.db.WithContext(ctx)
	if _, err := findSeason(db, seasonID); err != nil {
		return nil, err
	}
	var out []Episode
	if err := db.Where("season_id = ?", seasonID).Order("episode_number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Episode(ctx context.Context, id uint) (*Episode, error) {
	return findEpisode(s.db.WithContext(ctx), id)
}

func findSeason(tx *gorm.DB, id uint) (*Season, error) {
	var season Season
	if err := tx.First(&season, "season_id = ?", id).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Season not found")
	}
	return &season, nil
}

func findEpisode(tx *gorm.DB, id uint) (*Episode, error) {
	var ep Episode
	if err := tx.First(&ep, "episode_id = ?", id).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Episode not found")
	}
	return &ep, nil
}

func findGenre(tx *gorm.DB, id uint) (*Genre, error) {
	var g Genre
	if err := tx.First(&g, "genre_id = ?", id).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Genre not found")
	}
	return &g, nil
}

// exists reports whether any row of model matches the condition.
func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
