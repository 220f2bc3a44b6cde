package catalog

import (
	"context"
	"errors"
	"strings"

	"streaming-app/internal/apperr"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentInput struct {
	Title       string
	Type        string
	Description string
	ReleaseYear int
}

type ContentUpdate struct {
	Title       *string
	Description *string
	ReleaseYear *int
}

type MediaInput struct {
	Resolution string
	Language   string
	FilePath   string
}

type EpisodeUpdate struct {
	Title         *string
	EpisodeNumber *int
}

func (s *Service) ListAll(ctx context.Context) ([]Content, error) {
	var out []Content
	if err := s.db.WithContext(ctx).Order("content_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, in ContentInput) (*Content, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Type == "" || in.Description == "" || in.ReleaseYear == 0 {
		return nil, apperr.BadRequest("title, type, description, and release_year required")
	}
	if !ValidType(in.Type) {
		return nil, apperr.BadRequest("type must be Movie or Show")
	}

	c := Content{Title: in.Title, Type: in.Type, Description: in.Description, ReleaseYear: in.ReleaseYear}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&c).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("content_id", c.ID).Info("content created")
	return &c, nil
}

// Update changes title, description and release year. The type is fixed once
// created since seasons depend on it.
func (s *Service) Update(ctx context.Context, id uint, in ContentUpdate) (*Content, error) {
	var c *Content
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if c, err = FindContent(tx, id); err != nil {
			return err
		}
		if in.Title != nil {
			if v := strings.TrimSpace(*in.Title); v != "" {
				c.Title = v
			}
		}
		if in.Description != nil {
			if v := strings.TrimSpace(*in.Description); v != "" {
				c.Description = v
			}
		}
		if in.ReleaseYear != nil {
			if *in.ReleaseYear <= 0 {
				return apperr.BadRequest("release_year must be positive")
			}
			c.ReleaseYear = *in.ReleaseYear
		}
		return tx.Model(&Content{}).Where("content_id = ?", id).Updates(map[string]interface{}{
			"title":        c.Title,
			"description":  c.Description,
			"release_year": c.ReleaseYear,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("content_id", id).Info("content updated")
	return c, nil
}

// Delete removes content with its media files, seasons, episodes, genre links,
// wishlist entries and viewing history.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Content{}, "content_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Content not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("content_id", id).Info("content deleted")
	return nil
}

func (s *Service) AddMediaFile(ctx context.Context, contentID uint, in MediaInput) (*MediaFile, error) {
	in.Resolution = strings.TrimSpace(in.Resolution)
	in.Language = strings.TrimSpace(in.Language)
	in.FilePath = strings.TrimSpace(in.FilePath)
	if in.Resolution == "" || in.Language == "" || in.FilePath == "" {
		return nil, apperr.BadRequest("resolution, language, and file_path required")
	}

	m := MediaFile{ContentID: contentID, Resolution: in.Resolution, Language: in.Language, FilePath: in.FilePath}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FindContent(tx, contentID); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"content_id": contentID, "media_id": m.ID}).Info("media file added")
	return &m, nil
}

func (s *Service) DeleteMediaFile(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&MediaFile{}, "media_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Media file not found")
	}
	s.log.WithField("media_id", id).Info("media file deleted")
	return nil
}

func (s *Service) ListGenres(ctx context.Context) ([]Genre, error) {
	var out []Genre
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CreateGenre(ctx context.Context, name string) (*Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.BadRequest("name required")
	}

	g := Genre{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &Genre{}, "name = ?", name)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("Genre already exists")
		}
		return conflictOn(tx.Create(&g).Error, "Genre already exists")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("genre_id", g.ID).Info("genre created")
	return &g, nil
}

func (s *Service) UpdateGenre(ctx context.Context, id uint, name string) (*Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.BadRequest("name required")
	}

	var g *Genre
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if g, err = findGenre(tx, id); err != nil {
			return err
		}
		taken, err := exists(tx, &Genre{}, "name = ? AND genre_id <> ?", name, id)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("Genre already exists")
		}
		g.Name = name
		return conflictOn(tx.Model(&Genre{}).Where("genre_id = ?", id).Update("name", name).Error, "Genre already exists")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("genre_id", id).Info("genre updated")
	return g, nil
}

func (s *Service) DeleteGenre(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Genre{}, "genre_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Genre not found")
	}
	s.log.WithField("genre_id", id).Info("genre deleted")
	return nil
}

// LinkGenre tags content with a genre. Linking twice is a no-op.
func (s *Service) LinkGenre(ctx context.Context, contentID, genreID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FindContent(tx, contentID); err != nil {
			return err
		}
		if _, err := findGenre(tx, genreID); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&ContentGenre{ContentID: contentID, GenreID: genreID}).Error
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"content_id": contentID, "genre_id": genreID}).Info("genre linked")
	return nil
}

func (s *Service) UnlinkGenre(ctx context.Context, contentID, genreID uint) error {
	err := s.db.WithContext(ctx).
		Where("content_id = ? AND genre_id = ?", contentID, genreID).
		Delete(&ContentGenre{}).Error
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"content_id": contentID, "genre_id": genreID}).Info("genre unlinked")
	return nil
}

func (s *Service) CreateSeason(ctx context.Context, contentID uint, number int) (*Season, error) {
	if number < 1 {
		return nil, apperr.BadRequest("season_number required")
	}

	season := Season{ContentID: contentID, SeasonNumber: number}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := FindContent(tx, contentID)
		if err != nil {
			return err
		}
		if c.Type != TypeShow {
			return apperr.BadRequest("Seasons can only be added to shows")
		}
		taken, err := exists(tx, &Season{}, "content_id = ? AND season_number = ?", contentID, number)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("Season number already exists")
		}
		return conflictOn(tx.Create(&season).Error, "Season number already exists")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"content_id": contentID, "season_id": season.ID}).Info("season created")
	return &season, nil
}

func (s *Service) UpdateSeason(ctx context.Context, id uint, number int) (*Season, error) {
	if number < 1 {
		return nil, apperr.BadRequest("season_number required")
	}

	var season *Season
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if season, err = findSeason(tx, id); err != nil {
			return err
		}
		taken, err := exists(tx, &Season{}, "content_id = ? AND season_number = ? AND season_id <> ?", season.ContentID, number, id)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("Season number already exists")
		}
		season.SeasonNumber = number
		return conflictOn(tx.Model(&Season{}).Where("season_id = ?", id).Update("season_number", number).Error, "Season number already exists")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("season_id", id).Info("season updated")
	return season, nil
}

func (s *Service) DeleteSeason(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Season{}, "season_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Season not found")
	}
	s.log.WithField("season_id", id).Info("season deleted")
	return nil
}

func (s *Service) CreateEpisode(ctx context.Context, seasonID uint, title string, number int) (*Episode, error) {
	title = strings.TrimSpace(title)
	if title == "" || number < 1 {
		return nil, apperr.BadRequest("title and episode_number required")
	}

	ep := Episode{SeasonID: seasonID, Title: title, EpisodeNumber: number}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSeason(tx, seasonID); err != nil {
			return err
		}
		taken, err := exists(tx, &Episode{}, "season_id = ? AND episode_number = ?", seasonID, number)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("Episode number already exists")
		}
		return conflictOn(tx.Create(&ep).Error, "Episode number already exists")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"season_id": seasonID, "episode_id": ep.ID}).Info("episode created")
	return &ep, nil
}

func (s *Service) UpdateEpisode(ctx context.Context, id uint, in EpisodeUpdate) (*Episode, error) {
	var ep *Episode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if ep, err = findEpisode(tx, id); err != nil {
			return err
		}
		if in.Title != nil {
			if v := strings.TrimSpace(*in.Title); v != "" {
				ep.Title = v
			}
		}
		if in.EpisodeNumber != nil {
			n := *in.EpisodeNumber
			if n < 1 {
				return apperr.BadRequest("episode_number must be positive")
			}
			taken, err := exists(tx, &Episode{}, "season_id = ? AND episode_number = ? AND episode_id <> ?", ep.SeasonID, n, id)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Episode number already exists")
			}
			ep.EpisodeNumber = n
		}
		return conflictOn(tx.Model(&Episode{}).Where("episode_id = ?", id).Updates(map[string]interface{}{
			"title":          ep.Title,
			"episode_number": ep.EpisodeNumber,
		}).Error, "Episode number already exists")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("episode_id", id).Info("episode updated")
	return ep, nil
}

func (s *Service) DeleteEpisode(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Episode{}, "episode_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Episode not found")
	}
	s.log.WithField("episode_id", id).Info("episode deleted")
	return nil
}

// conflictOn reports a unique violation that slipped past the pre-check.
func conflictOn(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.KindConflict, msg, err)
	}
	return err
}
