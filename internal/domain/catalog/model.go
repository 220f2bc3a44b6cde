package catalog

import "time"

const (
	TypeMovie = "Movie"
	TypeShow  = "Show"
)

func ValidType(t string) bool {
	return t == TypeMovie || t == TypeShow
}

type Content struct {
	ID          uint   `gorm:"column:content_id;primaryKey" json:"content_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Type        string `gorm:"type:varchar(10);not null;index:idx_content_type" json:"type"`
	Description string `gorm:"type:text;not null" json:"description"`
	ReleaseYear int    `gorm:"not null;index:idx_content_release_year" json:"release_year"`

	MediaFiles []MediaFile `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE;" json:"-"`
	Seasons    []Season    `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (Content) TableName() string { return "content" }

type Genre struct {
	ID   uint   `gorm:"column:genre_id;primaryKey" json:"genre_id"`
	Name string `gorm:"type:varchar(50);not null;uniqueIndex:idx_genres_name" json:"name"`
}

type ContentGenre struct {
	ContentID uint    `gorm:"primaryKey;autoIncrement:false"`
	Content   Content `gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE;"`
	GenreID   uint    `gorm:"primaryKey;autoIncrement:false"`
	Genre     Genre   `gorm:"foreignKey:GenreID;references:ID;constraint:OnDelete:CASCADE;"`
}

type MediaFile struct {
	ID         uint   `gorm:"column:media_id;primaryKey" json:"media_id"`
	ContentID  uint   `gorm:"not null;index" json:"content_id"`
	Resolution string `gorm:"type:varchar(20);not null" json:"resolution"`
	Language   string `gorm:"type:varchar(50);not null" json:"language"`
	FilePath   string `gorm:"type:varchar(500);not null" json:"file_path"`

	CreatedAt time.Time `json:"created_at"`
}

type Season struct {
	ID           uint `gorm:"column:season_id;primaryKey" json:"season_id"`
	ContentID    uint `gorm:"not null;uniqueIndex:idx_seasons_content_number" json:"content_id"`
	SeasonNumber int  `gorm:"not null;uniqueIndex:idx_seasons_content_number" json:"season_number"`

	Episodes []Episode `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE;" json:"-"`
}

type Episode struct {
	ID            uint   `gorm:"column:episode_id;primaryKey" json:"episode_id"`
	SeasonID      uint   `gorm:"not null;uniqueIndex:idx_episodes_season_number" json:"season_id"`
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	EpisodeNumber int    `gorm:"not null;uniqueIndex:idx_episodes_season_number" json:"episode_number"`
}
