package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// ImageList stores design image URLs as a JSONB array.
type ImageList []string

// Value implements the driver.Valuer interface
func (l ImageList) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal ImageList: unsupported type %T", value)
	}

	return json.Unmarshal(data, l)
}

// Design is a portfolio entry published by an artist.
type Design struct {
	gorm.Model
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"` // e.g. "bridal", "arabic", "indo-western"
	Images      ImageList `json:"images" gorm:"type:jsonb"`
	ArtistID    uint      `json:"artist_id" gorm:"index"`
	Artist      User      `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
}
