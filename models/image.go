package models

import (
	"time"
)

// Image is one uploaded landmark photo. Filename and Thumbnail reference
// assets in the blob store; Thumbnail and the capture columns stay NULL when
// the pipeline could not resolve them.
type Image struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Category    string  `gorm:"index" json:"category"`
	Filename    string  `gorm:"not null" json:"filename"`
	Thumbnail   *string `json:"thumbnail"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	UploadDate  string  `json:"upload_date"` // "YYYY-MM-DD"
	UploadTime  string  `json:"upload_time"` // "HH:MM:SS"
	CaptureDate *string `json:"capture_date"`
	CaptureTime *string `json:"capture_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
