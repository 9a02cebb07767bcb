package storage

import (
	"time"

	"gorm.io/datatypes"
)

// UsageRecord is one completed or failed synthesis request.
type UsageRecord struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RequestID  string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"request_id"`
	Surface    string         `gorm:"index;not null" json:"surface"`
	Kind       string         `gorm:"index;not null" json:"kind"`
	Voice      string         `gorm:"index" json:"voice"`
	Language   string         `gorm:"index" json:"language"`
	Variant    string         `json:"variant"`
	TextChars  int            `json:"text_chars"`
	Sentences  int            `json:"sentences"`
	AudioMs    int64          `json:"audio_ms"`
	ElapsedMs  int64          `json:"elapsed_ms"`
	Status     string         `gorm:"index;not null" json:"status"`
	ErrorKind  string         `json:"error_kind,omitempty"`
	Detail     datatypes.JSON `json:"detail,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

// Surfaces a usage record can originate from.
const (
	SurfaceHTTP = "http"
	SurfaceWS   = "ws"
	SurfaceCLI  = "cli"
)

// Kinds of synthesis work.
const (
	KindSpeech = "speech"
	KindStream = "stream"
)

// Statuses a request can finish with.
const (
	StatusOK       = "ok"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)
