package model

import (
	"time"

	"gorm.io/datatypes"
)

// ClientState is one saved copy of the client's long-lived state, keyed by
// STATE_KEY so several clients can share a database.
type ClientState struct {
	Key              string         `gorm:"type:text;primaryKey"`
	Payload          datatypes.JSON `gorm:"type:jsonb;not null"`
	CurrentSessionId string         `gorm:"type:text"`
	SavedAt          time.Time      `gorm:"not null"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (ClientState) TableName() string {
	return "client_states"
}
