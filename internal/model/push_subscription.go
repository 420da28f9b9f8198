package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Topics []PushTopic `gorm:"foreignKey:Endpoint;references:Endpoint;constraint:OnDelete:CASCADE"`
}

// PushTopic is one location a push subscription wants to hear about.
type PushTopic struct {
	ID       int64  `gorm:"primaryKey"`
	Endpoint string `gorm:"index;not null"`
	Gender   string `gorm:"size:32;not null;index:idx_push_topics_location"`
	Building string `gorm:"size:128;not null;index:idx_push_topics_location"`
	Floor    int    `gorm:"not null;index:idx_push_topics_location"`
}

// Location returns the topic's coordinates.
func (t PushTopic) Location() Location {
	return Location{Gender: t.Gender, Building: t.Building, Floor: t.Floor}
}
