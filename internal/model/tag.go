package model

import "time"

type Tag struct {
	Name      string    `firestore:"name" json:"name"`
	Count     int64     `firestore:"count" json:"count"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
