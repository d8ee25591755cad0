package models

import "time"

// Base carries the identity and timestamps shared by every stored entity.
// IDs are UUID strings so the same model works as a relational row and a
// document.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (b *Base) GetID() string { return b.ID }

func (b *Base) SetID(id string) { b.ID = id }

func (b *Base) StampCreate(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}

func (b *Base) StampUpdate(now time.Time) {
	b.UpdatedAt = now
}
