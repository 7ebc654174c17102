package domain

import "github.com/google/uuid"

// Scope is the parent identity a nested resource lives under.
// uuid.Nil fields mean "not scoped".
type Scope struct {
	BandID  uuid.UUID
	AlbumID uuid.UUID
}

func (s Scope) HasBand() bool  { return s.BandID != uuid.Nil }
func (s Scope) HasAlbum() bool { return s.AlbumID != uuid.Nil }
