package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivePeriod struct {
	StartYear int  `json:"startYear"`
	EndYear   *int `json:"endYear,omitempty"`
}

// Seq is the insertion order of a row. Listings sort by it last so pages
// are stable.
type Band struct {
	ID              uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid"`
	Seq             int64          `json:"-" gorm:"autoIncrement;not null;index"`
	Name            string         `json:"name" gorm:"type:varchar(100);not null"`
	YearOfFormation int            `json:"yearOfFormation" gorm:"not null;default:0;index"`
	AlsoKnownAs     string         `json:"alsoKnownAs" gorm:"type:varchar(100)"`
	Description     string         `json:"description" gorm:"type:text"`
	ActivePeriods   []ActivePeriod `json:"activePeriods" gorm:"type:jsonb;serializer:json"`
	ActiveSince     int            `json:"activeSince" gorm:"not null;default:0"`
	Genres          int64          `json:"genres" gorm:"not null;default:0"`
	CDate           time.Time      `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Album struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Seq          int64     `json:"-" gorm:"autoIncrement;not null;index"`
	Title        string    `json:"title" gorm:"type:varchar(200);not null"`
	Label        string    `json:"label" gorm:"type:varchar(100)"`
	DateReleased time.Time `json:"dateReleased" gorm:"type:timestamp with time zone"`
	BandID       uuid.UUID `json:"bandID" gorm:"type:uuid;not null;index"`
	Band         Band      `json:"-" gorm:"foreignKey:BandID;references:ID;constraint:OnDelete:CASCADE;"`
	CDate        time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Musician struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Seq         int64      `json:"-" gorm:"autoIncrement;not null;index"`
	FirstName   string     `json:"firstName" gorm:"type:varchar(50);not null"`
	MiddleName  string     `json:"middleName" gorm:"type:varchar(50)"`
	LastName    string     `json:"lastName" gorm:"type:varchar(50);not null"`
	AlsoKnownAs string     `json:"alsoKnownAs" gorm:"type:varchar(100)"`
	Biography   string     `json:"biography" gorm:"type:text"`
	DateOfBirth time.Time  `json:"dateOfBirth" gorm:"type:timestamp with time zone;not null"`
	DateOfDeath *time.Time `json:"dateOfDeath" gorm:"type:timestamp with time zone"`
	Instruments int64      `json:"instruments" gorm:"not null;default:0"`
	BandID      uuid.UUID  `json:"bandID" gorm:"type:uuid;not null;index"`
	Band        Band       `json:"-" gorm:"foreignKey:BandID;references:ID;constraint:OnDelete:CASCADE;"`
	CDate       time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Song struct {
	ID                uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Seq               int64      `json:"-" gorm:"autoIncrement;not null;index"`
	Title             string     `json:"title" gorm:"type:varchar(200);not null"`
	DurationInSeconds int        `json:"durationInSeconds" gorm:"not null;default:0"`
	DateRecorded      *time.Time `json:"dateRecorded" gorm:"type:timestamp with time zone"`
	DateReleased      *time.Time `json:"dateReleased" gorm:"type:timestamp with time zone;index"`
	Lyrics            string     `json:"lyrics" gorm:"type:text"`
	Genres            int64      `json:"genres" gorm:"not null;default:0"`
	BandID            uuid.UUID  `json:"bandID" gorm:"type:uuid;not null;index"`
	AlbumID           uuid.UUID  `json:"albumID" gorm:"type:uuid;not null;index"`
	Album             Album      `json:"-" gorm:"foreignKey:AlbumID;references:ID;constraint:OnDelete:CASCADE;"`
	LyricistID        *uuid.UUID `json:"lyricistID" gorm:"type:uuid"`
	Lyricist          *Musician  `json:"-" gorm:"foreignKey:LyricistID;references:ID;constraint:OnDelete:SET NULL;"`
	ComposerID        *uuid.UUID `json:"composerID" gorm:"type:uuid"`
	Composer          *Musician  `json:"-" gorm:"foreignKey:ComposerID;references:ID;constraint:OnDelete:SET NULL;"`
	CDate             time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
