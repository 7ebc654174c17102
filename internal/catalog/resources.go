package catalog

import (
	"strconv"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/mapping"
	"github.com/totegamma/discography/internal/query"
	"github.com/totegamma/discography/internal/shape"
	"github.com/totegamma/discography/internal/transfer"
)

// Storage field names shared by the mapping tables, the filters and the
// repositories.
const (
	FieldID                = "id"
	FieldName              = "name"
	FieldYearOfFormation   = "year_of_formation"
	FieldAlsoKnownAs       = "also_known_as"
	FieldActiveSince       = "active_since"
	FieldGenres            = "genres"
	FieldTitle             = "title"
	FieldLabel             = "label"
	FieldDateReleased      = "date_released"
	FieldDateRecorded      = "date_recorded"
	FieldFirstName         = "first_name"
	FieldMiddleName        = "middle_name"
	FieldLastName          = "last_name"
	FieldDateOfBirth       = "date_of_birth"
	FieldDateOfDeath       = "date_of_death"
	FieldInstruments       = "instruments"
	FieldDurationInSeconds = "duration_in_seconds"
)

const defaultOrderBy = "Id"

var Bands = &Descriptor{
	Name:       domain.ResourceBand,
	Collection: "/api/bands",
	IDParam:    "bandId",
	Mapping: mapping.NewTable(domain.ResourceBand,
		mapping.Field("Id", FieldID),
		mapping.Field("Name", FieldName),
		mapping.Field("YearOfFormation", FieldYearOfFormation),
		mapping.Field("AlsoKnownAs", FieldAlsoKnownAs),
		mapping.Field("ActivePeriods", FieldActiveSince).Reversed(),
	),
	Fields: shape.Names(transfer.BandDto{}),
	Search: []string{FieldName, FieldAlsoKnownAs},
	Filters: []Filter{
		{Param: "yearOfFormation", Build: yearFilter(FieldYearOfFormation)},
		{Param: "genre", Build: genreFilter},
	},
	DefaultOrderBy: defaultOrderBy,
}

var Albums = &Descriptor{
	Name:       domain.ResourceAlbum,
	Collection: "/api/bands/{bandId}/albums",
	Parents:    []string{"bandId"},
	IDParam:    "albumId",
	Mapping: mapping.NewTable(domain.ResourceAlbum,
		mapping.Field("Id", FieldID),
		mapping.Field("Title", FieldTitle),
		mapping.Field("Label", FieldLabel),
		mapping.Field("DateReleased", FieldDateReleased),
	),
	Fields: shape.Names(transfer.AlbumDto{}),
	Search: []string{FieldTitle, FieldLabel},
	Filters: []Filter{
		{Param: "label", Build: func(raw string) (query.Predicate, bool, error) {
			return query.Equal(FieldLabel, raw), true, nil
		}},
	},
	DefaultOrderBy: defaultOrderBy,
}

var Musicians = &Descriptor{
	Name:       domain.ResourceMusician,
	Collection: "/api/bands/{bandId}/musicians",
	Parents:    []string{"bandId"},
	IDParam:    "musicianId",
	Mapping: mapping.NewTable(domain.ResourceMusician,
		mapping.Field("Id", FieldID),
		mapping.Field("Name", FieldFirstName, FieldMiddleName, FieldLastName),
		mapping.Field("AlsoKnownAs", FieldAlsoKnownAs),
		mapping.Field("DateOfBirth", FieldDateOfBirth),
		mapping.Field("DateOfDeath", FieldDateOfDeath),
	),
	Fields: shape.Names(transfer.MusicianDto{}),
	Search: []string{FieldFirstName, FieldMiddleName, FieldLastName, FieldAlsoKnownAs},
	Filters: []Filter{
		{Param: "instrument", Build: instrumentFilter},
	},
	DefaultOrderBy: defaultOrderBy,
}

var Songs = &Descriptor{
	Name:       domain.ResourceSong,
	Collection: "/api/bands/{bandId}/albums/{albumId}/songs",
	Parents:    []string{"bandId", "albumId"},
	IDParam:    "songId",
	Mapping: mapping.NewTable(domain.ResourceSong,
		mapping.Field("Id", FieldID),
		mapping.Field("Title", FieldTitle),
		mapping.Field("Duration", FieldDurationInSeconds),
		mapping.Field("DateRecorded", FieldDateRecorded),
		mapping.Field("DateReleased", FieldDateReleased),
	),
	Fields: shape.Names(transfer.SongDto{}),
	Search: []string{FieldTitle},
	Filters: []Filter{
		{Param: "genre", Build: genreFilter},
		{Param: "fromDateReleased", Build: dateFilter(query.After)},
		{Param: "toDateReleased", Build: dateFilter(query.Before)},
	},
	DefaultOrderBy: defaultOrderBy,
}

// yearFilter matches a year exactly; 0 means no filter.
func yearFilter(field string) func(string) (query.Predicate, bool, error) {
	return func(raw string) (query.Predicate, bool, error) {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return query.Predicate{}, false, err
		}
		if year == 0 {
			return query.Predicate{}, false, nil
		}
		return query.Equal(field, year), true, nil
	}
}

func genreFilter(raw string) (query.Predicate, bool, error) {
	g, err := domain.ParseGenre(raw)
	if err != nil {
		return query.Predicate{}, false, err
	}
	return query.HasFlag(FieldGenres, g.Bit()), true, nil
}

func instrumentFilter(raw string) (query.Predicate, bool, error) {
	in, err := domain.ParseInstrument(raw)
	if err != nil {
		return query.Predicate{}, false, err
	}
	return query.HasFlag(FieldInstruments, in.Bit()), true, nil
}

func dateFilter(op func(string, any) query.Predicate) func(string) (query.Predicate, bool, error) {
	return func(raw string) (query.Predicate, bool, error) {
		t, err := transfer.ParseDate(raw)
		if err != nil {
			return query.Predicate{}, false, err
		}
		return op(FieldDateReleased, t), true, nil
	}
}
