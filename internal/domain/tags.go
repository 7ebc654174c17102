package domain

import (
	"fmt"
	"strings"
)

// Genre is a musical genre tag.
type Genre string

const (
	GenreBlues     Genre = "Blues"
	GenreRock      Genre = "Rock"
	GenreJazz      Genre = "Jazz"
	GenreFunk      Genre = "Funk"
	GenreFolk      Genre = "Folk"
	GenrePop       Genre = "Pop"
	GenreClassical Genre = "Classical"
	GenreHipHop    Genre = "Hip Hop"
)

// Genres lists every genre in bit order.
var Genres = []Genre{
	GenreBlues, GenreRock, GenreJazz, GenreFunk,
	GenreFolk, GenrePop, GenreClassical, GenreHipHop,
}

// Instrument is an instrument a musician plays.
type Instrument string

const (
	InstrumentGuitar    Instrument = "Guitar"
	InstrumentDrums     Instrument = "Drums"
	InstrumentBass      Instrument = "Bass"
	InstrumentKeyboard  Instrument = "Keyboard"
	InstrumentHarmonica Instrument = "Harmonica"
	InstrumentSaxophone Instrument = "Saxophone"
	InstrumentTrumpet   Instrument = "Trumpet"
	InstrumentOrgan     Instrument = "Organ"
)

// Instruments lists every instrument in bit order.
var Instruments = []Instrument{
	InstrumentGuitar, InstrumentDrums, InstrumentBass, InstrumentKeyboard,
	InstrumentHarmonica, InstrumentSaxophone, InstrumentTrumpet, InstrumentOrgan,
}

func tagKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// ParseGenre resolves a genre name. Matching ignores case and spaces,
// so "hiphop" and "Hip Hop" are the same tag.
func ParseGenre(s string) (Genre, error) {
	key := tagKey(s)
	for _, g := range Genres {
		if tagKey(string(g)) == key {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown genre %q", s)
}

// ParseInstrument resolves an instrument name, ignoring case.
func ParseInstrument(s string) (Instrument, error) {
	key := tagKey(s)
	for _, i := range Instruments {
		if tagKey(string(i)) == key {
			return i, nil
		}
	}
	return "", fmt.Errorf("unknown instrument %q", s)
}

// ParseGenres resolves every name, failing on the first unknown one.
func ParseGenres(names []string) ([]Genre, error) {
	out := make([]Genre, 0, len(names))
	for _, n := range names {
		g, err := ParseGenre(n)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func ParseInstruments(names []string) ([]Instrument, error) {
	out := make([]Instrument, 0, len(names))
	for _, n := range names {
		i, err := ParseInstrument(n)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

// Bit returns the storage bit of a genre, 0 for unknown values.
func (g Genre) Bit() int64 {
	for i, v := range Genres {
		if v == g {
			return 1 << i
		}
	}
	return 0
}

func (in Instrument) Bit() int64 {
	for i, v := range Instruments {
		if v == in {
			return 1 << i
		}
	}
	return 0
}

// PackGenres encodes a genre set as a bitmask.
func PackGenres(gs []Genre) int64 {
	var mask int64
	for _, g := range gs {
		mask |= g.Bit()
	}
	return mask
}

// UnpackGenres decodes a bitmask into genres in bit order.
// Duplicates collapse and unknown bits are dropped.
func UnpackGenres(mask int64) []Genre {
	out := []Genre{}
	for i, g := range Genres {
		if mask&(1<<i) != 0 {
			out = append(out, g)
		}
	}
	return out
}

func PackInstruments(is []Instrument) int64 {
	var mask int64
	for _, in := range is {
		mask |= in.Bit()
	}
	return mask
}

func UnpackInstruments(mask int64) []Instrument {
	out := []Instrument{}
	for i, in := range Instruments {
		if mask&(1<<i) != 0 {
			out = append(out, in)
		}
	}
	return out
}
