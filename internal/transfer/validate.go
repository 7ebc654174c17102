package transfer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/totegamma/discography/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}
		return nil
	}, Date{})

	must(v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseGenre(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("instrument", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseInstrument(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDuration(fl.Field().String())
		return err == nil
	}))

	v.RegisterStructValidation(activePeriodLevel, ActivePeriodInput{})
	v.RegisterStructValidation(musicianLevel, MusicianInput{})
	v.RegisterStructValidation(songLevel, SongInput{})

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func activePeriodLevel(sl validator.StructLevel) {
	p := sl.Current().Interface().(ActivePeriodInput)
	if p.EndYear != nil && *p.EndYear < p.StartYear {
		sl.ReportError(p.EndYear, "endYear", "EndYear", "periodorder", "")
	}
}

func musicianLevel(sl validator.StructLevel) {
	m := sl.Current().Interface().(MusicianInput)
	if m.DateOfDeath != nil && !m.DateOfDeath.IsZero() && !m.DateOfDeath.After(m.DateOfBirth.Time) {
		sl.ReportError(m.DateOfDeath, "dateOfDeath", "DateOfDeath", "deathafterbirth", "")
	}
}

func songLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(SongInput)
	if s.DateRecorded == nil || s.DateReleased == nil {
		return
	}
	if s.DateRecorded.IsZero() || s.DateReleased.IsZero() {
		return
	}
	if !s.DateRecorded.Before(s.DateReleased.Time) {
		sl.ReportError(s.DateRecorded, "dateRecorded", "DateRecorded", "recordedbeforereleased", "")
	}
}

var requiredMessages = map[string]string{
	"name":        "You should fill out a name.",
	"title":       "You should fill out a title.",
	"firstName":   "You should fill out a first name.",
	"lastName":    "You should fill out a last name.",
	"dateOfBirth": "You should fill out a date of birth.",
	"duration":    "You should fill out a duration.",
	"startYear":   "You should fill out a start year.",
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return fmt.Sprintf("You should fill out %s.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", fe.Field(), fe.Param())
	case "genre":
		return fmt.Sprintf("%v is not a known genre.", fe.Value())
	case "instrument":
		return fmt.Sprintf("%v is not a known instrument.", fe.Value())
	case "duration":
		return "The duration must be in m:ss format."
	case "periodorder":
		return "The end year cannot be before the start year."
	case "deathafterbirth":
		return "The date of death must be after the date of birth."
	case "recordedbeforereleased":
		return "The recording date must be before the release date."
	}
	return fmt.Sprintf("%s is invalid (%s).", fe.Field(), fe.Tag())
}

// fieldKey drops the root type from the namespace: "SongInput.title" -> "title".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// Validate checks a payload and reports failures as a domain.ValidationError.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := domain.ValidationError{}
	for _, fe := range fieldErrs {
		out.Add(fieldKey(fe), message(fe))
	}
	return out
}
