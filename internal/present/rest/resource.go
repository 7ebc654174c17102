package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/hateoas"
	"github.com/totegamma/discography/internal/present/rest/presenter"
	"github.com/totegamma/discography/internal/shape"
	"github.com/totegamma/discography/internal/usecase"
)

const allowedMethods = "GET,HEAD,OPTIONS,POST,PUT,PATCH,DELETE"

// resource serves one catalog resource type. R is its output representation.
type resource[E usecase.Entity, C any, U any, R shape.Representation] struct {
	uc      *usecase.Resource[E, C, U]
	desc    *catalog.Descriptor
	present func(E) R
}

func registerResource[E usecase.Entity, C any, U any, R shape.Representation](
	e *echo.Echo,
	uc *usecase.Resource[E, C, U],
	present func(E) R,
) {
	r := &resource[E, C, U, R]{
		uc:      uc,
		desc:    uc.Descriptor(),
		present: present,
	}

	collection := r.desc.CollectionRoute()
	item := r.desc.ItemRoute()

	e.GET(collection, r.handleList)
	e.HEAD(collection, r.handleList)
	e.OPTIONS(collection, r.handleOptions)
	e.POST(collection, r.handleCreate)
	e.GET(item, r.handleGet)
	e.PUT(item, r.handleReplace)
	e.PATCH(item, r.handlePatch)
	e.DELETE(item, r.handleDelete)
}

func (r *resource[E, C, U, R]) scope(c echo.Context) (domain.Scope, error) {
	var scope domain.Scope
	for _, p := range r.desc.Parents {
		id, err := uuid.Parse(c.Param(p))
		if err != nil {
			return scope, domain.Invalidf("invalid %s %q", p, c.Param(p))
		}
		switch p {
		case "bandId":
			scope.BandID = id
		case "albumId":
			scope.AlbumID = id
		}
	}
	return scope, nil
}

func (r *resource[E, C, U, R]) target(c echo.Context) (domain.Scope, uuid.UUID, error) {
	scope, err := r.scope(c)
	if err != nil {
		return scope, uuid.Nil, err
	}
	raw := c.Param(r.desc.IDParam)
	id, err := uuid.Parse(raw)
	if err != nil {
		return scope, uuid.Nil, domain.Invalidf("invalid %s %q", r.desc.IDParam, raw)
	}
	return scope, id, nil
}

func builder(c echo.Context) hateoas.Builder {
	return hateoas.NewBuilder(c.Scheme(), c.Request().Host)
}

// represent shapes entity down to fields.
func (r *resource[E, C, U, R]) represent(entity E, fields string) (shape.Fields, error) {
	return shape.Apply(r.present(entity), fields)
}

// link appends the item links of entity. linkFields is carried on self.
func (r *resource[E, C, U, R]) link(c echo.Context, scope domain.Scope, entity E, out shape.Fields, linkFields string) {
	out.Set("links", builder(c).Item(
		r.desc.Name,
		r.desc.CollectionPath(scope),
		r.desc.ItemPath(scope, entity.Key()),
		linkFields,
	))
}

func (r *resource[E, C, U, R]) handleList(c echo.Context) error {
	ctx := c.Request().Context()

	scope, err := r.scope(c)
	if err != nil {
		return presenter.Error(c, err)
	}
	params, err := r.desc.ParseParams(c.QueryParams())
	if err != nil {
		return presenter.Error(c, err)
	}

	page, err := r.uc.List(ctx, scope, params)
	if err != nil {
		return presenter.Error(c, err)
	}

	value := make([]any, 0, len(page.Items))
	for _, item := range page.Items {
		shaped, err := r.represent(item, params.Fields)
		if err != nil {
			return presenter.Error(c, err)
		}
		r.link(c, scope, item, shaped, "")
		value = append(value, shaped)
	}

	metadata, err := json.Marshal(discography.PaginationMetadata{
		TotalCount:  page.TotalCount,
		PageSize:    page.PageSize,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	c.Response().Header().Set(domain.PaginationHeader, string(metadata))

	links := builder(c).Collection(r.desc.CollectionPath(scope), params.Values(), hateoas.Page{
		CurrentPage: page.CurrentPage,
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
	})

	return presenter.OK(c, discography.Collection{
		Value: value,
		Links: links,
	})
}

func (r *resource[E, C, U, R]) handleOptions(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, allowedMethods)
	return c.NoContent(http.StatusOK)
}

func (r *resource[E, C, U, R]) handleGet(c echo.Context) error {
	ctx := c.Request().Context()

	mediaType, links, err := negotiate(c.Request().Header.Get(echo.HeaderAccept))
	if err != nil {
		return presenter.Error(c, err)
	}
	scope, id, err := r.target(c)
	if err != nil {
		return presenter.Error(c, err)
	}
	fields := c.QueryParam("fields")
	if err := r.desc.CheckFields(fields); err != nil {
		return presenter.Error(c, err)
	}

	entity, err := r.uc.Get(ctx, scope, id)
	if err != nil {
		return presenter.Error(c, err)
	}

	out, err := r.represent(entity, fields)
	if err != nil {
		return presenter.Error(c, err)
	}
	if links {
		r.link(c, scope, entity, out, fields)
	}
	c.Response().Header().Set(echo.HeaderContentType, mediaType)
	return presenter.OK(c, out)
}

func bind(c echo.Context, payload any) error {
	if err := c.Bind(payload); err != nil {
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		return domain.Invalidf("malformed body: %s", msg)
	}
	return nil
}

func (r *resource[E, C, U, R]) created(c echo.Context, scope domain.Scope, entity E) error {
	out, err := r.represent(entity, "")
	if err != nil {
		return presenter.Error(c, err)
	}
	r.link(c, scope, entity, out, "")
	location := builder(c).Href(r.desc.ItemPath(scope, entity.Key()), nil)
	return presenter.Created(c, location, out)
}

func (r *resource[E, C, U, R]) handleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	scope, err := r.scope(c)
	if err != nil {
		return presenter.Error(c, err)
	}
	var in C
	if err := bind(c, &in); err != nil {
		return presenter.Error(c, err)
	}

	entity, err := r.uc.Create(ctx, scope, in)
	if err != nil {
		return presenter.Error(c, err)
	}
	return r.created(c, scope, entity)
}

func (r *resource[E, C, U, R]) handleReplace(c echo.Context) error {
	ctx := c.Request().Context()

	scope, id, err := r.target(c)
	if err != nil {
		return presenter.Error(c, err)
	}
	var in U
	if err := bind(c, &in); err != nil {
		return presenter.Error(c, err)
	}

	entity, created, err := r.uc.Replace(ctx, scope, id, in)
	if err != nil {
		return presenter.Error(c, err)
	}
	if created {
		return r.created(c, scope, entity)
	}
	return presenter.NoContent(c)
}

// handlePatch applies an RFC 6902 document to the current payload of the
// record, or to a blank payload when the record does not exist.
func (r *resource[E, C, U, R]) handlePatch(c echo.Context) error {
	ctx := c.Request().Context()

	scope, id, err := r.target(c)
	if err != nil {
		return presenter.Error(c, err)
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return presenter.Error(c, err)
	}
	patch, err := jsonpatch.DecodePatch(body)
	if err != nil {
		return presenter.Error(c, domain.Invalidf("malformed patch document: %s", err.Error()))
	}

	entity, created, err := r.uc.Patch(ctx, scope, id, func(in *U) error {
		return applyPatch(patch, in)
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	if created {
		return r.created(c, scope, entity)
	}
	return presenter.NoContent(c)
}

// applyPatch reports failures as validation errors so that a document that
// cannot be applied is answered like one that produces an invalid payload.
func applyPatch[U any](patch jsonpatch.Patch, in *U) error {
	doc, err := json.Marshal(in)
	if err != nil {
		return err
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		verr := domain.ValidationError{}
		verr.Add("patch", err.Error())
		return verr
	}

	var out U
	if err := json.Unmarshal(patched, &out); err != nil {
		verr := domain.ValidationError{}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			verr.Add(typeErr.Field, strings.TrimSpace(typeErr.Error()))
		} else {
			verr.Add("patch", err.Error())
		}
		return verr
	}
	*in = out
	return nil
}

func (r *resource[E, C, U, R]) handleDelete(c echo.Context) error {
	ctx := c.Request().Context()

	scope, id, err := r.target(c)
	if err != nil {
		return presenter.Error(c, err)
	}
	if err := r.uc.Delete(ctx, scope, id); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.NoContent(c)
}
