package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/present/rest/presenter"
	"github.com/totegamma/discography/internal/shape"
	"github.com/totegamma/discography/internal/transfer"
	"github.com/totegamma/discography/internal/usecase"
)

type Handler struct {
	bands       *usecase.BandUsecase
	albums      *usecase.AlbumUsecase
	musicians   *usecase.MusicianUsecase
	songs       *usecase.SongUsecase
	collections *usecase.BandCollectionUsecase
	signal      EventStream
}

// EventStream feeds the change events of the resources last sent on input
// to output until ctx ends.
type EventStream interface {
	Realtime(ctx context.Context, input <-chan []string, output chan<- discography.Event)
}

func NewHandler(
	bands *usecase.BandUsecase,
	albums *usecase.AlbumUsecase,
	musicians *usecase.MusicianUsecase,
	songs *usecase.SongUsecase,
	collections *usecase.BandCollectionUsecase,
	signal EventStream,
) *Handler {
	return &Handler{
		bands:       bands,
		albums:      albums,
		musicians:   musicians,
		songs:       songs,
		collections: collections,
		signal:      signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api", h.handleRoot)
	e.GET("/api/bandcollections/:ids", h.handleGetBandCollection)
	e.POST("/api/bandcollections", h.handleCreateBandCollection)
	e.GET("/api/realtime", h.handleRealtime)

	registerResource(e, h.bands, transfer.FromBand)
	registerResource(e, h.albums, transfer.FromAlbum)
	registerResource(e, h.musicians, transfer.FromMusician)
	registerResource(e, h.songs, transfer.FromSong)
}

func (h *Handler) handleRoot(c echo.Context) error {
	return presenter.OK(c, discography.Root{
		Links: builder(c).Root(catalog.Bands.Collection),
	})
}

func shapeBands(bands []domain.Band) ([]shape.Fields, error) {
	out := make([]shape.Fields, 0, len(bands))
	for _, b := range bands {
		f, err := shape.Apply(transfer.FromBand(b), "")
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (h *Handler) handleGetBandCollection(c echo.Context) error {
	ctx := c.Request().Context()

	ids, err := discography.ParseIDList(c.Param("ids"))
	if err != nil {
		return presenter.BadRequestMessage(c, err.Error())
	}

	bands, err := h.collections.Get(ctx, ids)
	if err != nil {
		return presenter.Error(c, err)
	}
	out, err := shapeBands(bands)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, out)
}

func (h *Handler) handleCreateBandCollection(c echo.Context) error {
	ctx := c.Request().Context()

	var inputs []transfer.BandInput
	if err := bind(c, &inputs); err != nil {
		return presenter.Error(c, err)
	}

	bands, err := h.collections.Create(ctx, inputs)
	if err != nil {
		return presenter.Error(c, err)
	}
	out, err := shapeBands(bands)
	if err != nil {
		return presenter.Error(c, err)
	}

	ids := make([]uuid.UUID, 0, len(bands))
	for _, b := range bands {
		ids = append(ids, b.ID)
	}
	location := builder(c).Href("/api/bandcollections/"+discography.ComposeIDList(ids), nil)
	return presenter.Created(c, location, out)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type      string   `json:"type"`
	Resources []string `json:"resources"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil {
		return c.JSON(http.StatusServiceUnavailable, discography.ProblemDetails{
			Title:  "Service Unavailable",
			Status: http.StatusServiceUnavailable,
			Detail: "realtime events are disabled",
		})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return nil
	}
	defer func() {
		ws.Close()
	}()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	input := make(chan []string)
	output := make(chan discography.Event)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}

			switch req.Type {
			case "listen":
				select {
				case input <- req.Resources:
				case <-ctx.Done():
					return
				}
				slog.DebugContext(
					ctx, fmt.Sprintf("Socket subscribe: %s", req.Resources),
					slog.String("module", "socket"),
				)
			case "h": // heartbeat
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
