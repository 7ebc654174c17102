package domain

const (
	ResourceBand     = "band"
	ResourceAlbum    = "album"
	ResourceMusician = "musician"
	ResourceSong     = "song"
)

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

const (
	RequestIDCtxKey = "discography-requestId"
)

const (
	RequestIDHeader  = "X-Request-Id"
	PaginationHeader = "X-Pagination"
)
