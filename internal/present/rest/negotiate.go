package rest

import (
	"mime"
	"strings"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/domain"
)

// negotiate reads an Accept header. links reports whether the first media
// type asks for hypermedia, i.e. its subtype without the structured syntax
// suffix ends in "hateoas". An empty header means plain JSON.
func negotiate(accept string) (mediaType string, links bool, err error) {
	if strings.TrimSpace(accept) == "" {
		return discography.MediaTypeJSON, false, nil
	}

	for i, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			return "", false, domain.Invalidf("invalid Accept header %q", accept)
		}
		_, sub, ok := strings.Cut(mt, "/")
		if !ok || sub == "" {
			return "", false, domain.Invalidf("invalid Accept header %q", accept)
		}
		if i > 0 {
			continue
		}
		mediaType = mt
		if plus := strings.LastIndex(sub, "+"); plus >= 0 {
			sub = sub[:plus]
		}
		links = strings.HasSuffix(sub, "hateoas")
	}

	if !links {
		mediaType = discography.MediaTypeJSON
	}
	return mediaType, links, nil
}
