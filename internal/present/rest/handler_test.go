package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/infra/memory"
	"github.com/totegamma/discography/internal/usecase"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	return newServer(t, nil)
}

func newServer(t *testing.T, stream EventStream) *echo.Echo {
	t.Helper()
	store := memory.NewStore()
	bands := memory.NewBandRepository(store)
	albums := memory.NewAlbumRepository(store)
	musicians := memory.NewMusicianRepository(store)
	songs := memory.NewSongRepository(store)
	config := domain.Config{
		VerifyReferencesOnReplace: true,
		ScopeSongPatchByAlbum:     true,
	}

	h := NewHandler(
		usecase.NewBandUsecase(bands, nil),
		usecase.NewAlbumUsecase(albums, bands, musicians, nil),
		usecase.NewMusicianUsecase(musicians, bands, nil),
		usecase.NewSongUsecase(songs, albums, musicians, nil, config),
		usecase.NewBandCollectionUsecase(bands, nil),
		stream,
	)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func rels(links any) []string {
	out := []string{}
	list, _ := links.([]any)
	for _, l := range list {
		m, _ := l.(map[string]any)
		out = append(out, fmt.Sprint(m["rel"]))
	}
	return out
}

func linkHref(links any, rel string) string {
	list, _ := links.([]any)
	for _, l := range list {
		m, _ := l.(map[string]any)
		if m["rel"] == rel {
			return fmt.Sprint(m["href"])
		}
	}
	return ""
}

func createBand(t *testing.T, e *echo.Echo, body string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/bands", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create band: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	return fmt.Sprint(decode(t, rec)["Id"])
}

func TestCreateAndFilterBand(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/bands", `{"name":"Led Zeppelin","yearOfFormation":1968,"genres":["Blues","Rock","Folk"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	id := fmt.Sprint(body["Id"])
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected generated id, got %q", id)
	}
	if rec.Header().Get(echo.HeaderLocation) != "http://example.com/api/bands/"+id {
		t.Fatalf("unexpected location %q", rec.Header().Get(echo.HeaderLocation))
	}
	genres := fmt.Sprint(body["Genres"])
	if genres != "[Blues Rock Folk]" {
		t.Fatalf("unexpected genres %s", genres)
	}
	if got := rels(body["links"]); len(got) != 5 {
		t.Fatalf("expected item links on create, got %v", got)
	}

	rec = do(e, http.MethodGet, "/api/bands/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	body = decode(t, rec)
	if body["Name"] != "Led Zeppelin" || body["YearOfFormation"] != float64(1968) {
		t.Fatalf("unexpected band %v", body)
	}

	rec = do(e, http.MethodGet, "/api/bands?genre=Rock", "")
	if n := len(decode(t, rec)["value"].([]any)); n != 1 {
		t.Fatalf("expected band in rock listing, got %d", n)
	}
	rec = do(e, http.MethodGet, "/api/bands?genre=Jazz", "")
	if n := len(decode(t, rec)["value"].([]any)); n != 0 {
		t.Fatalf("expected no jazz bands, got %d", n)
	}
	rec = do(e, http.MethodGet, "/api/bands?genre=Polka", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown genre, got %d", rec.Code)
	}
}

func TestShapingAndNegotiation(t *testing.T) {
	e := newTestServer(t)
	id := createBand(t, e, `{"name":"Led Zeppelin","alsoKnownAs":"New Yardbirds"}`)

	rec := do(e, http.MethodGet, "/api/bands/"+id+"?fields=Name,Id", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	want := fmt.Sprintf(`{"Name":"Led Zeppelin","Id":"%s"}`, id)
	if strings.TrimSpace(rec.Body.String()) != want {
		t.Fatalf("expected %s got %s", want, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/bands/"+id+"?fields=Name,Nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/api/bands/"+id, "", "Accept", discography.MediaTypeHateoas)
	body := decode(t, rec)
	if linkHref(body["links"], "self") != "http://example.com/api/bands/"+id {
		t.Fatalf("expected self link, got %v", body["links"])
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), discography.MediaTypeHateoas) {
		t.Fatalf("unexpected content type %q", rec.Header().Get(echo.HeaderContentType))
	}

	rec = do(e, http.MethodGet, "/api/bands/"+id, "", "Accept", "application/json")
	if _, ok := decode(t, rec)["links"]; ok {
		t.Fatalf("plain json must not carry links")
	}

	rec = do(e, http.MethodGet, "/api/bands/"+id, "", "Accept", "not a media type")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad accept, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/api/bands/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/bands/not-an-id", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestListItemLinksOmitFields(t *testing.T) {
	e := newTestServer(t)
	id := createBand(t, e, `{"name":"Led Zeppelin"}`)

	rec := do(e, http.MethodGet, "/api/bands?fields=Name,Id", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	value := decode(t, rec)["value"].([]any)
	if len(value) != 1 {
		t.Fatalf("expected one band, got %v", value)
	}
	item := value[0].(map[string]any)
	if _, ok := item["AlsoKnownAs"]; ok {
		t.Fatalf("item should be shaped to Name,Id, got %v", item)
	}
	if self := linkHref(item["links"], "self"); self != "http://example.com/api/bands/"+id {
		t.Fatalf("unexpected item self link %q", self)
	}
}

func TestListHugePageNumber(t *testing.T) {
	e := newTestServer(t)
	createBand(t, e, `{"name":"Led Zeppelin"}`)

	rec := do(e, http.MethodGet, "/api/bands?pageNumber=461168601842738792&pageSize=20", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if n := len(decode(t, rec)["value"].([]any)); n != 0 {
		t.Fatalf("expected an empty page, got %d items", n)
	}
}

func seedBands(t *testing.T, e *echo.Echo, n int) {
	t.Helper()
	names := make([]string, 0, n)
	for i := n; i >= 1; i-- {
		names = append(names, fmt.Sprintf(`{"name":"Band %02d"}`, i))
	}
	rec := do(e, http.MethodPost, "/api/bandcollections", "["+strings.Join(names, ",")+"]")
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPagination(t *testing.T) {
	e := newTestServer(t)
	seedBands(t, e, 25)

	rec := do(e, http.MethodGet, "/api/bands?pageNumber=2&pageSize=10&orderBy=Name&searchQuery=band", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var meta discography.PaginationMetadata
	if err := json.Unmarshal([]byte(rec.Header().Get("X-Pagination")), &meta); err != nil {
		t.Fatalf("bad pagination header: %v", err)
	}
	if meta.TotalCount != 25 || meta.TotalPages != 3 || meta.CurrentPage != 2 || meta.PageSize != 10 {
		t.Fatalf("unexpected metadata %+v", meta)
	}

	body := decode(t, rec)
	value := body["value"].([]any)
	first := value[0].(map[string]any)
	if len(value) != 10 || first["Name"] != "Band 11" {
		t.Fatalf("unexpected page %v", value)
	}
	if got := rels(first["links"]); len(got) != 5 {
		t.Fatalf("expected links on every item, got %v", got)
	}

	got := rels(body["links"])
	if strings.Join(got, ",") != "self,nextPage,previousPage" {
		t.Fatalf("unexpected collection links %v", got)
	}
	next := linkHref(body["links"], "nextPage")
	for _, part := range []string{"pageNumber=3", "pageSize=10", "orderBy=Name", "searchQuery=band"} {
		if !strings.Contains(next, part) {
			t.Fatalf("next link %q misses %s", next, part)
		}
	}
	if prev := linkHref(body["links"], "previousPage"); !strings.Contains(prev, "pageNumber=1") {
		t.Fatalf("unexpected previous link %q", prev)
	}

	rec = do(e, http.MethodGet, "/api/bands?pageNumber=3&pageSize=10&orderBy=Name", "")
	if n := len(decode(t, rec)["value"].([]any)); n != 5 {
		t.Fatalf("expected 5 items on the last page, got %d", n)
	}

	rec = do(e, http.MethodGet, "/api/bands?pageSize=999", "")
	if err := json.Unmarshal([]byte(rec.Header().Get("X-Pagination")), &meta); err != nil {
		t.Fatalf("bad pagination header: %v", err)
	}
	if meta.PageSize != 20 {
		t.Fatalf("expected page size clamped to 20, got %d", meta.PageSize)
	}

	rec = do(e, http.MethodGet, "/api/bands?pageSize=50&searchQuery=Band%2001", "")
	if got := rels(decode(t, rec)["links"]); len(got) != 1 || got[0] != "self" {
		t.Fatalf("single page should only link self, got %v", got)
	}
}

func TestListRejectsUnknownNames(t *testing.T) {
	e := newTestServer(t)
	seedBands(t, e, 2)

	cases := []string{
		"/api/bands?orderBy=NotAField",
		"/api/bands?orderBy=Name sideways",
		"/api/bands?fields=Name,Bogus",
		"/api/bands?pageNumber=two",
		"/api/bands?yearOfFormation=sixties",
	}
	for _, target := range cases {
		rec := do(e, http.MethodGet, strings.ReplaceAll(target, " ", "%20"), "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, rec.Code)
		}
		if _, ok := decode(t, rec)["value"]; ok {
			t.Fatalf("%s: must not return partial results", target)
		}
	}

	rec := do(e, http.MethodGet, "/api/bands?orderBy=name%20desc,%20ActivePeriods", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected valid orderBy to pass, got %d", rec.Code)
	}
}

func TestUpsert(t *testing.T) {
	e := newTestServer(t)
	id := uuid.NewString()

	rec := do(e, http.MethodPut, "/api/bands/"+id, `{"name":"Cream","yearOfFormation":1966}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if fmt.Sprint(decode(t, rec)["Id"]) != id {
		t.Fatalf("expected record at the requested id")
	}

	rec = do(e, http.MethodPut, "/api/bands/"+id, `{"name":"Cream","yearOfFormation":1967}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/bands/"+id, "")
	if decode(t, rec)["YearOfFormation"] != float64(1967) {
		t.Fatalf("replace not persisted")
	}

	rec = do(e, http.MethodPut, "/api/bands/"+id, `{"yearOfFormation":1967}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestPatch(t *testing.T) {
	e := newTestServer(t)
	id := createBand(t, e, `{"name":"Led Zeppelin","yearOfFormation":1968}`)

	rec := do(e, http.MethodPatch, "/api/bands/"+id, `[{"op":"replace","path":"/description","value":"English rock band"}]`,
		echo.HeaderContentType, discography.MediaTypePatch)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, do(e, http.MethodGet, "/api/bands/"+id, ""))
	if body["Description"] != "English rock band" || body["YearOfFormation"] != float64(1968) {
		t.Fatalf("unexpected patched band %v", body)
	}

	rec = do(e, http.MethodPatch, "/api/bands/"+id, `[{"op":"replace","path":"/name","value":""}]`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	problem := decode(t, rec)
	errs, _ := problem["errors"].(map[string]any)
	if _, ok := errs["name"]; !ok {
		t.Fatalf("expected field error for name, got %v", problem)
	}

	rec = do(e, http.MethodPatch, "/api/bands/"+id, `[{"op":"replace","path":"/nope","value":1}]`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for inapplicable patch, got %d", rec.Code)
	}
	rec = do(e, http.MethodPatch, "/api/bands/"+id, `{"op":"replace"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed patch, got %d", rec.Code)
	}

	fresh := uuid.NewString()
	rec = do(e, http.MethodPatch, "/api/bands/"+fresh, `[{"op":"replace","path":"/name","value":"The Yardbirds"}]`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteAndOptions(t *testing.T) {
	e := newTestServer(t)
	id := createBand(t, e, `{"name":"Led Zeppelin"}`)

	rec := do(e, http.MethodDelete, "/api/bands/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	rec = do(e, http.MethodDelete, "/api/bands/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/bands/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}

	rec = do(e, http.MethodOptions, "/api/bands", "")
	if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderAllow) != allowedMethods {
		t.Fatalf("unexpected options response %d %q", rec.Code, rec.Header().Get(echo.HeaderAllow))
	}

	rec = do(e, http.MethodHead, "/api/bands", "")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Pagination") == "" {
		t.Fatalf("expected head to mirror get, got %d", rec.Code)
	}
}

func TestNestedResources(t *testing.T) {
	e := newTestServer(t)
	band := createBand(t, e, `{"name":"Led Zeppelin"}`)

	rec := do(e, http.MethodGet, "/api/bands/"+uuid.NewString()+"/albums", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing band, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/bands/"+uuid.NewString()+"/albums?orderBy=Nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("parent check must run before orderBy, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/bands/"+band+"/musicians",
		`{"firstName":"James","lastName":"Page","dateOfBirth":"1944-01-09","instruments":["Guitar"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create musician: %d %s", rec.Code, rec.Body.String())
	}
	musician := decode(t, rec)
	if musician["Name"] != "James Page" || !strings.HasPrefix(fmt.Sprint(musician["DateOfBirth"]), "1944-01-09") {
		t.Fatalf("unexpected musician %v", musician)
	}
	page := fmt.Sprint(musician["Id"])

	rec = do(e, http.MethodPost, "/api/bands/"+band+"/albums", fmt.Sprintf(`{
		"title":"Led Zeppelin","label":"Atlantic","dateReleased":"1969-01-12",
		"songs":[{"title":"Good Times Bad Times","duration":"2:43","composerId":"%s"}]
	}`, page))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create album: %d %s", rec.Code, rec.Body.String())
	}
	album := fmt.Sprint(decode(t, rec)["Id"])
	songs := "/api/bands/" + band + "/albums/" + album + "/songs"

	rec = do(e, http.MethodGet, songs, "")
	value := decode(t, rec)["value"].([]any)
	if len(value) != 1 || value[0].(map[string]any)["Duration"] != "2:43" {
		t.Fatalf("expected nested song, got %v", value)
	}

	rec = do(e, http.MethodPost, songs, fmt.Sprintf(`{"title":"Dazed and Confused","duration":"6:28","lyricistId":"%s"}`, uuid.NewString()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown lyricist, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, songs, `{"title":"Dazed and Confused","duration":"6:28","dateReleased":"1969-01-12","genres":["Rock"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create song: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, songs+"?fromDateReleased=1969-01-01&orderBy=Duration%20desc", "")
	value = decode(t, rec)["value"].([]any)
	if len(value) != 1 || value[0].(map[string]any)["Title"] != "Dazed and Confused" {
		t.Fatalf("unexpected filtered songs %v", value)
	}

	other := createBand(t, e, `{"name":"Cream"}`)
	rec = do(e, http.MethodGet, "/api/bands/"+other+"/albums/"+album+"/songs", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("album of another band must be 404, got %d", rec.Code)
	}
}

func TestBandCollections(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/bandcollections", `[{"name":"Cream"},{"name":"Blind Faith"}]`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	location := rec.Header().Get(echo.HeaderLocation)
	path := strings.TrimPrefix(location, "http://example.com")

	rec = do(e, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d for %s", rec.Code, path)
	}
	var bands []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &bands); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(bands) != 2 || bands[0]["Name"] != "Cream" {
		t.Fatalf("unexpected bands %v", bands)
	}

	rec = do(e, http.MethodGet, "/api/bandcollections/(nope)", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/bandcollections/("+uuid.NewString()+")", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	rec = do(e, http.MethodPost, "/api/bandcollections", `[{"name":"ok"},{"name":""}]`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestRootAndRealtime(t *testing.T) {
	e := newTestServer(t)

	body := decode(t, do(e, http.MethodGet, "/api", ""))
	if strings.Join(rels(body["links"]), ",") != "self,bands,create_band" {
		t.Fatalf("unexpected root links %v", body["links"])
	}

	rec := do(e, http.MethodGet, "/api/realtime", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without redis, got %d", rec.Code)
	}
}

type fakeStream struct {
	listened chan []string
}

func (f *fakeStream) Realtime(ctx context.Context, input <-chan []string, output chan<- discography.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case resources := <-input:
			f.listened <- resources
			for _, r := range resources {
				select {
				case output <- discography.Event{Type: "created", Resource: r, ID: "id-" + r}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func TestRealtimeListen(t *testing.T) {
	stream := &fakeStream{listened: make(chan []string, 1)}
	srv := httptest.NewServer(newServer(t, stream))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/realtime", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer ws.Close()

	if err := ws.WriteJSON(map[string]any{"type": "h"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := ws.WriteJSON(map[string]any{"type": "listen", "resources": []string{"band"}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case got := <-stream.listened:
		if len(got) != 1 || got[0] != "band" {
			t.Fatalf("unexpected listen %v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("listen request never reached the stream")
	}

	ws.SetReadDeadline(time.Now().Add(time.Second))
	var event discography.Event
	if err := ws.ReadJSON(&event); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if event.Type != "created" || event.Resource != "band" || event.ID != "id-band" {
		t.Fatalf("unexpected event %+v", event)
	}
}
