package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsundoku-app/core/internal/config"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(config.GoogleBooksConfig{Endpoint: server.URL}, zap.NewNop())
	return client, server
}

func makeItems(start, count int) []volumeItem {
	items := make([]volumeItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, volumeItem{
			ID:         fmt.Sprintf("vol-%d", start+i),
			VolumeInfo: volumeInfo{Title: fmt.Sprintf("Book %d", start+i)},
		})
	}
	return items
}

func TestSearchByISBNPagination(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
		resp := volumesResponse{TotalItems: 500}
		if start < 120 {
			resp.Items = makeItems(start, 40)
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))

	records := client.SearchByISBN(context.Background(), "978-4-87311-752-3", 0)
	assert.Len(t, records, 120)
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))
	assert.Equal(t, "vol-0", records[0].GoogleBooksID)
	assert.Equal(t, "vol-119", records[119].GoogleBooksID)
}

func TestSearchStopsAtTotalItems(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
		resp := volumesResponse{TotalItems: 40, Items: makeItems(start, 40)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))

	records := client.SearchByTitle(context.Background(), "golang", "", 0)
	assert.Len(t, records, 40)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSearchRespectsMaxResults(t *testing.T) {
	var sizes []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sizes = append(sizes, r.URL.Query().Get("maxResults"))
		start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
		size, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		resp := volumesResponse{TotalItems: 500, Items: makeItems(start, size)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))

	records := client.SearchByTitle(context.Background(), "golang", "", 50)
	assert.Len(t, records, 50)
	assert.Equal(t, []string{"40", "10"}, sizes)
}

func TestSearchKeepsPartialOnServerError(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
		resp := volumesResponse{TotalItems: 500, Items: makeItems(start, 40)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))

	records := client.SearchByTitle(context.Background(), "golang", "", 0)
	assert.Len(t, records, 40)
}

func TestSearchByISBNInvalidSkipsNetwork(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	for _, isbn := range []string{"", "   ", "123", "487311752x", "not-an-isbn", "12345678901"} {
		assert.Empty(t, client.SearchByISBN(context.Background(), isbn, 0), "isbn %q", isbn)
	}
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestSearchByTitleBlankSkipsNetwork(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	assert.Empty(t, client.SearchByTitle(context.Background(), "  ", "someone", 0))
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestSearchQueryComposition(t *testing.T) {
	var query string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		require.NoError(t, json.NewEncoder(w).Encode(volumesResponse{}))
	}))

	client.SearchByISBN(context.Background(), "9784873117523", 0)
	assert.Equal(t, "isbn:9784873117523", query)

	client.SearchByTitle(context.Background(), "Learning Go", "Jon Bodner", 0)
	assert.Equal(t, "Learning Go Jon Bodner", query)
}

func TestGetByID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/abc123", r.URL.Path)
		item := volumeItem{
			ID: "abc123",
			VolumeInfo: volumeInfo{
				Title:   "Learning Go",
				Authors: []string{"Jon Bodner", "Someone Else"},
				IndustryIdentifiers: []industryIdentifier{
					{Type: "ISBN_10", Identifier: "1492077216"},
					{Type: "ISBN_13", Identifier: "9781492077213"},
					{Type: "ISBN_13", Identifier: "9999999999999"},
				},
				ImageLinks: imageLinks{Thumbnail: "http://img/thumb"},
				Categories: []string{"Computers", "Programming"},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(item))
	}))

	record := client.GetByID(context.Background(), "abc123")
	require.NotNil(t, record)
	assert.Equal(t, "Learning Go", record.Title)
	assert.Equal(t, "Jon Bodner, Someone Else", record.Author)
	assert.Equal(t, "1492077216", record.ISBN10)
	assert.Equal(t, "9781492077213", record.ISBN13, "first identifier of the type wins")
	assert.Equal(t, "http://img/thumb", record.ImageURL)
	assert.Equal(t, "Computers, Programming", record.Categories)
}

func TestGetByIDBlankSkipsNetwork(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	assert.Nil(t, client.GetByID(context.Background(), "  "))
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestBestImageURLPreference(t *testing.T) {
	tests := []struct {
		name  string
		links imageLinks
		want  string
	}{
		{"large wins over all", imageLinks{Large: "l", Medium: "m", Small: "s", Thumbnail: "t", SmallThumbnail: "st"}, "l"},
		{"small over smallThumbnail", imageLinks{Small: "s", SmallThumbnail: "st"}, "s"},
		{"thumbnail over smallThumbnail", imageLinks{Thumbnail: "t", SmallThumbnail: "st"}, "t"},
		{"smallThumbnail alone", imageLinks{SmallThumbnail: "st"}, "st"},
		{"nothing", imageLinks{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bestImageURL(tt.links))
		})
	}
}

func TestParseVolumesDropsUnparsable(t *testing.T) {
	records := parseVolumes([]volumeItem{
		{ID: "a", VolumeInfo: volumeInfo{Title: "Keep"}},
		{},
		{ID: "b", VolumeInfo: volumeInfo{Title: "Also keep"}},
	})
	require.Len(t, records, 2)
	assert.Equal(t, "Keep", records[0].Title)
	assert.Equal(t, "Also keep", records[1].Title)
}
