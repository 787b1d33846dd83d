package jikan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixelbook/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullRecord = `{
	"data": {
		"mal_id": 11,
		"title": "Naruto",
		"synopsis": "A ninja story",
		"score": 8.1,
		"status": "Finished",
		"volumes": 3,
		"images": {"jpg": {"large_image_url": "https://cdn.example/naruto.jpg"}},
		"authors": [{"name": "Masashi Kishimoto"}],
		"published": {
			"from": "1999-09-21T00:00:00+00:00",
			"to": "2014-11-10T00:00:00+00:00",
			"string": "Sep 21, 1999 to Nov 10, 2014"
		}
	}
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClientWithBaseURL(srv.URL), srv
}

func TestSearch(t *testing.T) {
	t.Run("SynthesizesVolumeList", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/manga", r.URL.Path)
			assert.Equal(t, "naruto", r.URL.Query().Get("q"))
			fmt.Fprint(w, `{"data": [{
				"mal_id": 11,
				"title": "Naruto",
				"volumes": 3,
				"images": {"jpg": {"large_image_url": "https://cdn.example/naruto.jpg"}}
			}]}`)
		})
		defer srv.Close()

		results, err := client.Search(context.Background(), "naruto")
		require.NoError(t, err)
		require.Len(t, results, 1)

		hit := results[0]
		assert.Equal(t, int64(11), hit.MalID)
		assert.Equal(t, 3, hit.VolumeCount)
		require.Len(t, hit.VolumesList, 3)

		first := hit.VolumesList[0]
		assert.Equal(t, "Naruto Volume 1", first.Title)
		assert.Equal(t, "978-1000001101", first.ISBN)
		assert.Equal(t, 9.99, first.Price)
		assert.GreaterOrEqual(t, first.PageCount, 150)
		assert.Less(t, first.PageCount, 250)
		require.NotNil(t, first.CoverURL)
		assert.Equal(t, "https://cdn.example/naruto.jpg", *first.CoverURL)

		assert.Equal(t, "Naruto Volume 3", hit.VolumesList[2].Title)
		assert.Equal(t, "978-1000001103", hit.VolumesList[2].ISBN)
	})

	t.Run("MissingVolumeCountDefaultsToOne", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data": [{"mal_id": 7, "title": "Oneshot"}]}`)
		})
		defer srv.Close()

		results, err := client.Search(context.Background(), "oneshot")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 1, results[0].VolumeCount)
		require.Len(t, results[0].VolumesList, 1)
	})

	t.Run("UpstreamFailureDegradesToEmpty", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		defer srv.Close()

		results, err := client.Search(context.Background(), "anything")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestPopular(t *testing.T) {
	t.Run("ReshapesMangaIntoLastVolume", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/top/manga", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			fmt.Fprint(w, `{"data": [{
				"mal_id": 2,
				"title": "Berserk",
				"synopsis": "Dark fantasy",
				"score": 9.4,
				"status": "Publishing",
				"volumes": 42
			}]}`)
		})
		defer srv.Close()

		feed, err := client.Popular(context.Background(), 2, 5)
		require.NoError(t, err)
		require.Len(t, feed, 1)

		v := feed[0]
		assert.Equal(t, int64(2), v.MalID)
		assert.Equal(t, "Berserk", v.MangaTitle)
		assert.Equal(t, 42, v.Number)
		assert.Equal(t, "Berserk Volume 42", v.Title)
		assert.Equal(t, "978-1000000242", v.ISBN)
		require.NotNil(t, v.Synopsis)
		assert.Equal(t, "Dark fantasy", *v.Synopsis)
		require.NotNil(t, v.Score)
		assert.Equal(t, 9.4, *v.Score)
	})

	t.Run("UpstreamFailureDegradesToEmpty", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		defer srv.Close()

		feed, err := client.Popular(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.Empty(t, feed)
	})
}

func TestMangaDetails(t *testing.T) {
	t.Run("MapsFullRecord", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/manga/11/full", r.URL.Path)
			fmt.Fprint(w, fullRecord)
		})
		defer srv.Close()

		manga, err := client.MangaDetails(context.Background(), 11)
		require.NoError(t, err)
		require.NotNil(t, manga)

		assert.Equal(t, "Naruto", manga.Title)
		require.NotNil(t, manga.MalID)
		assert.Equal(t, int64(11), *manga.MalID)
		require.NotNil(t, manga.Author)
		assert.Equal(t, "Masashi Kishimoto", *manga.Author)
		require.NotNil(t, manga.StartDate)
		assert.Equal(t, "1999-09-21", *manga.StartDate)
		require.NotNil(t, manga.EndDate)
		assert.Equal(t, "2014-11-10", *manga.EndDate)
	})

	t.Run("AbsentRecordIsNilNotError", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		})
		defer srv.Close()

		manga, err := client.MangaDetails(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, manga)
	})

	t.Run("NotFoundIsNilNotError", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		defer srv.Close()

		manga, err := client.MangaDetails(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, manga)
	})
}

func TestVolumes(t *testing.T) {
	t.Run("SynthesizesFullRange", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, fullRecord)
		})
		defer srv.Close()

		cover := "https://cdn.example/naruto.jpg"
		manga := &models.Manga{ID: 42, Title: "Naruto", CoverURL: &cover}

		volumes, err := client.Volumes(context.Background(), 11, manga, nil)
		require.NoError(t, err)
		require.Len(t, volumes, 3)

		for i, v := range volumes {
			assert.Equal(t, int64(42), v.MangaID)
			assert.Equal(t, i+1, v.Number)
			assert.Equal(t, fmt.Sprintf("Naruto Volume %d", i+1), v.Title)
			require.NotNil(t, v.ISBN)
			assert.Equal(t, fmt.Sprintf("978-10000011%02d", i+1), *v.ISBN)
			assert.Equal(t, 9.99, v.Price)
			require.NotNil(t, v.ReleaseDate)
		}

		// dates spread evenly: the first volume lands on the raw start date
		assert.Equal(t, "1999-09-21", *volumes[0].ReleaseDate)
		assert.NotEqual(t, *volumes[0].ReleaseDate, *volumes[2].ReleaseDate)
	})

	t.Run("UpstreamFailureDegradesToEmpty", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		defer srv.Close()

		cover := "x"
		manga := &models.Manga{ID: 1, Title: "X", CoverURL: &cover}
		volumes, err := client.Volumes(context.Background(), 1, manga, nil)
		require.NoError(t, err)
		assert.Empty(t, volumes)
	})
}

func TestVolumeDetail(t *testing.T) {
	t.Run("SynthesizesSingleVolume", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, fullRecord)
		})
		defer srv.Close()

		v, err := client.VolumeDetail(context.Background(), 11, 2)
		require.NoError(t, err)
		require.NotNil(t, v)

		assert.Equal(t, "Naruto - Volume 2", v.Title)
		assert.Equal(t, 2, v.Number)
		require.NotNil(t, v.ISBN)
		assert.Equal(t, "978-1000001102", *v.ISBN)
		require.NotNil(t, v.ReleaseDate)
		// year comes from the trailing 4 chars of the published string,
		// month shifts with the volume number
		assert.Equal(t, "2014-03-01", *v.ReleaseDate)
	})

	t.Run("NumberBeyondTotalIsNil", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, fullRecord)
		})
		defer srv.Close()

		v, err := client.VolumeDetail(context.Background(), 11, 4)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("UnknownMangaIsNil", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		})
		defer srv.Close()

		v, err := client.VolumeDetail(context.Background(), 999, 1)
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestSynthesisHelpers(t *testing.T) {
	t.Run("PseudoISBNIsDeterministic", func(t *testing.T) {
		assert.Equal(t, pseudoISBN(11, 1), pseudoISBN(11, 1))
		assert.Equal(t, "978-1000001101", pseudoISBN(11, 1))
		assert.NotEqual(t, pseudoISBN(11, 1), pseudoISBN(11, 2))
	})

	t.Run("PageCountStaysInRange", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			pc := estimatePageCount()
			assert.GreaterOrEqual(t, pc, 150)
			assert.Less(t, pc, 250)
		}
	})

	t.Run("ReleaseDateFallsBackToStart", func(t *testing.T) {
		start := "2001-05-01"
		got := estimateReleaseDate(&start, nil, 5, 3)
		require.NotNil(t, got)
		assert.Equal(t, "2001-05-01", *got)
	})

	t.Run("ReleaseDateNilWithoutStart", func(t *testing.T) {
		assert.Nil(t, estimateReleaseDate(nil, nil, 5, 3))
	})
}
