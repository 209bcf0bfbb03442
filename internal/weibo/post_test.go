package weibo

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostStatusTextOnly(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/statuses/update.json", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		if !assert.NoError(t, r.ParseForm()) {
			return
		}

		var keys []string
		for k := range r.PostForm {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		assert.Equal(t, []string{"access_token", "status"}, keys)
		assert.Equal(t, "hello weibo", r.PostForm.Get("status"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 42, "text": "hello weibo"})
	})

	res, err := c.PostStatus(context.Background(), loggedIn(), "hello weibo", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello weibo", res["text"])
}

func TestPostStatusWithImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/statuses/upload.json", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "with picture", r.FormValue("status"))
		assert.Equal(t, "tok", r.FormValue("access_token"))

		f, hdr, err := r.FormFile(PictureField)
		if !assert.NoError(t, err) {
			return
		}
		defer func() { _ = f.Close() }()
		assert.Equal(t, "pic.png", hdr.Filename)

		decoded, err := png.Decode(f)
		if assert.NoError(t, err) {
			assert.Equal(t, img.Bounds(), decoded.Bounds())
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 43})
	})

	_, err := c.PostStatus(context.Background(), loggedIn(), "with picture", img)
	require.NoError(t, err)
}

func TestPostStatusPassesServerRejection(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "text too long", "error_code": 20012})
	})

	res, err := c.PostStatus(context.Background(), loggedIn(), "x", nil)
	assert.Nil(t, res)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 20012, apiErr.Code)
}
