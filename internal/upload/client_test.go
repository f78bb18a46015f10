package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	types []survey.Type
}

func (r *recordingInvalidator) Invalidate(t survey.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, t)
}

func TestNormalizePageName(t *testing.T) {
	assert.Equal(t, "cursos 2024", NormalizePageName("  Cursos 2024 \n"))
	assert.Empty(t, NormalizePageName("   "))
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("sends multipart fields and invalidates", func(t *testing.T) {
		var mu sync.Mutex
		var got struct {
			page, kind, file, content string
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			require.NoError(t, r.ParseMultipartForm(1<<20))
			got.page = r.FormValue("pageName")
			got.kind = r.FormValue("type")
			f, hdr, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			data, _ := io.ReadAll(f)
			got.file = hdr.Filename
			got.content = string(data)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"rows": 12}`))
		}))
		defer srv.Close()

		inv := &recordingInvalidator{}
		c := NewClient(srv.URL, zaptest.NewLogger(t), WithInvalidator(inv))

		res, err := c.Upload(ctx, " Avaliação 2024 ", survey.TypeDisciplineRemote, File{Name: "ead.xlsx", Body: strings.NewReader("xlsx-bytes")})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, 12.0, res[0]["rows"])

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "avaliação 2024", got.page)
		assert.Equal(t, "disciplina_ead", got.kind)
		assert.Equal(t, "ead.xlsx", got.file)
		assert.Equal(t, "xlsx-bytes", got.content)
		assert.Equal(t, []survey.Type{survey.TypeDisciplineRemote}, inv.types)
	})

	t.Run("error body is returned verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "planilha sem cabeçalho", http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		inv := &recordingInvalidator{}
		c := NewClient(srv.URL, zaptest.NewLogger(t), WithInvalidator(inv))
		_, err := c.Upload(ctx, "cursos", survey.TypeCourse, File{Name: "a.xlsx", Body: strings.NewReader("x")})
		require.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "planilha sem cabeçalho")
		assert.Empty(t, inv.types)
	})

	t.Run("empty error body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, zaptest.NewLogger(t))
		_, err := c.Upload(ctx, "cursos", survey.TypeCourse, File{Name: "a.xlsx", Body: strings.NewReader("x")})
		require.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "Upload failed")
	})

	t.Run("first failure stops the batch", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 2 {
				http.Error(w, "bad file", http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		inv := &recordingInvalidator{}
		c := NewClient(srv.URL, zaptest.NewLogger(t), WithInvalidator(inv))
		res, err := c.Upload(ctx, "cursos", survey.TypeCourse,
			File{Name: "a.xlsx", Body: strings.NewReader("a")},
			File{Name: "b.xlsx", Body: strings.NewReader("b")},
			File{Name: "c.xlsx", Body: strings.NewReader("c")})
		require.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "b.xlsx")
		assert.Len(t, res, 1)
		assert.Equal(t, int32(2), calls.Load())

		inv.mu.Lock()
		defer inv.mu.Unlock()
		assert.Equal(t, []survey.Type{survey.TypeCourse}, inv.types, "imported files must not stay behind a stale dataset")
	})

	t.Run("failure on the first file does not invalidate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad sheet", http.StatusBadRequest)
		}))
		defer srv.Close()

		inv := &recordingInvalidator{}
		c := NewClient(srv.URL, zaptest.NewLogger(t), WithInvalidator(inv))
		res, err := c.Upload(ctx, "cursos", survey.TypeCourse,
			File{Name: "a.xlsx", Body: strings.NewReader("a")},
			File{Name: "b.xlsx", Body: strings.NewReader("b")})
		require.ErrorIs(t, err, ErrRejected)
		assert.Empty(t, res)
		assert.Empty(t, inv.types)
	})

	t.Run("validation", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", nil)
		_, err := c.Upload(ctx, "  ", survey.TypeCourse)
		assert.ErrorIs(t, err, ErrMissingPageName)

		_, err = c.Upload(ctx, "page", survey.Type("outro"))
		assert.ErrorIs(t, err, survey.ErrUnknownType)

		_, err = c.Upload(ctx, "page", survey.TypeCourse, File{Name: "empty.xlsx", Body: strings.NewReader("")})
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}
