package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/andrebq/bookshelf/internal/apierror"
	"github.com/andrebq/bookshelf/internal/logutil"
	"github.com/andrebq/bookshelf/internal/render"
	"github.com/andrebq/bookshelf/library"
	"github.com/andrebq/bookshelf/realm"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

type (
	Catalog interface {
		Recent(ctx context.Context, limit int) ([]library.Book, error)
		Book(ctx context.Context, id int64) (library.Book, error)
	}

	bookDetail struct {
		library.Book
		RequestedBy string `json:"requested_by"`
	}

	// filesOnly hides directory listings
	filesOnly struct {
		fs http.FileSystem
	}
)

// AsHandler serves the catalog and the files under libraryDir. Every route
// expects an authenticated principal in the request context.
func AsHandler(ctx context.Context, c Catalog, libraryDir string) http.Handler {
	router := httprouter.New()
	router.HandlerFunc("GET", "/book", listBooks(ctx, c))
	router.HandlerFunc("GET", "/book/:id", showBook(c))
	if libraryDir != "" {
		router.ServeFiles("/resource/*filepath", filesOnly{fs: http.Dir(libraryDir)})
	}
	return router
}

func listBooks(ctx context.Context, c Catalog) http.HandlerFunc {
	log := logutil.GetOrDefault(ctx).Sample(zerolog.Often)
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil {
			limit = library.DefaultLimit
		}
		books, err := c.Recent(r.Context(), limit)
		if err != nil {
			log.Error().Err(err).Msg("Unable to list books")
			apierror.Write(w, http.StatusInternalServerError, "Db error")
			return
		}
		render.JSON(w, http.StatusOK, books)
	}
}

func showBook(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(httprouter.ParamsFromContext(r.Context()).ByName("id"), 10, 64)
		if err != nil || id <= 0 {
			apierror.Write(w, http.StatusBadRequest, "invalid book id")
			return
		}
		book, err := c.Book(r.Context(), id)
		var notFound library.BookNotFound
		if errors.As(err, &notFound) {
			apierror.Write(w, http.StatusNotFound, notFound.Error())
			return
		} else if err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Int64("book.id", id).Msg("Unable to load book")
			apierror.Write(w, http.StatusInternalServerError, "Db error")
			return
		}
		principal, _ := realm.PrincipalFrom(r.Context())
		render.JSON(w, http.StatusOK, bookDetail{Book: book, RequestedBy: principal})
	}
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if st.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
