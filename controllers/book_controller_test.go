package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"minilibrary_go/config"
	"minilibrary_go/models"
	"minilibrary_go/services"
)

func setupBookRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	config.DB = db
	config.RedisClient = nil

	bc := NewBookController(services.NewBookService(), 1)
	r := gin.New()
	r.GET("/books/fetch", bc.FetchBooks)
	return r
}

func seedBooks(t *testing.T, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		book := models.Book{
			Title:           "Book",
			Author:          "Author",
			Genre:           "Genre",
			PublicationDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, config.DB.Create(&book).Error)
	}
}

func TestFetchBooksPaginationDefaults(t *testing.T) {
	r := setupBookRouter(t)
	seedBooks(t, 15)

	// absent and non-numeric params both fall back to page=1, limit=10
	for _, query := range []string{"", "?page=abc&limit=-5"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/fetch"+query, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data struct {
				Books      []json.RawMessage `json:"books"`
				Pagination struct {
					Total      int64 `json:"total"`
					Page       int   `json:"page"`
					Limit      int   `json:"limit"`
					TotalPages int64 `json:"totalPages"`
				} `json:"pagination"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Data.Books, 10)
		assert.EqualValues(t, 15, body.Data.Pagination.Total)
		assert.Equal(t, 1, body.Data.Pagination.Page)
		assert.Equal(t, 10, body.Data.Pagination.Limit)
		assert.EqualValues(t, 2, body.Data.Pagination.TotalPages)
	}
}
