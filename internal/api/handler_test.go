package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rinkops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&service.Error{Kind: service.KindValidation, Message: "bad"}, http.StatusBadRequest},
		{&service.Error{Kind: service.KindNotFound, Message: "gone"}, http.StatusNotFound},
		{&service.Error{Kind: service.KindConflict, Message: "state"}, http.StatusConflict},
		{&service.Error{Kind: service.KindFeed, Message: "upstream"}, http.StatusBadGateway},
		{&service.Error{Kind: service.KindStore, Message: "db"}, http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err))
	}
}

func TestPathIDRejectsGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/things/:id", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for _, path := range []string{"/things/abc", "/things/0", "/things/-4"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/things/42", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestRespondErrorIncludesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		respondError(c, "fallback", &service.Error{
			Kind:    service.KindConflict,
			Message: "cannot transfer registration 7 in status removed",
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "cannot transfer registration 7"))
}
