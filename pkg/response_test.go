package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type TestHttpResponseWriter struct {
	HeaderMap  http.Header
	Body       []byte
	StatusCode int
}

func (w *TestHttpResponseWriter) Header() http.Header {
	return w.HeaderMap
}

func (w *TestHttpResponseWriter) Write(bytes []byte) (int, error) {
	w.Body = bytes
	return len(bytes), nil
}

func (w *TestHttpResponseWriter) WriteHeader(statusCode int) {
	w.StatusCode = statusCode
}

func TestWriteResponseBytes(t *testing.T) {
	w := &TestHttpResponseWriter{
		HeaderMap: make(http.Header),
	}

	testJson := `{"key":"val"}`
	WriteResponseBytes(w, ContentType.JSON, []byte(testJson), http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.StatusCode)
	assert.Equal(t, ContentType.JSON, w.HeaderMap.Get("Content-Type"))
	assert.Equal(t, testJson, string(w.Body))
}

func TestWriteTextResponseOK(t *testing.T) {
	w := &TestHttpResponseWriter{
		HeaderMap: make(http.Header),
	}

	testText := `test text`
	WriteTextResponseOK(w, testText)

	assert.Equal(t, http.StatusOK, w.StatusCode)
	assert.Equal(t, ContentType.Text, w.HeaderMap.Get("Content-Type"))
	assert.Equal(t, testText, string(w.Body))
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, map[string]int{"count": 3}, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, ContentType.JSON, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, rr.Body.String())
}

func TestWriteJSON_Unmarshalable(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, make(chan int), http.StatusOK)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestWriteAttachment(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAttachment(rr, ContentType.CSV, "user_health_data.csv", []byte("a,b\n"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ContentType.CSV, rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="user_health_data.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", rr.Body.String())
}
