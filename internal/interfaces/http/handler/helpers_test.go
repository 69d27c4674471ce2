package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/parcelco/backoffice/internal/interfaces/http/dto"
	"github.com/parcelco/backoffice/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestSeq())
	return r
}

func perform(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode reads the envelope, unmarshalling data into out when given
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var env struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env.Response
}
