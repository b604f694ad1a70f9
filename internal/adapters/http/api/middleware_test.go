package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/fplsquad/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestErrorClass(t *testing.T) {
	convey.Convey("Given response statuses", t, func() {
		cases := map[int]string{
			http.StatusOK:                  "",
			http.StatusCreated:             "",
			http.StatusBadRequest:          "client_error",
			http.StatusConflict:            "client_error",
			http.StatusUnprocessableEntity: "client_error",
			http.StatusNotFound:            "not_found",
			http.StatusInternalServerError: "server_error",
			http.StatusBadGateway:          "upstream_error",
			http.StatusServiceUnavailable:  "not_ready",
		}
		for status, want := range cases {
			convey.So(errorClass(status), convey.ShouldEqual, want)
		}
	})
}

func TestMetricsMiddleware(t *testing.T) {
	convey.Convey("Given a handler wrapped by the middleware", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("short and stout"))
		}, "teapot")

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

		convey.Convey("Then the first status and the body reach the client", func() {
			convey.So(rec.Code, convey.ShouldEqual, http.StatusTeapot)
			convey.So(rec.Body.String(), convey.ShouldEqual, "short and stout")
		})
	})

	convey.Convey("Given a recorder that only writes a body", t, func() {
		rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

		n, err := rec.Write([]byte("ok"))

		convey.So(err, convey.ShouldBeNil)
		convey.So(n, convey.ShouldEqual, 2)
		convey.So(rec.status, convey.ShouldEqual, http.StatusOK)
		convey.So(rec.written, convey.ShouldEqual, 2)
	})
}
