package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/config"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "Stock.xlsx"), [][]any{
		{"Subject", "Planet", "Sign", "Degree"},
		{"ACME", "Venus", "Aries", 10},
	})
	writeWorkbook(t, filepath.Join(dir, "Transit.xlsx"), [][]any{
		{"Datetime", "Jupiter Lng", "Saturn Lng"},
		{"2024-03-05 09:00:00", 11, 200},
		{"2024-03-05 10:00:00", 10.5, 200},
	})

	cfg := config.New(context.Background())
	cfg.DataDir = dir
	cfg.Watch = false
	cfg.CORSOrigins = []string{"https://example.org"}
	return cfg
}

func TestServerEndToEnd(t *testing.T) {
	convey.Convey("Given a server over workbooks in a temp dir", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)

		svc, err := newService(cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler := newHandler(ctx, cfg, svc)

		convey.Convey("When the subject report is requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/subjects/acme?date=2024-03-05", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			convey.Convey("Then the workbook data flows through to a golden report", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var body map[string]any
				convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
				convey.So(body["resolved"], convey.ShouldEqual, "ACME")
				convey.So(body["score"], convey.ShouldEqual, float64(10))
				convey.So(body["rating"], convey.ShouldEqual, "golden opportunity")
				convey.So(body["episodes"], convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When a CORS preflight arrives from an allowed origin", func() {
			req := httptest.NewRequest(http.MethodOptions, "/admin/reload", nil)
			req.Header.Set("Origin", "https://example.org")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			convey.Convey("Then the origin is allowed", func() {
				convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "https://example.org")
			})
		})

		convey.Convey("When a request comes from another origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/subjects", nil)
			req.Header.Set("Origin", "https://evil.example")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			convey.Convey("Then no CORS header is granted", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the docs are requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			convey.Convey("Then the spec is served", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestNewServiceRejectsBadWeights(t *testing.T) {
	convey.Convey("Given a config with an unknown planet weight", t, func() {
		cfg := config.New(context.Background())
		cfg.PlanetWeights = map[string]int{"vulcan": 3}

		convey.Convey("Then the service is not built", func() {
			svc, err := newService(cfg)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(svc, convey.ShouldBeNil)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		convey.Convey("Then system metrics update without panicking", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loops return when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			cfg := testConfig(t)
			svc, err := newService(cfg)
			convey.So(err, convey.ShouldBeNil)

			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("updaters did not stop")
			}
			convey.So(func() { updateServiceMetrics(context.Background(), svc) }, convey.ShouldNotPanic)
		})
	})
}
