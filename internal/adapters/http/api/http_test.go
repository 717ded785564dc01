package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/fetalbio/internal/adapters/http/api"
	service "github.com/okian/fetalbio/internal/app"
	"github.com/okian/fetalbio/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(64))
	ctx := context.Background()
	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, api.WithMaxBatchSize(10)).Register(ctx, mux)
	ts := httptest.NewServer(mux)
	return ts, func() {
		ts.Close()
		svc.Stop()
	}
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestClassifyEndpoint(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	Convey("Given the classification API", t, func() {
		Convey("A valid request returns the interpreted observation", func() {
			resp := postJSON(t, ts.URL+"/classify",
				`{"measurement":"bpd","gestational_age":{"weeks":20,"days":6},"value_mm":140.0}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body struct {
				Bin      string `json:"bin"`
				Observed bool   `json:"observed"`
				Term     struct {
					ID string `json:"id"`
				} `json:"term"`
				Feature struct {
					Excluded bool `json:"excluded"`
				} `json:"feature"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body.Bin, ShouldEqual, "below_3p")
			So(body.Observed, ShouldBeTrue)
			So(body.Term.ID, ShouldEqual, "HP:0000252")
			So(body.Feature.Excluded, ShouldBeFalse)
		})

		Convey("Malformed JSON is a bad request", func() {
			resp := postJSON(t, ts.URL+"/classify", `{`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown measurement name is a bad request", func() {
			resp := postJSON(t, ts.URL+"/classify",
				`{"measurement":"crown_rump","gestational_age":{"weeks":20,"days":0},"value_mm":50}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Invalid gestational days are a bad request", func() {
			resp := postJSON(t, ts.URL+"/classify",
				`{"measurement":"bpd","gestational_age":{"weeks":20,"days":7},"value_mm":150}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Estimated fetal weight is unprocessable", func() {
			resp := postJSON(t, ts.URL+"/classify",
				`{"measurement":"efw","gestational_age":{"weeks":20,"days":6},"value_mm":350}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("A gestational age outside the tables is not found", func() {
			resp := postJSON(t, ts.URL+"/classify",
				`{"measurement":"bpd","gestational_age":{"weeks":9,"days":0},"value_mm":80}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("GET on the classify route is not found", func() {
			resp, err := http.Get(ts.URL + "/classify")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestBatchEndpoint(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	Convey("Given the batch endpoint", t, func() {
		Convey("A mixed batch reports per-item outcomes in order", func() {
			resp := postJSON(t, ts.URL+"/classify/batch", `{"items":[
				{"measurement":"bpd","gestational_age":{"weeks":20,"days":6},"value_mm":140.0},
				{"measurement":"nope","gestational_age":{"weeks":20,"days":6},"value_mm":10},
				{"measurement":"bpd","gestational_age":{"weeks":9,"days":0},"value_mm":80},
				{"measurement":"bpd","gestational_age":{"weeks":20,"days":6},"value_mm":185.0}
			]}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body struct {
				Results []struct {
					Result *struct {
						Bin string `json:"bin"`
					} `json:"result"`
					Error string `json:"error"`
				} `json:"results"`
				Failed int `json:"failed"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(len(body.Results), ShouldEqual, 4)
			So(body.Failed, ShouldEqual, 2)
			So(body.Results[0].Result, ShouldNotBeNil)
			So(body.Results[0].Result.Bin, ShouldEqual, "below_3p")
			So(body.Results[1].Error, ShouldNotBeEmpty)
			So(body.Results[2].Error, ShouldNotBeEmpty)
			So(body.Results[3].Result, ShouldNotBeNil)
			So(body.Results[3].Result.Bin, ShouldEqual, "above_97p")
		})

		Convey("An empty batch is a bad request", func() {
			resp := postJSON(t, ts.URL+"/classify/batch", `{"items":[]}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An oversized batch is rejected", func() {
			items := `{"measurement":"bpd","gestational_age":{"weeks":20,"days":6},"value_mm":150}`
			payload := `{"items":[` + items
			for i := 0; i < 11; i++ {
				payload += "," + items
			}
			payload += `]}`
			resp := postJSON(t, ts.URL+"/classify/batch", payload)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestInfoEndpoints(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	Convey("Given the info endpoints", t, func() {
		Convey("The measurement listing covers the canonical set", func() {
			resp, err := http.Get(ts.URL + "/measurements")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body struct {
				Measurements []struct {
					Key    string `json:"key"`
					Mapped bool   `json:"mapped"`
				} `json:"measurements"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(len(body.Measurements), ShouldEqual, 6)
		})

		Convey("Stats reports the running state", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body struct {
				Started bool   `json:"started"`
				Source  string `json:"source"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body.Started, ShouldBeTrue)
			So(body.Source, ShouldEqual, "intergrowth")
		})

		Convey("The health endpoint serves metrics", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
