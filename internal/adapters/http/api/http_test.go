package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pkoh123/carematch-ai/internal/app"
	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/internal/domain/resume"
	"github.com/pkoh123/carematch-ai/internal/domain/wizard"
	"github.com/pkoh123/carematch-ai/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeBackend struct{}

func (fakeBackend) ParseResume(_ context.Context, id, filename string, _ []byte) (string, *model.CaregiverProfile, error) {
	name := strings.TrimSuffix(filename, ".pdf")
	return "text for " + name, &model.CaregiverProfile{
		ID:        id,
		Name:      name,
		CareTypes: []model.CareType{model.CareTypeEldercare},
	}, nil
}

func (fakeBackend) Match(_ context.Context, profiles []model.CaregiverProfile, _ model.CareRequirements) ([]model.MatchResult, error) {
	results := make([]model.MatchResult, 0, len(profiles))
	for i, p := range profiles {
		results = append(results, model.MatchResult{Caregiver: p, Score: float64(95 - i*20)})
	}
	return model.NormalizeResults(results), nil
}

func (fakeBackend) Health(context.Context) (bool, error) { return true, nil }

func newTestServer() *httptest.Server {
	svc := app.New(fakeBackend{}, app.WithProgressDuration(20*time.Millisecond))
	mux := http.NewServeMux()
	NewServer(svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func uploadPDFs(t *testing.T, url string, names ...string) (*http.Response, []byte) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fmt.Fprintf(part, "%%PDF-1.4 %s", name)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	resp, err := http.Post(url, w.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("post upload: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func createSession(t *testing.T, baseURL string) app.View {
	t.Helper()

	resp, data := doJSON(t, http.MethodPost, baseURL+"/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}

	var view app.View
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return view
}

func waitForStep(t *testing.T, baseURL, sessionID string, step wizard.Step) app.View {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, data := doJSON(t, http.MethodGet, baseURL+"/sessions/"+sessionID, nil)
		if resp.StatusCode == http.StatusOK {
			var view app.View
			if err := json.Unmarshal(data, &view); err == nil && view.Step == step {
				return view
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session %s never reached step %s", sessionID, step)
	return app.View{}
}

func waitForParsed(t *testing.T, baseURL, sessionID string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, data := doJSON(t, http.MethodGet, baseURL+"/sessions/"+sessionID, nil)
		if resp.StatusCode == http.StatusOK {
			var view app.View
			if err := json.Unmarshal(data, &view); err == nil && len(view.Resumes) > 0 {
				done := true
				for _, e := range view.Resumes {
					if e.Status != resume.StatusCompleted {
						done = false
					}
				}
				if done {
					return
				}
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("resumes for session %s never finished parsing", sessionID)
}

func TestWizardFlow(t *testing.T) {
	Convey("Given the API over a working backend", t, func() {
		srv := newTestServer()
		defer srv.Close()

		view := createSession(t, srv.URL)
		So(view.Step, ShouldEqual, wizard.StepUpload)

		Convey("When resumes are uploaded", func() {
			resp, data := uploadPDFs(t, srv.URL+"/sessions/"+view.ID+"/resumes", "maria.pdf", "ana.pdf")
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)

			var accepted app.View
			So(json.Unmarshal(data, &accepted), ShouldBeNil)
			So(accepted.Resumes, ShouldHaveLength, 2)

			waitForParsed(t, srv.URL, view.ID)

			Convey("And the wizard runs through to results", func() {
				resp, _ := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+view.ID+"/steps/next", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				reqs := model.CareRequirements{
					CareType:        model.CareTypeEldercare,
					Languages:       []string{"English"},
					ExperienceLevel: "5+ years",
				}
				resp, _ = doJSON(t, http.MethodPost, srv.URL+"/sessions/"+view.ID+"/requirements", reqs)
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)

				waitForStep(t, srv.URL, view.ID, wizard.StepResults)

				resp, data := doJSON(t, http.MethodGet, srv.URL+"/sessions/"+view.ID+"/results", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var results []model.MatchResult
				So(json.Unmarshal(data, &results), ShouldBeNil)
				So(results, ShouldHaveLength, 2)
				So(results[0].Rank, ShouldEqual, 1)
			})
		})
	})
}

func TestUploadValidation(t *testing.T) {
	Convey("Given a fresh session", t, func() {
		srv := newTestServer()
		defer srv.Close()

		view := createSession(t, srv.URL)
		uploadURL := srv.URL + "/sessions/" + view.ID + "/resumes"

		Convey("Then non-pdf files are rejected", func() {
			resp, _ := uploadPDFs(t, uploadURL, "resume.docx")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then uploads past the cap are rejected", func() {
			resp, _ := uploadPDFs(t, uploadURL, "a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf", "f.pdf")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then an empty form is rejected", func() {
			resp, _ := uploadPDFs(t, uploadURL)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGuardsAndErrors(t *testing.T) {
	Convey("Given a fresh session", t, func() {
		srv := newTestServer()
		defer srv.Close()

		view := createSession(t, srv.URL)

		Convey("Then continue without resumes is a conflict", func() {
			resp, data := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+view.ID+"/steps/next", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
			So(string(data), ShouldContainSubstring, "step_blocked")
		})

		Convey("Then early results are a conflict", func() {
			resp, data := doJSON(t, http.MethodGet, srv.URL+"/sessions/"+view.ID+"/results", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
			So(string(data), ShouldContainSubstring, "not_ready")
		})

		Convey("Then an unknown session is a 404", func() {
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/sessions/nope", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then an unknown goto step is a 400", func() {
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+view.ID+"/steps/goto", map[string]string{"step": "sideways"})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then invalid requirements are a 400", func() {
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+view.ID+"/requirements", model.CareRequirements{})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the API over a healthy backend", t, func() {
		srv := newTestServer()
		defer srv.Close()

		Convey("Then the health proxy reports healthy", func() {
			resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(data), ShouldContainSubstring, "healthy")
		})

		Convey("Then metrics are served", func() {
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats report live counts", func() {
			createSession(t, srv.URL)

			resp, data := doJSON(t, http.MethodGet, srv.URL+"/stats", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats app.Stats
			So(json.Unmarshal(data, &stats), ShouldBeNil)
			So(stats.Sessions, ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}
