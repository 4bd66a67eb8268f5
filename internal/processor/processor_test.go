package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pkoh123/carematch-ai/internal/adapters/remote"
	"github.com/pkoh123/carematch-ai/internal/adapters/repository"
	"github.com/pkoh123/carematch-ai/internal/ai/gemini"
	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/internal/domain/resume"
	"github.com/pkoh123/carematch-ai/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubParser struct {
	mu sync.Mutex

	text    string
	profile *model.CaregiverProfile
	err     error

	// observed lets tests inspect the entry status at parse time.
	observed resume.Status
	store    repository.Store
	id       string
}

func (s *stubParser) ParseResume(ctx context.Context, id, filename string, payload []byte) (string, *model.CaregiverProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if e, err := s.store.Get(ctx, s.id); err == nil {
			s.observed = e.Status
		}
	}
	return s.text, s.profile, s.err
}

func newStoreWith(t *testing.T, id string) repository.Store {
	t.Helper()
	store := repository.NewMemStore()
	store.Add(context.Background(), resume.New(id, "maria.pdf", 1024))
	return store
}

func TestProcessCompletes(t *testing.T) {
	Convey("Given a pending resume and a parser that succeeds", t, func() {
		ctx := context.Background()
		store := newStoreWith(t, "r-1")
		parser := &stubParser{
			text:    "Maria Santos, 8 years eldercare",
			profile: &model.CaregiverProfile{ID: "r-1", Name: "Maria Santos"},
			store:   store,
			id:      "r-1",
		}
		proc := New(store, parser)

		Convey("When the resume is processed", func() {
			proc.Process(ctx, "r-1", "maria.pdf", []byte("%PDF-1.4"))

			entry, err := store.Get(ctx, "r-1")
			So(err, ShouldBeNil)

			Convey("Then the entry was processing while the parser ran", func() {
				So(parser.observed, ShouldEqual, resume.StatusProcessing)
			})

			Convey("Then the entry completes with text and profile together", func() {
				So(entry.Status, ShouldEqual, resume.StatusCompleted)
				So(entry.ExtractedText, ShouldEqual, "Maria Santos, 8 years eldercare")
				So(entry.Profile, ShouldNotBeNil)
				So(entry.Profile.Name, ShouldEqual, "Maria Santos")
				So(entry.ErrorMessage, ShouldBeEmpty)
			})
		})
	})
}

func TestProcessFails(t *testing.T) {
	Convey("Given a parser that fails without a user-facing message", t, func() {
		ctx := context.Background()
		store := newStoreWith(t, "r-1")
		parser := &stubParser{err: errors.New("dial tcp: connection refused")}
		proc := New(store, parser)

		Convey("When the resume is processed", func() {
			proc.Process(ctx, "r-1", "maria.pdf", []byte("%PDF-1.4"))

			entry, err := store.Get(ctx, "r-1")
			So(err, ShouldBeNil)

			Convey("Then the entry lands in error with the generic message", func() {
				So(entry.Status, ShouldEqual, resume.StatusError)
				So(entry.ErrorMessage, ShouldEqual, "Failed to process resume")
				So(entry.ExtractedText, ShouldBeEmpty)
				So(entry.Profile, ShouldBeNil)
			})
		})
	})
}

func TestProcessFailureMessages(t *testing.T) {
	Convey("Given parsers that fail with recognizable causes", t, func() {
		ctx := context.Background()

		Convey("When the backend rejected the resume with a detail", func() {
			store := newStoreWith(t, "r-1")
			parser := &stubParser{
				err: &remote.BackendError{StatusCode: 422, Detail: "No text content found in PDF"},
			}
			New(store, parser).Process(ctx, "r-1", "maria.pdf", []byte("%PDF-1.4"))

			entry, err := store.Get(ctx, "r-1")
			So(err, ShouldBeNil)

			Convey("Then the backend detail reaches the entry", func() {
				So(entry.Status, ShouldEqual, resume.StatusError)
				So(entry.ErrorMessage, ShouldContainSubstring, "No text content found in PDF")
			})
		})

		Convey("When a wrapped backend detail is buried in the chain", func() {
			store := newStoreWith(t, "r-1")
			parser := &stubParser{
				err: fmt.Errorf("parse resume: %w", &remote.BackendError{StatusCode: 429, Detail: "Rate limit exceeded"}),
			}
			New(store, parser).Process(ctx, "r-1", "maria.pdf", []byte("%PDF-1.4"))

			entry, err := store.Get(ctx, "r-1")
			So(err, ShouldBeNil)

			Convey("Then the detail is still surfaced", func() {
				So(entry.ErrorMessage, ShouldEqual, "Rate limit exceeded")
			})
		})

		Convey("When the PDF held no extractable text", func() {
			store := newStoreWith(t, "r-1")
			parser := &stubParser{err: fmt.Errorf("extract text: %w", gemini.ErrNoText)}
			New(store, parser).Process(ctx, "r-1", "maria.pdf", []byte("%PDF-1.4"))

			entry, err := store.Get(ctx, "r-1")
			So(err, ShouldBeNil)

			Convey("Then the entry says so instead of the generic message", func() {
				So(entry.ErrorMessage, ShouldEqual, "No text content found in PDF")
			})
		})

		Convey("When the backend error carries no detail", func() {
			store := newStoreWith(t, "r-1")
			parser := &stubParser{err: &remote.BackendError{StatusCode: 500}}
			New(store, parser).Process(ctx, "r-1", "maria.pdf", []byte("%PDF-1.4"))

			entry, err := store.Get(ctx, "r-1")
			So(err, ShouldBeNil)

			Convey("Then the generic message is the fallback", func() {
				So(entry.ErrorMessage, ShouldEqual, "Failed to process resume")
			})
		})
	})
}

func TestProcessRemovedEntry(t *testing.T) {
	Convey("Given a resume removed before its parse finishes", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		store.Add(ctx, resume.New("r-1", "maria.pdf", 1024))
		store.Add(ctx, resume.New("r-2", "ana.pdf", 2048))
		store.Remove(ctx, "r-1")

		parser := &stubParser{text: "text", profile: &model.CaregiverProfile{ID: "r-1"}}
		proc := New(store, parser)

		Convey("When the late parse result arrives", func() {
			proc.Process(ctx, "r-1", "maria.pdf", []byte("%PDF-1.4"))

			Convey("Then the remaining collection is untouched", func() {
				So(store.Count(ctx), ShouldEqual, 1)
				entry, err := store.Get(ctx, "r-2")
				So(err, ShouldBeNil)
				So(entry.Status, ShouldEqual, resume.StatusPending)
			})
		})
	})
}
