package resume_test

import (
	"testing"

	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/internal/domain/resume"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStatusTransitions(t *testing.T) {
	Convey("Given the entry status state machine", t, func() {
		Convey("Then only the documented edges are legal", func() {
			So(resume.CanTransition(resume.StatusPending, resume.StatusProcessing), ShouldBeTrue)
			So(resume.CanTransition(resume.StatusProcessing, resume.StatusCompleted), ShouldBeTrue)
			So(resume.CanTransition(resume.StatusProcessing, resume.StatusError), ShouldBeTrue)
		})

		Convey("And skipping Processing is illegal", func() {
			So(resume.CanTransition(resume.StatusPending, resume.StatusCompleted), ShouldBeFalse)
			So(resume.CanTransition(resume.StatusPending, resume.StatusError), ShouldBeFalse)
		})

		Convey("And terminal states have no exits", func() {
			for _, from := range []resume.Status{resume.StatusCompleted, resume.StatusError} {
				for _, to := range []resume.Status{resume.StatusPending, resume.StatusProcessing, resume.StatusCompleted, resume.StatusError} {
					So(resume.CanTransition(from, to), ShouldBeFalse)
				}
			}
		})

		Convey("And re-entering Pending is illegal from everywhere", func() {
			for _, from := range []resume.Status{resume.StatusProcessing, resume.StatusCompleted, resume.StatusError} {
				So(resume.CanTransition(from, resume.StatusPending), ShouldBeFalse)
			}
		})

		Convey("And Terminal reports final states only", func() {
			So(resume.StatusCompleted.Terminal(), ShouldBeTrue)
			So(resume.StatusError.Terminal(), ShouldBeTrue)
			So(resume.StatusPending.Terminal(), ShouldBeFalse)
			So(resume.StatusProcessing.Terminal(), ShouldBeFalse)
		})
	})
}

func TestPatchApply(t *testing.T) {
	Convey("Given a pending entry", t, func() {
		entry := resume.New("r1", "jane.pdf", 2048)
		So(entry.Status, ShouldEqual, resume.StatusPending)

		Convey("When applying a status-only patch", func() {
			updated := resume.StatusPatch(resume.StatusProcessing).Apply(entry)

			Convey("Then only the status changes", func() {
				So(updated.Status, ShouldEqual, resume.StatusProcessing)
				So(updated.ExtractedText, ShouldBeEmpty)
				So(updated.Profile, ShouldBeNil)
				So(updated.ErrorMessage, ShouldBeEmpty)
				So(updated.SourceFile, ShouldResemble, entry.SourceFile)
			})
		})

		Convey("When applying a completed patch", func() {
			profile := &model.CaregiverProfile{ID: "r1", Name: "Jane"}
			updated := resume.CompletedPatch("resume text", profile).Apply(entry)

			Convey("Then text and profile arrive together with the status", func() {
				So(updated.Status, ShouldEqual, resume.StatusCompleted)
				So(updated.ExtractedText, ShouldEqual, "resume text")
				So(updated.Profile, ShouldEqual, profile)
				So(updated.ErrorMessage, ShouldBeEmpty)
			})
		})

		Convey("When applying an error patch", func() {
			updated := resume.ErrorPatch("no text content found").Apply(entry)

			Convey("Then the message is set and the profile stays absent", func() {
				So(updated.Status, ShouldEqual, resume.StatusError)
				So(updated.ErrorMessage, ShouldEqual, "no text content found")
				So(updated.Profile, ShouldBeNil)
				So(updated.ExtractedText, ShouldBeEmpty)
			})
		})

		Convey("When applying an empty patch", func() {
			updated := resume.Patch{}.Apply(entry)

			Convey("Then the entry is unchanged", func() {
				So(updated, ShouldResemble, entry)
			})
		})
	})
}
