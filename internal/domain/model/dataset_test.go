package model_test

import (
	"testing"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	. "github.com/smartystreets/goconvey/convey"
)

func ts(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestDataset(t *testing.T) {
	Convey("Given a dataset built from unordered samples", t, func() {
		placements := []model.NatalPlacement{
			model.NewPlacement("Zeta", zodiac.Sun, 1),
			model.NewPlacement("Alpha", zodiac.Sun, 2),
			model.NewPlacement("Zeta", zodiac.Moon, 3),
		}
		samples := []model.TransitSample{
			{Timestamp: ts(6, 0)},
			{Timestamp: ts(5, 12)},
			{Timestamp: ts(5, 0)},
			{Timestamp: ts(4, 23)},
		}
		ds := model.NewDataset(placements, samples)

		Convey("Then samples are time ordered", func() {
			got := ds.Samples()
			So(got, ShouldHaveLength, 4)
			for i := 1; i < len(got); i++ {
				So(got[i-1].Timestamp.After(got[i].Timestamp), ShouldBeFalse)
			}
		})

		Convey("Then subjects are distinct and sorted", func() {
			So(ds.Subjects(), ShouldResemble, []string{"Alpha", "Zeta"})
		})

		Convey("Then range selection is inclusive on both ends", func() {
			got := ds.SamplesBetween(ts(5, 0), ts(5, 12))
			So(got, ShouldHaveLength, 2)
			So(got[0].Timestamp, ShouldEqual, ts(5, 0))
			So(got[1].Timestamp, ShouldEqual, ts(5, 12))
		})

		Convey("Then an empty range selects nothing", func() {
			So(ds.SamplesBetween(ts(7, 0), ts(7, 23)), ShouldBeEmpty)
		})

		Convey("Then mutating the inputs does not leak into the dataset", func() {
			placements[0].Subject = "Changed"
			So(ds.Placements()[0].Subject, ShouldEqual, "Zeta")
		})
	})

	Convey("Given a nil dataset", t, func() {
		var ds *model.Dataset

		Convey("Then accessors return empty tables", func() {
			So(ds.Placements(), ShouldBeEmpty)
			So(ds.Samples(), ShouldBeEmpty)
			So(ds.Subjects(), ShouldBeEmpty)
			So(ds.SamplesBetween(ts(1, 0), ts(2, 0)), ShouldBeEmpty)
		})
	})
}
