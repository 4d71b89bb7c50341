package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/ingest"
	service "github.com/cccmmm5858-cpu/astro-web/internal/app"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/query"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/scoring"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var day = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

type fakeLoader struct {
	mu  sync.Mutex
	ds  *model.Dataset
	err error
}

func (l *fakeLoader) Load(_ context.Context) (*model.Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ds, l.err
}

func (l *fakeLoader) set(ds *model.Dataset, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ds, l.err = ds, err
}

func acmeDataset() *model.Dataset {
	return model.NewDataset(
		[]model.NatalPlacement{
			model.NewPlacement("ACME Corp", zodiac.Venus, 10),
			model.NewPlacement("Globex", zodiac.Sun, 200),
		},
		[]model.TransitSample{
			{Timestamp: day.Add(9 * time.Hour), Positions: map[zodiac.Body]float64{zodiac.Jupiter: 11}},
			{Timestamp: day.Add(10 * time.Hour), Positions: map[zodiac.Body]float64{zodiac.Jupiter: 10.5}},
		},
	)
}

func newService(loader *fakeLoader) *service.Service {
	return service.New(
		service.WithLoader(loader),
		service.WithClock(func() time.Time { return day.Add(15 * time.Hour) }),
	)
}

func TestService_Report(t *testing.T) {
	Convey("Given a started service over a fixed dataset", t, func() {
		ctx := context.Background()
		svc := newService(&fakeLoader{ds: acmeDataset()})
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a subject is queried by substring for that day", func() {
			rep, err := svc.Report(ctx, "acme", "2024-03-05")

			Convey("Then the resolved subject, episodes and golden score are returned", func() {
				So(err, ShouldBeNil)
				So(rep.Subject, ShouldEqual, "acme")
				So(rep.Resolved, ShouldEqual, "ACME Corp")
				So(rep.Events, ShouldHaveLength, 2)
				So(rep.Episodes, ShouldHaveLength, 1)
				So(rep.Episodes[0].Members, ShouldEqual, 2)
				So(rep.Episodes[0].Representative.Deviation, ShouldEqual, 0.5)
				So(rep.Result.Score, ShouldEqual, 10)
				So(rep.Result.Tier, ShouldEqual, scoring.TierGolden)
				So(rep.Version, ShouldNotBeEmpty)
			})
		})

		Convey("When the date is omitted", func() {
			rep, err := svc.Report(ctx, "ACME", "")

			Convey("Then today from the clock is used", func() {
				So(err, ShouldBeNil)
				So(rep.Day, ShouldEqual, day)
				So(rep.Events, ShouldHaveLength, 2)
			})
		})

		Convey("When an unknown subject is queried", func() {
			rep, err := svc.Report(ctx, "Initech", "2024-03-05")

			Convey("Then the report is empty with no activity", func() {
				So(err, ShouldBeNil)
				So(rep.Resolved, ShouldEqual, "Initech")
				So(rep.Episodes, ShouldBeEmpty)
				So(rep.Result.Tier, ShouldEqual, scoring.TierNone)
				So(rep.Result.Label, ShouldEqual, "no activity")
			})
		})

		Convey("When a day without samples is queried", func() {
			rep, err := svc.Report(ctx, "ACME", "2024-03-06")

			Convey("Then no events are found", func() {
				So(err, ShouldBeNil)
				So(rep.Resolved, ShouldEqual, "ACME Corp")
				So(rep.Events, ShouldBeEmpty)
				So(rep.Result.Active(), ShouldBeFalse)
			})
		})

		Convey("When the date is malformed", func() {
			_, err := svc.Report(ctx, "ACME", "05/03/2024")

			Convey("Then ErrInvalidDate is returned", func() {
				So(errors.Is(err, query.ErrInvalidDate), ShouldBeTrue)
			})
		})

		Convey("Then subjects are listed in order", func() {
			So(svc.Subjects(ctx), ShouldResemble, []string{"ACME Corp", "Globex"})
		})
	})
}

func TestService_Reload(t *testing.T) {
	Convey("Given a service before Start", t, func() {
		ctx := context.Background()
		loader := &fakeLoader{ds: acmeDataset()}
		svc := newService(loader)

		Convey("Then reload requests are refused", func() {
			_, err := svc.RequestReload(ctx, model.ReloadAdmin)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When started and the source changes", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			before := svc.GetStats(ctx)

			loader.set(model.NewDataset([]model.NatalPlacement{model.NewPlacement("Initech", zodiac.Mars, 5)}, nil), nil)
			id, err := svc.RequestReload(ctx, model.ReloadAdmin)
			So(err, ShouldBeNil)
			So(id, ShouldNotBeEmpty)

			Convey("Then the new dataset is swapped in", func() {
				deadline := time.Now().Add(3 * time.Second)
				for time.Now().Before(deadline) {
					if st := svc.GetStats(ctx); st.LastReload != nil && st.LastReload.ID == id {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				st := svc.GetStats(ctx)
				So(st.LastReload, ShouldNotBeNil)
				So(st.LastReload.ID, ShouldEqual, id)
				So(st.LastReload.Source, ShouldEqual, model.ReloadAdmin)
				So(st.Version, ShouldNotEqual, before.Version)
				So(svc.Subjects(ctx), ShouldResemble, []string{"Initech"})
			})
		})

		Convey("When started and a reload fails", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			before := svc.GetStats(ctx)

			loader.set(nil, errors.New("disk gone"))
			id, err := svc.RequestReload(ctx, model.ReloadAdmin)
			So(err, ShouldBeNil)

			Convey("Then the previous dataset stays live", func() {
				deadline := time.Now().Add(3 * time.Second)
				for time.Now().Before(deadline) {
					if st := svc.GetStats(ctx); st.LastReload != nil && st.LastReload.ID == id {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				st := svc.GetStats(ctx)
				So(st.LastReload.Err, ShouldContainSubstring, "disk gone")
				So(st.Version, ShouldEqual, before.Version)
				So(st.Subjects, ShouldEqual, 2)
			})
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a loader whose sources are missing", t, func() {
		ctx := context.Background()
		svc := newService(&fakeLoader{err: ingest.ErrSourceMissing})

		Convey("When the service starts", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then it starts with an empty dataset", func() {
				So(err, ShouldBeNil)
				st := svc.GetStats(ctx)
				So(st.Started, ShouldBeTrue)
				So(st.Placements, ShouldEqual, 0)
				So(st.QueueCap, ShouldEqual, 4)
				So(st.Watching, ShouldBeFalse)
				So(st.LastReload, ShouldNotBeNil)
				So(st.LastReload.Source, ShouldEqual, model.ReloadStartup)
				So(st.LastReload.Err, ShouldNotBeEmpty)
			})

			Convey("And starting twice is harmless", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := newService(&fakeLoader{})

		Convey("Then Stop is a no-op", func() {
			So(func() { svc.Stop() }, ShouldNotPanic)
		})
	})
}
