package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/ingest"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeRows(f *excelize.File, sheet string, rows [][]any) {
	for i, r := range rows {
		row := r
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			panic(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			panic(err)
		}
	}
}

func writeNatal(path string) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	writeRows(f, "Sheet1", [][]any{
		{"Subject", "Body", "Sign", "Degree"},
		{"ACME", "Venus", "Aries", 10},
		{"ACME", "Sun", "Leo", "125.5"},
		{"ACME", "Chiron", "Leo", 3},    // unknown body
		{"ACME", "Mars", "Leo", "n/a"},  // bad degree
		{"ACME", "Moon", "Leo", ""},     // blank degree
		{"", "المشتري", "السرطان", 95}, // blank subject falls back to sheet name
	})

	if _, err := f.NewSheet("Globex"); err != nil {
		panic(err)
	}
	writeRows(f, "Globex", [][]any{
		{"Subject", "Body", "Sign", "Degree"},
		{"Globex", "north node", "Gemini", 370},
	})

	if _, err := f.NewSheet("Notes"); err != nil {
		panic(err)
	}
	writeRows(f, "Notes", [][]any{{"just", "notes"}})

	if err := f.SaveAs(path); err != nil {
		panic(err)
	}
}

func writeTransit(path string, header []any) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	rows := [][]any{header}
	rows = append(rows,
		[]any{"2024-03-05 09:00:00", 11, 20, "", "x"},
		[]any{time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), 11.5, 21, 100, 5},
		[]any{"not a date", 12, 22, 101, 6},
		[]any{},
	)
	writeRows(f, "Sheet1", rows)
	if err := f.SaveAs(path); err != nil {
		panic(err)
	}
}

var fullHeader = []any{
	"Datetime",
	ingest.TransitColumn(zodiac.Jupiter),
	ingest.TransitColumn(zodiac.Moon),
	ingest.TransitColumn(zodiac.NorthNode),
	ingest.TransitColumn(zodiac.Sun),
}

func TestXLSXLoader_Load(t *testing.T) {
	Convey("Given natal and transit workbooks", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		writeNatal(filepath.Join(dir, ingest.DefaultNatalFile))
		writeTransit(filepath.Join(dir, ingest.DefaultTransitFile), fullHeader)
		loader := ingest.NewXLSXLoader(ingest.WithDataDir(dir))

		Convey("When loading", func() {
			ds, err := loader.Load(ctx)

			Convey("Then valid placements survive and malformed ones are dropped", func() {
				So(err, ShouldBeNil)
				ps := ds.Placements()
				So(ps, ShouldHaveLength, 4)
				So(ps[0].Subject, ShouldEqual, "ACME")
				So(ps[0].Body, ShouldEqual, zodiac.Venus)
				So(ps[0].Degree, ShouldEqual, 10)
				So(ps[1].Degree, ShouldEqual, 125.5)
				So(ps[1].Sign, ShouldEqual, zodiac.Leo)
				So(ps[2].Subject, ShouldEqual, "Sheet1")
				So(ps[2].Body, ShouldEqual, zodiac.Jupiter)
				So(ps[3].Subject, ShouldEqual, "Globex")
				So(ps[3].Body, ShouldEqual, zodiac.NorthNode)
				So(ps[3].Degree, ShouldEqual, 10)
			})

			Convey("Then samples with bad timestamps are dropped", func() {
				So(err, ShouldBeNil)
				ss := ds.Samples()
				So(ss, ShouldHaveLength, 2)
				So(ss[0].Timestamp, ShouldEqual, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
				So(ss[1].Timestamp, ShouldEqual, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
			})

			Convey("Then unparseable or blank longitudes are absent", func() {
				ss := ds.Samples()
				So(ss[0].Positions[zodiac.Jupiter], ShouldEqual, 11)
				So(ss[0].Positions[zodiac.Moon], ShouldEqual, 20)
				_, hasNode := ss[0].Positions[zodiac.NorthNode]
				So(hasNode, ShouldBeFalse)
				_, hasSun := ss[0].Positions[zodiac.Sun]
				So(hasSun, ShouldBeFalse)
				_, hasSaturn := ss[1].Positions[zodiac.Saturn]
				So(hasSaturn, ShouldBeFalse)
				So(ss[1].Positions[zodiac.NorthNode], ShouldEqual, 100)
			})

			Convey("Then subjects are indexed", func() {
				So(ds.Subjects(), ShouldResemble, []string{"ACME", "Globex", "Sheet1"})
			})
		})
	})

	Convey("Given a missing workbook", t, func() {
		loader := ingest.NewXLSXLoader(ingest.WithDataDir(t.TempDir()))

		Convey("Then loading reports the missing source", func() {
			ds, err := loader.Load(context.Background())
			So(ds, ShouldBeNil)
			So(errors.Is(err, ingest.ErrSourceMissing), ShouldBeTrue)
		})
	})

	Convey("Given a transit workbook without a Datetime column", t, func() {
		dir := t.TempDir()
		writeNatal(filepath.Join(dir, "natal.xlsx"))
		writeTransit(filepath.Join(dir, "transit.xlsx"), []any{"When", "Jupiter Lng"})
		loader := ingest.NewXLSXLoader(
			ingest.WithDataDir(dir),
			ingest.WithNatalFile("natal.xlsx"),
			ingest.WithTransitFile(filepath.Join(dir, "transit.xlsx")),
		)

		Convey("Then loading fails with a missing column error", func() {
			_, err := loader.Load(context.Background())
			So(errors.Is(err, ingest.ErrMissingColumn), ShouldBeTrue)
		})
	})

	Convey("Given a file that is not a workbook", t, func() {
		dir := t.TempDir()
		natal := filepath.Join(dir, ingest.DefaultNatalFile)
		So(writeText(natal, "not a zip"), ShouldBeNil)
		writeTransit(filepath.Join(dir, ingest.DefaultTransitFile), fullHeader)

		Convey("Then loading fails to open it", func() {
			_, err := ingest.NewXLSXLoader(ingest.WithDataDir(dir)).Load(context.Background())
			So(errors.Is(err, ingest.ErrOpenWorkbook), ShouldBeTrue)
		})
	})

	Convey("Given default paths", t, func() {
		natal, transit := ingest.NewXLSXLoader(ingest.WithDataDir("/data")).Paths()
		So(natal, ShouldEqual, fmt.Sprintf("/data/%s", ingest.DefaultNatalFile))
		So(transit, ShouldEqual, "/data/Transit.xlsx")
	})
}
