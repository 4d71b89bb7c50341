// Command report prints one subject's daily aspect report straight from the
// workbooks, without starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	service "github.com/cccmmm5858-cpu/astro-web/internal/app"
	"github.com/cccmmm5858-cpu/astro-web/internal/config"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
	"github.com/spf13/cobra"
)

const timeLayout = "15:04"

type reportFlags struct {
	dataDir     string
	natalFile   string
	transitFile string
	date        string
	orb         float64
	hours       float64
	asJSON      bool
	logLevel    string
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	defaults := config.New(context.Background())
	f := reportFlags{
		dataDir:     defaults.DataDir,
		natalFile:   defaults.NatalFile,
		transitFile: defaults.TransitFile,
		orb:         defaults.Orb,
		hours:       defaults.ContinuousHours,
		logLevel:    "warn",
	}

	cmd := &cobra.Command{
		Use:           "report SUBJECT",
		Short:         "Print the daily aspect report of a subject",
		Args:          cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), out, f, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.dataDir, "data-dir", f.dataDir, "directory holding the workbooks")
	fl.StringVar(&f.natalFile, "natal", f.natalFile, "natal workbook name or path")
	fl.StringVar(&f.transitFile, "transit", f.transitFile, "transit workbook name or path")
	fl.StringVarP(&f.date, "date", "d", "", "day to report (YYYY-MM-DD), today when empty")
	fl.Float64Var(&f.orb, "orb", f.orb, "aspect orb in degrees")
	fl.Float64Var(&f.hours, "continuous-hours", f.hours, "episode length shown as continuous")
	fl.BoolVar(&f.asJSON, "json", false, "print the report as JSON")
	fl.StringVar(&f.logLevel, "log-level", f.logLevel, "log level")
	return cmd
}

func runReport(ctx context.Context, out io.Writer, f reportFlags, subject string) error {
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		return err
	}
	if err := logger.SetLevelString(f.logLevel); err != nil {
		return err
	}

	svc := service.New(
		service.WithDataFiles(f.dataDir, f.natalFile, f.transitFile),
		service.WithWatch(false, 0),
		service.WithOrb(f.orb),
		service.WithContinuousHours(f.hours),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	rep, err := svc.Report(ctx, subject, f.date)
	if err != nil {
		return err
	}
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return printReport(out, rep)
}

func printReport(out io.Writer, rep service.Report) error {
	fmt.Fprintf(out, "%s  %s\n", rep.Resolved, rep.Day.Format("2006-01-02"))
	fmt.Fprintf(out, "score %d  %s %s\n", rep.Result.Score, rep.Result.Tier.Stars(), rep.Result.Label)
	if len(rep.Episodes) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSIT\tASPECT\tNATAL\tWINDOW\tPOSITION\tDEVIATION")
	for _, ep := range rep.Episodes {
		window := ep.Start.Format(timeLayout) + "-" + ep.End.Format(timeLayout)
		if ep.Continuous {
			window = "all day"
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%.2f\n",
			ep.TransitBody, ep.Symbol, ep.Aspect, ep.NatalBody,
			window, position(ep.TransitSign, ep.TransitDegree),
			ep.Representative.Deviation,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return nil
}

func position(sign zodiac.Sign, degree float64) string {
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", degree, sign))
}
