package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/albertium/FlexPricer/analytic"
	"github.com/albertium/FlexPricer/api"
	"github.com/albertium/FlexPricer/config"
	"github.com/albertium/FlexPricer/engine"
	"github.com/gin-gonic/gin"
	"github.com/schollz/progressbar/v3"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "price":
		err = cmdPrice(os.Args[2:])
	case "profile":
		err = cmdProfile(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  flexpricer price -config run.yaml")
	fmt.Println("  flexpricer profile -config run.yaml [-out profile.csv]")
	fmt.Println("  flexpricer serve [-env .env]")
}

func newLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func loadRun(fs *flag.FlagSet, args []string) (*config.Run, *slog.Logger, error) {
	cfgPath := fs.String("config", "", "Path to YAML run file")
	verbose := fs.Bool("v", false, "Log debug events")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		return nil, nil, errors.New("-config is required")
	}
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level, false)

	run, err := config.LoadRun(*cfgPath)
	if err != nil {
		return nil, nil, err
	}
	return run, logger, nil
}

func cmdPrice(args []string) error {
	fs := flag.NewFlagSet("price", flag.ExitOnError)
	run, logger, err := loadRun(fs, args)
	if err != nil {
		return err
	}
	p, err := engine.NewPricer(run.Model, run.Instrument, append(run.Options(), engine.WithLogger(logger))...)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "model\t%s\n", run.Model)
	fmt.Fprintf(tw, "instrument\t%s\n", run.Instrument)
	fmt.Fprintf(tw, "seed\t%d\n", run.Seed)

	if run.Sweep == nil {
		est, err := p.PriceWithError(run.Params, run.Seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "price\t%.6f\n", est.Price)
		fmt.Fprintf(tw, "std err\t%.6f\n", est.StdErr)
		if ref, ok := reference(run, run.Params); ok {
			fmt.Fprintf(tw, "reference\t%.6f\n", ref)
		}
		return tw.Flush()
	}

	values, err := run.Sweep.Values()
	if err != nil {
		return err
	}
	grad, err := p.Gradient(run.Params, nil, run.Sweep.Name, run.Seed)
	if err != nil {
		return err
	}
	sens, err := grad(values)
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "\n%s\tprice\treference\n", run.Sweep.Name)
	for i, x := range values {
		params := make(map[string]float64, len(run.Params)+1)
		for k, v := range run.Params {
			params[k] = v
		}
		params[run.Sweep.Name] = x
		ref := "-"
		if v, ok := reference(run, params); ok {
			ref = fmt.Sprintf("%.6f", v)
		}
		fmt.Fprintf(tw, "%g\t%.6f\t%s\n", x, sens.Prices[i], ref)
	}
	return tw.Flush()
}

// reference returns a closed-form vanilla price where one exists.
func reference(run *config.Run, p map[string]float64) (float64, bool) {
	if run.Instrument != "vanilla_european" {
		return 0, false
	}
	s, k, t := p["spot"], p["strike"], p["expiration"]
	switch run.Model {
	case "black_scholes":
		return analytic.BlackScholesCall(s, k, p["rate"], p["dividend"], p["volatility"], t), true
	case "heston":
		// the simulated variance and spot drivers are independent
		gen := analytic.HestonPhi{T: t, V0: p["volatility"] * p["volatility"], Vbar: p["vbar"], Kappa: p["kappa"], Eta: p["eta"]}
		return analytic.PriceCallWithPhi(gen, s, k, p["rate"], p["dividend"], t), true
	}
	return 0, false
}

func cmdProfile(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	outPath := fs.String("out", "", "Output CSV path (stdout when empty)")
	run, logger, err := loadRun(fs, args)
	if err != nil {
		return err
	}
	if run.Sweep == nil {
		return errors.New("profile needs a sweep block in the run file")
	}
	values, err := run.Sweep.Values()
	if err != nil {
		return err
	}

	bar := progressBar(len(engine.ProfileSeries))
	opts := append(run.Options(), engine.WithLogger(logger), engine.WithProgress(func() { _ = bar.Add(1) }))
	p, err := engine.NewPricer(run.Model, run.Instrument, opts...)
	if err != nil {
		return err
	}
	profile, err := p.RiskProfile(run.Params, run.Sweep.Name, values, run.Seed)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	if *outPath == "" {
		return profile.WriteCSV(os.Stdout)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := profile.WriteCSV(f); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s\n", len(values), *outPath)
	return nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	envPath := fs.String("env", ".env", "Path to .env file")
	_ = fs.Parse(args)

	cfg, err := config.LoadServer(*envPath)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)
	logger := newLogger(os.Stdout, cfg.LogLevel, true)
	return api.NewServer(cfg, logger).Start(cfg.Address)
}

// progress bar initialization
func progressBar(length int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		length,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("risk profile"),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
