// Command classify prints the tier map of a word pool. It is meant for
// offline calibration: the phonetic scale and offset flags override the
// configured values without editing config.yaml.
//
// Flags:
//
//	--pool     pool id, e.g. "kids" (required)
//	--metric   phonetic or semantic (default: classifier.default_metric)
//	--scale    override phonetic.scale (> 0)
//	--offset   override phonetic.offset (any value, zero and negatives included)
//	--verbose  print every word's neighbors and magnitude
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/heartmarshall/wordtier/internal/app"
	"github.com/heartmarshall/wordtier/internal/config"
	"github.com/heartmarshall/wordtier/internal/domain"
	"github.com/heartmarshall/wordtier/internal/service/dictionary"
)

func main() {
	poolFlag := flag.String("pool", "", "pool id (required)")
	metricFlag := flag.String("metric", "", "phonetic or semantic")
	scaleFlag := flag.Float64("scale", 0, "override phonetic.scale (> 0)")
	offsetFlag := flag.Float64("offset", 0, "override phonetic.offset")
	verboseFlag := flag.Bool("verbose", false, "print neighbors and magnitudes")
	flag.Parse()

	if *poolFlag == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := applyPhoneticOverrides(&cfg.Phonetic, set, *scaleFlag, *offsetFlag); err != nil {
		log.Fatalf("flags: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build components", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer components.Close()

	cls, err := components.Dictionary.Classify(ctx, dictionary.ClassifyInput{
		PoolID: *poolFlag,
		Metric: domain.MetricKind(*metricFlag),
	})
	if err != nil {
		logger.Error("classify", slog.String("pool", *poolFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := printClassification(os.Stdout, cls, *verboseFlag); err != nil {
		logger.Error("write output", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// applyPhoneticOverrides copies the scale and offset flags named in set
// onto cfg. Flags left unset keep the configured values.
func applyPhoneticOverrides(cfg *config.PhoneticConfig, set map[string]bool, scale, offset float64) error {
	if set["scale"] {
		if scale <= 0 {
			return fmt.Errorf("--scale must be > 0 (got %v)", scale)
		}
		cfg.Scale = scale
	}
	if set["offset"] {
		cfg.Offset = offset
	}
	return nil
}

func printClassification(out io.Writer, cls *domain.Classification, verbose bool) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "pool %s, metric %s, k=%d\n\n", cls.PoolID, cls.Metric, cls.K)
	fmt.Fprintln(w, "TIER\tCOUNT\tWORDS")
	for _, tier := range cls.Tiers.Tiers() {
		words := cls.Tiers.Words(tier)
		fmt.Fprintf(w, "%s\t%d\t%s\n", tier, len(words), joinTokens(words))
	}

	if verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "WORD\tMAGNITUDE\tTIER\tNEIGHBORS")
		for _, a := range cls.Assignments {
			neighbors := make([]string, len(a.Neighbors))
			for i, n := range a.Neighbors {
				neighbors[i] = fmt.Sprintf("%s(%.3f)", n.Word, n.Score)
			}
			fmt.Fprintf(w, "%s\t%.4f\t%s\t%s\n", a.Word, a.Magnitude, a.Tier, strings.Join(neighbors, " "))
		}
	}

	if len(cls.Excluded) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "EXCLUDED\tREASON")
		for _, e := range cls.Excluded {
			fmt.Fprintf(w, "%s\t%v\n", e.Word, e.Reason)
		}
	}

	return w.Flush()
}

func joinTokens(tokens []domain.Token) string {
	s := make([]string, len(tokens))
	for i, t := range tokens {
		s[i] = t.String()
	}
	return strings.Join(s, " ")
}
