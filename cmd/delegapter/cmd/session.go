package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/delegapter/cmd/delegapter/internal/scenario"
	"github.com/go-drift/delegapter/pkg/config"
	"github.com/go-drift/delegapter/pkg/delegapter"
	"github.com/go-drift/delegapter/pkg/diff"
	"github.com/go-drift/delegapter/pkg/errors"
	"github.com/go-drift/delegapter/pkg/metrics"
	delegaptertest "github.com/go-drift/delegapter/pkg/testing"
)

// LogLevelEnv overrides log.level of the configuration.
const LogLevelEnv = "DELEGAPTER_LOG_LEVEL"

// session holds what diff and replay share: the scenario, its
// configuration and the observability wiring.
type session struct {
	scenario *scenario.Scenario
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	moves       bool
	scriptPath  string
	verify      bool
	showMetrics bool
}

func newSession(name string, args []string) (*session, error) {
	var (
		path, cfgPath string
		moves         *bool
		s             = &session{}
	)
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--moves", "--no-moves":
			m := arg == "--moves"
			moves = &m
		case "--config", "--script":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a file path", arg)
			}
			if arg == "--config" {
				cfgPath = args[i+1]
			} else {
				s.scriptPath = args[i+1]
			}
			i++
		case "--verify":
			s.verify = true
		case "--metrics":
			s.showMetrics = true
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag %q", arg)
			}
			if path != "" {
				return nil, fmt.Errorf("unexpected argument %q", arg)
			}
			path = arg
		}
	}
	if path == "" {
		return nil, fmt.Errorf("scenario file is required\n\nUsage: delegapter %s [flags] <scenario.yaml>", name)
	}

	var err error
	if cfgPath != "" {
		s.cfg, err = config.Load(cfgPath)
	} else {
		s.cfg, err = config.LoadOptional(filepath.Dir(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, ok := os.LookupEnv(LogLevelEnv); ok {
		s.cfg.Log.Level = level
		if err := s.cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", LogLevelEnv, err)
		}
	}

	s.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: s.cfg.SlogLevel()}))
	errors.SetHandler(&errors.LogHandler{Logger: s.logger})

	s.registry = prometheus.NewRegistry()
	if s.metrics, err = metrics.New(s.registry); err != nil {
		return nil, err
	}

	s.moves = s.cfg.Diff.DetectMoves
	if moves != nil {
		s.moves = *moves
	}

	if s.scenario, err = scenario.Load(path); err != nil {
		return nil, err
	}
	s.logger.Debug("scenario loaded",
		slog.String("path", path),
		slog.String("version", s.scenario.Version),
		slog.Int("kinds", len(s.scenario.Kinds)),
		slog.Bool("moves", s.moves),
	)
	return s, nil
}

func (s *session) newList(target diff.ListUpdateCallback) *delegapter.Delegapter {
	return delegapter.New(target,
		delegapter.WithConfig(s.cfg),
		delegapter.WithLogger(s.logger),
		delegapter.WithMetrics(s.metrics),
	)
}

func items(d *delegapter.Delegapter) []any {
	out := make([]any, d.Len())
	for i := range out {
		out[i] = d.ItemAt(i)
	}
	return out
}

func printEvents(label string, events []delegaptertest.Event) {
	fmt.Fprintf(stdout, "%s:\n", label)
	if len(events) == 0 {
		fmt.Fprintln(stdout, "  (no changes)")
		return
	}
	for _, e := range events {
		fmt.Fprintf(stdout, "  %s\n", e)
	}
}

func printList(d *delegapter.Delegapter) {
	fmt.Fprintln(stdout, "list:")
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for i := 0; i < d.Len(); i++ {
		fmt.Fprintf(w, "  %d\t%s\t%d\t%v\n", i, d.KindAt(i).Name(), d.CodeAt(i), d.ItemAt(i))
	}
	w.Flush()
}

// check replays events over the items they started from and compares the
// outcome with want.
func check(from, want []any, events []delegaptertest.Event) error {
	shadow := delegaptertest.NewShadow(from)
	delegaptertest.Replay(events, shadow)
	if err := shadow.Verify(want, func(a, b any) bool { return cmp.Equal(a, b) }); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	fmt.Fprintln(stdout, "verified")
	return nil
}

// finish writes the script file and the metrics when requested.
func (s *session) finish(events []delegaptertest.Event) error {
	if s.scriptPath != "" {
		if err := delegaptertest.ScriptOf(events).UpdateFile(s.scriptPath); err != nil {
			return fmt.Errorf("failed to write script: %w", err)
		}
	}
	if s.showMetrics {
		return writeMetrics(s.registry)
	}
	return nil
}

func writeMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	fmt.Fprintln(stdout, "metrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(stdout, "  %s %g\n", name, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(stdout, "  %s count=%d\n", name, m.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}
