package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
	"github.com/humanagencyprotocol/hapsite/internal/frontmatter"
	"github.com/humanagencyprotocol/hapsite/internal/logfields"
	"github.com/humanagencyprotocol/hapsite/internal/metrics"
	"github.com/humanagencyprotocol/hapsite/internal/storage"
	"github.com/humanagencyprotocol/hapsite/internal/transforms"
)

// Run applies rules in order. Missing sources are logged once each and
// recorded in the report; they never fail the run.
func (s *Synchronizer) Run(ctx context.Context, version string, rules []Rule) (*Report, error) {
	if err := s.Validate(rules); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Version: version,
		Started: s.now(),
	}
	date := s.date
	if date == "" {
		date = report.Started.Format("2006-01-02")
	}
	log := s.logger.With(logfields.RunID(report.RunID), logfields.Version(version))
	log.Info("Syncing content", slog.Int("rules", len(rules)))

	for _, rule := range rules {
		outcome, err := s.apply(ctx, log, version, date, rule)
		if err != nil {
			s.recorder.IncSyncResult(resultFor(err))
			log.Error("Sync failed", logfields.Rule(rule.Name), logfields.Error(err))
			return report, err
		}
		s.recorder.IncSyncOutcome(rule.Name, string(outcome.Status))
		report.Outcomes = append(report.Outcomes, outcome)
	}

	report.Duration = s.now().Sub(report.Started)
	s.recorder.ObserveSyncDuration(report.Duration)
	result := metrics.ResultSuccess
	if len(report.Missing()) > 0 || len(report.Skipped()) > 0 {
		result = metrics.ResultWarning
	}
	s.recorder.IncSyncResult(result)
	log.Info("Sync complete",
		slog.Int("outcomes", len(report.Outcomes)),
		slog.Int("missing", len(report.Missing())),
		slog.Bool("changed", report.Changed()),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

// Validate checks that every rule references a known source store and transform.
func (s *Synchronizer) Validate(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return ferrors.ConfigError(fmt.Sprintf("sync rule %d has no name", i)).Build()
		}
		if seen[r.Name] {
			return ferrors.ConfigError("duplicate sync rule").WithContext("rule", r.Name).Build()
		}
		seen[r.Name] = true
		if _, ok := s.sources[r.Root]; !ok {
			return ferrors.ConfigError("sync rule references unknown root").
				WithContext("rule", r.Name).
				WithContext("root", r.Root).
				Build()
		}
		if r.Transform != "" {
			if _, err := transforms.Lookup(r.Transform, transforms.Params{}); err != nil {
				return ferrors.WrapError(err, ferrors.CategoryConfig, "sync rule references unknown transform").
					WithContext("rule", r.Name).
					Build()
			}
		}
	}
	return nil
}

func (s *Synchronizer) apply(ctx context.Context, log *slog.Logger, version, date string, rule Rule) (Outcome, error) {
	src := s.sources[rule.Root]
	srcName := rule.Source
	if rule.Versioned {
		srcName = storage.Join(version, rule.Source)
	}
	out := Outcome{Rule: rule.Name, Source: srcName, Dest: rule.Dest}
	log = log.With(logfields.Rule(rule.Name))

	entry, err := src.Stat(ctx, srcName)
	if err != nil {
		var nf storage.ErrNotFound
		if errors.As(err, &nf) {
			attrs := []any{logfields.Path(nf.Name)}
			if rule.Mandatory {
				attrs = append(attrs, slog.Bool("mandatory", true))
			}
			log.Warn("Source not found, skipping", attrs...)
			out.Status = StatusMissing
			return out, nil
		}
		return out, fsError(err, rule, srcName)
	}

	switch {
	case entry.IsDir:
		res, err := storage.CopyTree(ctx, src, srcName, s.site, rule.Dest)
		if err != nil {
			return out, fsError(err, rule, srcName)
		}
		out.Files = res.Files
		out.Status = StatusCopied
		if res.Changed == 0 {
			out.Status = StatusUnchanged
		}
	case rule.Transform != "":
		return s.transformFile(ctx, log, src, srcName, version, date, rule, out)
	default:
		res, err := storage.CopyFile(ctx, src, srcName, s.site, rule.Dest)
		if err != nil {
			return out, fsError(err, rule, srcName)
		}
		out.Files = res.Files
		out.Status = StatusCopied
		if res.Changed == 0 {
			out.Status = StatusUnchanged
		}
		if isMarkdown(rule.Dest) {
			if data, err := s.site.Read(ctx, rule.Dest); err == nil {
				out.Fingerprint = fingerprint(data)
			}
		}
	}

	log.Debug("Rule applied", logfields.Source(srcName), logfields.Dest(rule.Dest),
		logfields.Files(out.Files), slog.String("status", string(out.Status)))
	return out, nil
}

func (s *Synchronizer) transformFile(ctx context.Context, log *slog.Logger, src storage.Store, srcName, version, date string, rule Rule, out Outcome) (Outcome, error) {
	data, err := src.Read(ctx, srcName)
	if err != nil {
		return out, fsError(err, rule, srcName)
	}
	t, err := transforms.Lookup(rule.Transform, transforms.Params{Title: rule.Title, Version: version, Date: date})
	if err != nil {
		return out, ferrors.WrapError(err, ferrors.CategoryConfig, "unknown transform").WithContext("rule", rule.Name).Build()
	}
	text, err := t(string(data))
	if err != nil {
		log.Warn("Transform failed, skipping", logfields.Source(srcName), logfields.Error(err))
		out.Status = StatusSkipped
		return out, nil
	}

	changed, err := storage.WriteIfChanged(ctx, s.site, rule.Dest, []byte(text))
	if err != nil {
		return out, fsError(err, rule, rule.Dest)
	}
	out.Files = 1
	out.Status = StatusTransformed
	if !changed {
		out.Status = StatusUnchanged
	}
	if isMarkdown(rule.Dest) {
		out.Fingerprint = fingerprint([]byte(text))
	}
	log.Debug("Rule applied", logfields.Source(srcName), logfields.Dest(rule.Dest),
		slog.String("status", string(out.Status)))
	return out, nil
}

func fsError(err error, rule Rule, name string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "sync failed").
		WithContext("rule", rule.Name).
		WithContext("path", name).
		Build()
}

func resultFor(err error) metrics.ResultLabel {
	if errors.Is(err, context.Canceled) {
		return metrics.ResultCanceled
	}
	return metrics.ResultFailed
}

func isMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".mdx", ".markdown":
		return true
	}
	return false
}

func fingerprint(data []byte) string {
	fm, body, _, _, err := frontmatter.Split(data)
	if err != nil {
		body = data
		fm = nil
	}
	return mdfp.CalculateFingerprintFromParts(string(fm), string(body))
}
