package syncer

import "time"

// Status is the result of applying one rule.
type Status string

const (
	StatusCopied      Status = "copied"
	StatusTransformed Status = "transformed"
	StatusUnchanged   Status = "unchanged"
	StatusMissing     Status = "missing"
	StatusSkipped     Status = "skipped"
)

// Outcome records what happened to one rule.
type Outcome struct {
	Rule   string
	Source string
	Dest   string
	Status Status
	Files  int
	// Fingerprint is the mdfp fingerprint of a single markdown output.
	Fingerprint string
}

// Report summarizes a sync run.
type Report struct {
	RunID    string
	Version  string
	Started  time.Time
	Duration time.Duration
	Outcomes []Outcome
}

// Missing returns the outcomes whose source was absent.
func (r *Report) Missing() []Outcome {
	return r.filter(StatusMissing)
}

// Skipped returns the outcomes whose source could not be transformed.
func (r *Report) Skipped() []Outcome {
	return r.filter(StatusSkipped)
}

// Changed reports whether any file in the site store was written.
func (r *Report) Changed() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusCopied || o.Status == StatusTransformed {
			return true
		}
	}
	return false
}

func (r *Report) filter(st Status) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == st {
			out = append(out, o)
		}
	}
	return out
}
