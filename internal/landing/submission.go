package landing

import "errors"

// Mode is what the form area currently shows.
type Mode int

const (
	ModeEditing Mode = iota
	ModeSubmitting
	ModeResult
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	case ModeSubmitting:
		return "submitting"
	case ModeResult:
		return "result"
	}
	return "unknown"
}

// SubmitOutcome tells the caller what Begin decided.
type SubmitOutcome int

const (
	// OutcomeIgnored means the URL was empty; nothing happens.
	OutcomeIgnored SubmitOutcome = iota
	// OutcomeInvalid means local validation failed; surface the returned error.
	OutcomeInvalid
	// OutcomeBusy means a request is already in flight.
	OutcomeBusy
	// OutcomeStarted means the caller must now issue the create request.
	OutcomeStarted
)

// Result is the create endpoint's success payload, passed through untouched
// to the confirmation view.
type Result map[string]any

// shortLinkKeys are the payload fields tried, in order, for the short URL.
var shortLinkKeys = []string{"shortUrl", "shortURL", "short_url", "shortLink", "link"}

// ShortLink returns the created short URL, if the payload names one.
func (r Result) ShortLink() string {
	for _, k := range shortLinkKeys {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Submission owns the new-link form state.
type Submission struct {
	draft   DraftLink
	loading bool
	result  Result
}

// Apply reduces ev into the current draft and returns the new snapshot.
func (s *Submission) Apply(ev FieldChanged) DraftLink {
	s.draft = Reduce(s.draft, ev)
	return s.draft
}

// UpdateField is shorthand for Apply(FieldChanged{field, value}).
func (s *Submission) UpdateField(field Field, value string) DraftLink {
	return s.Apply(FieldChanged{Field: field, Value: value})
}

func (s *Submission) Draft() DraftLink { return s.draft }

func (s *Submission) Loading() bool { return s.loading }

func (s *Submission) Result() (Result, bool) { return s.result, s.result != nil }

func (s *Submission) Mode() Mode {
	switch {
	case s.result != nil:
		return ModeResult
	case s.loading:
		return ModeSubmitting
	default:
		return ModeEditing
	}
}

// Begin validates d and, when it is acceptable, marks the form as loading.
// A non-nil error is only returned with OutcomeInvalid.
func (s *Submission) Begin(d DraftLink) (SubmitOutcome, error) {
	if s.loading {
		return OutcomeBusy, nil
	}
	if err := d.Validate(); err != nil {
		if errors.Is(err, errEmptyURL) {
			return OutcomeIgnored, nil
		}
		return OutcomeInvalid, err
	}
	s.loading = true
	return OutcomeStarted, nil
}

// Settle records the create response. On failure the draft is left for
// correction and the returned error is what the user should see. A nil
// payload with a nil error is stored as an empty Result.
func (s *Submission) Settle(payload Result, err error) error {
	s.loading = false
	if err != nil {
		return err
	}
	if payload == nil {
		payload = Result{}
	}
	s.result = payload
	s.draft = DraftLink{}
	return nil
}

// DismissResult returns from the confirmation view to an empty form.
func (s *Submission) DismissResult() {
	s.result = nil
}
