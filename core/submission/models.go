package submission

import (
	"encoding/json"
	"time"

	"github.com/ntic/scicon/core"
)

// Status is the lifecycle state of a Submission.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusSubmitted         Status = "submitted"
	StatusUnderReview       Status = "under_review"
	StatusRevisionRequested Status = "revision_requested"
	StatusAccepted          Status = "accepted"
	StatusRejected          Status = "rejected"
	StatusWithdrawn         Status = "withdrawn"
)

var AllStatuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusRevisionRequested,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

func (s Status) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSubmitted:
		return "Submitted"
	case StatusUnderReview:
		return "Under review"
	case StatusRevisionRequested:
		return "Revision requested"
	case StatusAccepted:
		return "Accepted"
	case StatusRejected:
		return "Rejected"
	case StatusWithdrawn:
		return "Withdrawn"
	}
	return string(s)
}

// Tone is the badge color family a status is rendered with.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	TonePurple  Tone = "purple"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
	ToneMuted   Tone = "muted"
)

func (s Status) Tone() Tone {
	switch s {
	case StatusSubmitted:
		return ToneInfo
	case StatusUnderReview:
		return ToneWarning
	case StatusRevisionRequested:
		return TonePurple
	case StatusAccepted:
		return ToneSuccess
	case StatusRejected:
		return ToneDanger
	case StatusWithdrawn:
		return ToneMuted
	}
	return ToneNeutral
}

// Type is the presentation type of a Submission.
type Type string

const (
	TypeOral    Type = "oral"
	TypePoster  Type = "poster"
	TypeDisplay Type = "display"
)

var AllTypes = []Type{TypeOral, TypePoster, TypeDisplay}

func (t Type) Valid() bool {
	return t == TypeOral || t == TypePoster || t == TypeDisplay
}

func (t Type) Label() string {
	switch t {
	case TypeOral:
		return "Oral"
	case TypePoster:
		return "Poster"
	case TypeDisplay:
		return "Display"
	}
	return string(t)
}

// EventStatus is the denormalized status of the event a Submission targets.
type EventStatus string

const (
	EventCFPOpen   EventStatus = "cfp_open"
	EventReview    EventStatus = "review"
	EventPublished EventStatus = "published"
	EventOngoing   EventStatus = "ongoing"
	EventClosed    EventStatus = "closed"
)

type Submission struct {
	ID          string
	EventID     string
	EventTitle  string
	EventStatus EventStatus

	Title         string
	Type          Type
	Track         string
	Keywords      []string
	Abstract      string
	ReviewerNotes string

	SubmittedAt time.Time // zero while never submitted; UTC
	UpdatedAt   time.Time // UTC

	Status Status
}

// CanEdit is derived from Status: only drafts are editable.
func (s Submission) CanEdit() bool { return s.Status == StatusDraft }

// CanResubmit is derived from Status: only submissions with a revision request can be resubmitted.
func (s Submission) CanResubmit() bool { return s.Status == StatusRevisionRequested }

// CanWithdraw reports whether the withdraw action applies to s.
func (s Submission) CanWithdraw() bool {
	return s.Status != StatusAccepted && s.Status != StatusRejected
}

func (s Submission) clone() Submission {
	if s.Keywords != nil {
		kws := make([]string, len(s.Keywords))
		copy(kws, s.Keywords)
		s.Keywords = kws
	}
	return s
}

// storedSubmission is the durable JSON shape. canEdit/canResubmit are written for readers of the
// blob but never read back: they are recomputed from the status.
type storedSubmission struct {
	ID            string      `json:"id"`
	EventID       string      `json:"eventId"`
	EventTitle    string      `json:"eventTitle"`
	EventStatus   EventStatus `json:"eventStatus"`
	Title         string      `json:"title"`
	Type          Type        `json:"type"`
	SubmittedAt   *time.Time  `json:"submittedAt,omitempty"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Status        Status      `json:"status"`
	CanEdit       bool        `json:"canEdit"`
	CanResubmit   bool        `json:"canResubmit"`
	Track         string      `json:"track,omitempty"`
	Keywords      []string    `json:"keywords,omitempty"`
	Abstract      string      `json:"abstract,omitempty"`
	ReviewerNotes string      `json:"reviewerNotes,omitempty"`
}

func encodeRecords(records []Submission) ([]byte, error) {
	stored := make([]storedSubmission, 0, len(records))
	for _, r := range records {
		ss := storedSubmission{
			ID:            r.ID,
			EventID:       r.EventID,
			EventTitle:    r.EventTitle,
			EventStatus:   r.EventStatus,
			Title:         r.Title,
			Type:          r.Type,
			UpdatedAt:     r.UpdatedAt.UTC(),
			Status:        r.Status,
			CanEdit:       r.CanEdit(),
			CanResubmit:   r.CanResubmit(),
			Track:         r.Track,
			Keywords:      r.Keywords,
			Abstract:      r.Abstract,
			ReviewerNotes: r.ReviewerNotes,
		}
		if !r.SubmittedAt.IsZero() {
			t := r.SubmittedAt.UTC()
			ss.SubmittedAt = &t
		}
		stored = append(stored, ss)
	}
	return json.Marshal(stored)
}

// decodeRecords parses a durable blob. Records with an unknown status or type, a missing id,
// a missing last update time or a duplicated id make the whole blob unparseable.
func decodeRecords(blob []byte) ([]Submission, error) {
	var stored []storedSubmission
	if err := json.Unmarshal(blob, &stored); err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errCorruptBlob
	}

	seen := make(map[string]struct{}, len(stored))
	records := make([]Submission, 0, len(stored))
	for _, ss := range stored {
		if ss.ID == "" || ss.UpdatedAt.IsZero() || !ss.Status.Valid() || !ss.Type.Valid() {
			return nil, errCorruptBlob
		}
		if _, dup := seen[ss.ID]; dup {
			return nil, errCorruptBlob
		}
		seen[ss.ID] = struct{}{}

		r := Submission{
			ID:            ss.ID,
			EventID:       ss.EventID,
			EventTitle:    ss.EventTitle,
			EventStatus:   ss.EventStatus,
			Title:         ss.Title,
			Type:          ss.Type,
			Track:         ss.Track,
			Keywords:      ss.Keywords,
			Abstract:      ss.Abstract,
			ReviewerNotes: ss.ReviewerNotes,
			UpdatedAt:     ss.UpdatedAt.UTC(),
			Status:        ss.Status,
		}
		if ss.SubmittedAt != nil {
			r.SubmittedAt = ss.SubmittedAt.UTC()
		}
		records = append(records, r)
	}
	return records, nil
}

// Links are the navigation targets a client can hand off to for a Submission.
type Links struct {
	View     string `json:"view"`
	Edit     string `json:"edit,omitempty"`
	Resubmit string `json:"resubmit,omitempty"`
}

func (s Submission) Links() Links {
	l := Links{View: ViewRoute(s.ID)}
	if s.CanEdit() {
		l.Edit = EditRoute(s.ID)
	}
	if s.CanResubmit() {
		l.Resubmit = ResubmitRoute(s.EventID, s.ID)
	}
	return l
}

// MarshalJSON renders the API shape, derived flags included.
func (s Submission) MarshalJSON() ([]byte, error) {
	type view struct {
		ID            string      `json:"id"`
		EventID       string      `json:"event_id"`
		EventTitle    string      `json:"event_title"`
		EventStatus   EventStatus `json:"event_status"`
		Title         string      `json:"title"`
		Type          Type        `json:"type"`
		TypeLabel     string      `json:"type_label"`
		Track         string      `json:"track"`
		Keywords      []string    `json:"keywords"`
		Abstract      string      `json:"abstract,omitempty"`
		ReviewerNotes string      `json:"reviewer_notes,omitempty"`
		SubmittedAt   *time.Time  `json:"submitted_at"`
		UpdatedAt     time.Time   `json:"updated_at"`
		Status        Status      `json:"status"`
		StatusLabel   string      `json:"status_label"`
		StatusTone    Tone        `json:"status_tone"`
		CanEdit       bool        `json:"can_edit"`
		CanResubmit   bool        `json:"can_resubmit"`
		Links         Links       `json:"links"`
	}
	v := view{
		ID:            s.ID,
		EventID:       s.EventID,
		EventTitle:    s.EventTitle,
		EventStatus:   s.EventStatus,
		Title:         s.Title,
		Type:          s.Type,
		TypeLabel:     s.Type.Label(),
		Track:         s.Track,
		Keywords:      s.Keywords,
		Abstract:      s.Abstract,
		ReviewerNotes: s.ReviewerNotes,
		UpdatedAt:     s.UpdatedAt,
		Status:        s.Status,
		StatusLabel:   s.Status.Label(),
		StatusTone:    s.Status.Tone(),
		CanEdit:       s.CanEdit(),
		CanResubmit:   s.CanResubmit(),
		Links:         s.Links(),
	}
	if v.Keywords == nil {
		v.Keywords = []string{}
	}
	if !s.SubmittedAt.IsZero() {
		t := s.SubmittedAt
		v.SubmittedAt = &t
	}
	return json.Marshal(v)
}

// NewSubmission contains information needed to create a new Submission.
type NewSubmission struct {
	EventID     string      `json:"event_id" validate:"required,notblank"`
	EventTitle  string      `json:"event_title" validate:"required,notblank"`
	EventStatus EventStatus `json:"event_status" validate:"omitempty,oneof=cfp_open review published ongoing closed"`
	Title       string      `json:"title" validate:"required,notblank,max=300"`
	Type        Type        `json:"type" validate:"required,presentation_type"`
	Track       string      `json:"track" validate:"max=100"`
	Keywords    []string    `json:"keywords" validate:"keywords"`
	Abstract    string      `json:"abstract" validate:"required_without=Draft,max=5000"`
	Draft       bool        `json:"draft"`
}

func (ns *NewSubmission) Clean() {
	ns.EventID = core.CleanString(ns.EventID)
	ns.EventTitle = core.CleanString(ns.EventTitle)
	ns.EventStatus = EventStatus(core.CleanString(string(ns.EventStatus), true /* lower */))
	ns.Title = core.CleanString(ns.Title)
	ns.Type = Type(core.CleanString(string(ns.Type), true /* lower */))
	ns.Track = core.CleanString(ns.Track)
	ns.Keywords = cleanKeywords(ns.Keywords)
	ns.Abstract = core.CleanString(ns.Abstract)
	if ns.EventStatus == "" {
		ns.EventStatus = EventCFPOpen
	}
}

// UpdateSubmission defines what information may be provided to modify a draft or a revision.
// Title and Type keep the current value when empty. Track, Keywords and Abstract keep it when
// absent (nil) and are cleared by an empty value.
type UpdateSubmission struct {
	Title    string   `json:"title" validate:"max=300"`
	Type     Type     `json:"type" validate:"omitempty,presentation_type"`
	Track    *string  `json:"track" validate:"omitempty,max=100"`
	Keywords []string `json:"keywords" validate:"keywords"`
	Abstract *string  `json:"abstract" validate:"omitempty,max=5000"`
}

func (us *UpdateSubmission) Clean() {
	us.Title = core.CleanString(us.Title)
	us.Type = Type(core.CleanString(string(us.Type), true /* lower */))
	us.Track = cleanOptional(us.Track)
	us.Keywords = cleanKeywords(us.Keywords)
	us.Abstract = cleanOptional(us.Abstract)
}

func cleanOptional(v *string) *string {
	if v == nil {
		return nil
	}
	cleaned := core.CleanString(*v)
	return &cleaned
}

func (us UpdateSubmission) apply(s *Submission) {
	if us.Title != "" {
		s.Title = us.Title
	}
	if us.Type != "" {
		s.Type = us.Type
	}
	if us.Track != nil {
		s.Track = *us.Track
	}
	if us.Keywords != nil {
		s.Keywords = us.Keywords
	}
	if us.Abstract != nil {
		s.Abstract = *us.Abstract
	}
}

func cleanKeywords(kws []string) []string {
	if kws == nil {
		return nil
	}
	cleaned := make([]string, 0, len(kws))
	for _, kw := range kws {
		if kw = core.CleanString(kw); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	return cleaned
}

// Counters are the workspace totals shown above the list.
type Counters struct {
	Total    int `json:"total"` // everything but withdrawn
	Accepted int `json:"accepted"`
	InReview int `json:"in_review"` // submitted + under review
	Revision int `json:"revision"`
	Drafts   int `json:"drafts"`
}

// EventOption is one entry of the event criterion dropdown.
type EventOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
