package submission

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/ntic/scicon/core"
)

var (
	// errors
	ErrNotFound         = errors.New("submission not found")
	ErrNotConfirmed     = errors.New("withdrawal was not confirmed")
	ErrNotEditable      = errors.New("only drafts can be edited")
	ErrNotSubmittable   = errors.New("only drafts can be submitted")
	ErrNotResubmittable = errors.New("only submissions with a revision request can be resubmitted")
	ErrNotWithdrawable  = errors.New("accepted or rejected submissions cannot be withdrawn")
	ErrDuplicateTitle   = errors.New("a submission with a similar title already exists for this event")

	titleMaxSim = .9

	nowFunc = func() time.Time { return time.Now().UTC() } // mockable
)

// ConfirmFunc asks whoever triggered a destructive action to confirm it.
type ConfirmFunc func(Submission) bool

// Confirmed is a ConfirmFunc for callers that already collected the confirmation.
func Confirmed(Submission) bool { return true }

type (
	Service interface {
		Query(ctx context.Context, f Filter) ([]Submission, error)
		Get(ctx context.Context, id string) (Submission, error)
		Counters(ctx context.Context) (Counters, error)
		Events(ctx context.Context) ([]EventOption, error)
		CheckTitleUniqueness(ctx context.Context, eventID, title string, excludedIDs ...string) error
		Create(ctx context.Context, ns NewSubmission) (Submission, error)
		UpdateDraft(ctx context.Context, id string, us UpdateSubmission) (Submission, error)
		Submit(ctx context.Context, id string) (Submission, error)
		Resubmit(ctx context.Context, id string, us UpdateSubmission) (Submission, error)
		// Withdraw marks a submission withdrawn once confirm approves it.
		// Withdrawing an already withdrawn submission is a no-op.
		Withdraw(ctx context.Context, id string, confirm ConfirmFunc) (Submission, error)
		Reset(ctx context.Context) ([]Submission, error)
		// Wait blocks until every withdrawal receipt has been handed over and handled by the mail service.
		Wait()
	}

	service struct {
		store   *Store
		mailSvc core.EmailService
		author  core.Person
		logger  core.Logger
		wg      sync.WaitGroup
	}
)

var _ Service = (*service)(nil)

func NewService(store *Store, mailSvc core.EmailService, conf *core.Config, logger core.Logger) Service {
	return &service{
		store:   store,
		mailSvc: mailSvc,
		author:  conf.Author(),
		logger:  logger,
	}
}

func (svc *service) Query(ctx context.Context, f Filter) ([]Submission, error) {
	records, err := svc.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(records, f), nil
}

func (svc *service) Get(ctx context.Context, id string) (Submission, error) {
	return svc.store.Get(ctx, core.CleanString(id))
}

func (svc *service) Counters(ctx context.Context) (Counters, error) {
	records, err := svc.store.All(ctx)
	if err != nil {
		return Counters{}, err
	}
	return CountAll(records), nil
}

// CountAll computes the workspace totals. Withdrawn submissions are left out of every counter.
func CountAll(records []Submission) Counters {
	var c Counters
	for _, r := range records {
		switch r.Status {
		case StatusWithdrawn:
			continue
		case StatusAccepted:
			c.Accepted++
		case StatusSubmitted, StatusUnderReview:
			c.InReview++
		case StatusRevisionRequested:
			c.Revision++
		case StatusDraft:
			c.Drafts++
		}
		c.Total++
	}
	return c
}

func (svc *service) Events(ctx context.Context) ([]EventOption, error) {
	records, err := svc.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return EventsOf(records), nil
}

// EventsOf returns the distinct events the records target, sorted by title.
func EventsOf(records []Submission) []EventOption {
	seen := make(map[string]struct{}, len(records))
	events := make([]EventOption, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.EventID]; ok {
			continue
		}
		seen[r.EventID] = struct{}{}
		events = append(events, EventOption{ID: r.EventID, Title: r.EventTitle})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
	})
	return events
}

// CheckTitleUniqueness rejects a title too close to another live submission's title for the same event.
func (svc *service) CheckTitleUniqueness(ctx context.Context, eventID, title string, excludedIDs ...string) error {
	records, err := svc.store.All(ctx)
	if err != nil {
		return err
	}

	excluded := make(map[string]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = struct{}{}
	}

	for _, r := range records {
		if _, skip := excluded[r.ID]; skip || r.EventID != eventID || r.Status == StatusWithdrawn {
			continue
		}
		if titleSimilarity(r.Title, title) >= titleMaxSim {
			return core.NewValidationError(
				ErrDuplicateTitle,
				core.FieldError{Field: "title", Error: ErrDuplicateTitle.Error()},
			)
		}
	}
	return nil
}

func titleSimilarity(a, b string) float64 {
	a, b = core.CleanString(a, true /* lower */), core.CleanString(b, true /* lower */)
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func (svc *service) Create(ctx context.Context, ns NewSubmission) (Submission, error) {
	now := nowFunc()
	sub := Submission{
		ID:          uuid.New().String(),
		EventID:     ns.EventID,
		EventTitle:  ns.EventTitle,
		EventStatus: ns.EventStatus,
		Title:       ns.Title,
		Type:        ns.Type,
		Track:       ns.Track,
		Keywords:    ns.Keywords,
		Abstract:    ns.Abstract,
		UpdatedAt:   now,
		Status:      StatusDraft,
	}
	if !ns.Draft {
		sub.Status = StatusSubmitted
		sub.SubmittedAt = now
	}
	return svc.store.Add(ctx, sub)
}

func (svc *service) UpdateDraft(ctx context.Context, id string, us UpdateSubmission) (Submission, error) {
	return svc.store.Update(ctx, id, func(s *Submission) (bool, error) {
		if !s.CanEdit() {
			return false, ErrNotEditable
		}
		us.apply(s)
		s.UpdatedAt = nowFunc()
		return true, nil
	})
}

func (svc *service) Submit(ctx context.Context, id string) (Submission, error) {
	return svc.store.Update(ctx, id, func(s *Submission) (bool, error) {
		if s.Status != StatusDraft {
			return false, ErrNotSubmittable
		}
		if s.Abstract == "" {
			return false, core.NewValidationError(
				nil,
				core.FieldError{Field: "abstract", Error: "an abstract is required to submit"},
			)
		}
		now := nowFunc()
		s.Status = StatusSubmitted
		s.SubmittedAt = now
		s.UpdatedAt = now
		return true, nil
	})
}

func (svc *service) Resubmit(ctx context.Context, id string, us UpdateSubmission) (Submission, error) {
	return svc.store.Update(ctx, id, func(s *Submission) (bool, error) {
		if !s.CanResubmit() {
			return false, ErrNotResubmittable
		}
		us.apply(s)
		now := nowFunc()
		s.Status = StatusUnderReview
		s.SubmittedAt = now
		s.UpdatedAt = now
		return true, nil
	})
}

func (svc *service) withdraw(ctx context.Context, id string, confirm ConfirmFunc) (sub Submission, changed bool, err error) {
	target, err := svc.store.Get(ctx, id)
	if err != nil {
		return Submission{}, false, err
	}
	if target.Status == StatusWithdrawn {
		return target, false, nil
	}
	if !target.CanWithdraw() {
		return Submission{}, false, ErrNotWithdrawable
	}
	if confirm == nil || !confirm(target) {
		return Submission{}, false, ErrNotConfirmed
	}

	sub, err = svc.store.Update(ctx, id, func(s *Submission) (bool, error) {
		switch {
		case s.Status == StatusWithdrawn:
			return false, nil
		case !s.CanWithdraw():
			return false, ErrNotWithdrawable
		}
		s.Status = StatusWithdrawn
		s.UpdatedAt = nowFunc()
		changed = true
		return true, nil
	})
	if err != nil {
		return Submission{}, false, err
	}
	return sub, changed, nil
}

func (svc *service) Withdraw(ctx context.Context, id string, confirm ConfirmFunc) (Submission, error) {
	sub, changed, err := svc.withdraw(ctx, core.CleanString(id), confirm)
	if err != nil {
		return Submission{}, err
	}
	if changed {
		svc.wg.Add(1)
		go func() {
			defer svc.wg.Done()
			svc.sendWithdrawalMail(sub)
		}()
	}
	return sub, nil
}

func (svc *service) Wait() {
	svc.wg.Wait()
	if svc.mailSvc != nil {
		svc.mailSvc.Wait()
	}
}

func (svc *service) Reset(ctx context.Context) ([]Submission, error) {
	return svc.store.Reset(ctx)
}

type withdrawalMailData struct {
	AuthorName  string
	Title       string
	EventTitle  string
	SubmitRoute string
}

func (svc *service) sendWithdrawalMail(sub Submission) {
	if svc.mailSvc == nil || svc.author.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: svc.author.Name, Address: svc.author.Email}},
		Subject:      "Submission withdrawn: " + sub.Title,
		TemplateName: "submission_withdrawn",
		TemplateData: withdrawalMailData{
			AuthorName:  svc.author.Name,
			Title:       sub.Title,
			EventTitle:  sub.EventTitle,
			SubmitRoute: SubmitRoute(sub.EventID),
		},
	})
	if svc.logger != nil {
		svc.logger.Info("withdrawal receipt queued", map[string]interface{}{"submission_id": sub.ID}, svc.author)
	}
}
