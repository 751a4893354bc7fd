package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ntic/scicon/core/submission"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirm
)

type (
	loadedMsg struct {
		seq      int
		results  []submission.Submission
		counters submission.Counters
		events   []submission.EventOption
		err      error
	}

	withdrawnMsg struct {
		sub submission.Submission
		err error
	}
)

var (
	statusOptions = append([]submission.Criterion[submission.Status]{submission.Any[submission.Status]()}, only(submission.AllStatuses)...)
	typeOptions   = append([]submission.Criterion[submission.Type]{submission.Any[submission.Type]()}, only(submission.AllTypes)...)
)

func only[T comparable](values []T) []submission.Criterion[T] {
	out := make([]submission.Criterion[T], 0, len(values))
	for _, v := range values {
		out = append(out, submission.Only(v))
	}
	return out
}

type model struct {
	ctx     context.Context
	svc     submission.Service
	baseURL string

	search    string
	statusIdx int
	eventIdx  int // 0 is ALL, i is events[i-1]
	typeIdx   int

	results  []submission.Submission
	counters submission.Counters
	events   []submission.EventOption
	cursor   int

	mode    mode
	pending submission.Submission // awaiting a withdrawal confirmation
	route   string                // last navigation target handed off
	flash   string
	err     error

	width int
	seq   int // of the latest load; older results are dropped
}

func newModel(ctx context.Context, svc submission.Service, baseURL string) model {
	return model{ctx: ctx, svc: svc, baseURL: baseURL}
}

func (m model) Init() tea.Cmd {
	return m.query(m.seq)
}

func (m model) filter() submission.Filter {
	f := submission.Filter{
		Query:  m.search,
		Status: statusOptions[m.statusIdx],
		Type:   typeOptions[m.typeIdx],
	}
	if m.eventIdx > 0 && m.eventIdx <= len(m.events) {
		f.Event = submission.Only(m.events[m.eventIdx-1].ID)
	}
	return f
}

func (m model) selected() (submission.Submission, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return submission.Submission{}, false
	}
	return m.results[m.cursor], true
}

// reload starts a query with the current criteria. Commands run concurrently,
// so only the reply to the latest reload is applied.
func (m model) reload() (tea.Model, tea.Cmd) {
	m.seq++
	return m, m.query(m.seq)
}

func (m model) query(seq int) tea.Cmd {
	ctx, svc, f := m.ctx, m.svc, m.filter()
	return func() tea.Msg {
		results, err := svc.Query(ctx, f)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		counters, err := svc.Counters(ctx)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		events, err := svc.Events(ctx)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		return loadedMsg{seq: seq, results: results, counters: counters, events: events}
	}
}

func (m model) withdraw(id string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		// the user already answered the prompt
		sub, err := svc.Withdraw(ctx, id, submission.Confirmed)
		return withdrawnMsg{sub: sub, err: err}
	}
}
