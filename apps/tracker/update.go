package main

import (
	"fmt"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ntic/scicon/core/submission"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case loadedMsg:
		return m.handleLoaded(msg)
	case withdrawnMsg:
		return m.handleWithdrawn(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		return m, nil
	}
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	m.results = msg.results
	m.counters = msg.counters
	m.events = msg.events
	if m.eventIdx > len(m.events) {
		m.eventIdx = 0
	}
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m, nil
}

func (m model) handleWithdrawn(msg withdrawnMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.flash = msg.err.Error()
		return m, nil
	}
	m.flash = fmt.Sprintf("Withdrawn: %s", msg.sub.Title)
	return m.reload()
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
	case "/":
		m.mode = modeSearch
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusOptions)
		return m.reload()
	case "e":
		m.eventIdx = (m.eventIdx + 1) % (len(m.events) + 1)
		return m.reload()
	case "t":
		m.typeIdx = (m.typeIdx + 1) % len(typeOptions)
		return m.reload()
	case "c":
		m.search, m.statusIdx, m.eventIdx, m.typeIdx = "", 0, 0, 0
		return m.reload()
	case "w":
		sub, ok := m.selected()
		switch {
		case !ok:
		case sub.Status == submission.StatusWithdrawn:
			m.flash = "Already withdrawn."
		case !sub.CanWithdraw():
			m.flash = submission.ErrNotWithdrawable.Error()
		default:
			m.pending = sub
			m.mode = modeConfirm
		}
	case "enter":
		if sub, ok := m.selected(); ok {
			m.route = submission.ViewRoute(sub.ID)
		}
	case "o":
		if sub, ok := m.selected(); ok {
			if !sub.CanEdit() {
				m.flash = submission.ErrNotEditable.Error()
				break
			}
			m.route = submission.EditRoute(sub.ID)
		}
	case "r":
		if sub, ok := m.selected(); ok {
			if !sub.CanResubmit() {
				m.flash = submission.ErrNotResubmittable.Error()
				break
			}
			m.route = submission.ResubmitRoute(sub.EventID, sub.ID)
		}
	case "n":
		m.route = submission.NewSubmissionRoute()
	}
	return m, nil
}

// updateSearch edits the free text query, filtering as the user types.
func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.search = ""
	case tea.KeyBackspace:
		if m.search == "" {
			return m, nil
		}
		_, size := utf8.DecodeLastRuneInString(m.search)
		m.search = m.search[:len(m.search)-size]
	case tea.KeySpace:
		m.search += " "
	case tea.KeyRunes:
		m.search += string(msg.Runes)
	default:
		return m, nil
	}
	m.cursor = 0
	return m.reload()
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	id := m.pending.ID
	m.pending = submission.Submission{}

	switch msg.String() {
	case "y", "Y":
		return m, m.withdraw(id)
	}
	m.flash = "Withdrawal cancelled."
	return m, nil
}
