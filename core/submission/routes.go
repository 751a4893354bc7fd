package submission

import (
	"net/url"
	"path"
)

const (
	submissionsRoute = "/dashboard/author/submissions"
	eventsRoute      = "/event"
)

// ViewRoute is where a submission's detail page lives.
func ViewRoute(id string) string {
	return path.Join(submissionsRoute, url.PathEscape(id))
}

// EditRoute opens the draft editor.
func EditRoute(id string) string {
	return ViewRoute(id) + "?mode=edit"
}

// ResubmitRoute opens the event submission form pre-filled with an existing submission.
func ResubmitRoute(eventID, id string) string {
	q := url.Values{"submissionId": []string{id}}
	return path.Join(eventsRoute, url.PathEscape(eventID), "submit") + "?" + q.Encode()
}

// NewSubmissionRoute lists the events with an open call for papers.
func NewSubmissionRoute() string {
	return eventsRoute
}

// SubmitRoute opens a blank submission form for an event.
func SubmitRoute(eventID string) string {
	return path.Join(eventsRoute, url.PathEscape(eventID), "submit")
}
