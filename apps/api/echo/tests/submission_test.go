package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/ntic/scicon/apps/api/echo"
	"github.com/ntic/scicon/core/submission"
)

type submissionView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Status      string           `json:"status"`
	StatusLabel string           `json:"status_label"`
	CanEdit     bool             `json:"can_edit"`
	CanResubmit bool             `json:"can_resubmit"`
	Links       submission.Links `json:"links"`
}

type listView struct {
	Results  []submissionView    `json:"results"`
	Counters submission.Counters `json:"counters"`
}

func viewIDs(views []submissionView) []string {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Scicon API!", rec.Body.String())
}

func Test_submissionApi_query(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantIDs  []string
	}{
		{name: "all", path: "/v1/submissions", wantCode: http.StatusOK, wantIDs: []string{"sub-104", "sub-102", "sub-101", "sub-103"}},
		{name: "trailing slash", path: "/v1/submissions/", wantCode: http.StatusOK, wantIDs: []string{"sub-104", "sub-102", "sub-101", "sub-103"}},
		{
			name:     "ALL criteria",
			path:     "/v1/submissions?status=ALL&event=ALL&type=ALL",
			wantCode: http.StatusOK,
			wantIDs:  []string{"sub-104", "sub-102", "sub-101", "sub-103"},
		},
		{name: "search", path: "/v1/submissions?search=Bias", wantCode: http.StatusOK, wantIDs: []string{"sub-103"}},
		{name: "status", path: "/v1/submissions?status=draft", wantCode: http.StatusOK, wantIDs: []string{"sub-104"}},
		{name: "event and type", path: "/v1/submissions?event=ev-1&type=oral", wantCode: http.StatusOK, wantIDs: []string{"sub-101"}},
		{name: "no match", path: "/v1/submissions?search=oncology", wantCode: http.StatusOK, wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			var got listView
			decode(t, rec, &got)
			assert.Equal(t, tt.wantIDs, viewIDs(got.Results))
			assert.Equal(t, submission.Counters{Total: 4, Accepted: 1, InReview: 1, Revision: 1, Drafts: 1}, got.Counters)
		})
	}
}

func Test_submissionApi_queryValidation(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "unknown status",
			method:   http.MethodGet,
			path:     "/v1/submissions?status=archived",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status":"must be ALL or a submission status"}`),
		},
		{
			name:     "unknown type",
			method:   http.MethodGet,
			path:     "/v1/submissions?type=keynote",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"type":"must be ALL or a presentation type"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_submissionApi_statsAndEvents(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "stats",
			method:   http.MethodGet,
			path:     "/v1/submissions/stats",
			wantCode: http.StatusOK,
			wantData: []byte(`{"total":4,"accepted":1,"in_review":1,"revision":1,"drafts":1}`),
		},
		{
			name:     "events",
			method:   http.MethodGet,
			path:     "/v1/submissions/events",
			wantCode: http.StatusOK,
			wantData: []byte(`[
				{"id":"ev-3","title":"AI & Health Symposium"},
				{"id":"ev-2","title":"Cardiology Research Day"},
				{"id":"ev-1","title":"Public Health Conference 2026"}
			]`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_submissionApi_retrieve(t *testing.T) {
	app := setup(t)

	t.Run("not found", func(t *testing.T) {
		tt := httpTest{
			method:   http.MethodGet,
			path:     "/v1/submissions/sub-999",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: submission.ErrNotFound.Error()}),
		}
		req, rec := newRequest(tt.method, tt.path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("derived flags and links", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/submissions/sub-102")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got submissionView
		decode(t, rec, &got)
		assert.Equal(t, "revision_requested", got.Status)
		assert.Equal(t, "Revision requested", got.StatusLabel)
		assert.False(t, got.CanEdit)
		assert.True(t, got.CanResubmit)
		assert.Equal(t, submission.Links{
			View:     "/dashboard/author/submissions/sub-102",
			Resubmit: "/event/ev-2/submit?submissionId=sub-102",
		}, got.Links)
	})
}

func Test_submissionApi_withdraw(t *testing.T) {
	app := setup(t)
	ctx := context.Background()

	before, err := app.store.All(ctx)
	if err != nil {
		t.Fatalf("store.All(): %v", err)
	}

	tests := []httpTest{
		{
			name:     "missing confirmation",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-101/withdraw",
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: submission.ErrNotConfirmed.Error()}),
		},
		{
			name:     "declined",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-101/withdraw",
			body:     marchallObj(t, WithdrawRequest{Confirm: false}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: submission.ErrNotConfirmed.Error()}),
		},
		{
			name:     "missing id",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-999/withdraw",
			body:     marchallObj(t, WithdrawRequest{Confirm: true}),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: submission.ErrNotFound.Error()}),
		},
		{
			name:     "accepted",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-103/withdraw",
			body:     marchallObj(t, WithdrawRequest{Confirm: true}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: submission.ErrNotWithdrawable.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			after, _ := app.store.All(ctx)
			assert.Equal(t, before, after)
		})
	}

	t.Run("confirmed, twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			req, rec := newRequest(http.MethodPost, "/v1/submissions/sub-101/withdraw", marchallObj(t, WithdrawRequest{Confirm: true}))
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
			}
			var got submissionView
			decode(t, rec, &got)
			assert.Equal(t, "withdrawn", got.Status)
		}
		assert.Len(t, app.mails.SentMessages(), 1)

		req, rec := newRequest(http.MethodGet, "/v1/submissions/stats")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"total":3,"accepted":1,"in_review":0,"revision":1,"drafts":1}`),
		}, rec)
	})
}

func Test_submissionApi_create(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			body:     []byte(`{"title":"Telemedicine Uptake","draft":true}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{
				"event_id":"this field is required",
				"event_title":"this field is required",
				"type":"this field is required"
			}`),
		},
		{
			name:     "unknown type",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			body:     []byte(`{"event_id":"ev-4","event_title":"Digital Health Forum","title":"Telemedicine Uptake","type":"keynote","draft":true}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"type":"presentation type must be one of: oral, poster, display"}`),
		},
		{
			name:     "similar title within the event",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			body:     []byte(`{"event_id":"ev-1","event_title":"Public Health Conference 2026","title":"predictors of vaccine hesitancy in urban communities","type":"oral","abstract":"x"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": submission.ErrDuplicateTitle.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("created", func(t *testing.T) {
		body := []byte(`{"event_id":"ev-4","event_title":"Digital Health Forum","title":"Telemedicine Uptake","type":"Poster","keywords":["telehealth"],"abstract":"Uptake after 2020."}`)
		req, rec := newRequest(http.MethodPost, "/v1/submissions", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got submissionView
		decode(t, rec, &got)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "submitted", got.Status)

		req, rec = newRequest(http.MethodGet, "/v1/submissions?event=ev-4")
		app.ServeHTTP(rec, req)
		var list listView
		decode(t, rec, &list)
		assert.Equal(t, []string{got.ID}, viewIDs(list.Results))
	})
}

func Test_submissionApi_transitions(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "edit a non draft",
			method:   http.MethodPut,
			path:     "/v1/submissions/sub-101",
			body:     []byte(`{"track":"Epidemiology"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: submission.ErrNotEditable.Error()}),
		},
		{
			name:     "edit with an invalid type",
			method:   http.MethodPut,
			path:     "/v1/submissions/sub-104",
			body:     []byte(`{"type":"keynote"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"type":"presentation type must be one of: oral, poster, display"}`),
		},
		{
			name:     "submit without an abstract",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-104/submit",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"abstract":"an abstract is required to submit"}`),
		},
		{
			name:     "edit draft",
			method:   http.MethodPut,
			path:     "/v1/submissions/sub-104",
			body:     []byte(`{"abstract":"Protocol and tooling."}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "submit draft",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-104/submit",
			wantCode: http.StatusOK,
		},
		{
			name:     "submit twice",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-104/submit",
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: submission.ErrNotSubmittable.Error()}),
		},
		{
			name:     "resubmit revision",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-102/resubmit",
			body:     []byte(`{"abstract":"Clarified evaluation metrics."}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "resubmit twice",
			method:   http.MethodPost,
			path:     "/v1/submissions/sub-102/resubmit",
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: submission.ErrNotResubmittable.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	req, rec := newRequest(http.MethodGet, "/v1/submissions/stats")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: []byte(`{"total":4,"accepted":1,"in_review":3,"revision":0,"drafts":0}`),
	}, rec)
}
