package submission

import "testing"

func TestRoutes(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "view", got: ViewRoute("sub-101"), want: "/dashboard/author/submissions/sub-101"},
		{name: "view escapes id", got: ViewRoute("a/b"), want: "/dashboard/author/submissions/a%2Fb"},
		{name: "edit", got: EditRoute("sub-104"), want: "/dashboard/author/submissions/sub-104?mode=edit"},
		{name: "resubmit", got: ResubmitRoute("ev-2", "sub-102"), want: "/event/ev-2/submit?submissionId=sub-102"},
		{name: "submit", got: SubmitRoute("ev-1"), want: "/event/ev-1/submit"},
		{name: "new submission", got: NewSubmissionRoute(), want: "/event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSubmission_Links(t *testing.T) {
	seed := DefaultSeed()

	tests := []struct {
		name string
		sub  Submission
		want Links
	}{
		{
			name: "under review",
			sub:  seed[0],
			want: Links{View: "/dashboard/author/submissions/sub-101"},
		},
		{
			name: "revision requested",
			sub:  seed[1],
			want: Links{
				View:     "/dashboard/author/submissions/sub-102",
				Resubmit: "/event/ev-2/submit?submissionId=sub-102",
			},
		},
		{
			name: "draft",
			sub:  seed[3],
			want: Links{
				View: "/dashboard/author/submissions/sub-104",
				Edit: "/dashboard/author/submissions/sub-104?mode=edit",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.Links(); got != tt.want {
				t.Errorf("Links() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
