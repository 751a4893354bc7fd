package submission

import "time"

func mustParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// DefaultSeed returns the records a fresh (or unreadable) durable storage is seeded with.
func DefaultSeed() []Submission {
	return []Submission{
		{
			ID:          "sub-101",
			EventID:     "ev-1",
			EventTitle:  "Public Health Conference 2026",
			EventStatus: EventCFPOpen,
			Title:       "Predictors of Vaccine Hesitancy in Urban Communities",
			Type:        TypeOral,
			SubmittedAt: mustParseTime("2025-12-05T10:10:00Z"),
			UpdatedAt:   mustParseTime("2025-12-05T10:10:00Z"),
			Status:      StatusUnderReview,
			Track:       "Public Health",
			Keywords:    []string{"vaccination", "survey", "behavior"},
		},
		{
			ID:          "sub-102",
			EventID:     "ev-2",
			EventTitle:  "Cardiology Research Day",
			EventStatus: EventReview,
			Title:       "ECG Signal Classification Using Lightweight Transformers",
			Type:        TypePoster,
			SubmittedAt: mustParseTime("2025-11-28T14:40:00Z"),
			UpdatedAt:   mustParseTime("2025-12-10T09:15:00Z"),
			Status:      StatusRevisionRequested,
			Track:       "Cardiology",
			Keywords:    []string{"ECG", "transformers", "classification"},
			ReviewerNotes: "The topic is relevant and well-structured. However, the methodology section " +
				"requires more detail, and evaluation metrics must be clarified.",
		},
		{
			ID:          "sub-103",
			EventID:     "ev-3",
			EventTitle:  "AI & Health Symposium",
			EventStatus: EventPublished,
			Title:       "Bias Auditing in Clinical NLP Pipelines",
			Type:        TypeOral,
			SubmittedAt: mustParseTime("2025-10-20T08:00:00Z"),
			UpdatedAt:   mustParseTime("2025-11-02T16:22:00Z"),
			Status:      StatusAccepted,
			Track:       "AI",
			Keywords:    []string{"NLP", "bias", "clinical"},
		},
		{
			ID:          "sub-104",
			EventID:     "ev-1",
			EventTitle:  "Public Health Conference 2026",
			EventStatus: EventCFPOpen,
			Title:       "Draft: Community Health Workers Data Collection Protocol",
			Type:        TypeDisplay,
			UpdatedAt:   mustParseTime("2025-12-18T12:00:00Z"),
			Status:      StatusDraft,
			Track:       "Public Health",
			Keywords:    []string{"protocol", "fieldwork"},
		},
	}
}
