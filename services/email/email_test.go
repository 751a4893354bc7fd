package emailsvc

import (
	"bytes"
	"log"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ntic/scicon/core"
	"github.com/ntic/scicon/fs"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var testConf = &core.Config{
	Debug:           true,
	TestMode:        true,
	AppName:         "Scicon",
	FrontendBaseURL: "http://localhost:3000",
}

type withdrawnData struct {
	AuthorName  string
	Title       string
	EventTitle  string
	SubmitRoute string
}

func TestConsoleService_sendMessage(t *testing.T) {
	core.ParseEmailTemplates(appfs.FS, testConf, nopLogger{})

	var out bytes.Buffer
	svc := NewConsoleService(testConf, nopLogger{}, log.New(&out, "", 0))

	svc.sendMessage(&core.EmailMessage{
		To:           []mail.Address{{Name: "Author", Address: "author@test.test"}},
		Subject:      "Submission withdrawn: ECG",
		TemplateName: "submission_withdrawn",
		TemplateData: withdrawnData{
			AuthorName:  "Author",
			Title:       "ECG",
			EventTitle:  "Cardiology Research Day",
			SubmitRoute: "/event/ev-2/submit",
		},
	})

	sent := svc.SentMessages()
	if assert.Len(t, sent, 1) {
		assert.Contains(t, sent[0].TextContent, `Your submission "ECG" to Cardiology Research Day has been withdrawn.`)
		assert.Contains(t, sent[0].TextContent, "http://localhost:3000/event/ev-2/submit")
		assert.Contains(t, sent[0].HTMLContent, "<strong>ECG</strong>")
	}
	assert.Contains(t, out.String(), "Subject: [Scicon] Submission withdrawn: ECG")
	assert.Contains(t, out.String(), "To: \"Author\" <author@test.test>")
}

func TestConsoleService_skipsEmptyMessages(t *testing.T) {
	svc := NewConsoleServiceMock(testConf, nopLogger{})

	svc.SendMessages(
		&core.EmailMessage{Subject: "no recipient", BodyStr: "hello"},
		&core.EmailMessage{To: []mail.Address{{Address: "a@test.test"}}, Subject: "no content"},
		&core.EmailMessage{To: []mail.Address{{Address: "a@test.test"}}, Subject: "plain", BodyStr: "hello"},
	)

	sent := svc.SentMessages()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "plain", sent[0].Subject)
		assert.Equal(t, "hello", sent[0].TextContent)
	}
}

func TestSendgridService_prepare(t *testing.T) {
	svc := NewSendgridService(testConf, nopLogger{})
	m := svc.prepare(core.EmailMessage{
		To:          []mail.Address{{Name: "Author", Address: "author@test.test"}},
		Subject:     "hi",
		TextContent: "hello",
	})

	if assert.Len(t, m.Personalizations, 1) {
		assert.Equal(t, "[Scicon] hi", m.Personalizations[0].Subject)
		assert.Equal(t, "author@test.test", m.Personalizations[0].To[0].Address)
	}
	assert.Len(t, m.Content, 1)
}

func TestNewService(t *testing.T) {
	if _, ok := NewService(testConf, nopLogger{}, nil).(*consoleService); !ok {
		t.Error("NewService() should return the console service in debug")
	}
	prod := *testConf
	prod.Debug = false
	prod.SendgridApiKey = "key"
	if _, ok := NewService(&prod, nopLogger{}, nil).(*sendgridService); !ok {
		t.Error("NewService() should return the sendgrid service with an API key")
	}
}

func TestConsoleService_Wait(t *testing.T) {
	svc := NewConsoleService(testConf, nopLogger{}, nil)

	msgs := make([]*core.EmailMessage, 0, 20)
	for i := 0; i < 20; i++ {
		msgs = append(msgs, &core.EmailMessage{To: []mail.Address{{Address: "a@test.test"}}, Subject: "hi", BodyStr: "hello"})
	}
	svc.SendMessages(msgs...)
	svc.Wait()

	assert.Len(t, svc.SentMessages(), 20)
}
