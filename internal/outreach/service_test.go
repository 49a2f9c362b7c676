package outreach_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/outreach"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
)

type statusUpdate struct {
	leadID      int64
	status      leads.OutreachStatus
	attemptedAt time.Time
}

type memoryOutreachStore struct {
	lead    leads.Lead
	result  *audit.Result
	updates []statusUpdate
}

func (store *memoryOutreachStore) GetLead(_ context.Context, leadID int64) (leads.Lead, error) {
	if leadID != store.lead.ID {
		return leads.Lead{}, errors.New("not found")
	}
	return store.lead, nil
}

func (store *memoryOutreachStore) LatestAudit(context.Context, int64) (audit.Result, error) {
	if store.result == nil {
		return audit.Result{}, errors.New("not found")
	}
	return *store.result, nil
}

func (store *memoryOutreachStore) UpdateOutreachStatus(_ context.Context, leadID int64, status leads.OutreachStatus, attemptedAt time.Time) error {
	store.updates = append(store.updates, statusUpdate{leadID: leadID, status: status, attemptedAt: attemptedAt})
	return nil
}

type stubDrafter struct {
	body     string
	err      error
	subject  textgen.Subject
	template string
}

func (drafter *stubDrafter) DraftOutreachEmail(_ context.Context, subject textgen.Subject, template string) (string, error) {
	drafter.subject = subject
	drafter.template = template
	return drafter.body, drafter.err
}

type recordingMailer struct {
	messages []outreach.Message
	err      error
}

func (mailer *recordingMailer) Send(_ context.Context, message outreach.Message) error {
	mailer.messages = append(mailer.messages, message)
	return mailer.err
}

type fixedClock struct {
	instant time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.instant
}

func auditOutcome(issues ...string) analysis.Outcome {
	return analysis.Outcome{Score: 50, Issues: issues}
}

var attemptInstant = time.Date(2024, time.June, 3, 14, 0, 0, 0, time.UTC)

func newOutreachStore(email string) *memoryOutreachStore {
	return &memoryOutreachStore{
		lead: leads.Lead{
			ID: 7,
			Candidate: leads.Candidate{
				BusinessName: "Bloom Florist",
				Email:        email,
				Website:      "https://bloom.test",
				Source:       leads.SourceJustDial,
			},
			OutreachStatus: leads.OutreachStatusPending,
		},
		result: &audit.Result{
			LeadID:           7,
			PerformanceScore: 40,
			SEOScore:         65,
			OverallScore:     58,
			Details: audit.Details{
				Performance: auditOutcome("Website is too slow"),
				SEO:         auditOutcome("Missing meta description"),
			},
		},
	}
}

func newService(store *memoryOutreachStore, drafter *stubDrafter, mailer outreach.Mailer, output *bytes.Buffer) *outreach.Service {
	configuration := outreach.DefaultCommandConfiguration()
	configuration.SMTP.Username = "sales@agency.test"
	configuration.SMTP.Password = "secret"
	return outreach.NewService(outreach.ServiceDependencies{
		Store:        store,
		Drafter:      drafter,
		Mailer:       mailer,
		Clock:        fixedClock{instant: attemptInstant},
		OutputWriter: output,
	}, configuration)
}

func TestServiceDraftsWithoutSending(testInstance *testing.T) {
	store := newOutreachStore("owner@bloom.test")
	drafter := &stubDrafter{body: "  Hi Bloom Florist, your site scored 58/100.  "}
	mailer := &recordingMailer{}
	output := &bytes.Buffer{}

	draft, runError := newService(store, drafter, mailer, output).Run(context.Background(), outreach.CommandOptions{LeadID: 7})
	require.NoError(testInstance, runError)

	require.Equal(testInstance, leads.OutreachStatusDraft, draft.Status)
	require.Equal(testInstance, "Question about Bloom Florist", draft.Subject)
	require.Equal(testInstance, "Hi Bloom Florist, your site scored 58/100.", draft.Body)
	require.Empty(testInstance, mailer.messages)
	require.Equal(testInstance, outreach.DefaultTemplate(), drafter.template)
	require.Equal(testInstance, 58, drafter.subject.OverallScore)
	require.Equal(testInstance, []string{"Website is too slow"}, drafter.subject.PerformanceIssues)
	require.Equal(testInstance, []statusUpdate{{leadID: 7, status: leads.OutreachStatusDraft, attemptedAt: attemptInstant}}, store.updates)
	require.Contains(testInstance, output.String(), "Draft email for Bloom Florist <owner@bloom.test>")
}

func TestServiceSendsAndRecordsStatus(testInstance *testing.T) {
	testCases := []struct {
		name           string
		mailerError    error
		expectedStatus leads.OutreachStatus
		expectError    bool
	}{
		{name: "delivered", expectedStatus: leads.OutreachStatusSent},
		{name: "delivery_failure", mailerError: errors.New("connection refused"), expectedStatus: leads.OutreachStatusFailed, expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store := newOutreachStore("owner@bloom.test")
			mailer := &recordingMailer{err: testCase.mailerError}
			service := newService(store, &stubDrafter{body: "Hello"}, mailer, &bytes.Buffer{})

			draft, runError := service.Run(context.Background(), outreach.CommandOptions{LeadID: 7, Template: "Hi {Business}", Send: true})
			if testCase.expectError {
				require.Error(testInstance, runError)
			} else {
				require.NoError(testInstance, runError)
			}

			require.Equal(testInstance, testCase.expectedStatus, draft.Status)
			require.Len(testInstance, mailer.messages, 1)
			require.Equal(testInstance, outreach.Message{
				From:    "sales@agency.test",
				To:      "owner@bloom.test",
				Subject: "Question about Bloom Florist",
				Body:    "Hello",
			}, mailer.messages[0])
			require.Len(testInstance, store.updates, 1)
			require.Equal(testInstance, testCase.expectedStatus, store.updates[0].status)
			require.Equal(testInstance, attemptInstant, store.updates[0].attemptedAt)
		})
	}
}

func TestServiceRejectsIncompleteLeads(testInstance *testing.T) {
	testCases := []struct {
		name    string
		store   func() *memoryOutreachStore
		leadID  int64
		send    bool
		drafter *stubDrafter
	}{
		{name: "unknown_lead", store: func() *memoryOutreachStore { return newOutreachStore("owner@bloom.test") }, leadID: 99},
		{
			name: "missing_audit",
			store: func() *memoryOutreachStore {
				store := newOutreachStore("owner@bloom.test")
				store.result = nil
				return store
			},
			leadID: 7,
		},
		{name: "send_without_email", store: func() *memoryOutreachStore { return newOutreachStore("N/A") }, leadID: 7, send: true},
		{name: "draft_failure", store: func() *memoryOutreachStore { return newOutreachStore("") }, leadID: 7, drafter: &stubDrafter{err: errors.New("rate limited")}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store := testCase.store()
			drafter := testCase.drafter
			if drafter == nil {
				drafter = &stubDrafter{body: "Hello"}
			}
			mailer := &recordingMailer{}

			_, runError := newService(store, drafter, mailer, &bytes.Buffer{}).Run(context.Background(), outreach.CommandOptions{LeadID: testCase.leadID, Send: testCase.send})
			require.Error(testInstance, runError)
			require.Empty(testInstance, mailer.messages)
			require.Empty(testInstance, store.updates)
		})
	}
}
