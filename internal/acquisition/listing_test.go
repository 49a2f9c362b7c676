package acquisition_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/failures"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

type stubListingEntry struct {
	name       string
	website    string
	phone      string
	address    string
	nameError  error
	openError  error
	panicValue any
}

type stubListingSession struct {
	entries       []stubListingEntry
	visible       int
	revealPerPage int
	searchError   error
	feedVisible   bool
	searchedQuery string
	scrolls       int
	opened        int
	closed        int
	detailLookups int
}

func (session *stubListingSession) Search(_ context.Context, query string) error {
	session.searchedQuery = query
	return session.searchError
}

func (session *stubListingSession) AwaitResults(context.Context) bool {
	return session.feedVisible
}

func (session *stubListingSession) ScrollResults(context.Context) error {
	session.scrolls++
	session.visible += session.revealPerPage
	if session.visible > len(session.entries) {
		session.visible = len(session.entries)
	}
	return nil
}

func (session *stubListingSession) CountCandidates(context.Context) (int, error) {
	return session.visible, nil
}

func (session *stubListingSession) CandidateName(_ context.Context, index int) (string, error) {
	entry := session.entries[index]
	return entry.name, entry.nameError
}

func (session *stubListingSession) OpenCandidate(_ context.Context, index int) error {
	entry := session.entries[index]
	if entry.panicValue != nil {
		panic(entry.panicValue)
	}
	if entry.openError != nil {
		return entry.openError
	}
	session.opened = index
	return nil
}

func (session *stubListingSession) DetailAttribute(_ context.Context, selector string, _ string) (string, error) {
	session.detailLookups++
	entry := session.entries[session.opened]
	switch selector {
	case acquisition.WebsiteSelectorConstant:
		return entry.website, nil
	case acquisition.PhoneSelectorConstant:
		return entry.phone, nil
	case acquisition.AddressSelectorConstant:
		return entry.address, nil
	default:
		return "", nil
	}
}

func (session *stubListingSession) Close() error {
	session.closed++
	return nil
}

type stubSessionFactory struct {
	session   *stubListingSession
	openError error
}

func (factory *stubSessionFactory) OpenSession(context.Context) (acquisition.ListingSession, error) {
	if factory.openError != nil {
		return nil, factory.openError
	}
	return factory.session, nil
}

type stubContactResolver struct {
	emails   map[string]string
	resolved []string
}

func (resolver *stubContactResolver) Resolve(_ context.Context, websiteURL string) (string, bool) {
	resolver.resolved = append(resolver.resolved, websiteURL)
	email, found := resolver.emails[websiteURL]
	return email, found
}

func instantListingConfiguration() acquisition.ListingConfiguration {
	return acquisition.ListingConfiguration{ScrollIterations: 3, StagnationLimit: 2}
}

func TestListingAcquirerExtractsCandidates(testInstance *testing.T) {
	session := &stubListingSession{
		feedVisible:   true,
		visible:       2,
		revealPerPage: 2,
		entries: []stubListingEntry{
			{name: "Bright Smiles", website: "https://brightsmiles.com", phone: "Phone: +1 212-555-0100", address: "Address: 5 Main St, New York"},
			{name: "No Website Dental", website: ""},
			{name: "", website: "https://nameless.com"},
			{name: "Broken Entry", openError: errors.New("detached node")},
			{name: "Panicking Entry", panicValue: "stale handle"},
			{name: "Quiet Dental", website: "https://quiet.com"},
			{name: "Overflow Dental", website: "https://overflow.com"},
		},
	}
	resolver := &stubContactResolver{emails: map[string]string{"https://brightsmiles.com": "desk@brightsmiles.com"}}
	acquirer := acquisition.NewListingAcquirer(&stubSessionFactory{session: session}, resolver, instantListingConfiguration(), zap.NewNop())

	candidates, acquireError := acquirer.Acquire(context.Background(), acquisition.Query{Keyword: "Dentist", Location: "New York", TargetCount: 2})
	require.NoError(testInstance, acquireError)
	require.Equal(testInstance, "Dentist in New York", session.searchedQuery)
	require.Equal(testInstance, 1, session.closed)
	require.Len(testInstance, candidates, 2)

	require.Equal(testInstance, leads.Candidate{
		BusinessName: "Bright Smiles",
		Category:     "Dentist",
		Address:      "5 Main St, New York",
		Phone:        "+1 212-555-0100",
		Email:        "desk@brightsmiles.com",
		Website:      "https://brightsmiles.com",
		Source:       leads.SourceGoogleMaps,
	}, candidates[0])

	require.Equal(testInstance, "Quiet Dental", candidates[1].BusinessName)
	require.Equal(testInstance, leads.NotAvailableValue, candidates[1].Email)
	require.Equal(testInstance, leads.NotAvailableValue, candidates[1].Phone)
	require.Equal(testInstance, leads.NotAvailableValue, candidates[1].Address)
	require.Equal(testInstance, []string{"https://brightsmiles.com", "https://quiet.com"}, resolver.resolved)
}

func TestListingAcquirerNeverExceedsTarget(testInstance *testing.T) {
	entries := make([]stubListingEntry, 0, 30)
	for index := 0; index < 30; index++ {
		entries = append(entries, stubListingEntry{name: "Clinic", website: "https://clinic.example.org"})
	}
	session := &stubListingSession{feedVisible: true, visible: 10, revealPerPage: 10, entries: entries}
	acquirer := acquisition.NewListingAcquirer(&stubSessionFactory{session: session}, nil, instantListingConfiguration(), nil)

	candidates, acquireError := acquirer.Acquire(context.Background(), acquisition.Query{Keyword: "Clinic", Location: "Austin", TargetCount: 4})
	require.NoError(testInstance, acquireError)
	require.Len(testInstance, candidates, 4)
	for _, candidate := range candidates {
		require.True(testInstance, candidate.Auditable())
	}
}

func TestListingAcquirerStopsScrollingWhenStagnant(testInstance *testing.T) {
	session := &stubListingSession{
		feedVisible:   false,
		visible:       1,
		revealPerPage: 0,
		entries:       []stubListingEntry{{name: "Only Result", website: "https://only.com"}},
	}
	configuration := acquisition.ListingConfiguration{ScrollIterations: 10, StagnationLimit: 2}
	acquirer := acquisition.NewListingAcquirer(&stubSessionFactory{session: session}, nil, configuration, nil)

	candidates, acquireError := acquirer.Acquire(context.Background(), acquisition.Query{Keyword: "Cafe", Location: "Oslo", TargetCount: 5})
	require.NoError(testInstance, acquireError)
	require.Equal(testInstance, 2, session.scrolls)
	require.Len(testInstance, candidates, 1)
}

func TestListingAcquirerSessionFailures(testInstance *testing.T) {
	testInstance.Run("open_failure", func(testInstance *testing.T) {
		acquirer := acquisition.NewListingAcquirer(&stubSessionFactory{openError: errors.New("chrome not found")}, nil, instantListingConfiguration(), nil)

		candidates, acquireError := acquirer.Acquire(context.Background(), acquisition.Query{Keyword: "Gym", Location: "Lima", TargetCount: 3})
		require.Error(testInstance, acquireError)
		require.True(testInstance, failures.IsSession(acquireError))
		require.Empty(testInstance, candidates)
	})

	testInstance.Run("search_failure_closes_session", func(testInstance *testing.T) {
		session := &stubListingSession{searchError: errors.New("navigation timeout")}
		acquirer := acquisition.NewListingAcquirer(&stubSessionFactory{session: session}, nil, instantListingConfiguration(), nil)

		candidates, acquireError := acquirer.Acquire(context.Background(), acquisition.Query{Keyword: "Gym", Location: "Lima", TargetCount: 3})
		require.Error(testInstance, acquireError)
		require.True(testInstance, failures.IsSession(acquireError))
		require.Empty(testInstance, candidates)
		require.Equal(testInstance, 1, session.closed)
	})
}

func TestListingAcquirerRejectsEmptyQuery(testInstance *testing.T) {
	acquirer := acquisition.NewListingAcquirer(&stubSessionFactory{session: &stubListingSession{}}, nil, instantListingConfiguration(), nil)

	_, acquireError := acquirer.Acquire(context.Background(), acquisition.Query{Keyword: " ", Location: "Lima", TargetCount: 3})
	require.True(testInstance, failures.IsConfiguration(acquireError))
}
