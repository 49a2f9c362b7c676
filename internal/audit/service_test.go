package audit_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

type memoryAuditStore struct {
	leads     map[int64]leads.Lead
	saveError error
	saved     []audit.Result
}

func (store *memoryAuditStore) GetLead(_ context.Context, leadID int64) (leads.Lead, error) {
	lead, exists := store.leads[leadID]
	if !exists {
		return leads.Lead{}, errors.New("lead not found")
	}
	return lead, nil
}

func (store *memoryAuditStore) SaveAudit(_ context.Context, result audit.Result) (audit.Result, error) {
	if store.saveError != nil {
		return audit.Result{}, store.saveError
	}
	result.ID = int64(len(store.saved) + 1)
	store.saved = append(store.saved, result)
	return result, nil
}

type stubAuditor struct {
	result audit.Result
	err    error
}

func (auditor stubAuditor) Audit(_ context.Context, lead leads.Lead) (audit.Result, error) {
	result := auditor.result
	result.LeadID = lead.ID
	return result, auditor.err
}

func TestServiceRun(testInstance *testing.T) {
	testCases := []struct {
		name           string
		leadID         int64
		auditor        stubAuditor
		saveError      error
		expectError    bool
		expectedOutput string
		expectedSaved  int
	}{
		{
			name:           "persists_result",
			leadID:         7,
			auditor:        stubAuditor{result: audit.Result{OverallScore: 82}},
			expectedOutput: "Analyzing https://bakery.test...\nAudit completed. Overall Score: 82\n",
			expectedSaved:  1,
		},
		{
			name:        "unknown_lead",
			leadID:      99,
			expectError: true,
		},
		{
			name:           "audit_error_saves_nothing",
			leadID:         7,
			auditor:        stubAuditor{err: errors.New("lead 7 has no website to audit")},
			expectError:    true,
			expectedOutput: "Analyzing https://bakery.test...\n",
		},
		{
			name:           "save_error",
			leadID:         7,
			auditor:        stubAuditor{result: audit.Result{OverallScore: 82}},
			saveError:      errors.New("connection reset"),
			expectError:    true,
			expectedOutput: "Analyzing https://bakery.test...\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store := &memoryAuditStore{
				leads:     map[int64]leads.Lead{7: {ID: 7, Candidate: leads.Candidate{BusinessName: "Bakery", Website: "https://bakery.test"}}},
				saveError: testCase.saveError,
			}
			output := &bytes.Buffer{}
			service := audit.NewService(store, testCase.auditor, output, nil)

			result, runError := service.Run(context.Background(), audit.CommandOptions{LeadID: testCase.leadID})
			require.Equal(testInstance, testCase.expectedOutput, output.String())
			require.Len(testInstance, store.saved, testCase.expectedSaved)
			if testCase.expectError {
				require.Error(testInstance, runError)
				return
			}
			require.NoError(testInstance, runError)
			require.Equal(testInstance, int64(1), result.ID)
			require.Equal(testInstance, int64(7), result.LeadID)
		})
	}
}
