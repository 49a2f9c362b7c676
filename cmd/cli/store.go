package cli

import (
	"context"
	"sync"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/acquisition"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/export"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/httpapi"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/outreach"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/pipeline"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/reporting"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/storage"
)

// StoreOpener connects to the lead database.
type StoreOpener func(executionContext context.Context, configuration storage.Configuration) (*storage.Store, error)

// storeConnector opens the database on first use so commands that never touch it run without credentials.
type storeConnector struct {
	configurationProvider func() storage.Configuration
	opener                StoreOpener
	mutex                 sync.Mutex
	store                 *storage.Store
}

func newStoreConnector(configurationProvider func() storage.Configuration, opener StoreOpener) *storeConnector {
	if opener == nil {
		opener = storage.Open
	}
	return &storeConnector{configurationProvider: configurationProvider, opener: opener}
}

func (connector *storeConnector) open(executionContext context.Context) (*storage.Store, error) {
	connector.mutex.Lock()
	defer connector.mutex.Unlock()

	if connector.store != nil {
		return connector.store, nil
	}
	store, openError := connector.opener(executionContext, connector.configurationProvider())
	if openError != nil {
		return nil, openError
	}
	connector.store = store
	return store, nil
}

func (connector *storeConnector) close() {
	connector.mutex.Lock()
	defer connector.mutex.Unlock()

	if connector.store != nil {
		connector.store.Close()
		connector.store = nil
	}
}

func (connector *storeConnector) leadStore(executionContext context.Context) (acquisition.LeadStore, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}

func (connector *storeConnector) auditStore(executionContext context.Context) (audit.AuditStore, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}

func (connector *storeConnector) reportStore(executionContext context.Context) (reporting.ReportStore, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}

func (connector *storeConnector) outreachStore(executionContext context.Context) (outreach.OutreachStore, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}

func (connector *storeConnector) leadLister(executionContext context.Context) (export.LeadLister, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}

func (connector *storeConnector) apiStore(executionContext context.Context) (httpapi.LeadStore, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}

func (connector *storeConnector) pipelineStore(executionContext context.Context) (pipeline.Store, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}

func (connector *storeConnector) migrator(executionContext context.Context) (storage.SchemaMigrator, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}

func (connector *storeConnector) remover(executionContext context.Context) (storage.LeadRemover, error) {
	store, openError := connector.open(executionContext)
	if openError != nil {
		return nil, openError
	}
	return store, nil
}
