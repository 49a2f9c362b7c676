// Package reporting renders the latest audit of a lead as a console summary and
// a markdown document, optionally uploading the document to an object store.
package reporting
