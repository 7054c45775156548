// Package archive stores rendered invoice PDFs in durable object storage.
package archive

import (
	"context"
	"errors"
)

var ErrStorageNotConfigured = errors.New("invoice_storage_not_configured")

// Upload is the result of archiving one PDF: a public URL for the invoice
// document plus the storage-side object key.
type Upload struct {
	URL string
	Key string
}

type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (*Upload, error)
}

// disabledStore keeps issuance failing loudly, not silently, when no
// bucket is configured. Archival is a hard step of the issuance chain.
type disabledStore struct{}

func (disabledStore) Put(ctx context.Context, key string, body []byte, contentType string) (*Upload, error) {
	return nil, ErrStorageNotConfigured
}
