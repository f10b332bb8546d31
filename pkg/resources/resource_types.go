package resources

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
)

// ResourceContents is the content of a resource, text or binary.
type ResourceContents interface {
	GetURI() string
	GetMimeType() string
	IsText() bool
	// GetText returns the text content, empty for binary content.
	GetText() string
	// GetBlob returns the binary content, nil for text content.
	GetBlob() []byte
}

// ResourceContentText holds text-based resource content.
type ResourceContentText struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

func (t ResourceContentText) GetURI() string      { return t.URI }
func (t ResourceContentText) GetMimeType() string { return t.MimeType }
func (t ResourceContentText) IsText() bool        { return true }
func (t ResourceContentText) GetText() string     { return t.Text }
func (t ResourceContentText) GetBlob() []byte     { return nil }

// ResourceContentBinary holds binary resource content.
type ResourceContentBinary struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Blob     []byte `json:"blob"`
}

func (b ResourceContentBinary) GetURI() string      { return b.URI }
func (b ResourceContentBinary) GetMimeType() string { return b.MimeType }
func (b ResourceContentBinary) IsText() bool        { return false }
func (b ResourceContentBinary) GetText() string     { return "" }
func (b ResourceContentBinary) GetBlob() []byte     { return b.Blob }

// NewTextResourceContents creates a new text resource contents object.
func NewTextResourceContents(uri string, mimeType string, text string) ResourceContents {
	return ResourceContentText{URI: uri, MimeType: mimeType, Text: text}
}

// NewBinaryResourceContents creates a new binary resource contents object.
func NewBinaryResourceContents(uri string, mimeType string, blob []byte) ResourceContents {
	return ResourceContentBinary{URI: uri, MimeType: mimeType, Blob: blob}
}

// Resource represents an MCP resource definition
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// ResourceListOptions provides pagination options for listing resources
type ResourceListOptions struct {
	Cursor string
}

// ResourceListResult represents a paginated list of resources
type ResourceListResult struct {
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// ResourceRegistry defines the interface for a resource registry
type ResourceRegistry interface {
	// ListResources returns a paginated list of resources
	ListResources(ctx context.Context, opts ResourceListOptions) ResourceListResult

	// ReadResource reads a resource by URI
	ReadResource(ctx context.Context, uri string) ([]ResourceContents, error)
}
