// Package models defines the transport-neutral types for stored documents.
package models

import "time"

// Object is a single JSON blob downloaded from a storage provider.
type Object struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	Data         []byte    `json:"-"`
}

// ObjectMetadata is the metadata block returned next to fetched data.
type ObjectMetadata struct {
	LastModified string `json:"lastModified"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

// Metadata returns the wire representation of the object's metadata.
func (o *Object) Metadata() ObjectMetadata {
	m := ObjectMetadata{
		Size: o.Size,
		Path: o.Path,
	}
	if !o.LastModified.IsZero() {
		m.LastModified = o.LastModified.UTC().Format(time.RFC3339)
	}
	return m
}
