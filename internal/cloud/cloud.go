// Package cloud provides the compute and storage clients behind the
// finger-count bound actions.
package cloud

import (
	"context"
	"time"
)

// Instance describes one compute instance.
type Instance struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Type  string `json:"type"`
	Name  string `json:"name"`
}

// Bucket describes one storage bucket.
type Bucket struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Compute lists and controls compute instances.
type Compute interface {
	// ListInstances returns every instance visible to the account.
	ListInstances(ctx context.Context) ([]Instance, error)

	// StartInstance starts the named instance and returns its
	// resulting state.
	StartInstance(ctx context.Context, id string) (string, error)

	// StopInstance stops the named instance and returns its resulting
	// state.
	StopInstance(ctx context.Context, id string) (string, error)
}

// Storage lists and creates storage buckets.
type Storage interface {
	// ListBuckets returns every bucket owned by the account.
	ListBuckets(ctx context.Context) ([]Bucket, error)

	// CreateBucket creates the named bucket in the client's region and
	// returns its location.
	CreateBucket(ctx context.Context, name string) (string, error)
}
