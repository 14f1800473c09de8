package cloud

import (
	"context"
	"sync"
)

// MockCompute is a test implementation of the Compute interface. It
// returns canned instances and records mutating calls. Safe for use
// from worker goroutines.
type MockCompute struct {
	mu        sync.Mutex
	instances []Instance
	err       error
	started   []string
	stopped   []string
}

// NewMockCompute creates a new MockCompute instance.
func NewMockCompute() *MockCompute {
	return &MockCompute{}
}

// SetInstances sets the instances returned by ListInstances.
func (m *MockCompute) SetInstances(instances []Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances = instances
}

// SetError sets the error returned by every call.
func (m *MockCompute) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ListInstances returns the pre-configured instances or error.
func (m *MockCompute) ListInstances(ctx context.Context) ([]Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.instances, nil
}

// StartInstance records the id and reports the instance as pending.
func (m *MockCompute) StartInstance(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.started = append(m.started, id)
	return "pending", nil
}

// StopInstance records the id and reports the instance as stopping.
func (m *MockCompute) StopInstance(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.stopped = append(m.stopped, id)
	return "stopping", nil
}

// Started returns the ids passed to StartInstance.
func (m *MockCompute) Started() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.started...)
}

// Stopped returns the ids passed to StopInstance.
func (m *MockCompute) Stopped() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.stopped...)
}

// MockStorage is a test implementation of the Storage interface.
type MockStorage struct {
	mu      sync.Mutex
	buckets []Bucket
	err     error
	created []string
}

// NewMockStorage creates a new MockStorage instance.
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// SetBuckets sets the buckets returned by ListBuckets.
func (m *MockStorage) SetBuckets(buckets []Bucket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets = buckets
}

// SetError sets the error returned by every call.
func (m *MockStorage) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ListBuckets returns the pre-configured buckets or error.
func (m *MockStorage) ListBuckets(ctx context.Context) ([]Bucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.buckets, nil
}

// CreateBucket records the name and returns a synthetic location.
func (m *MockStorage) CreateBucket(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.created = append(m.created, name)
	return "/" + name, nil
}

// Created returns the names passed to CreateBucket.
func (m *MockStorage) Created() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.created...)
}
