package action

import (
	"context"
	"fmt"
	"io"

	"github.com/ayusman/mudra/internal/cloud"
	"github.com/ayusman/mudra/internal/console"
	"github.com/ayusman/mudra/internal/trigger"
)

// listBuckets prints the bucket inventory. Read-only, so it runs
// without confirmation.
type listBuckets struct {
	storage cloud.Storage
	out     io.Writer
}

func (h *listBuckets) Name() string   { return NameListBuckets }
func (h *listBuckets) Mutating() bool { return false }

func (h *listBuckets) Run(ctx context.Context) error {
	buckets, err := h.storage.ListBuckets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list buckets: %w", err)
	}

	fmt.Fprintln(h.out, "\n[Buckets]")
	for _, b := range buckets {
		fmt.Fprintf(h.out, "- %s\n", b.Name)
	}
	return nil
}

// createBucket creates a named bucket after explicit confirmation. The
// storage client decides the region and its location constraint.
type createBucket struct {
	storage  cloud.Storage
	prompter console.Prompter
	out      io.Writer
}

func (h *createBucket) Name() string   { return NameCreateBucket }
func (h *createBucket) Mutating() bool { return true }

func (h *createBucket) Run(ctx context.Context) error {
	name := h.prompter.ReadLine("Enter new bucket name (DNS-compliant) or blank to cancel: ")
	if name == "" {
		fmt.Fprintln(h.out, "Bucket creation cancelled.")
		return fmt.Errorf("create bucket: %w", trigger.ErrCancelled)
	}

	fmt.Fprintf(h.out, "About to create bucket: %s\n", name)
	if !h.prompter.Confirm("Type 'yes' to confirm CREATE BUCKET: ") {
		fmt.Fprintln(h.out, "Bucket creation cancelled.")
		return fmt.Errorf("create bucket %s: %w", name, trigger.ErrCancelled)
	}

	location, err := h.storage.CreateBucket(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}

	if location != "" {
		fmt.Fprintf(h.out, "Bucket %s created at %s.\n", name, location)
	} else {
		fmt.Fprintf(h.out, "Bucket %s created.\n", name)
	}
	return nil
}
