package action

import (
	"context"
	"fmt"
	"io"

	"github.com/ayusman/mudra/internal/cloud"
	"github.com/ayusman/mudra/internal/console"
	"github.com/ayusman/mudra/internal/trigger"
)

// listInstances prints the instance inventory. Read-only, so it runs
// without confirmation.
type listInstances struct {
	compute cloud.Compute
	out     io.Writer
}

func (h *listInstances) Name() string   { return NameListInstances }
func (h *listInstances) Mutating() bool { return false }

func (h *listInstances) Run(ctx context.Context) error {
	instances, err := h.compute.ListInstances(ctx)
	if err != nil {
		return fmt.Errorf("failed to list instances: %w", err)
	}

	fmt.Fprintln(h.out, "\n[Instances]")
	for _, inst := range instances {
		fmt.Fprintf(h.out, "- %s | state=%s | type=%s | name=%s\n",
			inst.ID, inst.State, inst.Type, inst.Name)
	}
	return nil
}

// startInstance starts a named instance after explicit confirmation.
type startInstance struct {
	compute  cloud.Compute
	prompter console.Prompter
	out      io.Writer
}

func (h *startInstance) Name() string   { return NameStartInstance }
func (h *startInstance) Mutating() bool { return true }

func (h *startInstance) Run(ctx context.Context) error {
	id := h.prompter.ReadLine("Enter instance ID to START (or blank to cancel): ")
	if id == "" {
		fmt.Fprintln(h.out, "Start cancelled.")
		return fmt.Errorf("start instance: %w", trigger.ErrCancelled)
	}

	fmt.Fprintf(h.out, "About to start instance: %s\n", id)
	if !h.prompter.Confirm("Type 'yes' to confirm START: ") {
		fmt.Fprintln(h.out, "Start cancelled.")
		return fmt.Errorf("start instance %s: %w", id, trigger.ErrCancelled)
	}

	state, err := h.compute.StartInstance(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to start instance %s: %w", id, err)
	}
	fmt.Fprintf(h.out, "Start request sent. Instance %s is %s.\n", id, state)
	return nil
}

// stopInstance stops a named instance after explicit confirmation.
type stopInstance struct {
	compute  cloud.Compute
	prompter console.Prompter
	out      io.Writer
}

func (h *stopInstance) Name() string   { return NameStopInstance }
func (h *stopInstance) Mutating() bool { return true }

func (h *stopInstance) Run(ctx context.Context) error {
	id := h.prompter.ReadLine("Enter instance ID to STOP (or blank to cancel): ")
	if id == "" {
		fmt.Fprintln(h.out, "Stop cancelled.")
		return fmt.Errorf("stop instance: %w", trigger.ErrCancelled)
	}

	fmt.Fprintf(h.out, "About to stop instance: %s\n", id)
	if !h.prompter.Confirm("Type 'yes' to confirm STOP: ") {
		fmt.Fprintln(h.out, "Stop cancelled.")
		return fmt.Errorf("stop instance %s: %w", id, trigger.ErrCancelled)
	}

	state, err := h.compute.StopInstance(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to stop instance %s: %w", id, err)
	}
	fmt.Fprintf(h.out, "Stop request sent. Instance %s is %s.\n", id, state)
	return nil
}
