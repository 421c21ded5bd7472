package flags

import (
	"context"
)

type pseudoFlagKey string
type flagKey string

var (
	sourcePseudoFlagKey = pseudoFlagKey("source")
)

// Source tells where the hardware device list of a virtual machine is read
// from.
type Source struct {
	// SnapshotPath is the path of a hardware snapshot file.
	SnapshotPath string
	// VMName overrides the virtual machine name of the snapshot.
	VMName string
}

func ContextWithPseudoFlagset(ctx context.Context, source *Source) context.Context {
	return context.WithValue(ctx, sourcePseudoFlagKey, source)
}

func GetSourceFromPseudoFlagset(ctx context.Context) *Source {
	if v, ok := ctx.Value(sourcePseudoFlagKey).(*Source); ok {
		return v
	}
	return &Source{}
}
