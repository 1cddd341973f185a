package importer

import "fmt"

// Gate decides whether an import may run at all. It is consulted before any file is read.
type Gate interface {
	CanImport() bool
}

// reasoner is implemented by gates that can explain a refusal.
type reasoner interface {
	DenyReason() string
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func() bool

// CanImport calls f.
func (f GateFunc) CanImport() bool { return f() }

// AllowAll never refuses.
type AllowAll struct{}

// CanImport always returns true.
func (AllowAll) CanImport() bool { return true }

// LimitGate refuses imports once the caller already stores Max transactions.
// A non-positive Max disables the limit.
type LimitGate struct {
	Max    int
	Stored int
}

// CanImport reports whether Stored is still below Max.
func (g LimitGate) CanImport() bool {
	return g.Max <= 0 || g.Stored < g.Max
}

// DenyReason explains a refusal.
func (g LimitGate) DenyReason() string {
	return fmt.Sprintf("stored transaction limit of %d reached", g.Max)
}
