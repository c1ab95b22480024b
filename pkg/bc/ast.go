// Package bc defines the low-level bytecode form emitted by the fernc backend.
// A function body is an ordered instruction stream with explicit labels
// marking jump targets. This is the last symbolic form before serialization.
package bc

// LabelID is a numeric label identity assigned by the numbering phases.
type LabelID int

// Label is a jump-target identity. Two flavors occupy disjoint namespaces:
// Regular labels already carry a numeric identity, Named labels carry a
// textual identity used transiently before numbering.
type Label interface {
	implLabel()
	String() string
}

// Regular is a label with a numeric identity.
type Regular LabelID

// Named is a label with a textual identity, not yet numbered.
type Named string

func (Regular) implLabel() {}
func (Named) implLabel()   {}

// RegularID resolves a label to its numeric identity.
// It reports false for Named labels (and nil), which have none yet.
func RegularID(l Label) (LabelID, bool) {
	r, ok := l.(Regular)
	return LabelID(r), ok
}

// --- Instructions ---
// Instructions form a closed set. Only the label-bearing kinds matter to the
// relabeling pass; the plain kinds are carried through untouched.

// Instruction is the interface for bytecode instructions.
type Instruction interface {
	implInstruction()
}

// Nop does nothing.
type Nop struct{}

// Int pushes an integer constant.
type Int struct {
	Value int64
}

// Str pushes a string constant.
type Str struct {
	Value string
}

// Pop discards the top of the stack.
type Pop struct{}

// Dup duplicates the top of the stack.
type Dup struct{}

// Ret returns from the function.
type Ret struct{}

// RetC returns the top of the stack from the function.
type RetC struct{}

// LabelDef marks a jump target. It denotes the position of the next
// non-label instruction and occupies no position itself.
type LabelDef struct {
	L Label
}

// Jmp is an unconditional jump.
type Jmp struct {
	Target Label
}

// JmpNS is an unconditional jump with no surprise-flag check.
type JmpNS struct {
	Target Label
}

// JmpZ jumps if the top of the stack is falsy.
type JmpZ struct {
	Target Label
}

// JmpNZ jumps if the top of the stack is truthy.
type JmpNZ struct {
	Target Label
}

// IterInit initializes iterator Iter, jumping to Target when the iterated
// value is empty.
type IterInit struct {
	Iter   int
	Target Label
}

// IterNext advances iterator Iter, jumping to Target while elements remain.
type IterNext struct {
	Iter   int
	Target Label
}

// MemoGet loads a memoized value, jumping to Target on a cache miss.
type MemoGet struct {
	Target Label
}

// MemoGetEager is the eager-async variant of MemoGet: NoValue is taken on a
// cache miss, Suspended when the cached value is a still-running wait handle.
type MemoGetEager struct {
	NoValue   Label
	Suspended Label
}

// Switch is an n-way ordered dispatch: the operand, offset by Base, indexes
// into Targets.
type Switch struct {
	Base    int64
	Targets []Label
}

// SSwitchCase pairs a string key with its dispatch target. An empty key is
// the default arm.
type SSwitchCase struct {
	Key    string
	Target Label
}

// SSwitch is a sparse string-keyed dispatch.
type SSwitch struct {
	Cases []SSwitchCase
}

// FCall calls Func with Args arguments. AsyncEager, when non-nil, is the
// jump target for an eagerly-completed async callee.
type FCall struct {
	Func       string
	Args       int
	AsyncEager Label
}

// Marker methods for Instruction interface
func (Nop) implInstruction()          {}
func (Int) implInstruction()          {}
func (Str) implInstruction()          {}
func (Pop) implInstruction()          {}
func (Dup) implInstruction()          {}
func (Ret) implInstruction()          {}
func (RetC) implInstruction()         {}
func (LabelDef) implInstruction()     {}
func (Jmp) implInstruction()          {}
func (JmpNS) implInstruction()        {}
func (JmpZ) implInstruction()         {}
func (JmpNZ) implInstruction()        {}
func (IterInit) implInstruction()     {}
func (IterNext) implInstruction()     {}
func (MemoGet) implInstruction()      {}
func (MemoGetEager) implInstruction() {}
func (Switch) implInstruction()       {}
func (SSwitch) implInstruction()      {}
func (FCall) implInstruction()        {}

// --- Parameters ---

// DefaultValue is a parameter's default-value initializer: Target is the
// entry of the initializer code in the body, Expr its source text.
type DefaultValue struct {
	Target Label
	Expr   string
}

// Param is a declared function parameter. Params are not instructions; their
// default targets are rewritten by relabeling but never deleted.
type Param struct {
	Name    string
	Default *DefaultValue
}

// --- Function ---

// Function is one unit of compilation: the body and parameters handed to
// the relabeling pass immediately before serialization.
type Function struct {
	Name   string
	Params []Param
	Body   *InstrSeq
}
