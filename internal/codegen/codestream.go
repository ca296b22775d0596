package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// Instr is one instruction of a method's code. Branching instructions carry
// their targets as instruction positions; a target is -1 until the label it
// refers to is placed. For a dispatch, Targets[0] is the default and
// Targets[i+1] belongs to Keys[i].
type Instr struct {
	PC      int     `json:"pc" yaml:"pc"`
	Op      string  `json:"op" yaml:"op"`
	Arg     string  `json:"arg,omitempty" yaml:"arg,omitempty"`
	Keys    []int64 `json:"keys,omitempty" yaml:"keys,omitempty"`
	Targets []int   `json:"targets,omitempty" yaml:"targets,omitempty"`
}

func (in Instr) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4d: %s", in.PC, in.Op)
	if in.Arg != "" {
		sb.WriteString(" " + in.Arg)
	}
	switch {
	case len(in.Keys) > 0 || in.Op == OpTableSwitch || in.Op == OpLookupSwitch:
		for i, k := range in.Keys {
			fmt.Fprintf(&sb, " %d->%d", k, in.Targets[i+1])
		}
		fmt.Fprintf(&sb, " default->%d", in.Targets[0])
	case len(in.Targets) > 0:
		fmt.Fprintf(&sb, " %d", in.Targets[0])
	}
	return sb.String()
}

// LineEntry maps the instruction at PC to a source line
type LineEntry struct {
	PC   int `json:"pc" yaml:"pc"`
	Line int `json:"line" yaml:"line"`
}

// Dispatch instructions
const (
	OpTableSwitch  = "tableswitch"
	OpLookupSwitch = "lookupswitch"
)

// CodeStream accumulates the instructions and line table of one method.
type CodeStream struct {
	code  []Instr
	lines []LineEntry
}

// NewCodeStream creates an empty stream
func NewCodeStream() *CodeStream {
	return &CodeStream{}
}

// Position returns the position the next instruction will occupy.
func (s *CodeStream) Position() int {
	return len(s.code)
}

// Code returns the instructions emitted so far
func (s *CodeStream) Code() []Instr {
	return s.code
}

// Lines returns the line table
func (s *CodeStream) Lines() []LineEntry {
	return s.lines
}

// Emit appends a plain instruction and returns its position.
func (s *CodeStream) Emit(op, arg string) int {
	pc := len(s.code)
	s.code = append(s.code, Instr{PC: pc, Op: op, Arg: arg})
	return pc
}

// Branch appends a branching instruction to target.
func (s *CodeStream) Branch(op string, target *BranchLabel) int {
	pc := len(s.code)
	s.code = append(s.code, Instr{PC: pc, Op: op, Targets: []int{-1}})
	target.refer(pc, 0)
	return pc
}

// Dispatch appends a tableswitch or lookupswitch over keys, which must be
// sorted and distinct. targets[i] is the label for keys[i]. A tableswitch
// covers every key between the smallest and the largest; the holes jump to
// dflt.
func (s *CodeStream) Dispatch(keys []int64, targets []*BranchLabel, dflt *BranchLabel) int {
	pc := len(s.code)
	in := Instr{PC: pc, Op: DispatchKind(keys)}

	slots := []*BranchLabel{dflt}
	if in.Op == OpTableSwitch {
		byKey := make(map[int64]*BranchLabel, len(keys))
		for i, k := range keys {
			byKey[k] = targets[i]
		}
		for k := keys[0]; k <= keys[len(keys)-1]; k++ {
			in.Keys = append(in.Keys, k)
			if l := byKey[k]; l != nil {
				slots = append(slots, l)
			} else {
				slots = append(slots, dflt)
			}
		}
	} else {
		in.Keys = append(in.Keys, keys...)
		slots = append(slots, targets...)
	}

	in.Targets = make([]int, len(slots))
	s.code = append(s.code, in)
	for i, l := range slots {
		s.code[pc].Targets[i] = -1
		l.refer(pc, i)
	}
	return pc
}

// RecordPositionsFrom attributes the code emitted from pc onwards to line.
func (s *CodeStream) RecordPositionsFrom(pc, line int) {
	if line <= 0 {
		return
	}
	if n := len(s.lines); n > 0 && s.lines[n-1] == (LineEntry{PC: pc, Line: line}) {
		return
	}
	s.lines = append(s.lines, LineEntry{PC: pc, Line: line})
}

// DispatchKind selects the dispatch instruction for a set of sorted keys.
// A dense key range gets a jump table.
func DispatchKind(keys []int64) string {
	if len(keys) == 0 {
		return OpLookupSwitch
	}
	low, high := keys[0], keys[len(keys)-1]
	if float64(len(keys))*2.5 > float64(high-low) {
		return OpTableSwitch
	}
	return OpLookupSwitch
}

// BranchLabel is a branch target inside a CodeStream. Branches may refer to
// a label before it is placed; placing it patches them.
type BranchLabel struct {
	stream   *CodeStream
	position int
	forward  []ref
}

type ref struct {
	pc   int
	slot int
}

// NewLabel creates an unplaced label on s
func (s *CodeStream) NewLabel() *BranchLabel {
	return &BranchLabel{stream: s, position: -1}
}

// Position returns the placed position, or -1.
func (l *BranchLabel) Position() int {
	return l.position
}

// IsPlaced reports whether Place has been called
func (l *BranchLabel) IsPlaced() bool {
	return l.position >= 0
}

// Place binds l to the current stream position and patches every branch
// registered before. A label is placed at most once.
func (l *BranchLabel) Place() {
	if l.IsPlaced() {
		return
	}
	l.position = l.stream.Position()
	for _, r := range l.forward {
		l.stream.code[r.pc].Targets[r.slot] = l.position
	}
	l.forward = nil
}

func (l *BranchLabel) refer(pc, slot int) {
	if l.IsPlaced() {
		l.stream.code[pc].Targets[slot] = l.position
		return
	}
	l.forward = append(l.forward, ref{pc: pc, slot: slot})
}

// sortedKeys returns keys in ascending order without duplicates
func sortedKeys(keys []int64) []int64 {
	out := append([]int64(nil), keys...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, k := range out {
		if i > 0 && k == out[n-1] {
			continue
		}
		out[n] = k
		n++
	}
	return out[:n]
}
