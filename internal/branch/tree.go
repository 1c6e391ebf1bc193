package branch

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// RootName is the name of the root branch every tree starts with.
const RootName = "main"

// ErrBranchNotFound is returned when an operation names a branch that
// is not in the tree. The tree is left unchanged.
var ErrBranchNotFound = errors.New("branch not found")

// MergeResult reports the outcome of a merge.
type MergeResult struct {
	Source      string
	Destination string
	Merged      int
	// Skipped is set when the current branch is the root and there is
	// no parent to merge into. That is a defined no-op, not an error.
	Skipped bool
}

// Tree owns all branches of one conversation and tracks which branch
// is current. A tree is driven by one logical caller; all operations
// take a single mutex so concurrent use stays serialized. No operation
// blocks on I/O while holding the lock.
type Tree struct {
	mu       sync.Mutex
	branches map[string]*Branch
	order    []string // creation order, for List
	current  string
}

// New creates a tree with a root branch named "main" holding the given
// persona as its initial system message.
func New(persona string) *Tree {
	root := &Branch{Name: RootName}
	root.Append(Message{Role: RoleSystem, Content: persona})

	return &Tree{
		branches: map[string]*Branch{RootName: root},
		order:    []string{RootName},
		current:  RootName,
	}
}

// Current returns the name of the current branch.
func (t *Tree) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// AppendUser appends a user message to the current branch.
func (t *Tree) AppendUser(content string) {
	t.append(Message{Role: RoleUser, Content: content})
}

// AppendAssistant appends an assistant message to the current branch.
func (t *Tree) AppendAssistant(content string) {
	t.append(Message{Role: RoleAssistant, Content: content})
}

func (t *Tree) append(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.branches[t.current].Append(m)
}

// Fork creates an isolated copy of the current branch, registers it,
// and makes it current. The child's name is the parent's name with the
// parent's fork counter appended: forking "main" yields "main1", a
// second fork of "main" yields "main2", forking "main1" yields
// "main11". Name length strictly increases down any lineage, so
// collisions should be impossible; the registry is still checked
// explicitly and the counter advanced past any taken name.
func (t *Tree) Fork() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.branches[t.current]

	count := p.ForkCount + 1
	newName := p.Name + strconv.Itoa(count)
	for i := 0; ; i++ {
		if _, taken := t.branches[newName]; !taken {
			break
		}
		if i >= len(t.branches) {
			return "", fmt.Errorf("fork %s: no free name after %s", p.Name, newName)
		}
		count++
		newName = p.Name + strconv.Itoa(count)
	}
	p.ForkCount = count

	child := p.isolatedCopy(newName)
	t.branches[newName] = child
	t.order = append(t.order, newName)
	t.current = newName
	return newName, nil
}

// Merge transfers the current branch's messages past the divergence
// point into its parent and makes the parent current. The divergence
// point is the longest structurally-equal common prefix of the two
// logs; everything after it in the source is appended to the
// destination as-is. If the destination diverged independently its own
// suffix is kept and the delta lands after it — no reconciliation is
// attempted. Merging the root is a reported skip, not an error.
func (t *Tree) Merge() MergeResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	src := t.branches[t.current]
	if src.Parent == "" {
		return MergeResult{Source: src.Name, Skipped: true}
	}
	return t.mergeInto(src, t.branches[src.Parent])
}

// MergeToMain merges the current branch directly into the root,
// skipping intermediate ancestors. Divergence is computed between the
// root's log and the current log directly.
func (t *Tree) MergeToMain() MergeResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	src := t.branches[t.current]
	if src.Parent == "" {
		return MergeResult{Source: src.Name, Skipped: true}
	}

	dst := src
	for dst.Parent != "" {
		dst = t.branches[dst.Parent]
	}
	return t.mergeInto(src, dst)
}

// mergeInto runs the blind-append merge. Caller holds the lock.
func (t *Tree) mergeInto(src, dst *Branch) MergeResult {
	i := commonPrefixLen(dst.log, src.log)
	delta := src.log[i:]
	for _, m := range delta {
		dst.Append(m)
	}
	t.current = dst.Name

	return MergeResult{
		Source:      src.Name,
		Destination: dst.Name,
		Merged:      len(delta),
	}
}

// SwitchToParent makes the current branch's parent current. At the
// root it is a no-op. No log is mutated.
func (t *Tree) SwitchToParent() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p := t.branches[t.current].Parent; p != "" {
		t.current = p
	}
}

// SwitchTo makes the named branch current. Unknown names return
// ErrBranchNotFound and leave the tree unchanged.
func (t *Tree) SwitchTo(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.branches[name]; !ok {
		return fmt.Errorf("switch to %q: %w", name, ErrBranchNotFound)
	}
	t.current = name
	return nil
}

// List returns all branch names in creation order.
func (t *Tree) List() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// ActiveMemory returns a snapshot of the current branch's log — the
// exact context to hand to a model transport.
func (t *Tree) ActiveMemory() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.branches[t.current].Snapshot()
}

// Log returns a snapshot of the named branch's log.
func (t *Tree) Log(name string) ([]Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.branches[name]
	if !ok {
		return nil, fmt.Errorf("log of %q: %w", name, ErrBranchNotFound)
	}
	return b.Snapshot(), nil
}

// Len returns the log length of the named branch.
func (t *Tree) Len(name string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.branches[name]
	if !ok {
		return 0, fmt.Errorf("len of %q: %w", name, ErrBranchNotFound)
	}
	return b.Len(), nil
}

// Parent returns the parent name of the named branch, empty for the
// root.
func (t *Tree) Parent(name string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.branches[name]
	if !ok {
		return "", fmt.Errorf("parent of %q: %w", name, ErrBranchNotFound)
	}
	return b.Parent, nil
}
