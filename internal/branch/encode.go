package branch

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"lukechampine.com/blake3"
)

// stateVersion is the canonical encoding version for log digests.
const stateVersion = 1

// canonicalLogBytes returns a stable byte encoding of a message log.
//
// Format (version 1):
//
//	uvarint(1)               // version
//	uvarint(len(log))        // message count
//	repeat len(log):
//	  uvarint(len(role))     // role length
//	  bytes(role)
//	  uvarint(len(content))  // content length
//	  bytes(content)
func canonicalLogBytes(log []Message) []byte {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	putUvarint := func(v uint64) {
		n := binary.PutUvarint(tmp[:], v)
		buf.Write(tmp[:n])
	}

	putUvarint(stateVersion)
	putUvarint(uint64(len(log)))
	for _, m := range log {
		putUvarint(uint64(len(m.Role)))
		buf.WriteString(string(m.Role))
		putUvarint(uint64(len(m.Content)))
		buf.WriteString(m.Content)
	}
	return buf.Bytes()
}

// LogDigest returns the BLAKE3-256 digest of the named branch's log
// over its canonical encoding.
func (t *Tree) LogDigest(name string) ([32]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.branches[name]
	if !ok {
		return [32]byte{}, fmt.Errorf("digest of %q: %w", name, ErrBranchNotFound)
	}
	return blake3.Sum256(canonicalLogBytes(b.log)), nil
}

// BranchState is the serialized form of one branch. Together with
// TreeState it is the round-trip contract a persistence layer must
// honor: names, logs in order, parent linkage, fork counters.
type BranchState struct {
	Name      string    `json:"name"`
	Parent    string    `json:"parent,omitempty"`
	ForkCount int       `json:"fork_count"`
	Log       []Message `json:"log"`
}

// TreeState is the serialized form of a whole tree. Branches appear in
// creation order.
type TreeState struct {
	Current  string        `json:"current"`
	Branches []BranchState `json:"branches"`
}

// State captures the full tree as a value; mutating the tree afterward
// does not affect the returned state.
func (t *Tree) State() TreeState {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := TreeState{Current: t.current}
	for _, name := range t.order {
		b := t.branches[name]
		st.Branches = append(st.Branches, BranchState{
			Name:      b.Name,
			Parent:    b.Parent,
			ForkCount: b.ForkCount,
			Log:       b.Snapshot(),
		})
	}
	return st
}

// FromState reconstructs a tree from a serialized state. The state
// must describe a well-formed tree: a root branch, parents that exist,
// and a current branch that exists.
func FromState(st TreeState) (*Tree, error) {
	if len(st.Branches) == 0 {
		return nil, fmt.Errorf("restore tree: no branches")
	}

	t := &Tree{branches: make(map[string]*Branch, len(st.Branches))}
	for _, bs := range st.Branches {
		if _, dup := t.branches[bs.Name]; dup {
			return nil, fmt.Errorf("restore tree: duplicate branch %q", bs.Name)
		}
		log := make([]Message, len(bs.Log))
		copy(log, bs.Log)
		t.branches[bs.Name] = &Branch{
			Name:      bs.Name,
			Parent:    bs.Parent,
			ForkCount: bs.ForkCount,
			log:       log,
		}
		t.order = append(t.order, bs.Name)
	}

	// Every parent chain must reach a root in finite steps: parents
	// must exist, and the linkage must be acyclic.
	for _, b := range t.branches {
		cur := b
		for steps := 0; cur.Parent != ""; steps++ {
			if steps >= len(t.branches) {
				return nil, fmt.Errorf("restore tree: parent chain of %q never reaches a root", b.Name)
			}
			next, ok := t.branches[cur.Parent]
			if !ok {
				return nil, fmt.Errorf("restore tree: branch %q has unknown parent %q", cur.Name, cur.Parent)
			}
			cur = next
		}
	}
	if _, ok := t.branches[st.Current]; !ok {
		return nil, fmt.Errorf("restore tree: current branch %q not present", st.Current)
	}
	t.current = st.Current
	return t, nil
}
