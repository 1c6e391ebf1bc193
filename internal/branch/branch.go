package branch

// Branch holds one conversation's message history and its lineage.
// The log is append-only: entries are never reordered or deleted.
// Parent is the name of the branch this one was forked from, empty for
// the root. The name is a handle into the owning Tree's registry, not
// a pointer, so the tree stays the single owner and a serialized tree
// round-trips the linkage as plain strings.
type Branch struct {
	Name      string
	Parent    string
	ForkCount int

	log []Message
}

// Append adds a message to the end of the log. It never fails.
func (b *Branch) Append(m Message) {
	b.log = append(b.log, m)
}

// Len returns the number of messages in the log.
func (b *Branch) Len() int {
	return len(b.log)
}

// Snapshot returns a value copy of the full ordered log. Mutating the
// returned slice never affects the branch.
func (b *Branch) Snapshot() []Message {
	out := make([]Message, len(b.log))
	copy(out, b.log)
	return out
}

// isolatedCopy produces a new branch whose log is a value copy of this
// one. Subsequent appends on either side are never observable in the
// other; this is the isolation contract fork depends on.
func (b *Branch) isolatedCopy(newName string) *Branch {
	return &Branch{
		Name:   newName,
		Parent: b.Name,
		log:    b.Snapshot(),
	}
}

// commonPrefixLen returns the divergence index of two logs: the length
// of their longest structurally-equal common prefix.
func commonPrefixLen(a, b []Message) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if !a[i].Equal(b[i]) {
			return i
		}
	}
	return n
}
