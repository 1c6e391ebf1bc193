// Package session manages conversation sessions: each session is one
// branch tree plus metadata, persisted in the store. A single active
// session pointer is kept in the store's config bucket, the way a VCS
// keeps HEAD.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/grove-cli/grove/internal/branch"
	"github.com/grove-cli/grove/internal/store"
)

// activeKey is the config-bucket key holding the active session id.
const activeKey = "active_session"

// ErrNoActiveSession is returned when no session has been created or
// selected yet.
var ErrNoActiveSession = errors.New("no active session")

// Session is the metadata record kept per conversation tree.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Manager provides session lifecycle operations on top of a store.
type Manager struct {
	db *store.DB
}

func NewManager(db *store.DB) *Manager {
	return &Manager{db: db}
}

// Create starts a new session with a fresh tree rooted in the given
// persona, persists it, and makes it active.
func (m *Manager) Create(title, model, persona string) (Session, *branch.Tree, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		Title:     title,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tree := branch.New(persona)

	if err := m.Save(sess, tree); err != nil {
		return Session{}, nil, err
	}
	if err := m.SetActive(sess.ID); err != nil {
		return Session{}, nil, err
	}
	return sess, tree, nil
}

// Save persists a session's metadata and tree state. The updated
// timestamp is refreshed.
func (m *Manager) Save(sess Session, tree *branch.Tree) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := m.db.PutMeta(sess.ID, data); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	if err := m.db.PutTree(sess.ID, tree.State()); err != nil {
		return fmt.Errorf("save tree %s: %w", sess.ID, err)
	}
	return nil
}

// Load retrieves a session and reconstructs its tree.
func (m *Manager) Load(id string) (Session, *branch.Tree, error) {
	data, err := m.db.GetMeta(id)
	if err != nil {
		return Session{}, nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	st, err := m.db.GetTree(id)
	if err != nil {
		return Session{}, nil, err
	}
	tree, err := branch.FromState(st)
	if err != nil {
		return Session{}, nil, fmt.Errorf("session %s: %w", id, err)
	}
	return sess, tree, nil
}

// LoadActive loads the currently active session.
func (m *Manager) LoadActive() (Session, *branch.Tree, error) {
	id, err := m.Active()
	if err != nil {
		return Session{}, nil, err
	}
	return m.Load(id)
}

// Active returns the active session id.
func (m *Manager) Active() (string, error) {
	id, err := m.db.GetConfig(activeKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNoActiveSession
	}
	return id, err
}

// SetActive marks the given session as active. The session must exist.
func (m *Manager) SetActive(id string) error {
	if _, err := m.db.GetMeta(id); err != nil {
		return err
	}
	return m.db.PutConfig(activeKey, id)
}

// List returns all sessions, most recently updated first.
func (m *Manager) List() ([]Session, error) {
	var out []Session
	err := m.db.ForEachMeta(func(id string, data []byte) error {
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return fmt.Errorf("decode session %s: %w", id, err)
		}
		out = append(out, sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Remove deletes a session and clears the active pointer if it pointed
// at the removed session.
func (m *Manager) Remove(id string) error {
	if _, err := m.db.GetMeta(id); err != nil {
		return err
	}
	if err := m.db.DeleteSession(id); err != nil {
		return err
	}
	if active, err := m.db.GetConfig(activeKey); err == nil && active == id {
		return m.db.RemoveConfig(activeKey)
	}
	return nil
}
