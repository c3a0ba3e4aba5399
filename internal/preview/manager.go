package preview

import (
	"log/slog"
	"os"
	"sync"

	"quill/internal/logging"
	"quill/internal/media"
	"quill/internal/staging"
)

// State represents the lifecycle of a preview resource.
type State string

const (
	StatePending  State = "pending"
	StateReady    State = "ready"
	StateReleased State = "released"
)

// Membership is the narrow store surface the manager reads. It never mutates
// the store.
type Membership interface {
	Contains(category media.Category, id string) bool
}

// Snapshot is a point-in-time view of one preview resource.
type Snapshot struct {
	OwnerAttachmentID string
	Category          media.Category
	State             State
	Handle            string
	Width             int
	Height            int
}

type resource struct {
	owner    media.Attachment
	state    State
	artifact Artifact
	released bool
}

// Stats counts resources created and releases issued over the manager's life.
type Stats struct {
	Created  int
	Released int
}

// Manager owns preview resources for staged attachments. It implements
// attachments.Listener.
type Manager struct {
	mu        sync.Mutex
	store     Membership
	workspace *staging.Workspace
	generator Generator
	logger    *slog.Logger
	resources map[string]*resource
	wg        sync.WaitGroup
	closed    bool
	stats     Stats
}

// Option configures a Manager.
type Option func(*Manager)

// WithGenerator overrides the default file-based generator.
func WithGenerator(generator Generator) Option {
	return func(m *Manager) {
		if generator != nil {
			m.generator = generator
		}
	}
}

// NewManager builds a manager over the given store view and workspace.
func NewManager(store Membership, workspace *staging.Workspace, logger *slog.Logger, opts ...Option) *Manager {
	manager := &Manager{
		store:     store,
		workspace: workspace,
		generator: fileGenerator{},
		logger:    logging.NewComponentLogger(logger, "preview"),
		resources: make(map[string]*resource),
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

// AttachmentsAdded starts asynchronous preview generation for each new
// attachment. It never blocks on generation.
func (m *Manager) AttachmentsAdded(_ media.Category, items []media.Attachment) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	started := make([]media.Attachment, 0, len(items))
	for _, item := range items {
		if _, exists := m.resources[item.ID]; exists {
			continue
		}
		m.resources[item.ID] = &resource{owner: item, state: StatePending}
		m.stats.Created++
		started = append(started, item)
	}
	m.wg.Add(len(started))
	m.mu.Unlock()

	for _, item := range started {
		go m.generate(item)
	}
}

// AttachmentRemoved releases the attachment's preview resource.
func (m *Manager) AttachmentRemoved(_ media.Category, item media.Attachment) {
	m.Release(item.ID)
}

func (m *Manager) generate(item media.Attachment) {
	defer m.wg.Done()

	artifact, err := m.generator.Generate(item, m.workspace)

	m.mu.Lock()
	defer m.mu.Unlock()

	res := m.resources[item.ID]
	if res == nil {
		discardArtifact(artifact)
		return
	}
	if res.released {
		// Removed (or session closed) while generation was in flight: the
		// handle must never be exposed.
		discardArtifact(artifact)
		return
	}
	if err != nil {
		m.logger.Warn("preview generation failed",
			logging.Args(logging.String(logging.FieldAttachmentID, item.ID), logging.Error(err))...)
		m.releaseLocked(res)
		return
	}
	if !m.store.Contains(item.Category, item.ID) {
		// The race this component exists to close: completion after removal.
		discardArtifact(artifact)
		m.releaseLocked(res)
		return
	}
	res.artifact = artifact
	res.state = StateReady
	m.logger.Debug("preview ready",
		logging.Args(
			logging.String(logging.FieldAttachmentID, item.ID),
			logging.String(logging.FieldCategory, string(item.Category)),
		)...)
}

// Release releases the resource owned by the attachment id. Releasing an
// already-released (or unknown) resource is a no-op, not an error.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := m.resources[id]
	if res == nil || res.released {
		return
	}
	m.releaseLocked(res)
}

// releaseLocked transitions released false->true exactly once and discards
// any artifact already produced. Callers hold m.mu.
func (m *Manager) releaseLocked(res *resource) {
	discardArtifact(res.artifact)
	res.artifact = Artifact{}
	res.state = StateReleased
	res.released = true
	m.stats.Released++
}

func discardArtifact(artifact Artifact) {
	if artifact.Path != "" {
		_ = os.Remove(artifact.Path)
	}
}

// Snapshot returns the current view of the attachment's preview resource.
// The handle is only populated in state ready.
func (m *Manager) Snapshot(id string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := m.resources[id]
	if res == nil {
		return Snapshot{}, false
	}
	snapshot := Snapshot{
		OwnerAttachmentID: res.owner.ID,
		Category:          res.owner.Category,
		State:             res.state,
	}
	if res.state == StateReady {
		snapshot.Handle = res.artifact.Path
		snapshot.Width = res.artifact.Width
		snapshot.Height = res.artifact.Height
	}
	return snapshot, true
}

// Wait blocks until all in-flight generation goroutines complete.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close releases every live resource and waits for in-flight generation to
// observe the released state. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	for _, res := range m.resources {
		if !res.released {
			m.releaseLocked(res)
		}
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// Leaked returns attachment ids whose resources were never released. After
// Close the result must be empty; anything else is a defect.
func (m *Manager) Leaked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var leaked []string
	for id, res := range m.resources {
		if !res.released {
			leaked = append(leaked, id)
		}
	}
	return leaked
}

// Stats reports creation and release counts.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
