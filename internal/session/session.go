package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"quill/internal/api"
	"quill/internal/attachments"
	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/media"
	"quill/internal/preview"
	"quill/internal/reconcile"
	"quill/internal/staging"
	"quill/internal/steps"
	"quill/internal/submission"
)

// Mode distinguishes composing a new post from editing an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ErrSubmitGated reports a Submit attempt before the step gate allows it.
var ErrSubmitGated = errors.New("submission not yet permitted")

// Session is one authoring flow from first field edit to submission or
// abandonment. Not safe for concurrent use.
type Session struct {
	id        string
	mode      Mode
	postID    int64
	fields    submission.Fields
	store     *attachments.Store
	previews  *preview.Manager
	registry  *reconcile.Registry
	gate      *steps.Gate
	workspace *staging.Workspace
	client    api.PostAPI
	logger    *slog.Logger
	closed    bool
}

// Options carries the session's collaborators.
type Options struct {
	Config     *config.Config
	Client     api.PostAPI
	Logger     *slog.Logger
	Generator  preview.Generator
	SessionID  string
	StagingDir string
}

func build(opts Options, mode Mode) (*Session, error) {
	if opts.Client == nil {
		return nil, errors.New("session requires an api client")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	stagingDir := opts.StagingDir
	var rules *media.Rules
	if opts.Config != nil {
		rules = opts.Config.Rules()
		if stagingDir == "" {
			stagingDir = opts.Config.Paths.StagingDir
		}
	}
	workspace, err := staging.NewWorkspace(stagingDir, id)
	if err != nil {
		return nil, fmt.Errorf("create staging workspace: %w", err)
	}

	store := attachments.NewStore(rules)
	var previewOpts []preview.Option
	if opts.Generator != nil {
		previewOpts = append(previewOpts, preview.WithGenerator(opts.Generator))
	}
	previews := preview.NewManager(store, workspace, logger, previewOpts...)
	store.Subscribe(previews)

	return &Session{
		id:        id,
		mode:      mode,
		store:     store,
		previews:  previews,
		gate:      steps.NewGate(),
		workspace: workspace,
		client:    opts.Client,
		logger:    logging.NewComponentLogger(logger, "session"),
	}, nil
}

// NewCreate starts a compose session for a new post.
func NewCreate(opts Options) (*Session, error) {
	session, err := build(opts, ModeCreate)
	if err != nil {
		return nil, err
	}
	session.logger.Info("compose session started",
		logging.Args(logging.String(logging.FieldSessionID, session.id))...)
	return session, nil
}

// NewEdit starts an edit session by loading the post. Authorization and
// not-found failures are returned unchanged so the caller can distinguish
// them.
func NewEdit(ctx context.Context, opts Options, postID int64) (*Session, error) {
	session, err := build(opts, ModeEdit)
	if err != nil {
		return nil, err
	}
	post, err := session.client.GetPost(ctx, postID)
	if err != nil {
		session.Close()
		return nil, err
	}
	session.postID = post.ID
	session.fields = submission.Fields{
		Title:      post.Title,
		Content:    post.Content,
		CategoryID: post.CategoryID,
		Link:       post.Link,
	}
	session.registry = reconcile.NewRegistry(post.PersistedMedia())
	session.recomputeBasics()
	session.logger.Info("edit session started",
		logging.Args(
			logging.String(logging.FieldSessionID, session.id),
			logging.Int64(logging.FieldPostID, post.ID),
		)...)
	return session, nil
}

// ID returns the session identifier used for staging paths and logs.
func (s *Session) ID() string { return s.id }

// Mode reports whether the session composes or edits.
func (s *Session) Mode() Mode { return s.mode }

// PostID returns the post being edited, zero in create mode.
func (s *Session) PostID() int64 { return s.postID }

// Fields returns the current form field values.
func (s *Session) Fields() submission.Fields { return s.fields }

// Store exposes the attachment store for read access.
func (s *Session) Store() *attachments.Store { return s.store }

// Previews exposes the preview manager for read access.
func (s *Session) Previews() *preview.Manager { return s.previews }

// Registry returns the persisted-media registry, nil in create mode.
func (s *Session) Registry() *reconcile.Registry { return s.registry }

// Gate exposes the wizard step gate.
func (s *Session) Gate() *steps.Gate { return s.gate }

// SetTitle updates the title and recomputes step completion.
func (s *Session) SetTitle(title string) {
	s.fields.Title = title
	s.recomputeBasics()
}

// SetContent updates the body and recomputes step completion.
func (s *Session) SetContent(content string) {
	s.fields.Content = content
	s.recomputeBasics()
}

// SetCategoryID updates the category selection and recomputes step
// completion.
func (s *Session) SetCategoryID(id int64) {
	s.fields.CategoryID = id
	s.recomputeBasics()
}

// SetLink updates the optional link field.
func (s *Session) SetLink(link string) {
	s.fields.Link = link
}

func (s *Session) recomputeBasics() {
	s.gate.SetCompletion(steps.StepBasics, s.fields.Complete())
}

// Attach admits the files at the given paths into the category. Valid files
// are staged; the returned decision carries the rejected remainder for an
// aggregate notice. Preview generation starts in the background.
func (s *Session) Attach(category media.Category, paths []string) (media.Decision, error) {
	candidates := make([]media.Candidate, 0, len(paths))
	for _, path := range paths {
		candidate, err := media.DescribeFile(path)
		if err != nil {
			return media.Decision{}, fmt.Errorf("describe %s: %w", path, err)
		}
		candidates = append(candidates, candidate)
	}

	rules := s.store.Rules()
	decision := rules.Admit(category, candidates, s.store.Count(category))
	if len(decision.Admitted) > 0 {
		staged := make([]media.Attachment, 0, len(decision.Admitted))
		for _, candidate := range decision.Admitted {
			staged = append(staged, media.NewAttachment(category, candidate))
		}
		if err := s.store.Add(category, staged); err != nil {
			return media.Decision{}, err
		}
	}
	return decision, nil
}

// Detach removes one staged attachment; its preview resource is released
// through the store notification.
func (s *Session) Detach(category media.Category, id string) (media.Attachment, error) {
	return s.store.Remove(category, id)
}

// Tombstone marks a persisted media record for deletion. Only valid in edit
// mode; unknown ids and repeats are silent no-ops.
func (s *Session) Tombstone(kind reconcile.Kind, id int64) (bool, error) {
	if s.registry == nil {
		return false, fmt.Errorf("tombstone persisted media: session is in %s mode", s.mode)
	}
	return s.registry.Tombstone(kind, id), nil
}

// Confirm records the explicit review confirmation that unlocks submission.
func (s *Session) Confirm() {
	s.gate.SetCompletion(steps.StepReview, true)
}

// Submit assembles the payload and sends it. On failure the session state is
// untouched, so a transient failure can be retried without re-staging
// anything. Success does not close the session; the caller decides when
// resources go away.
func (s *Session) Submit(ctx context.Context) (*api.SubmitResult, error) {
	if !s.gate.CanSubmit() {
		return nil, fmt.Errorf("%w: complete the required fields and confirm the review step", ErrSubmitGated)
	}
	payload, err := submission.Assemble(s.fields, s.store, s.registry)
	if err != nil {
		return nil, err
	}

	var result *api.SubmitResult
	if s.mode == ModeEdit {
		result, err = s.client.UpdatePost(ctx, s.postID, payload)
	} else {
		result, err = s.client.CreatePost(ctx, payload)
	}
	if err != nil {
		s.logger.Warn("submission failed",
			logging.Args(logging.String(logging.FieldSessionID, s.id), logging.Error(err))...)
		return nil, err
	}
	s.logger.Info("submission accepted",
		logging.Args(
			logging.String(logging.FieldSessionID, s.id),
			logging.Int64(logging.FieldPostID, result.PostID),
		)...)
	return result, nil
}

// Close releases every preview resource and removes the staging workspace.
// Safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.previews.Close()
	if leaked := s.previews.Leaked(); len(leaked) > 0 {
		s.logger.Error("preview resources leaked",
			logging.Args(logging.String(logging.FieldSessionID, s.id), logging.Any("ids", leaked))...)
	}
	if err := s.workspace.Remove(); err != nil {
		s.logger.Warn("remove staging workspace",
			logging.Args(logging.String(logging.FieldSessionID, s.id), logging.Error(err))...)
	}
}
