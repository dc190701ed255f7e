package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"site-content-be/internal/config"
	"site-content-be/internal/dto"
	"site-content-be/internal/pkg/logger"
	"site-content-be/internal/repository/memory"
	"site-content-be/pkg/editor"
	"site-content-be/pkg/lexical"

	"github.com/google/uuid"
)

// PreviewPublisher pushes rendered previews to the clients watching a session.
type PreviewPublisher interface {
	Publish(sessionID string, payload []byte)
}

type IEditorService interface {
	Open(ctx context.Context, userID string, req *dto.OpenSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	SetSelection(ctx context.Context, userID, sessionID string, req *dto.SetSelectionRequest) (*dto.SessionResponse, error)
	Execute(ctx context.Context, userID, sessionID string, req *dto.CommandRequest) (*dto.CommandResponse, error)
	Undo(ctx context.Context, userID, sessionID string) (*dto.CommandResponse, error)
	Redo(ctx context.Context, userID, sessionID string) (*dto.CommandResponse, error)
	Close(ctx context.Context, userID, sessionID string) error
	Preview(ctx context.Context, userID, sessionID string) (*dto.PreviewMessage, error)
}

type editorService struct {
	store    DocumentStore
	sessions *memory.EditorSessionRepository
	preview  PreviewPublisher
	assets   lexical.AssetResolver
	content  config.ContentConfig
	cfg      config.EditorConfig
	logger   logger.ILogger
}

// NewEditorService wires the editor service. preview may be nil.
func NewEditorService(
	store DocumentStore,
	sessions *memory.EditorSessionRepository,
	preview PreviewPublisher,
	assets lexical.AssetResolver,
	contentCfg config.ContentConfig,
	editorCfg config.EditorConfig,
	log logger.ILogger,
) IEditorService {
	return &editorService{
		store:    store,
		sessions: sessions,
		preview:  preview,
		assets:   assets,
		content:  contentCfg,
		cfg:      editorCfg,
		logger:   log,
	}
}

// Open starts a session on a stored document. A document that does not exist
// yet opens empty and is created by the first autosave.
func (s *editorService) Open(ctx context.Context, userID string, req *dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	key, err := resolveKey(s.content, req.Slug, req.Locale)
	if err != nil {
		return nil, err
	}

	doc := lexical.NewDocument()
	body, err := s.store.LoadDocument(ctx, key)
	switch {
	case errors.Is(err, ErrDocumentNotFound):
	case err != nil:
		return nil, err
	default:
		doc, err = lexical.ParseDocument(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
		}
	}

	es := &memory.EditorSession{
		Session:  editor.NewSession(uuid.New().String(), doc, editor.WithMaxHistory(s.cfg.MaxHistory)),
		Slug:     key.Slug,
		Locale:   key.Locale,
		OwnerID:  userID,
		OpenedAt: time.Now(),
	}
	s.sessions.Save(es)

	s.logger.Info("EditorService", "Session opened", map[string]interface{}{
		"session_id": es.Session.ID(), "slug": key.Slug, "locale": key.Locale, "user_id": userID,
	})
	return s.response(es.Session.Snapshot(), es)
}

func (s *editorService) get(userID, sessionID string) (*memory.EditorSession, error) {
	es, ok := s.sessions.Get(sessionID)
	if !ok || (es.OwnerID != "" && es.OwnerID != userID) {
		return nil, ErrSessionNotFound
	}
	return es, nil
}

func (s *editorService) Get(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	es, err := s.get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.response(es.Session.Snapshot(), es)
}

func (s *editorService) SetSelection(ctx context.Context, userID, sessionID string, req *dto.SetSelectionRequest) (*dto.SessionResponse, error) {
	es, err := s.get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := es.Session.SetSelection(req.Selection); err != nil {
		return nil, err
	}
	return s.response(es.Session.Snapshot(), es)
}

func (s *editorService) Execute(ctx context.Context, userID, sessionID string, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	es, err := s.get(userID, sessionID)
	if err != nil {
		return nil, err
	}

	cmd, err := BuildCommand(req)
	if err != nil {
		return nil, err
	}
	var changed bool
	if req.Selection != nil {
		changed, err = es.Session.ExecuteAt(cmd, *req.Selection)
	} else {
		changed, err = es.Session.Execute(cmd)
	}
	if err != nil {
		return nil, err
	}
	return s.afterCommand(ctx, es, changed)
}

func (s *editorService) Undo(ctx context.Context, userID, sessionID string) (*dto.CommandResponse, error) {
	es, err := s.get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.afterCommand(ctx, es, es.Session.Undo())
}

func (s *editorService) Redo(ctx context.Context, userID, sessionID string) (*dto.CommandResponse, error) {
	es, err := s.get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.afterCommand(ctx, es, es.Session.Redo())
}

func (s *editorService) Close(ctx context.Context, userID, sessionID string) error {
	if _, err := s.get(userID, sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	s.logger.Info("EditorService", "Session closed", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *editorService) Preview(ctx context.Context, userID, sessionID string) (*dto.PreviewMessage, error) {
	es, err := s.get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	snap := es.Session.Snapshot()
	return s.previewMessage(snap, es.Locale), nil
}

// afterCommand autosaves a changed document and pushes the new preview.
// A failed autosave leaves the session dirty.
func (s *editorService) afterCommand(ctx context.Context, es *memory.EditorSession, changed bool) (*dto.CommandResponse, error) {
	if changed {
		s.autosave(ctx, es)
	}

	snap := es.Session.Snapshot()
	if changed && s.preview != nil {
		if payload, err := json.Marshal(s.previewMessage(snap, es.Locale)); err == nil {
			s.preview.Publish(snap.ID, payload)
		}
	}

	res, err := s.response(snap, es)
	if err != nil {
		return nil, err
	}
	return &dto.CommandResponse{SessionResponse: *res, Changed: changed}, nil
}

func (s *editorService) autosave(ctx context.Context, es *memory.EditorSession) {
	snap := es.Session.Snapshot()
	details := map[string]interface{}{"session_id": snap.ID, "slug": es.Slug, "locale": es.Locale, "revision": snap.Revision}

	body, err := snap.Document.Serialize()
	if err != nil {
		s.logger.Error("EditorService", "Failed to serialize document", withError(details, err))
		return
	}
	key := dto.ContentKey{Slug: es.Slug, Locale: es.Locale}
	if err := s.store.SaveDocument(ctx, key, body); err != nil {
		s.logger.Warn("EditorService", "Autosave failed, session stays dirty", withError(details, err))
		return
	}
	es.Session.MarkSaved(snap.Revision)
}

func (s *editorService) render(doc lexical.Document, locale string) string {
	html, err := lexical.RenderHTML(NewRenderer(s.content, s.assets, locale).Render(doc))
	if err != nil {
		s.logger.Warn("EditorService", "Preview render failed", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return html
}

func (s *editorService) previewMessage(snap editor.Snapshot, locale string) *dto.PreviewMessage {
	return &dto.PreviewMessage{
		Type:      "preview",
		SessionId: snap.ID,
		Revision:  snap.Revision,
		State:     string(snap.State),
		HTML:      s.render(snap.Document, locale),
	}
}

func (s *editorService) response(snap editor.Snapshot, es *memory.EditorSession) (*dto.SessionResponse, error) {
	body, err := snap.Document.Serialize()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return &dto.SessionResponse{
		Id:        snap.ID,
		Slug:      es.Slug,
		Locale:    es.Locale,
		Document:  json.RawMessage(body),
		Selection: snap.Selection,
		State:     string(snap.State),
		Revision:  snap.Revision,
		CanUndo:   snap.CanUndo,
		CanRedo:   snap.CanRedo,
		Preview:   s.render(snap.Document, es.Locale),
	}, nil
}

// BuildCommand turns a request into an editor command. Argument problems
// surface as *editor.InvalidArgumentError.
func BuildCommand(req *dto.CommandRequest) (editor.Command, error) {
	switch req.Type {
	case editor.CommandToggleFormat:
		flag, ok := lexical.ParseFormat(req.Format)
		if !ok {
			return nil, &editor.InvalidArgumentError{Command: req.Type, Argument: "format", Reason: fmt.Sprintf("unknown format %q", req.Format)}
		}
		return editor.ToggleFormat{Flag: flag}, nil
	case editor.CommandTransformBlock:
		return editor.TransformBlock{Kind: lexical.Kind(req.Kind), Level: req.Level, Language: req.Language}, nil
	case editor.CommandInsertLink:
		return editor.InsertLink{URL: req.URL, Label: req.Label}, nil
	case editor.CommandInsertImage:
		return editor.InsertImage{Src: req.Src, AltText: req.AltText}, nil
	case editor.CommandInsertEmbed:
		return editor.InsertEmbed{URL: req.URL}, nil
	case editor.CommandInsertListItem:
		return editor.InsertListItem{Ordered: req.Ordered}, nil
	default:
		return nil, &editor.InvalidArgumentError{Command: req.Type, Argument: "type", Reason: "unknown command"}
	}
}
