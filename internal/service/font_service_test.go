package service

import (
	"context"
	"errors"
	"testing"

	"site-content-be/internal/dto"
	"site-content-be/internal/pkg/logger"
	"site-content-be/pkg/assets"
	"site-content-be/pkg/events"
	"site-content-be/pkg/fonts"
	pktNats "site-content-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fontFixture struct {
	svc      IFontService
	db       *memoryDB
	pipeline *fonts.Pipeline
	events   *recordingEvents
}

func newFontFixture() *fontFixture {
	resolver := assets.NewBaseURLResolver("https://cdn.example.com")
	f := &fontFixture{
		db:       newMemoryDB(),
		pipeline: fonts.NewPipeline(fonts.NewMemoryRegistry(), resolver),
		events:   &recordingEvents{},
	}
	f.svc = NewFontService(f.db, f.pipeline, resolver, f.events, logger.NewNopLogger())
	return f
}

func TestFontCreateInjectsAndAnnounces(t *testing.T) {
	ctx := context.Background()
	f := newFontFixture()

	res, err := f.svc.Create(ctx, &dto.CreateFontRequest{DisplayName: "Vazir", FileRef: "fonts/vazir.woff2"})
	require.NoError(t, err)
	assert.Equal(t, "Vazir", res.Family)
	assert.Equal(t, 400, res.Weight)
	assert.Equal(t, "normal", res.Style)
	assert.Equal(t, "https://cdn.example.com/fonts/vazir.woff2", res.Source)

	rules, err := f.pipeline.Rules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Vazir", rules[0].Family)
	assert.Equal(t, []string{events.FontsChanged}, f.events.types())

	css, err := f.svc.Stylesheet(ctx)
	require.NoError(t, err)
	assert.Contains(t, css, "https://cdn.example.com/fonts/vazir.woff2")

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFontCreateRejectsInvalidDescriptor(t *testing.T) {
	f := newFontFixture()

	_, err := f.svc.Create(context.Background(), &dto.CreateFontRequest{DisplayName: "Bad;Font", FileRef: "x.woff2"})
	var loadErr *fonts.FontLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "validate", loadErr.Op)
	assert.Empty(t, f.db.fonts)
	assert.Empty(t, f.events.types())
}

func TestFontDelete(t *testing.T) {
	ctx := context.Background()
	f := newFontFixture()

	res, err := f.svc.Create(ctx, &dto.CreateFontRequest{DisplayName: "Vazir", FileRef: "fonts/vazir.woff2"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, res.Id))
	rules, err := f.pipeline.Rules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)

	assert.ErrorIs(t, f.svc.Delete(ctx, uuid.New()), ErrFontNotFound)
}

func TestFontSyncKeepsRulesWhenStorageFails(t *testing.T) {
	ctx := context.Background()
	f := newFontFixture()

	_, err := f.svc.Create(ctx, &dto.CreateFontRequest{DisplayName: "Vazir", FileRef: "fonts/vazir.woff2"})
	require.NoError(t, err)

	f.db.findErr = errors.New("db down")
	assert.Error(t, f.svc.Sync(ctx))

	rules, err := f.pipeline.Rules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

type capturingSubscriber struct {
	eventType string
	durable   string
	handler   pktNats.EventHandler
}

func (c *capturingSubscriber) Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error {
	c.eventType = eventType
	c.durable = durableName
	c.handler = handler
	return nil
}

func TestFontSyncFollowsFontsChanged(t *testing.T) {
	ctx := context.Background()
	f := newFontFixture()
	sub := &capturingSubscriber{}

	sync := NewFontSyncService(sub, f.svc, "node-1", logger.NewNopLogger())
	require.NoError(t, sync.Start(ctx))
	assert.Equal(t, events.FontsChanged, sub.eventType)
	assert.Equal(t, "font-sync-node-1", sub.durable)

	// Another instance stored a font; this one only learns about it from the event.
	require.NoError(t, f.db.NewUnitOfWork(ctx).FontDescriptorRepository().Create(ctx, fontEntity("Inter")))
	rules, _ := f.pipeline.Rules(ctx)
	assert.Empty(t, rules)

	require.NoError(t, sub.handler(ctx, events.NewFontsChanged("created", timeNow())))
	rules, _ = f.pipeline.Rules(ctx)
	assert.Len(t, rules, 1)

	// Failures are acknowledged; the current rules stay.
	f.db.findErr = errors.New("db down")
	assert.NoError(t, sub.handler(ctx, events.NewFontsChanged("deleted", timeNow())))
	rules, _ = f.pipeline.Rules(ctx)
	assert.Len(t, rules, 1)
}

func TestFontSyncWithoutSubscriber(t *testing.T) {
	f := newFontFixture()
	sync := NewFontSyncService(nil, f.svc, "node-1", logger.NewNopLogger())
	assert.NoError(t, sync.Start(context.Background()))
}
