package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/ledger"
	"github.com/andy/gemvoice/internal/render"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

// mock implementation
type mockBackend struct {
	docs     []*render.Document
	writeErr error
}

func (m *mockBackend) Write(doc *render.Document, w io.Writer) error {
	m.docs = append(m.docs, doc)
	if m.writeErr != nil {
		_, _ = w.Write([]byte("%PDF-partial"))
		return m.writeErr
	}
	_, err := w.Write([]byte("%PDF-fake"))
	return err
}

func loaderFor(b render.Backend, calls *int) BackendLoader {
	return func() (render.Backend, error) {
		*calls++
		return b, nil
	}
}

func exportableSnapshot(t *testing.T) domain.Snapshot {
	t.Helper()
	l := ledger.New(ledger.WithClock(func() time.Time { return fixedNow }))
	_, err := l.AddItem(domain.ItemInput{
		Description: "Sapphire",
		Pieces:      1,
		Carats:      decimal.RequireFromString("2.5"),
		Price:       decimal.RequireFromString("4000"),
	})
	require.NoError(t, err)
	l.SetToAddress(domain.Address{Name: "Buyer"})
	return l.Snapshot()
}

func newTestService(t *testing.T, b render.Backend, calls *int) ExportService {
	return NewExportService(zaptest.NewLogger(t),
		WithBackendLoader(loaderFor(b, calls)),
	)
}

func TestCheckExportable(t *testing.T) {
	svc := NewExportService(nil)

	err := svc.CheckExportable(domain.Snapshot{})
	assert.ErrorIs(t, err, domain.ErrExportPrecondition)

	l := ledger.New()
	_, _ = l.AddItem(domain.ItemInput{Description: "x", Pieces: 1, Carats: decimal.NewFromInt(1), Price: decimal.Zero})
	assert.ErrorIs(t, svc.CheckExportable(l.Snapshot()), domain.ErrExportPrecondition)

	assert.NoError(t, svc.CheckExportable(exportableSnapshot(t)))
}

func TestExportRefusedWithoutRecipient(t *testing.T) {
	calls := 0
	backend := &mockBackend{}
	svc := newTestService(t, backend, &calls)

	dir := t.TempDir()
	_, err := svc.Export(context.Background(), domain.Snapshot{}, filepath.Join(dir, "out.pdf"))

	assert.ErrorIs(t, err, domain.ErrExportPrecondition)
	assert.Empty(t, backend.docs)
	assert.Equal(t, 0, calls, "backend should not load for a refused export")
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestExportWritesFile(t *testing.T) {
	calls := 0
	backend := &mockBackend{}
	svc := newTestService(t, backend, &calls)

	target := filepath.Join(t.TempDir(), "out", "march.pdf")
	path, err := svc.Export(context.Background(), exportableSnapshot(t), target)
	require.NoError(t, err)
	assert.Equal(t, target, path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(data))

	require.Len(t, backend.docs, 1)
	assert.Equal(t, fixedNow, backend.docs[0].Issued)
}

func TestIssueDateIsSnapshotTime(t *testing.T) {
	calls := 0
	backend := &mockBackend{}
	svc := newTestService(t, backend, &calls)

	clock := fixedNow
	l := ledger.New(ledger.WithClock(func() time.Time { return clock }))
	_, err := l.AddItem(domain.ItemInput{Description: "Topaz", Pieces: 1, Carats: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	l.SetToAddress(domain.Address{Name: "Buyer"})
	snap := l.Snapshot()

	// the clock moving on after the snapshot does not change the date
	clock = fixedNow.AddDate(0, 0, 3)
	_, err = svc.Render(context.Background(), snap)
	require.NoError(t, err)

	require.Len(t, backend.docs, 1)
	assert.Equal(t, fixedNow, backend.docs[0].Issued)
	assert.Contains(t, backend.docs[0].Texts(), "Date: 16 October 2026")
}

func TestExportToDirectoryUsesDefaultName(t *testing.T) {
	calls := 0
	svc := newTestService(t, &mockBackend{}, &calls)

	dir := t.TempDir()
	path, err := svc.Export(context.Background(), exportableSnapshot(t), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFileName), path)
	assert.FileExists(t, path)
}

func TestBackendLoadedOnce(t *testing.T) {
	calls := 0
	svc := newTestService(t, &mockBackend{}, &calls)
	snap := exportableSnapshot(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Render(context.Background(), snap)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestBackendLoadFailureIsCached(t *testing.T) {
	calls := 0
	svc := NewExportService(zaptest.NewLogger(t), WithBackendLoader(func() (render.Backend, error) {
		calls++
		return nil, errors.New("missing code page")
	}))
	snap := exportableSnapshot(t)

	for i := 0; i < 2; i++ {
		_, err := svc.Render(context.Background(), snap)
		assert.ErrorIs(t, err, domain.ErrRenderFailure)
	}
	assert.Equal(t, 1, calls)
}

func TestRenderFailureLeavesNoFile(t *testing.T) {
	calls := 0
	backend := &mockBackend{writeErr: errors.New("boom")}
	svc := newTestService(t, backend, &calls)

	dir := t.TempDir()
	_, err := svc.Export(context.Background(), exportableSnapshot(t), filepath.Join(dir, "out.pdf"))
	assert.ErrorIs(t, err, domain.ErrRenderFailure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFailureIsRenderFailure(t *testing.T) {
	calls := 0
	svc := newTestService(t, &mockBackend{}, &calls)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := svc.Export(context.Background(), exportableSnapshot(t), filepath.Join(blocker, "out.pdf"))
	assert.ErrorIs(t, err, domain.ErrRenderFailure)
}

func TestExportHonoursCancelledContext(t *testing.T) {
	calls := 0
	svc := newTestService(t, &mockBackend{}, &calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Export(ctx, exportableSnapshot(t), filepath.Join(t.TempDir(), "out.pdf"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotIsIndependentOfLedger(t *testing.T) {
	calls := 0
	backend := &mockBackend{}
	svc := newTestService(t, backend, &calls)

	l := ledger.New()
	_, _ = l.AddItem(domain.ItemInput{Description: "Opal", Pieces: 1, Carats: decimal.NewFromInt(1), Price: decimal.NewFromInt(10)})
	l.SetToAddress(domain.Address{Name: "Buyer"})
	snap := l.Snapshot()

	l.Reset()

	_, err := svc.Render(context.Background(), snap)
	require.NoError(t, err)
	assert.Contains(t, backend.docs[0].Texts(), "Opal")
}

func TestRenderWithPDFBackendIsDeterministic(t *testing.T) {
	svc := NewExportService(zaptest.NewLogger(t))
	snap := exportableSnapshot(t)

	first, err := svc.Render(context.Background(), snap)
	require.NoError(t, err)
	second, err := svc.Render(context.Background(), snap)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(first, []byte("%PDF-")))
	assert.True(t, bytes.Equal(first, second))
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, DefaultFileName, ResolvePath(""))
	assert.Equal(t, filepath.Join(dir, DefaultFileName), ResolvePath(dir))
	assert.Equal(t, filepath.Join(dir, "a.pdf"), ResolvePath(filepath.Join(dir, "a.pdf")))
	assert.Equal(t, filepath.Join("missing", DefaultFileName), ResolvePath("missing"+string(os.PathSeparator)))
}

func TestLayoutReadOnEveryRender(t *testing.T) {
	calls := 0
	backend := &mockBackend{}
	title := "INVOICE"
	svc := NewExportService(zaptest.NewLogger(t),
		WithBackendLoader(loaderFor(backend, &calls)),
		WithLayout(func() render.Options {
			opts := render.DefaultOptions()
			opts.Title = title
			return opts
		}),
	)
	snap := exportableSnapshot(t)

	_, err := svc.Render(context.Background(), snap)
	require.NoError(t, err)
	title = "PROFORMA"
	_, err = svc.Render(context.Background(), snap)
	require.NoError(t, err)

	require.Len(t, backend.docs, 2)
	assert.Equal(t, "INVOICE", backend.docs[0].Title)
	assert.Equal(t, "PROFORMA", backend.docs[1].Title)
}
