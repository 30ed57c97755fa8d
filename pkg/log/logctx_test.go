package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты меняют slog.Default(), поэтому t.Parallel() не используется.

func newSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestFrom_DefaultWhenEmpty — без логгера в контексте возвращается slog.Default().
func TestFrom_DefaultWhenEmpty(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	require.Equal(t, def, From(context.Background()))
}

// TestIntoFrom_RoundTrip — Into/From возвращают тот же логгер, родитель не меняется.
func TestIntoFrom_RoundTrip(t *testing.T) {
	parentL := newSilent()
	childL := newSilent()

	parent := Into(context.Background(), parentL)
	child := Into(parent, childL)

	require.Equal(t, parentL, From(parent))
	require.Equal(t, childL, From(child))
}

// TestFrom_IgnoresForeignValues — «мусор» и *slog.Logger(nil) под ключом не ломают From.
func TestFrom_IgnoresForeignValues(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	require.Equal(t, def, From(context.WithValue(context.Background(), ctxKey{}, "not-a-logger")))

	var nilLogger *slog.Logger
	require.Equal(t, def, From(context.WithValue(context.Background(), ctxKey{}, nilLogger)))
}

// TestWith_AddsAttributes — атрибуты из With попадают в каждую запись.
func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := With(Into(context.Background(), base), "video_id", "v1")
	From(ctx).Info("page_loaded")

	require.Contains(t, buf.String(), "video_id=v1")
	require.Contains(t, buf.String(), "page_loaded")
}
