// File: internal/infra/logging/logging_test.go
package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWith_AttachesContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithJobID(context.Background(), "01JD3")
	ctx = WithTgID(ctx, 42)

	With(ctx, &base).Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"job_id":"01JD3"`) {
		t.Fatalf("missing job_id field: %s", out)
	}
	if !strings.Contains(out, `"tg_id":42`) {
		t.Fatalf("missing tg_id field: %s", out)
	}
}

func TestWith_EmptyContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	With(context.Background(), &base).Info().Msg("plain")

	out := buf.String()
	if strings.Contains(out, "job_id") || strings.Contains(out, "tg_id") {
		t.Fatalf("unexpected context fields: %s", out)
	}
}

func TestTraceDuration(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	done := TraceDuration(&base, "ConvertUC.Convert")
	done()

	out := buf.String()
	if !strings.Contains(out, `"method":"ConvertUC.Convert"`) {
		t.Fatalf("missing method field: %s", out)
	}
	if !strings.Contains(out, `"message":"start"`) || !strings.Contains(out, `"message":"finish"`) {
		t.Fatalf("expected start and finish events: %s", out)
	}
	if !strings.Contains(out, "duration") {
		t.Fatalf("finish event should carry the duration: %s", out)
	}
}
