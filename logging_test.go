package odbc

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNopLoggerDiscardsEverything(t *testing.T) {
	var l Logger = nopLogger{}
	l.Warn("should not panic", map[string]any{"k": "v"})
	l.Debug("should not panic", nil)
}

func TestZerologAdapterWarnWritesFields(t *testing.T) {
	var buf bytes.Buffer
	z := ZerologAdapter{Base: zerolog.New(&buf)}

	z.Warn("downgraded effective version", map[string]any{"requested": 3, "effective": 2})

	out := buf.String()
	assert.Contains(t, out, "downgraded effective version")
	assert.Contains(t, out, "\"requested\":3")
	assert.Contains(t, out, "\"effective\":2")
}

func TestZerologAdapterDebugWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	z := ZerologAdapter{Base: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	z.Debug("handle kept alive after failed free", map[string]any{"handle": "stmt"})

	assert.Contains(t, buf.String(), "handle kept alive after failed free")
}
