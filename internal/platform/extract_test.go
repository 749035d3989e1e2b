package platform

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestFirstMatchArrayShapes(t *testing.T) {
	extractors := []Extractor[[]any]{ArrayAt(), ArrayAt("quote", "raw"), ArrayAt("options")}

	tests := []struct {
		name    string
		payload string
		wantLen int
		wantOK  bool
	}{
		{"bare array", `[1,2,3]`, 3, true},
		{"nested quote raw", `{"quote":{"raw":[1]}}`, 1, true},
		{"options key", `{"options":[1,2]}`, 2, true},
		{"case-insensitive key", `{"Options":[1,2]}`, 2, true},
		{"raw is not an array", `{"quote":{"raw":"x"}}`, 0, false},
		{"unknown shape", `{"foo":[1]}`, 0, false},
		{"null", `null`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstMatch(decode(t, tt.payload), extractors...)
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestFieldsPriority(t *testing.T) {
	v := decode(t, `{"year": 2010, "modelo": 2015}`)
	got, ok := FirstMatch(v, Fields("modelo", "year")...)
	require.True(t, ok)
	assert.Equal(t, float64(2015), got)

	got, ok = FirstMatch(v, Fields("anio", "year")...)
	require.True(t, ok)
	assert.Equal(t, float64(2010), got)

	_, ok = FirstMatch(decode(t, `{"modelo": null}`), Fields("modelo")...)
	assert.False(t, ok, "null counts as absent")
}

func TestReportProgress(t *testing.T) {
	var msgs []string
	ctx := WithProgress(context.Background(), func(m string) { msgs = append(msgs, m) })
	ReportProgress(ctx, "page %d", 2)
	ReportProgress(context.Background(), "dropped")
	assert.Equal(t, []string{"page 2"}, msgs)
}

func TestStaticToken(t *testing.T) {
	_, err := StaticToken("").Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)

	tok, err := StaticToken("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}
