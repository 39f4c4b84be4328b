package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordLLMCall(t *testing.T) {
	before := testutil.ToFloat64(LLMCallTotal.WithLabelValues("test", "m1", "error"))

	RecordLLMCall("test", "m1", 0.2, errors.New("boom"))
	RecordLLMCall("test", "m1", 0.1, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(LLMCallTotal.WithLabelValues("test", "m1", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(LLMCallTotal.WithLabelValues("test", "m1", "success")), 1.0)
}

func TestRecordTokens(t *testing.T) {
	RecordTokens("test", "m2", 10, 0)

	assert.Equal(t, 10.0, testutil.ToFloat64(LLMTokensUsed.WithLabelValues("test", "m2", "prompt")))
	assert.Equal(t, 0.0, testutil.ToFloat64(LLMTokensUsed.WithLabelValues("test", "m2", "completion")))
}

func TestRecordGeneration(t *testing.T) {
	before := testutil.ToFloat64(GenerationTotal.WithLabelValues("empty_content"))
	RecordGeneration("empty_content", 1.5)
	assert.Equal(t, before+1, testutil.ToFloat64(GenerationTotal.WithLabelValues("empty_content")))
}
