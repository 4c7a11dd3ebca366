package research

import (
	"testing"

	"offer-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		in   string
		want reconcile.Trigger
	}{
		{"", reconcile.TriggerManual},
		{"manual", reconcile.TriggerManual},
		{" CRON ", reconcile.TriggerCron},
	}
	for _, tt := range tests {
		got, err := ParseTrigger(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseTrigger("webhook")
	assert.ErrorIs(t, err, reconcile.ErrInvalidInput)
}

func TestClampBatchSize(t *testing.T) {
	cfg := Config{BatchSize: 10, MaxBatchSize: 50}
	assert.Equal(t, 10, cfg.ClampBatchSize(0))
	assert.Equal(t, 10, cfg.ClampBatchSize(-3))
	assert.Equal(t, 7, cfg.ClampBatchSize(7))
	assert.Equal(t, 50, cfg.ClampBatchSize(80))
	assert.Equal(t, 80, Config{BatchSize: 10}.ClampBatchSize(80))
}
