package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Schema:        loadTestSchema(t),
		Options:       DefaultOptions(),
		MaxConcurrent: 2,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresSchema(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	assert.Error(t, err)
}

func TestService_ValidateSheet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("failed sheet", func(t *testing.T) {
		res, err := svc.ValidateSheet(ctx, strings.NewReader(scenarioA()), nil)
		require.NoError(t, err)

		_, err = uuid.Parse(res.ID)
		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, res.Status)
		assert.Equal(t, "V1", res.Version)
		assert.Equal(t, []string{"Same sample id and sample names are not allowed, s4"}, res.Errors)
		assert.Equal(t, "1. Same sample id and sample names are not allowed, s4", res.Report)
	})

	t.Run("passing sheet has empty error list", func(t *testing.T) {
		raw := "[BCLConvert_Data]\nSample_ID,index\ns1,ACGT\n"
		res, err := svc.ValidateSheet(ctx, strings.NewReader(raw), nil)
		require.NoError(t, err)
		assert.Equal(t, StatusPass, res.Status)
		assert.Equal(t, "V2", res.Version)
		assert.NotNil(t, res.Errors)
		assert.Empty(t, res.Errors)
	})

	t.Run("schema override", func(t *testing.T) {
		strict, err := ParseSchema([]byte(`{
			"type": "array",
			"items": {
				"properties": {"Sample_ID": {"type": "string"}, "index": {"type": "string"}},
				"required": ["Sample_Project"]
			}
		}`))
		require.NoError(t, err)

		raw := "[Data]\nSample_ID,index\ns1,ACGT\n"
		res, err := svc.ValidateSheet(ctx, strings.NewReader(raw), strict)
		require.NoError(t, err)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "Sample_Project")
	})

	t.Run("no data section", func(t *testing.T) {
		_, err := svc.ValidateSheet(ctx, strings.NewReader("[Header]\nx,y\n"), nil)
		assert.ErrorIs(t, err, samplesheet.ErrNoDataSection)
		assert.Equal(t, "FILE002", MapError(err).Code)
	})

	t.Run("cancelled context", func(t *testing.T) {
		busy := newTestService(t)
		require.NoError(t, busy.limiter.Acquire(ctx))
		require.NoError(t, busy.limiter.Acquire(ctx))
		defer busy.limiter.Release()
		defer busy.limiter.Release()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := busy.ValidateSheet(cctx, strings.NewReader(scenarioA()), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	assert.Equal(t, 0, svc.LimiterStatus().Active)
}

func TestService_ReverseComplement(t *testing.T) {
	svc := newTestService(t)
	raw := "[Data]\nSample_ID,index,index2\ns1,AACC,TTGGCCAT\n"

	out, err := svc.ReverseComplement(context.Background(), strings.NewReader(raw), "")
	require.NoError(t, err)
	assert.Equal(t, "[Data]\nSample_ID,index,index2\ns1,AACC,ATGGCCAA\n", out)

	out, err = svc.ReverseComplement(context.Background(), strings.NewReader(raw), "index")
	require.NoError(t, err)
	assert.Equal(t, "[Data]\nSample_ID,index,index2\ns1,GGTT,TTGGCCAT\n", out)

	_, err = svc.ReverseComplement(context.Background(), strings.NewReader("no sections"), "")
	assert.ErrorIs(t, err, samplesheet.ErrNoDataSection)
	assert.Equal(t, 0, svc.LimiterStatus().Active)
}

func TestService_ConvertV1ToV2(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.ConvertV1ToV2(context.Background(), strings.NewReader(scenarioA()))
	require.NoError(t, err)

	doc, err := samplesheet.Parse(out, samplesheet.Options{})
	require.NoError(t, err)
	assert.Equal(t, samplesheet.V2, doc.Version)
	assert.Equal(t, samplesheet.DefaultV2Columns, doc.Header)
	assert.Len(t, doc.Records, 8)
}

func TestService_Timeout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved := ValidationTimeout
	ValidationTimeout = -time.Second
	t.Cleanup(func() { ValidationTimeout = saved })

	raw := "[Data]\nSample_ID,index,index2\ns1,AACC,TTGGCCAT\n"

	_, err := svc.ValidateSheet(ctx, strings.NewReader(raw), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "UPL003", MapError(err).Code)

	_, err = svc.ReverseComplement(ctx, strings.NewReader(raw), "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = svc.ConvertV1ToV2(ctx, strings.NewReader(raw))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, 0, svc.LimiterStatus().Active)
}

func TestService_WaitForValidations(t *testing.T) {
	svc := newTestService(t)
	assert.NoError(t, svc.WaitForValidations(context.Background()))
	assert.ElementsMatch(t, DefaultAllowedColumns, svc.AllowedColumns())
}
