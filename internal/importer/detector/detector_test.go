package detector

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	segs []Segment
}

func (s stubDetector) Detect(ctx context.Context, raster []byte) ([]Segment, error) {
	return s.segs, nil
}

func TestSegmentFinite(t *testing.T) {
	assert.True(t, Segment{X1: 1, Y1: 2, X2: 3, Y2: 4}.Finite())
	assert.False(t, Segment{X1: math.NaN()}.Finite())
	assert.False(t, Segment{Y2: math.Inf(1)}.Finite())
}

func TestLoad_WaitBlocksUntilInitialized(t *testing.T) {
	release := make(chan struct{})
	l := Load(context.Background(), func(ctx context.Context) (Detector, error) {
		<-release
		return stubDetector{}, nil
	})

	select {
	case <-l.Done():
		t.Fatal("loader finished before init returned")
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	_, err := l.Wait(ctx)
	cancel()
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	det, err := l.Wait(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, det)
}

func TestLoad_InitFailure(t *testing.T) {
	boom := errors.New("no opencv")
	l := Load(context.Background(), func(ctx context.Context) (Detector, error) {
		return nil, boom
	})

	_, err := l.Wait(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Contains(t, err.Error(), "no opencv")
}

func TestLoad_InitPanicIsReported(t *testing.T) {
	l := Load(context.Background(), func(ctx context.Context) (Detector, error) {
		panic("cgo exploded")
	})

	_, err := l.Wait(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Contains(t, err.Error(), "cgo exploded")
}

func TestLoad_NilDetectorIsNotReady(t *testing.T) {
	l := Load(context.Background(), func(ctx context.Context) (Detector, error) {
		return nil, nil
	})
	_, err := l.Wait(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestReady(t *testing.T) {
	det, err := Ready(stubDetector{}).Wait(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, det)

	_, err = Ready(nil).Wait(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}
