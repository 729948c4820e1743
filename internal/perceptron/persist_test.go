package perceptron

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedUnit(t *testing.T) *LinearUnit {
	t.Helper()
	u, err := NewWithRand(6, 0.001, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	samples := [][]float64{{1, 0, 2, 0, 0, 1}, {0, 0, 0, 1, 0, 0}, {3, 1, 0, 0, 2, 0}}
	labels := []int{1, 0, 1}
	for epoch := 0; epoch < 20; epoch++ {
		for i, x := range samples {
			_, err := u.Train(x, labels[i])
			require.NoError(t, err)
		}
	}
	return u
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	u := trainedUnit(t)

	var buf bytes.Buffer
	require.NoError(t, u.Save(&buf))

	loaded, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, u.Weights(), loaded.Weights())
	assert.Equal(t, u.Bias(), loaded.Bias())
	assert.Equal(t, u.LearningRate(), loaded.LearningRate())
}

func TestSave_Format(t *testing.T) {
	u, err := FromParams([]float64{1, -0.25, 3.5}, 0.5, 0.1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, u.Save(&buf))

	assert.Equal(t, "3 0.1 0.5\n1 -0.25 3.5\n", buf.String())
}

func TestSaveFile_LoadFile(t *testing.T) {
	u := trainedUnit(t)
	path := filepath.Join(t.TempDir(), "models", "model.txt")

	require.NoError(t, u.SaveFile(path))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	other, err := FromParams([]float64{0}, 0, 0.5)
	require.NoError(t, err)
	require.NoError(t, other.LoadFile(path))

	assert.Equal(t, u.Weights(), other.Weights(), "load restores dimensionality and values")
	assert.Equal(t, u.Bias(), other.Bias())
	assert.Equal(t, u.LearningRate(), other.LearningRate())
}

func TestSaveFile_ConcurrentSavesToSamePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.txt")
	u := trainedUnit(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- u.SaveFile(path)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "model.txt", entries[0].Name())

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, u.Weights(), loaded.Weights())
}

func TestLoad_ReadsOriginalLayout(t *testing.T) {
	// Trailing separator after the last weight, as older writers produce.
	u, err := Read(strings.NewReader("2 0.001 -0.2\n0.3 0.4 \n"))
	require.NoError(t, err)

	assert.Equal(t, []float64{0.3, 0.4}, u.Weights())
	assert.Equal(t, -0.2, u.Bias())
	assert.Equal(t, 0.001, u.LearningRate())
}

func TestLoad_MalformedLeavesStateIntact(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short header", "2 0.1\n"},
		{"non-integer count", "two 0.1 0.5\n1 2\n"},
		{"negative count", "-1 0.1 0.5\n"},
		{"bad learning rate", "2 abc 0.5\n1 2\n"},
		{"zero learning rate", "2 0 0.5\n1 2\n"},
		{"bad bias", "2 0.1 x\n1 2\n"},
		{"truncated weights", "3 0.1 0.5\n1 2\n"},
		{"surplus weights", "1 0.1 0.5\n1 2\n"},
		{"non-numeric weight", "2 0.1 0.5\n1 oops\n"},
		{"non-finite weight", "2 0.1 0.5\n1 NaN\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := FromParams([]float64{7, 8}, 0.25, 0.3)
			require.NoError(t, err)

			err = u.Load(strings.NewReader(tt.input))
			require.Error(t, err)

			var le *LoadError
			assert.True(t, errors.As(err, &le), "expected *LoadError, got %T", err)

			assert.Equal(t, []float64{7, 8}, u.Weights())
			assert.Equal(t, 0.25, u.Bias())
			assert.Equal(t, 0.3, u.LearningRate())
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	u, err := FromParams([]float64{1}, 0, 0.1)
	require.NoError(t, err)

	err = u.LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.True(t, os.IsNotExist(ioErr.Err))
	assert.Equal(t, []float64{1}, u.Weights())
}

func TestSaveFile_UnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	u, err := FromParams([]float64{1}, 0, 0.1)
	require.NoError(t, err)

	// Parent "directory" is a regular file.
	err = u.SaveFile(filepath.Join(blocker, "model.txt"))
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
}

func TestLoadError_Message(t *testing.T) {
	err := &LoadError{Path: "model.txt", Reason: "bias", Err: errors.New("bad")}
	assert.Equal(t, "invalid model: model.txt: bias: bad", err.Error())
}
