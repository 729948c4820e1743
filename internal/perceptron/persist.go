package perceptron

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// record is a fully parsed and validated model snapshot.
type record struct {
	weights      []float64
	learningRate float64
	bias         float64
}

// Save writes the unit in the textual model format:
//
//	<weightCount> <learningRate> <bias>
//	<w0> <w1> ... <wN-1>
//
// Numbers use the shortest decimal form that parses back to the same float64.
func (u *LinearUnit) Save(w io.Writer) error {
	u.mu.RLock()
	defer u.mu.RUnlock()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %s %s\n", len(u.weights), formatFloat(u.learningRate), formatFloat(u.bias))
	for i, weight := range u.weights {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(formatFloat(weight))
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// SaveFile writes the model to path atomically, creating parent directories.
func (u *LinearUnit) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return newIOError(path, "write", err)
	}

	tmpPath := path + ".tmp-" + randomString(6)
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return newIOError(path, "write", err)
	}

	if err := u.Save(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return newIOError(path, "write", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return newIOError(path, "write", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return newIOError(path, "write", err)
	}
	return nil
}

func randomString(n int) string {
	letters := []rune("abcdefghijklmnopqrstuvwxyz0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// Load replaces the unit's parameters with the record read from r. The whole
// record is validated first; on any error the unit is left unchanged.
func (u *LinearUnit) Load(r io.Reader) error {
	rec, err := readRecord(r, "")
	if err != nil {
		return err
	}
	u.apply(rec)
	return nil
}

// LoadFile is Load reading from the file at path.
func (u *LinearUnit) LoadFile(path string) error {
	rec, err := readRecordFile(path)
	if err != nil {
		return err
	}
	u.apply(rec)
	return nil
}

// Read builds a new unit from a model record.
func Read(r io.Reader) (*LinearUnit, error) {
	rec, err := readRecord(r, "")
	if err != nil {
		return nil, err
	}
	u := &LinearUnit{}
	u.apply(rec)
	return u, nil
}

// ReadFile builds a new unit from the model file at path.
func ReadFile(path string) (*LinearUnit, error) {
	rec, err := readRecordFile(path)
	if err != nil {
		return nil, err
	}
	u := &LinearUnit{}
	u.apply(rec)
	return u, nil
}

func (u *LinearUnit) apply(rec *record) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.weights = rec.weights
	u.learningRate = rec.learningRate
	u.bias = rec.bias
}

func readRecordFile(path string) (*record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newIOError(path, "read", err)
	}
	defer f.Close()
	return readRecord(f, path)
}

func readRecord(r io.Reader, path string) (*record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newIOError(path, "read", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("header needs 3 fields, found %d", len(fields))}
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "weight count is not an integer", Err: err}
	}
	if n < 0 {
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("weight count %d is negative", n)}
	}

	lr, err := parseFloat(fields[1])
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "learning rate", Err: err}
	}
	if err := validateLearningRate(lr); err != nil {
		return nil, &LoadError{Path: path, Reason: "learning rate", Err: err}
	}

	bias, err := parseFloat(fields[2])
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "bias", Err: err}
	}

	values := fields[3:]
	switch {
	case len(values) < n:
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("truncated weight list: expected %d weights, found %d", n, len(values))}
	case len(values) > n:
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("weight count %d does not match %d listed weights", n, len(values))}
	}

	weights := make([]float64, n)
	for i, v := range values {
		weights[i], err = parseFloat(v)
		if err != nil {
			return nil, &LoadError{Path: path, Reason: fmt.Sprintf("weight %d", i), Err: err}
		}
	}

	return &record{weights: weights, learningRate: lr, bias: bias}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseFloat accepts finite decimal numbers only.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func newIOError(path, op string, err error) *IOError {
	e := &IOError{Path: path, Op: op, Err: err}
	if os.IsPermission(err) {
		e.Fix = permissionFix(path, op)
	}
	return e
}

// permissionFix returns a platform-specific fix command.
func permissionFix(path, op string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	}
	if op == "read" {
		return fmt.Sprintf("Run: chmod 644 %s", path)
	}
	return fmt.Sprintf("Run: chmod u+w %s", filepath.Dir(path))
}
