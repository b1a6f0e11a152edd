package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/diet-planner/internal/common"
)

type call struct {
	name string
	args []string
}

// fakeRunner answers tesseract with canned text and materializes pdftoppm output.
type fakeRunner struct {
	calls   []call
	text    string
	err     error
	stderr  string
	noImage bool
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.err != nil {
		return nil, []byte(f.stderr), f.err
	}
	if name == "pdftoppm" {
		if !f.noImage {
			prefix := args[len(args)-1]
			if err := os.WriteFile(prefix+".png", []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}
	return []byte(f.text), nil, nil
}

func TestRecognizeImage(t *testing.T) {
	r := &fakeRunner{text: "Patient  has\tdiabetes\r\n-----\n\n\n\nAvoid sugar  \n"}
	e := NewEngine(Config{TessdataDir: "/td", PSM: 6}, r, nil)

	txt, err := e.RecognizeImage(context.Background(), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, "Patient has diabetes\n\nAvoid sugar", txt)

	require.Len(t, r.calls, 1)
	assert.Equal(t, "tesseract", r.calls[0].name)
	assert.Equal(t, []string{"scan.png", "stdout", "-l", "eng", "--psm", "6", "--tessdata-dir", "/td"}, r.calls[0].args)
}

func TestRecognizePDFPage(t *testing.T) {
	r := &fakeRunner{text: "page three text"}
	e := NewEngine(Config{}, r, nil)

	txt, err := e.RecognizePDFPage(context.Background(), "report.pdf", 3)
	require.NoError(t, err)
	assert.Equal(t, "page three text", txt)

	require.Len(t, r.calls, 2)
	assert.Equal(t, "pdftoppm", r.calls[0].name)
	assert.Equal(t, []string{"-r", "300", "-f", "3", "-l", "3", "-singlefile", "-png", "report.pdf"}, r.calls[0].args[:9])
	assert.Equal(t, "tesseract", r.calls[1].name)
}

func TestRecognizePDFPageNoImage(t *testing.T) {
	r := &fakeRunner{noImage: true}
	e := NewEngine(Config{}, r, nil)

	_, err := e.RecognizePDFPage(context.Background(), "report.pdf", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image for page 1")
}

func TestMissingBinaryIsDependencyUnavailable(t *testing.T) {
	r := &fakeRunner{err: &exec.Error{Name: "tesseract", Err: exec.ErrNotFound}}
	e := NewEngine(Config{}, r, nil)

	_, err := e.RecognizeImage(context.Background(), "scan.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
}

func TestCommandFailureKeepsStderr(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1"), stderr: "Error opening data file"}
	e := NewEngine(Config{}, r, nil)

	_, err := e.RecognizeImage(context.Background(), "scan.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrDependencyUnavailable)
	assert.Contains(t, err.Error(), "Error opening data file")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  a  b  ", "a b"},
		{"one\r\ntwo\rthree", "one\ntwo\nthree"},
		{"p1\fp2", "p1\np2"},
		{"a\n\n\n\n\nb", "a\n\nb"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}
