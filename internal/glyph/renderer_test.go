package glyph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/recognition"
)

var _ recognition.GlyphRenderer = (*Renderer)(nil)
var _ recognition.GlyphRenderer = Unavailable{}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := Parse(goregular.TTF)
	require.NoError(t, err)
	return r
}

func TestRender_Centered(t *testing.T) {
	r := newTestRenderer(t)

	img, err := r.Render("H", 64)
	require.NoError(t, err)
	require.NoError(t, img.Validate())
	assert.Equal(t, 64, img.Size)

	box := imaging.FindBoundingBox(img, imaging.DefaultBoxThreshold)
	cx, cy := box.Center()
	assert.InDelta(t, 31.5, cx, 2, "horizontal center of %+v", box)
	assert.InDelta(t, 31.5, cy, 2, "vertical center of %+v", box)
	assert.Greater(t, box.Height(), 25, "glyph should span most of the canvas")
	assert.Less(t, box.Height(), 52, "glyph should fit within 80%% of the canvas")
}

func TestRender_InkRange(t *testing.T) {
	r := newTestRenderer(t)

	img, err := r.Render("A", 48)
	require.NoError(t, err)

	var maxInk float64
	for _, v := range img.Pix {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
		if v > maxInk {
			maxInk = v
		}
	}
	assert.Equal(t, 1.0, maxInk, "stroke interiors should be fully inked")
	assert.Greater(t, imaging.Coverage(img, imaging.DefaultInkThreshold), 0.05)
	assert.Equal(t, 0.0, img.At(0, 0), "corner should be blank paper")
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t)

	a, err := r.Render("K", 64)
	require.NoError(t, err)
	b, err := r.Render("K", 64)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestRender_BoldIsHeavierThanSinglePass(t *testing.T) {
	r := newTestRenderer(t)

	img, err := r.Render("l", 64)
	require.NoError(t, err)

	// The stem of a lowercase l is a single vertical stroke, widened by one
	// pixel by the double pass.
	row := img.Size / 2
	inked := 0
	for x := 0; x < img.Size; x++ {
		if img.At(x, row) > 0.5 {
			inked++
		}
	}
	assert.GreaterOrEqual(t, inked, 4)
}

func TestRender_Errors(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name      string
		character string
		size      int
		wantErr   error
	}{
		{"empty", "", 64, ErrInvalidCharacter},
		{"two characters", "ab", 64, ErrInvalidCharacter},
		{"not in font", "漢", 64, ErrMissingGlyph},
		{"invalid utf8", "\xff", 64, ErrMissingGlyph},
		{"zero size", "H", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Render(tt.character, tt.size)
			require.Error(t, err)
			assert.Nil(t, img)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCovers(t *testing.T) {
	r := newTestRenderer(t)
	assert.True(t, r.Covers('H'))
	assert.False(t, r.Covers('漢'))
}

func TestUnavailable(t *testing.T) {
	img, err := Unavailable{}.Render("学", 64)
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrNoFont)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	_, err = r.Render("H", 32)
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/nonexistent/font.ttf")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestRecognizerWithFont(t *testing.T) {
	r := newTestRenderer(t)
	rec := recognition.New(r)

	user, err := r.Render("T", recognition.DefaultSize)
	require.NoError(t, err)

	res, err := rec.Recognize(user, "T", recognition.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, recognition.StageScored, res.Stage)

	ranked, err := rec.RankCandidates(user, []string{"O", "L", "T"}, recognition.DefaultSize)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "T", ranked[0].Character)
}
