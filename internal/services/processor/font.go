package processor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unicode"

	"github.com/phambaophuc/image-watermark/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

const (
	sourceBundled = "bundled:goregular"
	sourceBasic   = "builtin:basicfont7x13"
)

// familyFiles maps font family names offered to users onto the file names
// those families ship as.
var familyFiles = map[string][]string{
	"SimHei":           {"simhei.ttf"},
	"SimSun":           {"simsun.ttc"},
	"Microsoft YaHei":  {"msyh.ttc", "msyh.ttf"},
	"KaiTi":            {"simkai.ttf"},
	"Arial":            {"arial.ttf", "Arial.ttf"},
	"Times New Roman":  {"times.ttf", "Times New Roman.ttf"},
	"Courier New":      {"cour.ttf", "Courier New.ttf"},
	"Comic Sans MS":    {"comic.ttf", "Comic Sans MS.ttf"},
	"Impact":           {"impact.ttf", "Impact.ttf"},
	"Verdana":          {"verdana.ttf", "Verdana.ttf"},
	"Georgia":          {"georgia.ttf", "Georgia.ttf"},
	"Tahoma":           {"tahoma.ttf", "Tahoma.ttf"},
	"Bradley Hand ITC": {"bradhitc.ttf"},
}

// cjkFallbacks are tried in order when the requested family is unavailable.
var cjkFallbacks = []string{
	"simhei.ttf",
	"simsun.ttc",
	"msyh.ttc",
	"msyh.ttf",
	"simkai.ttf",
	"NotoSansCJK-Regular.ttc",
	"NotoSansSC-Regular.otf",
	"wqy-microhei.ttc",
	"wqy-zenhei.ttc",
	"PingFang.ttc",
}

// DefaultFontDirs returns the system font directories for the running OS.
func DefaultFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		return []string{filepath.Join(windir, "Fonts")}
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts"}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts"}
	}
}

// ResolvedFont is the outcome of a font lookup. Degraded is set when only
// the fixed-size ASCII face could be provided.
type ResolvedFont struct {
	Face     font.Face
	Source   string
	Degraded bool

	font *opentype.Font
}

// MissingGlyphs returns the runes of text the font draws as a placeholder.
// Whitespace is ignored. The bitmap face covers ASCII only.
func (f ResolvedFont) MissingGlyphs(text string) []rune {
	var buf sfnt.Buffer
	var missing []rune
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if f.font == nil {
			if r > unicode.MaxASCII {
				missing = append(missing, r)
			}
			continue
		}
		if idx, err := f.font.GlyphIndex(&buf, r); err != nil || idx == 0 {
			missing = append(missing, r)
		}
	}
	return missing
}

// FontResolver turns a family name into a usable face. Lookups never fail:
// each step of the fallback chain is tried in order and the built-in
// bitmap face is the last resort. A resolver is safe for concurrent use.
type FontResolver struct {
	dirs    []string
	bundled bool
	logger  *zap.Logger

	indexOnce sync.Once
	index     map[string]string

	mu     sync.Mutex
	parsed map[string]*opentype.Font
}

type FontOption func(*FontResolver)

// WithFontDirs replaces the directories searched for font files.
func WithFontDirs(dirs ...string) FontOption {
	return func(r *FontResolver) {
		r.dirs = dirs
	}
}

// WithBundledFont toggles the embedded Go Regular face that sits between the
// system fonts and the bitmap fallback.
func WithBundledFont(enabled bool) FontOption {
	return func(r *FontResolver) {
		r.bundled = enabled
	}
}

func NewFontResolver(logger *zap.Logger, opts ...FontOption) *FontResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &FontResolver{
		dirs:    DefaultFontDirs(),
		bundled: true,
		logger:  logger,
		parsed:  make(map[string]*opentype.Font),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a face for family at size pixels.
func (r *FontResolver) Resolve(family string, size float64) ResolvedFont {
	family = strings.TrimSpace(family)

	if family != "" {
		rf, err := r.loadFamily(family, size)
		if err == nil {
			return rf
		}
		r.logger.Debug("Requested font family not loadable",
			zap.String("family", family), zap.Error(err))

		for _, name := range familyFiles[family] {
			if rf, err := r.loadByName(name, size); err == nil {
				return rf
			}
		}
	}

	for _, name := range cjkFallbacks {
		if rf, err := r.loadByName(name, size); err == nil {
			r.logger.Debug("Using fallback font",
				zap.String("family", family), zap.String("path", rf.Source))
			metrics.FontFallbacksTotal.WithLabelValues("system").Inc()
			return rf
		}
	}

	if r.bundled {
		rf, err := r.bundledFace(size)
		if err == nil {
			metrics.FontFallbacksTotal.WithLabelValues("bundled").Inc()
			return rf
		}
		r.logger.Warn("Bundled font failed to load", zap.Error(err))
	}

	r.logger.Warn("No scalable font available, using bitmap face",
		zap.String("family", family), zap.Error(ErrFontUnavailable))
	metrics.FontFallbacksTotal.WithLabelValues("bitmap").Inc()
	return ResolvedFont{Face: basicfont.Face7x13, Source: sourceBasic, Degraded: true}
}

// loadFamily treats family as a file path first, then as a file name or
// stem inside the font directories.
func (r *FontResolver) loadFamily(family string, size float64) (ResolvedFont, error) {
	if info, err := os.Stat(family); err == nil && !info.IsDir() {
		return r.faceFromFile(family, size)
	}

	candidates := []string{family}
	if filepath.Ext(family) == "" {
		for _, ext := range []string{".ttf", ".otf", ".ttc"} {
			candidates = append(candidates, family+ext)
		}
	}
	for _, name := range candidates {
		if rf, err := r.loadByName(name, size); err == nil {
			return rf, nil
		}
	}
	return ResolvedFont{}, fmt.Errorf("%w: %s", ErrFontUnavailable, family)
}

func (r *FontResolver) loadByName(name string, size float64) (ResolvedFont, error) {
	path, ok := r.lookup(name)
	if !ok {
		return ResolvedFont{}, fmt.Errorf("%w: %s not installed", ErrFontUnavailable, name)
	}
	return r.faceFromFile(path, size)
}

// lookup finds a font file by case-insensitive base name. The directory
// walk runs once per resolver.
func (r *FontResolver) lookup(name string) (string, bool) {
	r.indexOnce.Do(r.buildIndex)
	path, ok := r.index[strings.ToLower(name)]
	return path, ok
}

func (r *FontResolver) buildIndex() {
	r.index = make(map[string]string)
	for _, dir := range r.dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !isFontFile(path) {
				return nil
			}
			key := strings.ToLower(d.Name())
			if _, exists := r.index[key]; !exists {
				r.index[key] = path
			}
			return nil
		})
	}
	r.logger.Debug("Font index built", zap.Int("fonts", len(r.index)), zap.Strings("dirs", r.dirs))
}

func (r *FontResolver) faceFromFile(path string, size float64) (ResolvedFont, error) {
	f, err := r.parseFile(path)
	if err != nil {
		return ResolvedFont{}, err
	}
	face, err := newFace(f, size)
	if err != nil {
		return ResolvedFont{}, err
	}
	return ResolvedFont{Face: face, Source: path, font: f}, nil
}

func (r *FontResolver) parseFile(path string) (*opentype.Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.parsed[path]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}

	var f *opentype.Font
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing font collection %s: %w", path, err)
		}
		f, err = coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("reading first face of %s: %w", path, err)
		}
	default:
		f, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing font file %s: %w", path, err)
		}
	}

	r.parsed[path] = f
	return f, nil
}

func (r *FontResolver) bundledFace(size float64) (ResolvedFont, error) {
	r.mu.Lock()
	f, ok := r.parsed[sourceBundled]
	r.mu.Unlock()

	if !ok {
		var err error
		f, err = opentype.Parse(goregular.TTF)
		if err != nil {
			return ResolvedFont{}, fmt.Errorf("parsing bundled font: %w", err)
		}
		r.mu.Lock()
		r.parsed[sourceBundled] = f
		r.mu.Unlock()
	}
	face, err := newFace(f, size)
	if err != nil {
		return ResolvedFont{}, err
	}
	return ResolvedFont{Face: face, Source: sourceBundled, font: f}, nil
}

// newFace builds a face at 72 DPI so that size is expressed in pixels.
func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}
