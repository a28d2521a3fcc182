package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jmylchreest/uikit/internal/storage"
)

// StorageKey is the state file key holding the chosen theme.
const StorageKey = "theme"

// Built-in fallbacks chosen by the system preference.
const (
	Light = "light"
	Dark  = "dark"
)

// ErrUnknownTheme is returned by Set for names not in Themes.
var ErrUnknownTheme = errors.New("unknown theme")

// Themes lists every supported theme name.
var Themes = []string{
	"light", "dark", "cupcake", "bumblebee", "emerald", "corporate",
	"synthwave", "retro", "cyberpunk", "valentine", "halloween", "garden",
	"forest", "aqua", "lofi", "pastel", "fantasy", "wireframe", "black",
	"luxury", "dracula", "cmyk", "autumn", "business", "acid", "lemonade",
	"night", "coffee", "winter", "dim", "nord", "sunset", "caramellatte",
	"abyss", "silk",
}

// Valid reports whether name is a supported theme.
func Valid(name string) bool {
	return slices.Contains(Themes, name)
}

// Next returns the theme following name in Themes, wrapping around.
// Unknown names yield the first theme.
func Next(name string) string {
	i := slices.Index(Themes, name)
	return Themes[(i+1)%len(Themes)]
}

// PreferenceSource reports the desktop's colour scheme preference.
type PreferenceSource interface {
	PrefersDark(ctx context.Context) (bool, error)
}

// StaticPreference is a fixed preference, used headless and in tests.
type StaticPreference bool

// PrefersDark returns the fixed value.
func (p StaticPreference) PrefersDark(context.Context) (bool, error) {
	return bool(p), nil
}

// Service owns the current theme.
type Service struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	stored   *storage.Item[string]
	pref     PreferenceSource
	fallback string
	current  string
	hooks    []func(name string)
}

// NewService creates a theme service persisting to store. A nil pref
// means "prefers light".
func NewService(store storage.Store, pref PreferenceSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pref == nil {
		pref = StaticPreference(false)
	}
	return &Service{
		logger:  logger,
		stored:  storage.NewStringItem(store, StorageKey, logger),
		pref:    pref,
		current: Light,
	}
}

// SetFallback sets the theme used instead of the system preference when
// nothing is stored. An empty or unknown name restores the preference.
func (s *Service) SetFallback(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name != "" && !Valid(name) {
		s.logger.Warn("ignoring unknown fallback theme", "theme", name)
		name = ""
	}
	s.fallback = name
}

// OnApply registers fn to be called with the theme name whenever a theme
// is applied.
func (s *Service) OnApply(fn func(name string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Current returns the active theme.
func (s *Service) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load applies the stored theme, or the default when nothing valid is stored.
func (s *Service) Load(ctx context.Context) string {
	if saved, ok := s.stored.Get(); ok && Valid(saved) {
		s.apply(saved)
		return saved
	} else if ok {
		s.logger.Debug("ignoring unknown stored theme", "theme", saved)
	}

	name := s.defaultTheme(ctx)
	s.apply(name)
	return name
}

// Set applies and persists name. Unknown names leave the current theme
// untouched and return ErrUnknownTheme.
func (s *Service) Set(name string) error {
	if !Valid(name) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	s.apply(name)
	if err := s.stored.Set(name); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	return nil
}

// Reset forgets the stored theme and applies the default.
func (s *Service) Reset(ctx context.Context) error {
	err := s.stored.Remove()
	s.apply(s.defaultTheme(ctx))
	if err != nil {
		return fmt.Errorf("failed to clear stored theme: %w", err)
	}
	return nil
}

// defaultTheme resolves the configured fallback or the system preference.
func (s *Service) defaultTheme(ctx context.Context) string {
	s.mu.RLock()
	fallback := s.fallback
	s.mu.RUnlock()

	if fallback != "" {
		return fallback
	}

	dark, err := s.pref.PrefersDark(ctx)
	if err != nil {
		s.logger.Debug("colour scheme preference unavailable", "error", err)
		return Light
	}
	if dark {
		return Dark
	}
	return Light
}

func (s *Service) apply(name string) {
	s.mu.Lock()
	s.current = name
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	s.logger.Debug("theme applied", "theme", name)
	for _, fn := range hooks {
		fn(name)
	}
}
