package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for files beep cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Output receives decoded sounds. The default sends them to the system
// speaker.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Close()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error { return speaker.Init(sr, bufferSize) }
func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Close() { speaker.Close() }

// Player decodes sound files once and plays them from memory.
type Player struct {
	mu          sync.Mutex
	logger      *slog.Logger
	out         Output
	volume      float64 // 0.0 to 1.0
	initialized bool
	sampleRate  beep.SampleRate

	cacheMu sync.RWMutex
	cache   map[string]*beep.Buffer
}

// NewPlayer creates a player that writes to the system speaker.
func NewPlayer(logger *slog.Logger) *Player {
	return NewPlayerWithOutput(speakerOutput{}, logger)
}

// NewPlayerWithOutput creates a player that writes to out.
func NewPlayerWithOutput(out Output, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger:     logger,
		out:        out,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
		cache:      make(map[string]*beep.Buffer),
	}
}

// SetVolume sets the playback volume, clamped to 0.0..1.0.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = max(0, min(1, volume))
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play plays a sound file, decoding it first if it is not cached.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}
	buffer, err := p.buffer(path)
	if err != nil {
		return err
	}
	p.playBuffer(buffer)
	return nil
}

// Preload decodes a sound file into the cache.
func (p *Player) Preload(path string) error {
	if path == "" {
		return nil
	}
	_, err := p.buffer(path)
	return err
}

// Cached reports whether path has a decoded buffer.
func (p *Player) Cached(path string) bool {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	_, ok := p.cache[path]
	return ok
}

// Invalidate drops path from the cache so the next Play re-reads it.
func (p *Player) Invalidate(path string) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	delete(p.cache, path)
}

// ClearCache drops every decoded buffer.
func (p *Player) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	p.cache = make(map[string]*beep.Buffer)
}

// Close stops playback and releases the output.
func (p *Player) Close() {
	p.mu.Lock()
	if p.initialized {
		p.out.Close()
		p.initialized = false
	}
	p.mu.Unlock()

	p.ClearCache()
}

func (p *Player) buffer(path string) (*beep.Buffer, error) {
	p.cacheMu.RLock()
	cached, ok := p.cache[path]
	p.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	buffer, err := p.decode(path)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[path] = buffer
	p.cacheMu.Unlock()

	p.logger.Debug("decoded sound", "path", path, "samples", buffer.Len())
	return buffer, nil
}

// decode reads a whole file into a buffer.
func (p *Player) decode(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = streamer.Close() }()

	if err := p.ensureInitialized(format.SampleRate); err != nil {
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// ensureInitialized opens the output at the first decoded file's rate.
// Later files are resampled to it.
func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := p.out.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

func (p *Player) playBuffer(buffer *beep.Buffer) {
	p.mu.Lock()
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())
	if rate := buffer.Format().SampleRate; rate != sampleRate {
		streamer = beep.Resample(4, rate, sampleRate, streamer)
	}
	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToGain(volume),
			Silent:   volume == 0,
		}
	}
	p.out.Play(streamer)
}

// volumeToGain converts a linear 0..1 volume to the base-2 exponent
// effects.Volume expects, so 0.5 halves the amplitude.
func volumeToGain(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log2(volume)
}
