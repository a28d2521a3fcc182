// Package audio plays a sound when a toast appears.
// It uses the beep library to decode WAV, OGG and MP3 files, caches the
// decoded buffers and picks the file from the toast's type.
package audio
