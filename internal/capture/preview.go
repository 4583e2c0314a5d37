package capture

// Surface renders either the live camera or a finished recording. A live
// preview is shown mirrored; playback never is.
type Surface interface {
	ShowLive(s *MediaSession, mirrored bool)
	ShowPlayback(b *Blob)
	Clear()
}

type noopSurface struct{}

func (noopSurface) ShowLive(*MediaSession, bool) {}
func (noopSurface) ShowPlayback(*Blob)           {}
func (noopSurface) Clear()                       {}

// NoopSurface discards every presentation call. Useful for headless runs.
func NoopSurface() Surface { return noopSurface{} }
