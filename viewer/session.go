package viewer

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/juruen/slideview/geometry"
	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/model"
	"github.com/juruen/slideview/pyramid"
)

type Options struct {
	ReferenceStrokeWidth float64
	// Notify receives fatal slide load errors for display. It must not call
	// back into the session.
	Notify func(err error)
}

// Session shows one slide at a time. Opening a new slide discards the
// previous one; a load that is overtaken by a newer Open is ignored.
type Session struct {
	fetcher   Fetcher
	viewer    Viewer
	overlay   Overlay
	selection *Selection
	opts      Options

	mu          sync.Mutex
	token       string
	slideID     string
	descriptor  *pyramid.Descriptor
	annotations []model.Annotation
	viewport    Viewport
	scaler      *StrokeScaler
	removeZoom  func()
	lastFrame   *Frame
	err         error

	unsubscribe func()
}

func NewSession(fetcher Fetcher, v Viewer, o Overlay, selection *Selection, opts Options) *Session {
	if opts.ReferenceStrokeWidth <= 0 {
		opts.ReferenceStrokeWidth = ReferenceStrokeWidth
	}
	if selection == nil {
		selection = NewSelection()
	}

	s := &Session{
		fetcher:   fetcher,
		viewer:    v,
		overlay:   o,
		selection: selection,
		opts:      opts,
	}
	s.unsubscribe = selection.Subscribe(s.onSelect)
	return s
}

func (s *Session) Selection() *Selection {
	return s.selection
}

// Open loads slideID and draws annotations over it.
func (s *Session) Open(ctx context.Context, slideID string, annotations []model.Annotation) error {
	if slideID == "" {
		return ErrNoSlide
	}

	token := uuid.New().String()

	s.mu.Lock()
	s.token = token
	s.teardown()
	s.slideID = slideID
	s.err = nil
	s.mu.Unlock()

	log.Info.Printf("opening slide %s (load %s)", slideID, token)
	record, err := s.fetcher.FetchSlide(ctx, slideID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != token {
		log.Trace.Printf("load %s of slide %s superseded", token, slideID)
		return ErrSuperseded
	}
	if err != nil {
		return s.fail(&FetchError{SlideID: slideID, Err: err})
	}

	d, err := pyramid.Parse(record)
	if err != nil {
		return s.fail(errors.Wrapf(err, "slide %s", slideID))
	}

	if err := s.viewer.Open(d.TileSource()); err != nil {
		return s.fail(errors.Wrapf(err, "failed to open slide %s", slideID))
	}

	n := geometry.NewNormalizer(d.BaseWidth, d.BaseHeight)
	s.overlay.Clear()
	s.overlay.Resize(n.Aspect())
	drawn := Draw(s.overlay, n, annotations, s.selection.Select)

	s.scaler = NewStrokeScaler(s.opts.ReferenceStrokeWidth, s.viewer.MinZoom(), s.overlay)
	s.removeZoom = s.viewer.OnZoom(s.scaler.HandleZoom)
	s.scaler.HandleZoom(s.viewer.Zoom())

	s.descriptor = d
	s.annotations = annotations
	s.viewport = s.viewer

	log.Info.Printf("slide %s open: %dx%d, %d levels, %d annotations drawn",
		slideID, d.BaseWidth, d.BaseHeight, d.LevelCount, drawn)
	return nil
}

// Close discards the current slide.
func (s *Session) Close() {
	s.mu.Lock()
	s.token = ""
	s.teardown()
	s.slideID = ""
	s.mu.Unlock()
}

// Detach closes the session and stops reacting to the selection.
func (s *Session) Detach() {
	s.Close()
	s.unsubscribe()
}

func (s *Session) SlideID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slideID
}

// Descriptor returns the open slide's descriptor, nil if none.
func (s *Session) Descriptor() *pyramid.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.descriptor
}

func (s *Session) Annotations() []model.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annotations
}

// Err returns the error of the last failed load.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// LastFrame returns the frame applied for the latest selection.
func (s *Session) LastFrame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFrame == nil {
		return Frame{}, false
	}
	return *s.lastFrame, true
}

func (s *Session) onSelect(a *model.Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a != nil && s.viewport != nil {
		f := FrameAnnotation(s.viewport, a)
		s.lastFrame = &f
		log.Trace.Printf("framed annotation at %.4f,%.4f zoom %.4f", f.Center.X, f.Center.Y, f.Zoom)
	}
	Highlight(s.overlay, a)
}

func (s *Session) fail(err error) error {
	s.teardown()
	s.err = err
	log.Error.Println(err)
	if s.opts.Notify != nil {
		s.opts.Notify(err)
	}
	return err
}

// teardown must be called with mu held
func (s *Session) teardown() {
	if s.removeZoom != nil {
		s.removeZoom()
		s.removeZoom = nil
	}
	s.viewer.Close()
	s.overlay.Clear()
	s.descriptor = nil
	s.annotations = nil
	s.viewport = nil
	s.scaler = nil
	s.lastFrame = nil
}
