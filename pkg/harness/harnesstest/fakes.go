// Package harnesstest provides in-memory sessions and providers for testing
// code that runs on top of the harness without launching a browser.
package harnesstest

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/uiharness/pkg/browser"
)

// PNG is a minimal valid PNG image written by FakeSession screenshots.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// FakeSession is a browser.Handle backed by memory.
type FakeSession struct {
	mu sync.Mutex

	CurrentURL    string
	ScreenshotErr error
	Screenshots   []string
}

var _ browser.Handle = (*FakeSession)(nil)

// Driver returns nil; fake sessions have no page.
func (s *FakeSession) Driver() playwright.Page {
	return nil
}

// URL returns CurrentURL.
func (s *FakeSession) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CurrentURL
}

// SaveScreenshot writes PNG to path unless ScreenshotErr is set.
func (s *FakeSession) SaveScreenshot(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ScreenshotErr != nil {
		return s.ScreenshotErr
	}
	if err := os.WriteFile(path, PNG, 0600); err != nil {
		return err
	}
	s.Screenshots = append(s.Screenshots, path)
	return nil
}

// FakeProvider hands out FakeSessions and counts acquisitions and releases per module.
type FakeProvider struct {
	mu sync.Mutex

	// AcquireErr, when set, fails every acquisition
	AcquireErr error
	// NewSession builds the session for a module; defaults to an empty FakeSession
	NewSession func(module string) *FakeSession

	Sessions  map[string]*FakeSession
	Acquired  map[string]int
	Released  map[string]int
	Shutdowns int
}

// NewFakeProvider creates an empty provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Sessions: make(map[string]*FakeSession),
		Acquired: make(map[string]int),
		Released: make(map[string]int),
	}
}

// Acquire returns a new FakeSession for module.
func (p *FakeProvider) Acquire(ctx context.Context, module string) (browser.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Acquired[module]++
	if p.AcquireErr != nil {
		return nil, p.AcquireErr
	}

	session := &FakeSession{CurrentURL: "about:blank"}
	if p.NewSession != nil {
		session = p.NewSession(module)
	}
	p.Sessions[module] = session
	return session, nil
}

// Release forgets the module's session.
func (p *FakeProvider) Release(module string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Released[module]++
	if _, ok := p.Sessions[module]; !ok {
		return errors.New("session not found")
	}
	delete(p.Sessions, module)
	return nil
}

// Shutdown counts the call; sessions still open are dropped.
func (p *FakeProvider) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Shutdowns++
	p.Sessions = make(map[string]*FakeSession)
	return nil
}
