package model

import (
	"context"
	"sync"
	"time"
)

// HomeState is the load state of the home timeline.
type HomeState int

const (
	HomeIdle HomeState = iota
	HomeRefreshing
)

func (s HomeState) String() string {
	if s == HomeRefreshing {
		return "refreshing"
	}
	return "idle"
}

// HomeController drives loads of the home timeline: one at a time, after
// an optional delay, refresh or load-more depending on the pull-up flag.
type HomeController struct {
	list  *StatusListViewModel
	delay time.Duration

	mu       sync.Mutex
	state    HomeState
	isPullup bool
}

// NewHomeController creates a controller for list. delay is the pause before
// every load; zero disables it.
func NewHomeController(list *StatusListViewModel, delay time.Duration) *HomeController {
	if delay < 0 {
		delay = 0
	}
	return &HomeController{list: list, delay: delay}
}

// List returns the controlled list view model.
func (h *HomeController) List() *StatusListViewModel {
	return h.list
}

// State returns the current state.
func (h *HomeController) State() HomeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// BeginPullup makes the next load a load-more.
func (h *HomeController) BeginPullup() {
	h.mu.Lock()
	h.isPullup = true
	h.mu.Unlock()
}

// IsPullup reports whether the next load is a load-more.
func (h *HomeController) IsPullup() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.isPullup
}

// LoadData starts a load in the background and reports whether it did; a
// call while refreshing is ignored. done runs on the loading goroutine with
// the list's result unless ctx was cancelled first, in which case the list
// is left untouched. The pull-up flag is reset either way.
func (h *HomeController) LoadData(ctx context.Context, done func(ok, shouldRefresh bool)) bool {
	h.mu.Lock()
	if h.state == HomeRefreshing {
		h.mu.Unlock()
		return false
	}
	h.state = HomeRefreshing
	pullup := h.isPullup
	h.mu.Unlock()

	go func() {
		ok, should := h.load(ctx, pullup)

		h.mu.Lock()
		h.state = HomeIdle
		h.isPullup = false
		h.mu.Unlock()

		if ctx.Err() == nil && done != nil {
			done(ok, should)
		}
	}()
	return true
}

func (h *HomeController) load(ctx context.Context, pullup bool) (bool, bool) {
	if h.delay > 0 {
		t := time.NewTimer(h.delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return false, false
		}
	}
	return h.list.LoadStatus(ctx, pullup)
}
