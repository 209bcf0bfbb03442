package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/tui/client"
	"github.com/matheus3301/weibo/internal/tui/keys"
	"github.com/matheus3301/weibo/internal/tui/model"
	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/matheus3301/weibo/internal/tui/views"
	"github.com/rivo/tview"
)

// Page names, also shown in the breadcrumbs.
const (
	pageHome    = "home"
	pageStatus  = "status"
	pagePhotos  = "photos"
	pageLinks   = "links"
	pageCompose = "compose"
	pageAuth    = "auth"
	pageHelp    = "help"
)

const (
	cachedSeed     = 200
	tickInterval   = 5 * time.Second
	watchRetryWait = 2 * time.Second
)

type page struct {
	comp  ui.Component
	view  tview.Primitive
	focus tview.Primitive
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	pages    *ui.Pages
	main     *tview.Flex
	vm       *model.ViewModel
	home     *model.HomeController
	registry *keys.Registry
	flash    *ui.FlashModel

	sessionInfo *ui.SessionInfo
	menu        *ui.Menu
	logo        *ui.Logo
	crumbs      *ui.Crumbs
	flashBar    *ui.FlashBar
	prompt      *ui.Prompt
	statusBar   *views.StatusBar

	homeView   *views.HomeView
	statusInfo *views.StatusInfo
	photos     *views.PhotoBrowser
	links      *views.LinkList
	composer   *views.Composer
	authView   *views.AuthView
	help       *views.HelpView

	byName      map[string]page
	current     string
	promptOn    bool
	sessionName string
	openURL     func(url string) error

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application. delay is the pause before every
// timeline load.
func NewApp(c *client.Client, sessionName string, delay time.Duration) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()
	vm := model.NewViewModel(c)
	list := model.NewStatusListViewModel(vm)

	a := &App{
		app:         tview.NewApplication(),
		theme:       theme,
		pages:       ui.NewPages(),
		vm:          vm,
		home:        model.NewHomeController(list, delay),
		registry:    keys.NewRegistry(),
		flash:       ui.NewFlashModel(),
		sessionInfo: ui.NewSessionInfo(theme),
		menu:        ui.NewMenu(theme),
		logo:        ui.NewLogo(theme),
		crumbs:      ui.NewCrumbs(theme),
		flashBar:    ui.NewFlashBar(theme),
		prompt:      ui.NewPrompt(theme),
		statusBar:   views.NewStatusBar(theme),
		homeView:    views.NewHomeView(theme, list),
		statusInfo:  views.NewStatusInfo(theme),
		photos:      views.NewPhotoBrowser(theme),
		links:       views.NewLinkList(theme),
		composer:    views.NewComposer(theme),
		authView:    views.NewAuthView(theme),
		help:        views.NewHelpView(theme),
		sessionName: sessionName,
		openURL:     openBrowser,
		ctx:         ctx,
		cancel:      cancel,
	}

	a.statusBar.SetSession(sessionName)
	a.crumbs.SetRoot(sessionName)
	a.setupPages()
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupPages() {
	a.byName = map[string]page{
		pageHome:    {comp: a.homeView, view: a.homeView, focus: a.homeView},
		pageStatus:  {comp: a.statusInfo, view: a.statusInfo, focus: a.statusInfo},
		pagePhotos:  {comp: a.photos, view: a.photos, focus: a.photos},
		pageLinks:   {comp: a.links, view: a.links, focus: a.links},
		pageCompose: {comp: a.composer, view: a.composer, focus: a.composer.TextArea()},
		pageAuth:    {comp: a.authView, view: a.authView, focus: a.authView.Input()},
		pageHelp:    {comp: a.help, view: a.help, focus: a.help},
	}
	for name, p := range a.byName {
		p.comp.Init()
		a.pages.AddPage(name, p.view, true, false)
	}
	a.pages.SetOnChange(a.onPageChange)
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:Quit", Visible: true,
		Handler: a.Stop,
	})
	a.registry.AddGlobal("help", &keys.Action{
		Rune: '?', Key: tcell.KeyRune,
		Description: "?:Help", Visible: true,
		Handler: func() { a.pages.Push(pageHelp) },
	})
	a.registry.AddGlobal("command", &keys.Action{
		Rune: ':', Key: tcell.KeyRune,
		Description: "::Command", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand) },
	})
	a.registry.AddGlobal("filter", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Description: "/:Filter", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptFilter) },
	})

	a.registry.AddView(pageHome, "refresh", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Handler: func() { a.load(false) },
	})
	a.registry.AddView(pageHome, "more", &keys.Action{
		Rune: 'l', Key: tcell.KeyRune, Alt: []tcell.Key{tcell.KeyEnd},
		Handler: func() { a.load(true) },
	})
	a.registry.AddView(pageHome, "compose", &keys.Action{
		Rune: 'c', Key: tcell.KeyRune,
		Handler: a.showCompose,
	})
	a.registry.AddView(pageHome, "title", &keys.Action{
		Rune: 't', Key: tcell.KeyRune,
		Handler: a.homeView.ToggleTitle,
	})
	for _, view := range []string{pageHome, pageStatus} {
		a.registry.AddView(view, "photos", &keys.Action{
			Rune: 'p', Key: tcell.KeyRune,
			Handler: a.showPhotos,
		})
		a.registry.AddView(view, "links", &keys.Action{
			Rune: 'o', Key: tcell.KeyRune,
			Handler: a.showLinks,
		})
	}
}

func (a *App) setupCallbacks() {
	a.homeView.SetOnSelect(func(vm *model.StatusViewModel) {
		a.statusInfo.Update(vm)
		a.pages.Push(pageStatus)
	})
	a.homeView.SetOnLast(func() {
		if a.home.List().Len() > 0 {
			a.load(true)
		}
	})

	a.photos.SetOnOpen(a.open)
	a.links.SetOnOpen(a.open)

	a.composer.SetFocusFunc(func(p tview.Primitive) { a.app.SetFocus(p) })
	a.composer.SetOnSend(func(text, imagePath string) {
		a.pages.Pop()
		go a.post(text, imagePath)
	})

	a.authView.SetOnCode(func(code string) {
		a.authView.ShowMessage("Signing in...")
		go a.exchange(code)
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptFilter {
			a.pages.PopTo(pageHome)
			a.homeView.SetFilter(strings.TrimSpace(text))
			return
		}
		a.runCommand(ParseCommand(text))
	})
	a.prompt.SetOnCancel(a.hidePrompt)
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.sessionInfo, 40, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 16, 0, false)

	a.main = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(a.main, true)
	a.pages.Reset(pageHome)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}

		if a.promptOn {
			return event
		}

		// Text widgets get every key. Esc leaves the composer and the auth
		// page.
		switch a.app.GetFocus().(type) {
		case *tview.InputField, *tview.TextArea:
			if event.Key() == tcell.KeyEscape {
				a.back()
				return nil
			}
			return event
		}

		if event.Key() == tcell.KeyEscape {
			a.back()
			return nil
		}

		if a.registry.HandleEvent(a.pages.Current(), event) {
			return nil
		}
		return event
	})
}

func (a *App) onPageChange(stack []string) {
	a.crumbs.Update(stack)
	if len(stack) == 0 {
		return
	}
	top := stack[len(stack)-1]
	if prev, ok := a.byName[a.current]; ok && a.current != top {
		prev.comp.Stop()
	}
	p, ok := a.byName[top]
	if !ok {
		return
	}
	a.current = top
	p.comp.Start()
	a.menu.Update(append(p.comp.Hints(), a.globalHints()...))
	if !a.promptOn {
		a.app.SetFocus(p.focus)
	}
}

// globalHints turns the "key:description" strings of the global bindings
// into menu entries.
func (a *App) globalHints() []ui.MenuHint {
	var hints []ui.MenuHint
	for _, d := range a.registry.Hints("") {
		if len(d) < 2 {
			continue
		}
		key, desc, _ := strings.Cut(d[1:], ":")
		hints = append(hints, ui.MenuHint{Key: d[:1] + key, Description: desc})
	}
	return hints
}

// back leaves the current page. On the home page it clears the filter.
func (a *App) back() {
	if a.pages.Depth() > 1 {
		if a.pages.Current() == pageAuth && !a.canServe() {
			return
		}
		a.pages.Pop()
		return
	}
	if a.pages.Current() == pageHome {
		a.homeView.ClearFilter()
	}
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.promptOn = true
	a.prompt.Activate(mode)
	a.main.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.promptOn = false
	a.main.ResizeItem(a.prompt, 0, 0)
	if p, ok := a.byName[a.pages.Current()]; ok {
		a.app.SetFocus(p.focus)
	}
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "quit":
		a.Stop()
	case "refresh":
		a.pages.PopTo(pageHome)
		a.load(false)
	case "more":
		a.pages.PopTo(pageHome)
		a.load(true)
	case "home":
		a.pages.PopTo(pageHome)
		a.homeView.ScrollToTop()
	case "compose":
		a.showCompose()
	case "post":
		if cmd.Args == "" {
			a.flash.Warn("Usage: :post <text>")
			return
		}
		go a.post(cmd.Args, "")
	case "filter":
		a.pages.PopTo(pageHome)
		a.homeView.SetFilter(cmd.Args)
	case "login":
		a.startAuth()
	case "logout":
		go a.logout()
	case "help":
		a.pages.Push(pageHelp)
	default:
		a.flash.Warn("Unknown command: " + cmd.Name)
	}
}

// load starts a timeline load: a refresh, or a load-more when pullup is
// set. It is a no-op while a load is in flight.
func (a *App) load(pullup bool) {
	if a.home.State() != model.HomeIdle {
		return
	}
	if pullup {
		a.home.BeginPullup()
	}
	started := a.home.LoadData(a.ctx, func(ok, shouldRefresh bool) {
		a.app.QueueUpdateDraw(func() {
			a.homeView.SetLoading(false)
			if !ok {
				a.flash.Warn("Could not load the timeline")
				return
			}
			if shouldRefresh {
				a.reloadHome()
				if !pullup {
					a.homeView.ScrollToTop()
				}
			}
		})
	})
	if started {
		a.homeView.SetLoading(true)
	}
}

func (a *App) reloadHome() {
	a.homeView.Reload()
	a.crumbs.SetCount(pageHome, a.home.List().Len())
}

// BrowsePhotos opens the photo browser on msg. Invalid messages are
// ignored.
func (a *App) BrowsePhotos(msg views.BrowsePhotos) {
	if !a.photos.Show(msg) {
		return
	}
	a.pages.Push(pagePhotos)
}

func (a *App) showPhotos() {
	msg, ok := a.homeView.Photos()
	if !ok {
		a.flash.Info("No pictures in this status")
		return
	}
	a.BrowsePhotos(msg)
}

func (a *App) showLinks() {
	vm := a.homeView.Selected()
	if vm == nil || !a.links.Update(vm.Links) {
		a.flash.Info("No links in this status")
		return
	}
	a.pages.Push(pageLinks)
}

func (a *App) showCompose() {
	if !a.canServe() {
		a.flash.Warn("Sign in to post")
		return
	}
	a.composer.Reset()
	a.pages.Push(pageCompose)
}

func (a *App) open(url string) {
	if err := a.openURL(url); err != nil {
		a.flash.Err(fmt.Errorf("open %s: %w", url, err))
		return
	}
	a.flash.Info("Opened " + url)
}

func (a *App) post(text, imagePath string) {
	id, err := a.vm.Post(a.ctx, text, imagePath)
	if err != nil {
		a.flash.Err(fmt.Errorf("post: %w", err))
		return
	}
	if len(id) > 8 {
		id = id[:8]
	}
	a.flash.Info("Queued post " + id)
	a.refreshSession()
}

func (a *App) logout() {
	if err := a.vm.Logout(a.ctx); err != nil {
		a.flash.Err(fmt.Errorf("logout: %w", err))
		return
	}
	a.app.QueueUpdateDraw(func() {
		a.home.List().Reset()
		a.reloadHome()
		a.flash.Info("Signed out")
		a.startAuth()
	})
}

// startAuth shows the sign-in page and asks the daemon for the URL. Without
// a usable account it is the only page.
func (a *App) startAuth() {
	if a.canServe() {
		a.pages.Push(pageAuth)
	} else {
		a.pages.Reset(pageAuth)
	}
	a.authView.ShowMessage("Requesting the sign-in URL...")
	go func() {
		resp, err := a.vm.AuthorizeURL(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.authView.ShowMessage("Could not get the sign-in URL: " + err.Error())
				return
			}
			a.authView.ShowURL(resp.URL, resp.RedirectURI)
		})
	}()
}

func (a *App) exchange(code string) {
	resp, err := a.vm.ExchangeCode(a.ctx, code)
	a.app.QueueUpdateDraw(func() {
		switch {
		case err != nil:
			a.authView.ShowMessage("Sign-in failed: " + err.Error())
		case resp.NoUID:
			a.authView.ShowMessage("Weibo returned no user id for this code. Request a new one.")
		case !resp.Success:
			a.authView.ShowMessage("Sign-in failed: " + resp.Error)
		default:
			a.signedIn()
		}
		a.applySession()
	})
}

// signedIn leaves the auth page for a fresh home timeline. It runs once
// per sign-in, whether the code exchange or the status event gets there
// first.
func (a *App) signedIn() {
	if a.pages.Current() != pageAuth {
		return
	}
	a.home.List().Reset()
	a.reloadHome()
	a.pages.Reset(pageHome)
	if ss := a.vm.GetSessionStatus(); ss != nil && ss.ScreenName != "" {
		a.flash.Info("Signed in as @" + ss.ScreenName)
	}
	a.load(false)
}

func (a *App) canServe() bool {
	ss := a.vm.GetSessionStatus()
	return ss != nil && (ss.Status == rpc.StateReady || ss.Status == rpc.StateDegraded)
}

// applySession renders the last session status. Runs on the UI goroutine.
func (a *App) applySession() {
	ss := a.vm.GetSessionStatus()
	if ss == nil {
		return
	}
	n, known := a.vm.Unread()
	a.sessionInfo.Update(&ui.SessionData{
		Session:     ss.Session,
		Account:     ss.ScreenName,
		UID:         ss.UID,
		Status:      ss.Status,
		Cached:      ss.CachedStatuses,
		Pending:     ss.PendingPosts,
		Unread:      n,
		UnreadKnown: known,
		Uptime:      time.Duration(ss.UptimeMs) * time.Millisecond,
	})
	a.logo.SetState(ss.Status)
	a.statusBar.SetStatus(ss.Status)
	a.statusBar.SetAccount(ss.ScreenName)
	a.statusBar.SetPending(ss.PendingPosts)
	a.statusBar.SetUnread(n, known)
	a.homeView.SetScreenName(ss.ScreenName)
	if known {
		a.homeView.SetUnread(n)
	}
}

func (a *App) refreshSession() {
	if err := a.vm.LoadSessionStatus(a.ctx); err != nil {
		return
	}
	a.app.QueueUpdateDraw(a.applySession)
}

// eventPayload is the union of the payload fields the TUI reads.
type eventPayload struct {
	Count    int    `json:"count"`
	ClientID string `json:"client_id"`
	ServerID string `json:"server_id"`
	Error    string `json:"error"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func (a *App) handleEvent(evt *rpc.Event) {
	var p eventPayload
	if len(evt.Payload) > 0 {
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return
		}
	}

	switch evt.Kind {
	case bus.KindUnread:
		a.vm.SetUnread(p.Count, true)
		a.app.QueueUpdateDraw(a.applySession)
	case bus.KindPostAck:
		a.flash.Info("Posted " + p.ServerID)
		a.refreshSession()
	case bus.KindPostFailed:
		a.flash.Warn("Post failed: " + p.Error)
		a.refreshSession()
	case bus.KindStatusChanged:
		_ = a.vm.LoadSessionStatus(a.ctx)
		a.app.QueueUpdateDraw(func() {
			a.applySession()
			switch p.To {
			case rpc.StateAuthRequired:
				if a.pages.Current() != pageAuth {
					a.startAuth()
				}
			case rpc.StateReady:
				a.signedIn()
			}
		})
	}
}

// watchEvents relays daemon events until the app stops, reconnecting
// after stream errors.
func (a *App) watchEvents() {
	for {
		err := a.vm.WatchEvents(a.ctx, a.handleEvent, "session.", "remind.", "status.")
		if a.ctx.Err() != nil {
			return
		}
		if err != nil {
			a.flash.Warn("Event stream lost, reconnecting")
		}
		select {
		case <-time.After(watchRetryWait):
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) watchFlash() {
	for {
		select {
		case m := <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(&m) })
		case <-a.ctx.Done():
			return
		}
	}
}

// tick keeps the header current and clears expired flash messages.
func (a *App) tick() {
	t := time.NewTicker(tickInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			_ = a.vm.LoadSessionStatus(a.ctx)
			a.app.QueueUpdateDraw(func() {
				a.applySession()
				a.flashBar.Update(a.flash.GetMessage())
			})
		case <-a.ctx.Done():
			return
		}
	}
}

// boot loads the session, shows cached statuses right away and then
// refreshes the timeline, or starts sign-in when there is no account.
func (a *App) boot() {
	if err := a.vm.LoadSessionStatus(a.ctx); err != nil {
		a.flash.Err(fmt.Errorf("daemon: %w", err))
		return
	}
	_ = a.vm.LoadUnread(a.ctx)

	ss := a.vm.GetSessionStatus()
	if ss.Status == rpc.StateAuthRequired {
		a.app.QueueUpdateDraw(func() {
			a.applySession()
			a.startAuth()
		})
		return
	}

	cached, err := a.vm.LoadCached(a.ctx, cachedSeed)
	if err != nil {
		a.flash.Warn("Could not read cached statuses")
	}
	a.app.QueueUpdateDraw(func() {
		a.applySession()
		if a.home.List().Seed(cached) {
			a.reloadHome()
		}
		if a.canServe() {
			a.load(false)
		}
	})
}

// Run starts the TUI application.
func (a *App) Run() error {
	go a.boot()
	go a.watchEvents()
	go a.watchFlash()
	go a.tick()

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// openBrowser hands url to the desktop's default handler.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
