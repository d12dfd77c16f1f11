// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/keytile/app.go
// Summary: Interactive terminal application driving the board view.

package main

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/keytile/config"
	"github.com/framegrace/keytile/defaults"
	"github.com/framegrace/keytile/geom"
	boardview "github.com/framegrace/keytile/internal/board"
	"github.com/framegrace/keytile/key"
	"github.com/framegrace/keytile/layout"
	"github.com/framegrace/keytile/theme"
)

const (
	pressFlashFor = 150 * time.Millisecond
	doubleTapIn   = 400 * time.Millisecond
)

// app wires the board view to a tcell screen. Terminal input moves a
// prelight cursor and activates keys; activations latch modifiers,
// switch layers and type into a scratch line shown at the bottom.
type app struct {
	screen    tcell.Screen
	view      *boardview.View
	board     *layout.Board
	themeName string

	scratch  []rune
	prelight *key.Key
	flashes  map[*key.Key]time.Time
	lastTap  map[*key.Key]time.Time

	scanning bool
	scanIdx  int
	scanKeys []*key.Key

	defaultFg tcell.Color
	defaultBg tcell.Color

	frame     time.Duration
	scanEvery time.Duration
	dirty     bool
	quit      chan struct{}

	lastButtons tcell.ButtonMask
}

func newApp(b *layout.Board, scheme *theme.Scheme, style theme.Style, themeName string, cfg config.Config) (*app, error) {
	// Query before tcell owns the tty.
	defaultFg, defaultBg, err := boardview.QueryDefaultColors()
	if err != nil {
		log.Printf("Board: default color query failed: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	defStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	screen.SetStyle(defStyle)
	screen.HideCursor()
	screen.EnableMouse()

	view := boardview.NewView(b, scheme, style)
	marginX := cfg.GetFloat("board", "margin_x", 1)
	marginY := cfg.GetFloat("board", "margin_y", 0.5)
	// The bottom row belongs to the status line.
	view.SetMargin(geom.Size{W: marginX, H: math.Max(marginY, 1)})

	fps := cfg.GetInt("board", "fps_cap", 30)
	if fps < 5 {
		fps = 5
	}
	if fps > 120 {
		fps = 120
	}
	scanMs := cfg.GetInt("scanner", "interval_ms", 750)
	if scanMs < 100 {
		scanMs = 100
	}

	a := &app{
		screen:    screen,
		view:      view,
		board:     b,
		themeName: themeName,
		flashes:   make(map[*key.Key]time.Time),
		lastTap:   make(map[*key.Key]time.Time),
		defaultFg: defaultFg,
		defaultBg: defaultBg,
		frame:     time.Second / time.Duration(fps),
		scanEvery: time.Duration(scanMs) * time.Millisecond,
		quit:      make(chan struct{}),
	}

	b.ConfigureLabels(0)
	if keys := b.OnLayer(0); len(keys) > 0 {
		a.setPrelight(keys[0])
	}
	if cfg.GetBool("scanner", "enabled", false) {
		a.toggleScan()
	}
	return a, nil
}

// run is the main event loop.
func (a *app) run() error {
	defer a.screen.Fini()

	eventChan := make(chan tcell.Event, 10)
	go func() {
		for {
			select {
			case <-a.quit:
				return
			default:
				eventChan <- a.screen.PollEvent()
			}
		}
	}()

	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()
	scanTicker := time.NewTicker(a.scanEvery)
	defer scanTicker.Stop()

	a.dirty = true
	for {
		select {
		case ev := <-eventChan:
			if ev == nil {
				close(a.quit)
				return nil
			}
			if !a.handleEvent(ev) {
				close(a.quit)
				return nil
			}
		case <-ticker.C:
			if a.decayFlashes() {
				// A decayed modifier press changes the held mask.
				a.refreshLabels()
				a.dirty = true
			}
			if a.dirty {
				a.draw()
				a.dirty = false
			}
		case <-scanTicker.C:
			if a.scanning {
				a.advanceScan()
				a.dirty = true
			}
		}
	}
}

// handleEvent dispatches one tcell event; false means quit.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Clear()
		a.screen.Sync()
		a.dirty = true
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return true
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyF2:
		a.cycleTheme()
	case tcell.KeyF3:
		a.switchLayer((a.view.Layer() + 1) % a.board.LayerCount())
	case tcell.KeyF4:
		a.toggleScan()
	case tcell.KeyF5:
		a.copyScratch()
	case tcell.KeyEnter:
		if a.scanning {
			a.activateScanned()
		} else {
			a.activate(a.prelight)
		}
	case tcell.KeyTab:
		a.stepPrelight(1)
	case tcell.KeyBacktab:
		a.stepPrelight(-1)
	case tcell.KeyLeft:
		a.movePrelight(-1, 0)
	case tcell.KeyRight:
		a.movePrelight(1, 0)
	case tcell.KeyUp:
		a.movePrelight(0, -1)
	case tcell.KeyDown:
		a.movePrelight(0, 1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.activate(a.keyByEmission("BackSpace"))
	case tcell.KeyRune:
		// Physical typing activates the matching on-screen key, so the
		// board animates along with what the user types.
		a.activate(a.keyByEmission(string(ev.Rune())))
	}
	a.dirty = true
	return true
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	if k := a.view.KeyAt(x, y); k != a.prelight {
		a.setPrelight(k)
	}
	if buttons&tcell.Button1 != 0 && a.lastButtons&tcell.Button1 == 0 {
		a.activate(a.view.KeyAt(x, y))
	}
	a.lastButtons = buttons
	a.dirty = true
}

// keyByEmission finds the visible key that currently types the given
// text, matching the resolved label first and the char code second.
func (a *app) keyByEmission(text string) *key.Key {
	for _, k := range a.board.OnLayer(a.view.Layer()) {
		if k.Label == text {
			return k
		}
	}
	for _, k := range a.board.OnLayer(a.view.Layer()) {
		if k.Type == key.TypeChar && k.Code == text {
			return k
		}
	}
	for _, k := range a.board.OnLayer(a.view.Layer()) {
		if k.Type == key.TypeKeysym && k.Code == text {
			return k
		}
	}
	return nil
}

func (a *app) activate(k *key.Key) {
	if k == nil || !k.Sensitive {
		return
	}
	switch {
	case k.IsLayerButton():
		target := k.LayerIndex()
		if target == a.view.Layer() {
			target = 0
		}
		a.switchLayer(target)
	case k.IsModifier():
		a.tapModifier(k)
	default:
		a.flash(k)
		a.typeKey(k)
		a.releaseLatched()
	}
	a.refreshLabels()
	a.dirty = true
}

// tapModifier advances a sticky modifier's latched/locked state.
func (a *app) tapModifier(k *key.Key) {
	now := time.Now()
	doubleTap := now.Sub(a.lastTap[k]) < doubleTapIn
	a.lastTap[k] = now

	if !k.Sticky {
		a.flash(k)
		return
	}
	switch k.StickyBehavior {
	case key.StickyCycle:
		switch {
		case k.Locked:
			k.Active, k.Locked = false, false
		case k.Active:
			k.Locked = true
		default:
			k.Active = true
		}
	case key.StickyDoubleClick:
		switch {
		case k.Locked:
			k.Active, k.Locked = false, false
		case k.Active && doubleTap:
			k.Locked = true
		default:
			k.Active = !k.Active
		}
	case key.StickyLatchOnly:
		k.Active = !k.Active
	case key.StickyLockOnly:
		k.Locked = !k.Locked
		k.Active = k.Locked
	}
	log.Printf("Board: modifier %s now %s", k.ID, modState(k))
}

func modState(k *key.Key) string {
	switch {
	case k.Locked:
		return "locked"
	case k.Active:
		return "latched"
	default:
		return "released"
	}
}

// releaseLatched drops latched modifiers after a keystroke; locked ones
// stay down.
func (a *app) releaseLatched() {
	for _, k := range a.board.Keys {
		if k.IsModifier() && k.Active && !k.Locked {
			k.Active = false
		}
	}
}

// typeKey applies a non-modifier activation to the scratch line.
func (a *app) typeKey(k *key.Key) {
	switch k.Type {
	case key.TypeChar:
		text := k.Label
		if text == "" {
			text = k.Code
		}
		a.scratch = append(a.scratch, []rune(text)...)
	case key.TypeKeysym:
		switch k.Code {
		case "BackSpace":
			if len(a.scratch) > 0 {
				a.scratch = a.scratch[:len(a.scratch)-1]
			}
		case "Delete":
			a.scratch = a.scratch[:0]
		case "Return":
			log.Printf("Board: line %q", string(a.scratch))
			a.scratch = a.scratch[:0]
		case "Tab":
			a.scratch = append(a.scratch, ' ', ' ')
		}
	}
}

func (a *app) refreshLabels() {
	a.board.ConfigureLabels(a.board.HeldMask())
}

func (a *app) flash(k *key.Key) {
	k.Pressed = true
	a.flashes[k] = time.Now()
}

func (a *app) decayFlashes() bool {
	changed := false
	now := time.Now()
	for k, at := range a.flashes {
		if now.Sub(at) >= pressFlashFor {
			k.Pressed = false
			delete(a.flashes, k)
			changed = true
		}
	}
	return changed
}

func (a *app) setPrelight(k *key.Key) {
	if a.prelight != nil {
		a.prelight.Prelight = false
	}
	a.prelight = k
	if k != nil {
		k.Prelight = true
	}
	a.dirty = true
}

// stepPrelight cycles the prelight in layout order.
func (a *app) stepPrelight(dir int) {
	keys := a.board.OnLayer(a.view.Layer())
	if len(keys) == 0 {
		return
	}
	idx := 0
	for i, k := range keys {
		if k == a.prelight {
			idx = (i + dir + len(keys)) % len(keys)
			break
		}
	}
	a.setPrelight(keys[idx])
}

// movePrelight finds the nearest key in a direction, preferring keys
// with little sideways drift.
func (a *app) movePrelight(dx, dy float64) {
	keys := a.board.OnLayer(a.view.Layer())
	if len(keys) == 0 {
		return
	}
	if a.prelight == nil {
		a.setPrelight(keys[0])
		return
	}
	from := a.prelight.FullsizeRect().Center()
	var best *key.Key
	bestScore := math.MaxFloat64
	for _, k := range keys {
		if k == a.prelight {
			continue
		}
		c := k.FullsizeRect().Center()
		var along, drift float64
		if dx != 0 {
			along = (c.X - from.X) * dx
			drift = c.Y - from.Y
		} else {
			along = (c.Y - from.Y) * dy
			drift = c.X - from.X
		}
		if along <= 0 {
			continue
		}
		score := along + 3*math.Abs(drift)
		if score < bestScore {
			best, bestScore = k, score
		}
	}
	if best != nil {
		a.setPrelight(best)
	}
}

func (a *app) switchLayer(n int) {
	a.view.SetLayer(n)
	for _, k := range a.board.Keys {
		if k.IsLayerButton() {
			k.Active = k.LayerIndex() == a.view.Layer()
		}
	}
	if a.prelight != nil && !onVisibleLayer(a.prelight, a.view.Layer()) {
		a.setPrelight(nil)
		if keys := a.board.OnLayer(a.view.Layer()); len(keys) > 0 {
			a.setPrelight(keys[0])
		}
	}
	if a.scanning {
		a.rebuildScan()
	}
	a.dirty = true
}

func onVisibleLayer(k *key.Key, layer int) bool {
	return k.Layer < 0 || k.Layer == layer
}

func (a *app) toggleScan() {
	if a.scanning {
		a.scanning = false
		a.clearScanned()
	} else {
		a.scanning = true
		a.rebuildScan()
	}
	a.dirty = true
}

func (a *app) rebuildScan() {
	a.clearScanned()
	a.scanKeys = a.scanKeys[:0]
	for _, k := range a.board.OnLayer(a.view.Layer()) {
		if k.Scannable && k.Sensitive {
			a.scanKeys = append(a.scanKeys, k)
		}
	}
	// High priority first; layout order breaks ties.
	sort.SliceStable(a.scanKeys, func(i, j int) bool {
		return a.scanKeys[i].ScanPriority > a.scanKeys[j].ScanPriority
	})
	a.scanIdx = -1
	a.advanceScan()
}

func (a *app) advanceScan() {
	if len(a.scanKeys) == 0 {
		return
	}
	if a.scanIdx >= 0 {
		a.scanKeys[a.scanIdx].Scanned = false
	}
	a.scanIdx = (a.scanIdx + 1) % len(a.scanKeys)
	a.scanKeys[a.scanIdx].Scanned = true
}

// activateScanned fires the highlighted key. Scanning keeps going so
// several keys can be hit in a row; F4 leaves scan mode.
func (a *app) activateScanned() {
	if a.scanIdx < 0 || a.scanIdx >= len(a.scanKeys) {
		return
	}
	a.activate(a.scanKeys[a.scanIdx])
}

func (a *app) clearScanned() {
	for _, k := range a.scanKeys {
		k.Scanned = false
	}
}

// cycleTheme switches to the next embedded theme and persists the
// choice.
func (a *app) cycleTheme() {
	names := defaults.Themes()
	if len(names) == 0 {
		return
	}
	next := names[0]
	for i, name := range names {
		if name == a.themeName {
			next = names[(i+1)%len(names)]
			break
		}
	}
	data, err := defaults.Theme(next)
	if err != nil {
		log.Printf("Theme: %q: %v", next, err)
		return
	}
	scheme, style, err := theme.Parse(data)
	if err != nil {
		log.Printf("Theme: %q: %v", next, err)
		return
	}
	a.view.SetTheme(scheme, style)
	a.themeName = next
	log.Printf("Theme: switched to %q", next)

	cfg := config.Current()
	cfg.Set("", "activeTheme", next)
	if err := config.Save(); err != nil {
		log.Printf("Config: save failed: %v", err)
	}
	a.dirty = true
}

func (a *app) copyScratch() {
	text := string(a.scratch)
	if err := clipboard.WriteAll(text); err != nil {
		log.Printf("Clipboard: write failed: %v", err)
		return
	}
	log.Printf("Clipboard: copied %d runes", len(a.scratch))
}

func (a *app) draw() {
	a.screen.Clear()
	a.view.Draw(a.screen)
	a.drawStatus()
	a.screen.Show()
}

func (a *app) drawStatus() {
	cols, rows := a.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	mode := ""
	if a.scanning {
		mode = " | scan"
	}
	status := fmt.Sprintf(" %s | layer %d | %s%s | > %s",
		a.themeName, a.view.Layer(), a.board.HeldMask(), mode, string(a.scratch))
	status = runewidth.Truncate(status, cols, "…")

	st := tcell.StyleDefault.Foreground(a.defaultFg).Background(a.defaultBg)
	x := 0
	for _, r := range status {
		a.screen.SetContent(x, rows-1, r, nil, st)
		x += runewidth.RuneWidth(r)
	}
	for ; x < cols; x++ {
		a.screen.SetContent(x, rows-1, ' ', nil, st)
	}
}
