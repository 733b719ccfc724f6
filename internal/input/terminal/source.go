// Package terminal provides a tcell-backed key event source.
package terminal

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lychee-app/lychee/internal/input"
	"github.com/lychee-app/lychee/internal/input/key"
)

// FocusFunc classifies the current keyboard focus at press time.
type FocusFunc func() input.FocusKind

// Source turns tcell key events into input.KeyEvents. Non-key events and
// keys outside the bindable set are discarded.
type Source struct {
	screen tcell.Screen
	focus  FocusFunc
	events chan input.KeyEvent

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSource creates and initializes a source over a fresh terminal screen.
func NewSource(focus FocusFunc) (*Source, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewSourceFromScreen(screen, focus), nil
}

// NewSourceFromScreen creates a source over an already initialized screen.
// The source takes ownership: Close finalizes the screen.
func NewSourceFromScreen(screen tcell.Screen, focus FocusFunc) *Source {
	if focus == nil {
		focus = func() input.FocusKind { return input.FocusGeneral }
	}

	s := &Source{
		screen: screen,
		focus:  focus,
		events: make(chan input.KeyEvent, 100),
	}

	s.wg.Add(1)
	go s.loop()

	return s
}

// Events returns the key event channel. It is closed by Close.
func (s *Source) Events() <-chan input.KeyEvent {
	return s.events
}

// Close finalizes the screen and closes the event channel.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		// Fini makes PollEvent return nil, which ends the loop.
		s.screen.Fini()
		s.wg.Wait()
		close(s.events)
	})
	return nil
}

// loop polls the screen until it is finalized.
func (s *Source) loop() {
	defer s.wg.Done()

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}

		keyEv, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		combo, ok := convertKey(keyEv)
		if !ok {
			continue
		}

		// Drop the oldest event when the consumer falls behind; blocking
		// here would wedge Close.
		out := input.KeyEvent{
			Combo: combo,
			Focus: s.focus(),
			Time:  time.Now(),
		}
		select {
		case s.events <- out:
		default:
			select {
			case <-s.events:
			default:
			}
			select {
			case s.events <- out:
			default:
			}
		}
	}
}

// convertKey maps a tcell key event onto a combo. The second return is false
// for keys outside the bindable set (arrows, function keys, bare modifiers).
func convertKey(ev *tcell.EventKey) (key.Combo, bool) {
	mods := convertMods(ev.Modifiers())

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		r := ev.Rune()
		// Shifted characters arrive as the shifted rune; fold to the
		// logical lowercase key and keep the shift bit.
		if unicode.IsUpper(r) {
			mods = mods.With(key.ModShift)
			r = unicode.ToLower(r)
		}
		return key.NewCombo(string(r), mods), true

	case k == tcell.KeyEscape:
		return key.NewCombo(key.KeyEscape, mods), true

	case k == tcell.KeyEnter:
		return key.NewCombo(key.KeyEnter, mods), true

	case k == tcell.KeyCtrlSpace:
		return key.NewCombo(key.KeySpace, mods.With(key.ModCtrl)), true

	// Terminals fold ctrl+letter into the control character range. tcell
	// aliases KeyCtrlH/I/M to backspace, tab and enter; those arrive with
	// an empty modifier mask and are not treated as combos here.
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		if ev.Modifiers()&tcell.ModCtrl == 0 && mods.IsEmpty() {
			return key.Combo{}, false
		}
		letter := rune('a' + (k - tcell.KeyCtrlA))
		return key.NewCombo(string(letter), mods.With(key.ModCtrl)), true

	default:
		return key.Combo{}, false
	}
}

// convertMods maps the tcell modifier mask.
func convertMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	return mods
}
