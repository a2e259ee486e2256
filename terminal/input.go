package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// handleKey maps a key to a control; reports whether the key was consumed
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.quit()
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	r := ev.Rune()
	switch {
	case r >= '1' && r <= '9':
		k := int(r - '1')
		if err := v.controls.PressStop(k); err != nil {
			v.log.WithError(err).WithField("stop", k).Debug("stop press rejected")
			v.notify(v.currentTick(), fmt.Sprintf("stop %d: no such control", k+1))
		}
	case r == 'p' || r == ' ':
		if v.controls.IsPaused() {
			v.controls.Resume()
		} else {
			v.controls.Pause()
		}
	case r == 'q':
		v.quit()
	default:
		return false
	}
	v.dirty.Store(true)
	return true
}

func (v *Viewer) currentTick() uint64 {
	if snap := v.latest.Load(); snap != nil {
		return snap.Tick
	}
	return 0
}
