package x11

import (
	"encoding/binary"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/quicklaunch/quicklaunch/pkg/window"
)

// EWMH client message actions for _NET_WM_STATE
const (
	netWMStateRemove = 0
	netWMStateAdd    = 1

	// sourcePager tells the window manager the request comes from a pager-like
	// tool acting on behalf of the user, which most WMs honour over focus
	// stealing prevention.
	sourcePager = 2
)

var atomNames = []string{
	"_NET_CLIENT_LIST",
	"_NET_CLIENT_LIST_STACKING",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"_NET_WM_STATE",
	"_NET_WM_STATE_HIDDEN",
	"_NET_WM_STATE_ABOVE",
	"WM_NAME",
	"UTF8_STRING",
}

// Desktop implements window.Desktop for X11 through an EWMH compliant window manager
type Desktop struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// NewDesktop connects to the X server named by $DISPLAY
func NewDesktop() (*Desktop, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	setup := xproto.Setup(conn)
	d := &Desktop{
		conn:  conn,
		root:  setup.DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(atomNames)),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to intern atom %s", name)
		}
		d.atoms[name] = reply.Atom
	}

	return d, nil
}

// Name returns "x11"
func (d *Desktop) Name() string {
	return "x11"
}

// Close releases the X connection
func (d *Desktop) Close() error {
	d.conn.Close()
	return nil
}

func (d *Desktop) getProperty(w xproto.Window, atom xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(d.conn, false, w, atom, xproto.GetPropertyTypeAny, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// EachWindow walks managed top-level windows from the top of the stack down,
// the same order a native z-order enumeration produces.
func (d *Desktop) EachWindow(visit func(window.Handle) bool) error {
	data, err := d.getProperty(d.root, d.atoms["_NET_CLIENT_LIST_STACKING"], 4096)
	if err != nil || len(data) == 0 {
		data, err = d.getProperty(d.root, d.atoms["_NET_CLIENT_LIST"], 4096)
		if err != nil {
			return errors.Wrap(err, "failed to read client list")
		}
	}

	for _, w := range topFirst(decodeWindows(data)) {
		if !visit(window.Handle(w)) {
			return nil
		}
	}
	return nil
}

// IsVisible reports viewable windows and iconified ones; a minimized window is
// still a candidate for activation.
func (d *Desktop) IsVisible(h window.Handle) bool {
	attrs, err := xproto.GetWindowAttributes(d.conn, xwin(h)).Reply()
	if err != nil {
		return false
	}
	if attrs.MapState == xproto.MapStateViewable {
		return true
	}
	return d.IsMinimized(h)
}

// OwnerPID reads _NET_WM_PID
func (d *Desktop) OwnerPID(h window.Handle) (int32, bool) {
	data, err := d.getProperty(xwin(h), d.atoms["_NET_WM_PID"], 1)
	if err != nil || len(data) < 4 {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(data)), true
}

// HasTitle checks _NET_WM_NAME, then the legacy WM_NAME
func (d *Desktop) HasTitle(h window.Handle) bool {
	return d.title(h) != ""
}

func (d *Desktop) title(h window.Handle) string {
	for _, name := range []string{"_NET_WM_NAME", "WM_NAME"} {
		data, err := d.getProperty(xwin(h), d.atoms[name], 256)
		if err == nil && len(data) > 0 {
			if t := strings.TrimRight(string(data), "\x00"); t != "" {
				return t
			}
		}
	}
	return ""
}

// IsMinimized checks for _NET_WM_STATE_HIDDEN
func (d *Desktop) IsMinimized(h window.Handle) bool {
	data, err := d.getProperty(xwin(h), d.atoms["_NET_WM_STATE"], 64)
	if err != nil {
		return false
	}
	return containsAtom(data, d.atoms["_NET_WM_STATE_HIDDEN"])
}

// Restore de-iconifies the window
func (d *Desktop) Restore(h window.Handle) error {
	if err := xproto.MapWindowChecked(d.conn, xwin(h)).Check(); err != nil {
		return errors.Wrap(err, "failed to map window")
	}
	return d.sendClientMessage(xwin(h), d.atoms["_NET_WM_STATE"],
		netWMStateRemove, uint32(d.atoms["_NET_WM_STATE_HIDDEN"]), 0, sourcePager, 0)
}

// Show maps the window; already mapped windows are left untouched
func (d *Desktop) Show(h window.Handle) error {
	if err := xproto.MapWindowChecked(d.conn, xwin(h)).Check(); err != nil {
		return errors.Wrap(err, "failed to map window")
	}
	return nil
}

// Hide unmaps the window
func (d *Desktop) Hide(h window.Handle) error {
	if err := xproto.UnmapWindowChecked(d.conn, xwin(h)).Check(); err != nil {
		return errors.Wrap(err, "failed to unmap window")
	}
	return nil
}

// Raise puts the window on top of its siblings
func (d *Desktop) Raise(h window.Handle) error {
	err := xproto.ConfigureWindowChecked(d.conn, xwin(h),
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
	if err != nil {
		return errors.Wrap(err, "failed to raise window")
	}
	return nil
}

// SetTopmost toggles _NET_WM_STATE_ABOVE
func (d *Desktop) SetTopmost(h window.Handle, on bool) error {
	action := uint32(netWMStateRemove)
	if on {
		action = netWMStateAdd
	}
	return d.sendClientMessage(xwin(h), d.atoms["_NET_WM_STATE"],
		action, uint32(d.atoms["_NET_WM_STATE_ABOVE"]), 0, sourcePager, 0)
}

// SetForeground asks the window manager to activate the window and moves input focus
func (d *Desktop) SetForeground(h window.Handle) error {
	err := d.sendClientMessage(xwin(h), d.atoms["_NET_ACTIVE_WINDOW"],
		sourcePager, xproto.TimeCurrentTime, 0, 0, 0)
	if err != nil {
		return err
	}

	err = xproto.SetInputFocusChecked(d.conn, xproto.InputFocusPointerRoot, xwin(h), xproto.TimeCurrentTime).Check()
	if err != nil {
		return errors.Wrap(err, "failed to set input focus")
	}
	return nil
}

func (d *Desktop) sendClientMessage(w xproto.Window, msgType xproto.Atom, data ...uint32) error {
	payload := make([]uint32, 5)
	copy(payload, data)

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w,
		Type:   msgType,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	if err := xproto.SendEventChecked(d.conn, false, d.root, mask, string(ev.Bytes())).Check(); err != nil {
		return errors.Wrap(err, "failed to send client message")
	}
	return nil
}

func xwin(h window.Handle) xproto.Window {
	return xproto.Window(uint32(h))
}

// decodeWindows turns a 32-bit WINDOW[] property value into window IDs
func decodeWindows(data []byte) []xproto.Window {
	windows := make([]xproto.Window, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		windows = append(windows, xproto.Window(binary.LittleEndian.Uint32(data[i:])))
	}
	return windows
}

// topFirst reverses a bottom-to-top stacking list
func topFirst(windows []xproto.Window) []xproto.Window {
	out := make([]xproto.Window, len(windows))
	for i, w := range windows {
		out[len(windows)-1-i] = w
	}
	return out
}

// containsAtom reports whether a 32-bit ATOM[] property value contains atom
func containsAtom(data []byte, atom xproto.Atom) bool {
	for i := 0; i+4 <= len(data); i += 4 {
		if xproto.Atom(binary.LittleEndian.Uint32(data[i:])) == atom {
			return true
		}
	}
	return false
}
