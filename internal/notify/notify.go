package notify

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
)

const (
	dest   = "org.freedesktop.Notifications"
	path   = "/org/freedesktop/Notifications"
	method = "org.freedesktop.Notifications.Notify"
)

// caller is the part of dbus.BusObject used here
type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Notifier posts desktop notifications through the session bus
type Notifier struct {
	obj     caller
	conn    *dbus.Conn
	appName string
	logPath string
	timeout time.Duration
}

// New connects to the session bus. logPath is quoted in error notifications.
func New(appName, logPath string) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to session bus")
	}
	return &Notifier{
		obj:     conn.Object(dest, dbus.ObjectPath(path)),
		conn:    conn,
		appName: appName,
		logPath: logPath,
		timeout: 5 * time.Second,
	}, nil
}

// Notify shows a notification with the given summary and body
func (n *Notifier) Notify(summary, body, icon string) error {
	call := n.obj.Call(method, 0,
		n.appName,
		uint32(0),
		icon,
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		int32(n.timeout/time.Millisecond),
	)
	if call.Err != nil {
		return errors.Wrap(call.Err, "notification failed")
	}
	return nil
}

// OnError shows an error notification pointing at the log file. It implements
// logging.Hook.
func (n *Notifier) OnError(msg string, err error, fields map[string]interface{}) {
	// Nothing sensible to do if the notification daemon is gone.
	_ = n.Notify(n.appName+" error", errorBody(msg, fields, n.logPath), "dialog-error")
}

// Close releases the bus connection
func (n *Notifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}

func errorBody(msg string, fields map[string]interface{}, logPath string) string {
	what := msg
	if ctx, ok := fields["context"]; ok {
		what = fmt.Sprintf("%s (%v)", msg, ctx)
		if app, ok := fields["app"]; ok {
			what = fmt.Sprintf("%s (%v: %v)", msg, ctx, app)
		}
	}
	if logPath == "" {
		return "An error occurred: " + what
	}
	return fmt.Sprintf("An error occurred: %s\nSee the log for details: %s", what, logPath)
}
