// Package dbus exposes a uikit session on the D-Bus session bus.
//
// UIKitService publishes the toast and dialog managers under
// io.github.jmylchreest.UIKit so other processes (and the uikit CLI) can
// drive a running session. NotificationServer optionally owns
// org.freedesktop.Notifications so notify-send and friends become toasts,
// and Monitor mirrors that traffic without claiming the name. The package
// also reads the desktop portal's colour scheme for the theme service.
package dbus
