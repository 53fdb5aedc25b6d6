//go:build darwin

package logger

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const SupportsColorEscapes = true

type winsize struct {
	row    uint16
	col    uint16
	xpixel uint16
	ypixel uint16
}

func TerminalInfo(file *os.File) (info TerminalInfoResult) {
	fd := file.Fd()
	if _, err := unix.IoctlGetTermios(int(fd), unix.TIOCGETA); err == nil {
		info.IsTTY = true
		w := &winsize{}
		if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, unix.TIOCGWINSZ, uintptr(unsafe.Pointer(w))); errno == 0 {
			info.Width = int(w.col)
		}
	}
	return
}
