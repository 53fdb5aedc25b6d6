//go:build windows

package logger

import (
	"os"
	"syscall"
	"unsafe"
)

const SupportsColorEscapes = false

var kernel32 = syscall.NewLazyDLL("kernel32.dll")
var getConsoleMode = kernel32.NewProc("GetConsoleMode")
var getConsoleScreenBufferInfo = kernel32.NewProc("GetConsoleScreenBufferInfo")

type consoleScreenBufferInfo struct {
	sizeX, sizeY                   int16
	cursorX, cursorY               int16
	attributes                     uint16
	windowLeft, windowTop          int16
	windowRight, windowBottom      int16
	maxWindowSizeX, maxWindowSizeY int16
}

func TerminalInfo(file *os.File) (info TerminalInfoResult) {
	fd := file.Fd()
	var unused uint32
	isTTY, _, _ := syscall.Syscall(getConsoleMode.Addr(), 2, fd, uintptr(unsafe.Pointer(&unused)), 0)
	var csbi consoleScreenBufferInfo
	syscall.Syscall(getConsoleScreenBufferInfo.Addr(), 2, fd, uintptr(unsafe.Pointer(&csbi)), 0)
	info.IsTTY = isTTY != 0
	info.Width = int(csbi.sizeX) - 1
	return
}
