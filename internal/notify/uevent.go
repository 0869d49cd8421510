package notify

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// UeventNotifier listens for kernel uevents on a netlink socket and reports
// drm change events, which the kernel emits on connector hotplug.
type UeventNotifier struct {
	fd int // netlink socket

	// interruptR/interruptW form a self-pipe polled alongside the socket so
	// Interrupt can unblock a Wait in progress.
	interruptR int
	interruptW int

	interruptOnce sync.Once
	closeOnce     sync.Once
}

// NewUeventNotifier opens the kobject uevent netlink socket.
func NewUeventNotifier() (*UeventNotifier, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_KOBJECT_UEVENT)
	if err != nil {
		return nil, fmt.Errorf("open uevent socket: %w", err)
	}

	addr := &unix.SockaddrNetlink{
		Family: unix.AF_NETLINK,
		Groups: 1, // kernel broadcast group
	}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind uevent socket: %w", err)
	}

	var pipe [2]int
	if err := unix.Pipe2(pipe[:], unix.O_CLOEXEC); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("create interrupt pipe: %w", err)
	}

	return &UeventNotifier{fd: fd, interruptR: pipe[0], interruptW: pipe[1]}, nil
}

// Wait blocks until a drm change uevent arrives or Interrupt is called.
func (n *UeventNotifier) Wait() error {
	buf := make([]byte, 4096)
	for {
		fds := []unix.PollFd{
			{Fd: int32(n.fd), Events: unix.POLLIN},
			{Fd: int32(n.interruptR), Events: unix.POLLIN},
		}
		if _, err := unix.Poll(fds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("poll uevent socket: %w", err)
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			return ErrInterrupted
		}
		if fds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		size, _, err := unix.Recvfrom(n.fd, buf, 0)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("read uevent socket: %w", err)
		}

		if isDrmChange(buf[:size]) {
			return nil
		}
	}
}

// Interrupt unblocks a pending Wait.
func (n *UeventNotifier) Interrupt() {
	n.interruptOnce.Do(func() {
		unix.Write(n.interruptW, []byte{0})
	})
}

// Close releases the socket and the interrupt pipe.
func (n *UeventNotifier) Close() error {
	n.closeOnce.Do(func() {
		unix.Close(n.fd)
		unix.Close(n.interruptR)
		unix.Close(n.interruptW)
	})
	return nil
}

// isDrmChange reports whether a raw uevent message is a change event from
// the drm subsystem. Uevent payloads are NUL-separated KEY=value pairs after
// the "action@devpath" header.
func isDrmChange(msg []byte) bool {
	var action, subsystem string
	for _, field := range strings.Split(string(msg), "\x00") {
		if v, ok := strings.CutPrefix(field, "ACTION="); ok {
			action = v
		} else if v, ok := strings.CutPrefix(field, "SUBSYSTEM="); ok {
			subsystem = v
		}
	}
	return subsystem == "drm" && action == "change"
}
