// Copyright (c) Elliot Nunn
// Licensed under the MIT license

//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// rawTerminal puts fd into character-at-a-time, no-echo mode for the
// pager's keyboard loop and returns a function that restores the
// original mode.
func rawTerminal(fd int) (restore func(), err error) {
	orig, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, err
	}

	raw := *orig
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG
	raw.Iflag &^= unix.IXON
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return nil, err
	}

	return func() {
		unix.IoctlSetTermios(fd, ioctlSetTermios, orig)
	}, nil
}

func stdinFd() int { return int(os.Stdin.Fd()) }
