// Copyright (c) Elliot Nunn
// Licensed under the MIT license

//go:build darwin

package main

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)
