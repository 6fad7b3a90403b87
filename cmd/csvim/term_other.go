// Copyright (c) Elliot Nunn
// Licensed under the MIT license

//go:build !unix

package main

// rawTerminal is a no-op outside of unix: the pager falls back to a
// line-buffered read loop.
func rawTerminal(fd int) (restore func(), err error) {
	return func() {}, nil
}

func stdinFd() int { return 0 }
