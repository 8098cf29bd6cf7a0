package main

import (
	"errors"
	"strings"
)

type commandKind int

const (
	cmdNone commandKind = iota
	cmdAdd
	cmdRemove
	cmdRefresh
	cmdQuit
)

// command is one line typed into watch mode.
type command struct {
	kind  commandKind
	url   string
	title string
	ids   []string
}

var errUnknownCommand = errors.New("unknown command (try: add <url> <title>, rm <id>, ls, quit)")

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{kind: cmdNone}, nil
	}

	switch fields[0] {
	case "add", "a":
		if len(fields) < 3 {
			return command{}, errors.New("usage: add <url> <title>")
		}
		return command{kind: cmdAdd, url: fields[1], title: strings.Join(fields[2:], " ")}, nil
	case "rm", "del", "d":
		if len(fields) < 2 {
			return command{}, errors.New("usage: rm <id>...")
		}
		return command{kind: cmdRemove, ids: fields[1:]}, nil
	case "ls", "list":
		return command{kind: cmdRefresh}, nil
	case "quit", "q", "exit":
		return command{kind: cmdQuit}, nil
	}
	return command{}, errUnknownCommand
}
