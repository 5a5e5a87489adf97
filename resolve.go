package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// OperatorChannel is the synchronous request/response surface the resolver
// talks to. Prompts block until the operator answers; there is no timeout,
// the only way out is an explicit cancel response. Implementations: console,
// Slack DM, and a scripted channel in tests.
type OperatorChannel interface {
	Say(msg string)
	Prompt(msg string) (string, error)
}

var (
	ErrEmployeeNotFound   = errors.New("no matching employee found")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// ResolveEmployee narrows a name-based reference to exactly one employee
// number via the operator channel. Zero matches fail, a single match needs a
// "y" confirmation, multiple matches loop on a numbered selection until the
// operator picks a valid index or cancels with "c". The result is either a
// resolved employee number or a terminal error, never a partial answer.
func ResolveEmployee(ch OperatorChannel, matches []Employee, requestedName string) (string, error) {
	if len(matches) == 0 {
		ch.Say(fmt.Sprintf("No employees found matching '%s'", requestedName))
		return "", ErrEmployeeNotFound
	}

	if len(matches) == 1 {
		employee := matches[0]
		confirm, err := ch.Prompt(fmt.Sprintf("Found employee: %s (ID: %s)\nIs this correct? (y/n): ", employee.FullName, employee.EmployeeNumber))
		if err != nil {
			return "", err
		}
		if strings.EqualFold(strings.TrimSpace(confirm), "y") {
			return employee.EmployeeNumber, nil
		}
		return "", ErrSelectionCancelled
	}

	var list strings.Builder
	fmt.Fprintf(&list, "Multiple employees found matching '%s':\n", requestedName)
	for i, employee := range matches {
		fmt.Fprintf(&list, "  %d. %s (ID: %s)\n", i+1, employee.FullName, employee.EmployeeNumber)
	}
	ch.Say(strings.TrimRight(list.String(), "\n"))

	for {
		choice, err := ch.Prompt(fmt.Sprintf("Select employee (1-%d) or 'c' to cancel: ", len(matches)))
		if err != nil {
			return "", err
		}
		choice = strings.TrimSpace(choice)
		if strings.EqualFold(choice, "c") {
			return "", ErrSelectionCancelled
		}

		index, err := strconv.Atoi(choice)
		if err != nil {
			ch.Say("Please enter a valid number or 'c' to cancel")
			continue
		}
		if index < 1 || index > len(matches) {
			ch.Say(fmt.Sprintf("Please enter a number between 1 and %d", len(matches)))
			continue
		}

		selected := matches[index-1]
		ch.Say(fmt.Sprintf("Selected: %s (ID: %s)", selected.FullName, selected.EmployeeNumber))
		return selected.EmployeeNumber, nil
	}
}
