package main

import (
	"errors"
	"testing"
)

// scriptedChannel feeds canned answers to prompts and records everything
// said, standing in for a live operator.
type scriptedChannel struct {
	answers []string
	said    []string
	prompts []string
}

func (c *scriptedChannel) Say(msg string) {
	c.said = append(c.said, msg)
}

func (c *scriptedChannel) Prompt(msg string) (string, error) {
	c.prompts = append(c.prompts, msg)
	if len(c.answers) == 0 {
		return "", errors.New("scripted channel exhausted")
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

func twoMatches() []Employee {
	return []Employee{
		{EmployeeNumber: "100001", FullName: "Alex Martin"},
		{EmployeeNumber: "100002", FullName: "Alexandra Stone"},
	}
}

func TestResolveEmployeeZeroMatches(t *testing.T) {
	ch := &scriptedChannel{}
	_, err := ResolveEmployee(ch, nil, "Nobody")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if len(ch.said) == 0 {
		t.Fatal("expected an explicit not-found message, got silence")
	}
}

func TestResolveEmployeeSingleMatchConfirmed(t *testing.T) {
	ch := &scriptedChannel{answers: []string{"Y"}}
	got, err := ResolveEmployee(ch, twoMatches()[:1], "Alex")
	if err != nil {
		t.Fatalf("ResolveEmployee failed: %v", err)
	}
	if got != "100001" {
		t.Fatalf("expected 100001, got %s", got)
	}
}

func TestResolveEmployeeSingleMatchDeclined(t *testing.T) {
	// Anything but "y" is terminal, including "yes".
	for _, answer := range []string{"n", "no", "yes", "maybe", ""} {
		ch := &scriptedChannel{answers: []string{answer}}
		_, err := ResolveEmployee(ch, twoMatches()[:1], "Alex")
		if !errors.Is(err, ErrSelectionCancelled) {
			t.Fatalf("answer %q: expected ErrSelectionCancelled, got %v", answer, err)
		}
	}
}

func TestResolveEmployeeMultipleMatchesValidIndex(t *testing.T) {
	ch := &scriptedChannel{answers: []string{"2"}}
	got, err := ResolveEmployee(ch, twoMatches(), "Alex")
	if err != nil {
		t.Fatalf("ResolveEmployee failed: %v", err)
	}
	if got != "100002" {
		t.Fatalf("expected second record's identifier, got %s", got)
	}
}

func TestResolveEmployeeMultipleMatchesRepromptsOnBadInput(t *testing.T) {
	// Out-of-range and non-numeric answers re-prompt without limit.
	ch := &scriptedChannel{answers: []string{"0", "7", "abc", "1"}}
	got, err := ResolveEmployee(ch, twoMatches(), "Alex")
	if err != nil {
		t.Fatalf("ResolveEmployee failed: %v", err)
	}
	if got != "100001" {
		t.Fatalf("expected 100001 after re-prompts, got %s", got)
	}
	if len(ch.prompts) != 4 {
		t.Fatalf("expected 4 prompts (3 invalid + 1 valid), got %d", len(ch.prompts))
	}
}

func TestResolveEmployeeMultipleMatchesCancel(t *testing.T) {
	ch := &scriptedChannel{answers: []string{"C"}}
	_, err := ResolveEmployee(ch, twoMatches(), "Alex")
	if !errors.Is(err, ErrSelectionCancelled) {
		t.Fatalf("expected ErrSelectionCancelled, got %v", err)
	}
}
