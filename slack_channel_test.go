package main

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
)

type slackPost struct {
	channelID string
	msg       string
}

// postRecorder captures outgoing Slack posts. Say may run on a conversation
// worker goroutine, so access is locked.
type postRecorder struct {
	mu    sync.Mutex
	posts []slackPost
}

func (r *postRecorder) record(channelID, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, slackPost{channelID, msg})
}

func (r *postRecorder) all() []slackPost {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]slackPost(nil), r.posts...)
}

func captureSlackPosts(t *testing.T) *postRecorder {
	t.Helper()
	rec := &postRecorder{}
	orig := slackPostFn
	slackPostFn = func(_ *slack.Client, channelID, msg string) error {
		rec.record(channelID, msg)
		return nil
	}
	t.Cleanup(func() { slackPostFn = orig })
	return rec
}

func newSlackTestDispatcher() *slackDispatcher {
	return newSlackDispatcher(nil, func(ch OperatorChannel) *Session {
		return NewSession(Config{}, nil, nil, ch)
	})
}

func TestSlackChannelSayPostsToOwnChannel(t *testing.T) {
	rec := captureSlackPosts(t)
	ch := newSlackChannel(nil, "C100")

	ch.Say("hello operator")

	posts := rec.all()
	if len(posts) != 1 || posts[0].channelID != "C100" || posts[0].msg != "hello operator" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestSlackChannelPromptReadsInbox(t *testing.T) {
	captureSlackPosts(t)
	ch := newSlackChannel(nil, "C100")

	if !ch.deliver("y") {
		t.Fatal("deliver into an empty inbox failed")
	}
	text, err := ch.Prompt("Is this correct? (y/n)")
	if err != nil {
		t.Fatalf("Prompt error: %v", err)
	}
	if text != "y" {
		t.Fatalf("Prompt returned %q, want y", text)
	}

	close(ch.inbox)
	if _, err := ch.Prompt("again?"); err != io.EOF {
		t.Fatalf("Prompt on closed inbox returned %v, want io.EOF", err)
	}
}

func TestDispatcherRoutesPerConversation(t *testing.T) {
	captureSlackPosts(t)
	d := newSlackTestDispatcher()

	convA, created := d.dispatch("CA", "get my paystub")
	if !created {
		t.Fatal("first message should create the conversation")
	}
	convB, created := d.dispatch("CB", "get my T4")
	if !created {
		t.Fatal("first message on a second channel should create its own conversation")
	}
	again, created := d.dispatch("CA", "for March")
	if created || again != convA {
		t.Fatal("second message on a channel must reuse its conversation")
	}

	if convA == convB || convA.session == convB.session || convA.channel == convB.channel {
		t.Fatal("conversations must not share channel or session state")
	}
	if convA.channel.channelID != "CA" || convB.channel.channelID != "CB" {
		t.Fatalf("channel IDs drifted: %q %q", convA.channel.channelID, convB.channel.channelID)
	}

	if got := <-convA.channel.inbox; got != "get my paystub" {
		t.Fatalf("CA inbox: %q", got)
	}
	if got := <-convA.channel.inbox; got != "for March" {
		t.Fatalf("CA inbox: %q", got)
	}
	if got := <-convB.channel.inbox; got != "get my T4" {
		t.Fatalf("CB inbox: %q", got)
	}
}

func TestDispatcherDoesNotCrossTalkBetweenConversations(t *testing.T) {
	rec := captureSlackPosts(t)
	d := newSlackTestDispatcher()

	convA, _ := d.dispatch("CA", "get paystub for Alex")
	<-convA.channel.inbox

	answer := make(chan string, 1)
	go func() {
		text, _ := convA.channel.Prompt("Did you mean Alex Martin? (y/n)")
		answer <- text
	}()

	// A second operator talking mid-request must not answer A's prompt.
	convB, _ := d.dispatch("CB", "get my T4A")
	d.dispatch("CA", "y")

	select {
	case got := <-answer:
		if got != "y" {
			t.Fatalf("prompt answered with %q, want the CA operator's y", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("prompt never received its answer")
	}

	if got := <-convB.channel.inbox; got != "get my T4A" {
		t.Fatalf("CB message went astray: %q", got)
	}
	for _, p := range rec.all() {
		if p.channelID != "CA" {
			t.Fatalf("post for conversation CA leaked to %s: %q", p.channelID, p.msg)
		}
	}
}

func TestDispatcherDropsWhenInboxFull(t *testing.T) {
	rec := captureSlackPosts(t)
	d := newSlackTestDispatcher()

	conv, _ := d.dispatch("CA", "first")
	for i := 0; i < cap(conv.channel.inbox)-1; i++ {
		d.dispatch("CA", "filler")
	}
	d.dispatch("CA", "one too many")

	if got := len(conv.channel.inbox); got != cap(conv.channel.inbox) {
		t.Fatalf("inbox holds %d messages, want full at %d", got, cap(conv.channel.inbox))
	}
	posts := rec.all()
	if len(posts) != 1 || posts[0].channelID != "CA" {
		t.Fatalf("expected one overflow notice to CA, got %+v", posts)
	}
}
